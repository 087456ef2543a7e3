// Package fsutil holds the file modes and small file helpers shared by the
// config, state and localize packages.
package fsutil

// File and directory permission constants.
const (
	FileModeDefault = 0o644 // -rw-r--r--
	FileModeSecure  = 0o640 // -rw-r-----: backup snapshots and boot marker
	FileModeExec    = 0o755 // -rwxr-xr-x: checkrm scripts

	DirModeDefault = 0o755 // drwxr-xr-x
	DirModeSecure  = 0o750 // drwxr-x---: download cache
)

// Package checkrm locates and runs the per-package scripts that may veto
// an upgrade or removal while the package's application is running.
package checkrm

import (
	"os"
	"path/filepath"
)

// BlockedExitCode is the exit status a script uses to report that the
// package's application is running.
const BlockedExitCode = 111

const (
	scriptSuffix = ".checkrm"
	tengoSuffix  = ".checkrm.tengo"
)

// Kind tells how a located script is executed.
type Kind int

const (
	KindNone Kind = iota
	KindProcess
	KindTengo
)

// Script is a located checkrm script.
type Script struct {
	Path string
	Kind Kind
}

// Locator finds scripts, preferring Dir over LegacyDir.
type Locator struct {
	Dir       string
	LegacyDir string
}

// Locate returns the script for name. The lookup order is
// <Dir>/<name>.checkrm, <Dir>/<name>.checkrm.tengo and finally
// <LegacyDir>/<name>.checkrm. A zero Script means there is none.
func (l Locator) Locate(name string) Script {
	var candidates []Script
	if l.Dir != "" {
		candidates = append(candidates,
			Script{Path: filepath.Join(l.Dir, name+scriptSuffix), Kind: KindProcess},
			Script{Path: filepath.Join(l.Dir, name+tengoSuffix), Kind: KindTengo},
		)
	}
	if l.LegacyDir != "" {
		candidates = append(candidates, Script{Path: filepath.Join(l.LegacyDir, name+scriptSuffix), Kind: KindProcess})
	}
	for _, c := range candidates {
		if st, err := os.Stat(c.Path); err == nil && st.Mode().IsRegular() {
			return c
		}
	}
	return Script{}
}

// Package state persists what appmanager must remember across runs: the
// boot-intent marker written right before a reboot and the backup
// snapshots of installed packages.
package state

import (
	"fmt"
	"os"
	"time"

	"github.com/glorpus-work/appmanager/pkg/errors"
	"github.com/glorpus-work/appmanager/pkg/fsutil"
	"gopkg.in/yaml.v3"
)

// IntentSystemUpdate marks a reboot that finishes a system update.
const IntentSystemUpdate = "system-update"

// BootMarker records why the device is about to restart.
type BootMarker struct {
	Intent    string    `yaml:"intent"`
	Package   string    `yaml:"package,omitempty"`
	Version   string    `yaml:"version,omitempty"`
	WrittenAt time.Time `yaml:"written_at"`
}

// WriteBootMarker atomically replaces the marker at path.
func WriteBootMarker(path string, m BootMarker) error {
	if m.Intent == "" {
		m.Intent = IntentSystemUpdate
	}
	if m.WrittenAt.IsZero() {
		m.WrittenAt = time.Now().UTC()
	}
	data, err := yaml.Marshal(&m)
	if err != nil {
		return errors.Wrap(errors.ErrBootMarker, err.Error())
	}
	if err := fsutil.WriteFileAtomic(path, data, fsutil.FileModeSecure); err != nil {
		return errors.Wrap(errors.ErrBootMarker, err.Error())
	}
	return nil
}

// ReadBootMarker returns the marker at path, or nil when there is none.
func ReadBootMarker(path string) (*BootMarker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read boot marker: %w", err)
	}
	var m BootMarker
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse boot marker %s: %w", path, err)
	}
	return &m, nil
}

// ClearBootMarker removes the marker; a missing marker is not an error.
func ClearBootMarker(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove boot marker: %w", err)
	}
	return nil
}

// Package cache inspects and cleans the directory where install-file
// downloads are kept.
package cache

import (
	"os"
	"path/filepath"
	"time"

	"github.com/glorpus-work/appmanager/internal/logger"
	"github.com/glorpus-work/appmanager/pkg/errors"
	"github.com/glorpus-work/appmanager/pkg/fsutil"
	"github.com/glorpus-work/appmanager/pkg/manifest"
)

// DefaultManager implements the Manager interface for a flat download
// directory.
type DefaultManager struct {
	directory string
	now       func() time.Time
}

// NewManager creates a new cache manager.
func NewManager(directory string) *DefaultManager {
	return &DefaultManager{
		directory: directory,
		now:       time.Now,
	}
}

type entry struct {
	path        string
	size        int64
	modTime     time.Time
	instruction bool
}

// Clean removes cached files according to the specified options.
func (cm *DefaultManager) Clean(options CleanOptions) (*CleanResult, error) {
	if cm.directory == "" {
		return nil, errors.ErrCacheDirectory
	}
	if !options.Packages && !options.Instructions {
		options.Packages = true
		options.Instructions = true
	}

	entries, err := cm.scan()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCacheClean, err.Error())
	}

	result := &CleanResult{}
	cutoff := cm.now().Add(-options.OlderThan)
	for _, e := range entries {
		if e.instruction && !options.Instructions || !e.instruction && !options.Packages {
			continue
		}
		if options.OlderThan > 0 && e.modTime.After(cutoff) {
			continue
		}
		if err := os.Remove(e.path); err != nil && !os.IsNotExist(err) {
			return result, errors.Wrapf(errors.ErrCacheClean, "remove %s: %v", e.path, err)
		}
		logger.Debug("Removed cached file", logger.Fields{"path": e.path, "size": e.size})
		result.FilesRemoved++
		result.TotalFreed += e.size
		if e.instruction {
			result.InstructionFreed += e.size
		} else {
			result.PackageFreed += e.size
		}
	}
	return result, nil
}

// GetInfo returns information about the cache.
func (cm *DefaultManager) GetInfo() (*Info, error) {
	if cm.directory == "" {
		return nil, errors.ErrCacheDirectory
	}
	entries, err := cm.scan()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get cache info")
	}

	info := &Info{Directory: cm.directory}
	for _, e := range entries {
		info.TotalSize += e.size
		if e.instruction {
			info.InstructionSize += e.size
			info.InstructionFiles++
		} else {
			info.PackageSize += e.size
			info.PackageFiles++
		}
		if info.Oldest.IsZero() || e.modTime.Before(info.Oldest) {
			info.Oldest = e.modTime
		}
	}
	return info, nil
}

// GetDirectory returns the cache directory path.
func (cm *DefaultManager) GetDirectory() string {
	return cm.directory
}

// Ensure creates the cache directory.
func (cm *DefaultManager) Ensure() error {
	if cm.directory == "" {
		return errors.ErrCacheDirectory
	}
	return os.MkdirAll(cm.directory, fsutil.DirModeSecure)
}

// scan lists the regular files below the cache directory. A missing
// directory is an empty cache.
func (cm *DefaultManager) scan() ([]entry, error) {
	var out []entry
	if _, err := os.Stat(cm.directory); os.IsNotExist(err) {
		return nil, nil
	}

	err := filepath.Walk(cm.directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		out = append(out, entry{
			path:        path,
			size:        info.Size(),
			modTime:     info.ModTime(),
			instruction: manifest.IsInstructionFile(path),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error walking directory %s", cm.directory)
	}
	return out, nil
}

package cache

import "time"

// Manager defines the interface for download cache operations.
type Manager interface {
	Clean(options CleanOptions) (*CleanResult, error)
	GetInfo() (*Info, error)
	GetDirectory() string
}

// CleanOptions specifies what to clean from the cache. With neither flag
// set everything is removed.
type CleanOptions struct {
	Packages     bool
	Instructions bool
	// OlderThan keeps files modified more recently than this age.
	OlderThan time.Duration
}

// CleanResult contains information about what was cleaned.
type CleanResult struct {
	TotalFreed       int64
	PackageFreed     int64
	InstructionFreed int64
	FilesRemoved     int
}

// Info represents cache information.
type Info struct {
	Directory        string
	TotalSize        int64
	PackageSize      int64
	PackageFiles     int
	InstructionSize  int64
	InstructionFiles int
	Oldest           time.Time
}

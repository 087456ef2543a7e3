// Package download fetches remote files handed to install-file.
package download

import (
	"context"
	"net/url"
	"time"
)

// Manager downloads remote files such as packages handed to install-file.
type Manager interface {
	// Fetch downloads a single item into opts.Dir and returns the absolute
	// local file path.
	Fetch(ctx context.Context, item Item, opts Options) (string, error)
}

// Item represents one remote resource to download.
type Item struct {
	ID       string   // stable identifier used in log lines
	URL      *url.URL // source URL to download
	Checksum string   // optional hex-encoded SHA-256 checksum
	Filename string   // optional preferred filename; if empty, a name will be derived
}

// Options control a single fetch.
type Options struct {
	Dir string // destination directory. Must be absolute.

	// Retries is how many more attempts are made after a network error or
	// a 5xx reply. Other failures are not retried.
	Retries    int
	RetryDelay time.Duration

	// MaxSize rejects bodies larger than this many bytes when positive.
	MaxSize int64

	// Progress is called as bytes arrive; total is -1 when the server
	// sends no length.
	Progress func(written, total int64)
}

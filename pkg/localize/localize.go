// Package localize turns a file reference given to install-file into a
// path on the local filesystem, downloading remote files first.
package localize

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/glorpus-work/appmanager/internal/logger"
	"github.com/glorpus-work/appmanager/pkg/download"
	"github.com/glorpus-work/appmanager/pkg/errors"
)

const (
	fetchRetries    = 2
	fetchRetryDelay = time.Second
)

// Localizer resolves file references.
type Localizer struct {
	DL  download.Manager
	Dir string // absolute download directory for remote files
}

// New creates a Localizer that stores downloads in dir.
func New(dl download.Manager, dir string) *Localizer {
	return &Localizer{DL: dl, Dir: dir}
}

// Localize returns a local path for ref. Plain paths and file:// URLs are
// checked for existence; http(s) URLs are downloaded.
func (l *Localizer) Localize(ctx context.Context, ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// no scheme, or a windows drive letter
		return checkLocal(ref)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return checkLocal(u.Path)
	case "http", "https":
		if l.DL == nil {
			return "", errors.Wrapf(errors.ErrLocalize, "no downloader for %s", ref)
		}
		name := path.Base(u.Path)
		if name == "" || name == "/" || name == "." {
			name = ""
		}
		logger.Debugf("Downloading %s", ref)
		local, err := l.DL.Fetch(ctx, download.Item{ID: ref, URL: u, Filename: name}, download.Options{
			Dir:        l.Dir,
			Retries:    fetchRetries,
			RetryDelay: fetchRetryDelay,
		})
		if err != nil {
			return "", errors.Wrapf(errors.ErrLocalize, "%s: %v", ref, err)
		}
		return local, nil
	default:
		return "", errors.Wrapf(errors.ErrLocalize, "unsupported scheme %q", u.Scheme)
	}
}

func checkLocal(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", errors.Wrapf(errors.ErrLocalize, "%s: %v", p, err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return "", errors.Wrapf(errors.ErrLocalize, "%s: %v", p, err)
	}
	if st.IsDir() {
		return "", errors.Wrapf(errors.ErrLocalize, "%s is a directory", p)
	}
	return abs, nil
}

// LocalizeAsync runs Localize in the background and hands the outcome to
// reply from that goroutine.
func (l *Localizer) LocalizeAsync(ctx context.Context, ref string, reply func(string, error)) {
	go func() {
		reply(l.Localize(ctx, ref))
	}()
}

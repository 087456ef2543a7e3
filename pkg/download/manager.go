package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glorpus-work/appmanager/internal/logger"
	pkgerrors "github.com/glorpus-work/appmanager/pkg/errors"
	"github.com/glorpus-work/appmanager/pkg/fsutil"
)

// partSuffix marks a download in progress.
const partSuffix = ".part"

// HTTPManager downloads over http(s) with optional checksum verification.
// Files already present at their target path are reused.
type HTTPManager struct {
	client    *http.Client
	userAgent string
}

// NewManager creates a new download manager with the given timeout and user agent.
func NewManager(timeout time.Duration, userAgent string) *HTTPManager {
	if userAgent == "" {
		userAgent = "appmanager/1.0"
	}
	return &HTTPManager{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// temporaryError marks failures worth another attempt.
type temporaryError struct{ err error }

func (e temporaryError) Error() string { return e.err.Error() }
func (e temporaryError) Unwrap() error { return e.err }

// Fetch downloads a single item and returns the path to the downloaded file.
func (m *HTTPManager) Fetch(ctx context.Context, item Item, opts Options) (string, error) {
	if opts.Dir == "" || !filepath.IsAbs(opts.Dir) {
		return "", fmt.Errorf("download dir must be absolute: %s: %w", opts.Dir, pkgerrors.ErrInvalidPath)
	}
	if item.URL == nil {
		return "", fmt.Errorf("nil URL: %w", pkgerrors.ErrDownloadFailed)
	}
	name, err := targetName(item)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(opts.Dir, fsutil.DirModeSecure); err != nil {
		return "", pkgerrors.Wrap(err, "could not create download dir")
	}

	target := filepath.Join(opts.Dir, name)
	if reusable(target, item.Checksum) {
		logger.Debug("Reusing downloaded file", logger.Fields{"id": item.ID, "path": target})
		return target, nil
	}

	for attempt := 0; ; attempt++ {
		err = m.fetchTo(ctx, item, target, opts)
		var tmp temporaryError
		if err == nil || !pkgerrors.As(err, &tmp) || attempt >= opts.Retries {
			break
		}
		logger.Warn("Download failed, retrying", logger.Fields{"id": item.ID, "attempt": attempt + 1, "error": err.Error()})
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(opts.RetryDelay):
		}
	}
	if err != nil {
		return "", err
	}
	return target, nil
}

// fetchTo performs one attempt, writing to a .part file next to target.
func (m *HTTPManager) fetchTo(ctx context.Context, item Item, target string, opts Options) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.URL.String(), http.NoBody)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", m.userAgent)

	resp, err := m.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return temporaryError{pkgerrors.Wrap(pkgerrors.ErrDownloadFailed, err.Error())}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return temporaryError{fmt.Errorf("unexpected status code: %d: %w", resp.StatusCode, pkgerrors.ErrDownloadFailed)}
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status code: %d: %w", resp.StatusCode, pkgerrors.ErrDownloadFailed)
	}
	if opts.MaxSize > 0 && resp.ContentLength > opts.MaxSize {
		return fmt.Errorf("%s is %d bytes, limit is %d: %w", item.URL, resp.ContentLength, opts.MaxSize, pkgerrors.ErrDownloadFailed)
	}

	part := target + partSuffix
	if err := writeBody(resp.Body, part, resp.ContentLength, opts); err != nil {
		_ = os.Remove(part)
		return err
	}
	if item.Checksum != "" {
		ok, err := verifySHA256(part, item.Checksum)
		if err != nil || !ok {
			_ = os.Remove(part)
		}
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("checksum mismatch for %s: %w", item.URL, pkgerrors.ErrFileHashMismatch)
		}
	}
	if err := os.Rename(part, target); err != nil {
		_ = os.Remove(part)
		return pkgerrors.Wrap(err, "could not finalize file")
	}
	return os.Chmod(target, fsutil.FileModeSecure)
}

func writeBody(body io.Reader, path string, total int64, opts Options) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fsutil.FileModeSecure)
	if err != nil {
		return pkgerrors.Wrap(err, "could not create file")
	}

	var w io.Writer = f
	if opts.Progress != nil {
		w = &progressWriter{w: f, total: total, report: opts.Progress}
	}
	if opts.MaxSize > 0 {
		// one extra byte detects bodies that lied about their length
		body = io.LimitReader(body, opts.MaxSize+1)
	}

	n, err := io.Copy(w, body)
	if err == nil && opts.MaxSize > 0 && n > opts.MaxSize {
		err = fmt.Errorf("body exceeds %d bytes: %w", opts.MaxSize, pkgerrors.ErrDownloadFailed)
	}
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return pkgerrors.Wrap(err, "could not write file")
	}
	return nil
}

type progressWriter struct {
	w       io.Writer
	written int64
	total   int64
	report  func(written, total int64)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	p.report(p.written, p.total)
	return n, err
}

// targetName picks the local file name: the item's own, else the
// checksum, else a hash of the URL.
func targetName(item Item) (string, error) {
	name := item.Filename
	switch {
	case name != "":
		if name != filepath.Base(name) || name == ".." || name == "." {
			return "", fmt.Errorf("filename %q: %w", name, pkgerrors.ErrInvalidPath)
		}
	case item.Checksum != "":
		name = normalizeHex(item.Checksum)
	default:
		h := sha256.Sum256([]byte(item.URL.String()))
		name = hex.EncodeToString(h[:])
	}
	return name, nil
}

func reusable(path, checksum string) bool {
	st, err := os.Stat(path)
	if err != nil || st.Size() == 0 {
		return false
	}
	if checksum == "" {
		return true
	}
	ok, err := verifySHA256(path, checksum)
	return err == nil && ok
}

func verifySHA256(path string, wantHex string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, pkgerrors.Wrap(err, "open for checksum")
	}
	defer func() { _ = f.Close() }()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return false, pkgerrors.Wrap(err, "hashing")
	}
	return hex.EncodeToString(h.Sum(nil)) == normalizeHex(wantHex), nil
}

func normalizeHex(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

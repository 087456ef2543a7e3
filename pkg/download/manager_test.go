package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	pkgerrors "github.com/glorpus-work/appmanager/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.HandlerFunc) *url.URL {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL + "/viewer_1.0_armel.deb")
	require.NoError(t, err)
	return u
}

func sha(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

func TestNewManager(t *testing.T) {
	m := NewManager(time.Second, "")
	assert.Equal(t, time.Second, m.client.Timeout)
	assert.Equal(t, "appmanager/1.0", m.userAgent)

	m = NewManager(2*time.Second, "test-agent/1.0")
	assert.Equal(t, "test-agent/1.0", m.userAgent)
}

func TestFetch_SingleFile(t *testing.T) {
	var agent string
	u := serve(t, func(w http.ResponseWriter, r *http.Request) {
		agent = r.UserAgent()
		_, _ = w.Write([]byte("package"))
	})
	dir := t.TempDir()

	path, err := NewManager(time.Second, "ua/1").Fetch(context.Background(), Item{ID: "viewer", URL: u, Filename: "viewer.deb"}, Options{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "viewer.deb"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package", string(data))
	assert.Equal(t, "ua/1", agent)

	_, err = os.Stat(path + partSuffix)
	assert.True(t, os.IsNotExist(err), "part file must not survive")
}

func TestFetch_DerivedNames(t *testing.T) {
	u := serve(t, func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("data")) })
	m := NewManager(time.Second, "")
	dir := t.TempDir()

	path, err := m.Fetch(context.Background(), Item{URL: u, Checksum: sha("data")}, Options{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, sha("data"), filepath.Base(path))

	path, err = m.Fetch(context.Background(), Item{URL: u}, Options{Dir: dir})
	require.NoError(t, err)
	assert.Len(t, filepath.Base(path), sha256.Size*2)
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		item    func(u *url.URL) Item
		opts    Options
		wantErr error
	}{
		{
			name:    "not found",
			status:  http.StatusNotFound,
			item:    func(u *url.URL) Item { return Item{URL: u} },
			wantErr: pkgerrors.ErrDownloadFailed,
		},
		{
			name:    "checksum mismatch",
			status:  http.StatusOK,
			item:    func(u *url.URL) Item { return Item{URL: u, Checksum: sha("other")} },
			wantErr: pkgerrors.ErrFileHashMismatch,
		},
		{
			name:    "too large",
			status:  http.StatusOK,
			item:    func(u *url.URL) Item { return Item{URL: u} },
			opts:    Options{MaxSize: 3},
			wantErr: pkgerrors.ErrDownloadFailed,
		},
		{
			name:    "nil url",
			status:  http.StatusOK,
			item:    func(*url.URL) Item { return Item{} },
			wantErr: pkgerrors.ErrDownloadFailed,
		},
		{
			name:    "filename escapes the directory",
			status:  http.StatusOK,
			item:    func(u *url.URL) Item { return Item{URL: u, Filename: "../evil"} },
			wantErr: pkgerrors.ErrInvalidPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := serve(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("content"))
			})
			dir := t.TempDir()
			tt.opts.Dir = dir

			_, err := NewManager(time.Second, "").Fetch(context.Background(), tt.item(u), tt.opts)
			require.ErrorIs(t, err, tt.wantErr)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries, "failed downloads leave nothing behind")
		})
	}
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	u := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})

	_, err := NewManager(time.Second, "").Fetch(context.Background(), Item{URL: u}, Options{Dir: t.TempDir(), Retries: 1})
	require.ErrorIs(t, err, pkgerrors.ErrDownloadFailed)
	assert.Equal(t, int32(2), calls.Load())

	calls.Store(0)
	_, err = NewManager(time.Second, "").Fetch(context.Background(), Item{URL: u}, Options{Dir: t.TempDir(), Retries: 2})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetch_ClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	u := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := NewManager(time.Second, "").Fetch(context.Background(), Item{URL: u}, Options{Dir: t.TempDir(), Retries: 3})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_Progress(t *testing.T) {
	body := "0123456789"
	u := serve(t, func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(body)) })

	var last, total int64
	_, err := NewManager(time.Second, "").Fetch(context.Background(), Item{URL: u}, Options{
		Dir:      t.TempDir(),
		Progress: func(written, n int64) { last, total = written, n },
	})
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), last)
	assert.Equal(t, int64(len(body)), total)
}

func TestFetch_ReusesExistingFile(t *testing.T) {
	var calls atomic.Int32
	u := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("fresh"))
	})
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "viewer.deb"), []byte("cached"), 0o600))

	path, err := NewManager(time.Second, "").Fetch(context.Background(), Item{URL: u, Filename: "viewer.deb"}, Options{Dir: dir})
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "cached", string(data))
	assert.Zero(t, calls.Load())

	// a stale file with the wrong checksum is replaced
	path, err = NewManager(time.Second, "").Fetch(context.Background(), Item{URL: u, Filename: "viewer.deb", Checksum: sha("fresh")}, Options{Dir: dir})
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
}

func TestFetch_RelativeDir(t *testing.T) {
	_, err := NewManager(time.Second, "").Fetch(context.Background(), Item{URL: &url.URL{Scheme: "http", Host: "x"}}, Options{Dir: "relative"})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidPath)
}

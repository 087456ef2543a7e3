package localize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/appmanager/pkg/download"
	"github.com/glorpus-work/appmanager/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDownloader struct {
	items []download.Item
	opts  download.Options
	err   error
}

func (f *fakeDownloader) Fetch(_ context.Context, item download.Item, opts download.Options) (string, error) {
	f.items = append(f.items, item)
	f.opts = opts
	if f.err != nil {
		return "", f.err
	}
	return filepath.Join(opts.Dir, item.Filename), nil
}

func TestLocalize_LocalPaths(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "viewer.deb")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	l := New(nil, dir)

	got, err := l.Localize(context.Background(), file)
	require.NoError(t, err)
	assert.Equal(t, file, got)

	got, err = l.Localize(context.Background(), "file://"+file)
	require.NoError(t, err)
	assert.Equal(t, file, got)

	_, err = l.Localize(context.Background(), filepath.Join(dir, "absent.deb"))
	assert.ErrorIs(t, err, errors.ErrLocalize)

	_, err = l.Localize(context.Background(), dir)
	assert.ErrorIs(t, err, errors.ErrLocalize)
}

func TestLocalize_Remote(t *testing.T) {
	dl := &fakeDownloader{}
	l := New(dl, "/cache/downloads")

	got, err := l.Localize(context.Background(), "https://example.org/pool/viewer_1.0.deb")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/cache/downloads", "viewer_1.0.deb"), got)
	require.Len(t, dl.items, 1)
	assert.Equal(t, "example.org", dl.items[0].URL.Host)
	assert.Equal(t, "/cache/downloads", dl.opts.Dir)
	assert.Equal(t, fetchRetries, dl.opts.Retries)

	dl.err = fmt.Errorf("boom")
	_, err = l.Localize(context.Background(), "http://example.org/x.install")
	assert.ErrorIs(t, err, errors.ErrLocalize)

	_, err = l.Localize(context.Background(), "ftp://example.org/x.deb")
	assert.ErrorIs(t, err, errors.ErrLocalize)
}

func TestLocalizeAsync(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "viewer.install")
	require.NoError(t, os.WriteFile(file, []byte("[install]\npackage = viewer\n"), 0o644))

	done := make(chan string, 1)
	New(nil, dir).LocalizeAsync(context.Background(), file, func(p string, err error) {
		assert.NoError(t, err)
		done <- p
	})
	assert.Equal(t, file, <-done)
}

package cache_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glorpus-work/appmanager/pkg/cache"
	"github.com/glorpus-work/appmanager/pkg/errors"
	"github.com/glorpus-work/appmanager/pkg/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T, dir string) {
	t.Helper()

	files := map[string]string{
		"viewer_1.0_armel.deb":     "package-data-viewer",
		"nested/editor_2.1.deb":    "package-data",
		"extras.install":           "[install]\npackage = viewer\n",
		"nested/catalogue.install": "[install]\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, fsutil.EnsureFileDir(path))
		require.NoError(t, os.WriteFile(path, []byte(content), fsutil.FileModeDefault))
	}
}

func TestGetInfo(t *testing.T) {
	tempDir := t.TempDir()
	setupTestCache(t, tempDir)

	info, err := cache.NewManager(tempDir).GetInfo()
	require.NoError(t, err)

	assert.Equal(t, tempDir, info.Directory)
	assert.Equal(t, 2, info.PackageFiles)
	assert.Equal(t, 2, info.InstructionFiles)
	assert.Equal(t, int64(len("package-data-viewer")+len("package-data")), info.PackageSize)
	assert.Equal(t, info.PackageSize+info.InstructionSize, info.TotalSize)
	assert.False(t, info.Oldest.IsZero())
}

func TestGetInfo_MissingDirectory(t *testing.T) {
	mgr := cache.NewManager(filepath.Join(t.TempDir(), "nonexistent"))

	info, err := mgr.GetInfo()
	require.NoError(t, err)
	assert.Zero(t, info.TotalSize)
	assert.True(t, info.Oldest.IsZero())
}

func TestEmptyDirectory(t *testing.T) {
	mgr := cache.NewManager("")

	_, err := mgr.GetInfo()
	require.ErrorIs(t, err, errors.ErrCacheDirectory)

	_, err = mgr.Clean(cache.CleanOptions{})
	require.ErrorIs(t, err, errors.ErrCacheDirectory)

	require.ErrorIs(t, mgr.Ensure(), errors.ErrCacheDirectory)
}

func TestCleanAll(t *testing.T) {
	tempDir := t.TempDir()
	setupTestCache(t, tempDir)
	mgr := cache.NewManager(tempDir)

	before, err := mgr.GetInfo()
	require.NoError(t, err)

	result, err := mgr.Clean(cache.CleanOptions{})
	require.NoError(t, err)

	assert.Equal(t, 4, result.FilesRemoved)
	assert.Equal(t, before.TotalSize, result.TotalFreed)
	assert.Equal(t, result.PackageFreed+result.InstructionFreed, result.TotalFreed)

	after, err := mgr.GetInfo()
	require.NoError(t, err)
	assert.Zero(t, after.TotalSize)

	_, err = os.Stat(tempDir)
	require.NoError(t, err, "the cache directory itself survives")
}

func TestCleanPackagesOnly(t *testing.T) {
	tempDir := t.TempDir()
	setupTestCache(t, tempDir)
	mgr := cache.NewManager(tempDir)

	result, err := mgr.Clean(cache.CleanOptions{Packages: true})
	require.NoError(t, err)
	assert.Equal(t, 2, result.FilesRemoved)
	assert.Zero(t, result.InstructionFreed)

	_, err = os.Stat(filepath.Join(tempDir, "extras.install"))
	require.NoError(t, err, "instruction file should still exist")
	_, err = os.Stat(filepath.Join(tempDir, "viewer_1.0_armel.deb"))
	assert.True(t, os.IsNotExist(err), "package file should be deleted")
}

func TestCleanOlderThan(t *testing.T) {
	tempDir := t.TempDir()
	setupTestCache(t, tempDir)

	old := time.Now().Add(-48 * time.Hour)
	stale := filepath.Join(tempDir, "viewer_1.0_armel.deb")
	require.NoError(t, os.Chtimes(stale, old, old))

	mgr := cache.NewManager(tempDir)
	result, err := mgr.Clean(cache.CleanOptions{OlderThan: 24 * time.Hour})
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesRemoved)
	assert.Equal(t, int64(len("package-data-viewer")), result.PackageFreed)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(tempDir, "nested", "editor_2.1.deb"))
	require.NoError(t, err)
}

func TestEnsure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	mgr := cache.NewManager(dir)

	require.NoError(t, mgr.Ensure())
	st, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, st.IsDir())
	assert.Equal(t, dir, mgr.GetDirectory())
}

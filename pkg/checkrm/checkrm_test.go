package checkrm_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glorpus-work/appmanager/pkg/checkrm"
	"github.com/glorpus-work/appmanager/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func TestLocator_Precedence(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "new")
	legacy := filepath.Join(root, "legacy")
	loc := checkrm.Locator{Dir: dir, LegacyDir: legacy}

	assert.Equal(t, checkrm.KindNone, loc.Locate("foo").Kind)

	legacyPath := writeScript(t, legacy, "foo.checkrm", "#!/bin/sh\nexit 0\n")
	assert.Equal(t, checkrm.Script{Path: legacyPath, Kind: checkrm.KindProcess}, loc.Locate("foo"))

	tengoPath := writeScript(t, dir, "foo.checkrm.tengo", "exit_code = 0")
	assert.Equal(t, checkrm.Script{Path: tengoPath, Kind: checkrm.KindTengo}, loc.Locate("foo"))

	newPath := writeScript(t, dir, "foo.checkrm", "#!/bin/sh\nexit 0\n")
	assert.Equal(t, checkrm.Script{Path: newPath, Kind: checkrm.KindProcess}, loc.Locate("foo"))
}

func TestRunner_ProcessExitCodes(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("requires /bin/sh")
	}
	dir := t.TempDir()
	writeScript(t, dir, "busy.checkrm", "#!/bin/sh\n[ \"$1\" = upgrade ] && [ \"$2\" = 2.0 ] && exit 111\nexit 3\n")
	writeScript(t, dir, "idle.checkrm", "#!/bin/sh\necho checked \"$1\"\nexit 0\n")

	r := checkrm.NewRunner(checkrm.Locator{Dir: dir})
	ctx := context.Background()

	t.Run("exit 111 blocks", func(t *testing.T) {
		res, err := r.Run(ctx, "busy", checkrm.UpgradeParams("2.0"))
		require.NoError(t, err)
		assert.True(t, res.Blocked())
		assert.False(t, res.Passed())
	})

	t.Run("other failures do not block", func(t *testing.T) {
		res, err := r.Run(ctx, "busy", checkrm.RemoveParams())
		require.NoError(t, err)
		assert.Equal(t, 3, res.Exit)
		assert.False(t, res.Blocked())
		assert.False(t, res.Passed())
	})

	t.Run("success passes", func(t *testing.T) {
		res, err := r.Run(ctx, "idle", checkrm.RemoveParams())
		require.NoError(t, err)
		assert.True(t, res.Passed())
		assert.Contains(t, res.Output, "checked remove")
	})

	t.Run("missing script passes", func(t *testing.T) {
		res, err := r.Run(ctx, "absent", checkrm.RemoveParams())
		require.NoError(t, err)
		assert.False(t, res.Ran())
		assert.True(t, res.Passed())
		assert.False(t, res.Blocked())
	})
}

func TestRunner_Tengo(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "viewer.checkrm.tengo", `
if operation == "remove" && package == "viewer" {
	exit_code = 111
}
`)
	writeScript(t, dir, "broken.checkrm.tengo", `err = "cannot inspect processes"`)

	r := checkrm.NewRunner(checkrm.Locator{Dir: dir})

	res, err := r.Run(context.Background(), "viewer", checkrm.RemoveParams())
	require.NoError(t, err)
	assert.True(t, res.Blocked())

	res, err = r.Run(context.Background(), "viewer", checkrm.UpgradeParams("1.1"))
	require.NoError(t, err)
	assert.True(t, res.Passed())

	_, err = r.Run(context.Background(), "broken", checkrm.RemoveParams())
	assert.ErrorIs(t, err, errors.ErrCheckrmScript)
}

func TestRunner_CheckDeliversAsync(t *testing.T) {
	r := checkrm.NewRunner(checkrm.Locator{Dir: t.TempDir()})
	done := make(chan checkrm.Result, 1)

	r.Check(context.Background(), "absent", checkrm.RemoveParams(), func(res checkrm.Result, err error) {
		assert.NoError(t, err)
		done <- res
	})

	select {
	case res := <-done:
		assert.False(t, res.Ran())
	case <-time.After(5 * time.Second):
		t.Fatal("reply not delivered")
	}
}

package backend

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/glorpus-work/appmanager/pkg/errors"
	"github.com/glorpus-work/appmanager/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWorker answers requests with canned results keyed by command.
type fakeWorker struct {
	answers map[string]any
	errs    map[string]string
	silent  map[string]bool
	seen    chan request
}

func (f *fakeWorker) serve(r io.Reader, w io.WriteCloser) {
	defer w.Close()
	sc := bufio.NewScanner(r)
	enc := json.NewEncoder(w)
	for sc.Scan() {
		var req request
		if err := json.Unmarshal(sc.Bytes(), &req); err != nil {
			continue
		}
		if f.seen != nil {
			f.seen <- req
		}
		if f.silent[req.Cmd] {
			continue
		}
		resp := map[string]any{"id": req.ID}
		if msg, ok := f.errs[req.Cmd]; ok {
			resp["error"] = msg
		} else if a, ok := f.answers[req.Cmd]; ok {
			resp["result"] = a
		}
		_ = enc.Encode(resp)
	}
}

func startClient(t *testing.T, f *fakeWorker) *WorkerClient {
	t.Helper()
	toWorkerR, toWorkerW := io.Pipe()
	fromWorkerR, fromWorkerW := io.Pipe()
	go f.serve(toWorkerR, fromWorkerW)

	c := NewWorkerClient(context.Background(), NewStreamTransport(fromWorkerR, toWorkerW))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func wait[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reply")
	}
	var zero T
	return zero
}

func TestWorkerClient_TypedReplies(t *testing.T) {
	c := startClient(t, &fakeWorker{answers: map[string]any{
		CmdInstallCheck: map[string]any{
			"success":  true,
			"trust":    []map[string]any{{"status": "domains_violated", "name": "viewer"}},
			"upgrades": []map[string]any{{"name": "libview", "version": "2.0"}},
		},
		CmdFreeSpace:   map[string]any{"bytes": 4096},
		CmdDownload:    map[string]any{"result": "success", "size": 10, "alt_root": "/media/mmc1"},
		CmdInstall:     map[string]any{"result": "out_of_space"},
		CmdPackageInfo: map[string]any{"name": "viewer", "installable_status": "able", "install_flags": 1},
		CmdRemoveCheck: map[string]any{"scripts": []string{"viewer", "viewer-data"}},
	}})

	checks := make(chan *InstallCheckResult, 1)
	c.InstallCheck(context.Background(), "viewer", func(r *InstallCheckResult, err error) {
		assert.NoError(t, err)
		checks <- r
	})
	check := wait(t, checks)
	assert.True(t, check.Success)
	assert.True(t, check.Untrusted())
	assert.True(t, check.DomainsViolated())
	assert.Equal(t, []model.UpgradeTarget{{Name: "libview", Version: "2.0"}}, check.Upgrades)

	free := make(chan int64, 1)
	c.FreeSpace(context.Background(), func(n int64, err error) {
		assert.NoError(t, err)
		free <- n
	})
	assert.Equal(t, int64(4096), wait(t, free))

	dls := make(chan *DownloadResult, 1)
	c.Download(context.Background(), "viewer", func(r *DownloadResult, err error) {
		assert.NoError(t, err)
		dls <- r
	})
	dl := wait(t, dls)
	assert.Equal(t, model.ResultSuccess, dl.Code)
	assert.Equal(t, "/media/mmc1", dl.AltRoot)

	codes := make(chan model.ResultCode, 1)
	c.Install(context.Background(), "viewer", "", func(code model.ResultCode, err error) {
		assert.NoError(t, err)
		codes <- code
	})
	assert.Equal(t, model.ResultOutOfSpace, wait(t, codes))

	infos := make(chan *model.PackageRecord, 1)
	c.PackageInfo(context.Background(), "viewer", func(p *model.PackageRecord, err error) {
		assert.NoError(t, err)
		infos <- p
	})
	info := wait(t, infos)
	assert.Equal(t, model.StatusAble, info.InstallableStatus)
	assert.True(t, info.NeedsReboot())

	scripts := make(chan []string, 1)
	c.RemoveCheck(context.Background(), "viewer", func(s []string, err error) {
		assert.NoError(t, err)
		scripts <- s
	})
	assert.Equal(t, []string{"viewer", "viewer-data"}, wait(t, scripts))
}

func TestWorkerClient_ErrorReply(t *testing.T) {
	c := startClient(t, &fakeWorker{errs: map[string]string{CmdRemove: "dpkg lock held"}})

	errs := make(chan error, 1)
	c.Remove(context.Background(), "viewer", func(ok bool, err error) {
		assert.False(t, ok)
		errs <- err
	})
	err := wait(t, errs)
	assert.ErrorIs(t, err, errors.ErrBackendCommand)
	assert.Contains(t, err.Error(), "dpkg lock held")
}

func TestWorkerClient_MalformedResult(t *testing.T) {
	c := startClient(t, &fakeWorker{answers: map[string]any{CmdFreeSpace: "lots"}})

	errs := make(chan error, 1)
	c.FreeSpace(context.Background(), func(_ int64, err error) { errs <- err })
	assert.ErrorIs(t, wait(t, errs), errors.ErrBackendReply)
}

func TestWorkerClient_ContextCancelled(t *testing.T) {
	seen := make(chan request, 1)
	c := startClient(t, &fakeWorker{silent: map[string]bool{CmdReboot: true}, seen: seen})

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	c.Reboot(ctx, func(err error) { errs <- err })

	req := wait(t, seen)
	assert.Equal(t, CmdReboot, req.Cmd)
	cancel()
	assert.ErrorIs(t, wait(t, errs), context.Canceled)
}

func TestWorkerClient_CloseFailsPending(t *testing.T) {
	c := startClient(t, &fakeWorker{silent: map[string]bool{CmdAutoremove: true}})

	errs := make(chan error, 2)
	c.Autoremove(context.Background(), func(err error) { errs <- err })
	require.NoError(t, c.Close())
	assert.ErrorIs(t, wait(t, errs), errors.ErrWorkerClosed)

	c.Clean(context.Background(), func(err error) { errs <- err })
	assert.ErrorIs(t, wait(t, errs), errors.ErrWorkerClosed)
}

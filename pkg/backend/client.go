package backend

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/glorpus-work/appmanager/internal/logger"
	"github.com/glorpus-work/appmanager/pkg/errors"
	"github.com/glorpus-work/appmanager/pkg/model"
	"golang.org/x/sync/errgroup"
)

type replyFunc func(result json.RawMessage, err error)

// WorkerClient multiplexes asynchronous requests over a Transport. Replies
// are matched to requests by id; callbacks run on the reader goroutine.
type WorkerClient struct {
	t  Transport
	eg *errgroup.Group

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]replyFunc
	closed  bool
}

// NewWorkerClient starts reading replies from t. The client closes itself
// when ctx is done.
func NewWorkerClient(ctx context.Context, t Transport) *WorkerClient {
	c := &WorkerClient{t: t, eg: new(errgroup.Group), pending: make(map[uint64]replyFunc)}
	c.eg.Go(c.readLoop)
	context.AfterFunc(ctx, func() { _ = c.Close() })
	return c
}

// Close shuts the transport down and fails every outstanding request.
func (c *WorkerClient) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	err := c.t.Close()
	if werr := c.eg.Wait(); err == nil {
		err = werr
	}
	return err
}

func (c *WorkerClient) readLoop() error {
	for line := range c.t.Lines() {
		var resp response
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			logger.Warnf("Ignoring malformed worker reply: %v", err)
			continue
		}
		reply := c.take(resp.ID)
		if reply == nil {
			logger.Debugf("Dropping reply for unknown request %d", resp.ID)
			continue
		}
		if resp.Error != "" {
			reply(nil, errors.Wrap(errors.ErrBackendCommand, resp.Error))
			continue
		}
		reply(resp.Result, nil)
	}

	c.mu.Lock()
	c.closed = true
	pending := c.pending
	c.pending = make(map[uint64]replyFunc)
	c.mu.Unlock()
	for _, reply := range pending {
		reply(nil, errors.ErrWorkerClosed)
	}
	return nil
}

func (c *WorkerClient) take(id uint64) replyFunc {
	c.mu.Lock()
	defer c.mu.Unlock()
	reply, ok := c.pending[id]
	if !ok {
		return nil
	}
	delete(c.pending, id)
	return reply
}

// call sends cmd and arranges for reply to run exactly once: with the
// worker's answer, with ctx's error, or with ErrWorkerClosed.
func (c *WorkerClient) call(ctx context.Context, cmd string, args any, reply replyFunc) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		go reply(nil, errors.ErrWorkerClosed)
		return
	}
	c.nextID++
	id := c.nextID

	var stop func() bool
	c.pending[id] = func(result json.RawMessage, err error) {
		if stop != nil {
			stop()
		}
		reply(result, err)
	}
	stop = context.AfterFunc(ctx, func() {
		if r := c.take(id); r != nil {
			r(nil, ctx.Err())
		}
	})
	c.mu.Unlock()

	line, err := json.Marshal(request{ID: id, Cmd: cmd, Args: args})
	if err == nil {
		logger.DebugfWithFields(logger.Fields{"id": id, "cmd": cmd}, "-> worker")
		err = c.t.Send(line)
	}
	if err != nil {
		if r := c.take(id); r != nil {
			go r(nil, err)
		}
	}
}

// decode unmarshals result into a fresh T.
func decode[T any](result json.RawMessage, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	out := new(T)
	if len(result) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(result, out); err != nil {
		return nil, errors.Wrap(errors.ErrBackendReply, err.Error())
	}
	return out, nil
}

// InstallCheck reports trust verdicts and side-effect upgrades for name.
func (c *WorkerClient) InstallCheck(ctx context.Context, name string, reply func(*InstallCheckResult, error)) {
	c.call(ctx, CmdInstallCheck, nameArgs{Name: name}, func(r json.RawMessage, err error) {
		reply(decode[InstallCheckResult](r, err))
	})
}

// FreeSpace reports the free bytes in the download location.
func (c *WorkerClient) FreeSpace(ctx context.Context, reply func(int64, error)) {
	c.call(ctx, CmdFreeSpace, nil, func(r json.RawMessage, err error) {
		out, err := decode[freeSpaceReply](r, err)
		if err != nil {
			reply(0, err)
			return
		}
		reply(out.Bytes, nil)
	})
}

func (c *WorkerClient) Download(ctx context.Context, name string, reply func(*DownloadResult, error)) {
	c.call(ctx, CmdDownload, nameArgs{Name: name}, func(r json.RawMessage, err error) {
		reply(decode[DownloadResult](r, err))
	})
}

func (c *WorkerClient) Install(ctx context.Context, name, altRoot string, reply func(model.ResultCode, error)) {
	c.call(ctx, CmdInstall, installArgs{Name: name, AltRoot: altRoot}, func(r json.RawMessage, err error) {
		out, err := decode[resultReply](r, err)
		if err != nil {
			reply(model.ResultFailure, err)
			return
		}
		reply(out.Code, nil)
	})
}

// RemoveCheck lists the packages whose checkrm scripts guard removing name.
func (c *WorkerClient) RemoveCheck(ctx context.Context, name string, reply func([]string, error)) {
	c.call(ctx, CmdRemoveCheck, nameArgs{Name: name}, func(r json.RawMessage, err error) {
		out, err := decode[scriptsReply](r, err)
		if err != nil {
			reply(nil, err)
			return
		}
		reply(out.Scripts, nil)
	})
}

func (c *WorkerClient) Remove(ctx context.Context, name string, reply func(bool, error)) {
	c.call(ctx, CmdRemove, nameArgs{Name: name}, func(r json.RawMessage, err error) {
		out, err := decode[successReply](r, err)
		if err != nil {
			reply(false, err)
			return
		}
		reply(out.Success, nil)
	})
}

func (c *WorkerClient) PackageInfo(ctx context.Context, name string, reply func(*model.PackageRecord, error)) {
	c.call(ctx, CmdPackageInfo, nameArgs{Name: name}, func(r json.RawMessage, err error) {
		reply(decode[model.PackageRecord](r, err))
	})
}

func (c *WorkerClient) ThirdPartyPolicy(ctx context.Context, name string, reply func(model.ThirdPartyPolicy, error)) {
	c.call(ctx, CmdThirdPartyPolicy, nameArgs{Name: name}, func(r json.RawMessage, err error) {
		out, err := decode[policyReply](r, err)
		if err != nil {
			reply(model.PolicyUnknown, err)
			return
		}
		reply(out.Policy, nil)
	})
}

// FileDetails decodes the package archive at path.
func (c *WorkerClient) FileDetails(ctx context.Context, onlyUser bool, path string, reply func(*model.PackageRecord, error)) {
	c.call(ctx, CmdFileDetails, fileDetailsArgs{Path: path, OnlyUser: onlyUser}, func(r json.RawMessage, err error) {
		reply(decode[model.PackageRecord](r, err))
	})
}

func (c *WorkerClient) InstallFile(ctx context.Context, path string, reply func(model.ResultCode, error)) {
	c.call(ctx, CmdInstallFile, pathArgs{Path: path}, func(r json.RawMessage, err error) {
		out, err := decode[resultReply](r, err)
		if err != nil {
			reply(model.ResultFailure, err)
			return
		}
		reply(out.Code, nil)
	})
}

func (c *WorkerClient) Autoremove(ctx context.Context, reply func(error)) {
	c.call(ctx, CmdAutoremove, nil, func(_ json.RawMessage, err error) { reply(err) })
}

func (c *WorkerClient) Reboot(ctx context.Context, reply func(error)) {
	c.call(ctx, CmdReboot, nil, func(_ json.RawMessage, err error) { reply(err) })
}

func (c *WorkerClient) Clean(ctx context.Context, reply func(error)) {
	c.call(ctx, CmdClean, nil, func(_ json.RawMessage, err error) { reply(err) })
}

// PackageList returns the packages the worker knows about.
func (c *WorkerClient) PackageList(ctx context.Context, onlyUser bool, reply func([]*model.PackageRecord, error)) {
	c.call(ctx, CmdPackageList, packageListArgs{OnlyUser: onlyUser}, func(r json.RawMessage, err error) {
		out, err := decode[packagesReply](r, err)
		if err != nil {
			reply(nil, err)
			return
		}
		reply(out.Packages, nil)
	})
}

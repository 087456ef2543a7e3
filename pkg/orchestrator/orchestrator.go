// Package orchestrator drives install, uninstall and file-install
// workflows. Each workflow is a state machine: it receives an event, moves
// to its next step and names one effect (a backend call, a dialog, a
// timer) for the engine to perform. All transitions run on a single event
// loop goroutine; asynchronous completions are posted back to it.
package orchestrator

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/glorpus-work/appmanager/internal/logger"
	"github.com/glorpus-work/appmanager/pkg/backend"
	"github.com/glorpus-work/appmanager/pkg/checkrm"
	"github.com/glorpus-work/appmanager/pkg/eventloop"
	"github.com/glorpus-work/appmanager/pkg/manifest"
	"github.com/glorpus-work/appmanager/pkg/model"
	"github.com/glorpus-work/appmanager/pkg/session"
	"github.com/glorpus-work/appmanager/pkg/state"
)

// Orchestrator ties the backend, the user interface and the device
// together. The zero value is not usable; every collaborator must be set.
type Orchestrator struct {
	Backend  Backend
	UI       Confirmer
	Progress Progress
	Env      Environment
	Checkrm  Checkrm
	State    StateStore
	Files    Localizer
	Session  *session.Session
	Loop     eventloop.Poster
	Clock    eventloop.Clock
	Options  Options
	Hooks    Hooks // Hooks for progress and event notifications

	seq atomic.Int64
}

// workflow is one running state machine.
type workflow interface {
	base() *flowBase
	id() string
	ctx() context.Context
	handle(ev event) effect
	// finish invokes the completion continuation.
	finish()
	// describe names the current step and package for logging.
	describe() (step, pkg string)
}

// flowBase carries what every workflow needs.
type flowBase struct {
	o        *Orchestrator
	name     string
	c        context.Context
	finished bool
}

func (b *flowBase) base() *flowBase      { return b }
func (b *flowBase) id() string           { return b.name }
func (b *flowBase) ctx() context.Context { return b.c }

func (o *Orchestrator) newBase(ctx context.Context, kind string) flowBase {
	return flowBase{o: o, name: fmt.Sprintf("%s#%d", kind, o.seq.Add(1)), c: ctx}
}

// start schedules w's first transition on the loop.
func (o *Orchestrator) start(w workflow) {
	o.Loop.Post(func() { o.drive(w, evStart{}) })
}

// drive feeds ev to w and keeps executing effects while they complete
// synchronously.
func (o *Orchestrator) drive(w workflow, ev event) {
	for ev != nil {
		if w.base().finished {
			logger.Debug("dropping event for finished workflow", logger.Fields{"flow": w.id(), "event": fmt.Sprintf("%T", ev)})
			return
		}
		eff := w.handle(ev)
		step, pkg := w.describe()
		logger.Debug("transition", logger.Fields{"flow": w.id(), "step": step, "package": pkg, "effect": fmt.Sprintf("%T", eff)})
		if o.Hooks.OnEvent != nil {
			o.Hooks.OnEvent(Event{Flow: w.id(), Step: step, Package: pkg})
		}
		ev = o.execute(w, eff)
	}
}

// resume returns a function that posts an event for w back onto the loop.
func (o *Orchestrator) resume(w workflow) func(event) {
	return func(ev event) {
		o.Loop.Post(func() { o.drive(w, ev) })
	}
}

// execute performs eff. It returns the resulting event for synchronous
// effects and nil when the outcome will be posted later.
func (o *Orchestrator) execute(w workflow, eff effect) event {
	ctx := w.ctx()
	post := o.resume(w)

	switch e := eff.(type) {
	case effSeq:
		var ev event
		for _, sub := range e.effs {
			ev = o.execute(w, sub)
		}
		return ev
	case effFinish:
		if b := w.base(); !b.finished {
			b.finished = true
			w.finish()
		}
		return nil

	case effYesNo:
		answer := func(ok bool) { post(evAnswer{ok: ok}) }
		switch {
		case e.withDetails:
			o.UI.YesNoWithDetails(ctx, e.title, e.text, e.details, answer)
		case e.title != "":
			o.UI.YesNoWithTitle(ctx, e.title, e.text, answer)
		default:
			o.UI.YesNo(ctx, e.text, answer)
		}
	case effInstallConfirm:
		o.UI.InstallConfirm(ctx, e.req, func(ok bool) { post(evAnswer{ok: ok}) })
	case effMultiSelect:
		o.UI.MultiSelect(ctx, e.title, e.desc, e.pkgs, func(sel []*model.PackageRecord, ok bool) {
			post(evSelection{pkgs: sel, ok: ok})
		})
	case effAnnoy:
		o.UI.Annoy(ctx, e.text, e.details, func() { post(evAck{}) })
	case effContinueStop:
		o.UI.ContinueOrStop(ctx, e.text, e.details, func(ok bool) { post(evAnswer{ok: ok}) })
	case effRebootWarning:
		o.UI.RebootWarning(ctx, e.pkg, func(c RebootChoice) { post(evRebootChoice{choice: c}) })
	case effIrritate:
		o.UI.Irritate(e.text)
		return evAck{}
	case effProgress:
		if e.start {
			o.Session.ResetCancel()
			o.Progress.Start(e.title)
		} else {
			o.Progress.Stop()
		}
		return evAck{}
	case effOplog:
		logger.Oplog("%s", e.line)
		return evAck{}

	case effEnsureNetwork:
		o.Env.EnsureNetwork(ctx, func(ok bool) { post(evNetwork{ok: ok}) })
	case effBattery:
		return evBattery{low: o.Env.BatteryLow()}
	case effCloseApps:
		o.Env.CloseApps(ctx, func() { post(evAck{}) })
	case effPrestart:
		o.Env.SetPrestart(e.enabled)
		return evAck{}
	case effLaunchBackup:
		o.Env.LaunchBackup()
		return evAck{}
	case effQuiesce:
		o.Env.QuiesceStatusMenu(ctx, func() { post(evAck{}) })
	case effSetMode:
		o.Session.AcquireDeviceMode(w.id(), e.mode, func(prev session.DeviceMode, err error) {
			post(evMode{prev: prev, err: err})
		})
	case effRestoreMode:
		o.Session.RestoreDeviceMode(w.id(), e.prev)
		return evAck{}
	case effTimer:
		o.Clock.AfterFunc(e.d, func() { post(evTimer{}) })

	case effInstallCheck:
		o.Backend.InstallCheck(ctx, e.name, func(res *backend.InstallCheckResult, err error) { post(evInstallCheck{res: res, err: err}) })
	case effFreeSpace:
		o.Backend.FreeSpace(ctx, func(free int64, err error) { post(evFreeSpace{free: free, err: err}) })
	case effPackageInfo:
		o.Backend.PackageInfo(ctx, e.name, func(p *model.PackageRecord, err error) { post(evPackageInfo{pkg: p, err: err}) })
	case effPolicy:
		o.Backend.ThirdPartyPolicy(ctx, e.name, func(p model.ThirdPartyPolicy, err error) { post(evPolicy{policy: p, err: err}) })
	case effDownload:
		o.Backend.Download(ctx, e.name, func(res *backend.DownloadResult, err error) { post(evDownload{res: res, err: err}) })
	case effInstall:
		o.Backend.Install(ctx, e.name, e.altRoot, func(code model.ResultCode, err error) { post(evInstall{code: code, err: err}) })
	case effRemoveCheck:
		o.Backend.RemoveCheck(ctx, e.name, func(names []string, err error) { post(evScripts{names: names, err: err}) })
	case effRemove:
		o.Backend.Remove(ctx, e.name, func(ok bool, err error) { post(evRemove{ok: ok, err: err}) })
	case effFileDetails:
		o.Backend.FileDetails(ctx, e.onlyUser, e.path, func(p *model.PackageRecord, err error) { post(evPackageInfo{pkg: p, err: err}) })
	case effInstallFile:
		o.Backend.InstallFile(ctx, e.path, func(code model.ResultCode, err error) { post(evInstall{code: code, err: err}) })
	case effAutoremove:
		o.Backend.Autoremove(ctx, func(err error) { post(evDone{err: err}) })
	case effReboot:
		o.Backend.Reboot(ctx, func(err error) { post(evDone{err: err}) })
	case effClean:
		o.Backend.Clean(ctx, func(err error) {
			if err != nil {
				logger.Warn("clean failed", logger.Fields{"error": err.Error()})
			}
		})
		return evAck{}
	case effRefresh:
		o.Backend.PackageList(ctx, !o.Session.ShowAll(), func(pkgs []*model.PackageRecord, err error) {
			if err != nil {
				logger.Warn("package list refresh failed", logger.Fields{"error": err.Error()})
			}
			o.Loop.Post(func() {
				if err == nil && o.Hooks.OnPackageList != nil {
					o.Hooks.OnPackageList(pkgs)
				}
				o.drive(w, evAck{})
			})
		})

	case effCheckrm:
		o.Checkrm.Check(ctx, e.name, e.params, func(res checkrm.Result, err error) { post(evCheckrm{res: res, err: err}) })
	case effSaveBackup:
		o.saveBackup(ctx)
		return evAck{}
	case effBootMarker:
		m := state.BootMarker{Intent: state.IntentSystemUpdate, Package: e.pkg.Name, Version: e.pkg.AvailableVersion}
		if err := o.State.WriteBootMarker(m); err != nil {
			logger.Error("failed to write boot marker", logger.Fields{"error": err.Error()})
		}
		return evAck{}
	case effLocalize:
		o.Files.LocalizeAsync(ctx, e.ref, func(path string, err error) { post(evLocalized{path: path, err: err}) })
	case effInstructions:
		inst, err := manifest.ParseFile(e.path)
		if err == nil {
			o.Env.RunInstructions(ctx, e.path, inst)
		}
		return evInstructions{err: err}

	default:
		panic(fmt.Sprintf("unhandled effect %T", eff))
	}
	return nil
}

// saveBackup snapshots the installed packages without blocking the loop.
func (o *Orchestrator) saveBackup(ctx context.Context) {
	o.Backend.PackageList(ctx, false, func(pkgs []*model.PackageRecord, err error) {
		if err == nil {
			err = o.State.SaveBackup(ctx, pkgs)
		}
		if err != nil {
			logger.Warn("failed to save backup snapshot", logger.Fields{"error": err.Error()})
		}
	})
}

// InstallBatch installs pkgs. onDone runs once on the loop goroutine with
// the number of packages installed.
func (o *Orchestrator) InstallBatch(ctx context.Context, pkgs []*model.PackageRecord, opts InstallOptions, onDone func(successes int)) {
	o.start(o.newInstallFlow(ctx, pkgs, opts, onDone))
}

// InstallSinglePackage installs pkg as a one-element standard batch.
func (o *Orchestrator) InstallSinglePackage(ctx context.Context, pkg *model.PackageRecord, onDone func(successes int)) {
	o.InstallBatch(ctx, []*model.PackageRecord{pkg}, InstallOptions{Type: model.InstallStandard}, onDone)
}

// UninstallPackage removes pkg. onDone runs once on the loop goroutine.
func (o *Orchestrator) UninstallPackage(ctx context.Context, pkg *model.PackageRecord, onDone func()) {
	o.start(o.newUninstallFlow(ctx, pkg, onDone))
}

// InstallFile installs the package file or instruction file at ref, which
// may be a local path or an http(s) URL.
func (o *Orchestrator) InstallFile(ctx context.Context, ref string, trusted bool, onDone func(ok bool)) {
	o.start(o.newFileFlow(ctx, ref, trusted, onDone))
}

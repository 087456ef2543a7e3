package orchestrator

import (
	"context"

	"github.com/glorpus-work/appmanager/internal/logger"
	"github.com/glorpus-work/appmanager/pkg/checkrm"
	"github.com/glorpus-work/appmanager/pkg/i18n"
	"github.com/glorpus-work/appmanager/pkg/model"
)

type uninstallStep int

const (
	unConfirm uninstallStep = iota
	unRemoveCheck
	unCheckrm
	unInfo
	unRemove
	unRefresh
	unAutoremove
	unNotice
)

var uninstallStepNames = [...]string{
	"confirm", "remove-check", "checkrm", "info", "remove", "refresh", "autoremove", "notice",
}

func (s uninstallStep) String() string {
	if int(s) < len(uninstallStepNames) {
		return uninstallStepNames[s]
	}
	return "unknown"
}

type uninstallFlow struct {
	flowBase
	onDone func()

	pkg     *model.PackageRecord
	step    uninstallStep
	scripts []string
	idx     int
	removed bool

	progressActive bool
}

func (o *Orchestrator) newUninstallFlow(ctx context.Context, pkg *model.PackageRecord, onDone func()) *uninstallFlow {
	return &uninstallFlow{
		flowBase: o.newBase(ctx, "uninstall"),
		onDone:   onDone,
		pkg:      pkg.Clone(),
	}
}

func (f *uninstallFlow) finish() {
	if f.onDone != nil {
		f.onDone()
	}
}

func (f *uninstallFlow) describe() (string, string) { return f.step.String(), f.pkg.Name }

func (f *uninstallFlow) handle(ev event) effect {
	switch e := ev.(type) {
	case evStart:
		f.step = unConfirm
		return effYesNo{
			title:       i18n.T(i18n.TitleConfirmUninstall),
			text:        i18n.T(i18n.ConfirmUninstall, f.pkg.DisplayName(), f.pkg.DisplayVersion(true), i18n.Size(f.pkg.InstalledSize)),
			details:     f.pkg,
			withDetails: true,
		}
	case evAnswer:
		if !e.ok {
			return f.end()
		}
		f.step = unRemoveCheck
		return effRemoveCheck{name: f.pkg.Name}
	case evScripts:
		if e.err != nil {
			logger.Error("remove check failed", logger.Fields{"flow": f.name, "error": e.err.Error()})
			return f.end()
		}
		f.scripts = e.names
		f.idx = 0
		return f.nextScript()
	case evCheckrm:
		if e.err != nil {
			logger.Warn("checkrm script failed", logger.Fields{"flow": f.name, "error": e.err.Error()})
		} else if e.res.Blocked() {
			return f.notice(i18n.T(i18n.ApplicationRunning, f.pkg.DisplayName()), nil)
		}
		f.idx++
		return f.nextScript()
	case evPackageInfo:
		if e.err != nil {
			logger.Error("package info failed", logger.Fields{"flow": f.name, "error": e.err.Error()})
			return f.end()
		}
		f.pkg.Update(e.pkg)
		return f.checkRemovable()
	case evRemove:
		if e.err != nil {
			logger.Error("remove request failed", logger.Fields{"flow": f.name, "error": e.err.Error()})
			return f.end()
		}
		f.removed = e.ok
		f.step = unRefresh
		return seq(effSaveBackup{}, effRefresh{})
	case evAck:
		switch f.step {
		case unRefresh:
			if !f.removed {
				return f.notice(i18n.T(i18n.UninstallFailed, f.pkg.DisplayName()), f.pkg)
			}
			f.step = unAutoremove
			return effAutoremove{}
		case unNotice:
			return f.end()
		}
	case evDone:
		if e.err != nil {
			logger.Warn("autoremove failed", logger.Fields{"flow": f.name, "error": e.err.Error()})
		}
		return f.notice(i18n.T(i18n.UninstallSuccessful, f.pkg.DisplayName()), nil)
	}
	logger.Warn("event not expected in this step", logger.Fields{"flow": f.name, "step": f.step.String()})
	return f.end()
}

func (f *uninstallFlow) nextScript() effect {
	if f.idx < len(f.scripts) {
		f.step = unCheckrm
		return effCheckrm{name: f.scripts[f.idx], params: checkrm.RemoveParams()}
	}
	f.step = unInfo
	return effPackageInfo{name: f.pkg.Name}
}

func (f *uninstallFlow) checkRemovable() effect {
	switch f.pkg.RemovableStatus {
	case model.RemovableNeeded:
		return f.notice(i18n.T(i18n.UninstallNeeded, f.pkg.DisplayName()), f.pkg)
	case model.RemovableUnable:
		return f.notice(i18n.T(i18n.UninstallFailed, f.pkg.DisplayName()), f.pkg)
	}
	f.step = unRemove
	f.progressActive = true
	return seq(
		effOplog{line: "Uninstalling " + f.pkg.Name + " " + f.pkg.InstalledVersion},
		effProgress{start: true, title: i18n.T(i18n.ProgressUninstalling, f.pkg.DisplayName())},
		effRemove{name: f.pkg.Name},
	)
}

// notice stops progress and tells the user how it went; the flow ends
// once it is acknowledged.
func (f *uninstallFlow) notice(text string, details *model.PackageRecord) effect {
	var effs []effect
	if f.progressActive {
		f.progressActive = false
		effs = append(effs, effProgress{start: false})
	}
	f.step = unNotice
	return seq(append(effs, effAnnoy{text: text, details: details})...)
}

func (f *uninstallFlow) end() effect {
	if f.progressActive {
		f.progressActive = false
		return seq(effProgress{start: false}, effFinish{})
	}
	return effFinish{}
}

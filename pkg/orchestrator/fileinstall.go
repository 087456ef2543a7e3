package orchestrator

import (
	"context"

	"github.com/glorpus-work/appmanager/internal/logger"
	"github.com/glorpus-work/appmanager/pkg/i18n"
	"github.com/glorpus-work/appmanager/pkg/manifest"
	"github.com/glorpus-work/appmanager/pkg/model"
)

type fileStep int

const (
	fiLocalize fileStep = iota
	fiInstructions
	fiDetails
	fiConfirm
	fiInstall
	fiRefresh
	fiNotice
)

var fileStepNames = [...]string{"localize", "instructions", "details", "confirm", "install", "refresh", "notice"}

func (s fileStep) String() string {
	if int(s) < len(fileStepNames) {
		return fileStepNames[s]
	}
	return "unknown"
}

// fileFlow installs one local package file or instruction file. It has
// no certification round, no reboot handling and no checkrm scripts.
type fileFlow struct {
	flowBase
	onDone func(bool)

	ref     string
	path    string
	trusted bool
	pkg     *model.PackageRecord
	step    fileStep
	code    model.ResultCode
	ok      bool

	progressActive bool
}

func (o *Orchestrator) newFileFlow(ctx context.Context, ref string, trusted bool, onDone func(bool)) *fileFlow {
	return &fileFlow{
		flowBase: o.newBase(ctx, "install-file"),
		onDone:   onDone,
		ref:      ref,
		trusted:  trusted,
	}
}

func (f *fileFlow) finish() {
	if f.onDone != nil {
		f.onDone(f.ok)
	}
}

func (f *fileFlow) describe() (string, string) {
	if f.pkg != nil {
		return f.step.String(), f.pkg.Name
	}
	return f.step.String(), f.ref
}

func (f *fileFlow) handle(ev event) effect {
	switch e := ev.(type) {
	case evStart:
		f.step = fiLocalize
		return effLocalize{ref: f.ref}
	case evLocalized:
		if e.err != nil {
			logger.Error("cannot localize file", logger.Fields{"flow": f.name, "ref": f.ref, "error": e.err.Error()})
			return f.notice(i18n.T(i18n.OperationFailed), nil)
		}
		f.path = e.path
		if manifest.IsInstructionFile(f.path) {
			f.step = fiInstructions
			return effInstructions{path: f.path}
		}
		f.step = fiDetails
		f.progressActive = true
		return seq(
			effProgress{start: true, title: i18n.T(i18n.ProgressPreparing)},
			effFileDetails{path: f.path, onlyUser: !f.o.Session.ShowAll()},
		)
	case evInstructions:
		if e.err != nil {
			logger.Error("cannot read instructions", logger.Fields{"flow": f.name, "error": e.err.Error()})
			return f.notice(i18n.T(i18n.OperationFailed), nil)
		}
		// the interpreter reports nothing back
		f.ok = true
		return effFinish{}
	case evPackageInfo:
		if e.err != nil || e.pkg == nil {
			if e.err != nil {
				logger.Error("file details failed", logger.Fields{"flow": f.name, "error": e.err.Error()})
			}
			return f.end()
		}
		f.pkg = e.pkg.Clone()
		f.step = fiConfirm
		f.progressActive = false
		return seq(
			effProgress{start: false},
			effInstallConfirm{req: InstallConfirmation{Package: f.pkg, Scare: !f.trusted}},
		)
	case evAnswer:
		if !e.ok {
			return f.end()
		}
		if f.pkg.InstallableStatus != model.StatusAble {
			msg, withDetails := i18n.StatusMessage(f.pkg)
			return f.notice(msg, detailsIf(withDetails, f.pkg))
		}
		f.step = fiInstall
		f.progressActive = true
		return seq(
			effOplog{line: "Installing " + f.pkg.Name + " " + f.pkg.AvailableVersion + " from " + f.path},
			effProgress{start: true, title: i18n.T(i18n.ProgressInstalling, f.pkg.DisplayName())},
			effInstallFile{path: f.path},
		)
	case evInstall:
		if e.err != nil {
			logger.Error("install file request failed", logger.Fields{"flow": f.name, "error": e.err.Error()})
			return f.end()
		}
		f.code = e.code
		f.step = fiRefresh
		return seq(effSaveBackup{}, effRefresh{})
	case evAck:
		switch f.step {
		case fiRefresh:
			if f.code == model.ResultSuccess {
				f.ok = true
				return f.notice(i18n.T(i18n.PackageInstalled, f.pkg.DisplayName()), nil)
			}
			msg := i18n.ResultMessage(f.pkg, f.code)
			if msg == "" {
				msg = i18n.FailedMessage(f.pkg)
			}
			return f.notice(msg, nil)
		case fiNotice:
			return f.end()
		}
	}
	logger.Warn("event not expected in this step", logger.Fields{"flow": f.name, "step": f.step.String()})
	return f.end()
}

func (f *fileFlow) notice(text string, details *model.PackageRecord) effect {
	var effs []effect
	if f.progressActive {
		f.progressActive = false
		effs = append(effs, effProgress{start: false})
	}
	f.step = fiNotice
	return seq(append(effs, effAnnoy{text: text, details: details})...)
}

func (f *fileFlow) end() effect {
	if f.progressActive {
		f.progressActive = false
		return seq(effProgress{start: false}, effFinish{})
	}
	return effFinish{}
}

package orchestrator

import (
	"time"

	"github.com/glorpus-work/appmanager/pkg/backend"
	"github.com/glorpus-work/appmanager/pkg/checkrm"
	"github.com/glorpus-work/appmanager/pkg/model"
	"github.com/glorpus-work/appmanager/pkg/session"
)

// An effect is the one external action a workflow wants performed next.
// The engine executes it and feeds the outcome back as an event.
type effect interface{ isEffect() }

// An event is what happened: a reply, an answer, a timer.
type event interface{ isEvent() }

type effectTag struct{}

func (effectTag) isEffect() {}

type eventTag struct{}

func (eventTag) isEvent() {}

// Effects. Synchronous ones produce their event immediately.
type (
	// seq runs its effects in order. Only the last may be asynchronous.
	effSeq struct {
		effectTag
		effs []effect
	}
	effFinish struct{ effectTag }

	effYesNo struct {
		effectTag
		title, text string
		details     *model.PackageRecord
		withDetails bool
	}
	effInstallConfirm struct {
		effectTag
		req InstallConfirmation
	}
	effMultiSelect struct {
		effectTag
		title, desc string
		pkgs        []*model.PackageRecord
	}
	effAnnoy struct {
		effectTag
		text    string
		details *model.PackageRecord
	}
	effContinueStop struct {
		effectTag
		text    string
		details *model.PackageRecord
	}
	effRebootWarning struct {
		effectTag
		pkg *model.PackageRecord
	}
	effIrritate struct {
		effectTag
		text string
	}
	effProgress struct {
		effectTag
		start bool
		title string
	}

	effEnsureNetwork struct{ effectTag }
	effBattery       struct{ effectTag }
	effCloseApps     struct{ effectTag }
	effPrestart      struct {
		effectTag
		enabled bool
	}
	effLaunchBackup struct{ effectTag }
	effQuiesce      struct{ effectTag }
	effSetMode      struct {
		effectTag
		mode session.DeviceMode
	}
	effRestoreMode struct {
		effectTag
		prev session.DeviceMode
	}
	effTimer struct {
		effectTag
		d time.Duration
	}

	effInstallCheck struct {
		effectTag
		name string
	}
	effFreeSpace   struct{ effectTag }
	effPackageInfo struct {
		effectTag
		name string
	}
	effPolicy struct {
		effectTag
		name string
	}
	effDownload struct {
		effectTag
		name string
	}
	effInstall struct {
		effectTag
		name, altRoot string
	}
	effRemoveCheck struct {
		effectTag
		name string
	}
	effRemove struct {
		effectTag
		name string
	}
	effFileDetails struct {
		effectTag
		path     string
		onlyUser bool
	}
	effInstallFile struct {
		effectTag
		path string
	}
	effAutoremove struct{ effectTag }
	effReboot     struct{ effectTag }
	effClean      struct{ effectTag }
	effRefresh    struct{ effectTag }

	effCheckrm struct {
		effectTag
		name   string
		params []string
	}
	effSaveBackup struct{ effectTag }
	effBootMarker struct {
		effectTag
		pkg *model.PackageRecord
	}
	effLocalize struct {
		effectTag
		ref string
	}
	effInstructions struct {
		effectTag
		path string
	}
	effOplog struct {
		effectTag
		line string
	}
)

// Events.
type (
	evStart struct{ eventTag }
	evAck   struct{ eventTag }
	evAnswer struct {
		eventTag
		ok bool
	}
	evSelection struct {
		eventTag
		pkgs []*model.PackageRecord
		ok   bool
	}
	evRebootChoice struct {
		eventTag
		choice RebootChoice
	}
	evNetwork struct {
		eventTag
		ok bool
	}
	evBattery struct {
		eventTag
		low bool
	}
	evMode struct {
		eventTag
		prev session.DeviceMode
		err  error
	}
	evTimer struct{ eventTag }

	evInstallCheck struct {
		eventTag
		res *backend.InstallCheckResult
		err error
	}
	evFreeSpace struct {
		eventTag
		free int64
		err  error
	}
	evPackageInfo struct {
		eventTag
		pkg *model.PackageRecord
		err error
	}
	evPolicy struct {
		eventTag
		policy model.ThirdPartyPolicy
		err    error
	}
	evDownload struct {
		eventTag
		res *backend.DownloadResult
		err error
	}
	evInstall struct {
		eventTag
		code model.ResultCode
		err  error
	}
	evScripts struct {
		eventTag
		names []string
		err   error
	}
	evRemove struct {
		eventTag
		ok  bool
		err error
	}
	evDone struct {
		eventTag
		err error
	}
	evCheckrm struct {
		eventTag
		res checkrm.Result
		err error
	}
	evLocalized struct {
		eventTag
		path string
		err  error
	}
	evInstructions struct {
		eventTag
		err error
	}
)

func seq(effs ...effect) effect {
	if len(effs) == 1 {
		return effs[0]
	}
	return effSeq{effs: effs}
}

package orchestrator

import (
	"github.com/glorpus-work/appmanager/pkg/i18n"
	"github.com/glorpus-work/appmanager/pkg/model"
)

func detailsIf(withDetails bool, p *model.PackageRecord) *model.PackageRecord {
	if withDetails {
		return p
	}
	return nil
}

// abortCurrent reports a failure of the current package. Unless it is the
// last one, the user may go on with the rest of the batch; after the last
// one the flow ends without a summary.
func (f *installFlow) abortCurrent(msg string, details *model.PackageRecord) effect {
	f.progressActive = false
	stop := effProgress{start: false}
	if !f.isLast() {
		f.step = stAbortChoice
		return seq(stop, effContinueStop{text: msg, details: details})
	}
	f.step = stAbortNotice
	return seq(stop, effAnnoy{text: msg, details: details})
}

// notEnoughMemory aborts the package, or in advanced mode lets the user
// start over from the upgrade check once space has been freed.
func (f *installFlow) notEnoughMemory() effect {
	if f.o.Session.RedPill() {
		f.step = stSpaceOverride
		return effYesNo{text: i18n.T(i18n.MemoryShortageContinue)}
	}
	return f.abortCurrent(i18n.T(i18n.MemoryShortage), nil)
}

// complete runs when the cursor has passed the last package.
func (f *installFlow) complete() effect {
	effs := []effect{f.restoreMode()}
	if f.progressActive {
		f.progressActive = false
		effs = append(effs, effProgress{start: false})
	}
	if f.successes == 0 {
		return seq(append(effs, f.end())...)
	}
	f.step = stCompleteNotice
	return seq(append(effs, effAnnoy{text: f.successMessage()})...)
}

func (f *installFlow) successMessage() string {
	if len(f.all) == 1 {
		p := f.all[0]
		if p.IsInstalled() {
			return i18n.T(i18n.SoftwareUpdateInstalled)
		}
		return i18n.T(i18n.PackageInstalled, p.DisplayName())
	}
	if f.opts.Type == model.InstallUpgradeAll {
		return i18n.T(i18n.SoftwareUpdateInstalled)
	}
	return i18n.T(i18n.PackagesInstalled, f.successes)
}

// end tears the flow down: device mode, prestarted apps, progress, and a
// package list refresh when something changed.
func (f *installFlow) end() effect {
	effs := []effect{f.restoreMode(), effPrestart{enabled: true}}
	if f.progressActive {
		f.progressActive = false
		effs = append(effs, effProgress{start: false})
	}
	if f.refreshNeeded {
		f.refreshNeeded = false
		f.step = stEnding
		return seq(append(effs, effRefresh{})...)
	}
	return seq(append(effs, effFinish{})...)
}

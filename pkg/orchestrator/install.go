package orchestrator

import (
	"context"

	"github.com/glorpus-work/appmanager/internal/logger"
	"github.com/glorpus-work/appmanager/pkg/backend"
	"github.com/glorpus-work/appmanager/pkg/checkrm"
	"github.com/glorpus-work/appmanager/pkg/i18n"
	"github.com/glorpus-work/appmanager/pkg/model"
	"github.com/glorpus-work/appmanager/pkg/session"
)

type installStep int

const (
	stInit installStep = iota
	stNothingToDo
	stSelect
	stSelectCancelled
	stConfirmAll
	stNetwork
	stCertify
	stCertifyConfirm
	stLoopDomains
	stInstallAnyway
	stInfo
	stPolicy
	stRebootWarning
	stCloseApps
	stBattery
	stBatteryNotice
	stBatteryRecheck
	stSpaceForDownload
	stSpaceOverride
	stUpgradeCheck
	stOperationFailed
	stCheckrm
	stDownload
	stDownloadNetwork
	stRetryPrompt
	stSpaceForInstall
	stOffline
	stSSUDelay
	stQuiesce
	stInstall
	stRebootRefresh
	stRebootAutoremove
	stRebootDelay
	stReboot
	stRebootSettle
	stAbortChoice
	stAbortNotice
	stCompleteNotice
	stEnding
)

var installStepNames = [...]string{
	"init", "nothing-to-do", "select", "select-cancelled", "confirm-all",
	"network", "certify", "certify-confirm", "loop-domains", "install-anyway",
	"info", "policy", "reboot-warning", "close-apps", "battery",
	"battery-notice", "battery-recheck", "space-for-download", "space-override",
	"upgrade-check", "operation-failed", "checkrm", "download",
	"download-network", "retry-prompt", "space-for-install", "offline",
	"ssu-delay", "quiesce", "install", "reboot-refresh", "reboot-autoremove",
	"reboot-delay", "reboot", "reboot-settle", "abort-choice", "abort-notice",
	"complete-notice", "ending",
}

func (s installStep) String() string {
	if int(s) < len(installStepNames) {
		return installStepNames[s]
	}
	return "unknown"
}

// installFlow is the state of one InstallBatch call.
type installFlow struct {
	flowBase
	onDone func(int)

	opts InstallOptions
	all  []*model.PackageRecord // the batch as submitted, cloned
	list []*model.PackageRecord // filtered working list
	cur  int                    // cursor into list; len(list) means finished
	step installStep

	// per-iteration scratch
	certIdx      int
	upgrades     []model.UpgradeTarget
	upgradeIdx   int
	altRoot      string
	dlFailures   int
	retryMsg     string
	afterBattery func() effect
	savedMode    session.DeviceMode

	successes      int
	progressActive bool
	refreshNeeded  bool
}

func (o *Orchestrator) newInstallFlow(ctx context.Context, pkgs []*model.PackageRecord, opts InstallOptions, onDone func(int)) *installFlow {
	return &installFlow{
		flowBase: o.newBase(ctx, "install"),
		onDone:   onDone,
		opts:     opts,
		all:      clonePackages(pkgs),
	}
}

func (f *installFlow) finish() {
	logger.Debug("install finished", logger.Fields{"flow": f.name, "successes": f.successes})
	if f.onDone != nil {
		f.onDone(f.successes)
	}
}

func (f *installFlow) describe() (string, string) {
	if p := f.current(); p != nil {
		return f.step.String(), p.Name
	}
	return f.step.String(), ""
}

func (f *installFlow) current() *model.PackageRecord {
	if f.cur < len(f.list) {
		return f.list[f.cur]
	}
	return nil
}

func (f *installFlow) isLast() bool { return f.cur >= len(f.list)-1 }

func (f *installFlow) handle(ev event) effect {
	switch e := ev.(type) {
	case evStart:
		return f.begin()
	case evSelection:
		return f.onSelection(e)
	case evAnswer:
		return f.onAnswer(e.ok)
	case evAck:
		return f.onAck()
	case evNetwork:
		return f.onNetwork(e.ok)
	case evInstallCheck:
		return f.onInstallCheck(e)
	case evPackageInfo:
		return f.onPackageInfo(e)
	case evPolicy:
		return f.onPolicy(e)
	case evRebootChoice:
		return f.onRebootChoice(e.choice)
	case evBattery:
		return f.onBattery(e.low)
	case evFreeSpace:
		return f.onFreeSpace(e)
	case evCheckrm:
		return f.onCheckrm(e)
	case evDownload:
		return f.onDownload(e)
	case evMode:
		return f.onMode(e)
	case evTimer:
		return f.onTimer()
	case evInstall:
		return f.onInstall(e)
	case evDone:
		return f.onCommandDone(e)
	}
	logger.Warn("unexpected event", logger.Fields{"flow": f.name, "step": f.step.String()})
	return f.end()
}

// begin filters the batch and picks the confirmation.
func (f *installFlow) begin() effect {
	f.list = filterBatch(f.all, f.opts.Type)
	if len(f.list) == 0 {
		f.step = stNothingToDo
		return effAnnoy{text: i18n.T(i18n.AllInstalled)}
	}

	switch f.opts.Type {
	case model.InstallBackup, model.InstallMulti, model.InstallMemoryCard:
		f.step = stSelect
		return effMultiSelect{title: f.title(), desc: f.opts.Desc, pkgs: f.list}
	case model.InstallUpgradeAll:
		f.step = stConfirmAll
		return effYesNo{
			title: i18n.T(i18n.TitleUpdateAll),
			text:  i18n.T(i18n.ConfirmUpdateAll, i18n.Size(totalDownloadSize(f.list))),
		}
	default:
		return f.ensureNetwork()
	}
}

func (f *installFlow) title() string {
	if f.opts.Title != "" {
		return f.opts.Title
	}
	switch f.opts.Type {
	case model.InstallBackup:
		return i18n.T(i18n.TitleRestore)
	case model.InstallMemoryCard:
		return i18n.T(i18n.TitleMemoryCard)
	case model.InstallUpdateSystem:
		return i18n.T(i18n.TitleSystemUpdate)
	default:
		return i18n.T(i18n.TitleInstallApps)
	}
}

func (f *installFlow) onSelection(e evSelection) effect {
	if !e.ok {
		if f.opts.Type == model.InstallMemoryCard && f.opts.Automatic {
			f.step = stSelectCancelled
			return effAnnoy{text: i18n.T(i18n.MemoryCardCancelled)}
		}
		return f.end()
	}
	if len(e.pkgs) == 0 {
		return f.end()
	}
	// keep the working list's order, which has the reboot package last
	chosen := make(map[*model.PackageRecord]bool, len(e.pkgs))
	for _, p := range e.pkgs {
		chosen[p] = true
	}
	kept := f.list[:0:0]
	for _, p := range f.list {
		if chosen[p] {
			kept = append(kept, p)
		}
	}
	f.list = kept
	if len(f.list) == 0 {
		return f.end()
	}
	return f.ensureNetwork()
}

func (f *installFlow) ensureNetwork() effect {
	f.step = stNetwork
	f.progressActive = true
	return seq(effProgress{start: true, title: i18n.T(i18n.ProgressPreparing)}, effEnsureNetwork{})
}

func (f *installFlow) onNetwork(ok bool) effect {
	switch f.step {
	case stNetwork:
		if !ok {
			return f.end()
		}
		f.certIdx = 0
		return f.nextCertification()
	case stDownloadNetwork:
		if !ok {
			return f.end()
		}
		return f.download()
	}
	return f.unexpected()
}

// nextCertification checks the trust of every candidate once per batch.
func (f *installFlow) nextCertification() effect {
	for f.certIdx < len(f.list) {
		p := f.list[f.certIdx]
		if p.HaveInfo && p.InstallableStatus == model.StatusNotFound {
			f.certIdx++
			continue
		}
		f.step = stCertify
		return effInstallCheck{name: p.Name}
	}
	if len(f.list) == 1 {
		f.step = stCertifyConfirm
		return effInstallConfirm{req: InstallConfirmation{Package: f.list[0]}}
	}
	return f.startLoop()
}

func (f *installFlow) onInstallCheck(e evInstallCheck) effect {
	if e.err != nil {
		logger.Error("install check failed", logger.Fields{"flow": f.name, "error": e.err.Error()})
		return f.end()
	}
	switch f.step {
	case stCertify:
		if e.res.Untrusted() {
			f.step = stCertifyConfirm
			return effInstallConfirm{req: InstallConfirmation{
				Package:  f.list[f.certIdx],
				Scare:    true,
				Multiple: len(f.all) > 1,
			}}
		}
		f.certIdx++
		return f.nextCertification()
	case stLoopDomains:
		if e.res.DomainsViolated() {
			f.step = stInstallAnyway
			return effYesNo{text: i18n.T(i18n.InstallAnyway, f.current().DisplayName())}
		}
		return f.fetchInfo()
	case stUpgradeCheck:
		return f.onUpgradeCheck(e.res)
	}
	return f.unexpected()
}

func (f *installFlow) onAnswer(ok bool) effect {
	switch f.step {
	case stConfirmAll, stCertifyConfirm:
		if !ok {
			return f.end()
		}
		if f.step == stConfirmAll {
			return f.ensureNetwork()
		}
		return f.startLoop()
	case stInstallAnyway:
		if !ok {
			return f.advance()
		}
		return f.fetchInfo()
	case stSpaceOverride:
		if !ok {
			return f.advance()
		}
		return f.checkUpgrade()
	case stRetryPrompt:
		if ok {
			f.step = stDownloadNetwork
			f.progressActive = true
			return seq(effProgress{start: true, title: f.progressTitle()}, effEnsureNetwork{})
		}
		if f.isLast() {
			return f.end()
		}
		return f.abortCurrent(f.retryMsg, nil)
	case stAbortChoice:
		if !ok {
			return f.end()
		}
		f.progressActive = true
		return seq(effProgress{start: true, title: i18n.T(i18n.ProgressPreparing)}, f.advance())
	}
	return f.unexpected()
}

func (f *installFlow) onAck() effect {
	switch f.step {
	case stNothingToDo, stSelectCancelled, stOperationFailed, stCompleteNotice:
		return f.end()
	case stCloseApps:
		return f.installOne()
	case stBatteryNotice:
		f.step = stBatteryRecheck
		return effBattery{}
	case stQuiesce:
		return f.installNow()
	case stRebootRefresh:
		f.refreshNeeded = false
		f.step = stRebootAutoremove
		restore := f.restoreMode()
		return seq(effIrritate{text: f.rebootNotice()}, restore, effAutoremove{})
	case stAbortNotice:
		return f.end()
	case stEnding:
		return effFinish{}
	}
	return f.unexpected()
}

func (f *installFlow) unexpected() effect {
	logger.Warn("event not expected in this step", logger.Fields{"flow": f.name, "step": f.step.String()})
	return f.end()
}

// startLoop enters the per-package loop at the first package.
func (f *installFlow) startLoop() effect {
	f.cur = 0
	return f.iterate()
}

// advance moves the cursor to the next package.
func (f *installFlow) advance() effect {
	f.cur++
	return f.iterate()
}

// iterate begins work on the package under the cursor, or completes.
func (f *installFlow) iterate() effect {
	restore := f.restoreMode()
	if f.cur >= len(f.list) {
		return seq(restore, f.complete())
	}

	f.dlFailures = 0
	f.altRoot = ""
	f.upgrades = nil
	if f.o.Session.RedPill() {
		f.step = stLoopDomains
		return seq(restore, effInstallCheck{name: f.current().Name})
	}
	return seq(restore, f.fetchInfo())
}

// restoreMode undoes a device mode change made by this flow.
func (f *installFlow) restoreMode() effect {
	prev := f.savedMode
	f.savedMode = session.ModeUnknown
	return effRestoreMode{prev: prev}
}

func (f *installFlow) fetchInfo() effect {
	f.step = stInfo
	return effPackageInfo{name: f.current().Name}
}

func (f *installFlow) onPackageInfo(e evPackageInfo) effect {
	if e.err != nil {
		logger.Error("package info failed", logger.Fields{"flow": f.name, "error": e.err.Error()})
		return f.end()
	}
	f.current().Update(e.pkg)
	return f.checkPolicy()
}

func (f *installFlow) checkPolicy() effect {
	p := f.current()
	if f.o.Session.IgnoreThirdPartyPolicy() {
		return f.checkStatus()
	}
	switch p.ThirdPartyPolicy {
	case model.PolicyIncompatible:
		return f.abortCurrent(i18n.T(i18n.PolicyViolation, p.DisplayName()), p)
	case model.PolicyUnknown:
		if f.step != stPolicy {
			f.step = stPolicy
			return effPolicy{name: p.Name}
		}
	}
	return f.checkStatus()
}

func (f *installFlow) onPolicy(e evPolicy) effect {
	if e.err != nil {
		logger.Error("third party policy query failed", logger.Fields{"flow": f.name, "error": e.err.Error()})
		return f.end()
	}
	f.current().ThirdPartyPolicy = e.policy
	return f.checkPolicy()
}

func (f *installFlow) checkStatus() effect {
	p := f.current()
	if p.InstallableStatus != model.StatusAble {
		msg, withDetails := i18n.StatusMessage(p)
		return f.abortCurrent(msg, detailsIf(withDetails, p))
	}
	if p.NeedsReboot() {
		f.step = stRebootWarning
		return effRebootWarning{pkg: p}
	}
	return f.installOne()
}

func (f *installFlow) onRebootChoice(c RebootChoice) effect {
	switch c {
	case RebootBackup:
		return seq(effLaunchBackup{}, effRebootWarning{pkg: f.current()})
	case RebootConfirm:
		f.step = stCloseApps
		return seq(effPrestart{enabled: false}, effCloseApps{})
	default:
		return f.end()
	}
}

// installOne logs the operation and starts the pre-download checks.
func (f *installFlow) installOne() effect {
	p := f.current()
	var line string
	if p.IsInstalled() {
		line = "Upgrading " + p.Name + " " + p.InstalledVersion + " to " + p.AvailableVersion
	} else {
		line = "Installing " + p.Name + " " + p.AvailableVersion
	}
	return seq(effOplog{line: line}, f.checkBattery(f.spaceForDownload))
}

// checkBattery runs next once the battery allows a system update.
func (f *installFlow) checkBattery(next func() effect) effect {
	if !f.current().IsSystemUpdate() {
		return next()
	}
	f.afterBattery = next
	f.step = stBattery
	return effBattery{}
}

func (f *installFlow) onBattery(low bool) effect {
	switch f.step {
	case stBattery:
		if low {
			f.step = stBatteryNotice
			return effAnnoy{text: i18n.T(i18n.BatteryEmpty)}
		}
	case stBatteryRecheck:
		if low {
			return f.end()
		}
	default:
		return f.unexpected()
	}
	next := f.afterBattery
	f.afterBattery = nil
	return next()
}

func (f *installFlow) spaceForDownload() effect {
	f.step = stSpaceForDownload
	return effFreeSpace{}
}

func (f *installFlow) spaceForInstall() effect {
	f.step = stSpaceForInstall
	return effFreeSpace{}
}

func (f *installFlow) onFreeSpace(e evFreeSpace) effect {
	if e.err != nil {
		logger.Error("free space query failed", logger.Fields{"flow": f.name, "error": e.err.Error()})
		return f.end()
	}
	enough := f.current().RequiredFreeSpace < e.free
	switch f.step {
	case stSpaceForDownload:
		if enough {
			return f.checkUpgrade()
		}
		return f.notEnoughMemory()
	case stSpaceForInstall:
		if enough {
			return f.install()
		}
		return f.notEnoughMemory()
	}
	return f.unexpected()
}

func (f *installFlow) checkUpgrade() effect {
	f.step = stUpgradeCheck
	return effInstallCheck{name: f.current().Name}
}

func (f *installFlow) onUpgradeCheck(res *backend.InstallCheckResult) effect {
	if !res.Success {
		f.step = stOperationFailed
		f.progressActive = false
		return seq(effProgress{start: false}, effAnnoy{text: i18n.T(i18n.OperationFailed)})
	}
	f.upgrades = res.Upgrades
	f.upgradeIdx = 0
	return f.nextCheckrm()
}

func (f *installFlow) nextCheckrm() effect {
	if f.upgradeIdx < len(f.upgrades) {
		u := f.upgrades[f.upgradeIdx]
		f.step = stCheckrm
		return effCheckrm{name: u.Name, params: checkrm.UpgradeParams(u.Version)}
	}
	return f.download()
}

func (f *installFlow) onCheckrm(e evCheckrm) effect {
	if e.err != nil {
		logger.Warn("checkrm script failed", logger.Fields{"flow": f.name, "error": e.err.Error()})
	} else if e.res.Blocked() {
		return f.abortCurrent(i18n.T(i18n.ApplicationRunning, f.upgrades[f.upgradeIdx].Name), nil)
	}
	f.upgradeIdx++
	return f.nextCheckrm()
}

func (f *installFlow) progressTitle() string {
	p := f.current()
	if p.IsInstalled() {
		return i18n.T(i18n.ProgressUpdating, p.DisplayName())
	}
	return i18n.T(i18n.ProgressInstalling, p.DisplayName())
}

func (f *installFlow) download() effect {
	f.step = stDownload
	return effDownload{name: f.current().Name}
}

func (f *installFlow) onDownload(e evDownload) effect {
	if e.err != nil {
		logger.Error("download request failed", logger.Fields{"flow": f.name, "error": e.err.Error()})
		f.o.Session.MarkBroke()
		return f.end()
	}
	p := f.current()
	switch e.res.Code {
	case model.ResultSuccess:
		f.dlFailures = 0
		f.altRoot = e.res.AltRoot
		return f.checkBattery(f.spaceForInstall)
	case model.ResultOutOfSpace:
		return f.notEnoughMemory()
	}

	if f.userCancelled() {
		return seq(effClean{}, f.end())
	}
	f.dlFailures++
	if e.res.Code == model.ResultDownloadFailed && f.dlFailures <= f.o.Options.DownloadRetries {
		logger.Info("retrying download", logger.Fields{"package": p.Name, "attempt": f.dlFailures})
		f.step = stDownloadNetwork
		return effEnsureNetwork{}
	}

	f.retryMsg = i18n.ResultMessage(p, e.res.Code)
	if f.retryMsg == "" {
		f.retryMsg = i18n.FailedMessage(p)
	}
	f.step = stRetryPrompt
	f.progressActive = false
	return seq(effProgress{start: false}, effYesNo{text: f.retryMsg})
}

func (f *installFlow) userCancelled() bool {
	return f.o.Session.Cancelled() && !f.o.Session.Broke()
}

// install performs the actual installation, taking the device offline
// first for system updates.
func (f *installFlow) install() effect {
	if !f.current().IsSystemUpdate() {
		return f.installNow()
	}
	f.step = stOffline
	return effSetMode{mode: session.ModeOffline}
}

func (f *installFlow) installNow() effect {
	p := f.current()
	f.step = stInstall
	f.progressActive = true
	return seq(effProgress{start: true, title: f.progressTitle()}, effInstall{name: p.Name, altRoot: f.altRoot})
}

func (f *installFlow) onMode(e evMode) effect {
	if e.err != nil {
		logger.Error("cannot take the device offline", logger.Fields{"flow": f.name, "error": e.err.Error()})
		return f.abortCurrent(i18n.FailedMessage(f.current()), nil)
	}
	f.savedMode = e.prev
	f.step = stSSUDelay
	return effTimer{d: f.o.Options.SSUInstallDelay}
}

func (f *installFlow) onTimer() effect {
	switch f.step {
	case stSSUDelay:
		f.step = stQuiesce
		return effQuiesce{}
	case stRebootDelay:
		f.step = stReboot
		return seq(effBootMarker{pkg: f.current()}, effReboot{})
	case stRebootSettle:
		return f.end()
	}
	return f.unexpected()
}

func (f *installFlow) onInstall(e evInstall) effect {
	if e.err != nil {
		logger.Error("install request failed", logger.Fields{"flow": f.name, "error": e.err.Error()})
		return f.end()
	}
	p := f.current()
	ok := e.code == model.ResultSuccess
	var effs []effect
	if f.o.Options.CleanAfterInstall && (ok || !p.NeedsReboot()) {
		effs = append(effs, effClean{})
	}
	f.refreshNeeded = true

	if ok {
		f.successes++
		effs = append(effs, effSaveBackup{})
		if p.NeedsReboot() {
			f.step = stRebootRefresh
			return seq(append(effs, effRefresh{})...)
		}
		return seq(append(effs, f.advance())...)
	}

	if f.userCancelled() {
		return seq(append(effs, f.end())...)
	}
	msg := i18n.ResultMessage(p, e.code)
	if msg == "" {
		msg = i18n.FailedMessage(p)
	}
	return seq(append(effs, f.abortCurrent(msg, nil))...)
}

func (f *installFlow) rebootNotice() string {
	if f.current().IsSystemUpdate() {
		return i18n.T(i18n.DeviceRestartLong)
	}
	return i18n.T(i18n.RestartingDevice)
}

// onCommandDone handles autoremove and reboot replies.
func (f *installFlow) onCommandDone(e evDone) effect {
	if e.err != nil {
		logger.Warn("backend command failed", logger.Fields{"flow": f.name, "step": f.step.String(), "error": e.err.Error()})
	}
	switch f.step {
	case stRebootAutoremove:
		f.step = stRebootDelay
		return effTimer{d: f.o.Options.RebootDelay}
	case stReboot:
		f.step = stRebootSettle
		return effTimer{d: f.o.Options.RebootSettleDelay}
	}
	return f.unexpected()
}

//go:generate mockgen -destination=./mocks/orchestrator.go -package=mocks . Backend,Confirmer,Progress,Environment,Checkrm,StateStore,Localizer

package orchestrator

import (
	"context"
	"time"

	"github.com/glorpus-work/appmanager/pkg/backend"
	"github.com/glorpus-work/appmanager/pkg/checkrm"
	"github.com/glorpus-work/appmanager/pkg/manifest"
	"github.com/glorpus-work/appmanager/pkg/model"
	"github.com/glorpus-work/appmanager/pkg/state"
)

// Backend is the asynchronous package worker. Every reply callback is
// invoked exactly once, from any goroutine.
type Backend interface {
	InstallCheck(ctx context.Context, name string, reply func(*backend.InstallCheckResult, error))
	FreeSpace(ctx context.Context, reply func(int64, error))
	Download(ctx context.Context, name string, reply func(*backend.DownloadResult, error))
	Install(ctx context.Context, name, altRoot string, reply func(model.ResultCode, error))
	RemoveCheck(ctx context.Context, name string, reply func([]string, error))
	Remove(ctx context.Context, name string, reply func(bool, error))
	PackageInfo(ctx context.Context, name string, reply func(*model.PackageRecord, error))
	ThirdPartyPolicy(ctx context.Context, name string, reply func(model.ThirdPartyPolicy, error))
	FileDetails(ctx context.Context, onlyUser bool, path string, reply func(*model.PackageRecord, error))
	InstallFile(ctx context.Context, path string, reply func(model.ResultCode, error))
	Autoremove(ctx context.Context, reply func(error))
	Reboot(ctx context.Context, reply func(error))
	Clean(ctx context.Context, reply func(error))
	PackageList(ctx context.Context, onlyUser bool, reply func([]*model.PackageRecord, error))
}

// RebootChoice is the answer to the reboot warning.
type RebootChoice int

const (
	RebootCancel RebootChoice = iota
	RebootBackup
	RebootConfirm
)

// InstallConfirmation describes the legal notice shown before installing.
type InstallConfirmation struct {
	Package  *model.PackageRecord
	Scare    bool // the package comes from an uncertified source
	Multiple bool // the notice covers a whole batch
}

// Confirmer asks the user things. Answers may arrive on any goroutine.
// A non-nil details package offers a details drill-down.
type Confirmer interface {
	YesNo(ctx context.Context, question string, answer func(bool))
	YesNoWithTitle(ctx context.Context, title, question string, answer func(bool))
	YesNoWithDetails(ctx context.Context, title, question string, details *model.PackageRecord, answer func(bool))
	InstallConfirm(ctx context.Context, req InstallConfirmation, answer func(bool))
	// MultiSelect reports ok=false when the dialog was declined.
	MultiSelect(ctx context.Context, title, desc string, pkgs []*model.PackageRecord, answer func(selected []*model.PackageRecord, ok bool))
	Annoy(ctx context.Context, text string, details *model.PackageRecord, done func())
	ContinueOrStop(ctx context.Context, text string, details *model.PackageRecord, answer func(bool))
	RebootWarning(ctx context.Context, pkg *model.PackageRecord, answer func(RebootChoice))
	// Irritate shows a notice that needs no answer.
	Irritate(text string)
}

// Progress is the busy indicator. Cancelling it raises the session's
// cancel flag.
type Progress interface {
	Start(title string)
	Stop()
}

// Environment is the device the engine runs on.
type Environment interface {
	EnsureNetwork(ctx context.Context, done func(ok bool))
	BatteryLow() bool
	CloseApps(ctx context.Context, done func())
	SetPrestart(enabled bool)
	LaunchBackup()
	QuiesceStatusMenu(ctx context.Context, done func())
	// RunInstructions hands a parsed .install file to the interpreter and
	// does not wait for it.
	RunInstructions(ctx context.Context, path string, inst *manifest.Instructions)
}

// Checkrm runs pre-upgrade and pre-removal scripts.
type Checkrm interface {
	Check(ctx context.Context, name string, params []string, reply func(checkrm.Result, error))
}

// StateStore persists what must survive the process.
type StateStore interface {
	SaveBackup(ctx context.Context, pkgs []*model.PackageRecord) error
	WriteBootMarker(marker state.BootMarker) error
}

// Localizer turns an install-file reference into a local path.
type Localizer interface {
	LocalizeAsync(ctx context.Context, ref string, reply func(path string, err error))
}

// Event is a workflow transition notification.
type Event struct {
	Flow    string // install#1, uninstall#2, ...
	Step    string
	Package string
}

// Hooks carries callbacks for progress events. They run on the loop
// goroutine.
type Hooks struct {
	OnEvent       func(Event)
	OnPackageList func([]*model.PackageRecord)
}

// Options are the engine's tunables.
type Options struct {
	DownloadRetries   int           // silent retries before prompting
	SSUInstallDelay   time.Duration // pause after going offline for a system update
	RebootDelay       time.Duration // pause between the restart notice and the reboot
	RebootSettleDelay time.Duration // pause after the reboot request before finishing
	CleanAfterInstall bool
}

// DefaultOptions mirror the config defaults.
func DefaultOptions() Options {
	return Options{
		DownloadRetries:   3,
		SSUInstallDelay:   3 * time.Second,
		RebootDelay:       2 * time.Second,
		RebootSettleDelay: 3 * time.Second,
	}
}

// InstallOptions describe one batch.
type InstallOptions struct {
	Type      model.InstallType
	Automatic bool // started without user interaction, e.g. a memory card insert
	Title     string
	Desc      string
}

// Package i18n holds the user-facing message catalog. Messages are looked
// up by key through golang.org/x/text/message so that plural forms and
// additional languages can be registered without touching the workflows.
package i18n

import (
	"sync"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys.
const (
	AllInstalled            = "install.all_installed"
	MemoryCardCancelled     = "install.memory_card_cancelled"
	OperationFailed         = "install.operation_failed"
	ApplicationRunning      = "checkrm.application_running"
	BatteryEmpty            = "install.battery_empty"
	MemoryShortage          = "install.memory_shortage"
	MemoryShortageContinue  = "install.memory_shortage_continue"
	ContinueInstall         = "install.continue"
	DownloadFailed          = "install.download_failed"
	DownloadMissing         = "install.download_missing"
	InstallCorrupted        = "install.corrupted"
	UpdateCorrupted         = "update.corrupted"
	InstallIncompatible     = "install.incompatible"
	UpdateIncompatible      = "update.incompatible"
	IncompatibleCurrent     = "install.incompatible_current"
	InstallMissing          = "install.missing"
	UpdateMissing           = "update.missing"
	InstallConflict         = "install.conflict"
	UpdateConflict          = "update.conflict"
	InstallFailed           = "install.failed"
	UpdateFailed            = "update.failed"
	SoftwareUpdateInstalled = "install.software_update_installed"
	PackageInstalled        = "install.package_installed"
	PackagesInstalled       = "install.packages_installed"
	RestartingDevice        = "reboot.restarting"
	DeviceRestartLong       = "reboot.restart_long"
	PolicyViolation         = "install.policy_violation"
	InstallAnyway           = "install.domain_violation"
	ConfirmUpdateAll        = "install.confirm_update_all"
	TitleUpdateAll          = "install.title_update_all"
	TitleInstallApps        = "install.title_install_apps"
	TitleRestore            = "install.title_restore"
	TitleMemoryCard         = "install.title_memory_card"
	TitleSystemUpdate       = "install.title_system_update"
	ProgressPreparing       = "progress.preparing"
	ProgressInstalling      = "progress.installing"
	ProgressUpdating        = "progress.updating"
	ProgressUninstalling    = "progress.uninstalling"
	ConfirmUninstall        = "uninstall.confirm"
	TitleConfirmUninstall   = "uninstall.title_confirm"
	UninstallNeeded         = "uninstall.packages_needed"
	UninstallFailed         = "uninstall.failed"
	UninstallSuccessful     = "uninstall.successful"
	RebootWarning           = "reboot.warning"
	TitleInstallConfirm     = "install.title_confirm"
	ConfirmInstall          = "install.confirm"
	UntrustedNotice         = "install.untrusted"
	UntrustedNoticeMultiple = "install.untrusted_multiple"
)

var english = map[string]string{
	AllInstalled:            "All selected applications are already installed",
	MemoryCardCancelled:     "Installation from memory card cancelled",
	OperationFailed:         "Operation failed",
	ApplicationRunning:      "Close %s before continuing",
	BatteryEmpty:            "Battery low. Connect the charger to continue.",
	MemoryShortage:          "Not enough memory in target location",
	MemoryShortageContinue:  "Not enough memory in target location.\nContinue anyway?",
	ContinueInstall:         "Continue installing the remaining applications?",
	DownloadFailed:          "Unable to download %s",
	DownloadMissing:         "Unable to find %s",
	InstallCorrupted:        "Unable to install %s. Package is corrupted.",
	UpdateCorrupted:         "Unable to update %s. Package is corrupted.",
	InstallIncompatible:     "Unable to install %s. Incompatible application package.",
	UpdateIncompatible:      "Unable to update %s. Incompatible application package.",
	IncompatibleCurrent:     "Unable to install %s. Incompatible with the installed system.",
	InstallMissing:          "Unable to install %s. Missing components.",
	UpdateMissing:           "Unable to update %s. Missing components.",
	InstallConflict:         "Unable to install %s. Conflicts with installed applications.",
	UpdateConflict:          "Unable to update %s. Conflicts with installed applications.",
	InstallFailed:           "Installation of %s failed",
	UpdateFailed:            "Update of %s failed",
	SoftwareUpdateInstalled: "Software update installed",
	PackageInstalled:        "%s installed",
	PolicyViolation:         "%s breaks the third party package policy",
	InstallAnyway:           "%s violates its repository domain.\nInstall anyway?",
	ConfirmUpdateAll:        "Update all applications?\nTotal download size %s",
	TitleUpdateAll:          "Update all",
	TitleInstallApps:        "Install applications",
	TitleRestore:            "Restore applications",
	TitleMemoryCard:         "Install from memory card",
	TitleSystemUpdate:       "Operating system update",
	ProgressPreparing:       "Preparing installation",
	ProgressInstalling:      "Installing %s",
	ProgressUpdating:        "Updating %s",
	ProgressUninstalling:    "Uninstalling %s",
	ConfirmUninstall:        "Uninstall %s?\nVersion %s\nSize %s",
	TitleConfirmUninstall:   "Confirm uninstall",
	UninstallNeeded:         "Unable to uninstall %s. Needed by other applications.",
	UninstallFailed:         "Unable to uninstall %s",
	UninstallSuccessful:     "%s uninstalled",
	RestartingDevice:        "Restarting device",
	DeviceRestartLong:       "Restarting device. This may take several minutes.",
	RebootWarning:           "Installing %s requires a restart. Close all applications and create a backup first.",
	TitleInstallConfirm:     "Install application",
	ConfirmInstall:          "Install?",
	UntrustedNotice:         "This application comes from an uncertified source and may harm your device.",
	UntrustedNoticeMultiple: "Some of these applications come from an uncertified source and may harm your device.",
}

var (
	once    sync.Once
	printer *message.Printer
)

func load() {
	for key, msg := range english {
		_ = message.SetString(language.English, key, msg)
	}
	_ = message.Set(language.English, PackagesInstalled,
		plural.Selectf(1, "%d",
			"=1", "1 package installed",
			"other", "%d packages installed",
		))
	printer = message.NewPrinter(language.English)
}

// T formats the message registered under key.
func T(key string, args ...any) string {
	once.Do(load)
	return printer.Sprintf(key, args...)
}

// Size renders a byte count for dialogs.
func Size(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

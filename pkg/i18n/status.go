package i18n

import "github.com/glorpus-work/appmanager/pkg/model"

// StatusMessage explains why pkg cannot be installed and whether a details
// view is worth offering.
func StatusMessage(pkg *model.PackageRecord) (msg string, withDetails bool) {
	name := pkg.DisplayName()
	upgrading := pkg.IsInstalled()
	pick := func(update, install string) string {
		if upgrading {
			return update
		}
		return install
	}

	switch pkg.InstallableStatus {
	case model.StatusMissing:
		return T(pick(UpdateMissing, InstallMissing), name), true
	case model.StatusConflicting:
		return T(pick(UpdateConflict, InstallConflict), name), true
	case model.StatusCorrupted:
		return T(pick(UpdateCorrupted, InstallCorrupted), name), false
	case model.StatusIncompatible:
		return T(pick(UpdateIncompatible, InstallIncompatible), name), false
	case model.StatusIncompatibleCurrent:
		return T(IncompatibleCurrent, name), false
	case model.StatusNotFound:
		return T(DownloadMissing, name), false
	default:
		return T(pick(UpdateFailed, InstallFailed), name), true
	}
}

// ResultMessage maps a failed operation result to a message. It returns ""
// for codes without a dedicated message.
func ResultMessage(pkg *model.PackageRecord, code model.ResultCode) string {
	name := pkg.DisplayName()
	switch code {
	case model.ResultDownloadFailed:
		return T(DownloadFailed, name)
	case model.ResultPackagesNotFound:
		return T(DownloadMissing, name)
	case model.ResultPackageCorrupted:
		if pkg.IsInstalled() {
			return T(UpdateCorrupted, name)
		}
		return T(InstallCorrupted, name)
	case model.ResultOutOfSpace:
		return T(MemoryShortage)
	default:
		return ""
	}
}

// FailedMessage is the generic failure text for pkg.
func FailedMessage(pkg *model.PackageRecord) string {
	if pkg.IsInstalled() {
		return T(UpdateFailed, pkg.DisplayName())
	}
	return T(InstallFailed, pkg.DisplayName())
}

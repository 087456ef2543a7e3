package orchestrator

import "github.com/glorpus-work/appmanager/pkg/model"

// filterBatch keeps the packages worth installing for typ. Packages that
// need a reboot go last and only the first of them survives.
func filterBatch(pkgs []*model.PackageRecord, typ model.InstallType) []*model.PackageRecord {
	var normal []*model.PackageRecord
	var reboot *model.PackageRecord

	for _, p := range pkgs {
		if p == nil || !eligible(p, typ) {
			continue
		}
		if p.NeedsReboot() {
			if reboot == nil {
				reboot = p
			}
		} else {
			normal = append(normal, p)
		}
		if typ == model.InstallStandard {
			break
		}
	}

	if reboot != nil {
		normal = append(normal, reboot)
	}
	return normal
}

func eligible(p *model.PackageRecord, typ model.InstallType) bool {
	if typ == model.InstallBackup {
		return !p.IsInstalled()
	}
	return p.HasUpdate()
}

// totalDownloadSize sums the download sizes of pkgs.
func totalDownloadSize(pkgs []*model.PackageRecord) int64 {
	var n int64
	for _, p := range pkgs {
		n += p.DownloadSize
	}
	return n
}

func clonePackages(pkgs []*model.PackageRecord) []*model.PackageRecord {
	out := make([]*model.PackageRecord, 0, len(pkgs))
	for _, p := range pkgs {
		if p != nil {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Package model holds the package records and enumerations shared by the
// backend client and the orchestration workflows.
package model

import (
	"strings"

	"github.com/hashicorp/go-version"
)

// InstallFlags is the bit set the backend attaches to a package.
type InstallFlags uint

const (
	FlagReboot InstallFlags = 1 << iota
	FlagFlashAndReboot
	FlagCloseApps
	FlagSystemUpdate
)

// Has reports whether all bits of f are set.
func (i InstallFlags) Has(f InstallFlags) bool { return i&f == f }

// InstallType selects the confirmation and filtering rules of a batch.
type InstallType int

const (
	InstallStandard InstallType = iota
	InstallBackup
	InstallMemoryCard
	InstallMulti
	InstallUpgradeAll
	InstallUpdateSystem
)

func (t InstallType) String() string {
	switch t {
	case InstallStandard:
		return "standard"
	case InstallBackup:
		return "backup"
	case InstallMemoryCard:
		return "memory_card"
	case InstallMulti:
		return "multi"
	case InstallUpgradeAll:
		return "upgrade_all"
	case InstallUpdateSystem:
		return "update_system"
	default:
		return "unknown"
	}
}

// PackageRecord is a metadata snapshot of one package as reported by the
// backend. Workflows work on their own clones and refresh them in place.
type PackageRecord struct {
	Name              string            `json:"name"`
	PrettyName        string            `json:"pretty_name,omitempty"`
	InstalledVersion  string            `json:"installed_version,omitempty"`
	AvailableVersion  string            `json:"available_version,omitempty"`
	InstalledSize     int64             `json:"installed_size,omitempty"`
	InstallableStatus InstallableStatus `json:"installable_status"`
	RemovableStatus   RemovableStatus   `json:"removable_status"`
	Flags             InstallFlags      `json:"install_flags"`
	RequiredFreeSpace int64             `json:"required_free_space"`
	DownloadSize      int64             `json:"download_size"`
	ThirdPartyPolicy  ThirdPartyPolicy  `json:"third_party_policy"`
	HaveInfo          bool              `json:"have_info"`
	Summary           string            `json:"summary,omitempty"`
	Description       string            `json:"description,omitempty"`
}

// Clone returns a detached copy.
func (p *PackageRecord) Clone() *PackageRecord {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Update copies the backend-owned fields of fresh into p, keeping p's identity.
func (p *PackageRecord) Update(fresh *PackageRecord) {
	if fresh == nil {
		return
	}
	name := p.Name
	*p = *fresh
	if p.Name == "" {
		p.Name = name
	}
	p.HaveInfo = true
}

// IsInstalled reports whether any version is installed.
func (p *PackageRecord) IsInstalled() bool { return p.InstalledVersion != "" }

// NeedsReboot reports whether installing the package ends in a restart.
func (p *PackageRecord) NeedsReboot() bool {
	return p.Flags&(FlagReboot|FlagFlashAndReboot|FlagCloseApps) != 0
}

// IsSystemUpdate reports whether the package is an operating system update.
func (p *PackageRecord) IsSystemUpdate() bool { return p.Flags.Has(FlagSystemUpdate) }

// HasUpdate reports whether an available version is newer than the
// installed one. Versions that do not parse are compared as strings.
func (p *PackageRecord) HasUpdate() bool {
	if p.AvailableVersion == "" {
		return false
	}
	if p.InstalledVersion == "" {
		return true
	}
	avail, aerr := version.NewVersion(p.AvailableVersion)
	inst, ierr := version.NewVersion(p.InstalledVersion)
	if aerr != nil || ierr != nil {
		return p.AvailableVersion != p.InstalledVersion
	}
	return avail.GreaterThan(inst)
}

// DisplayName prefers the pretty name.
func (p *PackageRecord) DisplayName() string {
	if p.PrettyName != "" {
		return p.PrettyName
	}
	return p.Name
}

// DisplayVersion returns the version relevant to the operation: the
// installed one for removals, the available one otherwise. Debian epochs
// are stripped.
func (p *PackageRecord) DisplayVersion(installed bool) string {
	v := p.AvailableVersion
	if installed || v == "" {
		v = p.InstalledVersion
	}
	if i := strings.Index(v, ":"); i >= 0 {
		v = v[i+1:]
	}
	return v
}

// UpgradeTarget names a package upgraded as a side effect of an install.
type UpgradeTarget struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// TrustEntry is one certification verdict from an install check.
type TrustEntry struct {
	Status TrustStatus `json:"status"`
	Name   string      `json:"name"`
}

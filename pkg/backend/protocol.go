// Package backend talks to the privileged package worker. Every command is
// asynchronous: the call returns at once and the reply callback runs later
// on the client's reader goroutine.
package backend

import (
	"encoding/json"

	"github.com/glorpus-work/appmanager/pkg/model"
)

// Command names understood by the worker.
const (
	CmdInstallCheck     = "install_check"
	CmdFreeSpace        = "free_space"
	CmdDownload         = "download"
	CmdInstall          = "install"
	CmdRemoveCheck      = "remove_check"
	CmdRemove           = "remove"
	CmdPackageInfo      = "package_info"
	CmdThirdPartyPolicy = "third_party_policy"
	CmdFileDetails      = "file_details"
	CmdInstallFile      = "install_file"
	CmdAutoremove       = "autoremove"
	CmdReboot           = "reboot"
	CmdClean            = "clean"
	CmdPackageList      = "package_list"
)

type request struct {
	ID   uint64 `json:"id"`
	Cmd  string `json:"cmd"`
	Args any    `json:"args,omitempty"`
}

type response struct {
	ID     uint64          `json:"id"`
	Error  string          `json:"error,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

type nameArgs struct {
	Name string `json:"name"`
}

type installArgs struct {
	Name    string `json:"name"`
	AltRoot string `json:"alt_root,omitempty"`
}

type fileDetailsArgs struct {
	Path     string `json:"path"`
	OnlyUser bool   `json:"only_user"`
}

type pathArgs struct {
	Path string `json:"path"`
}

type packageListArgs struct {
	OnlyUser bool `json:"only_user"`
}

// InstallCheckResult is the reply to InstallCheck.
type InstallCheckResult struct {
	Success  bool                  `json:"success"`
	Trust    []model.TrustEntry    `json:"trust"`
	Upgrades []model.UpgradeTarget `json:"upgrades"`
}

// Untrusted reports whether any entry is not certified or violates a domain.
func (r *InstallCheckResult) Untrusted() bool {
	for _, e := range r.Trust {
		if e.Status == model.TrustNotCertified || e.Status == model.TrustDomainsViolated {
			return true
		}
	}
	return false
}

// DomainsViolated reports whether any entry violates a domain.
func (r *InstallCheckResult) DomainsViolated() bool {
	for _, e := range r.Trust {
		if e.Status == model.TrustDomainsViolated {
			return true
		}
	}
	return false
}

// DownloadResult is the reply to Download.
type DownloadResult struct {
	Code    model.ResultCode `json:"result"`
	Size    int64            `json:"size"`
	AltRoot string           `json:"alt_root,omitempty"`
}

type resultReply struct {
	Code model.ResultCode `json:"result"`
}

type successReply struct {
	Success bool `json:"success"`
}

type freeSpaceReply struct {
	Bytes int64 `json:"bytes"`
}

type scriptsReply struct {
	Scripts []string `json:"scripts"`
}

type policyReply struct {
	Policy model.ThirdPartyPolicy `json:"policy"`
}

type packagesReply struct {
	Packages []*model.PackageRecord `json:"packages"`
}

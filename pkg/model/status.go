package model

import (
	"fmt"
	"strings"
)

// InstallableStatus is the backend's verdict on whether a package can be
// installed right now.
type InstallableStatus int

const (
	StatusUnknown InstallableStatus = iota
	StatusAble
	StatusMissing
	StatusConflicting
	StatusCorrupted
	StatusIncompatible
	StatusIncompatibleCurrent
	StatusNotFound
)

var installableNames = map[InstallableStatus]string{
	StatusUnknown:             "unknown",
	StatusAble:                "able",
	StatusMissing:             "missing",
	StatusConflicting:         "conflicting",
	StatusCorrupted:           "corrupted",
	StatusIncompatible:        "incompatible",
	StatusIncompatibleCurrent: "incompatible_current",
	StatusNotFound:            "not_found",
}

func (s InstallableStatus) String() string {
	if n, ok := installableNames[s]; ok {
		return n
	}
	return fmt.Sprintf("installable(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s InstallableStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *InstallableStatus) UnmarshalText(b []byte) error {
	return parseEnum(installableNames, string(b), s)
}

// RemovableStatus is the backend's verdict on removing an installed package.
type RemovableStatus int

const (
	RemovableAble RemovableStatus = iota
	RemovableNeeded
	RemovableUnable
)

var removableNames = map[RemovableStatus]string{
	RemovableAble:   "able",
	RemovableNeeded: "needed",
	RemovableUnable: "unable",
}

func (s RemovableStatus) String() string {
	if n, ok := removableNames[s]; ok {
		return n
	}
	return fmt.Sprintf("removable(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s RemovableStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *RemovableStatus) UnmarshalText(b []byte) error {
	return parseEnum(removableNames, string(b), s)
}

// ThirdPartyPolicy classifies packages coming from non-default repositories.
type ThirdPartyPolicy int

const (
	PolicyUnknown ThirdPartyPolicy = iota
	PolicyCompatible
	PolicyIncompatible
)

var policyNames = map[ThirdPartyPolicy]string{
	PolicyUnknown:      "unknown",
	PolicyCompatible:   "compatible",
	PolicyIncompatible: "incompatible",
}

func (p ThirdPartyPolicy) String() string {
	if n, ok := policyNames[p]; ok {
		return n
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p ThirdPartyPolicy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *ThirdPartyPolicy) UnmarshalText(b []byte) error {
	return parseEnum(policyNames, string(b), p)
}

// TrustStatus is one entry of a certification check.
type TrustStatus int

const (
	TrustCertified TrustStatus = iota
	TrustNotCertified
	TrustDomainsViolated
)

var trustNames = map[TrustStatus]string{
	TrustCertified:       "certified",
	TrustNotCertified:    "not_certified",
	TrustDomainsViolated: "domains_violated",
}

func (t TrustStatus) String() string {
	if n, ok := trustNames[t]; ok {
		return n
	}
	return fmt.Sprintf("trust(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t TrustStatus) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TrustStatus) UnmarshalText(b []byte) error {
	return parseEnum(trustNames, string(b), t)
}

// ResultCode is the outcome of a download or install command.
type ResultCode int

const (
	ResultSuccess ResultCode = iota
	ResultFailure
	ResultDownloadFailed
	ResultPackagesNotFound
	ResultPackageCorrupted
	ResultOutOfSpace
)

var resultNames = map[ResultCode]string{
	ResultSuccess:          "success",
	ResultFailure:          "failure",
	ResultDownloadFailed:   "download_failed",
	ResultPackagesNotFound: "packages_not_found",
	ResultPackageCorrupted: "package_corrupted",
	ResultOutOfSpace:       "out_of_space",
}

func (r ResultCode) String() string {
	if n, ok := resultNames[r]; ok {
		return n
	}
	return fmt.Sprintf("result(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r ResultCode) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *ResultCode) UnmarshalText(b []byte) error {
	return parseEnum(resultNames, string(b), r)
}

func parseEnum[T comparable](names map[T]string, s string, dst *T) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for v, n := range names {
		if n == s {
			*dst = v
			return nil
		}
	}
	return fmt.Errorf("unknown value %q", s)
}

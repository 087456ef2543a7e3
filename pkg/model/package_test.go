package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageRecord_HasUpdate(t *testing.T) {
	tests := []struct {
		name      string
		installed string
		available string
		expected  bool
	}{
		{name: "not installed with candidate", installed: "", available: "1.0", expected: true},
		{name: "no candidate", installed: "1.0", available: "", expected: false},
		{name: "newer semver", installed: "1.0.0", available: "1.2.0", expected: true},
		{name: "same version", installed: "1.2.0", available: "1.2.0", expected: false},
		{name: "older candidate", installed: "2.0", available: "1.9", expected: false},
		{name: "unparseable falls back to inequality", installed: "git-r42", available: "git-r43", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &PackageRecord{Name: "foo", InstalledVersion: tt.installed, AvailableVersion: tt.available}
			assert.Equal(t, tt.expected, p.HasUpdate())
		})
	}
}

func TestPackageRecord_NeedsReboot(t *testing.T) {
	assert.False(t, (&PackageRecord{}).NeedsReboot())
	assert.False(t, (&PackageRecord{Flags: FlagSystemUpdate}).NeedsReboot())
	assert.True(t, (&PackageRecord{Flags: FlagReboot}).NeedsReboot())
	assert.True(t, (&PackageRecord{Flags: FlagFlashAndReboot}).NeedsReboot())
	assert.True(t, (&PackageRecord{Flags: FlagCloseApps | FlagSystemUpdate}).NeedsReboot())
}

func TestPackageRecord_CloneIsDetached(t *testing.T) {
	orig := &PackageRecord{Name: "foo", AvailableVersion: "1.0"}
	c := orig.Clone()
	c.AvailableVersion = "2.0"
	assert.Equal(t, "1.0", orig.AvailableVersion)
	assert.Nil(t, (*PackageRecord)(nil).Clone())
}

func TestPackageRecord_Update(t *testing.T) {
	p := &PackageRecord{Name: "foo", InstallableStatus: StatusAble}
	p.Update(&PackageRecord{InstallableStatus: StatusConflicting, AvailableVersion: "2.0"})

	assert.Equal(t, "foo", p.Name)
	assert.Equal(t, StatusConflicting, p.InstallableStatus)
	assert.True(t, p.HaveInfo)
}

func TestPackageRecord_Display(t *testing.T) {
	p := &PackageRecord{Name: "foo", InstalledVersion: "1:1.0", AvailableVersion: "1:1.1"}
	assert.Equal(t, "foo", p.DisplayName())
	assert.Equal(t, "1.1", p.DisplayVersion(false))
	assert.Equal(t, "1.0", p.DisplayVersion(true))

	p.PrettyName = "Foo Viewer"
	assert.Equal(t, "Foo Viewer", p.DisplayName())
}

func TestEnums_TextRoundTrip(t *testing.T) {
	raw := `{"name":"foo","installable_status":"incompatible_current","removable_status":"needed","third_party_policy":"compatible","install_flags":9}`

	var p PackageRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, StatusIncompatibleCurrent, p.InstallableStatus)
	assert.Equal(t, RemovableNeeded, p.RemovableStatus)
	assert.Equal(t, PolicyCompatible, p.ThirdPartyPolicy)
	assert.True(t, p.Flags.Has(FlagReboot|FlagSystemUpdate))

	var bad InstallableStatus
	assert.Error(t, bad.UnmarshalText([]byte("sideways")))
	assert.Equal(t, "result(42)", ResultCode(42).String())
}

package session

import (
	"fmt"
	"testing"

	"github.com/glorpus-work/appmanager/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDevice struct {
	calls []DeviceMode
	fail  bool
}

func (d *recordingDevice) SetDeviceMode(mode DeviceMode, done func(error)) {
	if d.fail {
		done(fmt.Errorf("dbus unavailable"))
		return
	}
	d.calls = append(d.calls, mode)
	done(nil)
}

// pendingDevice holds every request until the test completes it.
type pendingDevice struct {
	modes []DeviceMode
	dones []func(error)
}

func (d *pendingDevice) SetDeviceMode(mode DeviceMode, done func(error)) {
	d.modes = append(d.modes, mode)
	d.dones = append(d.dones, done)
}

type acquired struct {
	calls int
	prev  DeviceMode
	err   error
}

func (a *acquired) done(prev DeviceMode, err error) {
	a.calls++
	a.prev = prev
	a.err = err
}

func TestDeviceMode_AcquireRestore(t *testing.T) {
	dev := &recordingDevice{}
	s := New(dev, Advanced{})

	var a acquired
	s.AcquireDeviceMode("install", ModeOffline, a.done)
	require.Equal(t, 1, a.calls)
	require.NoError(t, a.err)
	assert.Equal(t, ModeNormal, a.prev)
	assert.Equal(t, ModeOffline, s.DeviceMode())
	assert.Equal(t, "install", s.Holder())

	var other acquired
	s.AcquireDeviceMode("other", ModeOffline, other.done)
	assert.ErrorIs(t, other.err, errors.ErrDeviceModeHeld)

	// a non-holder cannot restore
	s.RestoreDeviceMode("other", ModeNormal)
	assert.Equal(t, ModeOffline, s.DeviceMode())

	s.RestoreDeviceMode("install", a.prev)
	assert.Equal(t, ModeNormal, s.DeviceMode())
	assert.Empty(t, s.Holder())
	assert.Equal(t, []DeviceMode{ModeOffline, ModeNormal}, dev.calls)
}

func TestDeviceMode_RestoreUnknownIsNoop(t *testing.T) {
	dev := &recordingDevice{}
	s := New(dev, Advanced{})
	s.RestoreDeviceMode("install", ModeUnknown)
	assert.Empty(t, dev.calls)
}

func TestDeviceMode_ControllerFailure(t *testing.T) {
	s := New(&recordingDevice{fail: true}, Advanced{})
	var a acquired
	s.AcquireDeviceMode("install", ModeOffline, a.done)
	require.Error(t, a.err)
	assert.Equal(t, ModeUnknown, a.prev)
	assert.Equal(t, ModeNormal, s.DeviceMode())
	assert.Empty(t, s.Holder())
}

func TestDeviceMode_PendingChangeDoesNotBlockSession(t *testing.T) {
	dev := &pendingDevice{}
	s := New(dev, Advanced{})

	var a acquired
	s.AcquireDeviceMode("install", ModeOffline, a.done)
	assert.Equal(t, 0, a.calls)
	assert.Equal(t, "install", s.Holder())

	// the session stays usable while the device is switching
	s.Cancel()
	assert.True(t, s.Cancelled())
	assert.False(t, s.Broke())
	assert.Equal(t, ModeNormal, s.DeviceMode())

	var other acquired
	s.AcquireDeviceMode("other", ModeOffline, other.done)
	assert.ErrorIs(t, other.err, errors.ErrDeviceModeHeld)

	require.Len(t, dev.dones, 1)
	dev.dones[0](nil)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, ModeNormal, a.prev)
	assert.Equal(t, ModeOffline, s.DeviceMode())
}

func TestDeviceMode_PendingChangeFailureReleasesHold(t *testing.T) {
	dev := &pendingDevice{}
	s := New(dev, Advanced{})

	var a acquired
	s.AcquireDeviceMode("install", ModeOffline, a.done)
	dev.dones[0](fmt.Errorf("timed out"))

	require.Error(t, a.err)
	assert.Empty(t, s.Holder())
	assert.Equal(t, ModeNormal, s.DeviceMode())
}

func TestAdvancedSwitchesRequireRedPill(t *testing.T) {
	s := New(nil, Advanced{IgnoreThirdPartyPolicy: true, ShowAll: true})
	assert.False(t, s.IgnoreThirdPartyPolicy())
	assert.False(t, s.ShowAll())

	s.SetAdvanced(Advanced{RedPill: true, IgnoreThirdPartyPolicy: true, ShowAll: true})
	assert.True(t, s.RedPill())
	assert.True(t, s.IgnoreThirdPartyPolicy())
	assert.True(t, s.ShowAll())
}

func TestCancelFlags(t *testing.T) {
	s := New(nil, Advanced{})
	assert.False(t, s.Cancelled())

	s.Cancel()
	s.MarkBroke()
	assert.True(t, s.Cancelled())
	assert.True(t, s.Broke())

	s.ResetCancel()
	assert.False(t, s.Cancelled())
	assert.False(t, s.Broke())
}

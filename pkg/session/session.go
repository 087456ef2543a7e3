// Package session holds the process-wide state shared by all workflows:
// the device mode toggle and who holds it, the advanced-mode switches and
// the cooperative cancellation flags raised by the progress indicator.
package session

import (
	"fmt"
	"sync"

	"github.com/glorpus-work/appmanager/internal/logger"
	"github.com/glorpus-work/appmanager/pkg/errors"
)

// DeviceMode is the system-wide connectivity toggle.
type DeviceMode int

const (
	ModeUnknown DeviceMode = iota
	ModeNormal
	ModeOffline
)

func (m DeviceMode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// DeviceController applies a device mode to the running system. It must
// not block: done is called once the change has been applied or has failed,
// and requests take effect in the order they were made.
type DeviceController interface {
	SetDeviceMode(mode DeviceMode, done func(error))
}

// Advanced are the unrestricted ("red pill") mode switches.
type Advanced struct {
	RedPill                bool
	IgnoreThirdPartyPolicy bool
	ShowAll                bool
}

// Session is created once at startup and passed to every workflow.
type Session struct {
	mu       sync.Mutex
	device   DeviceController
	mode     DeviceMode
	holder   string
	advanced Advanced

	cancelled bool
	broke     bool
}

// New returns a session whose device starts in normal mode.
func New(device DeviceController, advanced Advanced) *Session {
	return &Session{device: device, mode: ModeNormal, advanced: advanced}
}

// Advanced returns the advanced-mode switches.
func (s *Session) Advanced() Advanced {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advanced
}

// SetAdvanced replaces the advanced-mode switches.
func (s *Session) SetAdvanced(a Advanced) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanced = a
}

// RedPill reports whether advanced mode is on.
func (s *Session) RedPill() bool { return s.Advanced().RedPill }

// IgnoreThirdPartyPolicy is only honoured in advanced mode.
func (s *Session) IgnoreThirdPartyPolicy() bool {
	a := s.Advanced()
	return a.RedPill && a.IgnoreThirdPartyPolicy
}

// ShowAll is only honoured in advanced mode.
func (s *Session) ShowAll() bool {
	a := s.Advanced()
	return a.RedPill && a.ShowAll
}

// DeviceMode returns the current device mode.
func (s *Session) DeviceMode() DeviceMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Holder returns the owner that changed the device mode, or "".
func (s *Session) Holder() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holder
}

// AcquireDeviceMode switches to mode on behalf of owner. done receives the
// mode to restore later. Only one owner may hold a changed mode; the hold is
// taken right away and dropped again when the device refuses the change.
func (s *Session) AcquireDeviceMode(owner string, mode DeviceMode, done func(prev DeviceMode, err error)) {
	s.mu.Lock()
	if s.holder != "" && s.holder != owner {
		holder := s.holder
		s.mu.Unlock()
		done(ModeUnknown, fmt.Errorf("%w: held by %s", errors.ErrDeviceModeHeld, holder))
		return
	}
	held := s.holder == owner
	prev := s.mode
	s.holder = owner
	s.mu.Unlock()

	applied := func(err error) {
		s.mu.Lock()
		if err != nil {
			if !held && s.holder == owner {
				s.holder = ""
			}
			s.mu.Unlock()
			done(ModeUnknown, errors.Wrapf(err, "set device mode %s", mode))
			return
		}
		s.mode = mode
		s.mu.Unlock()
		logger.Debug("device mode changed", logger.Fields{"owner": owner, "from": prev.String(), "to": mode.String()})
		done(prev, nil)
	}
	if s.device == nil {
		applied(nil)
		return
	}
	s.device.SetDeviceMode(mode, applied)
}

// RestoreDeviceMode puts back prev and releases owner's hold. Restoring
// ModeUnknown is a no-op, as is a restore by a non-holder. A device that
// fails to switch back is only logged.
func (s *Session) RestoreDeviceMode(owner string, prev DeviceMode) {
	s.mu.Lock()
	if prev == ModeUnknown || s.holder != owner {
		s.mu.Unlock()
		return
	}
	s.holder = ""
	s.mode = prev
	s.mu.Unlock()

	logger.Debug("device mode restored", logger.Fields{"owner": owner, "mode": prev.String()})
	if s.device == nil {
		return
	}
	s.device.SetDeviceMode(prev, func(err error) {
		if err != nil {
			logger.Error("failed to restore device mode", logger.Fields{"owner": owner, "mode": prev.String(), "error": err.Error()})
		}
	})
}

// Cancel records that the user cancelled the progress indicator.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = true
}

// MarkBroke records that the operation was interrupted by a failure
// rather than by the user.
func (s *Session) MarkBroke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broke = true
}

// ResetCancel clears both flags. It is called whenever progress starts.
func (s *Session) ResetCancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = false
	s.broke = false
}

// Cancelled reports whether the user cancelled.
func (s *Session) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// Broke reports whether the operation broke.
func (s *Session) Broke() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.broke
}

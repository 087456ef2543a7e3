package eventloop

import (
	"sync"
	"time"
)

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

// Clock schedules delayed callbacks. The callback runs on an arbitrary
// goroutine; callers post back to the loop themselves.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock uses the time package.
type RealClock struct{}

// AfterFunc implements Clock.
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// InstantClock fires every callback immediately and records the
// requested delays. It lets workflow tests run without sleeping.
type InstantClock struct {
	mu     sync.Mutex
	delays []time.Duration
}

type firedTimer struct{}

func (firedTimer) Stop() bool { return false }

// AfterFunc implements Clock.
func (c *InstantClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	c.delays = append(c.delays, d)
	c.mu.Unlock()
	f()
	return firedTimer{}
}

// Delays returns the delays requested so far.
func (c *InstantClock) Delays() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.delays...)
}

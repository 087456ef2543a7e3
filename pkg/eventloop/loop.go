// Package eventloop provides the single-goroutine loop the orchestration
// workflows run on. Every asynchronous completion (backend reply, user
// answer, timer, script exit) is posted back to the loop, so workflow
// state is only ever touched from one goroutine.
package eventloop

import (
	"context"
	"sync"
)

// Poster schedules a function to run on the loop goroutine.
type Poster interface {
	Post(fn func())
}

// Loop is a FIFO task queue drained by Run.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// New creates an idle loop.
func New() *Loop {
	return &Loop{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
}

// Post appends fn to the queue. It is safe to call from any goroutine,
// including from tasks running on the loop itself.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Stop makes Run return after the task currently executing.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.stopped) })
}

// Run drains the queue until ctx is cancelled or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		for l.step() {
			select {
			case <-l.stopped:
				return nil
			default:
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stopped:
			return nil
		case <-l.wake:
		}
	}
}

// RunUntilIdle executes queued tasks on the calling goroutine until the
// queue is empty and returns how many ran. Tasks posted while draining
// are executed too.
func (l *Loop) RunUntilIdle() int {
	n := 0
	for l.step() {
		n++
	}
	return n
}

// Pending reports the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *Loop) step() bool {
	l.mu.Lock()
	if len(l.queue) == 0 {
		l.mu.Unlock()
		return false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	l.mu.Unlock()

	fn()
	return true
}

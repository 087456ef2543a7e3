package tui

import (
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/glorpus-work/appmanager/internal/logger"
)

// Canceller is told when the user cancels the progress indicator.
type Canceller interface {
	Cancel()
}

// Spinner is an indeterminate progress indicator.
type Spinner struct {
	out      io.Writer
	cancel   Canceller
	interval time.Duration

	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	stop chan struct{}
}

// NewSpinner returns a spinner drawing on out. Cancel forwards to c.
func NewSpinner(out io.Writer, c Canceller) *Spinner {
	return &Spinner{out: out, cancel: c, interval: 100 * time.Millisecond}
}

// Start shows the spinner, or retitles it when already shown.
func (s *Spinner) Start(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bar != nil {
		s.bar.Describe(title)
		return
	}
	s.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(s.out),
		progressbar.OptionSetDescription(title),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	s.stop = make(chan struct{})
	go s.spin(s.bar, s.stop)
}

func (s *Spinner) spin(bar *progressbar.ProgressBar, stop <-chan struct{}) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			_ = bar.Add(1)
		}
	}
}

// Stop hides the spinner.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bar == nil {
		return
	}
	close(s.stop)
	_ = s.bar.Finish()
	s.bar, s.stop = nil, nil
}

// Active reports whether the spinner is shown.
func (s *Spinner) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bar != nil
}

// Cancel is the user's request to stop the running operation. It returns
// false when nothing was in progress.
func (s *Spinner) Cancel() bool {
	if !s.Active() {
		return false
	}
	logger.Info("operation cancelled by user")
	s.cancel.Cancel()
	return true
}

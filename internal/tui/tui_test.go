package tui

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/appmanager/pkg/model"
	"github.com/glorpus-work/appmanager/pkg/orchestrator"
)

// syncBuffer guards a bytes.Buffer written by dialog goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestTerminal(input string) (*Terminal, *syncBuffer) {
	SetColor(false)
	out := &syncBuffer{}
	return NewTerminal(strings.NewReader(input), out), out
}

func wait[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("dialog did not answer")
		var zero T
		return zero
	}
}

func TestYesNo(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "yes", input: "y\n", expected: true},
		{name: "no", input: "no\n", expected: false},
		{name: "empty takes default", input: "\n", expected: true},
		{name: "invalid then no", input: "maybe\nn\n", expected: false},
		{name: "end of input", input: "", expected: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, out := newTestTerminal(tt.input)
			got := make(chan bool, 1)
			term.YesNo(context.Background(), "Proceed?", func(ok bool) { got <- ok })
			assert.Equal(t, tt.expected, wait(t, got))
			assert.Contains(t, out.String(), "Proceed?")
		})
	}
}

func TestYesNoWithDetails(t *testing.T) {
	term, out := newTestTerminal("d\ny\n")
	p := &model.PackageRecord{Name: "viewer", PrettyName: "Viewer", InstalledVersion: "1.0", InstalledSize: 4096}

	got := make(chan bool, 1)
	term.YesNoWithDetails(context.Background(), "Confirm uninstall", "Uninstall Viewer?", p, func(ok bool) { got <- ok })

	assert.True(t, wait(t, got))
	assert.Contains(t, out.String(), "Installed version")
	assert.Contains(t, out.String(), "viewer")
}

func TestAssumeYes(t *testing.T) {
	term, _ := newTestTerminal("")
	term.AssumeYes = true
	pkgs := []*model.PackageRecord{{Name: "a"}, {Name: "b"}}

	got := make(chan bool, 1)
	term.YesNoWithDetails(context.Background(), "t", "q", pkgs[0], func(ok bool) { got <- ok })
	assert.True(t, wait(t, got))

	sel := make(chan []*model.PackageRecord, 1)
	term.MultiSelect(context.Background(), "Pick", "", pkgs, func(s []*model.PackageRecord, ok bool) {
		assert.True(t, ok)
		sel <- s
	})
	assert.Equal(t, pkgs, wait(t, sel))

	choice := make(chan orchestrator.RebootChoice, 1)
	term.RebootWarning(context.Background(), pkgs[0], func(c orchestrator.RebootChoice) { choice <- c })
	assert.Equal(t, orchestrator.RebootConfirm, wait(t, choice))
}

func TestAssumeYes_DeclinesRetryQuestions(t *testing.T) {
	term, out := newTestTerminal("")
	term.AssumeYes = true

	got := make(chan bool, 1)
	term.YesNo(context.Background(), "Download failed. Try again?", func(ok bool) { got <- ok })
	assert.False(t, wait(t, got))
	assert.Contains(t, out.String(), "Try again?")

	term.YesNoWithTitle(context.Background(), "Update all", "Continue?", func(ok bool) { got <- ok })
	assert.True(t, wait(t, got))
}

func TestInstallConfirm_ScareDefaultsToNo(t *testing.T) {
	term, out := newTestTerminal("\n")
	req := orchestrator.InstallConfirmation{Package: &model.PackageRecord{Name: "foo", AvailableVersion: "1.0"}, Scare: true}

	got := make(chan bool, 1)
	term.InstallConfirm(context.Background(), req, func(ok bool) { got <- ok })

	assert.False(t, wait(t, got))
	assert.Contains(t, out.String(), "uncertified source")
}

func TestMultiSelect_LinePrompts(t *testing.T) {
	term, _ := newTestTerminal("y\nn\ny\n")
	pkgs := []*model.PackageRecord{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	sel := make(chan []*model.PackageRecord, 1)
	term.MultiSelect(context.Background(), "Pick", "desc", pkgs, func(s []*model.PackageRecord, ok bool) {
		assert.True(t, ok)
		sel <- s
	})

	got := wait(t, sel)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "c", got[1].Name)
}

func TestRebootWarning(t *testing.T) {
	tests := map[string]orchestrator.RebootChoice{
		"b\n":        orchestrator.RebootBackup,
		"continue\n": orchestrator.RebootConfirm,
		"\n":         orchestrator.RebootCancel,
	}
	for input, expected := range tests {
		term, _ := newTestTerminal(input)
		choice := make(chan orchestrator.RebootChoice, 1)
		term.RebootWarning(context.Background(), &model.PackageRecord{Name: "os"}, func(c orchestrator.RebootChoice) { choice <- c })
		assert.Equal(t, expected, wait(t, choice), "input %q", input)
	}
}

func TestAnnoyAndContinueOrStop(t *testing.T) {
	term, out := newTestTerminal("y\n")

	done := make(chan struct{}, 1)
	term.Annoy(context.Background(), "2 packages installed", nil, func() { done <- struct{}{} })
	wait(t, done)

	got := make(chan bool, 1)
	term.ContinueOrStop(context.Background(), "Update of foo failed", nil, func(ok bool) { got <- ok })
	assert.True(t, wait(t, got))

	term.Irritate("Restarting device")
	assert.Contains(t, out.String(), "2 packages installed")
	assert.Contains(t, out.String(), "Update of foo failed")
	assert.Contains(t, out.String(), "Restarting device")
}

func TestCancelledContextAnswersNo(t *testing.T) {
	term, _ := newTestTerminal("y\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := make(chan bool, 1)
	term.YesNo(ctx, "Proceed?", func(ok bool) { got <- ok })
	assert.False(t, wait(t, got))
}

func TestSelectorModel(t *testing.T) {
	pkgs := []*model.PackageRecord{{Name: "a"}, {Name: "b"}}
	var m tea.Model = newSelector("Pick", "", pkgs)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	s := m.(selector)
	assert.True(t, s.done)
	require.Len(t, s.selected(), 1)
	assert.Equal(t, "b", s.selected()[0].Name)

	m, _ = newSelector("Pick", "", pkgs).Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.(selector).cancelled)
}

func TestRenderDetails(t *testing.T) {
	assert.Empty(t, RenderDetails(nil))

	p := &model.PackageRecord{
		Name:              "viewer",
		AvailableVersion:  "2:1.1",
		DownloadSize:      2048,
		HaveInfo:          true,
		InstallableStatus: model.StatusCorrupted,
		Description:       "Views things",
	}
	out := RenderDetails(p)
	assert.Contains(t, out, "Available version")
	assert.Contains(t, out, "1.1")
	assert.Contains(t, out, "Views things")
	assert.NotContains(t, out, "Installed version")
}

func TestFormatPackage(t *testing.T) {
	p := &model.PackageRecord{Name: "foo", InstalledVersion: "1.0", AvailableVersion: "1.1"}
	assert.Contains(t, FormatPackage(p), "1.0 -> 1.1")
	p.AvailableVersion = "1.0"
	assert.NotContains(t, FormatPackage(p), "->")
}

type countingCanceller struct {
	mu sync.Mutex
	n  int
}

func (c *countingCanceller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
}

func TestSpinner(t *testing.T) {
	c := &countingCanceller{}
	s := NewSpinner(&syncBuffer{}, c)

	assert.False(t, s.Cancel())
	s.Start("Preparing installation")
	s.Start("Installing foo")
	assert.True(t, s.Active())
	assert.True(t, s.Cancel())
	s.Stop()
	s.Stop()
	assert.False(t, s.Active())
	assert.Equal(t, 1, c.n)
}

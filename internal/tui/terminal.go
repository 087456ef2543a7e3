// Package tui implements the user-facing collaborators of the
// orchestrator on a terminal: line prompts for questions, a bubbletea list
// for multi-selection and a spinner for progress.
package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/gookit/color"
	"golang.org/x/term"

	"github.com/glorpus-work/appmanager/internal/logger"
	"github.com/glorpus-work/appmanager/pkg/i18n"
	"github.com/glorpus-work/appmanager/pkg/model"
	"github.com/glorpus-work/appmanager/pkg/orchestrator"
)

// message styles
var (
	colInfo    = color.Info
	colWarn    = color.Warn
	colError   = color.Error
	colSuccess = color.Success
	colTitle   = color.Bold
)

// Terminal answers the orchestrator's questions on a terminal. Every
// dialog runs on its own goroutine; one prompt reads the input at a time.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer

	// AssumeYes accepts every confirmation and selects every package, for
	// unattended runs. Plain yes/no questions, which offer to retry or
	// override a failure, are declined instead.
	AssumeYes bool
	// Interactive enables the full-screen package selector.
	Interactive bool

	mu sync.Mutex
}

// NewTerminal returns a Terminal reading answers from in.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// NewStdTerminal returns a Terminal on the process's standard streams.
func NewStdTerminal(assumeYes bool) *Terminal {
	t := NewTerminal(os.Stdin, os.Stdout)
	t.AssumeYes = assumeYes
	t.Interactive = IsTerminal(os.Stdin) && IsTerminal(os.Stdout)
	return t
}

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// SetColor turns colored output on or off.
func SetColor(enabled bool) {
	color.Enable = enabled
}

func (t *Terminal) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(t.out, format, args...)
}

// ask prompts until it reads one of the accepted answers. An empty line
// picks def. End of input or a cancelled context picks fallback.
func (t *Terminal) ask(ctx context.Context, prompt string, choices map[string]string, def, fallback string) string {
	for {
		if ctx.Err() != nil {
			return fallback
		}
		t.printf("%s ", colInfo.Sprint(prompt))
		line, err := t.in.ReadString('\n')
		resp := strings.ToLower(strings.TrimSpace(line))
		if resp == "" && err == nil {
			return def
		}
		if v, ok := choices[resp]; ok {
			return v
		}
		if err != nil {
			if err != io.EOF {
				logger.Warn("failed to read answer", logger.Fields{"error": err.Error()})
			}
			return fallback
		}
		t.printf("%s\n", colWarn.Sprint("Invalid input."))
	}
}

var yesNo = map[string]string{"y": "y", "yes": "y", "n": "n", "no": "n"}

func (t *Terminal) confirm(ctx context.Context, question string, def bool) bool {
	if t.AssumeYes {
		return true
	}
	prompt, d := "[y/N]:", "n"
	if def {
		prompt, d = "[Y/n]:", "y"
	}
	t.printf("%s\n", question)
	return t.ask(ctx, prompt, yesNo, d, "n") == "y"
}

// run executes a dialog off the caller's goroutine, one at a time.
func (t *Terminal) run(fn func()) {
	go func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		fn()
	}()
}

// YesNo asks a plain question.
func (t *Terminal) YesNo(ctx context.Context, question string, answer func(bool)) {
	t.run(func() {
		if t.AssumeYes {
			t.printf("%s\n", question)
			answer(false)
			return
		}
		answer(t.confirm(ctx, question, true))
	})
}

// YesNoWithTitle asks a question under a heading.
func (t *Terminal) YesNoWithTitle(ctx context.Context, title, question string, answer func(bool)) {
	t.run(func() {
		t.printf("%s\n", colTitle.Sprint(title))
		answer(t.confirm(ctx, question, true))
	})
}

// YesNoWithDetails asks a question and lets the user look at the package
// first by answering "d". It defaults to no.
func (t *Terminal) YesNoWithDetails(ctx context.Context, title, question string, details *model.PackageRecord, answer func(bool)) {
	t.run(func() {
		t.printf("%s\n%s\n", colTitle.Sprint(title), question)
		if t.AssumeYes {
			answer(true)
			return
		}
		choices := map[string]string{"y": "y", "yes": "y", "n": "n", "no": "n", "d": "d", "details": "d"}
		for {
			switch t.ask(ctx, "[y/N/d]:", choices, "n", "n") {
			case "y":
				answer(true)
				return
			case "d":
				t.printf("%s\n", RenderDetails(details))
			default:
				answer(false)
				return
			}
		}
	})
}

// InstallConfirm shows the legal notice before an install.
func (t *Terminal) InstallConfirm(ctx context.Context, req orchestrator.InstallConfirmation, answer func(bool)) {
	t.run(func() {
		p := req.Package
		t.printf("%s\n", colTitle.Sprint(i18n.T(i18n.TitleInstallConfirm)))
		t.printf("%s %s (%s)\n", p.DisplayName(), p.DisplayVersion(false), i18n.Size(p.DownloadSize))
		if req.Scare {
			notice := i18n.T(i18n.UntrustedNotice)
			if req.Multiple {
				notice = i18n.T(i18n.UntrustedNoticeMultiple)
			}
			t.printf("%s\n", colWarn.Sprint(notice))
		}
		answer(t.confirm(ctx, i18n.T(i18n.ConfirmInstall), !req.Scare))
	})
}

// MultiSelect lets the user pick packages. Everything starts selected.
func (t *Terminal) MultiSelect(ctx context.Context, title, desc string, pkgs []*model.PackageRecord, answer func([]*model.PackageRecord, bool)) {
	t.run(func() {
		if t.AssumeYes {
			answer(pkgs, true)
			return
		}
		if t.Interactive {
			sel, ok, err := RunSelector(ctx, title, desc, pkgs)
			if err != nil {
				logger.Error("package selector failed", logger.Fields{"error": err.Error()})
				answer(nil, false)
				return
			}
			answer(sel, ok)
			return
		}
		t.printf("%s\n", colTitle.Sprint(title))
		if desc != "" {
			t.printf("%s\n", desc)
		}
		var sel []*model.PackageRecord
		for _, p := range pkgs {
			q := fmt.Sprintf("%s %s", p.DisplayName(), p.DisplayVersion(false))
			if t.confirm(ctx, q, true) {
				sel = append(sel, p)
			}
			if ctx.Err() != nil {
				answer(nil, false)
				return
			}
		}
		answer(sel, true)
	})
}

// Annoy prints a notice and the package details when given.
func (t *Terminal) Annoy(_ context.Context, text string, details *model.PackageRecord, done func()) {
	t.run(func() {
		t.printf("%s\n", colSuccess.Sprint(text))
		if details != nil {
			t.printf("%s\n", RenderDetails(details))
		}
		done()
	})
}

// ContinueOrStop reports a failure inside a batch and asks whether to go
// on with the remaining packages.
func (t *Terminal) ContinueOrStop(ctx context.Context, text string, details *model.PackageRecord, answer func(bool)) {
	t.run(func() {
		t.printf("%s\n", colError.Sprint(text))
		if details != nil {
			t.printf("%s\n", RenderDetails(details))
		}
		answer(t.confirm(ctx, i18n.T(i18n.ContinueInstall), false))
	})
}

// RebootWarning offers to back up the device before a restart.
func (t *Terminal) RebootWarning(ctx context.Context, pkg *model.PackageRecord, answer func(orchestrator.RebootChoice)) {
	t.run(func() {
		t.printf("%s\n", colWarn.Sprint(i18n.T(i18n.RebootWarning, pkg.DisplayName())))
		if t.AssumeYes {
			answer(orchestrator.RebootConfirm)
			return
		}
		choices := map[string]string{"c": "c", "continue": "c", "b": "b", "backup": "b", "a": "a", "abort": "a"}
		switch t.ask(ctx, "[c]ontinue, [b]ackup, [a]bort:", choices, "a", "a") {
		case "c":
			answer(orchestrator.RebootConfirm)
		case "b":
			answer(orchestrator.RebootBackup)
		default:
			answer(orchestrator.RebootCancel)
		}
	})
}

// Irritate prints a notice right away.
func (t *Terminal) Irritate(text string) {
	t.printf("%s\n", colWarn.Sprint(text))
}

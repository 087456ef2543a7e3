package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glorpus-work/appmanager/pkg/i18n"
	"github.com/glorpus-work/appmanager/pkg/model"
)

type pkgItem struct {
	pkg *model.PackageRecord
	on  bool
}

func (i pkgItem) Title() string {
	box := "[ ]"
	if i.on {
		box = "[x]"
	}
	return fmt.Sprintf("%s %s %s", box, i.pkg.DisplayName(), i.pkg.DisplayVersion(false))
}

func (i pkgItem) Description() string {
	if i.pkg.Summary != "" {
		return i.pkg.Summary
	}
	return i18n.Size(i.pkg.DownloadSize)
}

func (i pkgItem) FilterValue() string { return i.pkg.Name }

type selector struct {
	list      list.Model
	desc      string
	done      bool
	cancelled bool
}

func newSelector(title, desc string, pkgs []*model.PackageRecord) selector {
	items := make([]list.Item, len(pkgs))
	for i, p := range pkgs {
		items[i] = pkgItem{pkg: p, on: true}
	}

	height := min(20, len(items)*3+6)
	l := list.New(items, list.NewDefaultDelegate(), 80, height)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return selector{list: l, desc: desc}
}

func (m selector) Init() tea.Cmd {
	return nil
}

func (m selector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			m.done = true
			return m, tea.Quit
		case " ", "x":
			if it, ok := m.list.SelectedItem().(pkgItem); ok {
				it.on = !it.on
				return m, m.list.SetItem(m.list.Index(), it)
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selector) View() string {
	if m.done || m.cancelled {
		return ""
	}
	help := "\nToggle: space • Navigate: ↑/↓ • Confirm: Enter • Cancel: Esc/q\n"
	if m.desc != "" {
		return m.desc + "\n\n" + m.list.View() + help
	}
	return m.list.View() + help
}

// selected returns the checked packages in list order.
func (m selector) selected() []*model.PackageRecord {
	var out []*model.PackageRecord
	for _, it := range m.list.Items() {
		if p, ok := it.(pkgItem); ok && p.on {
			out = append(out, p.pkg)
		}
	}
	return out
}

// RunSelector shows the full-screen package selector. ok is false when
// the user cancelled.
func RunSelector(ctx context.Context, title, desc string, pkgs []*model.PackageRecord) ([]*model.PackageRecord, bool, error) {
	prog := tea.NewProgram(newSelector(title, desc, pkgs), tea.WithContext(ctx))
	final, err := prog.Run()
	if err != nil {
		return nil, false, fmt.Errorf("failed to run package selector: %w", err)
	}
	m, ok := final.(selector)
	if !ok || !m.done {
		return nil, false, nil
	}
	return m.selected(), true, nil
}

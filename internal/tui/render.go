package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/glorpus-work/appmanager/pkg/i18n"
	"github.com/glorpus-work/appmanager/pkg/model"
)

var (
	detailsBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Bold(true).Width(18)
)

// RenderDetails formats the details view of a package.
func RenderDetails(p *model.PackageRecord) string {
	if p == nil {
		return ""
	}
	rows := [][2]string{
		{"Name", p.DisplayName()},
		{"Package", p.Name},
	}
	if p.IsInstalled() {
		rows = append(rows, [2]string{"Installed version", p.DisplayVersion(true)})
	}
	if p.AvailableVersion != "" {
		rows = append(rows, [2]string{"Available version", p.DisplayVersion(false)})
	}
	if p.InstalledSize > 0 {
		rows = append(rows, [2]string{"Size", i18n.Size(p.InstalledSize)})
	}
	if p.DownloadSize > 0 {
		rows = append(rows, [2]string{"Download size", i18n.Size(p.DownloadSize)})
	}
	if p.HaveInfo {
		rows = append(rows,
			[2]string{"Status", p.InstallableStatus.String()},
			[2]string{"Removable", p.RemovableStatus.String()},
		)
	}

	lines := make([]string, 0, len(rows)+2)
	for _, r := range rows {
		lines = append(lines, labelStyle.Render(r[0])+r[1])
	}
	if p.Description != "" {
		lines = append(lines, "", p.Description)
	} else if p.Summary != "" {
		lines = append(lines, "", p.Summary)
	}
	return detailsBox.Render(strings.Join(lines, "\n"))
}

// FormatPackage is the one-line listing of a package.
func FormatPackage(p *model.PackageRecord) string {
	v := p.DisplayVersion(!p.HasUpdate())
	if p.HasUpdate() && p.IsInstalled() {
		v = fmt.Sprintf("%s -> %s", p.DisplayVersion(true), p.DisplayVersion(false))
	}
	return fmt.Sprintf("%-32s %s", p.DisplayName(), v)
}

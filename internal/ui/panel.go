package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PanelRow is one labelled line of a panel.
type PanelRow struct {
	Label string
	Value string
}

// RenderPanel draws rows inside a rounded border under a title, aligning
// values on the longest label. The result has no trailing newline.
func RenderPanel(title string, rows []PanelRow) string {
	theme := CurrentPanelTheme()

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent)
	labelStyle := lipgloss.NewStyle().Foreground(theme.Dim)
	valueStyle := lipgloss.NewStyle().Foreground(theme.Text)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r.Label))
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, titleStyle.Render(title))
	for _, r := range rows {
		label := r.Label + strings.Repeat(" ", width-lipgloss.Width(r.Label))
		lines = append(lines, labelStyle.Render(label)+"  "+valueStyle.Render(r.Value))
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

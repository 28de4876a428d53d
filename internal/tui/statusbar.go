package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/convdesk/convdesk/internal/ui"
)

// RenderStatusBar draws the bottom bar: the transient status message on
// the left, tinted by severity, and the context key hints on the right.
func RenderStatusBar(status, hints string, width int) string {
	color := ui.ColorMuted
	switch {
	case strings.HasPrefix(status, "Error"):
		color = ui.ColorFailure
	case strings.HasSuffix(status, "..."):
		color = ui.ColorInfo
	}
	left := lipgloss.NewStyle().Foreground(color).Render("  " + status)

	help := lipgloss.NewStyle().Foreground(ui.ColorMuted).
		Render(hints + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(help)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#111827")).
		Width(width).
		Render(left + padding + help)
}

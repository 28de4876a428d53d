package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/convdesk/convdesk/internal/ui"
)

// RenderHeader draws the top bar: app name with the database path on
// the left, active job count on the right.
func RenderHeader(dbPath string, activeJobs int, width int) string {
	left := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("#F9FAFB")).
		Render(fmt.Sprintf(" convdesk | %s", dbPath))

	color := ui.ColorMuted
	if activeJobs > 0 {
		color = ui.ColorInfo
	}
	right := lipgloss.NewStyle().Foreground(color).
		Render(fmt.Sprintf("Jobs: %d active ", activeJobs))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#1F2937")).
		Width(width).
		Render(left + padding + right)
}

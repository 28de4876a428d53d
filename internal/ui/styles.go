package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorFailure   = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorInfo      = lipgloss.Color("#3B82F6")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorBorder    = lipgloss.Color("#374151")
	ColorHighlight = lipgloss.Color("#1F2937")

	StylePane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StylePaneFocused = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(ColorPrimary).
			Padding(0, 1)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleFailure = lipgloss.NewStyle().Foreground(ColorFailure)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)

	StyleMatch = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FCD34D")).
			Background(lipgloss.Color("#78350F"))
)

// StatusStyle maps a job, payment, or activity status to its color.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "Completed", "Success":
		return StyleSuccess
	case "Failed", "Error":
		return StyleFailure
	case "Cancelled", "Warning", "Refunded":
		return StyleWarning
	case "Running", "Processing":
		return StyleInfo
	case "Pending":
		return StyleMuted
	default:
		return StyleMuted
	}
}

func StatusIcon(status string) string {
	switch status {
	case "Completed", "Success":
		return StyleSuccess.Render("V")
	case "Failed", "Error":
		return StyleFailure.Render("X")
	case "Cancelled", "Warning":
		return StyleWarning.Render("!")
	case "Running", "Processing":
		return StyleInfo.Render("*")
	case "Pending":
		return StyleMuted.Render("o")
	case "Refunded":
		return StyleWarning.Render("<")
	default:
		return StyleMuted.Render("?")
	}
}

// RenderBar renders a fixed-width block bar for pct in [0, 100].
func RenderBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

package dashview

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sys/unix"

	"github.com/convdesk/convdesk/internal/model"
	"github.com/convdesk/convdesk/internal/store"
	"github.com/convdesk/convdesk/internal/ui"
)

const barMaxLen = 20

var jobStatusOrder = []model.JobStatus{
	model.JobStatusPending,
	model.JobStatusRunning,
	model.JobStatusCompleted,
	model.JobStatusFailed,
	model.JobStatusCancelled,
}

var paymentStatusOrder = []model.PaymentStatus{
	model.PaymentStatusPending,
	model.PaymentStatusProcessing,
	model.PaymentStatusCompleted,
	model.PaymentStatusFailed,
	model.PaymentStatusRefunded,
}

// Model is the Bubble Tea model for the dashboard view.
type Model struct {
	stats       *store.DashboardStats
	activity    []model.Activity
	lastUpdated time.Time
	width       int
	height      int
}

// New creates an empty dashboard.
func New() Model {
	return Model{}
}

// SetSize stores the pane dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// LastUpdated returns the time of the last data refresh.
func (m Model) LastUpdated() time.Time { return m.lastUpdated }

// Init satisfies the tea.Model interface.
func (m Model) Init() tea.Cmd { return nil }

// Update handles dashboard data messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.DashboardDataMsg:
		if msg.Err == nil {
			m.stats = msg.Stats
			m.activity = msg.Activity
			m.lastUpdated = time.Now()
		}
	}
	return m, nil
}

// View renders the stat cards, status charts and the activity feed.
func (m Model) View() string {
	if m.stats == nil {
		return lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("Loading dashboard...")
	}

	var b strings.Builder

	b.WriteString(m.renderCards())
	b.WriteString("\n")

	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary)

	b.WriteString(sectionStyle.Render("Jobs by Status"))
	b.WriteString("\n")
	b.WriteString(m.renderJobBars())
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Payments by Status"))
	b.WriteString("\n")
	b.WriteString(m.renderPaymentBars())
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Recent Activity"))
	b.WriteString("\n")
	b.WriteString(m.renderActivity())
	b.WriteString("\n")

	b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(resourceLine()))

	return b.String()
}

func (m Model) renderCards() string {
	card := func(label, value string, color lipgloss.Color) string {
		content := lipgloss.NewStyle().Bold(true).Foreground(color).Render(value) +
			"\n" + lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(label)
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color).
			Padding(0, 2).
			Width(18).
			Render(content)
	}

	errColor := ui.ColorSuccess
	if m.stats.ErrorCount > 0 {
		errColor = ui.ColorFailure
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Active Jobs", fmt.Sprintf("%d", m.stats.ActiveJobs()), ui.ColorInfo),
		card("Payments Today", fmt.Sprintf("%d", m.stats.PaymentsToday), ui.ColorPrimary),
		card("Errors", fmt.Sprintf("%d", m.stats.ErrorCount), errColor),
		card("DB Records", fmt.Sprintf("%d", m.stats.RecordCount), ui.ColorMuted),
	)
}

func (m Model) renderJobBars() string {
	max := 0
	for _, s := range jobStatusOrder {
		if n := m.stats.JobsByStatus[s]; n > max {
			max = n
		}
	}

	var b strings.Builder
	for _, s := range jobStatusOrder {
		n := m.stats.JobsByStatus[s]
		b.WriteString(statusBar(string(s), n, max))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderPaymentBars() string {
	max := 0
	for _, s := range paymentStatusOrder {
		if n := m.stats.PaymentsByStatus[s]; n > max {
			max = n
		}
	}

	var b strings.Builder
	for _, s := range paymentStatusOrder {
		n := m.stats.PaymentsByStatus[s]
		b.WriteString(statusBar(string(s), n, max))
		b.WriteString("\n")
	}
	return b.String()
}

func statusBar(label string, n, max int) string {
	barLen := 0
	if max > 0 {
		barLen = n * barMaxLen / max
	}
	if n > 0 && barLen == 0 {
		barLen = 1
	}
	bar := strings.Repeat("█", barLen) + strings.Repeat("░", barMaxLen-barLen)

	return fmt.Sprintf("  %s %-12s %s %d",
		ui.StatusIcon(label),
		label,
		ui.StatusStyle(label).Render(bar),
		n)
}

func (m Model) renderActivity() string {
	if len(m.activity) == 0 {
		return lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("  No recent activity")
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorMuted)
	var b strings.Builder
	b.WriteString("  " + headerStyle.Render(fmt.Sprintf("%-6s %-9s %-44s %s",
		"Time", "Type", "Description", "Status")))
	b.WriteString("\n")

	for _, a := range m.activity {
		desc := a.Description
		if len(desc) > 44 {
			desc = desc[:41] + "..."
		}
		b.WriteString(fmt.Sprintf("  %-6s %-9s %-44s %s %s",
			a.Timestamp.Format("15:04"),
			a.Type,
			desc,
			ui.StatusIcon(a.Status),
			ui.StatusStyle(a.Status).Render(a.Status)))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// resourceLine reports process memory and goroutine count. Maxrss is
// kilobytes on Linux and bytes on Darwin.
func resourceLine() string {
	mem := "-"
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err == nil {
		bytes := ru.Maxrss * 1024
		if runtime.GOOS == "darwin" {
			bytes = ru.Maxrss
		}
		mem = formatBytes(bytes)
	}
	return fmt.Sprintf("Memory: %s | Goroutines: %d", mem, runtime.NumGoroutine())
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

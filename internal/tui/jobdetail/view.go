package jobdetail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/convdesk/convdesk/internal/model"
	"github.com/convdesk/convdesk/internal/ui"
)

// Model is the Bubble Tea model for the job detail pane.
type Model struct {
	vp      viewport.Model
	job     *model.ConversionJob
	focused bool
	ready   bool
	width   int
	height  int
}

// New creates an empty detail pane.
func New() Model {
	return Model{}
}

// SetSize resizes the viewport, creating it on first use.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	if !m.ready {
		m.vp = viewport.New(w, h)
		m.ready = true
	} else {
		m.vp.Width = w
		m.vp.Height = h
	}
	m.vp.SetContent(m.render())
}

// SetFocused marks the pane as focused.
func (m *Model) SetFocused(focused bool) { m.focused = focused }

// Focused reports whether the pane has keyboard focus.
func (m Model) Focused() bool { return m.focused }

// SetJob replaces the displayed job and scrolls back to the top.
func (m *Model) SetJob(j *model.ConversionJob) {
	m.job = j
	if m.ready {
		m.vp.SetContent(m.render())
		m.vp.GotoTop()
	}
}

// Job returns the currently displayed job, or nil.
func (m Model) Job() *model.ConversionJob { return m.job }

// Init satisfies the tea.Model interface.
func (m Model) Init() tea.Cmd { return nil }

// Update handles scrolling.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused || !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// View renders the viewport.
func (m Model) View() string {
	if !m.ready {
		return ""
	}
	return m.vp.View()
}

func (m Model) render() string {
	if m.job == nil {
		return lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("Select a job to see details")
	}
	j := m.job

	label := lipgloss.NewStyle().Foreground(ui.ColorMuted).Width(16)
	header := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary)

	row := func(l, v string) string {
		return label.Render(l) + v + "\n"
	}

	var b strings.Builder

	b.WriteString(header.Render(j.Name))
	b.WriteString("\n\n")

	b.WriteString(row("Job ID:", j.ID))
	b.WriteString(row("Status:", fmt.Sprintf("%s %s",
		ui.StatusIcon(string(j.Status)),
		ui.StatusStyle(string(j.Status)).Render(string(j.Status)))))
	b.WriteString(row("Progress:", fmt.Sprintf("%s %.1f%%", ui.RenderBar(j.Progress, 20), j.Progress)))
	b.WriteString(row("Threads:", fmt.Sprintf("%d", j.Threads)))
	b.WriteString(row("Source:", valueOrDash(j.SourceFile)))
	b.WriteString(row("Target:", valueOrDash(j.TargetFile)))
	b.WriteString(row("Created:", formatTime(j.CreatedAt)))
	b.WriteString(row("Started:", formatTime(j.StartedAt)))
	b.WriteString(row("Completed:", formatTime(j.CompletedAt)))
	if d := j.Duration(); d > 0 {
		b.WriteString(row("Duration:", fmt.Sprintf("%.1fs", d.Seconds())))
	} else {
		b.WriteString(row("Duration:", "-"))
	}
	b.WriteString("\n")

	b.WriteString(header.Render("Batches"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total Batches: %d\nCompleted Batches: %d\n\n",
		j.TotalBatches(), j.CompletedBatches()))
	if len(j.Batches) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("No batches"))
		b.WriteString("\n")
	} else {
		for _, batch := range j.Batches {
			pct := batch.ProgressPercent()
			line := fmt.Sprintf("%s: %d/%d (%.1f%%)",
				batch.ID, batch.ProcessedItems, batch.TotalItems, pct)
			if batch.FailedItems > 0 {
				line += " " + ui.StyleFailure.Render(fmt.Sprintf("Failed: %d", batch.FailedItems))
			} else {
				line += " Failed: 0"
			}
			b.WriteString(line)
			b.WriteString("\n")
			b.WriteString("  " + ui.RenderBar(pct, 20))
			b.WriteString("\n")
		}
	}

	if j.HasErrors() {
		b.WriteString("\n")
		b.WriteString(header.Render(fmt.Sprintf("Errors (%d)", len(j.Errors))))
		b.WriteString("\n")
		for _, e := range j.Errors {
			b.WriteString(ui.StyleFailure.Render(
				fmt.Sprintf("[%s] %s", e.Timestamp.Format("2006-01-02 15:04:05"), e.Message)))
			b.WriteString("\n")
			b.WriteString(fmt.Sprintf("Details: %s\nStack Trace: %s\n\n",
				valueOrDash(e.Details), valueOrDash(e.StackTrace)))
		}
	}

	return b.String()
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

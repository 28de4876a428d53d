package jobsview

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/convdesk/convdesk/internal/model"
	"github.com/convdesk/convdesk/internal/ops"
	"github.com/convdesk/convdesk/internal/ui"
)

// statusFilters is the cycle order for the status filter. The empty
// value means no filter.
var statusFilters = []model.JobStatus{
	"",
	model.JobStatusPending,
	model.JobStatusRunning,
	model.JobStatusCompleted,
	model.JobStatusFailed,
	model.JobStatusCancelled,
}

// ---------------------------------------------------------------------------
// List item
// ---------------------------------------------------------------------------

type jobItem struct {
	job model.ConversionJob
}

func (i jobItem) Title() string       { return i.job.Name }
func (i jobItem) Description() string { return string(i.job.Status) }
func (i jobItem) FilterValue() string {
	return i.job.ID + " " + i.job.Name + " " + string(i.job.Status)
}

// ---------------------------------------------------------------------------
// Delegate
// ---------------------------------------------------------------------------

type jobDelegate struct {
	selected map[string]bool
}

func (d jobDelegate) Height() int                             { return 2 }
func (d jobDelegate) Spacing() int                            { return 0 }
func (d jobDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d jobDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ji, ok := item.(jobItem)
	if !ok {
		return
	}
	job := ji.job

	mark := " "
	if d.selected[job.ID] {
		mark = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Render("*")
	}

	name := job.Name
	if len(name) > 34 {
		name = name[:31] + "..."
	}

	line1 := fmt.Sprintf("%s %s %s  %-34s %s",
		mark,
		ui.StatusIcon(string(job.Status)),
		job.ID,
		name,
		ui.StatusStyle(string(job.Status)).Render(string(job.Status)),
	)

	bar := ui.RenderBar(job.Progress, 12)
	line2 := lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(
		fmt.Sprintf("      %s %5.1f%%  %d threads  created %s",
			bar, job.Progress, job.Threads, relativeTime(job.CreatedAt)),
	)

	row := line1 + "\n" + line2
	if index == m.Index() {
		row = lipgloss.NewStyle().
			Background(ui.ColorHighlight).
			Width(m.Width()).
			Render(row)
	}

	fmt.Fprint(w, row)
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// Model is the Bubble Tea model for the conversion job list.
type Model struct {
	list         list.Model
	jobs         []model.ConversionJob
	selected     map[string]bool
	statusFilter model.JobStatus
	focused      bool
	width        int
	height       int
}

// New creates an empty job list.
func New() Model {
	selected := make(map[string]bool)

	l := list.New(nil, jobDelegate{selected: selected}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowFilter(true)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.KeyMap.Filter = key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "filter"),
	)
	l.DisableQuitKeybindings()

	return Model{
		list:     l,
		selected: selected,
	}
}

// SetSize adjusts the list to the given pane dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	headerH := 1
	if h > headerH {
		m.list.SetSize(w, h-headerH)
	} else {
		m.list.SetSize(w, h)
	}
}

// SetFocused marks the pane as focused.
func (m *Model) SetFocused(focused bool) { m.focused = focused }

// Focused reports whether the pane has keyboard focus.
func (m Model) Focused() bool { return m.focused }

// IsFiltering reports whether the user is typing a filter.
func (m Model) IsFiltering() bool {
	return m.list.FilterState() == list.Filtering
}

// HasActiveFilter reports whether a text filter is applied.
func (m Model) HasActiveFilter() bool {
	return m.list.FilterState() != list.Unfiltered
}

// SelectedJob returns the job under the cursor, or nil.
func (m Model) SelectedJob() *model.ConversionJob {
	item, ok := m.list.SelectedItem().(jobItem)
	if !ok {
		return nil
	}
	job := item.job
	return &job
}

// SelectedIDs returns the multi-selected job IDs, falling back to the
// cursor row when nothing is marked.
func (m Model) SelectedIDs() []string {
	ids := make([]string, 0, len(m.selected))
	for _, j := range m.jobs {
		if m.selected[j.ID] {
			ids = append(ids, j.ID)
		}
	}
	if len(ids) == 0 {
		if j := m.SelectedJob(); j != nil {
			ids = append(ids, j.ID)
		}
	}
	return ids
}

// SelectionCount returns the number of marked jobs.
func (m Model) SelectionCount() int { return len(m.selected) }

// ClearSelection unmarks all jobs.
func (m *Model) ClearSelection() {
	for id := range m.selected {
		delete(m.selected, id)
	}
}

// FailedIDs returns the IDs of all failed jobs in the current data.
func (m Model) FailedIDs() []string {
	var ids []string
	for _, j := range m.jobs {
		if j.Status == model.JobStatusFailed {
			ids = append(ids, j.ID)
		}
	}
	return ids
}

// StatusFilter returns the active status filter, empty when showing all.
func (m Model) StatusFilter() model.JobStatus { return m.statusFilter }

// CycleStatusFilter advances to the next status filter and rebuilds the
// list.
func (m *Model) CycleStatusFilter() {
	idx := 0
	for i, s := range statusFilters {
		if s == m.statusFilter {
			idx = i
			break
		}
	}
	m.statusFilter = statusFilters[(idx+1)%len(statusFilters)]
	m.rebuild(true)
}

// ResetStatusFilter clears the status filter, showing all jobs again.
func (m *Model) ResetStatusFilter() {
	if m.statusFilter == "" {
		return
	}
	m.statusFilter = ""
	m.rebuild(true)
}

// SetJobs replaces the backing data and rebuilds the list, keeping the
// cursor on the same row where possible.
func (m *Model) SetJobs(jobs []model.ConversionJob) {
	m.jobs = jobs

	// Drop selections for jobs that no longer exist.
	known := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		known[j.ID] = true
	}
	for id := range m.selected {
		if !known[id] {
			delete(m.selected, id)
		}
	}

	m.rebuild(false)
}

func (m *Model) rebuild(resetCursor bool) {
	visible := m.jobs
	if m.statusFilter != "" {
		visible = ops.FilterJobs(m.jobs, ops.JobFilter{Status: string(m.statusFilter)})
	}
	items := make([]list.Item, 0, len(visible))
	for _, j := range visible {
		items = append(items, jobItem{job: j})
	}

	idx := m.list.Index()
	m.list.SetItems(items)
	if resetCursor || idx >= len(items) {
		m.list.Select(0)
	} else {
		m.list.Select(idx)
	}
}

// Init satisfies the tea.Model interface.
func (m Model) Init() tea.Cmd { return nil }

// Update handles messages for the job list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.JobsLoadedMsg:
		if msg.Err == nil {
			m.SetJobs(msg.Jobs)
		}
		return m, nil

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}

		// The filter binding disables itself after esc. Re-enable it
		// whenever there is something to filter.
		if msg.String() == "f" && !m.IsFiltering() && len(m.list.Items()) > 0 {
			m.list.KeyMap.Filter.SetEnabled(true)
		}

		if msg.String() == " " && !m.IsFiltering() {
			if j := m.SelectedJob(); j != nil {
				if m.selected[j.ID] {
					delete(m.selected, j.ID)
				} else {
					m.selected[j.ID] = true
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the header line and the list.
func (m Model) View() string {
	var b strings.Builder

	running := 0
	failed := 0
	for _, j := range m.jobs {
		switch j.Status {
		case model.JobStatusRunning:
			running++
		case model.JobStatusFailed:
			failed++
		}
	}

	filterLabel := "All"
	if m.statusFilter != "" {
		filterLabel = string(m.statusFilter)
	}

	header := fmt.Sprintf("  %d jobs | Running: %d | Failed: %d | Status: %s",
		len(m.jobs), running, failed, filterLabel)
	if n := m.SelectionCount(); n > 0 {
		header += fmt.Sprintf(" | Marked: %d", n)
	}
	b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(header))
	b.WriteString("\n")
	b.WriteString(m.list.View())

	return b.String()
}

// relativeTime renders a compact age like "3m ago" or "2d ago".
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

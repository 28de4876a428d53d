package analytics

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/convdesk/convdesk/internal/scan"
	"github.com/convdesk/convdesk/internal/ui"
)

const placeholder = "No results yet. Select a log file and search pattern."

type mode int

const (
	modeForm mode = iota
	modeResults
	modePresets
	modeRecent
)

// Model is the Bubble Tea model for the log analytics view. It drives a
// scan job from a path and pattern form and streams the job's events
// into the result viewport.
type Model struct {
	path     textinput.Model
	pattern  textinput.Model
	focusIdx int
	regex    bool

	mode      mode
	presetIdx int
	recent    []string
	recentIdx int

	job     *scan.Job
	running bool
	status  string

	vp    viewport.Model
	ready bool

	chunkSize  int
	displayCap int
	encoding   string
	logger     scan.Logger

	focused bool
	width   int
	height  int
}

// New creates the analytics view. The chunk size, display cap and
// encoding come from the analytics section of the config file.
func New(chunkSize, displayCap int, encoding string, logger scan.Logger) Model {
	path := textinput.New()
	path.Placeholder = "Select log file or directory..."
	path.CharLimit = 512
	path.Width = 48
	path.Focus()

	pattern := textinput.New()
	pattern.Placeholder = "Enter search pattern..."
	pattern.CharLimit = 256
	pattern.Width = 48

	return Model{
		path:       path,
		pattern:    pattern,
		chunkSize:  chunkSize,
		displayCap: displayCap,
		encoding:   encoding,
		logger:     logger,
		status:     "Ready",
	}
}

// SetSize resizes the result viewport under the form.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h

	vpH := h - 6
	if vpH < 1 {
		vpH = 1
	}
	if !m.ready {
		m.vp = viewport.New(w, vpH)
		m.vp.SetContent(placeholder)
		m.ready = true
	} else {
		m.vp.Width = w
		m.vp.Height = vpH
	}
}

// SetFocused marks the view as focused.
func (m *Model) SetFocused(focused bool) { m.focused = focused }

// Focused reports whether the view has keyboard focus.
func (m Model) Focused() bool { return m.focused }

// SetRecentFiles replaces the recent file candidates for ctrl+o.
func (m *Model) SetRecentFiles(paths []string) {
	m.recent = paths
	if m.recentIdx >= len(paths) {
		m.recentIdx = 0
	}
}

// Capturing reports whether the view wants exclusive keyboard input.
// True while the form or a picker is open and while a scan runs, so
// that typed text and esc are never treated as navigation.
func (m Model) Capturing() bool {
	return m.mode != modeResults || m.running
}

// IsRunning reports whether a scan is in flight.
func (m Model) IsRunning() bool { return m.running }

// Init satisfies the tea.Model interface.
func (m Model) Init() tea.Cmd { return nil }

// Update handles scan events and key input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.ScanEventMsg:
		return m.handleEvent(msg.Event)

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleEvent(ev scan.Event) (Model, tea.Cmd) {
	switch ev := ev.(type) {
	case scan.Progress:
		m.status = ev.Message
		if m.job != nil {
			return m, listen(m.job)
		}
		return m, nil

	case scan.Done:
		m.running = false
		m.status = ev.Status
		m.job = nil
		if m.ready {
			m.vp.SetContent(renderResults(ev))
			m.vp.GotoTop()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// A running scan only reacts to cancel and scrolling.
	if m.running {
		switch msg.String() {
		case "esc":
			if m.job != nil {
				m.job.RequestStop()
				m.status = "Cancelling..."
			}
		case "pgup", "ctrl+u":
			m.vp.HalfViewUp()
		case "pgdown", "ctrl+d":
			m.vp.HalfViewDown()
		}
		return m, nil
	}

	switch m.mode {
	case modePresets:
		return m.handlePresetKey(msg)
	case modeRecent:
		return m.handleRecentKey(msg)
	}

	switch msg.String() {
	case "ctrl+r":
		m.regex = !m.regex
		return m, nil

	case "ctrl+p":
		m.presetIdx = 0
		m.mode = modePresets
		m.blurInputs()
		return m, nil

	case "ctrl+o":
		if len(m.recent) > 0 {
			m.recentIdx = 0
			m.mode = modeRecent
			m.blurInputs()
		}
		return m, nil

	case "pgup", "ctrl+u":
		m.vp.HalfViewUp()
		return m, nil

	case "pgdown", "ctrl+d":
		m.vp.HalfViewDown()
		return m, nil
	}

	if m.mode == modeForm {
		switch msg.String() {
		case "esc":
			m.mode = modeResults
			m.blurInputs()
			return m, nil

		case "tab", "down":
			return m.moveFocus(1)

		case "shift+tab", "up":
			return m.moveFocus(-1)

		case "enter":
			if m.focusIdx == 0 {
				return m.moveFocus(1)
			}
			return m.startScan()

		default:
			var cmd tea.Cmd
			if m.focusIdx == 0 {
				m.path, cmd = m.path.Update(msg)
			} else {
				m.pattern, cmd = m.pattern.Update(msg)
			}
			return m, cmd
		}
	}

	// Results mode.
	switch msg.String() {
	case "/", "i":
		m.mode = modeForm
		m.focusIdx = 0
		m.path.Focus()
		return m, textinput.Blink

	case "enter":
		return m.startScan()
	}

	return m, nil
}

func (m Model) handlePresetKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.presetIdx > 0 {
			m.presetIdx--
		}
	case "down", "j":
		if m.presetIdx < len(scan.Presets)-1 {
			m.presetIdx++
		}
	case "enter":
		p := scan.Presets[m.presetIdx]
		m.pattern.SetValue(p.Pattern)
		m.regex = p.Regex
		m.status = fmt.Sprintf("Preset applied: %s", p.Name)
		m.mode = modeForm
		m.focusIdx = 1
		m.pattern.Focus()
		return m, textinput.Blink
	case "esc":
		m.mode = modeForm
		m.focusCurrent()
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) handleRecentKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.recentIdx > 0 {
			m.recentIdx--
		}
	case "down", "j":
		if m.recentIdx < len(m.recent)-1 {
			m.recentIdx++
		}
	case "enter":
		m.path.SetValue(m.recent[m.recentIdx])
		m.mode = modeForm
		m.focusIdx = 0
		m.path.Focus()
		return m, textinput.Blink
	case "esc":
		m.mode = modeForm
		m.focusCurrent()
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) moveFocus(delta int) (Model, tea.Cmd) {
	m.blurInputs()
	m.focusIdx = (m.focusIdx + delta + 2) % 2
	m.focusCurrent()
	return m, textinput.Blink
}

func (m *Model) blurInputs() {
	m.path.Blur()
	m.pattern.Blur()
}

func (m *Model) focusCurrent() {
	if m.focusIdx == 0 {
		m.path.Focus()
	} else {
		m.pattern.Focus()
	}
}

func (m Model) startScan() (Model, tea.Cmd) {
	path := strings.TrimSpace(m.path.Value())

	dir := false
	if fi, err := os.Stat(path); err == nil {
		dir = fi.IsDir()
	}

	job := scan.NewJob(scan.Config{
		Path:       path,
		Pattern:    m.pattern.Value(),
		Regex:      m.regex,
		Dir:        dir,
		ChunkSize:  m.chunkSize,
		DisplayCap: m.displayCap,
		Encoding:   m.encoding,
		Logger:     m.logger,
	})
	if err := job.Start(); err != nil {
		m.status = startErrorStatus(err)
		return m, nil
	}

	m.job = job
	m.running = true
	m.status = "Searching..."
	m.mode = modeResults
	m.blurInputs()
	if m.ready {
		m.vp.SetContent("Searching...\n")
	}

	return m, tea.Batch(listen(job), scanStarted(path))
}

// startErrorStatus maps common start failures to friendlier wording.
func startErrorStatus(err error) string {
	switch {
	case errors.Is(err, scan.ErrEmptyInput):
		return "Error: Please select a file/directory and enter a pattern"
	case errors.Is(err, scan.ErrPathNotFound):
		return "Error: Path does not exist"
	}
	return fmt.Sprintf("Error: %v", err)
}

// listen blocks on the job's event channel and forwards the next event.
// It is re-issued after every Progress event; Done ends the loop.
func listen(j *scan.Job) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-j.Events()
		if !ok {
			return nil
		}
		return ui.ScanEventMsg{Event: ev}
	}
}

func scanStarted(path string) tea.Cmd {
	return func() tea.Msg {
		return ui.ScanStartedMsg{Path: path}
	}
}

func renderResults(d scan.Done) string {
	var b strings.Builder

	if d.State == scan.StateFailed {
		b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorFailure).Render(d.Status))
		b.WriteString("\n")
	} else if d.Total == 0 {
		b.WriteString("No matches found")
	} else {
		b.WriteString(fmt.Sprintf("Found %d matches:\n\n", d.Total))
		for _, l := range d.Results {
			b.WriteString(l.String())
			b.WriteString("\n")
		}
		if d.Total > len(d.Results) {
			b.WriteString(fmt.Sprintf("\n\n... and %d more matches", d.Total-len(d.Results)))
		}
	}

	if len(d.Diagnostics) > 0 {
		b.WriteString("\n\n")
		warn := lipgloss.NewStyle().Foreground(ui.ColorWarning)
		for _, diag := range d.Diagnostics {
			b.WriteString(warn.Render(fmt.Sprintf("Error reading file %s: %v", diag.Path, diag.Err)))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// View renders the form, status line and result viewport.
func (m Model) View() string {
	if !m.ready {
		return ""
	}

	var b strings.Builder

	label := func(idx int, text string) string {
		s := lipgloss.NewStyle().Width(10).Foreground(ui.ColorMuted)
		cursor := "  "
		if m.mode == modeForm && m.focusIdx == idx {
			s = s.Foreground(ui.ColorPrimary).Bold(true)
			cursor = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Render("> ")
		}
		return cursor + s.Render(text)
	}

	b.WriteString(label(0, "Path:") + m.path.View())
	b.WriteString("\n")
	b.WriteString(label(1, "Pattern:") + m.pattern.View())
	b.WriteString("\n")

	regexBox := "[ ]"
	if m.regex {
		regexBox = "[x]"
	}
	options := fmt.Sprintf("  %s Regex  |  %s  |  chunk %d  |  cap %d",
		regexBox, m.encoding, m.chunkSize, m.displayCap)
	b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(options))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorMuted).
		Render("  ctrl+r: regex  ctrl+p: presets  ctrl+o: recent  enter: search  esc: " + escHint(m)))
	b.WriteString("\n")

	b.WriteString("  Status: " + statusStyle(m.status).Render(m.status))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorBorder).
		Render(strings.Repeat("─", max(m.width-2, 1))))
	b.WriteString("\n")

	switch m.mode {
	case modePresets:
		b.WriteString(m.renderPresets())
	case modeRecent:
		b.WriteString(m.renderRecent())
	default:
		b.WriteString(m.vp.View())
	}

	return b.String()
}

func (m Model) renderPresets() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary).Render("Pattern Presets"))
	b.WriteString("\n\n")
	for i, p := range scan.Presets {
		cursor := "  "
		nameStyle := lipgloss.NewStyle()
		if i == m.presetIdx {
			cursor = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Render("> ")
			nameStyle = nameStyle.Bold(true)
		}
		b.WriteString(fmt.Sprintf("%s%s  %s",
			cursor,
			nameStyle.Width(24).Render(p.Name),
			lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(p.Pattern)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("enter: apply  esc: back"))
	return b.String()
}

func (m Model) renderRecent() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary).Render("Recent Files"))
	b.WriteString("\n\n")
	for i, p := range m.recent {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.recentIdx {
			cursor = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Render("> ")
			style = style.Bold(true)
		}
		b.WriteString(cursor + style.Render(p))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("enter: use path  esc: back"))
	return b.String()
}

func escHint(m Model) string {
	if m.running {
		return "cancel"
	}
	if m.mode == modeForm {
		return "leave form"
	}
	return "-"
}

func statusStyle(status string) lipgloss.Style {
	switch {
	case strings.HasPrefix(status, "Error"):
		return lipgloss.NewStyle().Foreground(ui.ColorFailure)
	case strings.HasPrefix(status, "Analysis complete"):
		return lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	case strings.HasPrefix(status, "Analysis cancelled"), strings.HasPrefix(status, "Cancelling"):
		return lipgloss.NewStyle().Foreground(ui.ColorWarning)
	case strings.HasPrefix(status, "Searching"), strings.HasPrefix(status, "Processing"):
		return lipgloss.NewStyle().Foreground(ui.ColorInfo)
	default:
		return lipgloss.NewStyle().Foreground(ui.ColorMuted)
	}
}

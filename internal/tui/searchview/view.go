package searchview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/convdesk/convdesk/internal/search"
	"github.com/convdesk/convdesk/internal/ui"
)

// Mode is the search view state.
type Mode int

const (
	ModeInput Mode = iota
	ModeResults
)

// Model is the Bubble Tea model for the cross-entity search view.
type Model struct {
	input    textinput.Model
	spin     spinner.Model
	mode     Mode
	scopeIdx int

	term    string
	scope   search.Scope
	results []search.Result
	cursor  int
	loading bool
	status  string

	vp    viewport.Model
	ready bool

	focused bool
	width   int
	height  int
}

// New creates the search view in input mode.
func New() Model {
	input := textinput.New()
	input.Placeholder = "Enter search term..."
	input.CharLimit = 128
	input.Width = 48
	input.Focus()

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(ui.ColorInfo)),
	)

	return Model{
		input:  input,
		spin:   spin,
		status: "No searches performed yet",
	}
}

// SetSize resizes the result viewport.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h

	vpH := h - 4
	if vpH < 1 {
		vpH = 1
	}
	if !m.ready {
		m.vp = viewport.New(w, vpH)
		m.ready = true
	} else {
		m.vp.Width = w
		m.vp.Height = vpH
	}
	m.refresh()
}

// SetFocused marks the view as focused.
func (m *Model) SetFocused(focused bool) { m.focused = focused }

// Focused reports whether the view has keyboard focus.
func (m Model) Focused() bool { return m.focused }

// Activate puts the view back into input mode with the input focused.
func (m *Model) Activate() {
	m.mode = ModeInput
	m.input.Focus()
}

// Deactivate blurs the input and shows results.
func (m *Model) Deactivate() {
	m.mode = ModeResults
	m.input.Blur()
}

// IsInputMode reports whether the user is typing a search term.
func (m Model) IsInputMode() bool { return m.mode == ModeInput }

// Capturing reports whether the view wants exclusive keyboard input.
func (m Model) Capturing() bool { return m.mode == ModeInput }

// Init satisfies the tea.Model interface.
func (m Model) Init() tea.Cmd { return nil }

// Update handles key input and search completion.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.SearchDoneMsg:
		m.loading = false
		m.term = msg.Term
		m.scope = msg.Scope
		if msg.Err != nil {
			m.results = nil
			m.status = fmt.Sprintf("Error: %v", msg.Err)
		} else {
			m.results = msg.Results
			m.cursor = 0
			m.status = fmt.Sprintf("Found %d results for '%s' in %s",
				len(msg.Results), msg.Term, msg.Scope)
		}
		m.mode = ModeResults
		m.input.Blur()
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		// The spinner only runs while a search is in flight.
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.mode == ModeInput {
		switch msg.String() {
		case "esc":
			m.Deactivate()
			return m, nil
		case "up":
			m.scopeIdx = (m.scopeIdx - 1 + len(search.Scopes)) % len(search.Scopes)
			return m, nil
		case "down", "tab":
			m.scopeIdx = (m.scopeIdx + 1) % len(search.Scopes)
			return m, nil
		case "enter":
			term := strings.TrimSpace(m.input.Value())
			if term == "" {
				m.status = "Please enter a search term"
				return m, nil
			}
			m.loading = true
			m.status = "Searching..."
			scope := search.Scopes[m.scopeIdx]
			request := func() tea.Msg {
				return ui.SearchRequestMsg{Term: term, Scope: scope}
			}
			return m, tea.Batch(request, m.spin.Tick)
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	// Results mode.
	switch msg.String() {
	case "/":
		m.Activate()
		return m, textinput.Blink
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.refresh()
			m.scrollToCursor()
		}
	case "down", "j":
		if m.cursor < len(m.results)-1 {
			m.cursor++
			m.refresh()
			m.scrollToCursor()
		}
	case "pgup", "ctrl+u":
		if m.ready {
			m.vp.HalfViewUp()
		}
	case "pgdown", "ctrl+d":
		if m.ready {
			m.vp.HalfViewDown()
		}
	}

	return m, nil
}

// SelectedResult returns the result under the cursor, or nil.
func (m Model) SelectedResult() *search.Result {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return nil
	}
	r := m.results[m.cursor]
	return &r
}

func (m *Model) scrollToCursor() {
	if !m.ready {
		return
	}
	line := m.cursor + 2
	if line < m.vp.YOffset {
		m.vp.SetYOffset(line)
	} else if line >= m.vp.YOffset+m.vp.Height {
		m.vp.SetYOffset(line - m.vp.Height + 1)
	}
}

func (m *Model) refresh() {
	if m.ready {
		m.vp.SetContent(m.renderResults())
	}
}

func (m Model) renderResults() string {
	if m.loading {
		return "Searching..."
	}
	if len(m.results) == 0 {
		return lipgloss.NewStyle().Foreground(ui.ColorMuted).
			Render("No results. Enter a term and press enter.")
	}

	cell := func(s string, w int) string {
		if len(s) > w {
			if w > 3 {
				return s[:w-3] + "..."
			}
			return s[:w]
		}
		return s + strings.Repeat(" ", w-len(s))
	}

	typeW, idW, titleW, contentW := 10, 10, 26, 40

	var b strings.Builder
	b.WriteString("   " + lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("%s  %s  %s  %s  %s",
			cell("Type", typeW), cell("ID", idW), cell("Title", titleW),
			cell("Content", contentW), "Location")))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorBorder).
		Render("   " + strings.Repeat("─", typeW+idW+titleW+contentW+16)))
	b.WriteString("\n")

	for i, r := range m.results {
		line := fmt.Sprintf("%s  %s  %s  %s  %s",
			cell(r.Type, typeW), cell(r.ID, idW), cell(r.Title, titleW),
			cell(r.Content, contentW), r.Location)
		if i == m.cursor {
			b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorPrimary).Render("> "))
			b.WriteString(lipgloss.NewStyle().Background(ui.ColorHighlight).Render(" " + line))
		} else {
			b.WriteString("   " + line)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// View renders the input, scope selector, status and results.
func (m Model) View() string {
	if !m.ready {
		return ""
	}

	var b strings.Builder

	label := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	if m.mode == ModeInput {
		label = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary)
	}
	b.WriteString("  " + label.Render("Search:") + " " + m.input.View())
	b.WriteString("\n")

	parts := make([]string, 0, len(search.Scopes))
	for i, s := range search.Scopes {
		style := lipgloss.NewStyle().Foreground(ui.ColorMuted)
		if i == m.scopeIdx {
			style = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary)
		}
		parts = append(parts, style.Render(string(s)))
	}
	b.WriteString("  Scope: " + strings.Join(parts, " | "))
	b.WriteString("\n")

	status := m.status
	if m.loading {
		status = m.spin.View() + " " + status
	}
	b.WriteString("  " + lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(status))
	b.WriteString("\n")

	b.WriteString(m.vp.View())

	return b.String()
}

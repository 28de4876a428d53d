package xmlview

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/convdesk/convdesk/internal/ui"
	"github.com/convdesk/convdesk/internal/xmltool"
)

type mode int

const (
	modeEdit mode = iota
	modeView
	modePath
)

type pathAction int

const (
	actionLoad pathAction = iota
	actionSave
)

// Model is the Bubble Tea model for the XML workbench. The left pane is
// an editable document, the right pane shows validation reports,
// format diffs and error explanations.
type Model struct {
	input  textarea.Model
	output viewport.Model
	pathIn textinput.Model

	mode    mode
	pending pathAction

	// baseline is the document as of the last load or sample, used by
	// the explicit diff.
	baseline string
	status   string

	ready   bool
	focused bool
	width   int
	height  int
}

// New creates the workbench preloaded with the sample document.
func New() Model {
	input := textarea.New()
	input.Placeholder = "Enter or load XML content..."
	input.CharLimit = 0
	input.SetValue(xmltool.SampleDocument())

	pathIn := textinput.New()
	pathIn.Placeholder = "Path to XML file..."
	pathIn.CharLimit = 512
	pathIn.Width = 48

	return Model{
		input:    input,
		pathIn:   pathIn,
		mode:     modeView,
		baseline: xmltool.SampleDocument(),
		status:   "Ready. Load or enter XML to validate.",
	}
}

// SetSize splits the width between the input and output panes.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h

	paneH := h - 3
	if paneH < 1 {
		paneH = 1
	}
	leftW := w / 2
	rightW := w - leftW - 1
	if rightW < 1 {
		rightW = 1
	}

	m.input.SetWidth(leftW)
	m.input.SetHeight(paneH)

	if !m.ready {
		m.output = viewport.New(rightW, paneH)
		m.ready = true
	} else {
		m.output.Width = rightW
		m.output.Height = paneH
	}
}

// SetFocused marks the view as focused.
func (m *Model) SetFocused(focused bool) { m.focused = focused }

// Focused reports whether the view has keyboard focus.
func (m Model) Focused() bool { return m.focused }

// Capturing reports whether typed keys belong to the editor or the path
// prompt rather than navigation.
func (m Model) Capturing() bool { return m.mode != modeView }

// Init satisfies the tea.Model interface.
func (m Model) Init() tea.Cmd { return nil }

// Update handles key input and file round-trip results.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.XMLFileLoadedMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("Error loading file: %s", msg.Err)
			return m, nil
		}
		m.input.SetValue(msg.Content)
		m.baseline = msg.Content
		m.status = fmt.Sprintf("Loaded: %s", msg.Path)
		return m, nil

	case ui.XMLFileSavedMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("✗ Error saving file: %s", msg.Err)
			return m, nil
		}
		m.status = fmt.Sprintf("✓ Saved to: %s", msg.Path)
		return m, nil

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.mode == modePath {
		switch msg.String() {
		case "esc":
			m.mode = modeView
			m.pathIn.Blur()
			return m, nil
		case "enter":
			path := strings.TrimSpace(m.pathIn.Value())
			m.mode = modeView
			m.pathIn.Blur()
			if path == "" {
				return m, nil
			}
			if m.pending == actionLoad {
				return m, loadFile(path)
			}
			return m, saveFile(path, m.input.Value())
		default:
			var cmd tea.Cmd
			m.pathIn, cmd = m.pathIn.Update(msg)
			return m, cmd
		}
	}

	// Tool keys work from both edit and view mode.
	switch msg.String() {
	case "ctrl+v":
		m.validate()
		return m, nil
	case "ctrl+f":
		m.format()
		return m, nil
	case "ctrl+x":
		m.diff()
		return m, nil
	case "ctrl+e":
		m.input.SetValue(xmltool.SampleDocument())
		m.baseline = xmltool.SampleDocument()
		m.status = "Sample document loaded"
		return m, nil
	case "ctrl+l":
		return m.openPathPrompt(actionLoad)
	case "ctrl+s":
		return m.openPathPrompt(actionSave)
	}

	if m.mode == modeEdit {
		switch msg.String() {
		case "esc":
			m.mode = modeView
			m.input.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	// View mode.
	switch msg.String() {
	case "i", "enter":
		m.mode = modeEdit
		return m, m.input.Focus()
	case "pgup", "ctrl+u":
		if m.ready {
			m.output.HalfViewUp()
		}
	case "pgdown", "ctrl+d":
		if m.ready {
			m.output.HalfViewDown()
		}
	case "j", "down":
		if m.ready {
			m.output.ScrollDown(1)
		}
	case "k", "up":
		if m.ready {
			m.output.ScrollUp(1)
		}
	}

	return m, nil
}

func (m *Model) openPathPrompt(a pathAction) (Model, tea.Cmd) {
	m.mode = modePath
	m.pending = a
	m.input.Blur()
	m.pathIn.SetValue("")
	m.pathIn.Focus()
	return *m, textinput.Blink
}

func (m *Model) validate() {
	rep, err := xmltool.Validate(m.input.Value())
	switch {
	case errors.Is(err, xmltool.ErrNoContent):
		m.status = "Error: No XML content to validate"
		m.setOutput("")
	case err != nil:
		m.status = "✗ XML validation failed"
		m.setOutput(xmltool.ExplainError(err))
	default:
		m.status = "✓ XML is well-formed"
		m.setOutput(rep.Summary())
	}
}

func (m *Model) format() {
	before := m.input.Value()
	after, err := xmltool.Format(before)
	switch {
	case errors.Is(err, xmltool.ErrNoContent):
		m.status = "Error: No XML content to format"
	case err != nil:
		m.status = fmt.Sprintf("✗ Error formatting XML: %s", err)
		m.setOutput(xmltool.ExplainError(err))
	default:
		m.input.SetValue(after)
		m.status = "✓ XML formatted successfully"
		m.setOutput(xmltool.Changes(before, after))
	}
}

func (m *Model) diff() {
	out := xmltool.Changes(m.baseline, m.input.Value())
	if strings.TrimSpace(out) == "" {
		out = "No changes"
	}
	m.status = "Diff against last loaded document"
	m.setOutput(out)
}

func (m *Model) setOutput(s string) {
	if m.ready {
		m.output.SetContent(s)
		m.output.GotoTop()
	}
}

func loadFile(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return ui.XMLFileLoadedMsg{Path: path, Err: err}
		}
		return ui.XMLFileLoadedMsg{Path: path, Content: string(data)}
	}
}

func saveFile(path, content string) tea.Cmd {
	return func() tea.Msg {
		return ui.XMLFileSavedMsg{Path: path, Err: os.WriteFile(path, []byte(content), 0o644)}
	}
}

// View renders the status line, key hints and the two panes.
func (m Model) View() string {
	if !m.ready {
		return ""
	}

	var b strings.Builder

	b.WriteString("  " + statusStyle(m.status).Render(m.status))
	b.WriteString("\n")

	if m.mode == modePath {
		verb := "Load"
		if m.pending == actionSave {
			verb = "Save"
		}
		b.WriteString(fmt.Sprintf("  %s: %s", verb, m.pathIn.View()))
	} else {
		hints := "ctrl+v: validate  ctrl+f: format  ctrl+x: diff  ctrl+e: sample  ctrl+l: load  ctrl+s: save"
		if m.mode == modeEdit {
			hints += "  esc: stop editing"
		} else {
			hints += "  i: edit"
		}
		b.WriteString("  " + lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(hints))
	}
	b.WriteString("\n")

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorMuted)
	inputTitle := titleStyle.Render("Input")
	if m.mode == modeEdit {
		inputTitle = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary).Render("Input")
	}
	leftW := m.width / 2
	gap := leftW - lipgloss.Width(inputTitle)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(inputTitle + strings.Repeat(" ", gap) + titleStyle.Render("Output"))
	b.WriteString("\n")

	sep := lipgloss.NewStyle().Foreground(ui.ColorBorder).Render("│")
	left := m.input.View()
	right := m.output.View()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, sep, right))

	return b.String()
}

func statusStyle(status string) lipgloss.Style {
	switch {
	case strings.HasPrefix(status, "✓"):
		return lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	case strings.HasPrefix(status, "✗"), strings.HasPrefix(status, "Error"):
		return lipgloss.NewStyle().Foreground(ui.ColorFailure)
	default:
		return lipgloss.NewStyle().Foreground(ui.ColorMuted)
	}
}

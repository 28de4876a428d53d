package filteroverlay

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/convdesk/convdesk/internal/store"
	"github.com/convdesk/convdesk/internal/ui"
)

// ---------------------------------------------------------------------------
// Result message
// ---------------------------------------------------------------------------

// ResultMsg is emitted when the user applies or cancels the filter.
type ResultMsg struct {
	Applied bool
	Table   string
	Filter  store.Filter
}

// Summary renders a filter for a header label, e.g. `name contains "Jo"`.
func Summary(f store.Filter) string {
	if f.Value == "" {
		return ""
	}
	col := f.Column
	if col == "" || col == "*" {
		col = "any column"
	}
	op := f.Op
	if op == "" {
		op = store.OpContains
	}
	return fmt.Sprintf("%s %s %q", col, strings.ToLower(string(op)), f.Value)
}

// ---------------------------------------------------------------------------
// Field enum
// ---------------------------------------------------------------------------

type field int

const (
	fieldColumn field = iota
	fieldOp
	fieldValue
	fieldCount
)

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// Model is the Bubble Tea model for the row filter overlay of the
// database browser.
type Model struct {
	active    bool
	focused   field
	table     string
	columns   []string
	columnIdx int // -1 = any column
	opIdx     int
	value     textinput.Model
	width     int
	height    int
}

// New creates a filter overlay for table, pre-populated with the given
// current filter. The overlay starts in the active state.
func New(table string, columns []string, current store.Filter) Model {
	value := textinput.New()
	value.Placeholder = "Enter filter value..."
	value.CharLimit = 128
	value.Width = 30
	value.SetValue(current.Value)

	m := Model{
		active:    true,
		table:     table,
		columns:   columns,
		columnIdx: -1,
		value:     value,
	}

	if current.Column != "" && current.Column != "*" {
		for i, c := range columns {
			if c == current.Column {
				m.columnIdx = i
				break
			}
		}
	}
	for i, op := range store.FilterOps {
		if op == current.Op {
			m.opIdx = i
			break
		}
	}

	return m
}

// IsActive reports whether the overlay is currently visible.
func (m Model) IsActive() bool { return m.active }

// SetSize stores terminal dimensions so the overlay can centre itself.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Init satisfies the tea.Model interface.
func (m Model) Init() tea.Cmd { return nil }

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

// Update handles key events while the overlay is active.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// When the value input is focused, let it handle most keys first.
		if m.value.Focused() {
			switch msg.String() {
			case "esc":
				m.active = false
				return m, emitResult(false, m.table, store.Filter{})
			case "enter":
				m.active = false
				return m, emitResult(true, m.table, m.buildFilter())
			case "up", "k":
				m.value.Blur()
				m.moveFocus(-1)
				return m, nil
			case "down", "j", "tab":
				m.value.Blur()
				m.moveFocus(1)
				return m, nil
			default:
				var cmd tea.Cmd
				m.value, cmd = m.value.Update(msg)
				return m, cmd
			}
		}

		switch msg.String() {
		case "j", "down", "tab":
			m.moveFocus(1)
			if m.focused == fieldValue {
				m.value.Focus()
				return m, textinput.Blink
			}
			return m, nil
		case "k", "up", "shift+tab":
			m.moveFocus(-1)
			if m.focused == fieldValue {
				m.value.Focus()
				return m, textinput.Blink
			}
			return m, nil

		// Cycle forward / enter the value input.
		case "enter", "right", "l":
			switch m.focused {
			case fieldColumn:
				m.columnIdx = cycleForward(m.columnIdx, len(m.columns))
			case fieldOp:
				m.opIdx = (m.opIdx + 1) % len(store.FilterOps)
			case fieldValue:
				m.value.Focus()
				return m, textinput.Blink
			}
			return m, nil

		// Cycle backward.
		case "left", "h":
			switch m.focused {
			case fieldColumn:
				m.columnIdx = cycleBackward(m.columnIdx, len(m.columns))
			case fieldOp:
				m.opIdx = (m.opIdx - 1 + len(store.FilterOps)) % len(store.FilterOps)
			}
			return m, nil

		// Apply.
		case "a":
			m.active = false
			return m, emitResult(true, m.table, m.buildFilter())

		// Clear.
		case "c":
			m.columnIdx = -1
			m.opIdx = 0
			m.value.SetValue("")
			return m, nil

		// Cancel.
		case "esc":
			m.active = false
			return m, emitResult(false, m.table, store.Filter{})
		}
	}

	return m, nil
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// View renders the overlay.
func (m Model) View() string {
	if !m.active {
		return ""
	}

	labelStyle := lipgloss.NewStyle().Width(12).Foreground(ui.ColorMuted)
	focusedLabelStyle := lipgloss.NewStyle().Width(12).Bold(true).Foreground(ui.ColorPrimary)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB"))
	anyStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true)

	rows := make([]string, 0, int(fieldCount))

	for f := field(0); f < fieldCount; f++ {
		ls := labelStyle
		if f == m.focused {
			ls = focusedLabelStyle
		}

		var label, value string
		switch f {
		case fieldColumn:
			label = "Column:"
			if m.columnIdx < 0 || m.columnIdx >= len(m.columns) {
				value = anyStyle.Render("Any column")
			} else {
				value = valueStyle.Render(m.columns[m.columnIdx])
			}
		case fieldOp:
			label = "Operator:"
			value = valueStyle.Render(string(store.FilterOps[m.opIdx]))
		case fieldValue:
			label = "Value:"
			value = m.value.View()
		}

		cursor := "  "
		if f == m.focused {
			cursor = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Render("> ")
		}

		rows = append(rows, fmt.Sprintf("%s%s %s", cursor, ls.Render(label), value))
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		MarginBottom(1).
		Render(fmt.Sprintf("Filter Rows: %s", m.table))

	help := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		MarginTop(1).
		Render("a: apply  c: clear  esc: cancel")

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		strings.Join(rows, "\n"),
		help,
	)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPrimary).
		Padding(1, 2).
		Width(56)

	box := boxStyle.Render(body)

	// Centre the box in the terminal.
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			box)
	}
	return box
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (m *Model) moveFocus(delta int) {
	next := int(m.focused) + delta
	if next < 0 {
		next = int(fieldCount) - 1
	}
	if next >= int(fieldCount) {
		next = 0
	}
	m.focused = field(next)
}

func (m Model) buildFilter() store.Filter {
	f := store.Filter{
		Column: "*",
		Op:     store.FilterOps[m.opIdx],
		Value:  strings.TrimSpace(m.value.Value()),
	}
	if m.columnIdx >= 0 && m.columnIdx < len(m.columns) {
		f.Column = m.columns[m.columnIdx]
	}
	return f
}

// cycleForward advances the index by one. -1 means "any column",
// 0..max-1 are the actual entries, and going past the last entry wraps
// back to -1.
func cycleForward(idx, count int) int {
	if count == 0 {
		return -1
	}
	idx++
	if idx >= count {
		idx = -1
	}
	return idx
}

// cycleBackward is the reverse of cycleForward.
func cycleBackward(idx, count int) int {
	if count == 0 {
		return -1
	}
	idx--
	if idx < -1 {
		idx = count - 1
	}
	return idx
}

func emitResult(applied bool, table string, f store.Filter) tea.Cmd {
	return func() tea.Msg {
		return ResultMsg{Applied: applied, Table: table, Filter: f}
	}
}

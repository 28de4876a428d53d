package dbview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/convdesk/convdesk/internal/store"
	"github.com/convdesk/convdesk/internal/tui/filteroverlay"
	"github.com/convdesk/convdesk/internal/ui"
)

const tableColWidth = 20

type focusArea int

const (
	focusTables focusArea = iota
	focusRows
)

// Model is the Bubble Tea model for the database browser. The left
// column lists tables, the right side shows the rows of the loaded
// table. Quick search filters across all columns; the filter overlay
// builds column-specific filters.
type Model struct {
	tables       []string
	tableIdx     int
	currentTable string
	columns      []string
	rows         [][]string

	filter    store.Filter
	search    textinput.Model
	searching bool

	vp        viewport.Model
	ready     bool
	focus     focusArea
	rowCursor int

	focused bool
	width   int
	height  int
}

// New creates an empty database browser.
func New() Model {
	search := textinput.New()
	search.Placeholder = "Search all fields..."
	search.CharLimit = 128
	search.Width = 32

	return Model{search: search}
}

// SetSize resizes both columns.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h

	gridW := w - tableColWidth - 3
	if gridW < 10 {
		gridW = 10
	}
	gridH := h - 2
	if gridH < 1 {
		gridH = 1
	}

	if !m.ready {
		m.vp = viewport.New(gridW, gridH)
		m.ready = true
	} else {
		m.vp.Width = gridW
		m.vp.Height = gridH
	}
	m.vp.SetContent(m.renderGrid())
}

// SetFocused marks the view as focused.
func (m *Model) SetFocused(focused bool) { m.focused = focused }

// Focused reports whether the view has keyboard focus.
func (m Model) Focused() bool { return m.focused }

// IsSearching reports whether the quick search input is open.
func (m Model) IsSearching() bool { return m.searching }

// CurrentTable returns the loaded table name, empty before first load.
func (m Model) CurrentTable() string { return m.currentTable }

// Columns returns the columns of the loaded table.
func (m Model) Columns() []string { return m.columns }

// Filter returns the active row filter.
func (m Model) Filter() store.Filter { return m.filter }

// SetFilter stores a filter built by the filter overlay. The caller is
// expected to reload the rows.
func (m *Model) SetFilter(f store.Filter) { m.filter = f }

// Init satisfies the tea.Model interface.
func (m Model) Init() tea.Cmd { return nil }

// Update handles messages for the browser.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.TablesLoadedMsg:
		if msg.Err != nil {
			return m, nil
		}
		m.tables = msg.Tables
		if m.tableIdx >= len(m.tables) {
			m.tableIdx = 0
		}
		if m.currentTable == "" && len(m.tables) > 0 {
			return m, requestRows(m.tables[m.tableIdx], store.Filter{})
		}
		return m, nil

	case ui.RowsLoadedMsg:
		if msg.Err != nil {
			return m, nil
		}
		m.currentTable = msg.Table
		m.columns = msg.Columns
		m.rows = msg.Rows
		m.rowCursor = 0
		if m.ready {
			m.vp.SetContent(m.renderGrid())
			m.vp.GotoTop()
		}
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
	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.search.Blur()
			return m, nil
		case "enter":
			m.searching = false
			m.search.Blur()
			term := strings.TrimSpace(m.search.Value())
			if term == "" {
				m.filter = store.Filter{}
			} else {
				m.filter = store.Filter{Column: "*", Op: store.OpContains, Value: term}
			}
			return m, requestRows(m.currentTable, m.filter)
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "tab":
		if m.focus == focusTables {
			m.focus = focusRows
		} else {
			m.focus = focusTables
		}
		return m, nil

	case "up", "k":
		if m.focus == focusTables {
			if m.tableIdx > 0 {
				m.tableIdx--
			}
		} else if m.rowCursor > 0 {
			m.rowCursor--
			m.refreshGrid()
		}
		return m, nil

	case "down", "j":
		if m.focus == focusTables {
			if m.tableIdx < len(m.tables)-1 {
				m.tableIdx++
			}
		} else if m.rowCursor < len(m.rows)-1 {
			m.rowCursor++
			m.refreshGrid()
		}
		return m, nil

	case "pgup", "ctrl+u":
		if m.ready {
			m.vp.HalfViewUp()
		}
		return m, nil

	case "pgdown", "ctrl+d":
		if m.ready {
			m.vp.HalfViewDown()
		}
		return m, nil

	case "enter":
		if m.focus == focusTables && m.tableIdx < len(m.tables) {
			// Filters do not carry across tables.
			m.filter = store.Filter{}
			return m, requestRows(m.tables[m.tableIdx], store.Filter{})
		}
		return m, nil

	case "/":
		if m.currentTable != "" {
			m.searching = true
			m.search.SetValue("")
			m.search.Focus()
			return m, textinput.Blink
		}
		return m, nil

	case "c":
		if m.filter.Value != "" {
			m.filter = store.Filter{}
			return m, requestRows(m.currentTable, store.Filter{})
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) refreshGrid() {
	if !m.ready {
		return
	}
	m.vp.SetContent(m.renderGrid())

	// Keep the cursor row visible. Grid line 0 is the header, line 1
	// the separator.
	line := m.rowCursor + 2
	if line < m.vp.YOffset {
		m.vp.SetYOffset(line)
	} else if line >= m.vp.YOffset+m.vp.Height {
		m.vp.SetYOffset(line - m.vp.Height + 1)
	}
}

// View renders the table column, the grid and the summary line.
func (m Model) View() string {
	if !m.ready {
		return ""
	}

	left := m.renderTables()
	right := m.renderRowsPane()

	sep := lipgloss.NewStyle().Foreground(ui.ColorBorder).Render(" │ ")
	sepCol := strings.TrimRight(strings.Repeat(sep+"\n", m.height), "\n")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, sepCol, right)
}

func (m Model) renderTables() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorMuted)
	if m.focused && m.focus == focusTables {
		title = title.Foreground(ui.ColorPrimary)
	}

	var b strings.Builder
	b.WriteString(title.Render("Tables"))
	b.WriteString("\n\n")

	for i, t := range m.tables {
		cursor := "  "
		line := t
		style := lipgloss.NewStyle()
		if t == m.currentTable {
			style = style.Foreground(ui.ColorPrimary)
		}
		if i == m.tableIdx && m.focus == focusTables {
			cursor = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Render("> ")
			style = style.Bold(true)
		}
		b.WriteString(cursor + style.Render(line))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(tableColWidth).Height(m.height).Render(b.String())
}

func (m Model) renderRowsPane() string {
	var b strings.Builder

	summary := "No table loaded"
	if m.currentTable != "" {
		summary = fmt.Sprintf("%s | %d rows", m.currentTable, len(m.rows))
		if s := filteroverlay.Summary(m.filter); s != "" {
			summary += " | Filter: " + s
		}
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorMuted)
	if m.focused && m.focus == focusRows {
		title = title.Foreground(ui.ColorPrimary)
	}
	b.WriteString(title.Render(summary))
	b.WriteString("\n")

	if m.searching {
		b.WriteString(m.search.View())
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorMuted).
			Render("enter: load table  /: search  f: filter  c: clear"))
	}
	b.WriteString("\n")
	b.WriteString(m.vp.View())

	return b.String()
}

// renderGrid lays the rows out in fixed-width columns, dropping the
// columns that do not fit the pane.
func (m Model) renderGrid() string {
	if m.currentTable == "" {
		return lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("Select a table and press enter")
	}
	if len(m.rows) == 0 {
		return lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("No rows")
	}

	widths := make([]int, len(m.columns))
	for i, c := range m.columns {
		widths[i] = len(c)
	}
	for _, row := range m.rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if l := len(cell); l > widths[i] {
				widths[i] = l
			}
		}
	}
	for i := range widths {
		if widths[i] > 24 {
			widths[i] = 24
		}
	}

	// Fit as many columns as the pane allows. 3 leading cells cover the
	// cursor marker.
	budget := m.vp.Width - 3
	shown := 0
	used := 0
	for _, w := range widths {
		if shown > 0 {
			used += 2
		}
		if used+w > budget {
			break
		}
		used += w
		shown++
	}
	if shown == 0 {
		shown = 1
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

	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Bold(true)
	parts := make([]string, 0, shown)
	for i := 0; i < shown; i++ {
		parts = append(parts, cell(m.columns[i], widths[i]))
	}
	header := "   " + headerStyle.Render(strings.Join(parts, "  "))
	if shown < len(m.columns) {
		header += lipgloss.NewStyle().Foreground(ui.ColorMuted).
			Render(fmt.Sprintf("  (+%d more)", len(m.columns)-shown))
	}
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorBorder).
		Render("   " + strings.Repeat("─", used)))
	b.WriteString("\n")

	for r, row := range m.rows {
		parts = parts[:0]
		for i := 0; i < shown; i++ {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			parts = append(parts, cell(v, widths[i]))
		}
		line := strings.Join(parts, "  ")
		if r == m.rowCursor && m.focus == focusRows {
			b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorPrimary).Render("> "))
			b.WriteString(lipgloss.NewStyle().Background(ui.ColorHighlight).Render(" " + line))
		} else {
			b.WriteString("   " + line)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func requestRows(table string, f store.Filter) tea.Cmd {
	return func() tea.Msg {
		return ui.RowsRequestMsg{Table: table, Filter: f}
	}
}

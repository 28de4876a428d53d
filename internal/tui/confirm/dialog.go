// Package confirm renders a modal yes/no dialog. The answer comes back
// as a ResultMsg tagged with the action string the caller supplied.
package confirm

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/convdesk/convdesk/internal/ui"
)

type ResultMsg struct {
	Confirmed bool
	Action    string
	Data      any
}

type Model struct {
	Title   string
	Message string
	Action  string
	Data    any

	active     bool
	yesFocused bool
}

// New builds an active dialog. The No button starts focused so a stray
// enter never confirms a destructive action.
func New(title, message, action string, data any) Model {
	return Model{
		Title:   title,
		Message: message,
		Action:  action,
		Data:    data,
		active:  true,
	}
}

func (m Model) IsActive() bool { return m.active }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "y", "Y":
			return m.answer(true)
		case "n", "N", "esc":
			return m.answer(false)
		case "enter":
			return m.answer(m.yesFocused)
		case "tab", "left", "right", "h", "l":
			m.yesFocused = !m.yesFocused
		}
	}
	return m, nil
}

func (m Model) answer(confirmed bool) (Model, tea.Cmd) {
	m.active = false
	return m, func() tea.Msg {
		return ResultMsg{Confirmed: confirmed, Action: m.Action, Data: m.Data}
	}
}

func (m Model) View() string {
	if !m.active {
		return ""
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorWarning).
		Padding(1, 2).
		Width(50)

	title := lipgloss.NewStyle().Bold(true).
		Foreground(ui.ColorWarning).
		Render(m.Title)

	content := fmt.Sprintf("%s\n\n%s\n\n%s  %s\n\ny/n to confirm, esc to cancel",
		title, m.Message,
		m.button("Yes", m.yesFocused, ui.ColorSuccess),
		m.button("No", !m.yesFocused, ui.ColorFailure))

	return box.Render(content)
}

func (m Model) button(label string, focused bool, bg lipgloss.Color) string {
	style := lipgloss.NewStyle().Padding(0, 1)
	if focused {
		style = style.Bold(true).Background(bg).Foreground(lipgloss.Color("#F9FAFB"))
	} else {
		style = style.Foreground(ui.ColorMuted)
	}
	return style.Render(label)
}

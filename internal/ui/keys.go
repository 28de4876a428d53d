package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit         key.Binding
	Help         key.Binding
	Tab          key.Binding
	ShiftTab     key.Binding
	Enter        key.Binding
	Back         key.Binding
	Refresh      key.Binding
	Search       key.Binding
	Filter       key.Binding
	StatusFilter key.Binding
	NewJob       key.Binding
	CancelJob    key.Binding
	RetryFailed  key.Binding
	AutoRefresh  key.Binding
	MarkPaid     key.Binding
	Up           key.Binding
	Down         key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
}

var Keys = KeyMap{
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Tab:          key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
	ShiftTab:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev pane")),
	Enter:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Back:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Refresh:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Filter:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
	StatusFilter: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "status filter")),
	NewJob:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new job")),
	CancelJob:    key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "cancel job")),
	RetryFailed:  key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "retry failed")),
	AutoRefresh:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto refresh")),
	MarkPaid:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "mark completed")),
	Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	PageUp:       key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown:     key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
}

package paymentsview

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/convdesk/convdesk/internal/model"
	"github.com/convdesk/convdesk/internal/ui"
)

// SortMode selects the payment ordering.
type SortMode int

const (
	SortByDate SortMode = iota
	SortByAmount
	SortByStatus
)

func (s SortMode) String() string {
	switch s {
	case SortByDate:
		return "Date"
	case SortByAmount:
		return "Amount"
	case SortByStatus:
		return "Status"
	default:
		return "Unknown"
	}
}

// ---------------------------------------------------------------------------
// List item
// ---------------------------------------------------------------------------

type paymentItem struct {
	payment model.Payment
}

func (i paymentItem) Title() string       { return i.payment.ID }
func (i paymentItem) Description() string { return i.payment.CustomerName }
func (i paymentItem) FilterValue() string {
	return i.payment.ID + " " + i.payment.CustomerName + " " +
		string(i.payment.Method) + " " + string(i.payment.Status)
}

// ---------------------------------------------------------------------------
// Delegate
// ---------------------------------------------------------------------------

type paymentDelegate struct{}

func (d paymentDelegate) Height() int                             { return 2 }
func (d paymentDelegate) Spacing() int                            { return 0 }
func (d paymentDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d paymentDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(paymentItem)
	if !ok {
		return
	}
	p := pi.payment

	customer := p.CustomerName
	if len(customer) > 24 {
		customer = customer[:21] + "..."
	}

	line1 := fmt.Sprintf("%s %s  %-24s %12s  %s",
		ui.StatusIcon(string(p.Status)),
		p.ID,
		customer,
		p.FormattedAmount(),
		ui.StatusStyle(string(p.Status)).Render(string(p.Status)),
	)

	line2 := lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(
		fmt.Sprintf("   %s | %s | %s",
			p.Method, p.CreatedAt.Format("2006-01-02 15:04"), p.TransactionID),
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

// Model is the Bubble Tea model for the payment list.
type Model struct {
	list     list.Model
	payments []model.Payment
	sortMode SortMode
	focused  bool
	width    int
	height   int
}

// New creates an empty payment list sorted by date.
func New() Model {
	l := list.New(nil, paymentDelegate{}, 0, 0)
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

	return Model{list: l}
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

// SortMode returns the active ordering.
func (m Model) SortMode() SortMode { return m.sortMode }

// SelectedPayment returns the payment under the cursor, or nil.
func (m Model) SelectedPayment() *model.Payment {
	item, ok := m.list.SelectedItem().(paymentItem)
	if !ok {
		return nil
	}
	p := item.payment
	return &p
}

// SetPayments replaces the backing data and rebuilds the list.
func (m *Model) SetPayments(payments []model.Payment) {
	m.payments = payments
	m.sortPayments()
	idx := m.list.Index()
	m.list.SetItems(m.buildItems())
	if idx >= len(payments) {
		m.list.Select(0)
	} else {
		m.list.Select(idx)
	}
}

func (m *Model) sortPayments() {
	switch m.sortMode {
	case SortByDate:
		sort.SliceStable(m.payments, func(i, j int) bool {
			return m.payments[i].CreatedAt.After(m.payments[j].CreatedAt)
		})
	case SortByAmount:
		sort.SliceStable(m.payments, func(i, j int) bool {
			return m.payments[i].Amount > m.payments[j].Amount
		})
	case SortByStatus:
		sort.SliceStable(m.payments, func(i, j int) bool {
			return m.payments[i].Status < m.payments[j].Status
		})
	}
}

func (m Model) buildItems() []list.Item {
	items := make([]list.Item, 0, len(m.payments))
	for _, p := range m.payments {
		items = append(items, paymentItem{payment: p})
	}
	return items
}

// Init satisfies the tea.Model interface.
func (m Model) Init() tea.Cmd { return nil }

// Update handles messages for the payment list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.PaymentsLoadedMsg:
		if msg.Err == nil {
			m.SetPayments(msg.Payments)
		}
		return m, nil

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}

		if msg.String() == "f" && !m.IsFiltering() && len(m.list.Items()) > 0 {
			m.list.KeyMap.Filter.SetEnabled(true)
		}

		if msg.String() == "s" && !m.IsFiltering() {
			m.sortMode = (m.sortMode + 1) % 3
			m.sortPayments()
			m.list.SetItems(m.buildItems())
			m.list.Select(0)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the summary header and the list.
func (m Model) View() string {
	var b strings.Builder

	var total float64
	completed := 0
	pending := 0
	for _, p := range m.payments {
		total += p.Amount
		switch {
		case p.IsCompleted():
			completed++
		case p.IsPending():
			pending++
		}
	}

	header := fmt.Sprintf("  %d payments | Total: USD %.2f | Completed: %d | Pending: %d | Sort: %s",
		len(m.payments), total, completed, pending, m.sortMode)
	b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(header))
	b.WriteString("\n")
	b.WriteString(m.list.View())

	return b.String()
}

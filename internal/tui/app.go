package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/convdesk/convdesk/internal/config"
	"github.com/convdesk/convdesk/internal/logger"
	"github.com/convdesk/convdesk/internal/model"
	"github.com/convdesk/convdesk/internal/ops"
	"github.com/convdesk/convdesk/internal/scan"
	"github.com/convdesk/convdesk/internal/search"
	"github.com/convdesk/convdesk/internal/store"
	"github.com/convdesk/convdesk/internal/tui/analytics"
	"github.com/convdesk/convdesk/internal/tui/confirm"
	"github.com/convdesk/convdesk/internal/tui/dashview"
	"github.com/convdesk/convdesk/internal/tui/dbview"
	"github.com/convdesk/convdesk/internal/tui/filteroverlay"
	"github.com/convdesk/convdesk/internal/tui/jobdetail"
	"github.com/convdesk/convdesk/internal/tui/jobsview"
	"github.com/convdesk/convdesk/internal/tui/paymentsview"
	"github.com/convdesk/convdesk/internal/tui/searchview"
	"github.com/convdesk/convdesk/internal/tui/xmlview"
	"github.com/convdesk/convdesk/internal/ui"
)

type View int

const (
	ViewDashboard View = iota
	ViewJobs
	ViewPayments
	ViewDatabase
	ViewAnalytics
	ViewXML
	ViewSearch
)

type Pane int

const (
	PaneLeft Pane = iota
	PaneRight
)

const (
	browseLimit     = 200
	activityLimit   = 10
	advanceInterval = time.Second
	dashInterval    = 5 * time.Second
)

type App struct {
	cfg    *config.Config
	store  *store.Store
	engine *search.Engine
	log    *logger.FileLogger

	// Views
	dashView      dashview.Model
	jobsView      jobsview.Model
	jobDetail     jobdetail.Model
	paymentsView  paymentsview.Model
	dbView        dbview.Model
	analyticsView analytics.Model
	xmlView       xmlview.Model
	searchView    searchview.Model
	confirmDialog confirm.Model
	filterOverlay filteroverlay.Model

	// State
	currentView View
	focusedPane Pane
	width       int
	height      int
	status      string
	activeJobs  int
	autoRefresh bool
	showHelp    bool
}

func NewApp(cfg *config.Config, st *store.Store, engine *search.Engine, log *logger.FileLogger) App {
	analyticsView := analytics.New(
		cfg.Analytics.ChunkSize, cfg.Analytics.DisplayCap, cfg.Analytics.Encoding, log)
	analyticsView.SetRecentFiles(cfg.RecentFiles)

	a := App{
		cfg:           cfg,
		store:         st,
		engine:        engine,
		log:           log,
		dashView:      dashview.New(),
		jobsView:      jobsview.New(),
		jobDetail:     jobdetail.New(),
		paymentsView:  paymentsview.New(),
		dbView:        dbview.New(),
		analyticsView: analyticsView,
		xmlView:       xmlview.New(),
		searchView:    searchview.New(),
		currentView:   ViewDashboard,
		focusedPane:   PaneLeft,
		status:        "Loading dashboard...",
	}
	a.syncFocus()
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.fetchDashboard(),
		a.fetchJobs(),
		a.fetchPayments(),
		a.fetchTables(),
		scheduleDashboardTick(),
	)
}

// --- Data fetching commands ---

func (a App) fetchJobs() tea.Cmd {
	st := a.store
	return func() tea.Msg {
		jobs, err := st.ListJobs(context.Background())
		return ui.JobsLoadedMsg{Jobs: jobs, Err: err}
	}
}

func (a App) fetchPayments() tea.Cmd {
	st := a.store
	return func() tea.Msg {
		payments, err := st.ListPayments(context.Background())
		return ui.PaymentsLoadedMsg{Payments: payments, Err: err}
	}
}

func (a App) fetchTables() tea.Cmd {
	st := a.store
	return func() tea.Msg {
		tables, err := st.Tables(context.Background())
		return ui.TablesLoadedMsg{Tables: tables, Err: err}
	}
}

func (a App) fetchRows(table string, f store.Filter) tea.Cmd {
	st := a.store
	return func() tea.Msg {
		var filter *store.Filter
		if f.Value != "" {
			filter = &f
		}
		cols, rows, err := st.BrowseRows(context.Background(), table, filter, browseLimit)
		if err != nil {
			return ui.RowsLoadedMsg{Table: table, Err: err}
		}
		return ui.RowsLoadedMsg{Table: table, Columns: cols, Rows: rows}
	}
}

func (a App) fetchDashboard() tea.Cmd {
	st := a.store
	return func() tea.Msg {
		stats, err := st.Dashboard(context.Background())
		if err != nil {
			return ui.DashboardDataMsg{Err: err}
		}
		activity, err := st.RecentActivity(context.Background(), activityLimit)
		if err != nil {
			return ui.DashboardDataMsg{Err: err}
		}
		return ui.DashboardDataMsg{Stats: stats, Activity: activity}
	}
}

func (a App) runSearch(term string, scope search.Scope) tea.Cmd {
	engine := a.engine
	return func() tea.Msg {
		results, err := engine.Search(context.Background(), term, scope)
		return ui.SearchDoneMsg{Term: term, Scope: scope, Results: results, Err: err}
	}
}

// --- Action commands ---

func (a App) doCreateJob() tea.Cmd {
	st := a.store
	return func() tea.Msg {
		j := ops.NewDemoJob("Demo Conversion", "input_data.csv", "output_data.xml", 4)
		if err := st.SaveJob(context.Background(), j); err != nil {
			return ui.ActionResultMsg{Action: "Create job", Err: err}
		}
		_ = st.AddActivity(context.Background(), model.Activity{
			Type:        "Job",
			Description: fmt.Sprintf("%s created", j.Name),
			Status:      "Pending",
		})
		return ui.ActionResultMsg{Action: "Create job"}
	}
}

func (a App) doCancelJob(id string) tea.Cmd {
	st := a.store
	return func() tea.Msg {
		err := ops.CancelJob(context.Background(), st, id)
		return ui.ActionResultMsg{Action: "Cancel job", Err: err}
	}
}

func (a App) doMarkPaid(id string) tea.Cmd {
	st := a.store
	return func() tea.Msg {
		err := ops.CompletePayment(context.Background(), st, id)
		return ui.ActionResultMsg{Action: "Complete payment", Err: err}
	}
}

func (a App) doRetryFailed(ids []string) tea.Cmd {
	st := a.store
	return func() tea.Msg {
		res, err := ops.RetryFailed(context.Background(), st, ids, nil)
		if err != nil {
			return ui.RetryDoneMsg{Errors: []error{err}}
		}
		return ui.RetryDoneMsg{Completed: res.Completed, Failed: res.Failed, Errors: res.Errors}
	}
}

func (a App) doAdvance() tea.Cmd {
	st := a.store
	return func() tea.Msg {
		n, err := ops.AdvanceRunning(context.Background(), st)
		return ui.JobsAdvancedMsg{Advanced: n, Err: err}
	}
}

func scheduleAdvanceTick() tea.Cmd {
	return tea.Tick(advanceInterval, func(time.Time) tea.Msg {
		return ui.AdvanceTickMsg{}
	})
}

func scheduleDashboardTick() tea.Cmd {
	return tea.Tick(dashInterval, func(time.Time) tea.Msg {
		return ui.DashboardTickMsg{}
	})
}

// --- Update ---

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// ctrl+c always quits, even while an input captures the keyboard.
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+c" {
		return &a, tea.Quit
	}

	// Handle confirm dialog result (arrives AFTER dialog deactivates itself)
	if result, ok := msg.(confirm.ResultMsg); ok {
		if result.Confirmed {
			switch result.Action {
			case "cancel-job":
				a.status = "Cancelling job..."
				cmds = append(cmds, a.doCancelJob(result.Data.(string)))
			case "retry-failed":
				ids := result.Data.([]string)
				a.status = fmt.Sprintf("Retrying %d jobs...", len(ids))
				a.jobsView.ClearSelection()
				cmds = append(cmds, a.doRetryFailed(ids))
			case "mark-paid":
				a.status = "Completing payment..."
				cmds = append(cmds, a.doMarkPaid(result.Data.(string)))
			}
		}
		return &a, tea.Batch(cmds...)
	}

	// Handle confirmation dialog input (key events while dialog is showing)
	if a.confirmDialog.IsActive() {
		var cmd tea.Cmd
		a.confirmDialog, cmd = a.confirmDialog.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return &a, tea.Batch(cmds...)
	}

	// Handle filter overlay result
	if result, ok := msg.(filteroverlay.ResultMsg); ok {
		if result.Applied {
			a.dbView.SetFilter(result.Filter)
			a.status = "Loading rows..."
			cmds = append(cmds, a.fetchRows(result.Table, result.Filter))
		}
		return &a, tea.Batch(cmds...)
	}

	// Handle filter overlay input (key events while overlay is showing)
	if a.filterOverlay.IsActive() {
		var cmd tea.Cmd
		a.filterOverlay, cmd = a.filterOverlay.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return &a, tea.Batch(cmds...)
	}

	// Text input modes: keys go directly to the capturing view, skipping
	// app-level handlers (quit, tab switching, etc).
	if _, isKey := msg.(tea.KeyMsg); isKey {
		var cmd tea.Cmd
		switch {
		case a.currentView == ViewSearch && a.searchView.Capturing():
			a.searchView, cmd = a.searchView.Update(msg)
			cmds = append(cmds, cmd)
			return &a, tea.Batch(cmds...)
		case a.currentView == ViewAnalytics && a.analyticsView.Capturing():
			a.analyticsView, cmd = a.analyticsView.Update(msg)
			cmds = append(cmds, cmd)
			return &a, tea.Batch(cmds...)
		case a.currentView == ViewXML && a.xmlView.Capturing():
			a.xmlView, cmd = a.xmlView.Update(msg)
			cmds = append(cmds, cmd)
			return &a, tea.Batch(cmds...)
		case a.currentView == ViewDatabase && a.dbView.IsSearching():
			a.dbView, cmd = a.dbView.Update(msg)
			cmds = append(cmds, cmd)
			return &a, tea.Batch(cmds...)
		case a.isListFiltering():
			switch a.currentView {
			case ViewJobs:
				a.jobsView, cmd = a.jobsView.Update(msg)
			case ViewPayments:
				a.paymentsView, cmd = a.paymentsView.Update(msg)
			}
			cmds = append(cmds, cmd)
			return &a, tea.Batch(cmds...)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.propagateSize()

	case tea.KeyMsg:
		// Help overlay dismisses on any key
		if a.showHelp {
			a.showHelp = false
			return &a, nil
		}

		switch {
		case key.Matches(msg, ui.Keys.Quit):
			return &a, tea.Quit

		case key.Matches(msg, ui.Keys.Help):
			a.showHelp = true
			return &a, nil

		case key.Matches(msg, ui.Keys.Tab), key.Matches(msg, ui.Keys.ShiftTab):
			// The database browser handles tab itself.
			if a.currentView == ViewJobs {
				if a.focusedPane == PaneLeft {
					a.focusedPane = PaneRight
				} else {
					a.focusedPane = PaneLeft
				}
				a.syncFocus()
			}

		case key.Matches(msg, ui.Keys.Refresh):
			cmds = append(cmds, a.refreshCurrent())

		case key.Matches(msg, ui.Keys.AutoRefresh):
			a.autoRefresh = !a.autoRefresh
			if a.autoRefresh {
				a.status = "Auto-advance on"
				cmds = append(cmds, scheduleAdvanceTick())
			} else {
				a.status = "Auto-advance off"
			}

		case key.Matches(msg, ui.Keys.NewJob):
			if a.currentView == ViewJobs {
				a.status = "Creating job..."
				cmds = append(cmds, a.doCreateJob())
			}

		case key.Matches(msg, ui.Keys.CancelJob):
			if a.currentView == ViewJobs {
				if job := a.jobsView.SelectedJob(); job != nil {
					if job.IsTerminal() {
						a.status = fmt.Sprintf("Job %s is already finished", job.ID)
					} else {
						a.confirmDialog = confirm.New(
							"Cancel Job",
							fmt.Sprintf("Cancel job %s (%s)?", job.ID, job.Name),
							"cancel-job", job.ID,
						)
					}
				}
			}

		case key.Matches(msg, ui.Keys.RetryFailed):
			if a.currentView == ViewJobs {
				ids := a.retryCandidates()
				if len(ids) == 0 {
					a.status = "No failed jobs to retry"
				} else {
					a.confirmDialog = confirm.New(
						"Retry Failed Jobs",
						fmt.Sprintf("Retry %d failed jobs?", len(ids)),
						"retry-failed", ids,
					)
				}
			}

		case key.Matches(msg, ui.Keys.StatusFilter):
			if a.currentView == ViewJobs {
				a.jobsView.CycleStatusFilter()
				label := "All"
				if s := a.jobsView.StatusFilter(); s != "" {
					label = string(s)
				}
				a.status = fmt.Sprintf("Status filter: %s", label)
				a.jobDetail.SetJob(a.jobsView.SelectedJob())
			}

		case key.Matches(msg, ui.Keys.MarkPaid):
			if a.currentView == ViewPayments {
				if p := a.paymentsView.SelectedPayment(); p != nil {
					if p.IsCompleted() {
						a.status = fmt.Sprintf("Payment %s is already completed", p.ID)
					} else {
						a.confirmDialog = confirm.New(
							"Complete Payment",
							fmt.Sprintf("Mark payment %s (%s) as completed?", p.ID, p.FormattedAmount()),
							"mark-paid", p.ID,
						)
					}
				}
			}

		case key.Matches(msg, ui.Keys.Search):
			switch a.currentView {
			case ViewDashboard, ViewJobs, ViewPayments:
				a.currentView = ViewSearch
				a.searchView.Activate()
				a.syncFocus()
				a.status = "Search"
			}

		case key.Matches(msg, ui.Keys.Enter):
			if a.currentView == ViewJobs && a.focusedPane == PaneLeft && !a.jobsView.IsFiltering() {
				if job := a.jobsView.SelectedJob(); job != nil {
					a.jobDetail.SetJob(job)
					a.focusedPane = PaneRight
					a.syncFocus()
					a.status = job.ID
				}
			}

		default:
			switch msg.String() {
			case "1", "2", "3", "4", "5", "6", "7":
				cmds = append(cmds, a.switchView(msg.String())...)

			case "f":
				if a.currentView == ViewDatabase {
					if table := a.dbView.CurrentTable(); table != "" {
						a.filterOverlay = filteroverlay.New(table, a.dbView.Columns(), a.dbView.Filter())
						a.filterOverlay.SetSize(a.width, a.height)
					} else {
						a.status = "Load a table first"
					}
				}
			}
		}

	case ui.JobsLoadedMsg:
		if msg.Err == nil {
			a.activeJobs = 0
			for _, j := range msg.Jobs {
				if j.Status == model.JobStatusPending || j.Status == model.JobStatusRunning {
					a.activeJobs++
				}
			}
			a.status = fmt.Sprintf("%d jobs", len(msg.Jobs))
		} else {
			a.status = fmt.Sprintf("Error loading jobs: %v", msg.Err)
		}

	case ui.PaymentsLoadedMsg:
		if msg.Err == nil {
			a.status = fmt.Sprintf("%d payments", len(msg.Payments))
		} else {
			a.status = fmt.Sprintf("Error loading payments: %v", msg.Err)
		}

	case ui.TablesLoadedMsg:
		if msg.Err == nil {
			a.status = fmt.Sprintf("%d tables", len(msg.Tables))
		} else {
			a.status = fmt.Sprintf("Error loading tables: %v", msg.Err)
		}

	case ui.RowsLoadedMsg:
		if msg.Err == nil {
			a.status = fmt.Sprintf("%s: %d rows", msg.Table, len(msg.Rows))
		} else {
			a.status = fmt.Sprintf("Error loading rows: %v", msg.Err)
		}

	case ui.RowsRequestMsg:
		a.status = fmt.Sprintf("Loading %s...", msg.Table)
		cmds = append(cmds, a.fetchRows(msg.Table, msg.Filter))

	case ui.SearchRequestMsg:
		a.status = fmt.Sprintf("Searching for '%s'...", msg.Term)
		cmds = append(cmds, a.runSearch(msg.Term, msg.Scope))

	case ui.SearchDoneMsg:
		if msg.Err != nil {
			a.status = fmt.Sprintf("Search error: %v", msg.Err)
		} else {
			a.status = fmt.Sprintf("Found %d results for '%s' in %s",
				len(msg.Results), msg.Term, msg.Scope)
		}

	case ui.DashboardDataMsg:
		if msg.Err != nil {
			a.status = fmt.Sprintf("Error loading dashboard: %v", msg.Err)
		} else if a.currentView == ViewDashboard {
			a.status = "Dashboard"
		}

	case ui.DashboardTickMsg:
		cmds = append(cmds, scheduleDashboardTick())
		if a.currentView == ViewDashboard {
			cmds = append(cmds, a.fetchDashboard())
		}

	case ui.AdvanceTickMsg:
		if a.autoRefresh {
			cmds = append(cmds, a.doAdvance(), scheduleAdvanceTick())
		}

	case ui.JobsAdvancedMsg:
		if msg.Err != nil {
			a.status = fmt.Sprintf("Error advancing jobs: %v", msg.Err)
		} else if msg.Advanced > 0 {
			cmds = append(cmds, a.fetchJobs())
			if a.currentView == ViewDashboard {
				cmds = append(cmds, a.fetchDashboard())
			}
		}

	case ui.ActionResultMsg:
		if msg.Err != nil {
			a.status = fmt.Sprintf("Error: %v", msg.Err)
		} else {
			a.status = fmt.Sprintf("%s: success", msg.Action)
		}
		switch msg.Action {
		case "Complete payment":
			cmds = append(cmds, a.fetchPayments())
		default:
			cmds = append(cmds, a.fetchJobs())
		}

	case ui.RetryDoneMsg:
		if len(msg.Errors) > 0 {
			a.status = fmt.Sprintf("Retry: %d completed, %d failed (%v)",
				msg.Completed, msg.Failed, msg.Errors[0])
		} else {
			a.status = fmt.Sprintf("Retry: %d completed, %d failed", msg.Completed, msg.Failed)
		}
		cmds = append(cmds, a.fetchJobs())

	case ui.ScanEventMsg:
		if done, ok := msg.Event.(scan.Done); ok {
			a.status = done.Status
		}

	case ui.ScanStartedMsg:
		a.cfg.AddRecentFile(msg.Path)
		a.analyticsView.SetRecentFiles(a.cfg.RecentFiles)
		if path, err := config.DefaultPath(); err == nil {
			if err := a.cfg.Save(path); err != nil {
				a.log.Warn(fmt.Sprintf("save config: %v", err))
			}
		}
		a.status = fmt.Sprintf("Scanning %s...", msg.Path)

	case ui.StatusMsg:
		a.status = msg.Text
	}

	// Propagate to sub-views.
	// Skip WindowSizeMsg — handled by propagateSize() with correct per-pane dimensions.
	if _, isResize := msg.(tea.WindowSizeMsg); !isResize {
		var cmd tea.Cmd
		if _, isKey := msg.(tea.KeyMsg); isKey {
			// Key events go only to the active view; in the jobs view
			// only to the focused pane.
			switch a.currentView {
			case ViewDashboard:
				a.dashView, cmd = a.dashView.Update(msg)
				cmds = append(cmds, cmd)
			case ViewJobs:
				hadFilter := a.jobsView.HasActiveFilter()
				if a.focusedPane == PaneLeft {
					a.jobsView, cmd = a.jobsView.Update(msg)
					cmds = append(cmds, cmd)
					a.jobDetail.SetJob(a.jobsView.SelectedJob())
				} else {
					a.jobDetail, cmd = a.jobDetail.Update(msg)
					cmds = append(cmds, cmd)
				}
				if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
					if a.focusedPane == PaneRight {
						a.focusedPane = PaneLeft
						a.syncFocus()
					} else if !hadFilter && a.jobsView.StatusFilter() != "" {
						a.jobsView.ResetStatusFilter()
						a.jobDetail.SetJob(a.jobsView.SelectedJob())
						a.status = "Status filter cleared"
					}
				}
			case ViewPayments:
				a.paymentsView, cmd = a.paymentsView.Update(msg)
				cmds = append(cmds, cmd)
			case ViewDatabase:
				a.dbView, cmd = a.dbView.Update(msg)
				cmds = append(cmds, cmd)
			case ViewAnalytics:
				a.analyticsView, cmd = a.analyticsView.Update(msg)
				cmds = append(cmds, cmd)
			case ViewXML:
				a.xmlView, cmd = a.xmlView.Update(msg)
				cmds = append(cmds, cmd)
			case ViewSearch:
				a.searchView, cmd = a.searchView.Update(msg)
				cmds = append(cmds, cmd)
			}
		} else {
			// Data messages go to their owning view even when another
			// tab is shown; a running scan keeps streaming in the
			// background.
			switch msg.(type) {
			case ui.JobsLoadedMsg:
				a.jobsView, cmd = a.jobsView.Update(msg)
				cmds = append(cmds, cmd)
				a.jobDetail.SetJob(a.jobsView.SelectedJob())
			case ui.PaymentsLoadedMsg:
				a.paymentsView, cmd = a.paymentsView.Update(msg)
				cmds = append(cmds, cmd)
			case ui.TablesLoadedMsg, ui.RowsLoadedMsg:
				a.dbView, cmd = a.dbView.Update(msg)
				cmds = append(cmds, cmd)
			case ui.DashboardDataMsg:
				a.dashView, cmd = a.dashView.Update(msg)
				cmds = append(cmds, cmd)
			case ui.ScanEventMsg:
				a.analyticsView, cmd = a.analyticsView.Update(msg)
				cmds = append(cmds, cmd)
			case ui.SearchDoneMsg, spinner.TickMsg:
				a.searchView, cmd = a.searchView.Update(msg)
				cmds = append(cmds, cmd)
			case ui.XMLFileLoadedMsg, ui.XMLFileSavedMsg:
				a.xmlView, cmd = a.xmlView.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	return &a, tea.Batch(cmds...)
}

// switchView changes the active tab and kicks off the fetch the target
// view needs.
func (a *App) switchView(digit string) []tea.Cmd {
	var cmds []tea.Cmd
	switch digit {
	case "1":
		if a.currentView != ViewDashboard {
			a.currentView = ViewDashboard
			a.status = "Loading dashboard..."
			cmds = append(cmds, a.fetchDashboard())
		}
	case "2":
		if a.currentView != ViewJobs {
			a.currentView = ViewJobs
			a.focusedPane = PaneLeft
			a.status = "Loading jobs..."
			cmds = append(cmds, a.fetchJobs())
		}
	case "3":
		if a.currentView != ViewPayments {
			a.currentView = ViewPayments
			a.status = "Loading payments..."
			cmds = append(cmds, a.fetchPayments())
		}
	case "4":
		if a.currentView != ViewDatabase {
			a.currentView = ViewDatabase
			a.status = "Database"
			if a.dbView.CurrentTable() == "" {
				cmds = append(cmds, a.fetchTables())
			}
		}
	case "5":
		if a.currentView != ViewAnalytics {
			a.currentView = ViewAnalytics
			a.status = "Log analytics"
		}
	case "6":
		if a.currentView != ViewXML {
			a.currentView = ViewXML
			a.status = "XML tools"
		}
	case "7":
		if a.currentView != ViewSearch {
			a.currentView = ViewSearch
			a.searchView.Activate()
			a.status = "Search"
		}
	}
	a.syncFocus()
	return cmds
}

func (a App) refreshCurrent() tea.Cmd {
	switch a.currentView {
	case ViewDashboard:
		return a.fetchDashboard()
	case ViewJobs:
		return a.fetchJobs()
	case ViewPayments:
		return a.fetchPayments()
	case ViewDatabase:
		if table := a.dbView.CurrentTable(); table != "" {
			return a.fetchRows(table, a.dbView.Filter())
		}
		return a.fetchTables()
	default:
		return nil
	}
}

// retryCandidates returns the marked jobs when a selection exists,
// otherwise every failed job.
func (a App) retryCandidates() []string {
	if a.jobsView.SelectionCount() > 0 {
		return a.jobsView.SelectedIDs()
	}
	return a.jobsView.FailedIDs()
}

func (a App) isListFiltering() bool {
	switch a.currentView {
	case ViewJobs:
		return a.jobsView.IsFiltering()
	case ViewPayments:
		return a.paymentsView.IsFiltering()
	}
	return false
}

func (a *App) syncFocus() {
	a.jobsView.SetFocused(a.currentView == ViewJobs && a.focusedPane == PaneLeft)
	a.jobDetail.SetFocused(a.currentView == ViewJobs && a.focusedPane == PaneRight)
	a.paymentsView.SetFocused(a.currentView == ViewPayments)
	a.dbView.SetFocused(a.currentView == ViewDatabase)
	a.analyticsView.SetFocused(a.currentView == ViewAnalytics)
	a.xmlView.SetFocused(a.currentView == ViewXML)
	a.searchView.SetFocused(a.currentView == ViewSearch)
}

func (a *App) propagateSize() {
	// Total vertical budget:
	//   header(1) + tabs(1) + status(1) = 3 lines of chrome
	//   pane border top(1) + bottom(1) = 2 lines
	//   Inner content height = terminal height - 5
	contentH := a.height - 5
	if contentH < 1 {
		contentH = 1
	}

	// 2-pane layout: each border = 2 chars horizontal, 2 panes = 4
	leftW := a.width * 45 / 100
	rightW := a.width - leftW - 4
	if rightW < 1 {
		rightW = 1
	}

	a.jobsView.SetSize(leftW, contentH)
	a.jobDetail.SetSize(rightW, contentH)

	// Single-pane views are full width (border = 2 chars horizontal)
	full := a.width - 4
	if full < 1 {
		full = 1
	}
	a.dashView.SetSize(full, contentH)
	a.paymentsView.SetSize(full, contentH)
	a.dbView.SetSize(full, contentH)
	a.analyticsView.SetSize(full, contentH)
	a.xmlView.SetSize(full, contentH)
	a.searchView.SetSize(full, contentH)

	a.filterOverlay.SetSize(a.width, a.height)
}

// --- View ---

func (a App) View() string {
	header := RenderHeader(a.cfg.Database.Path, a.activeJobs, a.width)
	tabs := a.renderTabs()

	contentH := a.height - 5
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch a.currentView {
	case ViewJobs:
		content = a.renderJobsLayout(contentH)
	case ViewDashboard:
		content = ui.StylePaneFocused.Width(a.width - 2).Height(contentH).Render(a.dashView.View())
	case ViewPayments:
		content = ui.StylePaneFocused.Width(a.width - 2).Height(contentH).Render(a.paymentsView.View())
	case ViewDatabase:
		content = ui.StylePaneFocused.Width(a.width - 2).Height(contentH).Render(a.dbView.View())
	case ViewAnalytics:
		content = ui.StylePaneFocused.Width(a.width - 2).Height(contentH).Render(a.analyticsView.View())
	case ViewXML:
		content = ui.StylePaneFocused.Width(a.width - 2).Height(contentH).Render(a.xmlView.View())
	case ViewSearch:
		content = ui.StylePaneFocused.Width(a.width - 2).Height(contentH).Render(a.searchView.View())
	}

	if a.showHelp {
		content = a.renderHelp()
	} else if a.confirmDialog.IsActive() {
		content = lipgloss.Place(a.width, contentH, lipgloss.Center, lipgloss.Center,
			a.confirmDialog.View())
	} else if a.filterOverlay.IsActive() {
		content = a.filterOverlay.View()
	}

	statusBar := RenderStatusBar(a.status, a.contextHints(), a.width)

	// Hard clamp: ensure content never overflows the terminal.
	// header(1) + tabs(1) + statusbar(1) = 3 lines of chrome.
	maxContentLines := a.height - 3
	if maxContentLines > 0 {
		lines := strings.Split(content, "\n")
		if len(lines) > maxContentLines {
			lines = lines[:maxContentLines]
			content = strings.Join(lines, "\n")
		}
	}

	return header + "\n" + tabs + "\n" + content + "\n" + statusBar
}

func (a App) renderJobsLayout(contentH int) string {
	leftW := a.width * 45 / 100
	rightW := a.width - leftW - 4
	if rightW < 1 {
		rightW = 1
	}

	leftStyle := ui.StylePane
	rightStyle := ui.StylePane
	if a.focusedPane == PaneLeft {
		leftStyle = ui.StylePaneFocused
	} else {
		rightStyle = ui.StylePaneFocused
	}

	left := leftStyle.Width(leftW).Height(contentH).Render(a.jobsView.View())
	right := rightStyle.Width(rightW).Height(contentH).Render(a.jobDetail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (a App) renderTabs() string {
	tabStyle := lipgloss.NewStyle().Padding(0, 2)
	activeTab := tabStyle.Bold(true).Foreground(ui.ColorPrimary)
	inactiveTab := tabStyle.Foreground(ui.ColorMuted)

	jobsLabel := "[2] Jobs"
	if s := a.jobsView.StatusFilter(); s != "" {
		jobsLabel = fmt.Sprintf("[2] Jobs (%s)", s)
	}

	labels := []string{
		"[1] Dashboard",
		jobsLabel,
		"[3] Payments",
		"[4] Database",
		"[5] Analytics",
		"[6] XML",
		"[7] Search",
	}

	tabs := make([]string, len(labels))
	for i, label := range labels {
		if View(i) == a.currentView {
			tabs[i] = activeTab.Render(label)
		} else {
			tabs[i] = inactiveTab.Render(label)
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

const helpDoc = `# ConvDesk

## Navigation

| Key | Action |
|-----|--------|
| 1-7 | Switch tab |
| tab | Switch pane |
| q   | Quit |
| r   | Refresh current view |
| a   | Toggle job auto-advance |
| /   | Global search |

## Jobs

| Key | Action |
|-----|--------|
| enter | Open details |
| space | Mark job |
| n | New demo job |
| C | Cancel job |
| F | Retry failed jobs |
| S | Cycle status filter |
| f | Text filter |

## Payments

| Key | Action |
|-----|--------|
| s | Cycle sort mode |
| p | Mark payment completed |

## Database

| Key | Action |
|-----|--------|
| enter | Load table |
| / | Search all columns |
| f | Column filter |
| c | Clear filter |

## Analytics

| Key | Action |
|-----|--------|
| enter | Start scan |
| ctrl+r | Toggle regex |
| ctrl+p | Pattern presets |
| ctrl+o | Recent files |
| esc | Cancel running scan |

## XML

| Key | Action |
|-----|--------|
| i | Edit document |
| ctrl+v | Validate |
| ctrl+f | Format |
| ctrl+x | Diff against loaded |
| ctrl+l / ctrl+s | Load / save file |
`

func (a App) renderHelp() string {
	contentH := a.height - 5
	if contentH < 1 {
		contentH = 1
	}

	rendered := helpDoc
	if r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(a.width-6),
	); err == nil {
		if out, err := r.Render(helpDoc); err == nil {
			rendered = out
		}
	}
	rendered += "\n" + lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("  Press any key to close")

	return ui.StylePaneFocused.Width(a.width - 2).Height(contentH).Render(rendered)
}

func (a App) contextHints() string {
	switch a.currentView {
	case ViewDashboard:
		return "r: refresh | a: auto-advance | /: search | ?: help"
	case ViewJobs:
		if a.focusedPane == PaneRight {
			return "j/k: scroll | esc: back | ?: help"
		}
		return "enter: details | space: mark | n: new | C: cancel | F: retry | S: status | f: filter | ?: help"
	case ViewPayments:
		return "s: sort | p: complete | f: filter | r: refresh | ?: help"
	case ViewDatabase:
		return "tab: pane | enter: load | /: search | f: filter | c: clear | ?: help"
	case ViewAnalytics:
		if a.analyticsView.IsRunning() {
			return "esc: cancel scan"
		}
		if a.analyticsView.Capturing() {
			return "tab: field | enter: search | ctrl+p: presets | ctrl+o: recent | esc: done"
		}
		return "/: edit form | enter: search again | ?: help"
	case ViewXML:
		if a.xmlView.Capturing() {
			return "ctrl+v: validate | ctrl+f: format | esc: stop editing"
		}
		return "i: edit | ctrl+v: validate | ctrl+f: format | ctrl+x: diff | ?: help"
	case ViewSearch:
		if a.searchView.IsInputMode() {
			return "enter: search | up/down: scope | esc: done"
		}
		return "/: new search | j/k: move | ?: help"
	}
	return "?: help"
}

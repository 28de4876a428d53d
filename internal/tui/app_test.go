package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/convdesk/convdesk/internal/config"
	"github.com/convdesk/convdesk/internal/logger"
	"github.com/convdesk/convdesk/internal/model"
	"github.com/convdesk/convdesk/internal/tui/confirm"
	"github.com/convdesk/convdesk/internal/ui"
)

// newTestApp builds an app with no live store or search engine. Data
// arrives through messages, and command closures are never invoked.
func newTestApp(t *testing.T) App {
	t.Helper()
	app := NewApp(config.Default(), nil, nil, logger.Discard())

	m, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return *m.(*App)
}

func testAppJobs() []model.ConversionJob {
	return []model.ConversionJob{
		{ID: "JOB002", Name: "Customer Import", Status: model.JobStatusRunning, Progress: 45, Threads: 2, CreatedAt: time.Now()},
		{ID: "JOB001", Name: "Payment Export", Status: model.JobStatusCompleted, Progress: 100, Threads: 4, CreatedAt: time.Now()},
		{ID: "JOB003", Name: "Invoice Sync", Status: model.JobStatusFailed, Progress: 30, Threads: 2, CreatedAt: time.Now()},
	}
}

func pressKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNumberKeysSwitchViews(t *testing.T) {
	app := newTestApp(t)

	if app.currentView != ViewDashboard {
		t.Fatalf("expected ViewDashboard initially, got %v", app.currentView)
	}

	m, _ := app.Update(pressKey('2'))
	app = *m.(*App)
	if app.currentView != ViewJobs {
		t.Fatalf("expected ViewJobs after pressing 2, got %v", app.currentView)
	}
	if app.focusedPane != PaneLeft {
		t.Fatalf("expected PaneLeft after switching to jobs, got %v", app.focusedPane)
	}

	m, _ = app.Update(pressKey('3'))
	app = *m.(*App)
	if app.currentView != ViewPayments {
		t.Fatalf("expected ViewPayments after pressing 3, got %v", app.currentView)
	}

	m, _ = app.Update(pressKey('1'))
	app = *m.(*App)
	if app.currentView != ViewDashboard {
		t.Fatalf("expected ViewDashboard after pressing 1, got %v", app.currentView)
	}
}

func TestFilterKeyReachesJobsView(t *testing.T) {
	app := newTestApp(t)

	m, _ := app.Update(ui.JobsLoadedMsg{Jobs: testAppJobs()})
	app = *m.(*App)

	m, _ = app.Update(pressKey('2'))
	app = *m.(*App)

	view := app.jobsView.View()
	if !strings.Contains(view, "Customer Import") {
		t.Error("jobs view should contain loaded jobs")
	}

	m, _ = app.Update(pressKey('f'))
	app = *m.(*App)

	if !app.jobsView.IsFiltering() {
		t.Error("expected jobs view to be filtering after pressing f")
	}
	if !app.isListFiltering() {
		t.Error("expected isListFiltering() to return true")
	}

	fullView := app.View()
	if !strings.Contains(fullView, "Filter") {
		t.Error("filter input should appear in the full app view")
	}
}

func TestJobsLoadedCountsActiveJobs(t *testing.T) {
	app := newTestApp(t)

	m, _ := app.Update(ui.JobsLoadedMsg{Jobs: testAppJobs()})
	app = *m.(*App)

	if app.activeJobs != 1 {
		t.Errorf("expected 1 active job (running), got %d", app.activeJobs)
	}
	if app.status != "3 jobs" {
		t.Errorf("expected status %q, got %q", "3 jobs", app.status)
	}
}

func TestEnterOpensDetailPaneEscCloses(t *testing.T) {
	app := newTestApp(t)

	m, _ := app.Update(ui.JobsLoadedMsg{Jobs: testAppJobs()})
	app = *m.(*App)
	m, _ = app.Update(pressKey('2'))
	app = *m.(*App)

	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = *m.(*App)
	if app.focusedPane != PaneRight {
		t.Fatalf("expected PaneRight after enter, got %v", app.focusedPane)
	}
	if j := app.jobDetail.Job(); j == nil || j.ID != "JOB002" {
		t.Fatalf("expected detail pane to show JOB002, got %v", j)
	}

	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyEscape})
	app = *m.(*App)
	if app.focusedPane != PaneLeft {
		t.Fatalf("expected PaneLeft after esc, got %v", app.focusedPane)
	}
}

func TestHelpOverlayDismissesOnAnyKey(t *testing.T) {
	app := newTestApp(t)

	m, _ := app.Update(pressKey('?'))
	app = *m.(*App)
	if !app.showHelp {
		t.Fatal("expected help overlay after pressing ?")
	}

	m, _ = app.Update(pressKey('x'))
	app = *m.(*App)
	if app.showHelp {
		t.Error("help overlay should dismiss on any key")
	}
}

func TestCancelJobConfirmFlow(t *testing.T) {
	app := newTestApp(t)

	m, _ := app.Update(ui.JobsLoadedMsg{Jobs: testAppJobs()})
	app = *m.(*App)
	m, _ = app.Update(pressKey('2'))
	app = *m.(*App)

	// Cursor is on the running JOB002
	m, _ = app.Update(pressKey('C'))
	app = *m.(*App)
	if !app.confirmDialog.IsActive() {
		t.Fatal("expected confirm dialog after pressing C on a running job")
	}
	if !strings.Contains(app.View(), "Cancel Job") {
		t.Error("confirm dialog should appear in the app view")
	}

	// Answer yes: the dialog closes and emits its result
	m, cmd := app.Update(pressKey('y'))
	app = *m.(*App)
	if app.confirmDialog.IsActive() {
		t.Fatal("dialog should close after answering")
	}
	if cmd == nil {
		t.Fatal("expected a result command from the dialog")
	}
	result, ok := cmd().(confirm.ResultMsg)
	if !ok {
		t.Fatalf("expected confirm.ResultMsg, got %T", cmd())
	}
	if !result.Confirmed || result.Action != "cancel-job" || result.Data.(string) != "JOB002" {
		t.Fatalf("unexpected result: %+v", result)
	}

	// Feeding the result back dispatches the cancel action
	m, cmd = app.Update(result)
	app = *m.(*App)
	if app.status != "Cancelling job..." {
		t.Errorf("expected cancelling status, got %q", app.status)
	}
	if cmd == nil {
		t.Error("expected a cancel command to be dispatched")
	}
}

func TestCancelTerminalJobRefused(t *testing.T) {
	app := newTestApp(t)

	jobs := []model.ConversionJob{
		{ID: "JOB001", Name: "Payment Export", Status: model.JobStatusCompleted, CreatedAt: time.Now()},
	}
	m, _ := app.Update(ui.JobsLoadedMsg{Jobs: jobs})
	app = *m.(*App)
	m, _ = app.Update(pressKey('2'))
	app = *m.(*App)

	m, _ = app.Update(pressKey('C'))
	app = *m.(*App)
	if app.confirmDialog.IsActive() {
		t.Error("completed job should not open a cancel dialog")
	}
	if !strings.Contains(app.status, "already finished") {
		t.Errorf("expected already-finished status, got %q", app.status)
	}
}

func TestRetryWithNoFailedJobs(t *testing.T) {
	app := newTestApp(t)

	jobs := []model.ConversionJob{
		{ID: "JOB001", Name: "Payment Export", Status: model.JobStatusCompleted, CreatedAt: time.Now()},
	}
	m, _ := app.Update(ui.JobsLoadedMsg{Jobs: jobs})
	app = *m.(*App)
	m, _ = app.Update(pressKey('2'))
	app = *m.(*App)

	m, _ = app.Update(pressKey('F'))
	app = *m.(*App)
	if app.confirmDialog.IsActive() {
		t.Error("retry with no failed jobs should not open a dialog")
	}
	if app.status != "No failed jobs to retry" {
		t.Errorf("expected no-failed-jobs status, got %q", app.status)
	}
}

func TestSlashJumpsToSearch(t *testing.T) {
	app := newTestApp(t)

	m, _ := app.Update(pressKey('/'))
	app = *m.(*App)
	if app.currentView != ViewSearch {
		t.Fatalf("expected ViewSearch after /, got %v", app.currentView)
	}
	if !app.searchView.Capturing() {
		t.Error("search view should be in input mode after jump")
	}
}

func TestCaptureModeBlocksViewSwitching(t *testing.T) {
	app := newTestApp(t)

	m, _ := app.Update(pressKey('/'))
	app = *m.(*App)

	// While typing a search term, digits are text, not tab switches
	m, _ = app.Update(pressKey('2'))
	app = *m.(*App)
	if app.currentView != ViewSearch {
		t.Errorf("typing 2 in search input should not switch views, got %v", app.currentView)
	}
}

func TestCtrlCQuitsEvenWhileCapturing(t *testing.T) {
	app := newTestApp(t)

	m, _ := app.Update(pressKey('/'))
	app = *m.(*App)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", cmd())
	}
}

func TestStatusBarLayout(t *testing.T) {
	tests := []struct {
		name   string
		status string
	}{
		{"plain", "3 jobs"},
		{"error", "Error: Path does not exist"},
		{"busy", "Searching..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := RenderStatusBar(tt.status, "q quit", 80)
			if lipgloss.Width(bar) != 80 {
				t.Errorf("bar width = %d, want 80", lipgloss.Width(bar))
			}
			if !strings.Contains(bar, tt.status) {
				t.Errorf("bar should contain the status %q", tt.status)
			}
			if !strings.Contains(bar, "q quit") {
				t.Error("bar should contain the key hints")
			}
		})
	}
}

func TestStatusFilterShownInTabs(t *testing.T) {
	app := newTestApp(t)

	m, _ := app.Update(ui.JobsLoadedMsg{Jobs: testAppJobs()})
	app = *m.(*App)
	m, _ = app.Update(pressKey('2'))
	app = *m.(*App)

	m, _ = app.Update(pressKey('S'))
	app = *m.(*App)
	if !strings.Contains(app.renderTabs(), "Jobs (Pending)") {
		t.Errorf("tab label should show the status filter, got %q", app.renderTabs())
	}

	// esc on the list resets it
	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyEscape})
	app = *m.(*App)
	if app.jobsView.StatusFilter() != "" {
		t.Errorf("esc should clear the status filter, got %q", app.jobsView.StatusFilter())
	}
}

package jobsview

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/convdesk/convdesk/internal/model"
	"github.com/convdesk/convdesk/internal/ui"
)

func testJobs() []model.ConversionJob {
	return []model.ConversionJob{
		{ID: "JOB001", Name: "Payment Export", Status: model.JobStatusCompleted, Progress: 100, Threads: 4, CreatedAt: time.Now()},
		{ID: "JOB002", Name: "Customer Import", Status: model.JobStatusRunning, Progress: 45, Threads: 2, CreatedAt: time.Now()},
		{ID: "JOB003", Name: "Invoice Sync", Status: model.JobStatusFailed, Progress: 30, Threads: 2, CreatedAt: time.Now()},
	}
}

func TestFilterShowsAfterPressingF(t *testing.T) {
	m := New()
	m.SetSize(60, 20)
	m.SetFocused(true)

	m, _ = m.Update(ui.JobsLoadedMsg{Jobs: testJobs()})

	if len(m.list.Items()) != 3 {
		t.Fatalf("expected 3 items, got %d", len(m.list.Items()))
	}
	if m.list.FilterState() != list.Unfiltered {
		t.Fatalf("expected Unfiltered before pressing f, got %v", m.list.FilterState())
	}

	fKey := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}}
	m, cmd := m.Update(fKey)

	if cmd == nil {
		t.Error("expected non-nil cmd after pressing f (textinput.Blink)")
	}
	if !m.IsFiltering() {
		t.Fatal("IsFiltering() should return true after pressing f")
	}

	view := m.View()
	if !strings.Contains(view, "Filter") {
		t.Errorf("filter input should be in view after pressing f.\nView:\n%s", view)
	}
}

func TestFilterEscCancels(t *testing.T) {
	m := New()
	m.SetSize(60, 20)
	m.SetFocused(true)

	m, _ = m.Update(ui.JobsLoadedMsg{Jobs: testJobs()})

	fKey := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}}
	m, _ = m.Update(fKey)
	if !m.IsFiltering() {
		t.Fatal("should be filtering after pressing f")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if m.IsFiltering() {
		t.Error("should NOT be filtering after pressing esc")
	}
}

func TestSpaceTogglesSelection(t *testing.T) {
	m := New()
	m.SetSize(60, 20)
	m.SetFocused(true)

	m, _ = m.Update(ui.JobsLoadedMsg{Jobs: testJobs()})

	space := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}
	m, _ = m.Update(space)

	if m.SelectionCount() != 1 {
		t.Fatalf("expected 1 marked job, got %d", m.SelectionCount())
	}
	ids := m.SelectedIDs()
	if len(ids) != 1 || ids[0] != "JOB001" {
		t.Fatalf("expected JOB001 marked, got %v", ids)
	}
	if !strings.Contains(m.View(), "Marked: 1") {
		t.Error("header should show the marked count")
	}

	// Second press unmarks
	m, _ = m.Update(space)
	if m.SelectionCount() != 0 {
		t.Errorf("expected 0 marked jobs after toggle, got %d", m.SelectionCount())
	}
}

func TestSelectedIDsFallsBackToCursor(t *testing.T) {
	m := New()
	m.SetSize(60, 20)
	m.SetFocused(true)

	m, _ = m.Update(ui.JobsLoadedMsg{Jobs: testJobs()})

	ids := m.SelectedIDs()
	if len(ids) != 1 || ids[0] != "JOB001" {
		t.Errorf("expected cursor row fallback [JOB001], got %v", ids)
	}
}

func TestStatusFilterCycleAndReset(t *testing.T) {
	m := New()
	m.SetSize(60, 20)
	m.SetFocused(true)

	m, _ = m.Update(ui.JobsLoadedMsg{Jobs: testJobs()})

	// Empty → Pending: no pending jobs in fixture
	m.CycleStatusFilter()
	if m.StatusFilter() != model.JobStatusPending {
		t.Fatalf("expected Pending filter, got %q", m.StatusFilter())
	}
	if len(m.list.Items()) != 0 {
		t.Errorf("expected 0 pending jobs, got %d", len(m.list.Items()))
	}

	// Pending → Running: one match
	m.CycleStatusFilter()
	if m.StatusFilter() != model.JobStatusRunning {
		t.Fatalf("expected Running filter, got %q", m.StatusFilter())
	}
	if len(m.list.Items()) != 1 {
		t.Errorf("expected 1 running job, got %d", len(m.list.Items()))
	}
	if j := m.SelectedJob(); j == nil || j.ID != "JOB002" {
		t.Errorf("expected JOB002 selected under Running filter, got %v", j)
	}

	m.ResetStatusFilter()
	if m.StatusFilter() != "" {
		t.Errorf("expected empty filter after reset, got %q", m.StatusFilter())
	}
	if len(m.list.Items()) != 3 {
		t.Errorf("expected all 3 jobs after reset, got %d", len(m.list.Items()))
	}
}

func TestFailedIDs(t *testing.T) {
	m := New()
	m.SetSize(60, 20)

	m, _ = m.Update(ui.JobsLoadedMsg{Jobs: testJobs()})

	ids := m.FailedIDs()
	if len(ids) != 1 || ids[0] != "JOB003" {
		t.Errorf("expected [JOB003], got %v", ids)
	}
}

func TestUnfocusedIgnoresKeys(t *testing.T) {
	m := New()
	m.SetSize(60, 20)
	m.SetFocused(false)

	m, _ = m.Update(ui.JobsLoadedMsg{Jobs: testJobs()})

	space := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}
	m, _ = m.Update(space)
	if m.SelectionCount() != 0 {
		t.Error("unfocused pane should ignore key events")
	}

	fKey := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}}
	m, _ = m.Update(fKey)
	if m.IsFiltering() {
		t.Error("unfocused pane should not start filtering")
	}
}

func TestStaleSelectionPruned(t *testing.T) {
	m := New()
	m.SetSize(60, 20)
	m.SetFocused(true)

	m, _ = m.Update(ui.JobsLoadedMsg{Jobs: testJobs()})

	space := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}
	m, _ = m.Update(space)
	if m.SelectionCount() != 1 {
		t.Fatalf("expected 1 marked job, got %d", m.SelectionCount())
	}

	// Reload without the marked job
	m, _ = m.Update(ui.JobsLoadedMsg{Jobs: testJobs()[1:]})
	if m.SelectionCount() != 0 {
		t.Errorf("selection of a removed job should be pruned, got %d", m.SelectionCount())
	}
}

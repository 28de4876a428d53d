package ui

import (
	"github.com/convdesk/convdesk/internal/model"
	"github.com/convdesk/convdesk/internal/scan"
	"github.com/convdesk/convdesk/internal/search"
	"github.com/convdesk/convdesk/internal/store"
)

// Data fetched messages
type JobsLoadedMsg struct {
	Jobs []model.ConversionJob
	Err  error
}

type JobLoadedMsg struct {
	ID  string
	Job *model.ConversionJob
	Err error
}

type PaymentsLoadedMsg struct {
	Payments []model.Payment
	Err      error
}

type TablesLoadedMsg struct {
	Tables []string
	Err    error
}

type RowsLoadedMsg struct {
	Table   string
	Columns []string
	Rows    [][]string
	Err     error
}

// RowsRequestMsg asks the app to query rows for a table. Emitted by the
// database browser when the user picks a table or changes the filter.
type RowsRequestMsg struct {
	Table  string
	Filter store.Filter
}

type DashboardDataMsg struct {
	Stats    *store.DashboardStats
	Activity []model.Activity
	Err      error
}

// SearchRequestMsg asks the app to run a cross-entity search.
type SearchRequestMsg struct {
	Term  string
	Scope search.Scope
}

type SearchDoneMsg struct {
	Term    string
	Scope   search.Scope
	Results []search.Result
	Err     error
}

// Scan messages
type ScanEventMsg struct {
	Event scan.Event
}

type ScanStartedMsg struct {
	Path string
}

// Action result messages
type ActionResultMsg struct {
	Action string
	Err    error
}

type RetryDoneMsg struct {
	Completed int
	Failed    int
	Errors    []error
}

type JobsAdvancedMsg struct {
	Advanced int
	Err      error
}

type AdvanceTickMsg struct{}

type DashboardTickMsg struct{}

// XML helper messages
type XMLFileLoadedMsg struct {
	Path    string
	Content string
	Err     error
}

type XMLFileSavedMsg struct {
	Path string
	Err  error
}

type StatusMsg struct {
	Text string
}

package dashboard

import (
	"github.com/newthinker/screener/internal/core"
	"github.com/newthinker/screener/internal/notify"
	"github.com/newthinker/screener/internal/render"
)

// Placeholder values shown before the first scan.
const (
	PlaceholderCount   = "-"
	PlaceholderUpdated = "Never"
)

// Step is one frame of the scan progress animation.
type Step struct {
	Percent int
	Text    string
}

// The scan progress animation. These frames are UI-only: they mark where
// the controller is in its own workflow, not how far the backend has got.
var (
	StepFetching   = Step{Percent: 20, Text: "Fetching stock list..."}
	StepAnalyzing  = Step{Percent: 60, Text: "Analyzing stocks..."}
	StepProcessing = Step{Percent: 90, Text: "Processing results..."}
	StepComplete   = Step{Percent: 100, Text: "Complete!"}
)

// Stats are the aggregate counters at the top of the dashboard.
type Stats struct {
	TotalStocks     string `json:"total_stocks"`
	MeetingCriteria string `json:"meeting_criteria"`
	StrongBuys      string `json:"strong_buys"`
	LastUpdated     string `json:"last_updated"`
}

// Progress is the scan progress bar.
type Progress struct {
	Visible bool   `json:"visible"`
	Percent int    `json:"percent"`
	Text    string `json:"text"`
}

// Modal is the stock detail dialog.
type Modal struct {
	Open    bool               `json:"open"`
	Loading bool               `json:"loading"`
	Symbol  string             `json:"symbol"`
	Title   string             `json:"title"`
	Detail  *render.DetailView `json:"detail,omitempty"`
	Error   string             `json:"error,omitempty"`
	Seq     uint64             `json:"seq"`
}

// State is an immutable snapshot of the dashboard for rendering.
type State struct {
	Scanning        bool                `json:"scanning"`
	Stats           Stats               `json:"stats"`
	Progress        Progress            `json:"progress"`
	ResultsVisible  bool                `json:"results_visible"`
	Rows            []render.RowView    `json:"rows"`
	Stocks          []core.StockSummary `json:"stocks"`
	Modal           Modal               `json:"modal"`
	WatchlistTarget string              `json:"watchlist_target"`
	Status          *notify.Message     `json:"status,omitempty"`
	LastRunID       string              `json:"last_run_id,omitempty"`
}

func (s State) clone() State {
	out := s
	out.Rows = append([]render.RowView(nil), s.Rows...)
	out.Stocks = append([]core.StockSummary(nil), s.Stocks...)
	if s.Modal.Detail != nil {
		d := *s.Modal.Detail
		out.Modal.Detail = &d
	}
	return out
}

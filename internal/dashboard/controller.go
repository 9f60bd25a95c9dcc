// Package dashboard holds the screener's UI state and the workflows that
// change it.
package dashboard

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/screener/internal/core"
	"github.com/newthinker/screener/internal/notify"
	"github.com/newthinker/screener/internal/render"
)

// Backend is the screening backend the dashboard talks to.
type Backend interface {
	Scan(ctx context.Context) (*core.ScanResult, error)
	StockDetail(ctx context.Context, symbol string) (*core.DetailResult, error)
	Update(ctx context.Context) (*core.UpdateResult, error)
	AddToWatchlist(ctx context.Context, symbol string) (*core.WatchlistResult, error)
}

// RunRecorder keeps a history of scan runs.
type RunRecorder interface {
	Start() string
	Progress(id string, percent int, text string)
	Complete(id string, resultCount, strongBuys int)
	Fail(id string, message string)
}

// Archiver stores successful scan results.
type Archiver interface {
	Save(ctx context.Context, runID string, result core.ScanResult) error
}

// Recorder receives dashboard metrics.
type Recorder interface {
	RecordScan(status string, duration time.Duration)
	RecordDetail(status string)
	RecordWatchlistAdd(status string)
	SetMeetingCriteria(n int)
}

// Config tunes controller behavior.
type Config struct {
	UniverseSize        int
	ResetDelay          time.Duration
	DetailSequenceGuard bool
	RemoteWatchlist     bool
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		UniverseSize:        50,
		ResetDelay:          time.Second,
		DetailSequenceGuard: true,
	}
}

// Dependencies wires the controller's collaborators. Backend, Board and
// Formatter are required.
type Dependencies struct {
	Backend   Backend
	Board     *notify.Board
	Formatter *render.Formatter
	Runs      RunRecorder
	Archive   Archiver
	Metrics   Recorder
	Logger    *zap.Logger
	AfterFunc func(time.Duration, func())
}

// Controller is the single owner of dashboard state.
type Controller struct {
	cfg       Config
	backend   Backend
	board     *notify.Board
	format    *render.Formatter
	runs      RunRecorder
	archive   Archiver
	metrics   Recorder
	logger    *zap.Logger
	afterFunc func(time.Duration, func())

	mu        sync.Mutex
	state     State
	detailSeq uint64
}

// New creates a controller with placeholder statistics.
func New(cfg Config, deps Dependencies) *Controller {
	if cfg.UniverseSize <= 0 {
		cfg.UniverseSize = DefaultConfig().UniverseSize
	}
	if cfg.ResetDelay < 0 {
		cfg.ResetDelay = 0
	}
	c := &Controller{
		cfg:       cfg,
		backend:   deps.Backend,
		board:     deps.Board,
		format:    deps.Formatter,
		runs:      deps.Runs,
		archive:   deps.Archive,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		afterFunc: deps.AfterFunc,
	}
	if c.board == nil {
		c.board = notify.NewBoard(notify.DefaultTTL)
	}
	if c.format == nil {
		c.format = render.NewFormatter(render.DefaultOptions())
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.afterFunc == nil {
		c.afterFunc = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	c.Init()
	return c
}

// Init resets the statistics to their placeholders.
func (c *Controller) Init() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Stats = Stats{
		TotalStocks:     strconv.Itoa(c.cfg.UniverseSize),
		MeetingCriteria: PlaceholderCount,
		StrongBuys:      PlaceholderCount,
		LastUpdated:     PlaceholderUpdated,
	}
}

// Formatter returns the formatter used for views.
func (c *Controller) Formatter() *render.Formatter {
	return c.format
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	s := c.state.clone()
	c.mu.Unlock()
	if msg, ok := c.board.Current(); ok {
		s.Status = &msg
	}
	return s
}

// Notify shows a status message, replacing any current one.
func (c *Controller) Notify(sev notify.Severity, text string) notify.Message {
	return c.board.Show(sev, text)
}

// StartScan runs one scan. A scan already in flight is rejected with a
// warning and ErrScanInProgress.
func (c *Controller) StartScan(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Scanning {
		c.mu.Unlock()
		c.board.Show(notify.SeverityWarning, core.ErrScanInProgress.Message)
		c.recordScan("rejected", 0)
		return core.ErrScanInProgress
	}
	c.state.Scanning = true
	c.state.Progress = Progress{Visible: true}
	c.mu.Unlock()

	started := time.Now()
	runID := c.startRun()
	defer c.scheduleReset()

	c.step(runID, StepFetching)
	result, err := c.backend.Scan(ctx)
	if err != nil {
		return c.failScan(runID, started, err)
	}
	c.step(runID, StepAnalyzing)
	c.step(runID, StepProcessing)
	if !result.Success {
		return c.failScan(runID, started, applicationError(result.Error, "Scan failed"))
	}

	strongBuys := result.StrongBuyCount()
	c.mu.Lock()
	c.state.Stocks = append([]core.StockSummary(nil), result.Stocks...)
	c.state.Rows = c.format.Rows(result.Stocks)
	c.state.ResultsVisible = true
	c.state.Stats.MeetingCriteria = strconv.Itoa(len(result.Stocks))
	c.state.Stats.StrongBuys = strconv.Itoa(strongBuys)
	c.state.Stats.LastUpdated = c.format.Timestamp(result.Timestamp)
	c.state.LastRunID = runID
	c.mu.Unlock()
	c.step(runID, StepComplete)

	if c.runs != nil {
		c.runs.Complete(runID, len(result.Stocks), strongBuys)
	}
	if c.metrics != nil {
		c.metrics.SetMeetingCriteria(len(result.Stocks))
	}
	c.recordScan("success", time.Since(started))
	c.archiveScan(ctx, runID, *result)

	c.logger.Info("scan completed",
		zap.String("run_id", runID),
		zap.Int("meeting_criteria", len(result.Stocks)),
		zap.Int("strong_buys", strongBuys))
	c.board.Show(notify.SeveritySuccess,
		"Scan completed successfully! Found "+strconv.Itoa(len(result.Stocks))+" stocks meeting criteria.")
	return nil
}

func (c *Controller) startRun() string {
	if c.runs == nil {
		return ""
	}
	return c.runs.Start()
}

func (c *Controller) step(runID string, s Step) {
	c.mu.Lock()
	c.state.Progress.Percent = s.Percent
	c.state.Progress.Text = s.Text
	c.mu.Unlock()
	if c.runs != nil {
		c.runs.Progress(runID, s.Percent, s.Text)
	}
}

func (c *Controller) failScan(runID string, started time.Time, err error) error {
	msg := core.UserMessage(err)
	if c.runs != nil {
		c.runs.Fail(runID, msg)
	}
	c.recordScan("failed", time.Since(started))
	c.logger.Error("scan failed", zap.String("run_id", runID), zap.Error(err))
	c.board.Show(notify.SeverityDanger, "Scan failed: "+msg)
	return err
}

// scheduleReset hides the progress bar and re-enables scanning after the
// reset delay, whatever the scan outcome.
func (c *Controller) scheduleReset() {
	c.afterFunc(c.cfg.ResetDelay, func() {
		c.mu.Lock()
		c.state.Scanning = false
		c.state.Progress.Visible = false
		c.mu.Unlock()
	})
}

func (c *Controller) archiveScan(ctx context.Context, runID string, result core.ScanResult) {
	if c.archive == nil {
		return
	}
	if err := c.archive.Save(ctx, runID, result); err != nil {
		c.logger.Warn("scan archive failed", zap.String("run_id", runID), zap.Error(err))
	}
}

func (c *Controller) recordScan(status string, d time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordScan(status, d)
	}
}

// ErrStaleDetail reports a detail response that was superseded by a newer
// request and dropped.
var ErrStaleDetail = errors.New("stale detail response")

// ShowDetails opens the detail modal for symbol and loads its body.
func (c *Controller) ShowDetails(ctx context.Context, symbol string) error {
	seq := c.OpenDetails(symbol)
	if err := c.LoadDetails(ctx, symbol, seq); err != nil && !errors.Is(err, ErrStaleDetail) {
		return err
	}
	return nil
}

// OpenDetails shows the modal in its loading state and returns the
// request's sequence number.
func (c *Controller) OpenDetails(symbol string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detailSeq++
	c.state.Modal = Modal{
		Open:    true,
		Loading: true,
		Symbol:  symbol,
		Title:   "Loading " + symbol + "...",
		Seq:     c.detailSeq,
	}
	return c.detailSeq
}

// LoadDetails fetches symbol's detail and fills the modal body. When the
// sequence guard is on, a response for anything but the latest request is
// dropped with ErrStaleDetail. With the guard off the last response to
// arrive wins.
func (c *Controller) LoadDetails(ctx context.Context, symbol string, seq uint64) error {
	result, err := c.backend.StockDetail(ctx, symbol)
	if err == nil && !result.Success {
		err = applicationError(result.Error, "Unknown error")
	}

	c.mu.Lock()
	if c.cfg.DetailSequenceGuard && seq != c.detailSeq {
		c.mu.Unlock()
		c.recordDetail("stale")
		c.logger.Debug("discarding stale detail response",
			zap.String("symbol", symbol), zap.Uint64("seq", seq))
		return ErrStaleDetail
	}
	c.state.Modal.Loading = false
	c.state.Modal.Symbol = symbol
	c.state.Modal.Seq = seq
	if err != nil {
		c.state.Modal.Detail = nil
		c.state.Modal.Error = "Error loading stock details: " + core.UserMessage(err)
		c.mu.Unlock()
		c.recordDetail("failed")
		c.logger.Warn("stock detail failed", zap.String("symbol", symbol), zap.Error(err))
		return err
	}
	var detail core.StockDetail
	if result.Stock != nil {
		detail = *result.Stock
	}
	view := c.format.Detail(symbol, detail)
	c.state.Modal.Detail = &view
	c.state.Modal.Error = ""
	c.state.Modal.Title = view.Title
	c.state.WatchlistTarget = symbol
	c.mu.Unlock()
	c.recordDetail("success")
	return nil
}

// CloseDetails hides the modal. Its last content is kept.
func (c *Controller) CloseDetails() {
	c.mu.Lock()
	c.state.Modal.Open = false
	c.mu.Unlock()
}

func (c *Controller) recordDetail(status string) {
	if c.metrics != nil {
		c.metrics.RecordDetail(status)
	}
}

// AddToWatchlist adds symbol, or the modal's current target when symbol
// is empty, to the watchlist.
func (c *Controller) AddToWatchlist(ctx context.Context, symbol string) error {
	if symbol == "" {
		c.mu.Lock()
		symbol = c.state.WatchlistTarget
		c.mu.Unlock()
	}
	if symbol == "" {
		return c.failWatchlist(core.ErrNoSymbol)
	}
	display := c.format.DisplaySymbol(symbol)

	if c.cfg.RemoteWatchlist {
		result, err := c.backend.AddToWatchlist(ctx, symbol)
		if err == nil && !result.Success {
			err = applicationError(result.Error, "Watchlist update failed")
		}
		if err != nil {
			return c.failWatchlist(err)
		}
	}
	c.recordWatchlist("success")
	c.board.Show(notify.SeveritySuccess, "Added "+display+" to watchlist")
	return nil
}

func (c *Controller) failWatchlist(err error) error {
	c.recordWatchlist("failed")
	c.logger.Warn("watchlist add failed", zap.Error(err))
	c.board.Show(notify.SeverityDanger, "Error adding to watchlist: "+core.UserMessage(err))
	return err
}

func (c *Controller) recordWatchlist(status string) {
	if c.metrics != nil {
		c.metrics.RecordWatchlistAdd(status)
	}
}

// UpdateData asks the backend to refresh its stock data.
func (c *Controller) UpdateData(ctx context.Context) error {
	c.board.Show(notify.SeverityInfo, "Updating stock data...")
	result, err := c.backend.Update(ctx)
	if err == nil && !result.Success {
		err = applicationError(result.Error, "Update failed")
	}
	if err != nil {
		c.logger.Error("data update failed", zap.Error(err))
		c.board.Show(notify.SeverityDanger, "Error updating data: "+core.UserMessage(err))
		return err
	}
	c.board.Show(notify.SeveritySuccess, "Stock data updated successfully")
	return nil
}

func applicationError(msg, fallback string) error {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		msg = fallback
	}
	return core.WrapError(core.ErrApplication, errors.New(msg))
}

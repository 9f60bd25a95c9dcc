package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/screener/internal/dashboard"
)

//go:embed templates/*
var templateFS embed.FS

var templateFiles = []string{"layout.html", "dashboard.html", "partials.html"}

// Controller is the dashboard surface the web handlers drive.
type Controller interface {
	Snapshot() dashboard.State
	Dispatch(ctx context.Context, ev dashboard.Event) error
	OpenDetails(symbol string) uint64
	LoadDetails(ctx context.Context, symbol string, seq uint64) error
}

// Handler provides web UI handlers with template rendering
type Handler struct {
	tmpl   *template.Template
	ctrl   Controller
	logger *zap.Logger
	now    func() time.Time
}

// NewHandler creates a new web handler with templates loaded from the given directory.
// If templatesDir is empty, it falls back to embedded templates.
func NewHandler(ctrl Controller, logger *zap.Logger, templatesDir string) (*Handler, error) {
	fsys := TemplateFS()
	if templatesDir != "" {
		fsys = os.DirFS(filepath.Clean(templatesDir))
	}
	return NewHandlerWithFS(ctrl, logger, fsys)
}

// NewHandlerWithFS creates a new web handler using a custom filesystem.
func NewHandlerWithFS(ctrl Controller, logger *zap.Logger, fsys fs.FS) (*Handler, error) {
	tmpl, err := template.New(templateFiles[0]).Funcs(templateFuncs).ParseFS(fsys, templateFiles...)
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{tmpl: tmpl, ctrl: ctrl, logger: logger, now: time.Now}, nil
}

var templateFuncs = template.FuncMap{
	"watchlistVals": watchlistVals,
}

// watchlistVals encodes the hx-vals payload of an add-to-watchlist button.
func watchlistVals(symbol string) (string, error) {
	b, err := json.Marshal(map[string]string{"symbol": symbol})
	return string(b), err
}

// TemplateFS returns the embedded template filesystem for external use.
func TemplateFS() fs.FS {
	subFS, err := fs.Sub(templateFS, "templates")
	if err != nil {
		// This should never happen with valid embed directive
		return templateFS
	}
	return subFS
}

// view is the data every template receives.
type view struct {
	Title string
	State dashboard.State
	OOB   bool
	now   time.Time
}

// StatusDelay is the time left on the current status message in
// milliseconds, used to schedule its removal.
func (v view) StatusDelay() int64 {
	if v.State.Status == nil {
		return 0
	}
	ms := v.State.Status.ExpiresAt.Sub(v.now).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}

func (h *Handler) view(oob bool) view {
	return view{Title: "Dashboard", State: h.ctrl.Snapshot(), OOB: oob, now: h.now()}
}

// render writes the named templates in order with one snapshot.
func (h *Handler) render(w http.ResponseWriter, v view, names ...string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	for _, name := range names {
		if err := h.tmpl.ExecuteTemplate(w, name, v); err != nil {
			h.logger.Error("template render failed", zap.String("template", name), zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

// dispatch runs an event. Workflow failures are already reported through
// the status message, so they only get logged here.
func (h *Handler) dispatch(r *http.Request, ev dashboard.Event) {
	if err := h.ctrl.Dispatch(r.Context(), ev); err != nil {
		h.logger.Debug("dashboard event failed", zap.String("event", fmt.Sprintf("%T", ev)), zap.Error(err))
	}
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihandler "github.com/newthinker/screener/internal/api/handler/api"
	"github.com/newthinker/screener/internal/api/handler/web"
	"github.com/newthinker/screener/internal/api/middleware"
	"github.com/newthinker/screener/internal/dashboard"
	"github.com/newthinker/screener/internal/metrics"
)

// Server represents the HTTP server for the screener dashboard
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// Config holds server configuration
type Config struct {
	Host         string
	Port         int
	APIKey       string
	TemplatesDir string
	MetricsPath  string
	// WriteTimeout must outlast the slowest backend call, since a scan
	// request holds its connection until the backend answers. Zero means
	// no write timeout.
	WriteTimeout time.Duration
}

// Controller is what the server needs from the dashboard controller.
type Controller interface {
	web.Controller
	Snapshot() dashboard.State
}

// Dependencies holds the components the routes are served from.
type Dependencies struct {
	Controller Controller
	Runs       apihandler.RunSource
	Archive    apihandler.SnapshotSource // optional
	Metrics    *metrics.Registry         // optional
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout < 0 {
		writeTimeout = 0
	}

	mux := http.NewServeMux()

	s := &Server{
		logger: logger,
		mux:    mux,
	}

	// Set up routes
	if err := s.setupRoutes(cfg, deps); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	var handler http.Handler = mux
	if deps.Metrics != nil {
		handler = metrics.HTTPMiddleware(deps.Metrics)(handler)
	}
	handler = metrics.LoggingMiddleware(logger)(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config, deps Dependencies) error {
	if deps.Controller == nil {
		return fmt.Errorf("controller is required")
	}

	// Web UI routes
	webHandler, err := web.NewHandler(deps.Controller, s.logger, cfg.TemplatesDir)
	if err != nil {
		return fmt.Errorf("creating web handler: %w", err)
	}
	webHandler.Register(s.mux)

	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	// JSON API, behind the API key when one is configured
	auth := middleware.APIKeyAuth(cfg.APIKey)
	state := apihandler.NewStateHandler(deps.Controller)
	s.mux.Handle("GET /api/v1/state", auth(http.HandlerFunc(state.Get)))

	if deps.Runs != nil {
		scans := apihandler.NewScansHandler(deps.Runs)
		s.mux.Handle("GET /api/v1/scans", auth(http.HandlerFunc(scans.List)))
		s.mux.Handle("GET /api/v1/scans/latest", auth(http.HandlerFunc(scans.Latest)))
		s.mux.Handle("GET /api/v1/scans/{id}", auth(http.HandlerFunc(scans.Get)))
	}

	if deps.Archive != nil {
		archive := apihandler.NewArchiveHandler(deps.Archive)
		s.mux.Handle("GET /api/v1/archive", auth(http.HandlerFunc(archive.List)))
		s.mux.Handle("GET /api/v1/archive/{path...}", auth(http.HandlerFunc(archive.Get)))
	}

	if deps.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle("GET "+path, promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	return nil
}

// Handler returns the server's root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

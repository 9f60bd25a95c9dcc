package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/screener/internal/api/job"
	"github.com/newthinker/screener/internal/backend"
	"github.com/newthinker/screener/internal/config"
	"github.com/newthinker/screener/internal/dashboard"
	"github.com/newthinker/screener/internal/logger"
	"github.com/newthinker/screener/internal/metrics"
	"github.com/newthinker/screener/internal/notify"
	"github.com/newthinker/screener/internal/render"
	"github.com/newthinker/screener/internal/storage/archive"
)

// components is everything built from one config.
type components struct {
	cfg        *config.Config
	log        *zap.Logger
	client     *backend.Client
	controller *dashboard.Controller
	runs       *job.Store
	scans      *archive.Scans
	metrics    *metrics.Registry
}

func loadConfig(log *zap.Logger) (*config.Config, error) {
	if cfgFile == "" {
		log.Warn("no config file specified, using defaults")
		return config.Defaults(), nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.Log.Level
	if debug {
		level = "debug"
	}
	return logger.New(debug, level)
}

func build() (*components, error) {
	bootLog := logger.Must(debug, "")
	cfg, err := loadConfig(bootLog)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Dashboard.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone: %w", err)
	}
	formatter := render.NewFormatter(render.Options{
		Locale:         cfg.Dashboard.Locale,
		CurrencySymbol: cfg.Dashboard.CurrencySymbol,
		SymbolSuffix:   cfg.Dashboard.SymbolSuffix,
		TimeLayout:     cfg.Dashboard.TimeLayout,
		Location:       loc,
	})

	store, err := archive.New(archive.Config{
		Type: cfg.Archive.Type,
		Path: cfg.Archive.Path,
		S3: archive.S3Config{
			Bucket:    cfg.Archive.S3.Bucket,
			Endpoint:  cfg.Archive.S3.Endpoint,
			Region:    cfg.Archive.S3.Region,
			AccessKey: cfg.Archive.S3.AccessKey,
			SecretKey: cfg.Archive.S3.SecretKey,
			Prefix:    cfg.Archive.S3.Prefix,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating archive: %w", err)
	}
	scans := archive.NewScans(store, log.Named("archive"))

	client := backend.New(backend.Config{
		BaseURL:        cfg.Backend.BaseURL,
		Timeout:        cfg.Backend.Timeout,
		RequestsPerSec: cfg.Backend.RequestsPerSec,
		UserAgent:      cfg.Backend.UserAgent,
	}, log.Named("backend"))

	board := notify.NewBoard(cfg.Dashboard.NotificationTTL)
	runs := job.NewStore(cfg.Runs.Max, cfg.Runs.TTL)

	c := &components{
		cfg:    cfg,
		log:    log,
		client: client,
		runs:   runs,
		scans:  scans,
	}

	deps := dashboard.Dependencies{
		Backend:   client,
		Board:     board,
		Formatter: formatter,
		Runs:      runs,
		Archive:   scans,
		Logger:    log.Named("dashboard"),
	}
	if cfg.Metrics.Enabled {
		reg := metrics.NewRegistry()
		client.SetObserver(reg.RecordBackendRequest)
		board.OnShow(func(sev notify.Severity) { reg.RecordNotification(string(sev)) })
		deps.Metrics = reg
		c.metrics = reg
	}

	c.controller = dashboard.New(dashboard.Config{
		UniverseSize:        cfg.Dashboard.UniverseSize,
		ResetDelay:          cfg.Dashboard.ResetDelay,
		DetailSequenceGuard: cfg.Dashboard.DetailSequenceGuard,
		RemoteWatchlist:     cfg.Watchlist.Remote,
	}, deps)

	return c, nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/screener/internal/api"
)

var templatesDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&templatesDir, "templates", "", "load templates from this directory instead of the embedded set")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	c, err := build()
	if err != nil {
		return err
	}
	log := c.log
	defer log.Sync()

	log.Info("starting screener server",
		zap.String("host", c.cfg.Server.Host),
		zap.Int("port", c.cfg.Server.Port),
		zap.String("backend", c.cfg.Backend.BaseURL),
	)

	deps := api.Dependencies{
		Controller: c.controller,
		Runs:       c.runs,
		Archive:    c.scans,
	}
	if c.metrics != nil {
		deps.Metrics = c.metrics
	}

	// Create API server
	server, err := api.NewServer(api.Config{
		Host:         c.cfg.Server.Host,
		Port:         c.cfg.Server.Port,
		APIKey:       c.cfg.Server.APIKey,
		TemplatesDir: templatesDir,
		MetricsPath:  c.cfg.Metrics.Path,
		WriteTimeout: writeTimeout(c.cfg.Backend.Timeout),
	}, deps, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down screener server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}

// writeTimeout leaves room to render after the slowest backend call. An
// unbounded backend call gets an unbounded write timeout.
func writeTimeout(backend time.Duration) time.Duration {
	if backend <= 0 {
		return 0
	}
	return backend + 15*time.Second
}

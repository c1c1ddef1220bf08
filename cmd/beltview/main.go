// Package main is the entry point for the interactive belt viewer.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Faultbox/beltline/internal/belt"
	"github.com/Faultbox/beltline/internal/config"
	"github.com/Faultbox/beltline/internal/logger"
	"github.com/Faultbox/beltline/internal/metrics"
	"github.com/Faultbox/beltline/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, cfgPath, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== beltline viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg, cfgPath); err != nil {
		logger.Error("viewer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

func run(cfg *config.Config, cfgPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := viewer.New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	reg := prometheus.NewRegistry()
	ctrl, err := cfg.NewController(
		belt.WithSink(app.Sink()),
		belt.WithObserver(metrics.NewRecorder(reg)),
	)
	if err != nil {
		return err
	}
	ctrl.Setup()
	app.Attach(ctrl)

	if cfg.Metrics.Listen != "" {
		srv := serveMetrics(cfg.Metrics.Listen, reg)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	reloads := make(chan *config.Config, 1)
	if cfgPath != "" {
		go func() {
			err := config.Watch(ctx, cfgPath, func(c *config.Config) {
				// Keep only the newest config when the loop lags behind.
				select {
				case <-reloads:
				default:
				}
				reloads <- c
			})
			if err != nil {
				logger.Warn("config watch stopped", zap.Error(err))
			}
		}()
	}

	return app.Run(ctx, reloads)
}

func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	return srv
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rossv/designstorms-sub000/internal/config"
	"github.com/rossv/designstorms-sub000/internal/observability"
	"github.com/rossv/designstorms-sub000/internal/publish"
	"github.com/rossv/designstorms-sub000/internal/sampler"
	"github.com/rossv/designstorms-sub000/internal/server"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadServer()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}
	if cmd.Flags().Changed("catalog") {
		cfg.CatalogFile = catalogFile
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	metrics := observability.NewMetrics()

	cache := metrics.InstrumentCache(sampler.NewLRU(cfg.CurveCacheSize))
	engine, err := newEngine(logger, cfg.CatalogFile, cache)
	if err != nil {
		return err
	}

	deps := server.Deps{Engine: engine, Metrics: metrics, Logger: logger, MaxSamples: cfg.MaxSamples}
	var writer *publish.Writer
	if cfg.PublishEnabled() {
		writer = publish.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		deps.Publisher = writer
		deps.Ready = writer
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	srv := server.NewServer(cfg.HTTPAddr, deps)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("http server error", "error", err)
		return err
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

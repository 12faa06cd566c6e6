package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/eugenelyy25/FLI-Tracker-SDG12/internal/adapter/httpapi"
	"github.com/eugenelyy25/FLI-Tracker-SDG12/internal/adapter/xlsx"
	"github.com/eugenelyy25/FLI-Tracker-SDG12/internal/config"
	"github.com/eugenelyy25/FLI-Tracker-SDG12/internal/domain"
	"github.com/eugenelyy25/FLI-Tracker-SDG12/internal/observability"
	"github.com/eugenelyy25/FLI-Tracker-SDG12/internal/pipeline"
	"github.com/eugenelyy25/FLI-Tracker-SDG12/internal/resolver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	loader := xlsx.NewLoader(cfg.WorkbookPath, cfg.IndexSheet, cfg.PctSheet, xlsx.ColumnMapping{
		Area:   cfg.AreaColumn,
		Period: cfg.PeriodColumn,
		Value:  cfg.ValueColumn,
	}, logger)

	areaResolver := resolver.NewCachedResolver(
		domain.NewResolver(domain.ResolverConfig{Threshold: cfg.SimilarityThreshold}),
		cfg.ResolverCacheSize,
		metrics,
	)

	p := pipeline.New(loader, areaResolver, domain.DefaultRegionMapping(), logger, metrics, cfg.ForecastHorizon)
	srv := httpapi.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Materialize the first snapshot before serving; without indicator
	// values there is nothing meaningful to expose.
	if err := p.Refresh(ctx); err != nil {
		logger.Error("initial snapshot failed", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if cfg.RefreshInterval > 0 {
		go func() {
			if err := p.Run(ctx, cfg.RefreshInterval); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

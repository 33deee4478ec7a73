package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/agropredict/agropredict/internal/adapter/http"
	"github.com/agropredict/agropredict/internal/adapter/locationapi"
	"github.com/agropredict/agropredict/internal/config"
	"github.com/agropredict/agropredict/internal/location"
	"github.com/agropredict/agropredict/internal/observability"
	"github.com/agropredict/agropredict/internal/predict"
	"github.com/agropredict/agropredict/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	offlineLog, err := store.OpenOfflineLog(ctx, cfg.OfflineDBPath)
	if err != nil {
		logger.Error("failed to open offline log", "path", cfg.OfflineDBPath, "error", err)
		os.Exit(1)
	}

	svc := predict.NewService(offlineLog, logger, metrics)
	if err := svc.LoadModel(cfg.ModelPath); err != nil {
		// Keep serving health and location routes; /readyz reports the model as missing.
		logger.Error("model unavailable, run retrain to create it", "path", cfg.ModelPath, "error", err)
	}

	averages, err := store.LoadAverages(cfg.WeatherAveragesFile)
	if err != nil {
		logger.Warn("weather averages unavailable, baseline lookups will 404", "path", cfg.WeatherAveragesFile, "error", err)
		averages = store.NewAverages()
	}

	cache, err := store.OpenLocationCache(cfg.LocationCacheFile)
	if err != nil {
		logger.Warn("location cache unreadable, starting empty", "path", cfg.LocationCacheFile, "error", err)
		cache = store.NewLocationCache()
	}
	client := locationapi.NewClient(cfg.LocationAPIURL, cfg.LocationTimeout, metrics, logger)
	locations := location.NewCachedSource(client, cache, cfg.LocationCacheFile, metrics, logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, averages, locations, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := offlineLog.Close(); err != nil {
		logger.Error("offline log close error", "error", err)
	}

	logger.Info("shutdown complete")
}

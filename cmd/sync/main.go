// Command sync publishes predictions recorded in the offline log to Kafka and
// marks them synced. By default it keeps polling; -once drains the log and exits.
//
// Usage:
//
//	go run ./cmd/sync -once
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	kafkaadapter "github.com/agropredict/agropredict/internal/adapter/kafka"
	"github.com/agropredict/agropredict/internal/config"
	"github.com/agropredict/agropredict/internal/observability"
	"github.com/agropredict/agropredict/internal/offlinesync"
	"github.com/agropredict/agropredict/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	once := flag.Bool("once", false, "drain the offline log once and exit")
	dbPath := flag.String("db", cfg.OfflineDBPath, "offline log SQLite file")
	metricsAddr := flag.String("metrics-addr", "", "serve /metrics, /healthz and /readyz on this address while looping (empty disables)")
	flag.Parse()

	logger := observability.NewLogger(cfg)
	if err := run(cfg, logger, *dbPath, *metricsAddr, *once); err != nil {
		logger.Error("sync failed", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func run(cfg *config.Config, logger *slog.Logger, dbPath, metricsAddr string, once bool) error {
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	offlineLog, err := store.OpenOfflineLog(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("open offline log %s: %w", dbPath, err)
	}
	defer offlineLog.Close()

	writer := kafkaadapter.NewWriter(cfg, logger)
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}()

	syncer := offlinesync.New(offlineLog, writer, logger, metrics, cfg.SyncBatchSize, cfg.SyncInterval)

	if once {
		n, err := syncer.Drain(ctx)
		logger.Info("drain finished", "synced", n)
		return err
	}

	if metricsAddr != "" {
		srv := newMetricsServer(metricsAddr, syncer)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	return syncer.Run(ctx)
}

func newMetricsServer(addr string, ready sharedobs.ReadinessChecker) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

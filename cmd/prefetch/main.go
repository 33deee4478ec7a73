// Command prefetch warms the location cache with the state listing and the
// districts of the first few states by name.
//
// Usage:
//
//	go run ./cmd/prefetch -file location_cache.json -limit 5
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/agropredict/agropredict/internal/adapter/locationapi"
	"github.com/agropredict/agropredict/internal/config"
	"github.com/agropredict/agropredict/internal/observability"
	"github.com/agropredict/agropredict/internal/prefetch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	file := flag.String("file", cfg.LocationCacheFile, "location cache JSON file")
	limit := flag.Int("limit", cfg.PrefetchStateLimit, "number of states whose districts are cached")
	apiURL := flag.String("api", cfg.LocationAPIURL, "location API base URL")
	flag.Parse()

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if *limit <= 0 {
		logger.Error("invalid -limit: must be positive", "limit", *limit)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := locationapi.NewClient(*apiURL, cfg.LocationTimeout, metrics, logger)
	res, err := prefetch.NewJob(*file, *limit, client, logger, metrics).Run(ctx)
	if err != nil {
		logger.Error("prefetch failed", "file", *file, "error", err)
		os.Exit(1)
	}

	logger.Info("prefetch complete",
		"file", *file,
		"states_cached", res.StatesCached,
		"districts_cached", res.DistrictsCached,
		"total_entries", res.TotalEntries,
	)
}

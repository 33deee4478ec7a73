// Command augment fills in district weather baselines from their parent state's
// baseline, using the remote state/district hierarchy. Existing entries are
// never changed.
//
// Usage:
//
//	go run ./cmd/augment -file weather_averages.json
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/agropredict/agropredict/internal/adapter/locationapi"
	"github.com/agropredict/agropredict/internal/augment"
	"github.com/agropredict/agropredict/internal/config"
	"github.com/agropredict/agropredict/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	file := flag.String("file", cfg.WeatherAveragesFile, "weather averages JSON file to augment")
	apiURL := flag.String("api", cfg.LocationAPIURL, "location API base URL")
	flag.Parse()

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := locationapi.NewClient(*apiURL, cfg.LocationTimeout, metrics, logger)
	res, err := augment.NewJob(*file, client, logger, metrics).Run(ctx)
	if err != nil {
		logger.Error("augmentation failed", "file", *file, "error", err)
		os.Exit(1)
	}

	logger.Info("augmentation complete",
		"file", *file,
		"districts_added", res.DistrictsAdded,
		"total_entries", res.TotalEntries,
	)
}

// Command retrain regenerates the synthetic crop dataset from the built-in crop
// parameter table and retrains the random forest crop model.
//
// Usage:
//
//	go run ./cmd/retrain \
//	  -dataset data/crop_recommendation.csv \
//	  -model models/random_forest.json.zst \
//	  -seed 42
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/agropredict/agropredict/internal/config"
	"github.com/agropredict/agropredict/internal/observability"
	"github.com/agropredict/agropredict/internal/training"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	opts := training.Options{}
	flag.StringVar(&opts.DatasetPath, "dataset", cfg.DatasetPath, "output path for the generated dataset CSV")
	flag.StringVar(&opts.ModelPath, "model", cfg.ModelPath, "output path for the trained model")
	flag.Uint64Var(&opts.Seed, "seed", cfg.TrainSeed, "PRNG seed for generation, split, and training")
	flag.IntVar(&opts.SamplesPerCrop, "samples", cfg.SamplesPerCrop, "samples generated per crop")
	flag.Float64Var(&opts.TestFraction, "test-fraction", cfg.TestFraction, "fraction of samples held out for testing")
	flag.IntVar(&opts.Trees, "trees", cfg.ForestTrees, "number of trees in the forest")
	flag.IntVar(&opts.MaxDepth, "max-depth", cfg.ForestMaxDepth, "maximum tree depth")
	flag.Parse()

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rep, err := training.NewJob(opts, logger, metrics).Run(ctx)
	if err != nil {
		logger.Error("retraining failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Dataset created with %d samples across %d crops\n", rep.Samples, len(rep.Crops))
	fmt.Println("\nCrops included:")
	for i, crop := range rep.Crops {
		fmt.Printf("  %2d. %s\n", i+1, crop)
	}
	fmt.Printf("\nTraining accuracy: %.4f\n", rep.TrainAccuracy)
	fmt.Printf("Testing accuracy: %.4f\n", rep.TestAccuracy)
	fmt.Printf("\nModel saved to %s\n", rep.ModelPath)
}

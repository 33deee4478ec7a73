// Package training regenerates the synthetic crop dataset and retrains the
// crop recommendation forest from it.
package training

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agropredict/agropredict/internal/dataset"
	"github.com/agropredict/agropredict/internal/domain"
	"github.com/agropredict/agropredict/internal/forest"
	"github.com/agropredict/agropredict/internal/observability"
	"github.com/agropredict/agropredict/internal/store"
)

// Options configures a retraining run.
type Options struct {
	DatasetPath    string
	ModelPath      string
	Seed           uint64
	SamplesPerCrop int
	TestFraction   float64
	Trees          int
	MaxDepth       int
}

// Report summarizes a retraining run.
type Report struct {
	Samples       int
	Crops         []string
	TrainSamples  int
	TestSamples   int
	TrainAccuracy float64
	TestAccuracy  float64
	DatasetPath   string
	ModelPath     string
	Duration      time.Duration
}

// Job retrains the crop model.
type Job struct {
	opts    Options
	ranges  []domain.CropRange
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewJob creates a retraining job over the built-in crop range table.
func NewJob(opts Options, logger *slog.Logger, metrics *observability.Metrics) *Job {
	return &Job{opts: opts, ranges: domain.CropRanges(), logger: logger, metrics: metrics}
}

// WithRanges replaces the crop range table, mainly to keep tests small.
func (j *Job) WithRanges(ranges []domain.CropRange) *Job {
	j.ranges = ranges
	return j
}

// Run generates and saves the dataset, fits the forest, scores it, and saves
// the model. The same seed always yields the same dataset and accuracies.
func (j *Job) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	o := j.opts

	samples, err := dataset.Generate(j.ranges, o.SamplesPerCrop, o.Seed)
	if err != nil {
		return Report{}, fmt.Errorf("generate dataset: %w", err)
	}
	dataset.Shuffle(samples, o.Seed)

	if err := dataset.SaveCSV(o.DatasetPath, samples); err != nil {
		return Report{}, fmt.Errorf("save dataset: %w", err)
	}
	j.logger.Info("dataset created", "samples", len(samples), "crops", len(j.ranges), "path", o.DatasetPath)

	train, test, err := dataset.Split(samples, o.TestFraction, o.Seed)
	if err != nil {
		return Report{}, fmt.Errorf("split dataset: %w", err)
	}

	Xtrain, ytrain := dataset.Matrix(train)
	Xtest, ytest := dataset.Matrix(test)

	j.logger.Info("training forest", "trees", o.Trees, "max_depth", o.MaxDepth, "train_samples", len(train))
	model, err := forest.Fit(ctx, Xtrain, ytrain, domain.FeatureNames[:], forest.Config{
		Trees:    o.Trees,
		MaxDepth: o.MaxDepth,
		Seed:     o.Seed,
	})
	if err != nil {
		return Report{}, fmt.Errorf("fit forest: %w", err)
	}

	rep := Report{
		Samples:       len(samples),
		Crops:         model.Classes,
		TrainSamples:  len(train),
		TestSamples:   len(test),
		TrainAccuracy: model.Score(Xtrain, ytrain),
		TestAccuracy:  model.Score(Xtest, ytest),
		DatasetPath:   o.DatasetPath,
		ModelPath:     o.ModelPath,
	}
	j.metrics.TrainAccuracy.WithLabelValues("train").Set(rep.TrainAccuracy)
	j.metrics.TrainAccuracy.WithLabelValues("test").Set(rep.TestAccuracy)

	if err := SaveModel(o.ModelPath, model); err != nil {
		return rep, err
	}

	rep.Duration = time.Since(start)
	j.logger.Info("model saved",
		"path", o.ModelPath,
		"train_accuracy", rep.TrainAccuracy,
		"test_accuracy", rep.TestAccuracy,
		"duration", rep.Duration,
	)
	return rep, nil
}

// SaveModel atomically writes the encoded forest to path.
func SaveModel(path string, model *forest.Forest) error {
	data, err := model.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	if err := store.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	return nil
}

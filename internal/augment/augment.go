// Package augment fills in district-level weather baselines from their parent
// state's baseline, using the remote state/district hierarchy.
package augment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agropredict/agropredict/internal/adapter/locationapi"
	"github.com/agropredict/agropredict/internal/domain"
	"github.com/agropredict/agropredict/internal/observability"
	"github.com/agropredict/agropredict/internal/store"
)

// Result summarizes one augmentation run.
type Result struct {
	StatesSeen     int
	StatesFailed   int
	DistrictsSeen  int
	DistrictsAdded int
	TotalEntries   int
}

// Job augments a weather-averages file.
type Job struct {
	path    string
	source  domain.LocationSource
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewJob creates an augmentation job over the averages file at path.
func NewJob(path string, source domain.LocationSource, logger *slog.Logger, metrics *observability.Metrics) *Job {
	return &Job{path: path, source: source, logger: logger, metrics: metrics}
}

// Run loads the store, fills missing district entries, and writes the store back.
// Existing entries are never modified. A failure to list a state's districts is
// logged and skipped when the API reports it as unsuccessful; any other failure
// aborts the run before anything is written.
func (j *Job) Run(ctx context.Context) (Result, error) {
	averages, err := store.LoadAverages(j.path)
	if err != nil {
		return Result{}, fmt.Errorf("load weather averages: %w", err)
	}

	j.logger.Info("fetching states")
	states, err := j.source.States(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch states: %w", err)
	}

	res, err := Fill(ctx, averages, states, j.source, j.logger)
	if err != nil {
		return res, err
	}

	if err := store.SaveAverages(j.path, averages); err != nil {
		return res, fmt.Errorf("save weather averages: %w", err)
	}
	j.metrics.DistrictsAdded.Add(float64(res.DistrictsAdded))

	j.logger.Info("weather averages expanded",
		"states", res.StatesSeen,
		"states_failed", res.StatesFailed,
		"districts_added", res.DistrictsAdded,
		"total_entries", res.TotalEntries,
	)
	return res, nil
}

// Fill adds a baseline for every district of the given states that has no entry
// yet. A district receives a copy of its state's entry, extra fields included, or
// domain.FallbackBaseline when the state has none. State keys are read, never
// written. It mutates averages in place and returns early on hard errors.
func Fill(ctx context.Context, averages *store.Averages, states []domain.Region, source domain.LocationSource, logger *slog.Logger) (Result, error) {
	var res Result

	fallback, err := json.Marshal(domain.FallbackBaseline)
	if err != nil {
		return res, fmt.Errorf("encode fallback baseline: %w", err)
	}

	for _, state := range states {
		res.StatesSeen++

		baseline, ok := averages.Entry(domain.RegionKey(state.Name))
		if !ok {
			logger.Debug("no state baseline, using fallback", "state", state.Name)
			baseline = fallback
		}

		logger.Debug("fetching districts", "state", state.Name)
		districts, err := source.Districts(ctx, state.Name)
		if err != nil {
			if errors.Is(err, locationapi.ErrUnsuccessful) {
				logger.Warn("districts unavailable, skipping state", "state", state.Name, "error", err)
				res.StatesFailed++
				continue
			}
			return res, fmt.Errorf("fetch districts for %s: %w", state.Name, err)
		}

		for _, d := range districts {
			res.DistrictsSeen++
			if averages.AddEntryIfAbsent(domain.RegionKey(d.Name), baseline) {
				res.DistrictsAdded++
			}
		}
	}

	res.TotalEntries = averages.Len()
	return res, nil
}

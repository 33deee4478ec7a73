// Package prefetch warms the on-disk location cache with the state listing and
// the districts of a bounded set of states.
package prefetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/agropredict/agropredict/internal/adapter/locationapi"
	"github.com/agropredict/agropredict/internal/domain"
	"github.com/agropredict/agropredict/internal/observability"
	"github.com/agropredict/agropredict/internal/store"
)

// Source is a location source that can name the URL its states listing is cached under.
type Source interface {
	domain.LocationSource
	StatesURL() string
}

// Result summarizes one prefetch run.
type Result struct {
	StatesCached     bool
	DistrictsCached  int
	DistrictsSkipped int
	TotalEntries     int
}

// Job merges freshly fetched location data into the cache file.
type Job struct {
	path       string
	stateLimit int
	source     Source
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewJob creates a prefetch job that caches districts for the first stateLimit states by name.
func NewJob(path string, stateLimit int, source Source, logger *slog.Logger, metrics *observability.Metrics) *Job {
	return &Job{path: path, stateLimit: stateLimit, source: source, logger: logger, metrics: metrics}
}

// Run fetches and merges. Entries already in the cache that this run does not
// refetch are preserved. Unsuccessful API answers are skipped; transport and
// decode failures abort the run without writing.
func (j *Job) Run(ctx context.Context) (Result, error) {
	cache, err := store.LoadLocationCache(j.path)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		j.logger.Warn("location cache unreadable, starting empty", "path", j.path, "error", err)
	}

	var res Result

	j.logger.Info("prefetching states")
	states, err := j.source.States(ctx)
	switch {
	case errors.Is(err, locationapi.ErrUnsuccessful):
		j.logger.Warn("states unavailable, nothing new to cache", "error", err)
	case err != nil:
		return res, fmt.Errorf("fetch states: %w", err)
	default:
		if err := cache.Put(j.source.StatesURL(), store.StatesEntry{Success: true, States: states}); err != nil {
			return res, err
		}
		res.StatesCached = true

		if err := j.prefetchDistricts(ctx, cache, states, &res); err != nil {
			return res, err
		}
	}

	if err := cache.Save(j.path); err != nil {
		return res, fmt.Errorf("save location cache: %w", err)
	}
	res.TotalEntries = cache.Len()
	j.metrics.CacheEntries.Set(float64(res.TotalEntries))

	j.logger.Info("prefetch complete",
		"states_cached", res.StatesCached,
		"districts_cached", res.DistrictsCached,
		"districts_skipped", res.DistrictsSkipped,
		"total_entries", res.TotalEntries,
	)
	return res, nil
}

func (j *Job) prefetchDistricts(ctx context.Context, cache *store.LocationCache, states []domain.Region, res *Result) error {
	for _, state := range FirstByName(states, j.stateLimit) {
		j.logger.Info("prefetching districts", "state", state.Name)

		districts, err := j.source.Districts(ctx, state.Name)
		if errors.Is(err, locationapi.ErrUnsuccessful) {
			j.logger.Warn("districts unavailable, skipping state", "state", state.Name, "error", err)
			res.DistrictsSkipped++
			continue
		}
		if err != nil {
			return fmt.Errorf("fetch districts for %s: %w", state.Name, err)
		}

		entry := store.DistrictsEntry{Success: true, Districts: districts}
		if err := cache.Put(store.DistrictsCacheKey(state.Name), entry); err != nil {
			return err
		}
		res.DistrictsCached++
	}
	return nil
}

// FirstByName returns the first n states ordered by name, without reordering the input.
func FirstByName(states []domain.Region, n int) []domain.Region {
	sorted := make([]domain.Region, len(states))
	copy(sorted, states)
	sort.SliceStable(sorted, func(i, k int) bool { return sorted[i].Name < sorted[k].Name })
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

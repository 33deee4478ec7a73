// Package location serves the state/district hierarchy cache-first.
package location

import (
	"context"
	"log/slog"

	"github.com/agropredict/agropredict/internal/domain"
	"github.com/agropredict/agropredict/internal/observability"
	"github.com/agropredict/agropredict/internal/store"
)

// Source is a remote location source whose states listing has a stable cache key.
type Source interface {
	domain.LocationSource
	StatesURL() string
}

// CachedSource wraps a Source with the on-disk location cache. Hits never touch
// the network; successful misses are written back to the cache file.
type CachedSource struct {
	inner   Source
	cache   *store.LocationCache
	path    string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCachedSource creates a cache decorator. An empty path keeps write-backs in memory only.
func NewCachedSource(inner Source, cache *store.LocationCache, path string, metrics *observability.Metrics, logger *slog.Logger) *CachedSource {
	return &CachedSource{inner: inner, cache: cache, path: path, metrics: metrics, logger: logger}
}

// States returns the cached states listing, fetching and caching it on a miss.
func (c *CachedSource) States(ctx context.Context) ([]domain.Region, error) {
	key := c.inner.StatesURL()

	var entry store.StatesEntry
	if c.cache.GetInto(key, &entry) && entry.Success {
		c.metrics.LocationCache.WithLabelValues("states", "hit").Inc()
		return entry.States, nil
	}
	c.metrics.LocationCache.WithLabelValues("states", "miss").Inc()

	states, err := c.inner.States(ctx)
	if err != nil {
		return nil, err
	}
	c.store(key, store.StatesEntry{Success: true, States: states})
	return states, nil
}

// Districts returns the cached districts of state, fetching and caching them on a miss.
func (c *CachedSource) Districts(ctx context.Context, state string) ([]domain.Region, error) {
	key := store.DistrictsCacheKey(state)

	var entry store.DistrictsEntry
	if c.cache.GetInto(key, &entry) && entry.Success {
		c.metrics.LocationCache.WithLabelValues("districts", "hit").Inc()
		return entry.Districts, nil
	}
	c.metrics.LocationCache.WithLabelValues("districts", "miss").Inc()

	districts, err := c.inner.Districts(ctx, state)
	if err != nil {
		return nil, err
	}
	c.store(key, store.DistrictsEntry{Success: true, Districts: districts})
	return districts, nil
}

// store records a fresh response. Write-back failures only cost a future cache
// miss, so they are logged rather than returned.
func (c *CachedSource) store(key string, entry any) {
	if err := c.cache.Put(key, entry); err != nil {
		c.logger.Warn("location cache put failed", "key", key, "error", err)
		return
	}
	if c.path == "" {
		return
	}
	if err := c.cache.Save(c.path); err != nil {
		c.logger.Warn("location cache save failed", "path", c.path, "error", err)
	}
}

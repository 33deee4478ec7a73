package location

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agropredict/agropredict/internal/domain"
	"github.com/agropredict/agropredict/internal/observability"
	"github.com/agropredict/agropredict/internal/store"
)

// --- counting source ---

type countingSource struct {
	statesCalls    int
	districtsCalls int
	err            error
}

func (s *countingSource) StatesURL() string { return "https://api.test/states" }

func (s *countingSource) States(_ context.Context) ([]domain.Region, error) {
	s.statesCalls++
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Region{domain.NewRegion("Kerala")}, nil
}

func (s *countingSource) Districts(_ context.Context, state string) ([]domain.Region, error) {
	s.districtsCalls++
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Region{domain.NewRegion(state + " North")}, nil
}

func newCached(inner Source, path string) (*CachedSource, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCachedSource(inner, store.NewLocationCache(), path, metrics, logger), metrics
}

func TestCachedSource_StatesCacheHit(t *testing.T) {
	inner := &countingSource{}
	cached, metrics := newCached(inner, "")

	s1, err := cached.States(context.Background())
	require.NoError(t, err)
	s2, err := cached.States(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, inner.statesCalls, "should only call inner once")
	assert.Equal(t, s1[0].Name, s2[0].Name)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.LocationCache.WithLabelValues("states", "hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.LocationCache.WithLabelValues("states", "miss")), 0)
}

func TestCachedSource_DistrictsKeyedByState(t *testing.T) {
	inner := &countingSource{}
	cached, _ := newCached(inner, "")

	_, _ = cached.Districts(context.Background(), "Kerala")
	_, _ = cached.Districts(context.Background(), "Goa")
	d, err := cached.Districts(context.Background(), "Kerala")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.districtsCalls)
	assert.Equal(t, "Kerala North", d[0].Name)
}

func TestCachedSource_ErrorsAreNotCached(t *testing.T) {
	inner := &countingSource{err: errors.New("boom")}
	cached, _ := newCached(inner, "")

	_, err := cached.States(context.Background())
	require.Error(t, err)
	_, err = cached.States(context.Background())
	require.Error(t, err)

	assert.Equal(t, 2, inner.statesCalls)
}

func TestCachedSource_WritesBackToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "location_cache.json")
	cached, _ := newCached(&countingSource{}, path)

	_, err := cached.Districts(context.Background(), "Goa")
	require.NoError(t, err)

	reloaded, err := store.LoadLocationCache(path)
	require.NoError(t, err)
	var entry store.DistrictsEntry
	require.True(t, reloaded.GetInto("/api/districts/Goa", &entry))
	assert.Equal(t, "Goa North", entry.Districts[0].Name)
}

func TestCachedSource_ServesPrefetchedEntries(t *testing.T) {
	cache := store.NewLocationCache()
	require.NoError(t, cache.Put("/api/districts/Assam", store.DistrictsEntry{
		Success:   true,
		Districts: []domain.Region{domain.NewRegion("Kamrup")},
	}))
	inner := &countingSource{}
	cached := NewCachedSource(inner, cache, "", observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	d, err := cached.Districts(context.Background(), "Assam")
	require.NoError(t, err)
	assert.Equal(t, "Kamrup", d[0].Name)
	assert.Zero(t, inner.districtsCalls)
}

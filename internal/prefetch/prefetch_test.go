package prefetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agropredict/agropredict/internal/adapter/locationapi"
	"github.com/agropredict/agropredict/internal/domain"
	"github.com/agropredict/agropredict/internal/observability"
	"github.com/agropredict/agropredict/internal/store"
)

const statesURL = "https://api.test/api/locations/states"

type fakeSource struct {
	states        []string
	districts     map[string][]string
	statesErr     error
	districtErrs  map[string]error
	districtCalls []string
}

func (f *fakeSource) StatesURL() string { return statesURL }

func (f *fakeSource) States(_ context.Context) ([]domain.Region, error) {
	if f.statesErr != nil {
		return nil, f.statesErr
	}
	return regions(f.states), nil
}

func (f *fakeSource) Districts(_ context.Context, state string) ([]domain.Region, error) {
	f.districtCalls = append(f.districtCalls, state)
	if err := f.districtErrs[state]; err != nil {
		return nil, err
	}
	return regions(f.districts[state]), nil
}

func regions(names []string) []domain.Region {
	out := make([]domain.Region, len(names))
	for i, n := range names {
		out[i] = domain.NewRegion(n)
	}
	return out
}

func newTestJob(path string, limit int, src Source) *Job {
	return NewJob(path, limit, src, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
}

func TestJob_CachesStatesAndFirstNDistricts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "location_cache.json")
	src := &fakeSource{
		states: []string{"Punjab", "Assam", "Kerala", "Bihar"},
		districts: map[string][]string{
			"Assam":  {"Kamrup"},
			"Bihar":  {"Patna", "Gaya"},
			"Kerala": {"Idukki"},
			"Punjab": {"Amritsar"},
		},
	}

	res, err := newTestJob(path, 2, src).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Assam", "Bihar"}, src.districtCalls)
	assert.Equal(t, Result{StatesCached: true, DistrictsCached: 2, TotalEntries: 3}, res)

	cache, err := store.LoadLocationCache(path)
	require.NoError(t, err)

	var states store.StatesEntry
	require.True(t, cache.GetInto(statesURL, &states))
	assert.True(t, states.Success)
	require.Len(t, states.States, 4)
	assert.Equal(t, "Punjab", states.States[0].Name, "states are cached in API order")

	var bihar store.DistrictsEntry
	require.True(t, cache.GetInto("/api/districts/Bihar", &bihar))
	require.Len(t, bihar.Districts, 2)
	assert.Equal(t, "Gaya", bihar.Districts[1].Name)
}

func TestJob_MergesIntoExistingCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "location_cache.json")
	existing := `{"/api/districts/Zanskar":{"success":true,"districts":[{"name":"Padum"}]}}`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o600))

	src := &fakeSource{
		states:    []string{"Goa"},
		districts: map[string][]string{"Goa": {"North Goa"}},
	}

	res, err := newTestJob(path, 5, src).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalEntries)

	cache, err := store.LoadLocationCache(path)
	require.NoError(t, err)
	raw, ok := cache.Get("/api/districts/Zanskar")
	require.True(t, ok, "unrelated prior entry must survive")
	assert.JSONEq(t, `{"success":true,"districts":[{"name":"Padum"}]}`, string(raw))
}

func TestJob_CorruptCacheStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "location_cache.json")
	require.NoError(t, os.WriteFile(path, []byte(`{{{`), 0o600))

	src := &fakeSource{states: []string{"Goa"}, districts: map[string][]string{"Goa": {"South Goa"}}}

	res, err := newTestJob(path, 5, src).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalEntries)
}

func TestJob_UnsuccessfulDistrictsSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "location_cache.json")
	src := &fakeSource{
		states:       []string{"Assam", "Bihar"},
		districts:    map[string][]string{"Bihar": {"Patna"}},
		districtErrs: map[string]error{"Assam": fmt.Errorf("%w: status 500", locationapi.ErrUnsuccessful)},
	}

	res, err := newTestJob(path, 5, src).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.DistrictsSkipped)
	assert.Equal(t, 1, res.DistrictsCached)

	cache, err := store.LoadLocationCache(path)
	require.NoError(t, err)
	_, ok := cache.Get("/api/districts/Assam")
	assert.False(t, ok)
}

func TestJob_UnsuccessfulStatesKeepsCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "location_cache.json")
	existing := `{"k":{"success":true}}`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o600))

	src := &fakeSource{statesErr: fmt.Errorf("%w: status 503", locationapi.ErrUnsuccessful)}

	res, err := newTestJob(path, 5, src).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.StatesCached)
	assert.Equal(t, 1, res.TotalEntries)
	assert.Empty(t, src.districtCalls)
}

func TestJob_HardFailureDoesNotWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "location_cache.json")
	existing := `{"k":{"success":true}}`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o600))

	src := &fakeSource{
		states:       []string{"Assam"},
		districtErrs: map[string]error{"Assam": errors.New("read: connection reset by peer")},
	}

	_, err := newTestJob(path, 5, src).Run(context.Background())
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, existing, string(data))
}

func TestFirstByName(t *testing.T) {
	in := regions([]string{"Punjab", "Assam", "Kerala"})

	out := FirstByName(in, 2)
	require.Len(t, out, 2)
	assert.Equal(t, "Assam", out[0].Name)
	assert.Equal(t, "Kerala", out[1].Name)
	assert.Equal(t, "Punjab", in[0].Name, "input order preserved")

	assert.Len(t, FirstByName(in, 10), 3)
}

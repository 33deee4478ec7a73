package augment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agropredict/agropredict/internal/adapter/locationapi"
	"github.com/agropredict/agropredict/internal/domain"
	"github.com/agropredict/agropredict/internal/observability"
	"github.com/agropredict/agropredict/internal/store"
)

// --- fake hierarchy ---

type fakeSource struct {
	states       []string
	districts    map[string][]string
	statesErr    error
	districtErrs map[string]error
}

func (f *fakeSource) States(_ context.Context) ([]domain.Region, error) {
	if f.statesErr != nil {
		return nil, f.statesErr
	}
	return regions(f.states), nil
}

func (f *fakeSource) Districts(_ context.Context, state string) ([]domain.Region, error) {
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

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const seedAverages = `{
  "KERALA": {"temperature": 27.5, "humidity": 80, "rainfall": 3000},
  "ERNAKULAM": {"temperature": 28.1, "humidity": 82, "rainfall": 3200}
}`

func writeAverages(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weather_averages.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func baselineOf(t *testing.T, path, key string) domain.Baseline {
	t.Helper()
	a, err := store.LoadAverages(path)
	require.NoError(t, err)
	b, ok := a.Baseline(key)
	require.True(t, ok, "missing key %s", key)
	return b
}

func TestJob_FillsDistrictsFromStateBaseline(t *testing.T) {
	path := writeAverages(t, seedAverages)
	src := &fakeSource{
		states: []string{"Kerala"},
		districts: map[string][]string{
			"Kerala": {"Ernakulam", "Idukki", "Wayanad"},
		},
	}
	metrics := observability.NewMetricsForTesting()

	res, err := NewJob(path, src, discardLogger(), metrics).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Result{StatesSeen: 1, DistrictsSeen: 3, DistrictsAdded: 2, TotalEntries: 4}, res)

	kerala := domain.Baseline{Temperature: 27.5, Humidity: 80, Rainfall: 3000}
	assert.Equal(t, kerala, baselineOf(t, path, "IDUKKI"))
	assert.Equal(t, kerala, baselineOf(t, path, "WAYANAD"))
	// Pre-existing district entry is untouched.
	assert.Equal(t, domain.Baseline{Temperature: 28.1, Humidity: 82, Rainfall: 3200}, baselineOf(t, path, "ERNAKULAM"))

	assert.InDelta(t, 2, testutil.ToFloat64(metrics.DistrictsAdded), 0)
}

func TestJob_MissingStateUsesFallback(t *testing.T) {
	path := writeAverages(t, seedAverages)
	src := &fakeSource{
		states:    []string{"Sikkim"},
		districts: map[string][]string{"Sikkim": {"Gangtok"}},
	}

	_, err := NewJob(path, src, discardLogger(), observability.NewMetricsForTesting()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.FallbackBaseline, baselineOf(t, path, "GANGTOK"))
}

func TestJob_IsIdempotent(t *testing.T) {
	path := writeAverages(t, seedAverages)
	src := &fakeSource{
		states:    []string{"Kerala", "Goa"},
		districts: map[string][]string{"Kerala": {"Idukki"}, "Goa": {"North Goa"}},
	}
	job := NewJob(path, src, discardLogger(), observability.NewMetricsForTesting())

	_, err := job.Run(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	res, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.DistrictsAdded)
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	// Change the state baseline; districts added by the first run must not follow it.
	a, err := store.LoadAverages(path)
	require.NoError(t, err)
	require.True(t, a.AddIfAbsent("GOA", domain.Baseline{Temperature: 30}))
	require.NoError(t, store.SaveAverages(path, a))

	res, err = job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.DistrictsAdded)
	assert.Equal(t, domain.FallbackBaseline, baselineOf(t, path, "NORTH GOA"))
	assert.Equal(t, domain.Baseline{Temperature: 27.5, Humidity: 80, Rainfall: 3000}, baselineOf(t, path, "IDUKKI"))
}

func TestJob_MissingStateKeyStaysAbsent(t *testing.T) {
	path := writeAverages(t, seedAverages)
	src := &fakeSource{
		states:    []string{"Kerala", "Goa"},
		districts: map[string][]string{"Goa": {"North Goa"}},
	}

	_, err := NewJob(path, src, discardLogger(), observability.NewMetricsForTesting()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.FallbackBaseline, baselineOf(t, path, "NORTH GOA"))
	a, err := store.LoadAverages(path)
	require.NoError(t, err)
	assert.False(t, a.Has("GOA"), "state keys are never written")
	assert.Equal(t, []string{"ERNAKULAM", "KERALA", "NORTH GOA"}, a.Keys())
}

func TestJob_CopiesWholeStateEntry(t *testing.T) {
	path := writeAverages(t, `{"KERALA": {"temperature": 27.5, "humidity": 80, "rainfall": 3000, "source": "imd"}}`)
	src := &fakeSource{
		states:    []string{"Kerala"},
		districts: map[string][]string{"Kerala": {"Idukki"}},
	}

	_, err := NewJob(path, src, discardLogger(), observability.NewMetricsForTesting()).Run(context.Background())
	require.NoError(t, err)

	a, err := store.LoadAverages(path)
	require.NoError(t, err)
	raw, ok := a.Entry("IDUKKI")
	require.True(t, ok)
	assert.JSONEq(t, `{"temperature": 27.5, "humidity": 80, "rainfall": 3000, "source": "imd"}`, string(raw))
}

func TestJob_KeysKeepSurroundingWhitespace(t *testing.T) {
	path := writeAverages(t, seedAverages)
	src := &fakeSource{
		states:    []string{"Kerala"},
		districts: map[string][]string{"Kerala": {"Idukki", " Idukki"}},
	}

	res, err := NewJob(path, src, discardLogger(), observability.NewMetricsForTesting()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.DistrictsAdded)

	a, err := store.LoadAverages(path)
	require.NoError(t, err)
	assert.True(t, a.Has("IDUKKI"))
	assert.True(t, a.Has(" IDUKKI"))
}

func TestJob_UnsuccessfulDistrictsAreSkipped(t *testing.T) {
	path := writeAverages(t, seedAverages)
	src := &fakeSource{
		states:       []string{"Goa", "Kerala"},
		districts:    map[string][]string{"Kerala": {"Idukki"}},
		districtErrs: map[string]error{"Goa": fmt.Errorf("%w: status 404", locationapi.ErrUnsuccessful)},
	}

	res, err := NewJob(path, src, discardLogger(), observability.NewMetricsForTesting()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.StatesFailed)
	assert.Equal(t, 1, res.DistrictsAdded)
}

func TestJob_HardFailureLeavesFileUntouched(t *testing.T) {
	cases := map[string]*fakeSource{
		"states fail": {statesErr: errors.New("dial tcp: connection refused")},
		"districts fail": {
			states:       []string{"Kerala", "Goa"},
			districts:    map[string][]string{"Kerala": {"Idukki"}},
			districtErrs: map[string]error{"Goa": errors.New("decode districts response: unexpected EOF")},
		},
	}

	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeAverages(t, seedAverages)

			_, err := NewJob(path, src, discardLogger(), observability.NewMetricsForTesting()).Run(context.Background())
			require.Error(t, err)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, seedAverages, string(data))
		})
	}
}

func TestJob_MissingStoreAborts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")
	src := &fakeSource{states: []string{"Kerala"}}

	_, err := NewJob(path, src, discardLogger(), observability.NewMetricsForTesting()).Run(context.Background())
	require.ErrorIs(t, err, store.ErrNotFound)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file should be created")
}

func TestFill_DistrictsOutsideHierarchyUnchanged(t *testing.T) {
	a := store.NewAverages()
	a.AddIfAbsent("PUNE", domain.Baseline{Temperature: 24, Humidity: 60, Rainfall: 700})
	src := &fakeSource{districts: map[string][]string{"Kerala": {"Idukki"}}}

	res, err := Fill(context.Background(), a, regions([]string{"Kerala"}), src, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalEntries)

	b, ok := a.Baseline("PUNE")
	require.True(t, ok)
	assert.Equal(t, domain.Baseline{Temperature: 24, Humidity: 60, Rainfall: 700}, b)
}

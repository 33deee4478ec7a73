package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agropredict/agropredict/internal/domain"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAverages_Missing(t *testing.T) {
	_, err := LoadAverages(filepath.Join(t.TempDir(), "absent.json"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoadAverages_Corrupt(t *testing.T) {
	path := writeTestFile(t, "averages.json", `{"KERALA":`)
	_, err := LoadAverages(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestAverages_LookupIsCaseInsensitive(t *testing.T) {
	path := writeTestFile(t, "averages.json", `{"KERALA":{"temperature":27.5,"humidity":80,"rainfall":3000}}`)

	a, err := LoadAverages(path)
	require.NoError(t, err)

	b, ok := a.Lookup("kerala")
	require.True(t, ok)
	assert.Equal(t, domain.Baseline{Temperature: 27.5, Humidity: 80, Rainfall: 3000}, b)

	_, ok = a.Lookup("goa")
	assert.False(t, ok)
}

func TestAverages_AddIfAbsentNeverOverwrites(t *testing.T) {
	a := NewAverages()

	assert.True(t, a.AddIfAbsent("PUNE", domain.Baseline{Temperature: 24}))
	assert.False(t, a.AddIfAbsent("PUNE", domain.Baseline{Temperature: 99}))

	b, ok := a.Baseline("PUNE")
	require.True(t, ok)
	assert.InDelta(t, 24.0, b.Temperature, 0)
	assert.Equal(t, 1, a.Len())
}

func TestAverages_AddEntryIfAbsentCopiesRaw(t *testing.T) {
	a := NewAverages()
	raw := []byte(`{"temperature":28,"source":"imd"}`)

	assert.True(t, a.AddEntryIfAbsent("GOA", raw))
	raw[2] = 'X'
	assert.False(t, a.AddEntryIfAbsent("GOA", []byte(`{}`)))

	got, ok := a.Entry("GOA")
	require.True(t, ok)
	assert.JSONEq(t, `{"temperature":28,"source":"imd"}`, string(got))

	_, ok = a.Entry("PUNE")
	assert.False(t, ok)
}

func TestAverages_SaveKeepsExistingEntriesVerbatim(t *testing.T) {
	original := `{"GOA":{"temperature":28,"humidity":78,"rainfall":2900,"source":"imd"}}`
	path := writeTestFile(t, "averages.json", original)

	a, err := LoadAverages(path)
	require.NoError(t, err)
	a.AddIfAbsent("NORTH GOA", domain.Baseline{Temperature: 28, Humidity: 78, Rainfall: 2900})
	require.NoError(t, SaveAverages(path, a))

	reloaded, err := LoadAverages(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"GOA", "NORTH GOA"}, reloaded.Keys())
	assert.JSONEq(t, `{"temperature":28,"humidity":78,"rainfall":2900,"source":"imd"}`, string(reloaded.entries["GOA"]))
}

func TestAverages_UndecodableEntryCountsAsPresent(t *testing.T) {
	path := writeTestFile(t, "averages.json", `{"ODD":"not-a-baseline"}`)

	a, err := LoadAverages(path)
	require.NoError(t, err)

	assert.True(t, a.Has("ODD"))
	_, ok := a.Baseline("ODD")
	assert.False(t, ok)
	assert.False(t, a.AddIfAbsent("ODD", domain.FallbackBaseline))
}

func TestWriteFileAtomic_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "file.json")

	require.NoError(t, WriteFileAtomic(path, []byte(`{}`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

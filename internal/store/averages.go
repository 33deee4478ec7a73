package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/agropredict/agropredict/internal/domain"
)

// Averages maps region keys to climate baselines. Entries read from disk keep
// their original JSON so rewriting the file never alters them.
type Averages struct {
	entries map[string]json.RawMessage
}

// NewAverages returns an empty store.
func NewAverages() *Averages {
	return &Averages{entries: make(map[string]json.RawMessage)}
}

// LoadAverages reads the weather-averages file. A missing file yields ErrNotFound.
func LoadAverages(path string) (*Averages, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	a := NewAverages()
	if err := json.Unmarshal(data, &a.entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if a.entries == nil {
		a.entries = make(map[string]json.RawMessage)
	}
	return a, nil
}

// SaveAverages atomically writes the store as an indented JSON object.
func SaveAverages(path string, a *Averages) error {
	return writeJSONAtomic(path, a.entries)
}

// Len returns the number of regions.
func (a *Averages) Len() int {
	return len(a.entries)
}

// Has reports whether key has an entry of any shape.
func (a *Averages) Has(key string) bool {
	_, ok := a.entries[key]
	return ok
}

// Baseline returns the baseline stored under key. Entries that do not decode
// as a baseline are reported as absent.
func (a *Averages) Baseline(key string) (domain.Baseline, bool) {
	raw, ok := a.entries[key]
	if !ok {
		return domain.Baseline{}, false
	}
	var b domain.Baseline
	if err := json.Unmarshal(raw, &b); err != nil {
		return domain.Baseline{}, false
	}
	return b, true
}

// Lookup finds the baseline for a region name, case-insensitively.
func (a *Averages) Lookup(region string) (domain.Baseline, bool) {
	return a.Baseline(domain.RegionKey(region))
}

// Entry returns the JSON stored under key exactly as it was read or added.
func (a *Averages) Entry(key string) (json.RawMessage, bool) {
	raw, ok := a.entries[key]
	return raw, ok
}

// AddIfAbsent stores b under key unless an entry already exists.
// It reports whether the entry was added.
func (a *Averages) AddIfAbsent(key string, b domain.Baseline) bool {
	raw, _ := json.Marshal(b)
	return a.AddEntryIfAbsent(key, raw)
}

// AddEntryIfAbsent stores a copy of raw under key unless an entry already
// exists. It reports whether the entry was added.
func (a *Averages) AddEntryIfAbsent(key string, raw json.RawMessage) bool {
	if a.Has(key) {
		return false
	}
	a.entries[key] = bytes.Clone(raw)
	return true
}

// Keys returns all region keys in sorted order.
func (a *Averages) Keys() []string {
	keys := make([]string, 0, len(a.entries))
	for k := range a.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

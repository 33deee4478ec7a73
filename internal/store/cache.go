package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/agropredict/agropredict/internal/domain"
)

// StatesEntry is the cached form of a states listing.
type StatesEntry struct {
	Success bool            `json:"success"`
	States  []domain.Region `json:"states"`
}

// DistrictsEntry is the cached form of a district listing.
type DistrictsEntry struct {
	Success   bool            `json:"success"`
	Districts []domain.Region `json:"districts"`
}

// DistrictsCacheKey is the synthetic cache key for a state's districts.
func DistrictsCacheKey(state string) string {
	return "/api/districts/" + state
}

// LocationCache maps request keys to raw response envelopes. Entries are added
// or overwritten, never removed. It is safe for concurrent use.
type LocationCache struct {
	mu      sync.RWMutex
	entries map[string]json.RawMessage
}

// NewLocationCache returns an empty cache.
func NewLocationCache() *LocationCache {
	return &LocationCache{entries: make(map[string]json.RawMessage)}
}

// LoadLocationCache reads the cache file. A missing file yields ErrNotFound and
// a corrupt one a decode error; in both cases an empty, usable cache is returned
// alongside the error.
func LoadLocationCache(path string) (*LocationCache, error) {
	c := NewLocationCache()
	data, err := readFile(path)
	if err != nil {
		return c, err
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return c, fmt.Errorf("decode %s: %w", path, err)
	}
	for k, v := range entries {
		c.entries[k] = v
	}
	return c, nil
}

// OpenLocationCache is LoadLocationCache for callers that start empty when the
// file is missing; other errors are returned.
func OpenLocationCache(path string) (*LocationCache, error) {
	c, err := LoadLocationCache(path)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return c, nil
}

// Save atomically writes the cache to path.
func (c *LocationCache) Save(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return writeJSONAtomic(path, c.entries)
}

// Get returns the raw entry for key.
func (c *LocationCache) Get(key string) (json.RawMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// GetInto decodes the entry for key into v. It reports false on a miss or
// when the entry does not decode.
func (c *LocationCache) GetInto(key string, v any) bool {
	raw, ok := c.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// Put marshals v and stores it under key, replacing any previous entry.
func (c *LocationCache) Put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache entry %q: %w", key, err)
	}
	c.mu.Lock()
	c.entries[key] = raw
	c.mu.Unlock()
	return nil
}

// Len returns the number of entries.
func (c *LocationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns all keys in sorted order.
func (c *LocationCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

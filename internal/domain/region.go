package domain

import (
	"context"
	"encoding/json"
	"strings"
)

// Baseline is the climate triple associated with a region.
type Baseline struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
}

// FallbackBaseline seeds districts whose parent state has no baseline.
var FallbackBaseline = Baseline{Temperature: 25.0, Humidity: 60.0, Rainfall: 1000.0}

// RegionKey normalizes a state or district name into a baseline store key.
// Only case is folded; surrounding whitespace is part of the key.
func RegionKey(name string) string {
	return strings.ToUpper(name)
}

// Region is a state or district as returned by the location API.
// Raw retains the original item so it can be cached verbatim.
type Region struct {
	Name string
	Raw  json.RawMessage
}

// NewRegion builds a Region that serializes as {"name": name}.
func NewRegion(name string) Region {
	raw, _ := json.Marshal(struct {
		Name string `json:"name"`
	}{name})
	return Region{Name: name, Raw: raw}
}

// UnmarshalJSON reads the name and keeps the whole item in Raw.
func (r *Region) UnmarshalJSON(data []byte) error {
	var v struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.Name = v.Name
	r.Raw = append(r.Raw[:0], data...)
	return nil
}

// MarshalJSON writes Raw unchanged when set, otherwise {"name": Name}.
func (r Region) MarshalJSON() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	return json.Marshal(struct {
		Name string `json:"name"`
	}{r.Name})
}

// LocationSource provides the two-level state/district hierarchy.
type LocationSource interface {
	// States lists every state.
	States(ctx context.Context) ([]Region, error)

	// Districts lists the districts of the named state.
	Districts(ctx context.Context, state string) ([]Region, error)
}

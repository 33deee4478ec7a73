package forest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Encode writes f to w as zstd-compressed JSON.
func (f *Forest) Encode(w io.Writer) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(f); err != nil {
		_ = enc.Close()
		return fmt.Errorf("encode forest: %w", err)
	}
	return enc.Close()
}

// MarshalBinary returns the Encode representation of f.
func (f *Forest) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a forest written by Encode and checks its structure.
func Decode(r io.Reader) (*Forest, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer dec.Close()

	var f Forest
	if err := json.NewDecoder(dec).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode forest: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Forest) validate() error {
	if len(f.Trees) == 0 {
		return errors.New("forest has no trees")
	}
	if len(f.Classes) == 0 {
		return errors.New("forest has no classes")
	}
	for ti, t := range f.Trees {
		if len(t.Nodes) == 0 {
			return fmt.Errorf("tree %d is empty", ti)
		}
		for ni, n := range t.Nodes {
			if n.Feature == leafFeature {
				if len(n.Classes) != len(n.Weights) {
					return fmt.Errorf("tree %d node %d: class and weight counts differ", ti, ni)
				}
				for _, c := range n.Classes {
					if c < 0 || c >= len(f.Classes) {
						return fmt.Errorf("tree %d node %d: class %d out of range", ti, ni, c)
					}
				}
				continue
			}
			if n.Feature < 0 || n.Feature >= len(f.Features) {
				return fmt.Errorf("tree %d node %d: feature %d out of range", ti, ni, n.Feature)
			}
			// Children always follow their parent, which rules out cycles.
			if n.Left <= ni || n.Right <= ni || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
				return fmt.Errorf("tree %d node %d: invalid children", ti, ni)
			}
		}
	}
	return nil
}

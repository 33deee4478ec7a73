package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/agropredict/agropredict/internal/domain"
	"github.com/agropredict/agropredict/internal/store"
)

const labelColumn = "label"

// Header returns the CSV header row.
func Header() []string {
	h := make([]string, 0, domain.NumFeatures+1)
	h = append(h, domain.FeatureNames[:]...)
	return append(h, labelColumn)
}

// WriteCSV writes samples with a header row. Floats use the shortest
// representation that round-trips exactly.
func WriteCSV(w io.Writer, samples []domain.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, domain.NumFeatures+1)
	for _, s := range samples {
		for i, v := range s.Features {
			row[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		row[domain.NumFeatures] = s.Label
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV atomically writes samples to path, creating parent directories.
func SaveCSV(path string, samples []domain.Sample) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, samples); err != nil {
		return err
	}
	return store.WriteFileAtomic(path, buf.Bytes())
}

// ReadCSV parses a dataset written by WriteCSV. The header must match exactly.
func ReadCSV(r io.Reader) ([]domain.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = domain.NumFeatures + 1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, want := range Header() {
		if header[i] != want {
			return nil, fmt.Errorf("header column %d is %q, want %q", i, header[i], want)
		}
	}

	var samples []domain.Sample
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		var s domain.Sample
		for i := range domain.NumFeatures {
			v, err := strconv.ParseFloat(rec[i], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, domain.FeatureNames[i], err)
			}
			s.Features[i] = v
		}
		s.Label = rec[domain.NumFeatures]
		samples = append(samples, s)
	}
	return samples, nil
}

// LoadCSV reads a dataset file from path.
func LoadCSV(path string) ([]domain.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

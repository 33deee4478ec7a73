// Command validate checks the on-disk artifacts the service and jobs depend on:
// the crop parameter table, the generated dataset, the trained model, the
// weather-averages store, and the location cache. Missing optional files are
// reported and skipped.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -dataset data/crop_recommendation.csv \
//	  -model models/random_forest.json.zst \
//	  -averages weather_averages.json \
//	  -cache location_cache.json
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/agropredict/agropredict/internal/config"
	"github.com/agropredict/agropredict/internal/dataset"
	"github.com/agropredict/agropredict/internal/domain"
	"github.com/agropredict/agropredict/internal/forest"
	"github.com/agropredict/agropredict/internal/store"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name    string
	skipped string
	errors  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	datasetPath := flag.String("dataset", cfg.DatasetPath, "generated dataset CSV")
	modelPath := flag.String("model", cfg.ModelPath, "trained model artifact")
	averagesPath := flag.String("averages", cfg.WeatherAveragesFile, "weather averages JSON")
	cachePath := flag.String("cache", cfg.LocationCacheFile, "location cache JSON")
	flag.Parse()

	os.Exit(run(*datasetPath, *modelPath, *averagesPath, *cachePath))
}

func run(datasetPath, modelPath, averagesPath, cachePath string) int {
	fmt.Println("=== AgroPredict Artifact Validation ===")
	fmt.Println()

	ranges := domain.CropRanges()
	samples, datasetErr := dataset.LoadCSV(datasetPath)

	phases := []*phase{
		validateCropTable(ranges),
		validateDataset(samples, datasetErr, ranges),
		validateModel(modelPath, samples, ranges),
		validateAverages(averagesPath),
		validateLocationCache(cachePath),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		switch {
		case p.skipped != "":
			status = "\033[33mSKIP\033[0m (" + p.skipped + ")"
		case !p.passed():
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-32s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validateCropTable(ranges []domain.CropRange) *phase {
	p := &phase{name: "Crop parameter table"}
	if err := domain.ValidateCropRanges(ranges); err != nil {
		p.errorf("%v", err)
	}
	if len(ranges) == 0 {
		p.errorf("crop table is empty")
	}
	return p
}

func validateDataset(samples []domain.Sample, loadErr error, ranges []domain.CropRange) *phase {
	p := &phase{name: "Dataset"}
	if errors.Is(loadErr, os.ErrNotExist) {
		p.skipped = "file not found"
		return p
	}
	if loadErr != nil {
		p.errorf("load: %v", loadErr)
		return p
	}

	byCrop := make(map[string]domain.CropRange, len(ranges))
	for _, cr := range ranges {
		byCrop[cr.Crop] = cr
	}

	counts := make(map[string]int)
	for i, s := range samples {
		cr, ok := byCrop[s.Label]
		if !ok {
			p.errorf("row %d: unknown crop %q", i+2, s.Label)
			continue
		}
		counts[s.Label]++
		for f, v := range s.Features {
			if !cr.Ranges[f].Contains(v) {
				p.errorf("row %d: %s %s=%g outside [%g, %g]", i+2, s.Label, domain.FeatureNames[f], v, cr.Ranges[f].Min, cr.Ranges[f].Max)
			}
		}
	}

	want := -1
	for _, cr := range ranges {
		n := counts[cr.Crop]
		if n == 0 {
			p.errorf("crop %q has no samples", cr.Crop)
			continue
		}
		if want < 0 {
			want = n
		} else if n != want {
			p.errorf("crop %q has %d samples, expected %d", cr.Crop, n, want)
		}
	}
	return p
}

func validateModel(path string, samples []domain.Sample, ranges []domain.CropRange) *phase {
	p := &phase{name: "Model"}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		p.skipped = "file not found"
		return p
	}
	if err != nil {
		p.errorf("open: %v", err)
		return p
	}
	defer f.Close()

	model, err := forest.Decode(f)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	if !slices.Equal(model.Features, domain.FeatureNames[:]) {
		p.errorf("feature columns %v, want %v", model.Features, domain.FeatureNames)
	}

	crops := make([]string, len(ranges))
	for i, cr := range ranges {
		crops[i] = cr.Crop
	}
	slices.Sort(crops)
	if !slices.Equal(model.Classes, crops) {
		p.errorf("model classes differ from crop table: %s", strings.Join(model.Classes, ","))
	}

	if len(samples) > 0 {
		X, labels := dataset.Matrix(samples)
		fmt.Printf("  model accuracy on dataset: %.4f (%d trees)\n", model.Score(X, labels), len(model.Trees))
	}
	return p
}

func validateAverages(path string) *phase {
	p := &phase{name: "Weather averages"}
	averages, err := store.LoadAverages(path)
	if errors.Is(err, store.ErrNotFound) {
		p.skipped = "file not found"
		return p
	}
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	for _, key := range averages.Keys() {
		if key != domain.RegionKey(key) {
			p.errorf("key %q is not normalized", key)
		}
		if _, ok := averages.Baseline(key); !ok {
			p.errorf("entry %q is not a baseline", key)
		}
	}
	return p
}

func validateLocationCache(path string) *phase {
	p := &phase{name: "Location cache"}
	cache, err := store.LoadLocationCache(path)
	if errors.Is(err, store.ErrNotFound) {
		p.skipped = "file not found"
		return p
	}
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	for _, key := range cache.Keys() {
		if strings.HasPrefix(key, store.DistrictsCacheKey("")) {
			var e store.DistrictsEntry
			if !cache.GetInto(key, &e) || !e.Success {
				p.errorf("entry %q is not a successful districts envelope", key)
			}
			continue
		}
		var e store.StatesEntry
		if !cache.GetInto(key, &e) || !e.Success {
			p.errorf("entry %q is not a successful states envelope", key)
		}
	}
	return p
}

// Package dataset generates, shuffles, splits, and serializes the synthetic
// crop recommendation dataset.
package dataset

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/agropredict/agropredict/internal/domain"
)

// PRNG streams derived from the master seed. Each step draws from its own
// stream so changing one step never perturbs the others.
const (
	streamGenerate uint64 = iota
	streamShuffle
	streamSplit
)

// Generate draws perCrop samples for every crop in ranges, in table order.
// Each feature is uniform within the crop's declared interval.
func Generate(ranges []domain.CropRange, perCrop int, seed uint64) ([]domain.Sample, error) {
	if perCrop <= 0 {
		return nil, fmt.Errorf("samples per crop must be positive, got %d", perCrop)
	}
	if err := domain.ValidateCropRanges(ranges); err != nil {
		return nil, err
	}

	r := rand.New(rand.NewPCG(seed, streamGenerate))
	samples := make([]domain.Sample, 0, len(ranges)*perCrop)
	for _, cr := range ranges {
		for range perCrop {
			s := domain.Sample{Label: cr.Crop}
			for i, rg := range cr.Ranges {
				s.Features[i] = uniform(r, rg)
			}
			samples = append(samples, s)
		}
	}
	return samples, nil
}

func uniform(r *rand.Rand, rg domain.Range) float64 {
	return rg.Min + r.Float64()*(rg.Max-rg.Min)
}

// Shuffle permutes samples in place, deterministically for a given seed.
func Shuffle(samples []domain.Sample, seed uint64) {
	r := rand.New(rand.NewPCG(seed, streamShuffle))
	r.Shuffle(len(samples), func(i, j int) {
		samples[i], samples[j] = samples[j], samples[i]
	})
}

// Split shuffles indices with seed and returns the test and train partitions.
// The test set holds ceil(len*testFraction) samples.
func Split(samples []domain.Sample, testFraction float64, seed uint64) (train, test []domain.Sample, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be in (0, 1), got %g", testFraction)
	}
	n := len(samples)
	nTest := ceilFraction(n, testFraction)
	if nTest == 0 || nTest >= n {
		return nil, nil, errors.New("not enough samples to split")
	}

	r := rand.New(rand.NewPCG(seed, streamSplit))
	perm := r.Perm(n)

	test = make([]domain.Sample, 0, nTest)
	train = make([]domain.Sample, 0, n-nTest)
	for i, idx := range perm {
		if i < nTest {
			test = append(test, samples[idx])
		} else {
			train = append(train, samples[idx])
		}
	}
	return train, test, nil
}

func ceilFraction(n int, f float64) int {
	v := float64(n) * f
	k := int(v)
	if float64(k) < v {
		k++
	}
	return k
}

// Matrix returns the feature rows and labels of samples as fit and score expect them.
func Matrix(samples []domain.Sample) ([][]float64, []string) {
	X := make([][]float64, len(samples))
	labels := make([]string, len(samples))
	for i := range samples {
		X[i] = samples[i].Features[:]
		labels[i] = samples[i].Label
	}
	return X, labels
}

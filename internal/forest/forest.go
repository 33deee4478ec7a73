// Package forest implements a random forest classifier of CART trees grown on
// bootstrap samples with Gini impurity, matching the behaviour of a classic
// random forest: each split considers a random subset of sqrt(features)
// features and class probabilities are averaged across trees.
package forest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Config controls forest training.
type Config struct {
	Trees           int
	MaxDepth        int
	MaxFeatures     int // 0 selects floor(sqrt(features))
	MinSamplesSplit int // 0 selects 2
	Seed            uint64
}

// Forest is a trained classifier. It is immutable after Fit and safe for concurrent use.
type Forest struct {
	Features []string `json:"features"`
	Classes  []string `json:"classes"`
	Trees    []Tree   `json:"trees"`
}

// Fit trains a forest on rows of X labeled by labels. featureNames names the
// columns of X and is kept with the model. Trees are grown concurrently, each
// from its own seed derived from cfg.Seed, so results do not depend on scheduling.
func Fit(ctx context.Context, X [][]float64, labels []string, featureNames []string, cfg Config) (*Forest, error) {
	if len(X) == 0 {
		return nil, errors.New("no training rows")
	}
	if len(X) != len(labels) {
		return nil, fmt.Errorf("rows (%d) and labels (%d) differ", len(X), len(labels))
	}
	width := len(featureNames)
	for i, row := range X {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), width)
		}
	}
	if cfg.Trees <= 0 || cfg.MaxDepth <= 0 {
		return nil, fmt.Errorf("invalid forest config: trees=%d max_depth=%d", cfg.Trees, cfg.MaxDepth)
	}

	classes, y := encodeLabels(labels)
	p := treeParams{
		maxDepth:        cfg.MaxDepth,
		maxFeatures:     cfg.MaxFeatures,
		minSamplesSplit: cfg.MinSamplesSplit,
		numClasses:      len(classes),
	}
	if p.maxFeatures <= 0 {
		p.maxFeatures = max(1, int(math.Sqrt(float64(width))))
	}
	p.maxFeatures = min(p.maxFeatures, width)
	if p.minSamplesSplit < 2 {
		p.minSamplesSplit = 2
	}

	f := &Forest{
		Features: append([]string(nil), featureNames...),
		Classes:  classes,
		Trees:    make([]Tree, cfg.Trees),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range f.Trees {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f.Trees[i] = growTree(X, y, p, cfg.Seed, uint64(i))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return f, nil
}

// PredictProba returns the class probabilities for x, averaged over all trees,
// in Classes order.
func (f *Forest) PredictProba(x []float64) []float64 {
	probs := make([]float64, len(f.Classes))
	for i := range f.Trees {
		leaf := f.Trees[i].leaf(x)
		for k, c := range leaf.Classes {
			probs[c] += leaf.Weights[k]
		}
	}
	n := float64(len(f.Trees))
	for i := range probs {
		probs[i] /= n
	}
	return probs
}

// Predict returns the most probable class and its probability.
// Ties resolve to the class that sorts first.
func (f *Forest) Predict(x []float64) (string, float64) {
	probs := f.PredictProba(x)
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return f.Classes[best], probs[best]
}

// Score returns the fraction of rows whose predicted class equals the label.
func (f *Forest) Score(X [][]float64, labels []string) float64 {
	if len(X) == 0 {
		return 0
	}
	correct := 0
	for i, row := range X {
		if label, _ := f.Predict(row); label == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(X))
}

// encodeLabels maps labels to indices into the sorted set of distinct labels.
func encodeLabels(labels []string) ([]string, []int) {
	index := make(map[string]int)
	for _, l := range labels {
		index[l] = 0
	}
	classes := make([]string, 0, len(index))
	for l := range index {
		classes = append(classes, l)
	}
	sort.Strings(classes)
	for i, c := range classes {
		index[c] = i
	}
	y := make([]int, len(labels))
	for i, l := range labels {
		y[i] = index[l]
	}
	return classes, y
}

package forest

import (
	"math/rand/v2"
	"sort"
)

// Tree is a binary decision tree stored as a flat node slice; node 0 is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is either a split (Feature >= 0) or a leaf holding a sparse class distribution.
type Node struct {
	Feature   int       `json:"f"`
	Threshold float64   `json:"t,omitempty"`
	Left      int       `json:"l,omitempty"`
	Right     int       `json:"r,omitempty"`
	Classes   []int     `json:"c,omitempty"`
	Weights   []float64 `json:"w,omitempty"`
}

const leafFeature = -1

func (t *Tree) leaf(x []float64) *Node {
	n := &t.Nodes[0]
	for n.Feature != leafFeature {
		if x[n.Feature] <= n.Threshold {
			n = &t.Nodes[n.Left]
		} else {
			n = &t.Nodes[n.Right]
		}
	}
	return n
}

// Depth returns the length of the longest root-to-leaf path, counting edges.
func (t *Tree) Depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		n := t.Nodes[i]
		if n.Feature == leafFeature {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	return walk(0)
}

type treeParams struct {
	maxDepth        int
	maxFeatures     int
	minSamplesSplit int
	numClasses      int
}

type builder struct {
	X     [][]float64
	y     []int
	p     treeParams
	rng   *rand.Rand
	nodes []Node
}

// growTree fits one tree on a bootstrap sample drawn with a PRNG seeded by (seed, stream).
func growTree(X [][]float64, y []int, p treeParams, seed, stream uint64) Tree {
	b := &builder{
		X:   X,
		y:   y,
		p:   p,
		rng: rand.New(rand.NewPCG(seed, stream)),
	}

	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = b.rng.IntN(len(X))
	}

	b.build(idx, 0)
	return Tree{Nodes: b.nodes}
}

// build appends the subtree for idx and returns its node index.
func (b *builder) build(idx []int, depth int) int {
	counts := b.classCounts(idx)
	self := len(b.nodes)
	b.nodes = append(b.nodes, Node{Feature: leafFeature})

	if depth >= b.p.maxDepth || len(idx) < b.p.minSamplesSplit || isPure(counts) {
		b.makeLeaf(self, counts, len(idx))
		return self
	}

	feature, threshold, ok := b.bestSplit(idx, counts)
	if !ok {
		b.makeLeaf(self, counts, len(idx))
		return self
	}

	// Partition idx in place: rows going left first.
	cut := 0
	for i, r := range idx {
		if b.X[r][feature] <= threshold {
			idx[i], idx[cut] = idx[cut], idx[i]
			cut++
		}
	}

	left := b.build(idx[:cut], depth+1)
	right := b.build(idx[cut:], depth+1)
	b.nodes[self] = Node{Feature: feature, Threshold: threshold, Left: left, Right: right}
	return self
}

func (b *builder) makeLeaf(at int, counts []int, n int) {
	leaf := Node{Feature: leafFeature}
	for c, k := range counts {
		if k > 0 {
			leaf.Classes = append(leaf.Classes, c)
			leaf.Weights = append(leaf.Weights, float64(k)/float64(n))
		}
	}
	b.nodes[at] = leaf
}

func (b *builder) classCounts(idx []int) []int {
	counts := make([]int, b.p.numClasses)
	for _, r := range idx {
		counts[b.y[r]]++
	}
	return counts
}

// bestSplit evaluates at least maxFeatures randomly ordered features, continuing
// past that only while no valid split has been found. It returns the split with
// the lowest weighted Gini impurity.
func (b *builder) bestSplit(idx []int, parent []int) (int, float64, bool) {
	n := len(idx)
	order := b.rng.Perm(len(b.X[0]))
	sorted := make([]int, n)
	left := make([]int, b.p.numClasses)
	right := make([]int, b.p.numClasses)

	bestFeature, bestThreshold, bestScore := -1, 0.0, 0.0

	for tried, f := range order {
		if tried >= b.p.maxFeatures && bestFeature >= 0 {
			break
		}

		copy(sorted, idx)
		sort.SliceStable(sorted, func(i, j int) bool { return b.X[sorted[i]][f] < b.X[sorted[j]][f] })

		clear(left)
		copy(right, parent)
		var leftSq, rightSq float64
		for _, k := range right {
			rightSq += float64(k * k)
		}

		for i := 0; i < n-1; i++ {
			c := b.y[sorted[i]]
			// Update sums of squared counts incrementally: (k+1)^2 - k^2 = 2k+1.
			leftSq += float64(2*left[c] + 1)
			rightSq -= float64(2*right[c] - 1)
			left[c]++
			right[c]--

			lo, hi := b.X[sorted[i]][f], b.X[sorted[i+1]][f]
			if lo == hi {
				continue
			}

			nl, nr := float64(i+1), float64(n-i-1)
			// Weighted Gini: sum over children of n_child*(1 - sq/n_child^2),
			// minimized by maximizing sq_l/n_l + sq_r/n_r.
			score := leftSq/nl + rightSq/nr
			if bestFeature < 0 || score > bestScore {
				bestFeature = f
				bestThreshold = lo + (hi-lo)/2
				if bestThreshold == hi {
					bestThreshold = lo
				}
				bestScore = score
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, k := range counts {
		if k > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

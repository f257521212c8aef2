package features

import (
	"math"
	"math/rand"
)

// Isolation forest parameters matching the established recipe for this
// dataset: 100 trees, subsample capped at 256 rows.
const (
	isoTreeCount     = 100
	isoMaxSampleSize = 256
)

type isoNode struct {
	attr  int
	split float64
	left  *isoNode
	right *isoNode
	size  int // leaf only
}

type isolationForest struct {
	trees      []*isoNode
	sampleSize int
}

// averagePathLength is the expected path length of an unsuccessful BST search
// over n points, the normalisation constant of the isolation forest score.
func averagePathLength(n int) float64 {
	switch {
	case n > 2:
		h := math.Log(float64(n-1)) + 0.5772156649
		return 2*h - 2*float64(n-1)/float64(n)
	case n == 2:
		return 1
	default:
		return 0
	}
}

func buildIsoTree(data [][]float64, rng *rand.Rand, depth, heightLimit int) *isoNode {
	if depth >= heightLimit || len(data) <= 1 {
		return &isoNode{attr: -1, size: len(data)}
	}

	// Candidate attributes are those with spread in this partition.
	dims := len(data[0])
	candidates := make([]int, 0, dims)
	for a := 0; a < dims; a++ {
		lo, hi := data[0][a], data[0][a]
		for _, row := range data[1:] {
			if row[a] < lo {
				lo = row[a]
			}
			if row[a] > hi {
				hi = row[a]
			}
		}
		if hi > lo {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		return &isoNode{attr: -1, size: len(data)}
	}

	attr := candidates[rng.Intn(len(candidates))]
	lo, hi := data[0][attr], data[0][attr]
	for _, row := range data[1:] {
		if row[attr] < lo {
			lo = row[attr]
		}
		if row[attr] > hi {
			hi = row[attr]
		}
	}
	split := lo + rng.Float64()*(hi-lo)

	var left, right [][]float64
	for _, row := range data {
		if row[attr] < split {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &isoNode{attr: -1, size: len(data)}
	}
	return &isoNode{
		attr:  attr,
		split: split,
		left:  buildIsoTree(left, rng, depth+1, heightLimit),
		right: buildIsoTree(right, rng, depth+1, heightLimit),
	}
}

func (n *isoNode) pathLength(x []float64, depth int) float64 {
	if n.attr < 0 {
		return float64(depth) + averagePathLength(n.size)
	}
	if x[n.attr] < n.split {
		return n.left.pathLength(x, depth+1)
	}
	return n.right.pathLength(x, depth+1)
}

// fitIsolationForest builds the forest over the data with a deterministic
// seed. Each tree sees a subsample without replacement.
func fitIsolationForest(data [][]float64, seed int64) *isolationForest {
	rng := rand.New(rand.NewSource(seed))
	sampleSize := len(data)
	if sampleSize > isoMaxSampleSize {
		sampleSize = isoMaxSampleSize
	}
	heightLimit := int(math.Ceil(math.Log2(math.Max(float64(sampleSize), 2))))

	forest := &isolationForest{sampleSize: sampleSize}
	for i := 0; i < isoTreeCount; i++ {
		perm := rng.Perm(len(data))
		sample := make([][]float64, sampleSize)
		for j := 0; j < sampleSize; j++ {
			sample[j] = data[perm[j]]
		}
		forest.trees = append(forest.trees, buildIsoTree(sample, rng, 0, heightLimit))
	}
	return forest
}

// score returns the anomaly score of x in (0, 1]; higher means more isolated.
func (f *isolationForest) score(x []float64) float64 {
	sum := 0.0
	for _, tree := range f.trees {
		sum += tree.pathLength(x, 0)
	}
	avg := sum / float64(len(f.trees))
	return math.Pow(2, -avg/averagePathLength(f.sampleSize))
}

package model

import (
	"math"
	"math/rand"
)

// RandomForest is a bagging ensemble of decision trees. Each tree fits a
// bootstrap sample and splits on a random sqrt-sized feature subset.
type RandomForest struct {
	NumTrees int             `json:"num_trees"`
	MaxDepth int             `json:"max_depth"`
	MinLeaf  int             `json:"min_leaf"`
	Seed     int64           `json:"seed"`
	Trees    []*DecisionTree `json:"trees"`
}

// NewRandomForest creates an unfitted forest. All randomness in Fit derives
// from seed.
func NewRandomForest(numTrees, maxDepth, minLeaf int, seed int64) *RandomForest {
	return &RandomForest{NumTrees: numTrees, MaxDepth: maxDepth, MinLeaf: minLeaf, Seed: seed}
}

// Fit grows NumTrees trees on bootstrap samples of the matrix.
func (f *RandomForest) Fit(X [][]float64, y []string) {
	rng := rand.New(rand.NewSource(f.Seed))
	f.Trees = make([]*DecisionTree, f.NumTrees)

	for i := range f.Trees {
		bx := make([][]float64, len(X))
		by := make([]string, len(y))
		for j := range bx {
			r := rng.Intn(len(X))
			bx[j] = X[r]
			by[j] = y[r]
		}

		tree := NewDecisionTree(f.MaxDepth, f.MinLeaf)
		tree.sampleFeatures = func(n int) []int {
			k := int(math.Ceil(math.Sqrt(float64(n))))
			return rng.Perm(n)[:k]
		}
		tree.Fit(bx, by)
		tree.sampleFeatures = nil
		f.Trees[i] = tree
	}
}

// Predict takes the majority vote across trees. Ties pick the
// lexicographically smallest label.
func (f *RandomForest) Predict(x []float64) string {
	votes := make(map[string]int)
	for _, tree := range f.Trees {
		votes[tree.Predict(x)]++
	}
	var best string
	bestCount := -1
	for label, c := range votes {
		if c > bestCount || (c == bestCount && label < best) {
			best = label
			bestCount = c
		}
	}
	return best
}

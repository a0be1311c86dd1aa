package model

import "sort"

// treeNode is one node of a fitted decision tree. Leaves carry a label;
// internal nodes route on feature <= threshold.
type treeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
	Leaf      bool      `json:"leaf,omitempty"`
	Label     string    `json:"label,omitempty"`
}

// DecisionTree is a CART classifier with Gini impurity splits.
type DecisionTree struct {
	MaxDepth int       `json:"max_depth"`
	MinLeaf  int       `json:"min_leaf"`
	Root     *treeNode `json:"root"`

	// sampleFeatures, when set, restricts each split to a feature subset.
	// Used by the forest; nil considers every feature.
	sampleFeatures func(n int) []int
}

// NewDecisionTree creates an unfitted tree with the given growth limits.
func NewDecisionTree(maxDepth, minLeaf int) *DecisionTree {
	return &DecisionTree{MaxDepth: maxDepth, MinLeaf: minLeaf}
}

// Fit grows the tree on the given matrix. Fitting is deterministic for a
// fixed input (and a fixed feature sampler).
func (t *DecisionTree) Fit(X [][]float64, y []string) {
	rows := make([]int, len(X))
	for i := range rows {
		rows[i] = i
	}
	t.Root = t.grow(X, y, rows, 0)
}

// Predict routes one feature vector to a leaf label.
func (t *DecisionTree) Predict(x []float64) string {
	n := t.Root
	for n != nil && !n.Leaf {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	if n == nil {
		return ""
	}
	return n.Label
}

func (t *DecisionTree) grow(X [][]float64, y []string, rows []int, depth int) *treeNode {
	if depth >= t.MaxDepth || len(rows) < 2*t.MinLeaf || pure(y, rows) {
		return &treeNode{Leaf: true, Label: majority(y, rows)}
	}

	feat, thr, ok := t.bestSplit(X, y, rows)
	if !ok {
		return &treeNode{Leaf: true, Label: majority(y, rows)}
	}

	var left, right []int
	for _, r := range rows {
		if X[r][feat] <= thr {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	if len(left) < t.MinLeaf || len(right) < t.MinLeaf {
		return &treeNode{Leaf: true, Label: majority(y, rows)}
	}

	return &treeNode{
		Feature:   feat,
		Threshold: thr,
		Left:      t.grow(X, y, left, depth+1),
		Right:     t.grow(X, y, right, depth+1),
	}
}

// bestSplit scans candidate thresholds per feature and keeps the split with
// the lowest weighted Gini impurity. Candidates are midpoints between
// consecutive distinct values.
func (t *DecisionTree) bestSplit(X [][]float64, y []string, rows []int) (int, float64, bool) {
	nFeatures := len(X[rows[0]])
	features := make([]int, nFeatures)
	for i := range features {
		features[i] = i
	}
	if t.sampleFeatures != nil {
		features = t.sampleFeatures(nFeatures)
	}

	bestGini := gini(y, rows)
	var bestFeat int
	var bestThr float64
	found := false

	vals := make([]float64, 0, len(rows))
	for _, feat := range features {
		vals = vals[:0]
		for _, r := range rows {
			vals = append(vals, X[r][feat])
		}
		sort.Float64s(vals)

		for i := 1; i < len(vals); i++ {
			if vals[i] == vals[i-1] {
				continue
			}
			thr := (vals[i] + vals[i-1]) / 2

			var left, right []int
			for _, r := range rows {
				if X[r][feat] <= thr {
					left = append(left, r)
				} else {
					right = append(right, r)
				}
			}
			g := (float64(len(left))*gini(y, left) + float64(len(right))*gini(y, right)) / float64(len(rows))
			if g < bestGini {
				bestGini = g
				bestFeat = feat
				bestThr = thr
				found = true
			}
		}
	}
	return bestFeat, bestThr, found
}

func pure(y []string, rows []int) bool {
	for _, r := range rows[1:] {
		if y[r] != y[rows[0]] {
			return false
		}
	}
	return true
}

func gini(y []string, rows []int) float64 {
	if len(rows) == 0 {
		return 0
	}
	counts := make(map[string]int)
	for _, r := range rows {
		counts[y[r]]++
	}
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(len(rows))
		impurity -= p * p
	}
	return impurity
}

// majority returns the most frequent label among rows. Ties pick the
// lexicographically smallest label so fitting stays deterministic.
func majority(y []string, rows []int) string {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[y[r]]++
	}
	var best string
	bestCount := -1
	for label, c := range counts {
		if c > bestCount || (c == bestCount && label < best) {
			best = label
			bestCount = c
		}
	}
	return best
}

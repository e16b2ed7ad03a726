package classifier

import (
	"math/rand"
	"sort"
)

// TreeNode is one node of a CART regression tree. Leaves carry the mean
// target of their training rows; internal nodes split on feature <=
// threshold. Exported for gob persistence.
type TreeNode struct {
	Left      *TreeNode
	Right     *TreeNode
	Threshold float64
	Value     float64
	Feature   int
	Leaf      bool
}

// treeConfig bundles the growth limits shared by the ensemble classifiers.
type treeConfig struct {
	rng         *rand.Rand
	importances []float64
	maxDepth    int
	minLeaf     int
	// candidates is the number of feature columns considered per split;
	// zero means all of them.
	candidates int
}

// growTree builds a regression tree over the rows named by idx, minimizing
// within-node variance. Impurity decreases are accumulated per feature into
// cfg.importances when present.
func growTree(x [][]float64, y []float64, idx []int, depth int, cfg *treeConfig) *TreeNode {
	mean := meanTarget(y, idx)
	if depth >= cfg.maxDepth || len(idx) < 2*cfg.minLeaf || pure(y, idx) {
		return &TreeNode{Leaf: true, Value: mean}
	}

	feature, threshold, gain, ok := bestSplit(x, y, idx, cfg)
	if !ok {
		return &TreeNode{Leaf: true, Value: mean}
	}
	if cfg.importances != nil {
		cfg.importances[feature] += gain
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      growTree(x, y, left, depth+1, cfg),
		Right:     growTree(x, y, right, depth+1, cfg),
	}
}

// bestSplit scans candidate features for the threshold with the largest
// total squared-error reduction. Returns ok=false when no split separates
// the rows.
func bestSplit(x [][]float64, y []float64, idx []int, cfg *treeConfig) (feature int, threshold, gain float64, ok bool) {
	features := featureCandidates(len(x[0]), cfg)

	parent := sumSquares(y, idx)
	bestGain := 0.0

	order := append([]int(nil), idx...)
	for _, f := range features {
		sort.Slice(order, func(i, j int) bool { return x[order[i]][f] < x[order[j]][f] })

		var leftSum, leftSq float64
		var totalSum, totalSq float64
		for _, i := range order {
			totalSum += y[i]
			totalSq += y[i] * y[i]
		}

		for pos := 0; pos < len(order)-1; pos++ {
			i := order[pos]
			leftSum += y[i]
			leftSq += y[i] * y[i]

			// No split between identical feature values.
			if x[order[pos]][f] == x[order[pos+1]][f] {
				continue
			}
			nLeft := pos + 1
			nRight := len(order) - nLeft
			if nLeft < cfg.minLeaf || nRight < cfg.minLeaf {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/float64(nLeft)) +
				(rightSq - rightSum*rightSum/float64(nRight))
			if g := parent - sse; g > bestGain {
				bestGain = g
				feature = f
				threshold = (x[order[pos]][f] + x[order[pos+1]][f]) / 2
				ok = true
			}
		}
	}

	return feature, threshold, bestGain, ok
}

// featureCandidates picks the columns examined for a split, shuffled and
// truncated when the config asks for a subsample.
func featureCandidates(total int, cfg *treeConfig) []int {
	features := make([]int, total)
	for i := range features {
		features[i] = i
	}
	if cfg.candidates == 0 || cfg.candidates >= total || cfg.rng == nil {
		return features
	}
	cfg.rng.Shuffle(total, func(i, j int) {
		features[i], features[j] = features[j], features[i]
	})
	picked := features[:cfg.candidates]
	sort.Ints(picked)
	return picked
}

// Eval walks the tree for one feature row.
func (n *TreeNode) Eval(row []float64) float64 {
	node := n
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

func meanTarget(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func sumSquares(y []float64, idx []int) float64 {
	var sum, sq float64
	for _, i := range idx {
		sum += y[i]
		sq += y[i] * y[i]
	}
	return sq - sum*sum/float64(len(idx))
}

func pure(y []float64, idx []int) bool {
	for _, i := range idx[1:] {
		if y[i] != y[idx[0]] {
			return false
		}
	}
	return true
}

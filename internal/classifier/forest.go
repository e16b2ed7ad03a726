package classifier

import (
	"math"
	"math/rand"

	"github.com/fraudsight/fraudsight/internal/common"
	"gonum.org/v1/gonum/mat"
)

// Forest is a random forest of CART trees grown on bootstrap samples with
// sqrt(d) feature subsampling. Fields are exported for gob persistence.
type Forest struct {
	Trees       []*TreeNode
	Importances []float64
	NumTrees    int
	MaxDepth    int
	Seed        int64
	Features    int
}

// NewForest creates an unfitted random forest.
func NewForest(trees, maxDepth int, seed int64) *Forest {
	return &Forest{NumTrees: trees, MaxDepth: maxDepth, Seed: seed}
}

// Fit grows the ensemble. Deterministic for a fixed seed.
func (c *Forest) Fit(x *mat.Dense, y []float64) error {
	rows, cols := x.Dims()
	if rows == 0 || rows != len(y) {
		return common.ErrFeatureShape
	}

	data := rawRows(x)
	rng := rand.New(rand.NewSource(c.Seed))
	c.Features = cols
	c.Importances = make([]float64, cols)
	c.Trees = make([]*TreeNode, c.NumTrees)

	candidates := int(math.Ceil(math.Sqrt(float64(cols))))
	for t := 0; t < c.NumTrees; t++ {
		sample := make([]int, rows)
		for i := range sample {
			sample[i] = rng.Intn(rows)
		}
		cfg := &treeConfig{
			maxDepth:    c.MaxDepth,
			minLeaf:     1,
			candidates:  candidates,
			rng:         rng,
			importances: c.Importances,
		}
		c.Trees[t] = growTree(data, y, sample, 0, cfg)
	}

	normalize(c.Importances)
	return nil
}

// Predict returns the majority vote across trees.
func (c *Forest) Predict(x *mat.Dense) []float64 {
	scores := c.Score(x)
	labels := make([]float64, len(scores))
	for i, s := range scores {
		if s >= 0.5 {
			labels[i] = 1
		}
	}
	return labels
}

// Score returns the mean tree vote, a calibrated probability.
func (c *Forest) Score(x *mat.Dense) []float64 {
	rows, _ := x.Dims()
	scores := make([]float64, rows)
	for i := 0; i < rows; i++ {
		row := x.RawRowView(i)
		var sum float64
		for _, tree := range c.Trees {
			sum += tree.Eval(row)
		}
		scores[i] = sum / float64(len(c.Trees))
	}
	return scores
}

// Calibrated reports that forest scores are probabilities.
func (c *Forest) Calibrated() bool { return true }

// NumFeatures returns the fitted feature width.
func (c *Forest) NumFeatures() int { return c.Features }

// FeatureImportances returns the normalized impurity-decrease ranking.
func (c *Forest) FeatureImportances() []float64 {
	return append([]float64(nil), c.Importances...)
}

func rawRows(x *mat.Dense) [][]float64 {
	rows, _ := x.Dims()
	data := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		data[i] = x.RawRowView(i)
	}
	return data
}

func normalize(weights []float64) {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return
	}
	for i := range weights {
		weights[i] /= total
	}
}

package classifier

import (
	"math/rand"

	"github.com/fraudsight/fraudsight/internal/common"
	"gonum.org/v1/gonum/mat"
)

// Boost is a gradient-boosted ensemble of shallow CART trees with a
// hinge-style margin objective: each round fits the residuals of rows whose
// margin is still below 1. Score exposes the raw additive margin, so it is
// NOT a calibrated probability. Fields are exported for gob persistence.
type Boost struct {
	Trees        []*TreeNode
	Importances  []float64
	LearningRate float64
	Rounds       int
	MaxDepth     int
	Seed         int64
	Features     int
}

// NewBoost creates an unfitted boosted ensemble.
func NewBoost(rounds, maxDepth int, learningRate float64, seed int64) *Boost {
	return &Boost{Rounds: rounds, MaxDepth: maxDepth, LearningRate: learningRate, Seed: seed}
}

// Fit grows the additive ensemble. Deterministic for a fixed seed.
func (c *Boost) Fit(x *mat.Dense, y []float64) error {
	rows, cols := x.Dims()
	if rows == 0 || rows != len(y) {
		return common.ErrFeatureShape
	}

	data := rawRows(x)
	rng := rand.New(rand.NewSource(c.Seed))
	c.Features = cols
	c.Importances = make([]float64, cols)
	c.Trees = make([]*TreeNode, 0, c.Rounds)

	// Targets in {-1, +1} for the margin objective.
	signs := make([]float64, rows)
	for i, label := range y {
		if label == 1 {
			signs[i] = 1
		} else {
			signs[i] = -1
		}
	}

	idx := make([]int, rows)
	for i := range idx {
		idx[i] = i
	}

	margins := make([]float64, rows)
	residuals := make([]float64, rows)
	for round := 0; round < c.Rounds; round++ {
		active := false
		for i := range residuals {
			if signs[i]*margins[i] < 1 {
				residuals[i] = signs[i]
				active = true
			} else {
				residuals[i] = 0
			}
		}
		// Every row already has a comfortable margin.
		if !active {
			break
		}

		cfg := &treeConfig{
			maxDepth:    c.MaxDepth,
			minLeaf:     1,
			rng:         rng,
			importances: c.Importances,
		}
		tree := growTree(data, residuals, idx, 0, cfg)
		c.Trees = append(c.Trees, tree)

		for i, row := range data {
			margins[i] += c.LearningRate * tree.Eval(row)
		}
	}

	normalize(c.Importances)
	return nil
}

// Predict thresholds the additive margin at zero.
func (c *Boost) Predict(x *mat.Dense) []float64 {
	scores := c.Score(x)
	labels := make([]float64, len(scores))
	for i, s := range scores {
		if s >= 0 {
			labels[i] = 1
		}
	}
	return labels
}

// Score returns the raw decision margin per row. Rank order is meaningful;
// the values are not probabilities.
func (c *Boost) Score(x *mat.Dense) []float64 {
	rows, _ := x.Dims()
	scores := make([]float64, rows)
	for i := 0; i < rows; i++ {
		row := x.RawRowView(i)
		var margin float64
		for _, tree := range c.Trees {
			margin += c.LearningRate * tree.Eval(row)
		}
		scores[i] = margin
	}
	return scores
}

// Calibrated reports that boost scores are uncalibrated margins.
func (c *Boost) Calibrated() bool { return false }

// NumFeatures returns the fitted feature width.
func (c *Boost) NumFeatures() int { return c.Features }

// FeatureImportances returns the normalized gain-based ranking.
func (c *Boost) FeatureImportances() []float64 {
	return append([]float64(nil), c.Importances...)
}

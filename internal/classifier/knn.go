package classifier

import (
	"math"
	"sort"

	"github.com/fraudsight/fraudsight/internal/common"
	"gonum.org/v1/gonum/mat"
)

// KNN is a k-nearest-neighbors classifier over manhattan distance. Fields
// are exported for gob persistence.
type KNN struct {
	TrainRows   [][]float64
	TrainLabels []float64
	K           int
	Features    int
}

// NewKNN creates an unfitted KNN classifier with the given neighbor count.
func NewKNN(k int) *KNN {
	return &KNN{K: k}
}

// Fit stores the training set; KNN is a lazy learner.
func (c *KNN) Fit(x *mat.Dense, y []float64) error {
	rows, cols := x.Dims()
	if rows == 0 || rows != len(y) {
		return common.ErrFeatureShape
	}
	c.TrainRows = make([][]float64, rows)
	for i := 0; i < rows; i++ {
		c.TrainRows[i] = append([]float64(nil), x.RawRowView(i)...)
	}
	c.TrainLabels = append([]float64(nil), y...)
	c.Features = cols
	return nil
}

// Predict returns the majority vote of the k nearest training rows.
func (c *KNN) Predict(x *mat.Dense) []float64 {
	scores := c.Score(x)
	labels := make([]float64, len(scores))
	for i, s := range scores {
		if s >= 0.5 {
			labels[i] = 1
		}
	}
	return labels
}

// Score returns the fraction of the k nearest neighbors labeled fraud,
// which is a calibrated probability.
func (c *KNN) Score(x *mat.Dense) []float64 {
	rows, _ := x.Dims()
	scores := make([]float64, rows)
	for i := 0; i < rows; i++ {
		scores[i] = c.score(x.RawRowView(i))
	}
	return scores
}

func (c *KNN) score(row []float64) float64 {
	type neighbor struct {
		index    int
		distance float64
	}
	neighbors := make([]neighbor, len(c.TrainRows))
	for i, train := range c.TrainRows {
		var d float64
		for j, v := range train {
			d += math.Abs(row[j] - v)
		}
		neighbors[i] = neighbor{index: i, distance: d}
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].distance != neighbors[j].distance {
			return neighbors[i].distance < neighbors[j].distance
		}
		return neighbors[i].index < neighbors[j].index
	})

	k := c.K
	if k > len(neighbors) {
		k = len(neighbors)
	}
	var fraud float64
	for i := 0; i < k; i++ {
		fraud += c.TrainLabels[neighbors[i].index]
	}
	return fraud / float64(k)
}

// Calibrated reports that KNN scores are probabilities.
func (c *KNN) Calibrated() bool { return true }

// NumFeatures returns the fitted feature width.
func (c *KNN) NumFeatures() int { return c.Features }

// Package metrics computes binary classification quality measures over
// aligned truth/prediction sequences.
package metrics

import (
	"fmt"

	"github.com/fraudsight/fraudsight/internal/common"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// Confusion holds the four confusion-matrix counts for the fraud class.
type Confusion struct {
	TP int
	FP int
	TN int
	FN int
}

// Total returns the number of evaluated rows.
func (c Confusion) Total() int {
	return c.TP + c.FP + c.TN + c.FN
}

// Accuracy returns the fraction of correct predictions.
func (c Confusion) Accuracy() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.TP+c.TN) / float64(total)
}

// ConfusionCounts tallies predictions against ground truth. Both sequences
// must be aligned by row index.
func ConfusionCounts(truth, predicted []float64) (Confusion, error) {
	if len(truth) != len(predicted) {
		return Confusion{}, fmt.Errorf("%w: %d truth rows vs %d predictions",
			common.ErrFeatureShape, len(truth), len(predicted))
	}
	var c Confusion
	for i, t := range truth {
		switch {
		case t == 1 && predicted[i] == 1:
			c.TP++
		case t == 1:
			c.FN++
		case predicted[i] == 1:
			c.FP++
		default:
			c.TN++
		}
	}
	return c, nil
}

// Precision returns TP/(TP+FP), or 0 when nothing was predicted positive.
func (c Confusion) Precision() float64 {
	if c.TP+c.FP == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FP)
}

// Recall returns TP/(TP+FN), or 0 when no positive rows exist.
func (c Confusion) Recall() float64 {
	if c.TP+c.FN == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FN)
}

// F1 returns the harmonic mean of precision and recall.
func (c Confusion) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// ROC is a receiver operating characteristic curve with its area.
type ROC struct {
	FPR []float64
	TPR []float64
	AUC float64
}

// ROCCurve builds the ROC curve for raw scores against {0,1} truth. Scores
// only need a meaningful rank order, not calibration.
func ROCCurve(truth, scores []float64) (ROC, error) {
	if len(truth) != len(scores) {
		return ROC{}, fmt.Errorf("%w: %d truth rows vs %d scores",
			common.ErrFeatureShape, len(truth), len(scores))
	}

	y := append([]float64(nil), scores...)
	classes := make([]bool, len(truth))
	for i, t := range truth {
		classes[i] = t == 1
	}
	stat.SortWeightedLabeled(y, classes, nil)

	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return ROC{
		FPR: fpr,
		TPR: tpr,
		AUC: integrate.Trapezoidal(fpr, tpr),
	}, nil
}

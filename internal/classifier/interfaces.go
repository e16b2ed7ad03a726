// Package classifier implements the fitted predictors behind the model
// registry: k-nearest neighbors, a random forest, and gradient-boosted
// trees, all sharing one CART implementation.
package classifier

import "gonum.org/v1/gonum/mat"

// Classifier defines the contract for a binary fraud predictor.
type Classifier interface {
	// Fit trains the predictor on a feature matrix and a parallel
	// target vector of {0,1} labels.
	Fit(x *mat.Dense, y []float64) error
	// Predict returns hard {0,1} labels, one per input row.
	Predict(x *mat.Dense) []float64
	// Score returns one value per input row: a probability in [0,1]
	// when Calibrated reports true, otherwise a raw decision margin
	// whose rank order matches the predictor's confidence.
	Score(x *mat.Dense) []float64
	// Calibrated reports whether Score values are probabilities.
	Calibrated() bool
	// NumFeatures is the column count the predictor was fitted on.
	NumFeatures() int
}

// Ranker is implemented by tree-ensemble predictors that can rank input
// features by predictive contribution.
type Ranker interface {
	Classifier
	// FeatureImportances returns one non-negative weight per feature
	// column, summing to 1 when any split was made.
	FeatureImportances() []float64
}

package classifier

import (
	"gonum.org/v1/gonum/mat"
)

// separableData builds a two-feature training set where feature 0 cleanly
// separates the classes and feature 1 is constant noise.
func separableData() (*mat.Dense, []float64) {
	x := mat.NewDense(8, 2, []float64{
		0.0, 3,
		0.5, 3,
		1.0, 3,
		1.5, 3,
		8.0, 3,
		8.5, 3,
		9.0, 3,
		9.5, 3,
	})
	y := []float64{0, 0, 0, 0, 1, 1, 1, 1}
	return x, y
}

// probes returns one row deep in each class region.
func probes() *mat.Dense {
	return mat.NewDense(2, 2, []float64{
		0.7, 3,
		9.2, 3,
	})
}

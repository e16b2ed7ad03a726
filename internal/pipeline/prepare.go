// Package pipeline turns the raw transaction log into a class-balanced,
// numerically encoded train/test split.
package pipeline

import (
	"log/slog"
	"math/rand"

	"github.com/fraudsight/fraudsight/internal/dataset"
	"gonum.org/v1/gonum/mat"
)

// Columns carrying no signal; always removed before encoding.
var droppedColumns = []string{"zipcodeOri", "zipMerchant"}

// TargetColumn is the label column of the banksim dataset.
const TargetColumn = "fraud"

// DefaultNeighbors is the SMOTE neighbor count used when none is configured.
const DefaultNeighbors = 5

// Options tunes the non-positional knobs of Prepare.
type Options struct {
	// Neighbors is the SMOTE nearest-neighbor count. Zero means
	// DefaultNeighbors.
	Neighbors int
}

// Split is the balanced, partitioned output of Prepare.
type Split struct {
	TrainX  *mat.Dense
	TestX   *mat.Dense
	TrainY  []float64
	TestY   []float64
	Columns []string
}

// Prepare runs the full preprocessing pipeline: load, drop the zip columns,
// encode categoricals, oversample the minority class, and partition into a
// seeded stratified train/test split. It is pure: identical inputs yield
// identical splits, and nothing is persisted here.
func Prepare(path string, testFraction float64, seed int64, opts Options) (*Split, *dataset.Encoder, error) {
	neighbors := opts.Neighbors
	if neighbors == 0 {
		neighbors = DefaultNeighbors
	}

	frame, err := dataset.ReadFrame(path)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("loaded raw transactions", "rows", len(frame.Rows), "columns", len(frame.Columns))

	if err := frame.Require(droppedColumns...); err != nil {
		return nil, nil, err
	}
	if err := frame.Require(TargetColumn); err != nil {
		return nil, nil, err
	}
	frame = frame.Drop(droppedColumns...)

	encoder := dataset.FitEncoder(frame)
	x, y, columns, err := encoder.Transform(frame, TargetColumn)
	if err != nil {
		return nil, nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	xRes, yRes, err := Oversample(x, y, neighbors, rng)
	if err != nil {
		return nil, nil, err
	}
	rows, _ := xRes.Dims()
	slog.Debug("oversampled minority class", "rows", rows)

	trainX, testX, trainY, testY := StratifiedSplit(xRes, yRes, testFraction, rng)

	return &Split{
		TrainX:  trainX,
		TestX:   testX,
		TrainY:  trainY,
		TestY:   testY,
		Columns: columns,
	}, encoder, nil
}

// Package report implements the query surface behind the dashboard: one
// pure function per view, evaluated against a context loaded once at
// startup.
package report

import (
	"context"
	"fmt"

	"github.com/fraudsight/fraudsight/internal/common"
	"github.com/fraudsight/fraudsight/internal/dataset"
	"github.com/fraudsight/fraudsight/internal/model"
	"github.com/fraudsight/fraudsight/internal/registry"
	"github.com/fraudsight/fraudsight/internal/storage"
	"gonum.org/v1/gonum/mat"
)

// Artifact names written by the training run and expected at serving time.
const (
	ArtifactTestFeatures = "X_test"
	ArtifactTestTarget   = "y_test"
	ArtifactColumns      = "feature_columns"
	ArtifactEncoder      = "category_encoder"
)

// Context bundles everything the views need: the raw transaction log, the
// held-out test split, and the populated model registry. It is built once
// at startup and never mutated, so views can run concurrently.
type Context struct {
	Models       *registry.Registry
	TestX        *mat.Dense
	Transactions []model.Transaction
	TestY        []float64
	Columns      []string
	Encoder      *dataset.Encoder
}

// Load reads the raw dataset and every persisted artifact, failing fast and
// naming the missing artifact if training has not been run. Shape mismatches
// between artifacts are detected here rather than at first query.
func Load(ctx context.Context, dataPath string, store *storage.Store) (*Context, error) {
	transactions, err := dataset.LoadTransactions(dataPath)
	if err != nil {
		return nil, err
	}

	testX, err := store.LoadMatrix(ctx, ArtifactTestFeatures)
	if err != nil {
		return nil, err
	}
	testY, err := store.LoadVector(ctx, ArtifactTestTarget)
	if err != nil {
		return nil, err
	}
	columns, err := store.LoadColumns(ctx, ArtifactColumns)
	if err != nil {
		return nil, err
	}
	encoder, err := store.LoadEncoder(ctx, ArtifactEncoder)
	if err != nil {
		return nil, err
	}

	rows, cols := testX.Dims()
	if rows != len(testY) {
		return nil, fmt.Errorf("%w: %d test rows vs %d targets",
			common.ErrFeatureShape, rows, len(testY))
	}
	if cols != len(columns) {
		return nil, fmt.Errorf("%w: %d test columns vs %d column names",
			common.ErrFeatureShape, cols, len(columns))
	}

	names, err := store.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no persisted models; run train first", common.ErrNotFound)
	}

	models := registry.New()
	for _, name := range names {
		clf, loadErr := store.LoadModel(ctx, name)
		if loadErr != nil {
			return nil, loadErr
		}
		if clf.NumFeatures() != cols {
			return nil, fmt.Errorf("%w: model %q was fitted on %d features, test split has %d",
				common.ErrFeatureShape, name, clf.NumFeatures(), cols)
		}
		if regErr := models.Register(name, clf); regErr != nil {
			return nil, regErr
		}
	}

	return &Context{
		Transactions: transactions,
		TestX:        testX,
		TestY:        testY,
		Columns:      columns,
		Encoder:      encoder,
		Models:       models,
	}, nil
}

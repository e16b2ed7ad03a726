package classifier

import (
	"testing"

	"github.com/fraudsight/fraudsight/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestForest_FitPredict(t *testing.T) {
	x, y := separableData()
	forest := NewForest(25, 4, 42)
	require.NoError(t, forest.Fit(x, y))

	labels := forest.Predict(probes())
	assert.Equal(t, []float64{0, 1}, labels)
}

func TestForest_ScoreBounds(t *testing.T) {
	x, y := separableData()
	forest := NewForest(25, 4, 42)
	require.NoError(t, forest.Fit(x, y))

	for _, s := range forest.Score(x) {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestForest_Deterministic(t *testing.T) {
	x, y := separableData()

	first := NewForest(10, 4, 7)
	require.NoError(t, first.Fit(x, y))
	second := NewForest(10, 4, 7)
	require.NoError(t, second.Fit(x, y))

	assert.Equal(t, first.Score(x), second.Score(x))
	assert.Equal(t, first.FeatureImportances(), second.FeatureImportances())
}

func TestForest_ImportancesFavorSignal(t *testing.T) {
	x, y := separableData()
	forest := NewForest(25, 4, 42)
	require.NoError(t, forest.Fit(x, y))

	imp := forest.FeatureImportances()
	require.Len(t, imp, 2)

	var total float64
	for _, w := range imp {
		total += w
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	// Feature 1 is constant; all the split gain sits on feature 0.
	assert.Greater(t, imp[0], imp[1])
}

func TestForest_ImportancesCopied(t *testing.T) {
	x, y := separableData()
	forest := NewForest(5, 4, 42)
	require.NoError(t, forest.Fit(x, y))

	imp := forest.FeatureImportances()
	imp[0] = -1
	assert.NotEqual(t, imp[0], forest.FeatureImportances()[0])
}

func TestForest_FitShapeMismatch(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	err := NewForest(5, 4, 42).Fit(x, []float64{0, 1})
	require.ErrorIs(t, err, common.ErrFeatureShape)
}

func TestForest_Metadata(t *testing.T) {
	x, y := separableData()
	forest := NewForest(5, 4, 42)
	require.NoError(t, forest.Fit(x, y))

	assert.True(t, forest.Calibrated())
	assert.Equal(t, 2, forest.NumFeatures())
	assert.Len(t, forest.Trees, 5)
}

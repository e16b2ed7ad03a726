package classifier

import (
	"testing"

	"github.com/fraudsight/fraudsight/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestBoost_FitPredict(t *testing.T) {
	x, y := separableData()
	boost := NewBoost(50, 3, 0.1, 42)
	require.NoError(t, boost.Fit(x, y))

	labels := boost.Predict(probes())
	assert.Equal(t, []float64{0, 1}, labels)
}

func TestBoost_ScoresAreMargins(t *testing.T) {
	// Margins are signed and can leave [0, 1]; on separable data the two
	// class regions must end up on opposite sides of zero.
	x, y := separableData()
	boost := NewBoost(50, 3, 0.1, 42)
	require.NoError(t, boost.Fit(x, y))

	scores := boost.Score(probes())
	assert.Less(t, scores[0], 0.0)
	assert.Greater(t, scores[1], 0.0)
}

func TestBoost_RankOrderSeparates(t *testing.T) {
	x, y := separableData()
	boost := NewBoost(50, 3, 0.1, 42)
	require.NoError(t, boost.Fit(x, y))

	scores := boost.Score(x)
	var maxNeg, minPos float64
	maxNeg = scores[0]
	minPos = scores[4]
	for i, s := range scores {
		if y[i] == 0 && s > maxNeg {
			maxNeg = s
		}
		if y[i] == 1 && s < minPos {
			minPos = s
		}
	}
	assert.Less(t, maxNeg, minPos)
}

func TestBoost_EarlyStopOnSolvedMargins(t *testing.T) {
	// A single full-depth tree per round drives margins past 1 quickly on
	// separable data; the ensemble must stop well short of the round cap.
	x, y := separableData()
	boost := NewBoost(400, 3, 0.5, 42)
	require.NoError(t, boost.Fit(x, y))

	assert.Less(t, len(boost.Trees), 400)
}

func TestBoost_Deterministic(t *testing.T) {
	x, y := separableData()

	first := NewBoost(20, 3, 0.1, 7)
	require.NoError(t, first.Fit(x, y))
	second := NewBoost(20, 3, 0.1, 7)
	require.NoError(t, second.Fit(x, y))

	assert.Equal(t, first.Score(x), second.Score(x))
	assert.Equal(t, len(first.Trees), len(second.Trees))
}

func TestBoost_ImportancesNormalized(t *testing.T) {
	x, y := separableData()
	boost := NewBoost(20, 3, 0.1, 42)
	require.NoError(t, boost.Fit(x, y))

	imp := boost.FeatureImportances()
	require.Len(t, imp, 2)

	var total float64
	for _, w := range imp {
		total += w
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.Greater(t, imp[0], imp[1])
}

func TestBoost_FitShapeMismatch(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	err := NewBoost(10, 3, 0.1, 42).Fit(x, []float64{0, 1})
	require.ErrorIs(t, err, common.ErrFeatureShape)
}

func TestBoost_Metadata(t *testing.T) {
	x, y := separableData()
	boost := NewBoost(10, 3, 0.1, 42)
	require.NoError(t, boost.Fit(x, y))

	assert.False(t, boost.Calibrated())
	assert.Equal(t, 2, boost.NumFeatures())
}

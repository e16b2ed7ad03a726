package report

import (
	"testing"

	"github.com/fraudsight/fraudsight/internal/classifier"
	"github.com/fraudsight/fraudsight/internal/model"
	"github.com/fraudsight/fraudsight/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testTransactions() []model.Transaction {
	return []model.Transaction{
		{Step: 0, Customer: "C1", Age: "2", Gender: "M", Merchant: "M1", Category: "es_food", Amount: 10, Fraud: false},
		{Step: 0, Customer: "C2", Age: "2", Gender: "F", Merchant: "M1", Category: "es_food", Amount: 20, Fraud: false},
		{Step: 1, Customer: "C3", Age: "3", Gender: "M", Merchant: "M2", Category: "es_travel", Amount: 500, Fraud: true},
		{Step: 1, Customer: "C4", Age: "3", Gender: "F", Merchant: "M2", Category: "es_travel", Amount: 700, Fraud: true},
		{Step: 2, Customer: "C5", Age: "2", Gender: "M", Merchant: "M1", Category: "es_food", Amount: 30, Fraud: false},
	}
}

// testContext fits the three predictors on a separable split and packs them
// behind a registry the way Load does.
func testContext(t *testing.T) *Context {
	t.Helper()

	trainX := mat.NewDense(6, 2, []float64{0, 1, 1, 1, 2, 1, 8, 1, 9, 1, 10, 1})
	trainY := []float64{0, 0, 0, 1, 1, 1}

	knn := classifier.NewKNN(3)
	require.NoError(t, knn.Fit(trainX, trainY))
	forest := classifier.NewForest(10, 4, 42)
	require.NoError(t, forest.Fit(trainX, trainY))
	boost := classifier.NewBoost(20, 3, 0.1, 42)
	require.NoError(t, boost.Fit(trainX, trainY))

	models := registry.New()
	require.NoError(t, models.Register("K-Neighbors Classifier", knn))
	require.NoError(t, models.Register("Random Forest Classifier", forest))
	require.NoError(t, models.Register("Gradient Boosting Classifier", boost))

	return &Context{
		Models:       models,
		Transactions: testTransactions(),
		TestX:        mat.NewDense(4, 2, []float64{0.5, 1, 1.5, 1, 8.5, 1, 9.5, 1}),
		TestY:        []float64{0, 0, 1, 1},
		Columns:      []string{"signal", "noise"},
	}
}

func TestClassBalance(t *testing.T) {
	view := ClassBalance(testContext(t))

	assert.Equal(t, 5, view.Total)
	assert.Equal(t, 3, view.Legitimate)
	assert.Equal(t, 2, view.Fraudulent)
	assert.InDelta(t, 0.4, view.FraudRate, 1e-12)
}

func TestClassBalance_Empty(t *testing.T) {
	view := ClassBalance(&Context{})
	assert.Zero(t, view.Total)
	assert.Zero(t, view.FraudRate)
}

func TestAmountByCategory(t *testing.T) {
	stats := AmountByCategory(testContext(t))
	require.Len(t, stats, 2)

	// Sorted by category name.
	assert.Equal(t, "es_food", stats[0].Category)
	assert.Equal(t, "es_travel", stats[1].Category)

	food := stats[0]
	assert.Equal(t, 3, food.Count)
	assert.Equal(t, 10.0, food.Min)
	assert.Equal(t, 30.0, food.Max)
	assert.Equal(t, 20.0, food.Median)
	assert.InDelta(t, 20.0, food.Mean, 1e-12)

	travel := stats[1]
	assert.Equal(t, 2, travel.Count)
	assert.InDelta(t, 600.0, travel.Mean, 1e-12)
}

func TestAmountHistogram(t *testing.T) {
	bins := AmountHistogram(testContext(t), 100, 600)
	require.Len(t, bins, 6)

	// All three legitimate amounts sit below 100.
	assert.Equal(t, 3, bins[0].Legitimate)
	assert.Equal(t, 0, bins[0].Fraudulent)

	// 500 falls in [500, 600); 700 overflows into the final bin with it.
	assert.Equal(t, 2, bins[5].Fraudulent)

	assert.Equal(t, 0.0, bins[0].Low)
	assert.Equal(t, 100.0, bins[0].High)
	assert.Equal(t, 500.0, bins[5].Low)
}

func TestAmountHistogram_BadParameters(t *testing.T) {
	assert.Nil(t, AmountHistogram(testContext(t), 0, 600))
	assert.Nil(t, AmountHistogram(testContext(t), 100, 0))
}

func TestFraudRateByCategory(t *testing.T) {
	rows := FraudRateByCategory(testContext(t))
	require.Len(t, rows, 2)

	assert.Equal(t, RateRow{Group: "es_food", Percent: 0, Count: 3}, rows[0])
	assert.Equal(t, RateRow{Group: "es_travel", Percent: 100, Count: 2}, rows[1])
}

func TestFraudRateByAge(t *testing.T) {
	rows := FraudRateByAge(testContext(t))
	require.Len(t, rows, 2)

	assert.Equal(t, RateRow{Group: "2", Percent: 0, Count: 3}, rows[0])
	assert.Equal(t, RateRow{Group: "3", Percent: 100, Count: 2}, rows[1])
}

func TestMetricsTable(t *testing.T) {
	rows, err := MetricsTable(testContext(t))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	byName := make(map[string]MetricsRow, len(rows))
	for _, row := range rows {
		byName[row.Model] = row
	}
	assert.True(t, byName["K-Neighbors Classifier"].Calibrated)
	assert.True(t, byName["Random Forest Classifier"].Calibrated)
	assert.False(t, byName["Gradient Boosting Classifier"].Calibrated)

	// The test points sit deep inside each class region; every model should
	// separate them perfectly.
	for _, row := range rows {
		assert.InDelta(t, 1.0, row.Precision, 1e-9, row.Model)
		assert.InDelta(t, 1.0, row.Recall, 1e-9, row.Model)
		assert.InDelta(t, 1.0, row.ROCAUC, 1e-9, row.Model)
	}
}

func TestConfusionMatrix(t *testing.T) {
	view, err := ConfusionMatrix(testContext(t), "Random Forest Classifier")
	require.NoError(t, err)

	assert.Equal(t, 4, view.Counts.Total())
	assert.Equal(t, 2, view.Counts.TP)
	assert.Equal(t, 2, view.Counts.TN)
	assert.InDelta(t, 1.0, view.Accuracy, 1e-12)
}

func TestConfusionMatrix_UnknownModel(t *testing.T) {
	_, err := ConfusionMatrix(testContext(t), "missing")
	require.Error(t, err)
}

func TestROCCurveView(t *testing.T) {
	ctx := testContext(t)

	calibrated, err := ROCCurve(ctx, "K-Neighbors Classifier")
	require.NoError(t, err)
	assert.True(t, calibrated.Calibrated)
	assert.InDelta(t, 1.0, calibrated.Curve.AUC, 1e-9)

	margins, err := ROCCurve(ctx, "Gradient Boosting Classifier")
	require.NoError(t, err)
	assert.False(t, margins.Calibrated)
	assert.InDelta(t, 1.0, margins.Curve.AUC, 1e-9)
}

func TestFeatureImportancesView(t *testing.T) {
	ctx := testContext(t)

	forest, err := FeatureImportances(ctx, "Random Forest Classifier")
	require.NoError(t, err)
	require.True(t, forest.Supported)
	require.Len(t, forest.Ranked, 2)
	assert.Equal(t, "signal", forest.Ranked[0].Feature)

	// KNN has no ranking; that is reported, not errored.
	knn, err := FeatureImportances(ctx, "K-Neighbors Classifier")
	require.NoError(t, err)
	assert.False(t, knn.Supported)
	assert.Empty(t, knn.Ranked)
}

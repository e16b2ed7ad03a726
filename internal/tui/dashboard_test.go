package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fraudsight/fraudsight/internal/classifier"
	"github.com/fraudsight/fraudsight/internal/model"
	"github.com/fraudsight/fraudsight/internal/registry"
	"github.com/fraudsight/fraudsight/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testModel(t *testing.T) Model {
	t.Helper()

	trainX := mat.NewDense(4, 2, []float64{0, 1, 1, 1, 8, 1, 9, 1})
	trainY := []float64{0, 0, 1, 1}

	knn := classifier.NewKNN(1)
	require.NoError(t, knn.Fit(trainX, trainY))
	forest := classifier.NewForest(5, 3, 42)
	require.NoError(t, forest.Fit(trainX, trainY))

	models := registry.New()
	require.NoError(t, models.Register("K-Neighbors Classifier", knn))
	require.NoError(t, models.Register("Random Forest Classifier", forest))

	return New(&report.Context{
		Models: models,
		Transactions: []model.Transaction{
			{Customer: "C1", Age: "2", Gender: "M", Category: "es_food", Amount: 10},
			{Customer: "C2", Age: "3", Gender: "F", Category: "es_travel", Amount: 500, Fraud: true},
		},
		TestX:   mat.NewDense(2, 2, []float64{0.5, 1, 8.5, 1}),
		TestY:   []float64{0, 1},
		Columns: []string{"signal", "noise"},
	})
}

func key(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestUpdate_ViewCycling(t *testing.T) {
	m := testModel(t)
	assert.Equal(t, ViewOverview, m.view)

	next, _ := m.Update(key("l"))
	m = next.(Model)
	assert.Equal(t, ViewCategories, m.view)

	next, _ = m.Update(key("h"))
	m = next.(Model)
	assert.Equal(t, ViewOverview, m.view)

	// Cycling left from the first view wraps to the last.
	next, _ = m.Update(key("h"))
	m = next.(Model)
	assert.Equal(t, ViewModelDetail, m.view)

	next, _ = m.Update(key("tab"))
	m = next.(Model)
	assert.Equal(t, ViewOverview, m.view)
}

func TestUpdate_ModelCycling(t *testing.T) {
	m := testModel(t)
	assert.Equal(t, 0, m.selected)

	next, _ := m.Update(key("j"))
	m = next.(Model)
	assert.Equal(t, 1, m.selected)

	next, _ = m.Update(key("j"))
	m = next.(Model)
	assert.Equal(t, 0, m.selected)

	next, _ = m.Update(key("k"))
	m = next.(Model)
	assert.Equal(t, 1, m.selected)
}

func TestUpdate_Quit(t *testing.T) {
	m := testModel(t)

	next, cmd := m.Update(key("q"))
	m = next.(Model)
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}

func TestUpdate_WindowSize(t *testing.T) {
	m := testModel(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}

func TestView_RendersEachPage(t *testing.T) {
	m := testModel(t)

	assert.Contains(t, m.View(), "Legitimate")

	m.view = ViewCategories
	assert.Contains(t, m.View(), "es_food")

	m.view = ViewFraudRates
	assert.Contains(t, m.View(), "By Age Group")

	m.view = ViewMetrics
	assert.Contains(t, m.View(), "ROC-AUC")

	m.view = ViewModelDetail
	out := m.View()
	assert.Contains(t, out, "Actual Fraud")
	assert.Contains(t, out, "not supported")

	m.selected = 1
	assert.Contains(t, m.View(), "signal")
}

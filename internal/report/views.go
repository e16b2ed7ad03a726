package report

import (
	"errors"
	"math"
	"sort"

	"github.com/fraudsight/fraudsight/internal/common"
	"github.com/fraudsight/fraudsight/internal/metrics"
	"github.com/fraudsight/fraudsight/internal/registry"
	"gonum.org/v1/gonum/stat"
)

// ClassBalanceView summarizes the raw dataset.
type ClassBalanceView struct {
	Total      int
	Legitimate int
	Fraudulent int
	FraudRate  float64
}

// ClassBalance tallies the raw class distribution.
func ClassBalance(c *Context) ClassBalanceView {
	view := ClassBalanceView{Total: len(c.Transactions)}
	for _, t := range c.Transactions {
		if t.Fraud {
			view.Fraudulent++
		} else {
			view.Legitimate++
		}
	}
	if view.Total > 0 {
		view.FraudRate = float64(view.Fraudulent) / float64(view.Total)
	}
	return view
}

// BoxStats holds the five-number summary of transaction amounts for one
// purchase category.
type BoxStats struct {
	Category string
	Min      float64
	Q1       float64
	Median   float64
	Q3       float64
	Max      float64
	Mean     float64
	Count    int
}

// AmountByCategory computes per-category amount distributions, sorted by
// category name.
func AmountByCategory(c *Context) []BoxStats {
	amounts := make(map[string][]float64)
	for _, t := range c.Transactions {
		amounts[t.Category] = append(amounts[t.Category], t.Amount)
	}

	stats := make([]BoxStats, 0, len(amounts))
	for category, values := range amounts {
		sort.Float64s(values)
		stats = append(stats, BoxStats{
			Category: category,
			Min:      values[0],
			Q1:       stat.Quantile(0.25, stat.Empirical, values, nil),
			Median:   stat.Quantile(0.5, stat.Empirical, values, nil),
			Q3:       stat.Quantile(0.75, stat.Empirical, values, nil),
			Max:      values[len(values)-1],
			Mean:     stat.Mean(values, nil),
			Count:    len(values),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Category < stats[j].Category })
	return stats
}

// HistogramBin is one amount bucket with per-class counts.
type HistogramBin struct {
	Low        float64
	High       float64
	Fraudulent int
	Legitimate int
}

// AmountHistogram buckets transaction amounts up to maxAmount into
// fixed-width bins, split by class. Amounts beyond maxAmount land in the
// final bin.
func AmountHistogram(c *Context, binWidth, maxAmount float64) []HistogramBin {
	if binWidth <= 0 || maxAmount <= 0 {
		return nil
	}
	n := int(math.Ceil(maxAmount / binWidth))
	bins := make([]HistogramBin, n)
	for i := range bins {
		bins[i].Low = float64(i) * binWidth
		bins[i].High = bins[i].Low + binWidth
	}

	for _, t := range c.Transactions {
		i := int(t.Amount / binWidth)
		if i >= n {
			i = n - 1
		}
		if t.Fraud {
			bins[i].Fraudulent++
		} else {
			bins[i].Legitimate++
		}
	}
	return bins
}

// RateRow is one group's fraud percentage.
type RateRow struct {
	Group   string
	Percent float64
	Count   int
}

// FraudRateByCategory computes the fraud percentage per purchase category.
func FraudRateByCategory(c *Context) []RateRow {
	return fraudRate(c, func(t int) string { return c.Transactions[t].Category })
}

// FraudRateByAge computes the fraud percentage per age group.
func FraudRateByAge(c *Context) []RateRow {
	return fraudRate(c, func(t int) string { return c.Transactions[t].Age })
}

func fraudRate(c *Context, group func(int) string) []RateRow {
	counts := make(map[string]int)
	frauds := make(map[string]int)
	for i := range c.Transactions {
		g := group(i)
		counts[g]++
		if c.Transactions[i].Fraud {
			frauds[g]++
		}
	}

	rows := make([]RateRow, 0, len(counts))
	for g, n := range counts {
		rows = append(rows, RateRow{
			Group:   g,
			Percent: 100 * float64(frauds[g]) / float64(n),
			Count:   n,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Group < rows[j].Group })
	return rows
}

// MetricsRow holds one model's headline metrics on the held-out split.
type MetricsRow struct {
	Model      string
	Precision  float64
	Recall     float64
	F1         float64
	ROCAUC     float64
	Calibrated bool
}

// MetricsTable evaluates every registered model against the held-out split.
// For uncalibrated models the ROC-AUC is computed from rank-only margins.
func MetricsTable(c *Context) ([]MetricsRow, error) {
	rows := make([]MetricsRow, 0, len(c.Models.Names()))
	for _, name := range c.Models.Names() {
		predicted, err := c.Models.PredictLabels(name, c.TestX)
		if err != nil {
			return nil, err
		}
		scores, err := c.Models.PredictScore(name, c.TestX)
		if err != nil {
			return nil, err
		}
		calibrated, err := c.Models.Calibrated(name)
		if err != nil {
			return nil, err
		}

		confusion, err := metrics.ConfusionCounts(c.TestY, predicted)
		if err != nil {
			return nil, err
		}
		roc, err := metrics.ROCCurve(c.TestY, scores)
		if err != nil {
			return nil, err
		}

		rows = append(rows, MetricsRow{
			Model:      name,
			Precision:  confusion.Precision(),
			Recall:     confusion.Recall(),
			F1:         confusion.F1(),
			ROCAUC:     roc.AUC,
			Calibrated: calibrated,
		})
	}
	return rows, nil
}

// ConfusionView is one model's confusion matrix with derived accuracy.
type ConfusionView struct {
	Model    string
	Counts   metrics.Confusion
	Accuracy float64
}

// ConfusionMatrix evaluates one model's confusion counts on the held-out
// split.
func ConfusionMatrix(c *Context, name string) (ConfusionView, error) {
	predicted, err := c.Models.PredictLabels(name, c.TestX)
	if err != nil {
		return ConfusionView{}, err
	}
	counts, err := metrics.ConfusionCounts(c.TestY, predicted)
	if err != nil {
		return ConfusionView{}, err
	}
	return ConfusionView{Model: name, Counts: counts, Accuracy: counts.Accuracy()}, nil
}

// ROCView is one model's ROC curve.
type ROCView struct {
	Model      string
	Curve      metrics.ROC
	Calibrated bool
}

// ROCCurve computes one model's ROC curve on the held-out split.
func ROCCurve(c *Context, name string) (ROCView, error) {
	scores, err := c.Models.PredictScore(name, c.TestX)
	if err != nil {
		return ROCView{}, err
	}
	calibrated, err := c.Models.Calibrated(name)
	if err != nil {
		return ROCView{}, err
	}
	curve, err := metrics.ROCCurve(c.TestY, scores)
	if err != nil {
		return ROCView{}, err
	}
	return ROCView{Model: name, Curve: curve, Calibrated: calibrated}, nil
}

// ImportanceView is one model's feature-importance ranking. Supported is
// false for models without the capability; that is a valid result, not an
// error.
type ImportanceView struct {
	Model     string
	Ranked    []registry.Importance
	Supported bool
}

// FeatureImportances ranks the features of one model, descending by weight.
func FeatureImportances(c *Context, name string) (ImportanceView, error) {
	ranked, err := c.Models.FeatureImportance(name, c.Columns)
	if errors.Is(err, common.ErrNotSupported) {
		return ImportanceView{Model: name, Supported: false}, nil
	}
	if err != nil {
		return ImportanceView{}, err
	}
	return ImportanceView{Model: name, Ranked: ranked, Supported: true}, nil
}

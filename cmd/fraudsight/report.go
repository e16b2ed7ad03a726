package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/fraudsight/fraudsight/internal/cli"
	"github.com/fraudsight/fraudsight/internal/common"
	"github.com/fraudsight/fraudsight/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the analytics views for the trained models",
		Long: `Load the raw transaction log and every persisted artifact, then render
the exploratory and model-performance views: class balance, per-category
amount distributions, fraud rates, metric comparisons, confusion matrices,
ROC summaries, and feature-importance rankings.

The command fails fast, naming the missing artifact, if training has not
been run yet.`,
		RunE: runReport,
	}

	cmd.Flags().StringP("model", "m", "", "restrict per-model views to one model name")
	_ = viper.BindPFlag("report.model", cmd.Flags().Lookup("model"))

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open artifact store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close artifact store", "error", closeErr)
		}
	}()

	path, err := dataPath()
	if err != nil {
		return err
	}
	rc, err := report.Load(ctx, path, store)
	if err != nil {
		return common.NewUserError("failed to load report context; run train first", err)
	}

	names := rc.Models.Names()
	if selected := viper.GetString("report.model"); selected != "" {
		names = []string{selected}
	}

	out := cmd.OutOrStdout()

	fmt.Fprintln(out, cli.TitleStyle.Render("Dataset"))
	printClassBalance(out, rc)
	fmt.Fprintln(out, cli.TitleStyle.Render("Amounts by Category"))
	printAmountsByCategory(out, rc)
	fmt.Fprintln(out, cli.TitleStyle.Render("Amount Distribution"))
	printAmountHistogram(out, rc)
	fmt.Fprintln(out, cli.TitleStyle.Render("Fraud Rate by Category"))
	printRates(out, report.FraudRateByCategory(rc))
	fmt.Fprintln(out, cli.TitleStyle.Render("Fraud Rate by Age Group"))
	printRates(out, report.FraudRateByAge(rc))

	fmt.Fprintln(out, cli.TitleStyle.Render("Model Performance"))
	if err := printMetricsTable(out, rc); err != nil {
		return err
	}

	for _, name := range names {
		fmt.Fprintln(out, cli.TitleStyle.Render(name))
		printModelDetail(out, rc, name)
	}

	return nil
}

func printClassBalance(out io.Writer, rc *report.Context) {
	balance := report.ClassBalance(rc)
	table := cli.NewTable("Total", "Legitimate", "Fraudulent", "Fraud Rate")
	table.AddRow(
		strconv.Itoa(balance.Total),
		strconv.Itoa(balance.Legitimate),
		strconv.Itoa(balance.Fraudulent),
		cli.Percent(100*balance.FraudRate),
	)
	fmt.Fprintln(out, table.Render())
}

func printAmountsByCategory(out io.Writer, rc *report.Context) {
	table := cli.NewTable("Category", "Count", "Min", "Q1", "Median", "Q3", "Max", "Mean")
	for _, box := range report.AmountByCategory(rc) {
		table.AddRow(
			box.Category,
			strconv.Itoa(box.Count),
			fmt.Sprintf("%.2f", box.Min),
			fmt.Sprintf("%.2f", box.Q1),
			fmt.Sprintf("%.2f", box.Median),
			fmt.Sprintf("%.2f", box.Q3),
			fmt.Sprintf("%.2f", box.Max),
			fmt.Sprintf("%.2f", box.Mean),
		)
	}
	fmt.Fprintln(out, table.Render())
}

// histogramBins is the bucket count for the amount distribution chart.
const histogramBins = 10

func printAmountHistogram(out io.Writer, rc *report.Context) {
	var maxAmount float64
	for _, t := range rc.Transactions {
		if t.Amount > maxAmount {
			maxAmount = t.Amount
		}
	}
	bins := report.AmountHistogram(rc, maxAmount/histogramBins, maxAmount)
	if len(bins) == 0 {
		fmt.Fprintln(out, cli.SubtleStyle.Render("no transactions"))
		return
	}

	var maxCount float64
	for _, bin := range bins {
		if total := float64(bin.Legitimate + bin.Fraudulent); total > maxCount {
			maxCount = total
		}
	}

	table := cli.NewTable("Amount", "Legitimate", "Fraudulent", "")
	for _, bin := range bins {
		table.AddRow(
			fmt.Sprintf("%.0f-%.0f", bin.Low, bin.High),
			strconv.Itoa(bin.Legitimate),
			strconv.Itoa(bin.Fraudulent),
			cli.Bar(float64(bin.Legitimate+bin.Fraudulent), maxCount, 24),
		)
	}
	fmt.Fprintln(out, table.Render())
}

func printRates(out io.Writer, rows []report.RateRow) {
	var max float64
	for _, row := range rows {
		if row.Percent > max {
			max = row.Percent
		}
	}
	table := cli.NewTable("Group", "Transactions", "Fraud %", "")
	for _, row := range rows {
		table.AddRow(row.Group, strconv.Itoa(row.Count), cli.Percent(row.Percent), cli.Bar(row.Percent, max, 24))
	}
	fmt.Fprintln(out, table.Render())
}

func printMetricsTable(out io.Writer, rc *report.Context) error {
	rows, err := report.MetricsTable(rc)
	if err != nil {
		return fmt.Errorf("failed to compute model metrics: %w", err)
	}
	table := cli.NewTable("Model", "Precision", "Recall", "F1-Score", "ROC-AUC", "Score Type")
	for _, row := range rows {
		scoreType := "probability"
		if !row.Calibrated {
			scoreType = "margin (rank-only)"
		}
		table.AddRow(
			row.Model,
			fmt.Sprintf("%.4f", row.Precision),
			fmt.Sprintf("%.4f", row.Recall),
			fmt.Sprintf("%.4f", row.F1),
			fmt.Sprintf("%.4f", row.ROCAUC),
			scoreType,
		)
	}
	fmt.Fprintln(out, table.Render())
	return nil
}

// printModelDetail renders the per-model views. A failure in one view is
// reported inline and does not abort the others.
func printModelDetail(out io.Writer, rc *report.Context, name string) {
	confusion, err := report.ConfusionMatrix(rc, name)
	if err != nil {
		fmt.Fprintln(out, cli.ErrorStyle.Render(fmt.Sprintf("confusion matrix unavailable: %v", err)))
	} else {
		fmt.Fprintln(out, cli.SubtitleStyle.Render("Confusion Matrix"))
		table := cli.NewTable("", "Predicted Fraud", "Predicted Legitimate")
		table.AddRow("Actual Fraud",
			fmt.Sprintf("TP: %d", confusion.Counts.TP),
			fmt.Sprintf("FN: %d", confusion.Counts.FN))
		table.AddRow("Actual Legitimate",
			fmt.Sprintf("FP: %d", confusion.Counts.FP),
			fmt.Sprintf("TN: %d", confusion.Counts.TN))
		fmt.Fprintln(out, table.Render())
		fmt.Fprintf(out, "Accuracy: %s\n\n", cli.BoldStyle.Render(cli.Percent(100*confusion.Accuracy)))
	}

	roc, err := report.ROCCurve(rc, name)
	if err != nil {
		fmt.Fprintln(out, cli.ErrorStyle.Render(fmt.Sprintf("ROC curve unavailable: %v", err)))
	} else {
		fmt.Fprintln(out, cli.SubtitleStyle.Render(fmt.Sprintf("ROC-AUC: %.4f (%d curve points)",
			roc.Curve.AUC, len(roc.Curve.FPR))))
	}

	importance, err := report.FeatureImportances(rc, name)
	if err != nil {
		fmt.Fprintln(out, cli.ErrorStyle.Render(fmt.Sprintf("feature importance unavailable: %v", err)))
		return
	}
	if !importance.Supported {
		fmt.Fprintln(out, cli.SubtleStyle.Render("Feature importance: not supported by this model"))
		fmt.Fprintln(out)
		return
	}

	fmt.Fprintln(out, cli.SubtitleStyle.Render("Feature Importance"))
	var max float64
	for _, imp := range importance.Ranked {
		if imp.Weight > max {
			max = imp.Weight
		}
	}
	table := cli.NewTable("Feature", "Weight", "")
	for _, imp := range importance.Ranked {
		table.AddRow(imp.Feature, fmt.Sprintf("%.4f", imp.Weight), cli.Bar(imp.Weight, max, 24))
	}
	fmt.Fprintln(out, table.Render())
}

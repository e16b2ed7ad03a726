// Package tui provides an interactive terminal dashboard over the report
// views, computed on demand against an immutable context.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fraudsight/fraudsight/internal/cli"
	"github.com/fraudsight/fraudsight/internal/report"
)

// View identifies one dashboard page.
type View int

const (
	ViewOverview View = iota
	ViewCategories
	ViewFraudRates
	ViewMetrics
	ViewModelDetail
	viewCount
)

var viewTitles = map[View]string{
	ViewOverview:    "Overview",
	ViewCategories:  "Amounts by Category",
	ViewFraudRates:  "Fraud Rates",
	ViewMetrics:     "Model Performance",
	ViewModelDetail: "Model Detail",
}

// Model holds the dashboard state. All report data is computed on demand
// from the immutable context; there is no mutation after startup.
type Model struct {
	ctx      *report.Context
	names    []string
	view     View
	selected int
	width    int
	height   int
	quitting bool
}

// New creates a dashboard over a loaded report context.
func New(ctx *report.Context) Model {
	return Model{
		ctx:   ctx,
		names: ctx.Models.Names(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "right", "tab", "l":
			m.view = (m.view + 1) % viewCount
		case "left", "shift+tab", "h":
			m.view = (m.view + viewCount - 1) % viewCount
		case "down", "j", "m":
			if len(m.names) > 0 {
				m.selected = (m.selected + 1) % len(m.names)
			}
		case "up", "k":
			if len(m.names) > 0 {
				m.selected = (m.selected + len(m.names) - 1) % len(m.names)
			}
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")

	switch m.view {
	case ViewOverview:
		b.WriteString(m.overview())
	case ViewCategories:
		b.WriteString(m.categories())
	case ViewFraudRates:
		b.WriteString(m.fraudRates())
	case ViewMetrics:
		b.WriteString(m.metrics())
	case ViewModelDetail:
		b.WriteString(m.modelDetail())
	}

	b.WriteString("\n")
	b.WriteString(cli.SubtleStyle.Render("←/→ switch view · ↑/↓ switch model · q quit"))
	return b.String()
}

func (m Model) header() string {
	tabs := make([]string, 0, int(viewCount))
	for v := View(0); v < viewCount; v++ {
		title := viewTitles[v]
		if v == m.view {
			tabs = append(tabs, cli.BoldStyle.Render("["+title+"]"))
		} else {
			tabs = append(tabs, cli.SubtleStyle.Render(title))
		}
	}
	line := strings.Join(tabs, "  ")
	if len(m.names) > 0 {
		line += "\n" + cli.SubtitleStyle.Render("model: "+m.names[m.selected])
	}
	return line
}

func (m Model) overview() string {
	balance := report.ClassBalance(m.ctx)
	table := cli.NewTable("Total", "Legitimate", "Fraudulent", "Fraud Rate")
	table.AddRow(
		strconv.Itoa(balance.Total),
		strconv.Itoa(balance.Legitimate),
		strconv.Itoa(balance.Fraudulent),
		cli.Percent(100*balance.FraudRate),
	)
	return table.Render()
}

func (m Model) categories() string {
	table := cli.NewTable("Category", "Count", "Median", "Q3", "Max", "Mean")
	for _, box := range report.AmountByCategory(m.ctx) {
		table.AddRow(
			box.Category,
			strconv.Itoa(box.Count),
			fmt.Sprintf("%.2f", box.Median),
			fmt.Sprintf("%.2f", box.Q3),
			fmt.Sprintf("%.2f", box.Max),
			fmt.Sprintf("%.2f", box.Mean),
		)
	}
	return table.Render()
}

func (m Model) fraudRates() string {
	var b strings.Builder
	b.WriteString(cli.SubtitleStyle.Render("By Category"))
	b.WriteString("\n")
	b.WriteString(rateTable(report.FraudRateByCategory(m.ctx)))
	b.WriteString("\n")
	b.WriteString(cli.SubtitleStyle.Render("By Age Group"))
	b.WriteString("\n")
	b.WriteString(rateTable(report.FraudRateByAge(m.ctx)))
	return b.String()
}

func rateTable(rows []report.RateRow) string {
	var max float64
	for _, row := range rows {
		if row.Percent > max {
			max = row.Percent
		}
	}
	table := cli.NewTable("Group", "Fraud %", "")
	for _, row := range rows {
		table.AddRow(row.Group, cli.Percent(row.Percent), cli.Bar(row.Percent, max, 20))
	}
	return table.Render()
}

func (m Model) metrics() string {
	rows, err := report.MetricsTable(m.ctx)
	if err != nil {
		return cli.ErrorStyle.Render(err.Error())
	}
	table := cli.NewTable("Model", "Precision", "Recall", "F1", "ROC-AUC")
	for _, row := range rows {
		table.AddRow(
			row.Model,
			fmt.Sprintf("%.4f", row.Precision),
			fmt.Sprintf("%.4f", row.Recall),
			fmt.Sprintf("%.4f", row.F1),
			fmt.Sprintf("%.4f", row.ROCAUC),
		)
	}
	return table.Render()
}

func (m Model) modelDetail() string {
	if len(m.names) == 0 {
		return cli.ErrorStyle.Render("no models registered")
	}
	name := m.names[m.selected]

	var b strings.Builder
	confusion, err := report.ConfusionMatrix(m.ctx, name)
	if err != nil {
		b.WriteString(cli.ErrorStyle.Render(fmt.Sprintf("confusion matrix unavailable: %v", err)))
		b.WriteString("\n")
	} else {
		table := cli.NewTable("", "Predicted Fraud", "Predicted Legitimate")
		table.AddRow("Actual Fraud",
			fmt.Sprintf("TP: %d", confusion.Counts.TP),
			fmt.Sprintf("FN: %d", confusion.Counts.FN))
		table.AddRow("Actual Legitimate",
			fmt.Sprintf("FP: %d", confusion.Counts.FP),
			fmt.Sprintf("TN: %d", confusion.Counts.TN))
		b.WriteString(table.Render())
		b.WriteString(fmt.Sprintf("Accuracy: %s\n", cli.Percent(100*confusion.Accuracy)))
	}

	if roc, rocErr := report.ROCCurve(m.ctx, name); rocErr == nil {
		b.WriteString(fmt.Sprintf("ROC-AUC: %.4f\n", roc.Curve.AUC))
	}

	importance, err := report.FeatureImportances(m.ctx, name)
	if err != nil {
		b.WriteString(cli.ErrorStyle.Render(fmt.Sprintf("feature importance unavailable: %v", err)))
		return b.String()
	}
	if !importance.Supported {
		b.WriteString(cli.SubtleStyle.Render("Feature importance: not supported by this model"))
		return b.String()
	}

	var max float64
	for _, imp := range importance.Ranked {
		if imp.Weight > max {
			max = imp.Weight
		}
	}
	table := cli.NewTable("Feature", "Weight", "")
	for _, imp := range importance.Ranked {
		table.AddRow(imp.Feature, fmt.Sprintf("%.4f", imp.Weight), cli.Bar(imp.Weight, max, 20))
	}
	b.WriteString(table.Render())
	return b.String()
}

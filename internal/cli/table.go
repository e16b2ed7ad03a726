package cli

import (
	"fmt"
	"strings"
)

// Table renders rows of cells under a styled header with columns padded to
// the widest cell.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends one row of cells.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render returns the formatted table.
func (t *Table) Render() string {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for i, h := range t.headers {
		b.WriteString(HeaderStyle.Render(pad(h, widths[i])))
		if i < len(t.headers)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")
	for i := range t.headers {
		b.WriteString(SubtleStyle.Render(strings.Repeat("─", widths[i])))
		if i < len(t.headers)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")

	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			b.WriteString(pad(cell, widths[i]))
			if i < len(row)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// Bar renders a fixed-scale horizontal bar for terminal charts.
func Bar(value, max float64, width int) string {
	if max <= 0 || width <= 0 {
		return ""
	}
	filled := int(value / max * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return SuccessStyle.Render(strings.Repeat("█", filled)) +
		SubtleStyle.Render(strings.Repeat("░", width-filled))
}

// Percent formats a ratio as a percentage string.
func Percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

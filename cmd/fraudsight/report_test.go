package main

import (
	"bytes"
	"testing"

	"github.com/fraudsight/fraudsight/internal/model"
	"github.com/fraudsight/fraudsight/internal/report"
	"github.com/stretchr/testify/assert"
)

func TestPrintAmountHistogram(t *testing.T) {
	rc := &report.Context{
		Transactions: []model.Transaction{
			{Category: "es_food", Amount: 10},
			{Category: "es_food", Amount: 25},
			{Category: "es_food", Amount: 90},
			{Category: "es_travel", Amount: 1000, Fraud: true},
		},
	}

	var buf bytes.Buffer
	printAmountHistogram(&buf, rc)
	out := buf.String()

	// Ten bins over [0, 1000]: the three legitimate amounts land in the
	// first bin, the fraudulent maximum overflows into the last.
	assert.Contains(t, out, "0-100")
	assert.Contains(t, out, "900-1000")
	assert.Contains(t, out, "Legitimate")
	assert.Contains(t, out, "Fraudulent")

	lines := bytes.Split(buf.Bytes(), []byte("\n"))
	// Header + separator + ten bin rows + trailing blank.
	assert.GreaterOrEqual(t, len(lines), 12)
}

func TestPrintAmountHistogram_Empty(t *testing.T) {
	var buf bytes.Buffer
	printAmountHistogram(&buf, &report.Context{})

	assert.Contains(t, buf.String(), "no transactions")
}

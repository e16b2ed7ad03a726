package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fraudsight/fraudsight/internal/common"
	"github.com/fraudsight/fraudsight/internal/model"
)

// Columns the banksim export is expected to carry, in no particular order.
var requiredColumns = []string{
	"step", "customer", "age", "gender", "merchant", "category", "amount", "fraud",
}

// LoadTransactions reads the raw transaction log into typed records for the
// reporting views. Banksim wraps categorical values in single quotes; those
// are stripped here.
func LoadTransactions(path string) ([]model.Transaction, error) {
	frame, err := ReadFrame(path)
	if err != nil {
		return nil, err
	}
	return FrameTransactions(frame)
}

// FrameTransactions converts an already loaded frame into typed records.
func FrameTransactions(frame *Frame) ([]model.Transaction, error) {
	if err := frame.Require(requiredColumns...); err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(requiredColumns))
	for _, col := range requiredColumns {
		i, _ := frame.Index(col)
		idx[col] = i
	}

	transactions := make([]model.Transaction, 0, len(frame.Rows))
	for r, row := range frame.Rows {
		step, err := strconv.Atoi(strings.TrimSpace(row[idx["step"]]))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: bad step: %v", common.ErrDataLoad, r, err)
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(row[idx["amount"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: bad amount: %v", common.ErrDataLoad, r, err)
		}
		fraud, err := strconv.Atoi(strings.TrimSpace(row[idx["fraud"]]))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: bad fraud label: %v", common.ErrDataLoad, r, err)
		}

		transactions = append(transactions, model.Transaction{
			Step:     step,
			Customer: unquote(row[idx["customer"]]),
			Age:      unquote(row[idx["age"]]),
			Gender:   unquote(row[idx["gender"]]),
			Merchant: unquote(row[idx["merchant"]]),
			Category: unquote(row[idx["category"]]),
			Amount:   amount,
			Fraud:    fraud == 1,
		})
	}

	return transactions, nil
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), "'")
}

// Package testutil provides shared helpers for building synthetic banksim
// data and artifact stores in tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fraudsight/fraudsight/internal/storage"
)

// Row is one synthetic banksim transaction for CSV fixtures.
type Row struct {
	Customer string
	Age      string
	Gender   string
	Merchant string
	Category string
	Step     int
	Amount   float64
	Fraud    int
}

// Header is the raw banksim column order, including the two zip columns the
// pipeline drops.
const Header = "step,customer,age,gender,zipcodeOri,merchant,zipMerchant,category,amount,fraud"

// WriteCSV writes a banksim-shaped CSV fixture into the test's temp
// directory and returns its path.
func WriteCSV(t *testing.T, rows []Row) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "transactions.csv")
	content := Header + "\n"
	for _, r := range rows {
		content += fmt.Sprintf("%d,'%s','%s','%s','28007','%s','28007','%s',%.2f,%d\n",
			r.Step, r.Customer, r.Age, r.Gender, r.Merchant, r.Category, r.Amount, r.Fraud)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write CSV fixture: %v", err)
	}
	return path
}

// SetupStore creates a migrated artifact store in the test's temp directory
// with automatic cleanup.
func SetupStore(t *testing.T) *storage.Store {
	t.Helper()

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "artifacts.db"))
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// ImbalancedRows returns a small dataset with the given negative/positive
// counts, positives concentrated at high amounts.
func ImbalancedRows(negatives, positives int) []Row {
	rows := make([]Row, 0, negatives+positives)
	for i := 0; i < negatives; i++ {
		rows = append(rows, Row{
			Step:     i % 10,
			Customer: fmt.Sprintf("C%03d", i),
			Age:      "2",
			Gender:   "M",
			Merchant: "M001",
			Category: "es_transportation",
			Amount:   10 + float64(i),
			Fraud:    0,
		})
	}
	for i := 0; i < positives; i++ {
		rows = append(rows, Row{
			Step:     i % 10,
			Customer: fmt.Sprintf("C9%02d", i),
			Age:      "0",
			Gender:   "F",
			Merchant: "M999",
			Category: "es_travel",
			Amount:   500 + float64(100*i),
			Fraud:    1,
		})
	}
	return rows
}

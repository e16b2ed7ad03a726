// Package dataset loads the raw transaction log and turns it into
// numerically encoded feature matrices.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fraudsight/fraudsight/internal/common"
)

// Frame is a rectangular table of string cells with named columns.
// It is the in-memory form of the raw CSV before encoding.
type Frame struct {
	Columns []string
	Rows    [][]string
}

// ReadFrame loads a CSV file into a Frame. The first line is the header.
// Ragged rows and unreadable files are reported as data load failures.
func ReadFrame(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrDataLoad, path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrDataLoad, path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: %s: no data rows", common.ErrDataLoad, path)
	}

	return &Frame{
		Columns: records[0],
		Rows:    records[1:],
	}, nil
}

// Index returns the position of a named column.
func (f *Frame) Index(name string) (int, bool) {
	for i, col := range f.Columns {
		if col == name {
			return i, true
		}
	}
	return 0, false
}

// Require verifies that every named column is present, returning a schema
// error identifying the first missing one.
func (f *Frame) Require(names ...string) error {
	for _, name := range names {
		if _, ok := f.Index(name); !ok {
			return fmt.Errorf("%w: column %q not found", common.ErrSchema, name)
		}
	}
	return nil
}

// Drop returns a new Frame without the named columns. Columns that are
// already absent are ignored, so dropping is idempotent.
func (f *Frame) Drop(names ...string) *Frame {
	dropped := make(map[int]bool, len(names))
	for _, name := range names {
		if i, ok := f.Index(name); ok {
			dropped[i] = true
		}
	}
	if len(dropped) == 0 {
		return &Frame{Columns: f.Columns, Rows: f.Rows}
	}

	columns := make([]string, 0, len(f.Columns)-len(dropped))
	for i, col := range f.Columns {
		if !dropped[i] {
			columns = append(columns, col)
		}
	}

	rows := make([][]string, len(f.Rows))
	for r, row := range f.Rows {
		kept := make([]string, 0, len(columns))
		for i, cell := range row {
			if !dropped[i] {
				kept = append(kept, cell)
			}
		}
		rows[r] = kept
	}

	return &Frame{Columns: columns, Rows: rows}
}

// Column returns all values of the named column in row order.
func (f *Frame) Column(name string) []string {
	i, ok := f.Index(name)
	if !ok {
		return nil
	}
	values := make([]string, len(f.Rows))
	for r, row := range f.Rows {
		values[r] = row[i]
	}
	return values
}

// IsNumeric reports whether every cell of the column parses as a float.
func (f *Frame) IsNumeric(name string) bool {
	i, ok := f.Index(name)
	if !ok {
		return false
	}
	for _, row := range f.Rows {
		if _, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64); err != nil {
			return false
		}
	}
	return len(f.Rows) > 0
}

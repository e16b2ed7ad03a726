package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fraudsight/fraudsight/internal/common"
	"gonum.org/v1/gonum/mat"
)

// Encoder maps the values of categorical columns to small integer codes.
// Codes are assigned by the sorted order of the distinct values, so a value
// set of size k always covers exactly 0..k-1. Fields are exported so a
// fitted encoder can be persisted and reused at serving time.
type Encoder struct {
	Mappings map[string]map[string]int
}

// FitEncoder builds an encoder over every non-numeric column of the frame.
func FitEncoder(f *Frame) *Encoder {
	mappings := make(map[string]map[string]int)
	for _, col := range f.Columns {
		if f.IsNumeric(col) {
			continue
		}
		distinct := make(map[string]bool)
		for _, v := range f.Column(col) {
			distinct[v] = true
		}
		values := make([]string, 0, len(distinct))
		for v := range distinct {
			values = append(values, v)
		}
		sort.Strings(values)

		codes := make(map[string]int, len(values))
		for code, v := range values {
			codes[v] = code
		}
		mappings[col] = codes
	}
	return &Encoder{Mappings: mappings}
}

// Code resolves the integer code for a column value. Values never seen when
// the encoder was fitted are an error, not a sentinel code.
func (e *Encoder) Code(column, value string) (int, error) {
	codes, ok := e.Mappings[column]
	if !ok {
		return 0, fmt.Errorf("%w: column %q is not categorical", common.ErrSchema, column)
	}
	code, ok := codes[value]
	if !ok {
		return 0, fmt.Errorf("%w: %q in column %q", common.ErrUnknownCategory, value, column)
	}
	return code, nil
}

// Categorical reports whether the encoder holds a mapping for the column.
func (e *Encoder) Categorical(column string) bool {
	_, ok := e.Mappings[column]
	return ok
}

// Transform encodes the frame into a feature matrix and a target vector.
// Every column except target becomes a feature: categorical columns go
// through the fitted mapping, numeric columns are parsed in place. The
// returned column names preserve the frame's column order.
func (e *Encoder) Transform(f *Frame, target string) (x *mat.Dense, y []float64, columns []string, err error) {
	targetIdx, ok := f.Index(target)
	if !ok {
		return nil, nil, nil, fmt.Errorf("%w: target column %q not found", common.ErrSchema, target)
	}

	for i, col := range f.Columns {
		if i != targetIdx {
			columns = append(columns, col)
		}
	}

	x = mat.NewDense(len(f.Rows), len(columns), nil)
	y = make([]float64, len(f.Rows))

	for r, row := range f.Rows {
		feature := 0
		for i, col := range f.Columns {
			var value float64
			if e.Categorical(col) {
				code, codeErr := e.Code(col, row[i])
				if codeErr != nil {
					return nil, nil, nil, fmt.Errorf("row %d: %w", r, codeErr)
				}
				value = float64(code)
			} else {
				parsed, parseErr := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
				if parseErr != nil {
					return nil, nil, nil, fmt.Errorf("%w: row %d column %q: %v", common.ErrDataLoad, r, col, parseErr)
				}
				value = parsed
			}

			if i == targetIdx {
				y[r] = value
			} else {
				x.Set(r, feature, value)
				feature++
			}
		}
	}

	return x, y, columns, nil
}

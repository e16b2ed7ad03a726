package pipeline

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/fraudsight/fraudsight/internal/common"
	"gonum.org/v1/gonum/mat"
)

// Oversample applies SMOTE: synthetic minority rows are generated by
// interpolating between a minority sample and one of its k nearest minority
// neighbors until both classes have the same count. The rows of the result
// are the original rows in order, followed by the synthetic rows.
func Oversample(x *mat.Dense, y []float64, neighbors int, rng *rand.Rand) (*mat.Dense, []float64, error) {
	rows, cols := x.Dims()
	if rows != len(y) {
		return nil, nil, fmt.Errorf("%w: %d feature rows vs %d targets", common.ErrFeatureShape, rows, len(y))
	}

	var minority, majority []int
	for i, label := range y {
		if label == 1 {
			minority = append(minority, i)
		} else {
			majority = append(majority, i)
		}
	}
	if len(minority) > len(majority) {
		minority, majority = majority, minority
	}
	if len(minority) < neighbors {
		return nil, nil, fmt.Errorf("%w: minority class has %d samples, need at least %d",
			common.ErrInsufficientSamples, len(minority), neighbors)
	}

	needed := len(majority) - len(minority)
	resampled := mat.NewDense(rows+needed, cols, nil)
	target := make([]float64, rows+needed)
	for i := 0; i < rows; i++ {
		resampled.SetRow(i, x.RawRowView(i))
		target[i] = y[i]
	}

	if needed == 0 {
		return resampled, target, nil
	}

	minorityLabel := y[minority[0]]
	k := neighbors
	if k > len(minority)-1 {
		k = len(minority) - 1
	}

	for n := 0; n < needed; n++ {
		base := minority[n%len(minority)]
		nearest := nearestNeighbors(x, minority, base, k)
		pick := nearest[rng.Intn(len(nearest))]
		gap := rng.Float64()

		row := make([]float64, cols)
		for c := 0; c < cols; c++ {
			bv := x.At(base, c)
			row[c] = bv + gap*(x.At(pick, c)-bv)
		}
		resampled.SetRow(rows+n, row)
		target[rows+n] = minorityLabel
	}

	return resampled, target, nil
}

// nearestNeighbors returns the k members of candidates closest to base by
// manhattan distance, excluding base itself. Ties break on row index so the
// result is deterministic.
func nearestNeighbors(x *mat.Dense, candidates []int, base, k int) []int {
	type entry struct {
		index    int
		distance float64
	}
	entries := make([]entry, 0, len(candidates)-1)
	for _, c := range candidates {
		if c == base {
			continue
		}
		entries = append(entries, entry{index: c, distance: manhattan(x, base, c)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].distance != entries[j].distance {
			return entries[i].distance < entries[j].distance
		}
		return entries[i].index < entries[j].index
	})

	if k > len(entries) {
		k = len(entries)
	}
	nearest := make([]int, k)
	for i := 0; i < k; i++ {
		nearest[i] = entries[i].index
	}
	return nearest
}

func manhattan(x *mat.Dense, a, b int) float64 {
	_, cols := x.Dims()
	var sum float64
	for c := 0; c < cols; c++ {
		sum += math.Abs(x.At(a, c) - x.At(b, c))
	}
	return sum
}

package pipeline

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// StratifiedSplit partitions (x, y) into train and test sets. The test set
// holds round(n*testFraction) rows, allocated across classes by largest
// remainder so both splits retain the source class proportions. Row
// selection within a class is a seeded shuffle.
func StratifiedSplit(x *mat.Dense, y []float64, testFraction float64, rng *rand.Rand) (trainX, testX *mat.Dense, trainY, testY []float64) {
	rows, cols := x.Dims()

	byClass := make(map[float64][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}
	classes := make([]float64, 0, len(byClass))
	for label := range byClass {
		classes = append(classes, label)
	}
	sort.Float64s(classes)

	testTotal := int(math.Round(float64(rows) * testFraction))
	counts := allocate(byClass, classes, testFraction, testTotal)

	var trainIdx, testIdx []int
	for _, label := range classes {
		indices := append([]int(nil), byClass[label]...)
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		n := counts[label]
		testIdx = append(testIdx, indices[:n]...)
		trainIdx = append(trainIdx, indices[n:]...)
	}

	trainX = mat.NewDense(len(trainIdx), cols, nil)
	trainY = make([]float64, len(trainIdx))
	for i, idx := range trainIdx {
		trainX.SetRow(i, x.RawRowView(idx))
		trainY[i] = y[idx]
	}

	testX = mat.NewDense(len(testIdx), cols, nil)
	testY = make([]float64, len(testIdx))
	for i, idx := range testIdx {
		testX.SetRow(i, x.RawRowView(idx))
		testY[i] = y[idx]
	}

	return trainX, testX, trainY, testY
}

// allocate distributes the test budget across classes: every class gets the
// floor of its proportional share, and the leftover rows go to the classes
// with the largest fractional remainders.
func allocate(byClass map[float64][]int, classes []float64, fraction float64, total int) map[float64]int {
	counts := make(map[float64]int, len(classes))
	type leftover struct {
		label     float64
		remainder float64
	}
	var leftovers []leftover

	assigned := 0
	for _, label := range classes {
		share := float64(len(byClass[label])) * fraction
		base := int(math.Floor(share))
		counts[label] = base
		assigned += base
		leftovers = append(leftovers, leftover{label: label, remainder: share - float64(base)})
	}

	sort.Slice(leftovers, func(i, j int) bool {
		if leftovers[i].remainder != leftovers[j].remainder {
			return leftovers[i].remainder > leftovers[j].remainder
		}
		return leftovers[i].label < leftovers[j].label
	})

	for i := 0; assigned < total && i < len(leftovers); i++ {
		label := leftovers[i].label
		if counts[label] < len(byClass[label]) {
			counts[label]++
			assigned++
		}
	}

	return counts
}

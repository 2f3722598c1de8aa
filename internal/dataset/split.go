package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Shuffled returns a seeded permutation of positions.
func Shuffled(positions []int, rng *rand.Rand) []int {
	out := append([]int(nil), positions...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// GroupBy returns the row positions of each distinct value of column, plus
// the distinct values in sorted order.
func GroupBy(f *Frame, column string) (map[string][]int, []string, error) {
	j, ok := f.ColumnIndex(column)
	if !ok {
		return nil, nil, ColumnNotFoundError{Column: column}
	}
	groups := make(map[string][]int)
	for i, r := range f.Rows {
		groups[r[j]] = append(groups[r[j]], i)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return groups, keys, nil
}

// StratifiedSplit divides f into train and test frames keeping the class
// proportions of target. Each class contributes round(n_c*testSize) rows to
// the test block, clamped so both blocks receive at least one row.
func StratifiedSplit(f *Frame, target string, testSize float64, seed int64) (train, test *Frame, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be in (0,1), got %v", testSize)
	}
	groups, classes, err := GroupBy(f, target)
	if err != nil {
		return nil, nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	var trainPos, testPos []int
	for _, c := range classes {
		pos := groups[c]
		if len(pos) < 2 {
			return nil, nil, fmt.Errorf("class %q has %d row(s); stratified split needs at least 2", c, len(pos))
		}
		nTest := int(math.Round(float64(len(pos)) * testSize))
		if nTest < 1 {
			nTest = 1
		}
		if nTest > len(pos)-1 {
			nTest = len(pos) - 1
		}
		pos = Shuffled(pos, rng)
		testPos = append(testPos, pos[:nTest]...)
		trainPos = append(trainPos, pos[nTest:]...)
	}
	return f.Take(Shuffled(trainPos, rng)), f.Take(Shuffled(testPos, rng)), nil
}

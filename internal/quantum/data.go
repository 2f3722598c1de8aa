package quantum

import (
	"fmt"
	"math/rand"
	"sort"

	"diagnosd/internal/dataset"
)

// InsufficientSamplesError reports a class too small to fill its balanced
// train and test quota.
type InsufficientSamplesError struct {
	Class string
	Have  int
	Need  int
}

func (e InsufficientSamplesError) Error() string {
	return fmt.Sprintf("class %q has %d samples, need %d", e.Class, e.Have, e.Need)
}

// SelectTopKClasses keeps only the rows whose target is one of the k most
// frequent labels. Labels are returned by descending count, ties broken by
// label; rows keep their original order.
func SelectTopKClasses(f *dataset.Frame, target string, k int) (*dataset.Frame, []string, error) {
	if k <= 0 {
		return nil, nil, fmt.Errorf("top-k classes: k must be positive, got %d", k)
	}
	groups, labels, err := dataset.GroupBy(f, target)
	if err != nil {
		return nil, nil, err
	}
	sort.SliceStable(labels, func(a, b int) bool {
		return len(groups[labels[a]]) > len(groups[labels[b]])
	})
	if k < len(labels) {
		labels = labels[:k]
	}
	keep := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		keep[l] = struct{}{}
	}
	j, ok := f.ColumnIndex(target)
	if !ok {
		return nil, nil, dataset.ColumnNotFoundError{Column: target}
	}
	out := f.Filter(func(row []string) bool {
		_, ok := keep[row[j]]
		return ok
	})
	return out, labels, nil
}

// BalancedSets holds the per-class balanced train and test blocks.
type BalancedSets struct {
	XTrain *dataset.Frame
	XTest  *dataset.Frame
	YTrain []string
	YTest  []string
}

// BuildBalancedSets draws exactly trainPer training and testPer test rows
// from every class of target, without overlap. Classes are visited in sorted
// order and shuffled with one RNG seeded by seed, so the draw is
// reproducible. Only featureCols are kept in the X frames.
func BuildBalancedSets(f *dataset.Frame, featureCols []string, target string, trainPer, testPer int, seed int64) (*BalancedSets, error) {
	if trainPer <= 0 || testPer < 0 {
		return nil, fmt.Errorf("balanced sets: invalid quota train=%d test=%d", trainPer, testPer)
	}
	groups, classes, err := dataset.GroupBy(f, target)
	if err != nil {
		return nil, err
	}
	need := trainPer + testPer
	rng := rand.New(rand.NewSource(seed))
	var trainPos, testPos []int
	for _, c := range classes {
		pos := groups[c]
		if len(pos) < need {
			return nil, InsufficientSamplesError{Class: c, Have: len(pos), Need: need}
		}
		pos = dataset.Shuffled(pos, rng)
		trainPos = append(trainPos, pos[:trainPer]...)
		testPos = append(testPos, pos[trainPer:need]...)
	}
	trainPos = dataset.Shuffled(trainPos, rng)
	testPos = dataset.Shuffled(testPos, rng)

	train, test := f.Take(trainPos), f.Take(testPos)
	yTrain, err := dataset.Labels(train, target)
	if err != nil {
		return nil, err
	}
	yTest, err := dataset.Labels(test, target)
	if err != nil {
		return nil, err
	}
	xTrain, err := train.Select(featureCols)
	if err != nil {
		return nil, err
	}
	xTest, err := test.Select(featureCols)
	if err != nil {
		return nil, err
	}
	return &BalancedSets{XTrain: xTrain, XTest: xTest, YTrain: yTrain, YTest: yTest}, nil
}

package classical

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blobs(seed int64, perClass int, centers [][]float64, labels []string) ([][]float64, []string) {
	rng := rand.New(rand.NewSource(seed))
	var X [][]float64
	var y []string
	for c, center := range centers {
		for i := 0; i < perClass; i++ {
			row := make([]float64, len(center))
			for j, v := range center {
				row[j] = v + rng.NormFloat64()*0.5
			}
			X = append(X, row)
			y = append(y, labels[c])
		}
	}
	return X, y
}

func TestLogisticRegression_SeparableAccuracy(t *testing.T) {
	X, y := blobs(1, 60, [][]float64{{-3, -3}, {3, 3}}, []string{"neg", "pos"})
	m := NewLogisticRegression()
	require.NoError(t, m.Fit(X, y))
	assert.Equal(t, []string{"neg", "pos"}, m.Classes)
	assert.Equal(t, 2, m.NumFeatures())

	pred, err := m.Predict(X)
	require.NoError(t, err)
	correct := 0
	for i := range pred {
		if pred[i] == y[i] {
			correct++
		}
	}
	assert.GreaterOrEqual(t, float64(correct)/float64(len(y)), 0.9)
}

func TestLogisticRegression_ProbabilitiesSumToOne(t *testing.T) {
	X, y := blobs(2, 30, [][]float64{{0, 4}, {4, 0}, {-4, -4}}, []string{"b", "a", "c"})
	m := NewLogisticRegression()
	require.NoError(t, m.Fit(X, y))
	assert.Equal(t, []string{"a", "b", "c"}, m.Classes)

	proba, err := m.PredictProba(X)
	require.NoError(t, err)
	require.Len(t, proba, len(X))
	for _, p := range proba {
		require.Len(t, p, 3)
		s := 0.0
		for _, v := range p {
			assert.GreaterOrEqual(t, v, 0.0)
			s += v
		}
		assert.InDelta(t, 1, s, 1e-9)
	}
}

func TestLogisticRegression_BalancedWeightsFavourMinority(t *testing.T) {
	// 90/10 imbalance with overlapping classes
	Xa, ya := blobs(3, 90, [][]float64{{0}}, []string{"major"})
	Xb, yb := blobs(4, 10, [][]float64{{1}}, []string{"minor"})
	X := append(Xa, Xb...)
	y := append(ya, yb...)

	balanced := NewLogisticRegression()
	require.NoError(t, balanced.Fit(X, y))
	plain := NewLogisticRegression()
	plain.BalanceWeight = false
	require.NoError(t, plain.Fit(X, y))

	pb, _ := balanced.PredictProba([][]float64{{0.5}})
	pp, _ := plain.PredictProba([][]float64{{0.5}})
	assert.Greater(t, pb[0][1], pp[0][1])
}

func TestLogisticRegression_Deterministic(t *testing.T) {
	X, y := blobs(5, 20, [][]float64{{1, 1}, {-1, -1}}, []string{"x", "y"})
	a, b := NewLogisticRegression(), NewLogisticRegression()
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))
	for c := range a.Weights {
		for j := range a.Weights[c] {
			assert.Equal(t, a.Weights[c][j], b.Weights[c][j])
			assert.False(t, math.IsNaN(a.Weights[c][j]))
		}
	}
}

func TestLogisticRegression_Errors(t *testing.T) {
	m := NewLogisticRegression()
	_, err := m.Predict([][]float64{{1}})
	assert.ErrorIs(t, err, ErrNotFitted)

	assert.Error(t, m.Fit(nil, nil))
	assert.Error(t, m.Fit([][]float64{{1}, {2}}, []string{"a"}))
	assert.Error(t, m.Fit([][]float64{{1}, {2}}, []string{"a", "a"}), "single class")
	assert.Error(t, m.Fit([][]float64{{1}, {2, 3}}, []string{"a", "b"}), "ragged")

	require.NoError(t, m.Fit([][]float64{{1}, {-1}}, []string{"a", "b"}))
	_, err = m.PredictProba([][]float64{{1, 2}})
	assert.Error(t, err)
}

func TestLogisticRegression_PredictProbaKeepsRowOrder(t *testing.T) {
	X, y := blobs(4, 40, [][]float64{{-2, 0}, {2, 0}, {0, 3}}, []string{"a", "b", "c"})
	m := NewLogisticRegression()
	require.NoError(t, m.Fit(X, y))

	batch, err := m.PredictProba(X)
	require.NoError(t, err)
	require.Len(t, batch, len(X))
	for i, row := range X {
		single, err := m.PredictProba([][]float64{row})
		require.NoError(t, err)
		assert.Equal(t, single[0], batch[i], "row %d", i)
	}

	empty, err := m.PredictProba(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

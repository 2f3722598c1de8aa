package quantum

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagnosd/internal/dataset"
)

func TestZZFeatureMap_Validate(t *testing.T) {
	_, err := NewZZFeatureMap(6, 1, "")
	assert.NoError(t, err)
	for _, tc := range []struct {
		name         string
		qubits, reps int
		entanglement string
	}{
		{"no qubits", 0, 1, "linear"},
		{"too many qubits", MaxQubits + 1, 1, "linear"},
		{"no reps", 2, 0, "linear"},
		{"bad layout", 2, 1, "circular"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewZZFeatureMap(tc.qubits, tc.reps, tc.entanglement)
			assert.Error(t, err)
		})
	}
}

func TestZZFeatureMap_Pairs(t *testing.T) {
	lin, _ := NewZZFeatureMap(4, 1, EntanglementLinear)
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}, {2, 3}}, lin.Pairs())
	full, _ := NewZZFeatureMap(3, 1, EntanglementFull)
	assert.Equal(t, [][2]int{{0, 1}, {0, 2}, {1, 2}}, full.Pairs())
}

func TestZZFeatureMap_StateIsNormalised(t *testing.T) {
	fm, _ := NewZZFeatureMap(4, 2, EntanglementFull)
	psi, err := fm.State([]float64{0.3, 1.2, 2.9, 0})
	require.NoError(t, err)
	require.Len(t, psi, 16)
	n := 0.0
	for _, a := range psi {
		n += real(a)*real(a) + imag(a)*imag(a)
	}
	assert.InDelta(t, 1, n, 1e-12)

	_, err = fm.State([]float64{1})
	assert.Error(t, err)
}

func TestFidelity_SingleQubitClosedForm(t *testing.T) {
	// one qubit, one rep: (|0⟩ + e^{2ix}|1⟩)/√2, so K(x,y) = cos²(x−y)
	fm, _ := NewZZFeatureMap(1, 1, EntanglementLinear)
	for _, tc := range [][2]float64{{0, 0}, {0.2, 1.1}, {3.1, 0.4}} {
		a, _ := fm.State([]float64{tc[0]})
		b, _ := fm.State([]float64{tc[1]})
		c := math.Cos(tc[0] - tc[1])
		assert.InDelta(t, c*c, Fidelity(a, b), 1e-12)
	}
}

func TestFidelityKernel_Gram(t *testing.T) {
	fm, _ := NewZZFeatureMap(3, 1, EntanglementLinear)
	k := FidelityKernel{Map: fm}
	X := [][]float64{{0.1, 0.2, 0.3}, {1, 2, 3}, {3, 0, 1.5}, {0.1, 0.2, 0.3}}
	states, err := k.States(context.Background(), X)
	require.NoError(t, err)
	K, err := k.Gram(context.Background(), states)
	require.NoError(t, err)
	for i := range K {
		assert.Equal(t, 1.0, K[i][i])
		for j := range K {
			assert.Equal(t, K[i][j], K[j][i])
			assert.GreaterOrEqual(t, K[i][j], 0.0)
			assert.LessOrEqual(t, K[i][j], 1.0)
		}
	}
	assert.InDelta(t, 1, K[0][3], 1e-12, "identical inputs")

	cross, err := k.Cross(context.Background(), states[:2], states)
	require.NoError(t, err)
	assert.InDelta(t, K[1][2], cross[1][2], 1e-15)
}

func TestFidelityKernel_Cancelled(t *testing.T) {
	fm, _ := NewZZFeatureMap(2, 1, EntanglementLinear)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FidelityKernel{Map: fm}.States(ctx, [][]float64{{0, 0}, {1, 1}})
	assert.ErrorIs(t, err, context.Canceled)
}

func clusters(seed int64, perClass int, centers []float64, labels []string) ([][]float64, []string) {
	rng := rand.New(rand.NewSource(seed))
	var X [][]float64
	var y []string
	for c, center := range centers {
		for i := 0; i < perClass; i++ {
			X = append(X, []float64{center + (rng.Float64()-0.5)*0.1})
			y = append(y, labels[c])
		}
	}
	return X, y
}

func accuracy(pred, y []string) float64 {
	ok := 0
	for i := range y {
		if pred[i] == y[i] {
			ok++
		}
	}
	return float64(ok) / float64(len(y))
}

func TestSVC_Binary(t *testing.T) {
	fm, _ := NewZZFeatureMap(1, 1, EntanglementLinear)
	X, y := clusters(7, 20, []float64{0.2, 1.4}, []string{"a", "b"})
	svc := NewSVC(fm)
	require.NoError(t, svc.Fit(context.Background(), X, y))
	assert.Equal(t, []string{"a", "b"}, svc.Classes)
	require.Len(t, svc.Pairs, 1)
	assert.NotEmpty(t, svc.Support)
	assert.LessOrEqual(t, len(svc.Support), len(X))

	pred, err := svc.Predict(context.Background(), X)
	require.NoError(t, err)
	assert.Equal(t, 1.0, accuracy(pred, y))
}

func TestSVC_OneVsOne(t *testing.T) {
	fm, _ := NewZZFeatureMap(1, 1, EntanglementLinear)
	X, y := clusters(8, 20, []float64{0.2, 0.8, 1.4}, []string{"x", "y", "z"})
	svc := NewSVC(fm)
	require.NoError(t, svc.Fit(context.Background(), X, y))
	require.Len(t, svc.Pairs, 3)

	pred, err := svc.Predict(context.Background(), [][]float64{{0.2}, {0.8}, {1.4}})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, pred)
}

func TestSVC_ReloadedPredictsTheSame(t *testing.T) {
	fm, _ := NewZZFeatureMap(1, 1, EntanglementLinear)
	X, y := clusters(9, 15, []float64{0.3, 1.3}, []string{"p", "q"})
	svc := NewSVC(fm)
	require.NoError(t, svc.Fit(context.Background(), X, y))
	want, err := svc.Decision(context.Background(), X)
	require.NoError(t, err)

	raw, err := json.Marshal(svc)
	require.NoError(t, err)
	var loaded SVC
	require.NoError(t, json.Unmarshal(raw, &loaded))
	got, err := loaded.Decision(context.Background(), X)
	require.NoError(t, err)
	for i := range want {
		assert.InDeltaSlice(t, want[i], got[i], 1e-12)
	}
}

func TestSVC_Errors(t *testing.T) {
	fm, _ := NewZZFeatureMap(1, 1, EntanglementLinear)
	svc := NewSVC(fm)
	_, err := svc.Predict(context.Background(), [][]float64{{0}})
	assert.ErrorIs(t, err, ErrNotFitted)
	assert.Error(t, svc.Fit(context.Background(), [][]float64{{0}, {1}}, []string{"a", "a"}))
	assert.Error(t, svc.Fit(context.Background(), [][]float64{{0}}, []string{"a", "b"}))
}

func labelFrame(t *testing.T, counts map[string]int) *dataset.Frame {
	t.Helper()
	var rows [][]string
	id := 0
	for _, lbl := range []string{"flu", "cold", "covid", "malaria", "dengue"} {
		for i := 0; i < counts[lbl]; i++ {
			rows = append(rows, []string{strconv.Itoa(id), strconv.Itoa(id % 7), lbl})
			id++
		}
	}
	f, err := dataset.NewFrame([]string{"patient_id", "temp_c", "diagnosis"}, rows)
	require.NoError(t, err)
	return f
}

func TestSelectTopKClasses(t *testing.T) {
	f := labelFrame(t, map[string]int{"flu": 10, "cold": 30, "covid": 20, "malaria": 20, "dengue": 5})
	out, labels, err := SelectTopKClasses(f, "diagnosis", 3)
	require.NoError(t, err)
	// covid and malaria tie on 20; the label order breaks it
	assert.Equal(t, []string{"cold", "covid", "malaria"}, labels)
	assert.Equal(t, 70, out.Len())
	got, _ := out.Column("diagnosis")
	for _, l := range got {
		assert.Contains(t, labels, l)
	}
	ids, _ := out.Column("patient_id")
	for i := 1; i < len(ids); i++ {
		a, _ := strconv.Atoi(ids[i-1])
		b, _ := strconv.Atoi(ids[i])
		assert.Less(t, a, b, "original row order")
	}

	all, labels, err := SelectTopKClasses(f, "diagnosis", 10)
	require.NoError(t, err)
	assert.Len(t, labels, 5)
	assert.Equal(t, f.Len(), all.Len())

	_, _, err = SelectTopKClasses(f, "diagnosis", 0)
	assert.Error(t, err)
	_, _, err = SelectTopKClasses(f, "nope", 2)
	assert.ErrorAs(t, err, &dataset.ColumnNotFoundError{})
}

func TestBuildBalancedSets(t *testing.T) {
	f := labelFrame(t, map[string]int{"flu": 12, "cold": 15})
	sets, err := BuildBalancedSets(f, []string{"patient_id", "temp_c"}, "diagnosis", 8, 3, 42)
	require.NoError(t, err)
	assert.Equal(t, 16, sets.XTrain.Len())
	assert.Equal(t, 6, sets.XTest.Len())
	assert.Equal(t, []string{"patient_id", "temp_c"}, sets.XTrain.Columns)

	count := func(y []string) map[string]int {
		m := map[string]int{}
		for _, v := range y {
			m[v]++
		}
		return m
	}
	assert.Equal(t, map[string]int{"flu": 8, "cold": 8}, count(sets.YTrain))
	assert.Equal(t, map[string]int{"flu": 3, "cold": 3}, count(sets.YTest))

	trainIDs, _ := sets.XTrain.Column("patient_id")
	testIDs, _ := sets.XTest.Column("patient_id")
	seen := map[string]bool{}
	for _, id := range trainIDs {
		seen[id] = true
	}
	for _, id := range testIDs {
		assert.False(t, seen[id], "train and test overlap on %s", id)
	}

	again, err := BuildBalancedSets(f, []string{"patient_id", "temp_c"}, "diagnosis", 8, 3, 42)
	require.NoError(t, err)
	assert.Equal(t, sets.YTrain, again.YTrain)
	assert.Equal(t, sets.XTest.Rows, again.XTest.Rows)
}

func TestBuildBalancedSets_Shortage(t *testing.T) {
	f := labelFrame(t, map[string]int{"flu": 12, "cold": 5})
	_, err := BuildBalancedSets(f, []string{"temp_c"}, "diagnosis", 4, 2, 42)
	var short InsufficientSamplesError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, InsufficientSamplesError{Class: "cold", Have: 5, Need: 6}, short)
}

package preprocess

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagnosd/internal/dataset"
)

func sampleFrame(t *testing.T) *dataset.Frame {
	t.Helper()
	f, err := dataset.NewFrame(
		[]string{"patient_id", "symptom_fever", "temp_c", "region_id", "gender", "risk_group"},
		[][]string{
			{"1", "1", "38.0", "1", "F", "0"},
			{"2", "0", "", "2", "M", "1"},
			{"3", "1", "37.0", "1.0", "", "0"},
			{"4", "NA", "37.0", "3", "F", "0"},
		})
	require.NoError(t, err)
	return f
}

var sampleGroups = FeatureGroups{
	Symptom:     []string{"symptom_fever"},
	Vital:       []string{"temp_c"},
	Categorical: []string{"region_id", "gender"},
	Binary:      []string{"risk_group"},
}

func TestFeatureGroups_Columns(t *testing.T) {
	assert.Equal(t, []string{"symptom_fever", "temp_c", "region_id", "gender", "risk_group"}, sampleGroups.Columns())
	assert.Equal(t, []string{"symptom_fever", "temp_c", "risk_group"}, sampleGroups.Numeric())
}

func TestFeatureGroups_Validate(t *testing.T) {
	assert.NoError(t, sampleGroups.Validate())
	dup := FeatureGroups{Symptom: []string{"a"}, Binary: []string{"a"}}
	assert.Error(t, dup.Validate())
	assert.Error(t, FeatureGroups{}.Validate())
}

func TestColumnTransformer_FitTransform(t *testing.T) {
	ct, err := NewColumnTransformer(sampleGroups)
	require.NoError(t, err)
	X, err := ct.FitTransform(sampleFrame(t))
	require.NoError(t, err)

	assert.Equal(t, sampleGroups.Columns(), ct.InputColumns())
	// numeric: fever, temp, risk; categorical: region {1,2,3}, gender {F,M}
	assert.Equal(t, 3+3+2, ct.Width())
	assert.Equal(t, []string{"symptom_fever", "temp_c", "risk_group",
		"region_id=1", "region_id=2", "region_id=3", "gender=F", "gender=M"}, ct.OutputNames())
	require.Len(t, X, 4)

	// temp_c missing imputes the most frequent value 37.0
	tempScale := ct.Numeric[1].Scale
	assert.InDelta(t, 37.0/tempScale, X[1][1], 1e-12)
	// "1.0" and "1" are the same region
	assert.Equal(t, []float64{1, 0, 0}, X[2][3:6])
	// missing gender imputes F
	assert.Equal(t, []float64{1, 0}, X[2][6:8])
	// fever NA imputes 1
	assert.InDelta(t, 1/ct.Numeric[0].Scale, X[3][0], 1e-12)
}

func TestColumnTransformer_NoCentering(t *testing.T) {
	ct, _ := NewColumnTransformer(FeatureGroups{Vital: []string{"v"}})
	f, _ := dataset.NewFrame([]string{"v"}, [][]string{{"2"}, {"4"}})
	X, err := ct.FitTransform(f)
	require.NoError(t, err)
	// population std of {2,4} is 1
	assert.Equal(t, [][]float64{{2}, {4}}, X)
}

func TestColumnTransformer_UnknownCategoryIgnored(t *testing.T) {
	ct, _ := NewColumnTransformer(sampleGroups)
	require.NoError(t, ct.Fit(sampleFrame(t)))
	f, _ := dataset.NewFrame(
		[]string{"symptom_fever", "temp_c", "region_id", "gender", "risk_group"},
		[][]string{{"0", "36.6", "99", "X", "1"}})
	X, err := ct.Transform(f)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, X[0][3:])
}

func TestColumnTransformer_Errors(t *testing.T) {
	ct, _ := NewColumnTransformer(sampleGroups)
	_, err := ct.Transform(sampleFrame(t))
	assert.ErrorIs(t, err, ErrNotFitted)

	f, _ := dataset.NewFrame([]string{"symptom_fever"}, [][]string{{"1"}})
	assert.Error(t, ct.Fit(f), "absent columns must fail")

	bad, _ := dataset.NewFrame([]string{"v"}, [][]string{{"abc"}})
	ct2, _ := NewColumnTransformer(FeatureGroups{Vital: []string{"v"}})
	assert.Error(t, ct2.Fit(bad))
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "1", Canonical("1.0"))
	assert.Equal(t, "1", Canonical(" 1 "))
	assert.Equal(t, "0.5", Canonical("0.50"))
	assert.Equal(t, "in_person", Canonical("in_person"))
}

func TestMinMaxScaler(t *testing.T) {
	s, err := NewMinMaxScaler(0, 3.1415)
	require.NoError(t, err)
	X := [][]float64{{0, 5}, {10, 5}, {5, 5}}
	require.NoError(t, s.Fit(X))
	out, err := s.Transform(X)
	require.NoError(t, err)
	assert.InDelta(t, 0, out[0][0], 1e-12)
	assert.InDelta(t, 3.1415, out[1][0], 1e-12)
	assert.InDelta(t, 3.1415/2, out[2][0], 1e-12)
	assert.InDelta(t, 0, out[2][1], 1e-12)

	_, err = NewMinMaxScaler(1, 1)
	assert.Error(t, err)
}

func TestTruncatedSVD(t *testing.T) {
	// rank-2 data in 3 dimensions
	X := [][]float64{
		{1, 0, 1}, {2, 0, 2}, {0, 3, 0}, {0, 1, 0}, {1, 1, 1},
	}
	svd, err := NewTruncatedSVD(2)
	require.NoError(t, err)
	require.NoError(t, svd.Fit(X))
	require.Len(t, svd.Vectors, 2)
	for _, v := range svd.Vectors {
		n := 0.0
		maxAbs, maxVal := 0.0, 0.0
		for _, x := range v {
			n += x * x
			if math.Abs(x) > maxAbs {
				maxAbs, maxVal = math.Abs(x), x
			}
		}
		assert.InDelta(t, 1, n, 1e-9)
		assert.Greater(t, maxVal, 0.0)
	}
	assert.GreaterOrEqual(t, svd.SingularValues[0], svd.SingularValues[1])

	// rank-2 projection preserves the squared norm of every row
	Z, err := svd.Transform(X)
	require.NoError(t, err)
	for i := range X {
		var a, b float64
		for _, v := range X[i] {
			a += v * v
		}
		for _, v := range Z[i] {
			b += v * v
		}
		assert.InDelta(t, a, b, 1e-9)
	}

	tooMany, _ := NewTruncatedSVD(4)
	assert.Error(t, tooMany.Fit(X))
}

package preprocess

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// TruncatedSVD projects uncentered data onto its top right singular vectors.
// Each component is sign-normalised so its largest-magnitude loading is
// positive, which makes the projection deterministic.
type TruncatedSVD struct {
	Components     int         `json:"n_components"`
	Vectors        [][]float64 `json:"components"`
	SingularValues []float64   `json:"singular_values"`
}

// NewTruncatedSVD returns an unfitted reducer to k dimensions.
func NewTruncatedSVD(k int) (*TruncatedSVD, error) {
	if k <= 0 {
		return nil, fmt.Errorf("svd: n_components must be positive, got %d", k)
	}
	return &TruncatedSVD{Components: k}, nil
}

// Fit computes the thin SVD of X and keeps the first Components right
// singular vectors.
func (t *TruncatedSVD) Fit(X [][]float64) error {
	n := len(X)
	if n == 0 {
		return fmt.Errorf("svd fit: empty input")
	}
	d := len(X[0])
	if t.Components > d || t.Components > n {
		return fmt.Errorf("svd fit: n_components=%d exceeds input shape %dx%d", t.Components, n, d)
	}
	flat := make([]float64, 0, n*d)
	for _, row := range X {
		if len(row) != d {
			return fmt.Errorf("svd fit: ragged input")
		}
		flat = append(flat, row...)
	}
	var svd mat.SVD
	if ok := svd.Factorize(mat.NewDense(n, d, flat), mat.SVDThin); !ok {
		return fmt.Errorf("svd fit: factorization failed")
	}
	var v mat.Dense
	svd.VTo(&v)
	values := svd.Values(nil)

	t.Vectors = make([][]float64, t.Components)
	t.SingularValues = make([]float64, t.Components)
	for k := 0; k < t.Components; k++ {
		comp := make([]float64, d)
		maxAbs, sign := 0.0, 1.0
		for j := 0; j < d; j++ {
			comp[j] = v.At(j, k)
			if a := math.Abs(comp[j]); a > maxAbs {
				maxAbs = a
				sign = math.Copysign(1, comp[j])
			}
		}
		for j := range comp {
			comp[j] *= sign
		}
		t.Vectors[k] = comp
		t.SingularValues[k] = values[k]
	}
	return nil
}

// Transform returns X times the component matrix transposed.
func (t *TruncatedSVD) Transform(X [][]float64) ([][]float64, error) {
	if t.Vectors == nil {
		return nil, ErrNotFitted
	}
	d := len(t.Vectors[0])
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != d {
			return nil, fmt.Errorf("svd transform: row %d has %d features, want %d", i, len(row), d)
		}
		r := make([]float64, t.Components)
		for k, comp := range t.Vectors {
			s := 0.0
			for j, v := range row {
				s += v * comp[j]
			}
			r[k] = s
		}
		out[i] = r
	}
	return out, nil
}

package preprocess

import "fmt"

// MinMaxScaler maps each training column range onto [Low, High]. Values
// outside the training range are not clipped.
type MinMaxScaler struct {
	Low  float64   `json:"low"`
	High float64   `json:"high"`
	Min  []float64 `json:"min"`
	Span []float64 `json:"span"`
}

// NewMinMaxScaler returns an unfitted scaler for the target range.
func NewMinMaxScaler(low, high float64) (*MinMaxScaler, error) {
	if !(low < high) {
		return nil, fmt.Errorf("min-max range: low %v must be below high %v", low, high)
	}
	return &MinMaxScaler{Low: low, High: high}, nil
}

// Fit records per-column minimum and span. A constant column gets span 1.
func (s *MinMaxScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return fmt.Errorf("min-max fit: empty input")
	}
	c := len(X[0])
	s.Min = make([]float64, c)
	hi := make([]float64, c)
	copy(s.Min, X[0])
	copy(hi, X[0])
	for _, row := range X[1:] {
		if len(row) != c {
			return fmt.Errorf("min-max fit: ragged input")
		}
		for j, v := range row {
			if v < s.Min[j] {
				s.Min[j] = v
			}
			if v > hi[j] {
				hi[j] = v
			}
		}
	}
	s.Span = make([]float64, c)
	for j := range s.Span {
		s.Span[j] = hi[j] - s.Min[j]
		if s.Span[j] == 0 {
			s.Span[j] = 1
		}
	}
	return nil
}

// Transform rescales X into the fitted range.
func (s *MinMaxScaler) Transform(X [][]float64) ([][]float64, error) {
	if s.Min == nil {
		return nil, ErrNotFitted
	}
	width := s.High - s.Low
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(s.Min) {
			return nil, fmt.Errorf("min-max transform: row %d has %d features, want %d", i, len(row), len(s.Min))
		}
		r := make([]float64, len(row))
		for j, v := range row {
			r[j] = (v-s.Min[j])/s.Span[j]*width + s.Low
		}
		out[i] = r
	}
	return out, nil
}

// Package classical implements the linear classifier of the classical
// pipeline: multinomial logistic regression with an L2 penalty and balanced
// class weights, fitted with L-BFGS.
package classical

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/optimize"
)

// Defaults mirror the reference configuration of the classical model.
const (
	DefaultMaxIter = 5000
	DefaultC       = 1.0
	DefaultTol     = 1e-4
)

// ErrNotFitted is returned by predictions on an unfitted model.
var ErrNotFitted = errors.New("logistic regression is not fitted")

// LogisticRegression is a softmax classifier over string labels.
// Weights holds one row per class: the feature coefficients followed by the
// intercept.
type LogisticRegression struct {
	C             float64     `json:"C"`
	MaxIter       int         `json:"max_iter"`
	Tol           float64     `json:"tol"`
	BalanceWeight bool        `json:"class_weight_balanced"`
	Classes       []string    `json:"classes"`
	Weights       [][]float64 `json:"weights"`
	Iterations    int         `json:"n_iter"`
}

// NewLogisticRegression returns an unfitted model with the reference
// hyperparameters: C=1, up to 5000 iterations, balanced class weights.
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{C: DefaultC, MaxIter: DefaultMaxIter, Tol: DefaultTol, BalanceWeight: true}
}

// Fit minimises the weighted cross-entropy plus ||W||²/(2C), with the
// objective normalised by the total sample weight.
func (m *LogisticRegression) Fit(X [][]float64, y []string) error {
	if len(X) == 0 {
		return fmt.Errorf("logistic fit: empty input")
	}
	if len(X) != len(y) {
		return fmt.Errorf("logistic fit: %d rows but %d labels", len(X), len(y))
	}
	if m.C <= 0 {
		return fmt.Errorf("logistic fit: C must be positive, got %v", m.C)
	}
	d := len(X[0])
	for i, row := range X {
		if len(row) != d {
			return fmt.Errorf("logistic fit: row %d has %d features, want %d", i, len(row), d)
		}
	}

	m.Classes = uniqueSorted(y)
	k := len(m.Classes)
	if k < 2 {
		return fmt.Errorf("logistic fit: need at least 2 classes, got %d", k)
	}
	classIdx := make(map[string]int, k)
	for c, name := range m.Classes {
		classIdx[name] = c
	}
	target := make([]int, len(y))
	counts := make([]float64, k)
	for i, lbl := range y {
		target[i] = classIdx[lbl]
		counts[target[i]]++
	}
	sw := make([]float64, len(y))
	total := 0.0
	for i := range sw {
		sw[i] = 1
		if m.BalanceWeight {
			sw[i] = float64(len(y)) / (float64(k) * counts[target[i]])
		}
		total += sw[i]
	}

	stride := d + 1
	alpha := 1 / (m.C * total)
	obj := func(grad, w []float64) float64 {
		if grad != nil {
			for j := range grad {
				grad[j] = 0
			}
		}
		loss := 0.0
		z := make([]float64, k)
		for i, row := range X {
			for c := 0; c < k; c++ {
				wc := w[c*stride : (c+1)*stride]
				s := wc[d]
				for j, v := range row {
					s += wc[j] * v
				}
				z[c] = s
			}
			lse := logSumExp(z)
			loss += sw[i] * (lse - z[target[i]])
			if grad == nil {
				continue
			}
			for c := 0; c < k; c++ {
				g := math.Exp(z[c] - lse)
				if c == target[i] {
					g--
				}
				g *= sw[i]
				gc := grad[c*stride : (c+1)*stride]
				for j, v := range row {
					gc[j] += g * v
				}
				gc[d] += g
			}
		}
		loss /= total
		reg := 0.0
		for c := 0; c < k; c++ {
			for j := 0; j < d; j++ {
				v := w[c*stride+j]
				reg += v * v
				if grad != nil {
					grad[c*stride+j] = grad[c*stride+j]/total + alpha*v
				}
			}
			if grad != nil {
				grad[c*stride+d] /= total
			}
		}
		return loss + 0.5*alpha*reg
	}

	problem := optimize.Problem{
		Func: func(w []float64) float64 { return obj(nil, w) },
		Grad: func(grad, w []float64) { obj(grad, w) },
	}
	settings := &optimize.Settings{
		MajorIterations:   m.MaxIter,
		GradientThreshold: m.Tol,
	}
	res, err := optimize.Minimize(problem, make([]float64, k*stride), settings, &optimize.LBFGS{})
	if res == nil {
		return fmt.Errorf("logistic fit: %w", err)
	}
	// A line-search stall after progress still leaves a usable optimum.
	for _, v := range res.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("logistic fit: diverged (%v)", err)
		}
	}

	m.Weights = make([][]float64, k)
	for c := 0; c < k; c++ {
		m.Weights[c] = append([]float64(nil), res.X[c*stride:(c+1)*stride]...)
	}
	m.Iterations = res.Stats.MajorIterations
	return nil
}

// NumFeatures is the input width the model was fitted on.
func (m *LogisticRegression) NumFeatures() int {
	if len(m.Weights) == 0 {
		return 0
	}
	return len(m.Weights[0]) - 1
}

// PredictProba returns one probability row per input, ordered like Classes.
// Rows are scored in parallel.
func (m *LogisticRegression) PredictProba(X [][]float64) ([][]float64, error) {
	if len(m.Weights) == 0 {
		return nil, ErrNotFitted
	}
	d := m.NumFeatures()
	for i, row := range X {
		if len(row) != d {
			return nil, fmt.Errorf("row %d has %d features, model expects %d", i, len(row), d)
		}
	}
	out := make([][]float64, len(X))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range X {
		g.Go(func() error {
			out[i] = m.scoreRow(X[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *LogisticRegression) scoreRow(row []float64) []float64 {
	d := len(row)
	z := make([]float64, len(m.Weights))
	for c, wc := range m.Weights {
		s := wc[d]
		for j, v := range row {
			s += wc[j] * v
		}
		z[c] = s
	}
	lse := logSumExp(z)
	for c := range z {
		z[c] = math.Exp(z[c] - lse)
	}
	return z
}

// Predict returns the most probable class per row.
func (m *LogisticRegression) Predict(X [][]float64) ([]string, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(proba))
	for i, p := range proba {
		best := 0
		for c := range p {
			if p[c] > p[best] {
				best = c
			}
		}
		out[i] = m.Classes[best]
	}
	return out, nil
}

func logSumExp(z []float64) float64 {
	mx := math.Inf(-1)
	for _, v := range z {
		if v > mx {
			mx = v
		}
	}
	s := 0.0
	for _, v := range z {
		s += math.Exp(v - mx)
	}
	return mx + math.Log(s)
}

func uniqueSorted(y []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range y {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

package quantum

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
)

// SVC defaults.
const (
	DefaultC   = 1.0
	DefaultTol = 1e-3
)

const tau = 1e-12

// ErrNotFitted is returned by predictions on an unfitted SVC.
var ErrNotFitted = errors.New("svc is not fitted")

// PairModel is the binary decision function separating class Pos from
// class Neg: f(x) = Σ Coef[k]·K(Support[Index[k]], x) − Rho, positive votes
// for Pos.
type PairModel struct {
	Pos   int       `json:"pos"`
	Neg   int       `json:"neg"`
	Index []int     `json:"index"`
	Coef  []float64 `json:"coef"`
	Rho   float64   `json:"rho"`
}

// SVC is a one-vs-one support vector classifier over the fidelity kernel of
// a ZZ feature map. Only support vectors are kept; their statevectors are
// rebuilt once on first prediction after loading.
type SVC struct {
	C       float64      `json:"C"`
	Tol     float64      `json:"tol"`
	Map     ZZFeatureMap `json:"feature_map"`
	Classes []string     `json:"classes"`
	Support [][]float64  `json:"support"`
	Pairs   []PairModel  `json:"pairs"`

	once   sync.Once
	states []Statevector
	err    error
}

// NewSVC returns an unfitted classifier with C=1 and tolerance 1e-3.
func NewSVC(fm ZZFeatureMap) *SVC {
	return &SVC{C: DefaultC, Tol: DefaultTol, Map: fm}
}

func (s *SVC) kernel() FidelityKernel { return FidelityKernel{Map: s.Map} }

// Fit trains one binary machine per class pair on the precomputed Gram
// matrix of X.
func (s *SVC) Fit(ctx context.Context, X [][]float64, y []string) error {
	if len(X) == 0 {
		return fmt.Errorf("svc fit: empty input")
	}
	if len(X) != len(y) {
		return fmt.Errorf("svc fit: %d rows but %d labels", len(X), len(y))
	}
	if err := s.Map.Validate(); err != nil {
		return err
	}
	if s.C <= 0 {
		return fmt.Errorf("svc fit: C must be positive, got %v", s.C)
	}
	classes := uniqueSorted(y)
	if len(classes) < 2 {
		return fmt.Errorf("svc fit: need at least 2 classes, got %d", len(classes))
	}
	idx := make(map[string]int, len(classes))
	for c, name := range classes {
		idx[name] = c
	}
	byClass := make([][]int, len(classes))
	for i, lbl := range y {
		byClass[idx[lbl]] = append(byClass[idx[lbl]], i)
	}

	k := s.kernel()
	states, err := k.States(ctx, X)
	if err != nil {
		return err
	}
	K, err := k.Gram(ctx, states)
	if err != nil {
		return err
	}

	supportOf := make(map[int]int)
	var support []int
	var pairs []PairModel
	for p := 0; p < len(classes); p++ {
		for q := p + 1; q < len(classes); q++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			members := append(append([]int(nil), byClass[p]...), byClass[q]...)
			signs := make([]float64, len(members))
			for m := range members {
				signs[m] = -1
				if m < len(byClass[p]) {
					signs[m] = 1
				}
			}
			alpha, rho := solveBinary(K, members, signs, s.C, s.Tol)
			pm := PairModel{Pos: p, Neg: q, Rho: rho}
			for m, a := range alpha {
				if a == 0 {
					continue
				}
				g := members[m]
				sv, ok := supportOf[g]
				if !ok {
					sv = len(support)
					supportOf[g] = sv
					support = append(support, g)
				}
				pm.Index = append(pm.Index, sv)
				pm.Coef = append(pm.Coef, a*signs[m])
			}
			pairs = append(pairs, pm)
		}
	}

	s.Classes = classes
	s.Pairs = pairs
	s.Support = make([][]float64, len(support))
	svStates := make([]Statevector, len(support))
	for sv, g := range support {
		s.Support[sv] = append([]float64(nil), X[g]...)
		svStates[sv] = states[g]
	}
	s.once = sync.Once{}
	s.once.Do(func() { s.states = svStates })
	return nil
}

func (s *SVC) supportStates() ([]Statevector, error) {
	s.once.Do(func() {
		s.states, s.err = s.kernel().States(context.Background(), s.Support)
	})
	return s.states, s.err
}

// Decision returns, for each row, the decision value of every class pair in
// Pairs order.
func (s *SVC) Decision(ctx context.Context, X [][]float64) ([][]float64, error) {
	if len(s.Pairs) == 0 {
		return nil, ErrNotFitted
	}
	support, err := s.supportStates()
	if err != nil {
		return nil, err
	}
	k := s.kernel()
	states, err := k.States(ctx, X)
	if err != nil {
		return nil, err
	}
	cross, err := k.Cross(ctx, states, support)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, row := range cross {
		dec := make([]float64, len(s.Pairs))
		for p, pm := range s.Pairs {
			v := -pm.Rho
			for m, sv := range pm.Index {
				v += pm.Coef[m] * row[sv]
			}
			dec[p] = v
		}
		out[i] = dec
	}
	return out, nil
}

// Predict votes over all class pairs; ties go to the lower class index.
func (s *SVC) Predict(ctx context.Context, X [][]float64) ([]string, error) {
	dec, err := s.Decision(ctx, X)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(dec))
	votes := make([]int, len(s.Classes))
	for i, d := range dec {
		for c := range votes {
			votes[c] = 0
		}
		for p, pm := range s.Pairs {
			if d[p] > 0 {
				votes[pm.Pos]++
			} else {
				votes[pm.Neg]++
			}
		}
		best := 0
		for c := range votes {
			if votes[c] > votes[best] {
				best = c
			}
		}
		out[i] = s.Classes[best]
	}
	return out, nil
}

// NumFeatures is the width of the feature-map input.
func (s *SVC) NumFeatures() int { return s.Map.Qubits }

// solveBinary runs SMO with second-order working set selection on the
// sub-problem of K restricted to members, labels in signs (±1). It returns
// the dual coefficients and the bias term.
func solveBinary(K [][]float64, members []int, signs []float64, C, eps float64) ([]float64, float64) {
	n := len(members)
	alpha := make([]float64, n)
	G := make([]float64, n)
	for t := range G {
		G[t] = -1
	}
	kv := func(a, b int) float64 { return K[members[a]][members[b]] }
	q := func(a, b int) float64 { return signs[a] * signs[b] * kv(a, b) }
	isUpper := func(t int) bool { return alpha[t] >= C }
	isLower := func(t int) bool { return alpha[t] <= 0 }

	maxIter := max(10_000_000, 100*n)
	for iter := 0; iter < maxIter; iter++ {
		gmax, gmax2 := math.Inf(-1), math.Inf(-1)
		i := -1
		for t := 0; t < n; t++ {
			if signs[t] > 0 {
				if !isUpper(t) && -G[t] >= gmax {
					gmax, i = -G[t], t
				}
			} else if !isLower(t) && G[t] >= gmax {
				gmax, i = G[t], t
			}
		}
		if i < 0 {
			break
		}
		j := -1
		objMin := math.Inf(1)
		for t := 0; t < n; t++ {
			var diff float64
			if signs[t] > 0 {
				if isLower(t) {
					continue
				}
				diff = gmax + G[t]
				gmax2 = math.Max(gmax2, G[t])
			} else {
				if isUpper(t) {
					continue
				}
				diff = gmax - G[t]
				gmax2 = math.Max(gmax2, -G[t])
			}
			if diff <= 0 {
				continue
			}
			quad := kv(i, i) + kv(t, t) - 2*kv(i, t)
			if quad <= 0 {
				quad = tau
			}
			if obj := -diff * diff / quad; obj <= objMin {
				objMin, j = obj, t
			}
		}
		if gmax+gmax2 < eps || j < 0 {
			break
		}

		oldI, oldJ := alpha[i], alpha[j]
		if signs[i] != signs[j] {
			quad := kv(i, i) + kv(j, j) + 2*q(i, j)
			if quad <= 0 {
				quad = tau
			}
			delta := (-G[i] - G[j]) / quad
			diff := alpha[i] - alpha[j]
			alpha[i] += delta
			alpha[j] += delta
			if diff > 0 {
				if alpha[j] < 0 {
					alpha[j], alpha[i] = 0, diff
				}
			} else if alpha[i] < 0 {
				alpha[i], alpha[j] = 0, -diff
			}
			if diff > 0 {
				if alpha[i] > C {
					alpha[i], alpha[j] = C, C-diff
				}
			} else if alpha[j] > C {
				alpha[j], alpha[i] = C, C+diff
			}
		} else {
			quad := kv(i, i) + kv(j, j) - 2*q(i, j)
			if quad <= 0 {
				quad = tau
			}
			delta := (G[i] - G[j]) / quad
			sum := alpha[i] + alpha[j]
			alpha[i] -= delta
			alpha[j] += delta
			if sum > C {
				if alpha[i] > C {
					alpha[i], alpha[j] = C, sum-C
				}
			} else if alpha[j] < 0 {
				alpha[j], alpha[i] = 0, sum
			}
			if sum > C {
				if alpha[j] > C {
					alpha[j], alpha[i] = C, sum-C
				}
			} else if alpha[i] < 0 {
				alpha[i], alpha[j] = 0, sum
			}
		}

		dI, dJ := alpha[i]-oldI, alpha[j]-oldJ
		for t := 0; t < n; t++ {
			G[t] += q(i, t)*dI + q(j, t)*dJ
		}
	}

	// Bias from the free vectors, or the midpoint of the feasible interval.
	ub, lb := math.Inf(1), math.Inf(-1)
	nFree, sumFree := 0, 0.0
	for t := 0; t < n; t++ {
		yG := signs[t] * G[t]
		switch {
		case isUpper(t):
			if signs[t] < 0 {
				ub = math.Min(ub, yG)
			} else {
				lb = math.Max(lb, yG)
			}
		case isLower(t):
			if signs[t] > 0 {
				ub = math.Min(ub, yG)
			} else {
				lb = math.Max(lb, yG)
			}
		default:
			nFree++
			sumFree += yG
		}
	}
	var rho float64
	switch {
	case nFree > 0:
		rho = sumFree / float64(nFree)
	case math.IsInf(ub, 1):
		rho = lb
	case math.IsInf(lb, -1):
		rho = ub
	default:
		rho = (ub + lb) / 2
	}
	return alpha, rho
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

package quantum

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// FidelityKernel evaluates K(x,y) = |⟨ψ(x)|ψ(y)⟩|² for a feature map.
type FidelityKernel struct {
	Map ZZFeatureMap
}

// States maps every row to its statevector, in parallel.
func (k FidelityKernel) States(ctx context.Context, X [][]float64) ([]Statevector, error) {
	out := make([]Statevector, len(X))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range X {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := k.Map.State(X[i])
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Gram returns the symmetric kernel matrix of states with a unit diagonal.
// Rows are computed concurrently; each worker fills the upper triangle of
// its row and mirrors it.
func (k FidelityKernel) Gram(ctx context.Context, states []Statevector) ([][]float64, error) {
	n := len(states)
	K := make([][]float64, n)
	for i := range K {
		K[i] = make([]float64, n)
		K[i][i] = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for j := i + 1; j < n; j++ {
				v := Fidelity(states[i], states[j])
				K[i][j] = v
				K[j][i] = v
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return K, nil
}

// Cross returns the len(a)×len(b) kernel block between two state sets.
func (k FidelityKernel) Cross(ctx context.Context, a, b []Statevector) ([][]float64, error) {
	out := make([][]float64, len(a))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range a {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := make([]float64, len(b))
			for j := range b {
				row[j] = Fidelity(a[i], b[j])
			}
			out[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Package quantum holds the quantum-kernel classifier: a ZZ feature map
// simulated on a statevector, the fidelity kernel built on it, an SVC over
// that kernel, and the class/sample selection used to train it.
package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Entanglement layouts for the two-qubit ZZ blocks.
const (
	EntanglementLinear = "linear"
	EntanglementFull   = "full"
)

// MaxQubits bounds the simulator; the statevector holds 2^n amplitudes.
const MaxQubits = 20

// Statevector is the amplitude vector of an n-qubit register, indexed so
// that bit i of the index is the value of qubit i.
type Statevector []complex128

// ZZFeatureMap encodes a real vector of length Qubits into a quantum state.
// Each repetition applies a Hadamard layer, a single-qubit phase 2·x_i and,
// for every entangled pair, a phase 2·(π−x_i)(π−x_j) on the states where the
// two qubits differ.
type ZZFeatureMap struct {
	Qubits       int    `json:"qubits"`
	Reps         int    `json:"reps"`
	Entanglement string `json:"entanglement"`
}

// NewZZFeatureMap validates the layout and returns the map.
func NewZZFeatureMap(qubits, reps int, entanglement string) (ZZFeatureMap, error) {
	if entanglement == "" {
		entanglement = EntanglementLinear
	}
	fm := ZZFeatureMap{Qubits: qubits, Reps: reps, Entanglement: entanglement}
	return fm, fm.Validate()
}

// Validate checks qubit count, repetitions and entanglement layout.
func (fm ZZFeatureMap) Validate() error {
	if fm.Qubits < 1 || fm.Qubits > MaxQubits {
		return fmt.Errorf("feature map: qubits must be in [1,%d], got %d", MaxQubits, fm.Qubits)
	}
	if fm.Reps < 1 {
		return fmt.Errorf("feature map: reps must be positive, got %d", fm.Reps)
	}
	switch fm.Entanglement {
	case EntanglementLinear, EntanglementFull:
		return nil
	default:
		return fmt.Errorf("feature map: unknown entanglement %q", fm.Entanglement)
	}
}

// Pairs lists the entangled qubit pairs in application order.
func (fm ZZFeatureMap) Pairs() [][2]int {
	var out [][2]int
	for i := 0; i < fm.Qubits; i++ {
		if fm.Entanglement == EntanglementLinear {
			if i+1 < fm.Qubits {
				out = append(out, [2]int{i, i + 1})
			}
			continue
		}
		for j := i + 1; j < fm.Qubits; j++ {
			out = append(out, [2]int{i, j})
		}
	}
	return out
}

// State simulates the circuit on |0…0⟩ and returns the final statevector.
func (fm ZZFeatureMap) State(x []float64) (Statevector, error) {
	if len(x) != fm.Qubits {
		return nil, fmt.Errorf("feature map: input has %d values, want %d", len(x), fm.Qubits)
	}
	dim := 1 << fm.Qubits
	psi := make(Statevector, dim)
	psi[0] = 1

	// The ZZ layer is diagonal in the computational basis, so one phase per
	// basis state covers the whole layer.
	pairs := fm.Pairs()
	phase := make([]complex128, dim)
	for z := 0; z < dim; z++ {
		theta := 0.0
		for i := 0; i < fm.Qubits; i++ {
			if z>>i&1 == 1 {
				theta += 2 * x[i]
			}
		}
		for _, p := range pairs {
			if (z>>p[0]^z>>p[1])&1 == 1 {
				theta += 2 * (math.Pi - x[p[0]]) * (math.Pi - x[p[1]])
			}
		}
		phase[z] = cmplx.Exp(complex(0, theta))
	}

	for r := 0; r < fm.Reps; r++ {
		for q := 0; q < fm.Qubits; q++ {
			hadamard(psi, q)
		}
		for z := range psi {
			psi[z] *= phase[z]
		}
	}
	return psi, nil
}

func hadamard(psi Statevector, q int) {
	bit := 1 << q
	for z := range psi {
		if z&bit != 0 {
			continue
		}
		a, b := psi[z], psi[z|bit]
		psi[z] = (a + b) * math.Sqrt2 / 2
		psi[z|bit] = (a - b) * math.Sqrt2 / 2
	}
}

// Fidelity is |⟨a|b⟩|².
func Fidelity(a, b Statevector) float64 {
	var s complex128
	for i := range a {
		s += cmplx.Conj(a[i]) * b[i]
	}
	r := real(s)*real(s) + imag(s)*imag(s)
	if r > 1 {
		r = 1
	}
	return r
}

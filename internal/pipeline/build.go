package pipeline

import (
	"diagnosd/internal/classical"
	"diagnosd/internal/preprocess"
	"diagnosd/internal/quantum"
)

// AngleHigh is the upper bound of the feature-map angle domain.
const AngleHigh = 3.1415

// ClassicalOptions tunes the logistic regression stage. Zero values take
// the defaults.
type ClassicalOptions struct {
	C       float64 `json:"c" yaml:"c" toml:"c"`
	MaxIter int     `json:"max_iter" yaml:"max_iter" toml:"max_iter"`
}

// QuantumOptions tunes the reduction and feature map. Zero values take
// 6 qubits, 1 repetition and linear entanglement.
type QuantumOptions struct {
	Qubits       int     `json:"qubits" yaml:"qubits" toml:"qubits"`
	Reps         int     `json:"reps" yaml:"reps" toml:"reps"`
	Entanglement string  `json:"entanglement" yaml:"entanglement" toml:"entanglement"`
	C            float64 `json:"c" yaml:"c" toml:"c"`
}

// BuildClassicalPipeline returns an unfitted preprocessing + logistic
// regression pipeline.
func BuildClassicalPipeline(groups preprocess.FeatureGroups, opts ClassicalOptions) (*Pipeline, error) {
	ct, err := preprocess.NewColumnTransformer(groups)
	if err != nil {
		return nil, err
	}
	lr := classical.NewLogisticRegression()
	if opts.C > 0 {
		lr.C = opts.C
	}
	if opts.MaxIter > 0 {
		lr.MaxIter = opts.MaxIter
	}
	return &Pipeline{Kind: KindClassical, Preprocess: ct, Logistic: lr}, nil
}

// BuildQuantumPipeline returns an unfitted preprocessing → truncated SVD →
// min-max → fidelity-kernel SVC pipeline.
func BuildQuantumPipeline(groups preprocess.FeatureGroups, opts QuantumOptions) (*Pipeline, error) {
	if opts.Qubits == 0 {
		opts.Qubits = 6
	}
	if opts.Reps == 0 {
		opts.Reps = 1
	}
	ct, err := preprocess.NewColumnTransformer(groups)
	if err != nil {
		return nil, err
	}
	fm, err := quantum.NewZZFeatureMap(opts.Qubits, opts.Reps, opts.Entanglement)
	if err != nil {
		return nil, err
	}
	svd, err := preprocess.NewTruncatedSVD(opts.Qubits)
	if err != nil {
		return nil, err
	}
	mm, err := preprocess.NewMinMaxScaler(0, AngleHigh)
	if err != nil {
		return nil, err
	}
	svc := quantum.NewSVC(fm)
	if opts.C > 0 {
		svc.C = opts.C
	}
	return &Pipeline{Kind: KindQuantum, Preprocess: ct, SVD: svd, MinMax: mm, SVC: svc}, nil
}

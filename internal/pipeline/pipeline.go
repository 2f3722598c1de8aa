// Package pipeline composes preprocessing, optional dimensionality reduction
// and a classifier into one fitted unit, and persists it as a versioned
// artifact with an explicit feature schema.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"diagnosd/internal/classical"
	"diagnosd/internal/dataset"
	"diagnosd/internal/preprocess"
	"diagnosd/internal/quantum"
)

// Kind tells the two pipeline families apart.
type Kind string

const (
	KindClassical Kind = "classical"
	KindQuantum   Kind = "quantum"
)

var (
	// ErrProbaUnsupported is returned by PredictProba when the classifier
	// does not estimate probabilities.
	ErrProbaUnsupported = errors.New("classifier does not provide probabilities")
	// ErrNotFitted is returned when predicting with an unfitted pipeline.
	ErrNotFitted = errors.New("pipeline is not fitted")
)

// Pipeline is Preprocess → [SVD] → [MinMax] → classifier. Exactly one of
// Logistic and SVC is set.
type Pipeline struct {
	Kind       Kind                          `json:"kind"`
	Preprocess *preprocess.ColumnTransformer `json:"preprocess"`
	SVD        *preprocess.TruncatedSVD      `json:"svd,omitempty"`
	MinMax     *preprocess.MinMaxScaler      `json:"minmax,omitempty"`
	Logistic   *classical.LogisticRegression `json:"logistic,omitempty"`
	SVC        *quantum.SVC                  `json:"svc,omitempty"`
}

// Validate checks the stage layout.
func (p *Pipeline) Validate() error {
	if p.Preprocess == nil {
		return fmt.Errorf("pipeline %s: missing preprocessing stage", p.Kind)
	}
	if (p.Logistic == nil) == (p.SVC == nil) {
		return fmt.Errorf("pipeline %s: exactly one classifier is required", p.Kind)
	}
	return nil
}

// FeatureNames lists the input columns in the order PredictVector expects.
func (p *Pipeline) FeatureNames() []string { return p.Preprocess.InputColumns() }

// Classes returns the fitted labels in classifier order.
func (p *Pipeline) Classes() []string {
	switch {
	case p.Logistic != nil:
		return p.Logistic.Classes
	case p.SVC != nil:
		return p.SVC.Classes
	}
	return nil
}

// HasProba reports whether PredictProba is supported.
func (p *Pipeline) HasProba() bool { return p.Logistic != nil }

// Fit fits every stage in order on f and labels.
func (p *Pipeline) Fit(ctx context.Context, f *dataset.Frame, labels []string) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if f.Len() != len(labels) {
		return fmt.Errorf("fit: %d rows but %d labels", f.Len(), len(labels))
	}
	X, err := p.Preprocess.FitTransform(f)
	if err != nil {
		return fmt.Errorf("preprocess: %w", err)
	}
	if p.SVD != nil {
		if err := p.SVD.Fit(X); err != nil {
			return err
		}
		if X, err = p.SVD.Transform(X); err != nil {
			return err
		}
	}
	if p.MinMax != nil {
		if err := p.MinMax.Fit(X); err != nil {
			return err
		}
		if X, err = p.MinMax.Transform(X); err != nil {
			return err
		}
	}
	if p.Logistic != nil {
		return p.Logistic.Fit(X, labels)
	}
	return p.SVC.Fit(ctx, X, labels)
}

// transform runs every fitted stage up to the classifier.
func (p *Pipeline) transform(f *dataset.Frame) ([][]float64, error) {
	if p.Preprocess == nil || !p.Preprocess.Fitted {
		return nil, ErrNotFitted
	}
	X, err := p.Preprocess.Transform(f)
	if err != nil {
		return nil, err
	}
	if p.SVD != nil {
		if X, err = p.SVD.Transform(X); err != nil {
			return nil, err
		}
	}
	if p.MinMax != nil {
		if X, err = p.MinMax.Transform(X); err != nil {
			return nil, err
		}
	}
	return X, nil
}

// Predict returns one label per row of f.
func (p *Pipeline) Predict(ctx context.Context, f *dataset.Frame) ([]string, error) {
	X, err := p.transform(f)
	if err != nil {
		return nil, err
	}
	switch {
	case p.Logistic != nil:
		return p.Logistic.Predict(X)
	case p.SVC != nil:
		return p.SVC.Predict(ctx, X)
	}
	return nil, ErrNotFitted
}

// PredictProba returns class probabilities per row, ordered like Classes.
func (p *Pipeline) PredictProba(f *dataset.Frame) ([][]float64, error) {
	if !p.HasProba() {
		return nil, ErrProbaUnsupported
	}
	X, err := p.transform(f)
	if err != nil {
		return nil, err
	}
	return p.Logistic.PredictProba(X)
}

// VectorFrame turns raw feature vectors, ordered like FeatureNames, into a
// frame the preprocessing stage can read.
func (p *Pipeline) VectorFrame(rows [][]float64) (*dataset.Frame, error) {
	names := p.FeatureNames()
	cells := make([][]string, len(rows))
	for i, r := range rows {
		if len(r) != len(names) {
			return nil, fmt.Errorf("expected %d features, got %d", len(names), len(r))
		}
		c := make([]string, len(r))
		for j, v := range r {
			c[j] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		cells[i] = c
	}
	return dataset.NewFrame(names, cells)
}

// PredictVector classifies one feature vector. The probability slice is nil
// when the classifier has none.
func (p *Pipeline) PredictVector(ctx context.Context, features []float64) (string, []float64, error) {
	f, err := p.VectorFrame([][]float64{features})
	if err != nil {
		return "", nil, err
	}
	labels, err := p.Predict(ctx, f)
	if err != nil {
		return "", nil, err
	}
	if !p.HasProba() {
		return labels[0], nil, nil
	}
	proba, err := p.PredictProba(f)
	if err != nil {
		return "", nil, err
	}
	return labels[0], proba[0], nil
}

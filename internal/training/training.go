// Package training runs the two end-to-end training recipes: load the
// joined visit table, split it, fit a pipeline, time it and score it.
package training

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"diagnosd/internal/config"
	"diagnosd/internal/dataset"
	"diagnosd/internal/evaluate"
	"diagnosd/internal/pipeline"
	"diagnosd/internal/quantum"
)

// Result is a fitted pipeline together with how it was produced.
type Result struct {
	Pipeline        *pipeline.Pipeline
	Metrics         evaluate.Metrics
	Classes         []string
	TrainRows       int
	TestRows        int
	TrainDuration   time.Duration
	PredictDuration time.Duration
}

// Trainer carries the shared dependencies of both recipes.
type Trainer struct {
	Config config.Train
	Log    zerolog.Logger
	// Report receives the classification report; nil discards it.
	Report io.Writer
}

func (t *Trainer) load() (*dataset.Frame, error) {
	f, err := dataset.LoadData(t.Config.VisitsPath, t.Config.PatientsPath, t.Config.Target)
	if err != nil {
		return nil, err
	}
	t.Log.Info().Int("rows", f.Len()).Str("visits", t.Config.VisitsPath).Str("patients", t.Config.PatientsPath).Msg("data loaded")
	return f, nil
}

// TrainClassical fits the logistic regression pipeline on a stratified
// split of the joined data.
func (t *Trainer) TrainClassical(ctx context.Context) (*Result, error) {
	f, err := t.load()
	if err != nil {
		return nil, err
	}
	return t.TrainClassicalFrame(ctx, f)
}

// TrainClassicalFrame is TrainClassical over an already loaded frame.
func (t *Trainer) TrainClassicalFrame(ctx context.Context, f *dataset.Frame) (*Result, error) {
	cc := t.Config.Classical
	train, test, err := dataset.StratifiedSplit(f, t.Config.Target, cc.TestSize, cc.Seed)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	cols := cc.Groups.Columns()
	xTrain, err := train.Select(cols)
	if err != nil {
		return nil, err
	}
	xTest, err := test.Select(cols)
	if err != nil {
		return nil, err
	}
	yTrain, err := dataset.Labels(train, t.Config.Target)
	if err != nil {
		return nil, err
	}
	yTest, err := dataset.Labels(test, t.Config.Target)
	if err != nil {
		return nil, err
	}

	p, err := pipeline.BuildClassicalPipeline(cc.Groups, cc.Model)
	if err != nil {
		return nil, err
	}
	res := &Result{Pipeline: p, TrainRows: xTrain.Len(), TestRows: xTest.Len()}
	if err := t.fitAndScore(ctx, res, xTrain, yTrain, xTest, yTest); err != nil {
		return nil, err
	}
	t.Log.Info().Float64("accuracy", res.Metrics.Accuracy).Float64("f1_macro", res.Metrics.MacroF1).
		Dur("train", res.TrainDuration).Msg("classical model trained")
	return res, nil
}

// TrainQuantum fits the kernel SVC on balanced per-class samples of the k
// most frequent diagnoses.
func (t *Trainer) TrainQuantum(ctx context.Context) (*Result, error) {
	f, err := t.load()
	if err != nil {
		return nil, err
	}
	return t.TrainQuantumFrame(ctx, f)
}

// TrainQuantumFrame is TrainQuantum over an already loaded frame.
func (t *Trainer) TrainQuantumFrame(ctx context.Context, f *dataset.Frame) (*Result, error) {
	qc := t.Config.Quantum
	f, classes, err := quantum.SelectTopKClasses(f, t.Config.Target, qc.TopK)
	if err != nil {
		return nil, err
	}
	t.Log.Info().Strs("classes", classes).Msg("using classes")

	sets, err := quantum.BuildBalancedSets(f, qc.Groups.Columns(), t.Config.Target, qc.TrainPerClass, qc.TestPerClass, qc.Seed)
	if err != nil {
		return nil, err
	}
	p, err := pipeline.BuildQuantumPipeline(qc.Groups, qc.Model)
	if err != nil {
		return nil, err
	}
	res := &Result{Pipeline: p, Classes: classes, TrainRows: sets.XTrain.Len(), TestRows: sets.XTest.Len()}
	if err := t.fitAndScore(ctx, res, sets.XTrain, sets.YTrain, sets.XTest, sets.YTest); err != nil {
		return nil, err
	}
	t.Log.Info().Float64("accuracy", res.Metrics.Accuracy).Float64("f1_macro", res.Metrics.MacroF1).
		Dur("train", res.TrainDuration).Dur("predict", res.PredictDuration).Msg("quantum model trained")
	return res, nil
}

func (t *Trainer) fitAndScore(ctx context.Context, res *Result, xTrain *dataset.Frame, yTrain []string, xTest *dataset.Frame, yTest []string) error {
	start := time.Now()
	if err := res.Pipeline.Fit(ctx, xTrain, yTrain); err != nil {
		return fmt.Errorf("fit %s: %w", res.Pipeline.Kind, err)
	}
	res.TrainDuration = time.Since(start)
	if res.Classes == nil {
		res.Classes = res.Pipeline.Classes()
	}

	start = time.Now()
	if _, err := res.Pipeline.Predict(ctx, xTest); err != nil {
		return fmt.Errorf("predict %s: %w", res.Pipeline.Kind, err)
	}
	res.PredictDuration = time.Since(start)

	m, err := evaluate.Evaluate(ctx, res.Pipeline, xTest, yTest, t.Report)
	if err != nil {
		return err
	}
	res.Metrics = m
	return nil
}

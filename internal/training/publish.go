package training

import (
	"context"

	"diagnosd/internal/pipeline"
	"diagnosd/internal/runs"
)

// Publish saves res as an artifact at path and, when ledger is non-nil,
// records the run.
func Publish(ctx context.Context, res *Result, name, version, path string, ledger *runs.Store) (*pipeline.Artifact, error) {
	a, err := pipeline.NewArtifact(name, version, res.Pipeline, res.Metrics.Map())
	if err != nil {
		return nil, err
	}
	if err := pipeline.Save(path, a); err != nil {
		return nil, err
	}
	if ledger == nil {
		return a, nil
	}
	err = ledger.Record(ctx, &runs.Run{
		ArtifactID:     a.Schema.ID,
		Kind:           string(a.Schema.Kind),
		Path:           path,
		Accuracy:       res.Metrics.Accuracy,
		MacroF1:        res.Metrics.MacroF1,
		TrainSeconds:   res.TrainDuration.Seconds(),
		PredictSeconds: res.PredictDuration.Seconds(),
		TrainRows:      res.TrainRows,
		TestRows:       res.TestRows,
		CreatedAt:      a.Schema.TrainedAt,
	})
	return a, err
}

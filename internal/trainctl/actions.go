package trainctl

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"diagnosd/internal/common/fsutil"
	"diagnosd/internal/manager"
	"diagnosd/internal/pipeline"
	"diagnosd/internal/runs"
	"diagnosd/internal/synth"
	"diagnosd/internal/training"
)

// Indirection layer to allow stubbing in tests
var (
	fnTrainClassical = trainClassical
	fnTrainQuantum   = trainQuantum
	fnListRuns       = listRuns
	fnInspect        = inspectArtifact
	fnSynth          = writeSynth
)

func trainClassical(ctx context.Context, cfg *Config) error {
	return train(ctx, cfg, pipeline.KindClassical)
}

func trainQuantum(ctx context.Context, cfg *Config) error {
	return train(ctx, cfg, pipeline.KindQuantum)
}

func train(ctx context.Context, cfg *Config, kind pipeline.Kind) error {
	app, err := cfg.settings()
	if err != nil {
		return err
	}
	log := cfg.logger()
	tr := &training.Trainer{Config: app.Train, Log: log, Report: cfg.Out}

	var (
		res  *training.Result
		name string
		path string
	)
	switch kind {
	case pipeline.KindClassical:
		name, path = manager.ClassicalModel, filepath.Join(app.ModelsDir, app.ClassicalFile)
		res, err = tr.TrainClassical(ctx)
	default:
		name, path = manager.QuantumModel, filepath.Join(app.ModelsDir, app.QuantumFile)
		res, err = tr.TrainQuantum(ctx)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cfg.Out, "Training time: %.2fs\nPrediction time: %.2fs\n", res.TrainDuration.Seconds(), res.PredictDuration.Seconds())

	var ledger *runs.Store
	if app.Train.LedgerPath != "" {
		if ledger, err = runs.Open(app.Train.LedgerPath); err != nil {
			return err
		}
		defer ledger.Close()
	}
	if fsutil.PathExists(path) {
		log.Info().Str("path", path).Msg("replacing existing artifact")
	}
	a, err := training.Publish(ctx, res, name, cfg.Version, path, ledger)
	if err != nil {
		return err
	}
	log.Info().Str("id", a.Schema.ID).Str("path", path).Msg("model saved")
	fmt.Fprintf(cfg.Out, "Saved %s to %s (accuracy %.4f, f1_macro %.4f)\n", name, path, res.Metrics.Accuracy, res.Metrics.MacroF1)
	return nil
}

func listRuns(ctx context.Context, cfg *Config, kind string, limit int) error {
	app, err := cfg.settings()
	if err != nil {
		return err
	}
	if app.Train.LedgerPath == "" {
		return fmt.Errorf("no run ledger configured")
	}
	store, err := runs.Open(app.Train.LedgerPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var list []*runs.Run
	if kind != "" {
		r, err := store.Latest(ctx, kind)
		if err != nil {
			return err
		}
		if r != nil {
			list = append(list, r)
		}
	} else if list, err = store.List(ctx, limit); err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(cfg.Out, "no runs recorded")
		return nil
	}
	tw := tabwriter.NewWriter(cfg.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tACCURACY\tF1_MACRO\tTRAIN_S\tROWS\tCREATED\tPATH")
	for _, r := range list {
		fmt.Fprintf(tw, "%d\t%s\t%.4f\t%.4f\t%.2f\t%s\t%s\t%s\n",
			r.ID, r.Kind, r.Accuracy, r.MacroF1, r.TrainSeconds,
			strconv.Itoa(r.TrainRows)+"/"+strconv.Itoa(r.TestRows),
			r.CreatedAt.Local().Format(time.DateTime), r.Path)
	}
	return tw.Flush()
}

func inspectArtifact(_ context.Context, cfg *Config, path string) error {
	a, err := pipeline.Load(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cfg.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(a.Schema)
}

func writeSynth(_ context.Context, cfg *Config, dir string, seed synth.SeedConfig) error {
	visits, patients, err := synth.WriteFiles(dir, seed)
	if err != nil {
		return err
	}
	fmt.Fprintf(cfg.Out, "Wrote %s\nWrote %s\n", visits, patients)
	return nil
}

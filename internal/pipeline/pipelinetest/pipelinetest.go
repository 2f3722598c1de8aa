// Package pipelinetest writes small fitted artifacts for tests of the
// serving layers.
package pipelinetest

import (
	"context"
	"path/filepath"
	"testing"

	"diagnosd/internal/config"
	"diagnosd/internal/dataset"
	"diagnosd/internal/pipeline"
	"diagnosd/internal/synth"
)

// Frame returns a joined synthetic visit table and its labels.
func Frame(tb testing.TB, patients int) (*dataset.Frame, []string) {
	tb.Helper()
	seed := synth.DefaultSeedConfig()
	seed.Patients = patients
	visits, people, err := synth.Generate(seed)
	if err != nil {
		tb.Fatalf("generate: %v", err)
	}
	f, err := dataset.LeftJoin(visits, people, dataset.JoinKey)
	if err != nil {
		tb.Fatalf("join: %v", err)
	}
	y, err := dataset.Labels(f, "diagnosis_group")
	if err != nil {
		tb.Fatalf("labels: %v", err)
	}
	return f, y
}

// Artifacts fits a classical and a three-qubit quantum pipeline on the
// default feature groups and saves them under dir with the default file
// names. It returns both paths.
func Artifacts(tb testing.TB, dir string) (classicalPath, quantumPath string) {
	tb.Helper()
	f, y := Frame(tb, 40)
	ctx := context.Background()

	cp, err := pipeline.BuildClassicalPipeline(config.ClassicalGroups(), pipeline.ClassicalOptions{})
	if err != nil {
		tb.Fatalf("build classical: %v", err)
	}
	qp, err := pipeline.BuildQuantumPipeline(config.QuantumGroups(), pipeline.QuantumOptions{Qubits: 3})
	if err != nil {
		tb.Fatalf("build quantum: %v", err)
	}
	classicalPath = filepath.Join(dir, config.ClassicalFileName)
	quantumPath = filepath.Join(dir, config.QuantumFileName)
	for path, p := range map[string]*pipeline.Pipeline{classicalPath: cp, quantumPath: qp} {
		if err := p.Fit(ctx, f, y); err != nil {
			tb.Fatalf("fit %s: %v", p.Kind, err)
		}
		a, err := pipeline.NewArtifact(string(p.Kind), "test", p, map[string]float64{"accuracy": 1})
		if err != nil {
			tb.Fatalf("artifact: %v", err)
		}
		if err := pipeline.Save(path, a); err != nil {
			tb.Fatalf("save: %v", err)
		}
	}
	return classicalPath, quantumPath
}

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"diagnosd/internal/config"
	"diagnosd/internal/httpapi"
	"diagnosd/internal/manager"
	"diagnosd/internal/pipeline/pipelinetest"
	"diagnosd/internal/registry"
	"diagnosd/internal/runs"
	"diagnosd/internal/training"
)

// trainModels runs both training recipes on synthetic data with small
// settings and publishes the artifacts into a fresh models dir.
func trainModels(t *testing.T) string {
	t.Helper()
	f, _ := pipelinetest.Frame(t, 100)
	cfg := config.Default().Train
	cfg.Quantum.TopK = 3
	cfg.Quantum.TrainPerClass = 12
	cfg.Quantum.TestPerClass = 4
	cfg.Quantum.Model.Qubits = 3
	tr := &training.Trainer{Config: cfg, Log: zerolog.Nop()}
	ctx := context.Background()

	dir := t.TempDir()
	ledger, err := runs.Open(filepath.Join(dir, "runs.db"))
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	defer ledger.Close()

	classical, err := tr.TrainClassicalFrame(ctx, f)
	if err != nil {
		t.Fatalf("train classical: %v", err)
	}
	if _, err := training.Publish(ctx, classical, manager.ClassicalModel, "e2e", filepath.Join(dir, config.ClassicalFileName), ledger); err != nil {
		t.Fatalf("publish classical: %v", err)
	}
	quantum, err := tr.TrainQuantumFrame(ctx, f)
	if err != nil {
		t.Fatalf("train quantum: %v", err)
	}
	if _, err := training.Publish(ctx, quantum, manager.QuantumModel, "e2e", filepath.Join(dir, config.QuantumFileName), ledger); err != nil {
		t.Fatalf("publish quantum: %v", err)
	}
	return dir
}

// newServerForDir wires registry, manager and HTTP API the way the daemon does.
func newServerForDir(t *testing.T, modelsDir string) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	entries, err := registry.Load(modelsDir, []registry.Source{
		{Name: "classical", File: cfg.ClassicalFile},
		{Name: "quantum", File: cfg.QuantumFile},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("load models: %v", err)
	}
	st, err := manager.New(manager.Config{Entries: entries, Shim: cfg.Shim, CacheSize: 16})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	srv := httptest.NewServer(httpapi.NewMux(st))
	t.Cleanup(srv.Close)
	return srv
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

func httpPostJSON(t *testing.T, url string, body any) (*http.Response, []byte) {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp, out
}

// classicalVector is a 29-feature input in /features order.
func classicalVector() []float64 {
	v := make([]float64, 18)
	v[8], v[9], v[7] = 1, 1, 1 // chest pain, palpitations, dizziness
	return append(v, 37.0, 97, 105, 3, 1, 3, 2, 1, 1, 1, 0)
}

func quantumVector(facility float64) []float64 {
	v := classicalVector()
	out := append([]float64(nil), v[:24]...)
	out = append(out, facility)
	return append(out, v[24:]...)
}

package registry

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"

	"diagnosd/internal/config"
	"diagnosd/internal/pipeline/pipelinetest"
)

var sources = []Source{
	{Name: "classical", File: config.ClassicalFileName},
	{Name: "quantum", File: config.QuantumFileName},
}

func TestLoad_BothPresent(t *testing.T) {
	dir := t.TempDir()
	pipelinetest.Artifacts(t, dir)
	got, err := Load(dir, sources, zerolog.Nop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, name := range []string{"classical", "quantum"} {
		e := got[name]
		if !e.Loaded() || e.ErrorText() != nil {
			t.Fatalf("%s: loaded=%v err=%v", name, e.Loaded(), e.Err)
		}
	}
	if n := len(got["quantum"].Artifact.Schema.FeatureNames); n != 30 {
		t.Fatalf("quantum schema has %d features", n)
	}
}

func TestLoad_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	_, quantumPath := pipelinetest.Artifacts(t, dir)
	if err := os.Remove(filepath.Join(dir, config.ClassicalFileName)); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, err := Load(dir, sources, zerolog.Nop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c := got["classical"]
	if c.Loaded() {
		t.Fatalf("classical should not be loaded")
	}
	var nf NotFoundError
	if !errors.As(c.Err, &nf) || nf.Path != filepath.Join(dir, config.ClassicalFileName) {
		t.Fatalf("unexpected error: %v", c.Err)
	}
	if txt := c.ErrorText(); txt == nil || *txt != "File not found: "+nf.Path {
		t.Fatalf("unexpected error text: %v", txt)
	}
	if !got["quantum"].Loaded() || got["quantum"].Path != quantumPath {
		t.Fatalf("quantum must load independently: %+v", got["quantum"])
	}
}

func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.QuantumFileName), []byte("not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(dir, sources, zerolog.Nop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	q := got["quantum"]
	if q.Loaded() || q.Err == nil {
		t.Fatalf("corrupt artifact must record an error")
	}
	var nf NotFoundError
	if errors.As(q.Err, &nf) {
		t.Fatalf("corrupt file reported as missing: %v", q.Err)
	}
	if _, ok := got["classical"]; !ok {
		t.Fatalf("every source needs an entry")
	}
}

func TestLoad_DuplicateName(t *testing.T) {
	if _, err := Load(t.TempDir(), []Source{{Name: "a", File: "x.json"}, {Name: "a", File: "y.json"}}, zerolog.Nop()); err == nil {
		t.Fatalf("expected duplicate name error")
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"b.json", "a.JSON", "runs.db", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, f), []byte(""), 0o644); err != nil {
			t.Fatalf("write temp file: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.json"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	paths, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if len(paths) != 2 || filepath.Base(paths[0]) != "a.JSON" || filepath.Base(paths[1]) != "b.json" {
		t.Fatalf("unexpected paths: %v", paths)
	}
	if _, err := ScanDir(filepath.Join(dir, "absent")); err == nil {
		t.Fatalf("expected read dir error")
	}
}

func TestScanDir_ExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir on this platform: %v", err)
	}
	hTmp, err := os.MkdirTemp(home, "diagnosd-registry-*")
	if err != nil {
		t.Skipf("cannot create temp under home: %v", err)
	}
	defer os.RemoveAll(hTmp)
	if err := os.WriteFile(filepath.Join(hTmp, "x.json"), []byte(""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tildePath := "~/" + filepath.Base(hTmp)
	if runtime.GOOS == "windows" {
		tildePath = filepath.Join("~", filepath.Base(hTmp))
	}
	paths, err := ScanDir(tildePath)
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "x.json" {
		t.Fatalf("unexpected paths: %v", paths)
	}
}

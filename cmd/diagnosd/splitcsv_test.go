package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "c"}},
		{"", nil},
	}
	for _, c := range cases {
		got := splitCSV(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
			}
		}
	}
}

func envOf(kv map[string]string) func(string) string {
	return func(k string) string { return kv[k] }
}

func TestResolveConfig_Defaults(t *testing.T) {
	cfg, opts, err := resolveConfig(nil, envOf(nil))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Addr != ":8000" || cfg.ModelsDir != "models" || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if opts.requestLog != "info" || opts.predictTimeout != 0 {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestResolveConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diagnosd.yaml")
	if err := os.WriteFile(path, []byte("addr: \":7000\"\nmodels_dir: from-file\ncache_size: 8\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, _, err := resolveConfig([]string{"--config", path}, envOf(nil))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Addr != ":7000" || cfg.ModelsDir != "from-file" || cfg.CacheSize != 8 {
		t.Fatalf("file values not applied: %+v", cfg)
	}

	cfg, _, err = resolveConfig([]string{"--config", path}, envOf(map[string]string{
		"PORT": "9000", "DIAGNOSD_MODELS_DIR": "from-env", "DIAGNOSD_LOG_LEVEL": "debug",
	}))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.ModelsDir != "from-env" || cfg.LogLevel != "debug" {
		t.Fatalf("env values not applied: %+v", cfg)
	}

	cfg, opts, err := resolveConfig([]string{
		"--config", path, "--addr", "127.0.0.1:1234", "--cors-origins", "https://a.example, https://b.example",
		"--predict-timeout", "2s", "--log-pretty",
	}, envOf(map[string]string{"DIAGNOSD_ADDR": "0.0.0.0:1", "PORT": "9000"}))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Addr != "127.0.0.1:1234" || len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("flag values not applied: %+v", cfg)
	}
	if !opts.logPretty || opts.predictTimeout.Seconds() != 2 {
		t.Fatalf("options: %+v", opts)
	}
}

func TestResolveConfig_Errors(t *testing.T) {
	if _, _, err := resolveConfig([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, envOf(nil)); err == nil {
		t.Fatalf("expected missing config error")
	}
	if _, _, err := resolveConfig([]string{"--nope"}, envOf(nil)); err == nil {
		t.Fatalf("expected unknown flag error")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "warn", false)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"service":"diagnosd"`) {
		t.Fatalf("unexpected log output: %q", out)
	}

	buf.Reset()
	pretty := newLogger(&buf, "bogus", true)
	pretty.Info().Msg("pretty")
	if !strings.Contains(buf.String(), "pretty") || strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("expected console output at info: %q", buf.String())
	}
}

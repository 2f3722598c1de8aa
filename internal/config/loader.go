package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"diagnosd/internal/pipeline"
	"diagnosd/internal/preprocess"
)

// Config holds runtime parameters for the prediction service and the
// training commands. Load starts from Default, so a file only needs the
// keys it changes.
type Config struct {
	Addr          string   `json:"addr" yaml:"addr" toml:"addr"`
	ModelsDir     string   `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	ClassicalFile string   `json:"classical_file" yaml:"classical_file" toml:"classical_file"`
	QuantumFile   string   `json:"quantum_file" yaml:"quantum_file" toml:"quantum_file"`
	LogLevel      string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	CORSOrigins   []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	MaxBodyBytes  int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	CacheSize     int      `json:"cache_size" yaml:"cache_size" toml:"cache_size"`
	Shim          Shim     `json:"shim" yaml:"shim" toml:"shim"`
	Train         Train    `json:"train" yaml:"train" toml:"train"`
}

// Shim pads quantum requests that are one feature short with Value at
// Index.
type Shim struct {
	Enabled bool    `json:"enabled" yaml:"enabled" toml:"enabled"`
	Index   int     `json:"index" yaml:"index" toml:"index"`
	Value   float64 `json:"value" yaml:"value" toml:"value"`
}

// Train configures both training pipelines.
type Train struct {
	VisitsPath   string         `json:"visits_path" yaml:"visits_path" toml:"visits_path"`
	PatientsPath string         `json:"patients_path" yaml:"patients_path" toml:"patients_path"`
	Target       string         `json:"target" yaml:"target" toml:"target"`
	LedgerPath   string         `json:"ledger_path" yaml:"ledger_path" toml:"ledger_path"`
	Classical    ClassicalTrain `json:"classical" yaml:"classical" toml:"classical"`
	Quantum      QuantumTrain   `json:"quantum" yaml:"quantum" toml:"quantum"`
}

// ClassicalTrain configures the stratified-split logistic regression run.
type ClassicalTrain struct {
	Groups   preprocess.FeatureGroups  `json:"groups" yaml:"groups" toml:"groups"`
	TestSize float64                   `json:"test_size" yaml:"test_size" toml:"test_size"`
	Seed     int64                     `json:"seed" yaml:"seed" toml:"seed"`
	Model    pipeline.ClassicalOptions `json:"model" yaml:"model" toml:"model"`
}

// QuantumTrain configures the balanced top-k kernel SVC run.
type QuantumTrain struct {
	Groups        preprocess.FeatureGroups `json:"groups" yaml:"groups" toml:"groups"`
	TopK          int                      `json:"top_k" yaml:"top_k" toml:"top_k"`
	TrainPerClass int                      `json:"train_per_class" yaml:"train_per_class" toml:"train_per_class"`
	TestPerClass  int                      `json:"test_per_class" yaml:"test_per_class" toml:"test_per_class"`
	Seed          int64                    `json:"seed" yaml:"seed" toml:"seed"`
	Model         pipeline.QuantumOptions  `json:"model" yaml:"model" toml:"model"`
}

// Load reads a configuration file based on its extension over Default().
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	if c.Shim.Enabled && c.Shim.Index < 0 {
		return fmt.Errorf("shim index must be non-negative, got %d", c.Shim.Index)
	}
	t := c.Train
	if t.Classical.TestSize <= 0 || t.Classical.TestSize >= 1 {
		return fmt.Errorf("classical test_size must be in (0,1), got %v", t.Classical.TestSize)
	}
	if t.Quantum.TopK <= 0 {
		return fmt.Errorf("quantum top_k must be positive, got %d", t.Quantum.TopK)
	}
	if t.Quantum.TrainPerClass <= 0 || t.Quantum.TestPerClass <= 0 {
		return fmt.Errorf("quantum per-class sizes must be positive")
	}
	if err := t.Classical.Groups.Validate(); err != nil {
		return fmt.Errorf("classical groups: %w", err)
	}
	if err := t.Quantum.Groups.Validate(); err != nil {
		return fmt.Errorf("quantum groups: %w", err)
	}
	return nil
}

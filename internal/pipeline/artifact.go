package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"diagnosd/internal/common/fsutil"
)

// FormatVersion is the artifact layout written by Save.
const FormatVersion = 1

// Schema describes what a serving process needs to know about an artifact
// without inspecting the pipeline itself.
type Schema struct {
	ID            string             `json:"id"`
	Kind          Kind               `json:"kind"`
	Name          string             `json:"name"`
	Version       string             `json:"version,omitempty"`
	FeatureNames  []string           `json:"feature_names"`
	Classes       []string           `json:"classes"`
	Probabilities bool               `json:"probabilities"`
	TrainedAt     time.Time          `json:"trained_at"`
	Metrics       map[string]float64 `json:"metrics,omitempty"`
}

// Artifact is the on-disk form of a fitted pipeline.
type Artifact struct {
	Format   int       `json:"format"`
	Schema   Schema    `json:"schema"`
	Pipeline *Pipeline `json:"pipeline"`
}

// NewArtifact wraps a fitted pipeline and derives its schema.
func NewArtifact(name, version string, p *Pipeline, metrics map[string]float64) (*Artifact, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !p.Preprocess.Fitted || len(p.Classes()) == 0 {
		return nil, ErrNotFitted
	}
	return &Artifact{
		Format: FormatVersion,
		Schema: Schema{
			ID:            uuid.NewString(),
			Kind:          p.Kind,
			Name:          name,
			Version:       version,
			FeatureNames:  p.FeatureNames(),
			Classes:       append([]string(nil), p.Classes()...),
			Probabilities: p.HasProba(),
			TrainedAt:     time.Now().UTC(),
			Metrics:       metrics,
		},
		Pipeline: p,
	}, nil
}

// Save writes a as JSON, atomically replacing any existing file.
func Save(path string, a *Artifact) error {
	b, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := fsutil.WriteFileAtomic(path, b, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	return nil
}

// Load reads and validates an artifact. A missing file surfaces as an error
// matching os.ErrNotExist.
func Load(path string) (*Artifact, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var a Artifact
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", path, err)
	}
	if a.Format != FormatVersion {
		return nil, fmt.Errorf("artifact %s: unsupported format version %d", path, a.Format)
	}
	if a.Pipeline == nil {
		return nil, fmt.Errorf("artifact %s: no pipeline", path)
	}
	if err := a.Pipeline.Validate(); err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	if !a.Pipeline.Preprocess.Fitted {
		return nil, fmt.Errorf("artifact %s: %w", path, ErrNotFitted)
	}
	if got := a.Pipeline.FeatureNames(); len(got) != len(a.Schema.FeatureNames) {
		return nil, fmt.Errorf("artifact %s: schema lists %d features, pipeline reads %d", path, len(a.Schema.FeatureNames), len(got))
	}
	return &a, nil
}

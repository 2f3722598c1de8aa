package types

import "time"

// Model describes one configured model artifact and its load state.
type Model struct {
	// Serving name of the model.
	// example: classical
	Name string `json:"name" example:"classical"`
	// Pipeline family.
	// example: classical
	Kind string `json:"kind,omitempty" example:"classical"`
	// Artifact path on disk.
	// example: models/classical_logistic_regression_FULL.json
	Path string `json:"path" example:"models/classical_logistic_regression_FULL.json"`
	// Whether the artifact loaded.
	Loaded bool `json:"loaded"`
	// Load error, when not loaded.
	Error string `json:"error,omitempty"`
	// Artifact identifier.
	ID string `json:"id,omitempty"`
	// Number of input features.
	// example: 29
	NFeatures int `json:"n_features,omitempty" example:"29"`
	// Class labels the model predicts.
	Classes []string `json:"classes,omitempty"`
	// Whether predictions carry probabilities.
	Probabilities bool `json:"probabilities"`
	// Training time of the artifact.
	TrainedAt *time.Time `json:"trained_at,omitempty"`
	// Held-out scores recorded at training time.
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

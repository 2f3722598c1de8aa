package manager

import (
	"diagnosd/internal/config"
	"diagnosd/internal/registry"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultClassicalName = "classical"
	defaultQuantumName   = "quantum"

	// FallbackFeatureCount is what GET /features reports while the classical
	// model is unavailable.
	FallbackFeatureCount = 29
)

// Response model names.
const (
	ClassicalModel = "classical_logistic_regression"
	QuantumModel   = "quantum_qsvc"
	SuccessMessage = "Prediction successful"
)

// Config encapsulates everything a State is built from.
type Config struct {
	// Entries are the registry load outcomes, keyed by model name.
	Entries map[string]*registry.Entry
	// Registry names of the two models; empty means "classical" and "quantum".
	ClassicalName string
	QuantumName   string
	// Shim pads quantum inputs that are one feature short.
	Shim config.Shim
	// CacheSize enables an LRU prediction cache when positive.
	CacheSize int
	// Events receives lifecycle and prediction events; nil drops them.
	Events EventPublisher
}

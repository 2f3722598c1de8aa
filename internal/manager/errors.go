package manager

import (
	"errors"
	"net/http"
)

// modelNotLoadedError signals a prediction against a model whose artifact
// failed to load, for 503 mapping.
type modelNotLoadedError struct {
	label string
	cause string
}

func (e modelNotLoadedError) Error() string {
	return e.label + " model not loaded: " + e.cause
}

func (e modelNotLoadedError) StatusCode() int { return http.StatusServiceUnavailable }

// IsModelNotLoaded reports whether err indicates an unavailable model (return 503).
func IsModelNotLoaded(err error) bool {
	var e modelNotLoadedError
	return errors.As(err, &e)
}

// predictionError wraps any failure while running a loaded pipeline.
type predictionError struct{ err error }

func (e predictionError) Error() string { return "Prediction failed: " + e.err.Error() }

func (e predictionError) Unwrap() error { return e.err }

func (e predictionError) StatusCode() int { return http.StatusInternalServerError }

// IsPredictionError reports whether err came from a loaded model failing to
// predict (return 500).
func IsPredictionError(err error) bool {
	var e predictionError
	return errors.As(err, &e)
}

package manager

import (
	"context"
	"strconv"
	"strings"

	"diagnosd/pkg/types"
)

// shim pads quantum inputs that were built for the classical feature list,
// which lacks one column of the quantum list.
type shim struct {
	enabled bool
	index   int
	value   float64
}

// apply inserts the fill value when features is exactly one shorter than
// want. Any other length passes through unchanged.
func (sh shim) apply(features []float64, want int) ([]float64, bool) {
	if !sh.enabled || len(features) != want-1 || sh.index < 0 || sh.index > len(features) {
		return features, false
	}
	out := make([]float64, 0, want)
	out = append(out, features[:sh.index]...)
	out = append(out, sh.value)
	out = append(out, features[sh.index:]...)
	return out, true
}

type cachedPrediction struct {
	label string
	proba []float64
}

// PredictClassical runs the logistic regression pipeline on one vector.
func (s *State) PredictClassical(ctx context.Context, features []float64) (types.PredictResponse, error) {
	return s.predict(ctx, &s.classical, features, false)
}

// PredictQuantum runs the kernel SVC pipeline on one vector, padding it
// first when the shim applies.
func (s *State) PredictQuantum(ctx context.Context, features []float64) (types.PredictResponse, error) {
	return s.predict(ctx, &s.quantum, features, true)
}

func (s *State) predict(ctx context.Context, sl *slot, features []float64, pad bool) (types.PredictResponse, error) {
	a := sl.artifact()
	if a == nil {
		return types.PredictResponse{}, modelNotLoadedError{label: sl.label, cause: sl.loadError()}
	}
	padded := false
	if pad {
		features, padded = s.shim.apply(features, len(a.Schema.FeatureNames))
	}

	var key string
	if s.cache != nil {
		key = cacheKey(sl.name, features)
		if c, ok := s.cache.Get(key); ok {
			s.events.Publish(Event{Name: EventPrediction, Model: sl.name, Fields: map[string]any{
				"outcome": "ok", "cached": true, "padded": padded,
			}})
			return s.response(sl, a.Schema.Classes, c), nil
		}
	}

	label, proba, err := a.Pipeline.PredictVector(ctx, features)
	if err != nil {
		s.events.Publish(Event{Name: EventPrediction, Model: sl.name, Fields: map[string]any{
			"outcome": "error", "error": err.Error(),
		}})
		return types.PredictResponse{}, predictionError{err: err}
	}
	c := cachedPrediction{label: label, proba: proba}
	if s.cache != nil {
		s.cache.Add(key, c)
	}
	s.events.Publish(Event{Name: EventPrediction, Model: sl.name, Fields: map[string]any{
		"outcome": "ok", "cached": false, "padded": padded,
	}})
	return s.response(sl, a.Schema.Classes, c), nil
}

func (s *State) response(sl *slot, classes []string, c cachedPrediction) types.PredictResponse {
	resp := types.PredictResponse{Model: sl.response, Prediction: c.label, Message: SuccessMessage}
	if c.proba != nil {
		resp.Probabilities = append([]float64(nil), c.proba...)
		resp.Classes = append([]string(nil), classes...)
	}
	return resp
}

func cacheKey(model string, features []float64) string {
	var b strings.Builder
	b.WriteString(model)
	b.WriteByte(':')
	for i, v := range features {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}

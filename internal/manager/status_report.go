package manager

import (
	"runtime"
	"runtime/debug"
	"sync"

	"diagnosd/pkg/types"
)

const gonumModule = "gonum.org/v1/gonum"

var (
	versionsOnce sync.Once
	versions     map[string]string
)

// buildVersions reads the component versions embedded in the binary.
func buildVersions() map[string]string {
	versionsOnce.Do(func() {
		versions = map[string]string{"service": "unknown", "go": runtime.Version(), "gonum": "unknown"}
		bi, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		if v := bi.Main.Version; v != "" {
			versions["service"] = v
		}
		for _, d := range bi.Deps {
			if d.Path == gonumModule {
				versions["gonum"] = d.Version
			}
		}
	})
	out := make(map[string]string, len(versions))
	for k, v := range versions {
		out[k] = v
	}
	return out
}

// Health builds the GET /health body. The service reports healthy whatever
// the model states are.
func (s *State) Health() types.HealthResponse {
	resp := types.HealthResponse{
		Status:       "healthy",
		Versions:     buildVersions(),
		ModelsLoaded: make(map[string]bool, 2),
		Errors:       make(map[string]*string, 2),
	}
	for _, sl := range []*slot{&s.classical, &s.quantum} {
		resp.ModelsLoaded[sl.name] = sl.artifact() != nil
		if sl.artifact() == nil {
			msg := sl.loadError()
			resp.Errors[sl.name] = &msg
		} else {
			resp.Errors[sl.name] = nil
		}
	}
	return resp
}

// Features lists the classical input columns. Without a classical model it
// reports FallbackFeatureCount and an empty name list.
func (s *State) Features() types.FeaturesResponse {
	if a := s.classical.artifact(); a != nil {
		names := append([]string(nil), a.Schema.FeatureNames...)
		return types.FeaturesResponse{NFeatures: len(names), FeatureNames: names}
	}
	return types.FeaturesResponse{NFeatures: FallbackFeatureCount, FeatureNames: []string{}}
}

// Models describes both configured models, classical first.
func (s *State) Models() []types.Model {
	out := make([]types.Model, 0, 2)
	for _, sl := range []*slot{&s.classical, &s.quantum} {
		m := types.Model{Name: sl.name}
		if sl.entry != nil {
			m.Path = sl.entry.Path
		}
		a := sl.artifact()
		if a == nil {
			m.Error = sl.loadError()
			out = append(out, m)
			continue
		}
		trained := a.Schema.TrainedAt
		m.Loaded = true
		m.Kind = string(a.Schema.Kind)
		m.ID = a.Schema.ID
		m.NFeatures = len(a.Schema.FeatureNames)
		m.Classes = append([]string(nil), a.Schema.Classes...)
		m.Probabilities = a.Schema.Probabilities
		if !trained.IsZero() {
			m.TrainedAt = &trained
		}
		if len(a.Schema.Metrics) > 0 {
			m.Metrics = make(map[string]float64, len(a.Schema.Metrics))
			for k, v := range a.Schema.Metrics {
				m.Metrics[k] = v
			}
		}
		out = append(out, m)
	}
	return out
}

package manager

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"diagnosd/internal/pipeline"
	"diagnosd/internal/registry"
)

// slot is one configured model as the State sees it.
type slot struct {
	name     string
	label    string // "Classical" or "Quantum", used in error text
	response string // model name reported in prediction responses
	entry    *registry.Entry
}

func (s *slot) artifact() *pipeline.Artifact {
	if s.entry == nil {
		return nil
	}
	return s.entry.Artifact
}

func (s *slot) loadError() string {
	switch {
	case s.entry == nil:
		return "not configured"
	case s.entry.Err != nil:
		return s.entry.Err.Error()
	default:
		return ""
	}
}

// State is the immutable serving state shared by all handlers.
type State struct {
	classical slot
	quantum   slot
	shim      shim
	cache     *lru.Cache[string, cachedPrediction]
	events    EventPublisher
}

// New builds a State from registry entries. Missing entries are reported as
// not loaded; they are never an error here.
func New(cfg Config) (*State, error) {
	cn, qn := cfg.ClassicalName, cfg.QuantumName
	if cn == "" {
		cn = defaultClassicalName
	}
	if qn == "" {
		qn = defaultQuantumName
	}
	if cn == qn {
		return nil, fmt.Errorf("classical and quantum models share the name %q", cn)
	}
	s := &State{
		classical: slot{name: cn, label: "Classical", response: ClassicalModel, entry: cfg.Entries[cn]},
		quantum:   slot{name: qn, label: "Quantum", response: QuantumModel, entry: cfg.Entries[qn]},
		shim:      shim{enabled: cfg.Shim.Enabled, index: cfg.Shim.Index, value: cfg.Shim.Value},
		events:    cfg.Events,
	}
	if s.events == nil {
		s.events = noopPublisher{}
	}
	if cfg.CacheSize > 0 {
		c, err := lru.New[string, cachedPrediction](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("prediction cache: %w", err)
		}
		s.cache = c
	}
	for _, sl := range []*slot{&s.classical, &s.quantum} {
		if a := sl.artifact(); a != nil {
			s.events.Publish(Event{Name: EventModelReady, Model: sl.name, Fields: map[string]any{
				"id": a.Schema.ID, "features": len(a.Schema.FeatureNames),
			}})
			continue
		}
		s.events.Publish(Event{Name: EventModelUnavailable, Model: sl.name, Fields: map[string]any{"error": sl.loadError()}})
	}
	return s, nil
}

// Ready reports whether at least one model can serve predictions.
func (s *State) Ready() bool {
	return s.classical.artifact() != nil || s.quantum.artifact() != nil
}

// CacheLen is the number of cached predictions; zero when caching is off.
func (s *State) CacheLen() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.Len()
}

// Package registry loads the model artifacts a server is configured with.
// Each model loads independently: a missing or broken artifact is recorded
// against that model and never prevents the others from serving.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"diagnosd/internal/common/fsutil"
	"diagnosd/internal/pipeline"
)

// Source names a model and the artifact file it loads from.
type Source struct {
	Name string
	File string
}

// NotFoundError is the load outcome of a model whose file is absent.
type NotFoundError struct {
	Path string
}

func (e NotFoundError) Error() string { return "File not found: " + e.Path }

// Entry is the load outcome of one model. Exactly one of Artifact and Err
// is set.
type Entry struct {
	Name     string
	Path     string
	Artifact *pipeline.Artifact
	Err      error
}

// Loaded reports whether the artifact is usable.
func (e *Entry) Loaded() bool { return e != nil && e.Artifact != nil }

// ErrorText is the load error as a nullable string.
func (e *Entry) ErrorText() *string {
	if e == nil || e.Err == nil {
		return nil
	}
	s := e.Err.Error()
	return &s
}

// Load resolves dir and attempts every source. The returned map always holds
// one entry per source, whatever the outcome.
func Load(dir string, sources []Source, log zerolog.Logger) (map[string]*Entry, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Entry, len(sources))
	for _, s := range sources {
		if _, dup := out[s.Name]; dup {
			return nil, fmt.Errorf("model %q configured twice", s.Name)
		}
		e := &Entry{Name: s.Name, Path: filepath.Join(base, s.File)}
		a, err := pipeline.Load(e.Path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			e.Err = NotFoundError{Path: e.Path}
			log.Warn().Str("model", s.Name).Str("path", e.Path).Msg("model file not found")
		case err != nil:
			e.Err = err
			log.Error().Err(err).Str("model", s.Name).Msg("model failed to load")
		default:
			e.Artifact = a
			log.Info().Str("model", s.Name).Str("id", a.Schema.ID).Int("features", len(a.Schema.FeatureNames)).
				Strs("classes", a.Schema.Classes).Msg("model loaded")
		}
		out[s.Name] = e
	}
	return out, nil
}

// ScanDir lists the artifact files (*.json) in dir, sorted by name.
func ScanDir(dir string) ([]string, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(abs, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

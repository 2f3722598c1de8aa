// Package preprocess builds the column-wise transforms applied before a
// classifier: imputation, scaling, one-hot encoding, truncated SVD and
// range rescaling. Every fitted transform is a plain struct so it can be
// persisted inside a model artifact.
package preprocess

import "fmt"

// FeatureGroups partitions the model input columns by the transform they get.
// Symptom, Vital and Binary columns take the numeric route; Categorical
// columns are one-hot encoded.
type FeatureGroups struct {
	Symptom     []string `json:"symptom" yaml:"symptom" toml:"symptom"`
	Vital       []string `json:"vital" yaml:"vital" toml:"vital"`
	Categorical []string `json:"categorical" yaml:"categorical" toml:"categorical"`
	Binary      []string `json:"binary" yaml:"binary" toml:"binary"`
}

// Columns returns the model input order: symptom, vital, categorical, binary.
func (g FeatureGroups) Columns() []string {
	out := make([]string, 0, len(g.Symptom)+len(g.Vital)+len(g.Categorical)+len(g.Binary))
	out = append(out, g.Symptom...)
	out = append(out, g.Vital...)
	out = append(out, g.Categorical...)
	out = append(out, g.Binary...)
	return out
}

// Numeric returns the columns of the numeric route in output order.
func (g FeatureGroups) Numeric() []string {
	out := make([]string, 0, len(g.Symptom)+len(g.Vital)+len(g.Binary))
	out = append(out, g.Symptom...)
	out = append(out, g.Vital...)
	out = append(out, g.Binary...)
	return out
}

// Validate checks that the groups are disjoint and not all empty.
func (g FeatureGroups) Validate() error {
	seen := make(map[string]string)
	check := func(group string, cols []string) error {
		for _, c := range cols {
			if c == "" {
				return fmt.Errorf("%s group: empty column name", group)
			}
			if prev, ok := seen[c]; ok {
				return fmt.Errorf("column %q listed in both %s and %s groups", c, prev, group)
			}
			seen[c] = group
		}
		return nil
	}
	if err := check("symptom", g.Symptom); err != nil {
		return err
	}
	if err := check("vital", g.Vital); err != nil {
		return err
	}
	if err := check("categorical", g.Categorical); err != nil {
		return err
	}
	if err := check("binary", g.Binary); err != nil {
		return err
	}
	if len(seen) == 0 {
		return fmt.Errorf("no feature columns configured")
	}
	return nil
}

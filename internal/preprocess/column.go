package preprocess

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"diagnosd/internal/dataset"
)

// ErrNotFitted is returned when a transform is used before Fit.
var ErrNotFitted = errors.New("transform is not fitted")

// NumericColumn is the fitted state of one numeric column: the most frequent
// training value used for imputation and the divisor of the scaler.
type NumericColumn struct {
	Name  string  `json:"name"`
	Fill  float64 `json:"fill"`
	Scale float64 `json:"scale"`
}

// CategoricalColumn is the fitted state of one categorical column.
type CategoricalColumn struct {
	Name       string   `json:"name"`
	Fill       string   `json:"fill"`
	Categories []string `json:"categories"`
}

// ColumnTransformer routes named columns through the numeric or categorical
// transform and concatenates the results, numeric block first. Columns not
// named by the feature groups are dropped.
type ColumnTransformer struct {
	Inputs      []string            `json:"inputs"`
	Numeric     []NumericColumn     `json:"numeric"`
	Categorical []CategoricalColumn `json:"categorical"`
	Fitted      bool                `json:"fitted"`
}

// NewColumnTransformer prepares an unfitted transformer for groups.
func NewColumnTransformer(groups FeatureGroups) (*ColumnTransformer, error) {
	if err := groups.Validate(); err != nil {
		return nil, err
	}
	ct := &ColumnTransformer{Inputs: groups.Columns()}
	for _, c := range groups.Numeric() {
		ct.Numeric = append(ct.Numeric, NumericColumn{Name: c})
	}
	for _, c := range groups.Categorical {
		ct.Categorical = append(ct.Categorical, CategoricalColumn{Name: c})
	}
	return ct, nil
}

// InputColumns lists the columns the transformer reads, in feature-group
// order: symptom, vital, categorical, binary.
func (ct *ColumnTransformer) InputColumns() []string {
	return append([]string(nil), ct.Inputs...)
}

// Fit learns imputation values, scales and categories from f.
func (ct *ColumnTransformer) Fit(f *dataset.Frame) error {
	if f.Len() == 0 {
		return fmt.Errorf("fit preprocessing: empty frame")
	}
	for i := range ct.Numeric {
		col, err := f.Column(ct.Numeric[i].Name)
		if err != nil {
			return err
		}
		vals, err := parseNumeric(ct.Numeric[i].Name, col)
		if err != nil {
			return err
		}
		fill := mostFrequentFloat(vals)
		for k, v := range vals {
			if math.IsNaN(v) {
				vals[k] = fill
			}
		}
		ct.Numeric[i].Fill = fill
		ct.Numeric[i].Scale = stdOrOne(vals)
	}
	for i := range ct.Categorical {
		col, err := f.Column(ct.Categorical[i].Name)
		if err != nil {
			return err
		}
		fill := mostFrequentString(col)
		seen := make(map[string]struct{})
		for _, v := range col {
			if dataset.IsMissing(v) {
				v = fill
			} else {
				v = Canonical(v)
			}
			seen[v] = struct{}{}
		}
		cats := make([]string, 0, len(seen))
		for v := range seen {
			cats = append(cats, v)
		}
		sortCategories(cats)
		ct.Categorical[i].Fill = fill
		ct.Categorical[i].Categories = cats
	}
	ct.Fitted = true
	return nil
}

// Transform maps f to the numeric design matrix.
func (ct *ColumnTransformer) Transform(f *dataset.Frame) ([][]float64, error) {
	if !ct.Fitted {
		return nil, ErrNotFitted
	}
	width := ct.Width()
	out := make([][]float64, f.Len())
	for i := range out {
		out[i] = make([]float64, width)
	}
	for k, nc := range ct.Numeric {
		col, err := f.Column(nc.Name)
		if err != nil {
			return nil, err
		}
		vals, err := parseNumeric(nc.Name, col)
		if err != nil {
			return nil, err
		}
		for i, v := range vals {
			if math.IsNaN(v) {
				v = nc.Fill
			}
			out[i][k] = v / nc.Scale
		}
	}
	offset := len(ct.Numeric)
	for _, cc := range ct.Categorical {
		col, err := f.Column(cc.Name)
		if err != nil {
			return nil, err
		}
		pos := make(map[string]int, len(cc.Categories))
		for j, c := range cc.Categories {
			pos[c] = j
		}
		for i, v := range col {
			if dataset.IsMissing(v) {
				v = cc.Fill
			} else {
				v = Canonical(v)
			}
			if j, ok := pos[v]; ok {
				out[i][offset+j] = 1
			}
		}
		offset += len(cc.Categories)
	}
	return out, nil
}

// FitTransform fits on f and returns its transform.
func (ct *ColumnTransformer) FitTransform(f *dataset.Frame) ([][]float64, error) {
	if err := ct.Fit(f); err != nil {
		return nil, err
	}
	return ct.Transform(f)
}

// Width is the number of output features.
func (ct *ColumnTransformer) Width() int {
	n := len(ct.Numeric)
	for _, c := range ct.Categorical {
		n += len(c.Categories)
	}
	return n
}

// OutputNames names every output feature; one-hot outputs read "col=value".
func (ct *ColumnTransformer) OutputNames() []string {
	out := make([]string, 0, ct.Width())
	for _, c := range ct.Numeric {
		out = append(out, c.Name)
	}
	for _, c := range ct.Categorical {
		for _, v := range c.Categories {
			out = append(out, c.Name+"="+v)
		}
	}
	return out
}

// Canonical normalises a categorical cell so that "1", "1.0" and " 1 " are
// the same category. Non-numeric text is only trimmed.
func Canonical(v string) string {
	v = strings.TrimSpace(v)
	if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return v
}

func parseNumeric(name string, col []string) ([]float64, error) {
	out := make([]float64, len(col))
	for i, s := range col {
		if dataset.IsMissing(s) {
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("column %s row %d: %w", name, i, err)
		}
		out[i] = v
	}
	return out, nil
}

// mostFrequentFloat ignores NaN; ties resolve to the smallest value and an
// all-missing column imputes 0.
func mostFrequentFloat(vals []float64) float64 {
	counts := make(map[float64]int)
	for _, v := range vals {
		if !math.IsNaN(v) {
			counts[v]++
		}
	}
	best, bestN := 0.0, 0
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	return best
}

func mostFrequentString(col []string) string {
	counts := make(map[string]int)
	for _, v := range col {
		if !dataset.IsMissing(v) {
			counts[Canonical(v)]++
		}
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sortCategories(keys)
	best, bestN := "missing", 0
	for _, k := range keys {
		if counts[k] > bestN {
			best, bestN = k, counts[k]
		}
	}
	return best
}

// sortCategories orders numerically when every value parses as a number,
// lexically otherwise.
func sortCategories(cats []string) {
	nums := make(map[string]float64, len(cats))
	numeric := true
	for _, c := range cats {
		f, err := strconv.ParseFloat(c, 64)
		if err != nil {
			numeric = false
			break
		}
		nums[c] = f
	}
	if numeric {
		sort.Slice(cats, func(i, j int) bool { return nums[cats[i]] < nums[cats[j]] })
		return
	}
	sort.Strings(cats)
}

// stdOrOne is the population standard deviation, or 1 for a constant column.
func stdOrOne(vals []float64) float64 {
	if len(vals) == 0 {
		return 1
	}
	mean := 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))
	ss := 0.0
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(vals)))
	if std == 0 || math.IsNaN(std) {
		return 1
	}
	return std
}

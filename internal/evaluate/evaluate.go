// Package evaluate scores predictions: accuracy, macro-F1, a per-class
// report and a confusion matrix.
package evaluate

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"diagnosd/internal/dataset"
)

// Predictor is anything that labels the rows of a frame.
type Predictor interface {
	Predict(ctx context.Context, f *dataset.Frame) ([]string, error)
}

// Metrics are the scalar scores of one evaluation.
type Metrics struct {
	Accuracy float64 `json:"accuracy"`
	MacroF1  float64 `json:"f1_macro"`
}

// Map returns the metrics keyed the way artifacts and the run ledger store
// them.
func (m Metrics) Map() map[string]float64 {
	return map[string]float64{"accuracy": m.Accuracy, "f1_macro": m.MacroF1}
}

// ClassScore is one row of the classification report.
type ClassScore struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report is the full breakdown behind Metrics.
type Report struct {
	Labels    []string
	Classes   []ClassScore
	Confusion [][]int
	Metrics   Metrics
	Weighted  ClassScore
	Macro     ClassScore
}

// Score compares truth with predictions. Labels are the sorted union of both
// slices; a zero denominator scores 0.
func Score(truth, pred []string) (*Report, error) {
	if len(truth) != len(pred) {
		return nil, fmt.Errorf("evaluate: %d labels but %d predictions", len(truth), len(pred))
	}
	if len(truth) == 0 {
		return nil, fmt.Errorf("evaluate: no samples")
	}
	set := make(map[string]struct{})
	for i := range truth {
		set[truth[i]] = struct{}{}
		set[pred[i]] = struct{}{}
	}
	labels := make([]string, 0, len(set))
	for l := range set {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	pos := make(map[string]int, len(labels))
	for i, l := range labels {
		pos[l] = i
	}

	cm := make([][]int, len(labels))
	for i := range cm {
		cm[i] = make([]int, len(labels))
	}
	correct := 0
	for i := range truth {
		cm[pos[truth[i]]][pos[pred[i]]]++
		if truth[i] == pred[i] {
			correct++
		}
	}

	r := &Report{Labels: labels, Confusion: cm}
	n := float64(len(truth))
	for c, l := range labels {
		tp := cm[c][c]
		support, predicted := 0, 0
		for k := range labels {
			support += cm[c][k]
			predicted += cm[k][c]
		}
		s := ClassScore{
			Label:     l,
			Precision: ratio(tp, predicted),
			Recall:    ratio(tp, support),
			Support:   support,
		}
		if s.Precision+s.Recall > 0 {
			s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
		}
		r.Classes = append(r.Classes, s)

		k := float64(len(labels))
		r.Macro.Precision += s.Precision / k
		r.Macro.Recall += s.Recall / k
		r.Macro.F1 += s.F1 / k
		w := float64(support) / n
		r.Weighted.Precision += s.Precision * w
		r.Weighted.Recall += s.Recall * w
		r.Weighted.F1 += s.F1 * w
	}
	r.Macro.Label, r.Macro.Support = "macro avg", len(truth)
	r.Weighted.Label, r.Weighted.Support = "weighted avg", len(truth)
	r.Metrics = Metrics{Accuracy: float64(correct) / n, MacroF1: r.Macro.F1}
	return r, nil
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// Write renders the classification report followed by the confusion matrix.
func (r *Report) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tprecision\trecall\tf1-score\tsupport\t")
	for _, s := range r.Classes {
		writeScore(tw, s)
	}
	fmt.Fprintln(tw, "\t\t\t\t\t")
	fmt.Fprintf(tw, "accuracy\t\t\t%.2f\t%d\t\n", r.Metrics.Accuracy, r.Macro.Support)
	writeScore(tw, r.Macro)
	writeScore(tw, r.Weighted)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Confusion matrix (rows = true, columns = predicted):")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\t"+strings.Join(r.Labels, "\t")+"\t")
	for i, row := range r.Confusion {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		fmt.Fprintln(tw, r.Labels[i]+"\t"+strings.Join(cells, "\t")+"\t")
	}
	return tw.Flush()
}

func writeScore(w io.Writer, s ClassScore) {
	fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%d\t\n", s.Label, s.Precision, s.Recall, s.F1, s.Support)
}

// Evaluate predicts X with model, scores against y and writes the report to
// w when w is non-nil.
func Evaluate(ctx context.Context, model Predictor, X *dataset.Frame, y []string, w io.Writer) (Metrics, error) {
	pred, err := model.Predict(ctx, X)
	if err != nil {
		return Metrics{}, fmt.Errorf("evaluate: predict: %w", err)
	}
	r, err := Score(y, pred)
	if err != nil {
		return Metrics{}, err
	}
	if w != nil {
		if err := r.Write(w); err != nil {
			return Metrics{}, err
		}
	}
	return r.Metrics, nil
}

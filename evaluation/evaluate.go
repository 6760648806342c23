package evaluation

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/deepgo/labels"
)

// Evaluate scores predictions for the examples of one held-out set.
//
// scores and truthBits are (active × examples): row i belongs to active
// function i of c. truth holds each example's full ground-truth label set.
// Both matrices may be nil when there are no examples, in which case truth
// must be empty and every metric is zero.
//
// Each truth set is treated as a set: a relevant unmodeled term listed
// twice for one example adds a single false negative, not two.
func Evaluate(scores, truthBits *mat.Dense, truth [][]string, c *labels.Context, opts ...Option) (*Report, error) {
	o := options{threshold: DefaultThreshold, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if c == nil {
		return nil, labels.ErrNilContextPart
	}
	active := c.Active()
	n, err := checkDims(scores, truthBits, truth, active.Len())
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Proteins:  make([]ProteinResult, n),
		Functions: make([]FunctionReport, active.Len()),
	}
	for j := range rep.Proteins {
		rep.Proteins[j] = ProteinResult{
			Scores: make([]float64, active.Len()),
			Truth:  make([]float64, active.Len()),
			Terms:  truth[j],
		}
	}
	for i, term := range active.IDs() {
		fr := &rep.Functions[i]
		fr.Term = term
		for j := 0; j < n; j++ {
			s, y := scores.At(i, j), truthBits.At(i, j)
			p := &rep.Proteins[j]
			p.Scores[i], p.Truth[i] = s, y
			pred, pos := s > o.threshold, y > 0.5
			switch {
			case pred && pos:
				p.TP++
				fr.TP++
			case pred:
				p.FP++
				fr.FP++
			case pos:
				p.FN++
				fr.FN++
			default:
				fr.TN++
			}
		}
		fr.finish()
		o.logger.Debug("function report", "term", term,
			"precision", fr.Precision, "recall", fr.Recall, "f1", fr.F1, "support", fr.Support)
	}

	var ps, rs, fs []float64
	for j := range rep.Proteins {
		p := &rep.Proteins[j]
		p.FN += unmodeled(p.Terms, c)
		if !p.Included() {
			continue
		}
		pr, rc, f1 := p.Metrics()
		ps, rs, fs = append(ps, pr), append(rs, rc), append(fs, f1)
	}
	rep.Included = len(ps)
	if rep.Included > 0 {
		k := float64(rep.Included)
		rep.Precision = floats.Sum(ps) / k
		rep.Recall = floats.Sum(rs) / k
		rep.F1 = floats.Sum(fs) / k
	}
	o.logger.Info("evaluation done",
		"examples", n, "included", rep.Included,
		"precision", rep.Precision, "recall", rep.Recall, "f1", rep.F1)

	return rep, nil
}

// unmodeled counts the distinct terms that are relevant but inactive.
func unmodeled(terms []string, c *labels.Context) int {
	seen := make(map[string]struct{}, len(terms))
	k := 0
	for _, t := range terms {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if c.Unmodeled(t) {
			k++
		}
	}

	return k
}

// checkDims validates the shapes and returns the example count.
func checkDims(scores, truthBits *mat.Dense, truth [][]string, active int) (int, error) {
	switch {
	case scores == nil && truthBits == nil:
		if len(truth) != 0 {
			return 0, &EvaluationDataError{Field: "truth sets", Want: 0, Got: len(truth)}
		}
		return 0, nil
	case scores == nil || truthBits == nil:
		return 0, &EvaluationDataError{Field: "non-nil matrices", Want: 2, Got: 1}
	}
	sr, sc := scores.Dims()
	lr, lc := truthBits.Dims()
	switch {
	case sr != active:
		return 0, &EvaluationDataError{Field: "score rows", Want: active, Got: sr}
	case lr != active:
		return 0, &EvaluationDataError{Field: "label rows", Want: active, Got: lr}
	case lc != sc:
		return 0, &EvaluationDataError{Field: "label columns", Want: sc, Got: lc}
	case len(truth) != sc:
		return 0, &EvaluationDataError{Field: "truth sets", Want: sc, Got: len(truth)}
	}

	return sc, nil
}

// finish derives the ratios from the counts; undefined ratios are zero.
func (fr *FunctionReport) finish() {
	fr.Support = fr.TP + fr.FN
	if d := fr.TP + fr.FP; d > 0 {
		fr.Precision = float64(fr.TP) / float64(d)
	}
	if fr.Support > 0 {
		fr.Recall = float64(fr.TP) / float64(fr.Support)
	}
	if s := fr.Precision + fr.Recall; s > 0 {
		fr.F1 = 2 * fr.Precision * fr.Recall / s
	}
}

package evaluation

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrEvaluationData is wrapped by every *EvaluationDataError.
var ErrEvaluationData = errors.New("evaluation: inconsistent input dimensions")

// DefaultThreshold separates positive from negative predictions: a score is
// positive iff it is strictly greater than the threshold.
const DefaultThreshold = 0.5

// EvaluationDataError reports a dimension of the inputs that disagrees with
// the active set or with the other inputs.
type EvaluationDataError struct {
	Field     string
	Want, Got int
}

func (e *EvaluationDataError) Error() string {
	return fmt.Sprintf("evaluation: %s is %d, want %d", e.Field, e.Got, e.Want)
}

// Unwrap lets errors.Is match ErrEvaluationData.
func (e *EvaluationDataError) Unwrap() error { return ErrEvaluationData }

// ProteinResult holds the counts of one held-out example. FN includes the
// unmodeled relevant labels.
type ProteinResult struct {
	TP, FP, FN int
	Scores     []float64 // raw score per active function
	Truth      []float64 // label bit per active function
	Terms      []string  // full ground-truth set
}

// Included reports whether the example carries any signal.
func (p ProteinResult) Included() bool { return p.TP+p.FP+p.FN > 0 }

// Metrics returns the example's precision, recall and F1; all zero when
// TP is zero.
func (p ProteinResult) Metrics() (precision, recall, f1 float64) {
	if p.TP == 0 {
		return 0, 0, 0
	}
	tp := float64(p.TP)
	precision = tp / (tp + float64(p.FP))
	recall = tp / (tp + float64(p.FN))

	return precision, recall, 2 * precision * recall / (precision + recall)
}

// FunctionReport is the binary classification summary of one active
// function over all examples.
type FunctionReport struct {
	Term                  string
	TP, FP, FN, TN        int
	Precision, Recall, F1 float64
	Support               int // number of positive labels
}

// Report is the outcome of Evaluate.
type Report struct {
	Precision, Recall, F1 float64
	Included              int // examples counted in the means
	Proteins              []ProteinResult
	Functions             []FunctionReport
}

// Option configures Evaluate.
type Option func(*options)

type options struct {
	threshold float64
	logger    *slog.Logger
}

// WithThreshold overrides DefaultThreshold.
func WithThreshold(th float64) Option {
	return func(o *options) { o.threshold = th }
}

// WithLogger sets the logger; nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

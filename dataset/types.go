package dataset

import (
	"errors"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrShapeMismatch indicates examples that disagree in vector width.
	ErrShapeMismatch = errors.New("dataset: shape mismatch")

	// ErrFraction indicates a split fraction outside its valid range.
	ErrFraction = errors.New("dataset: fraction out of range")

	// ErrMaxLen indicates a non-positive maximum sequence length.
	ErrMaxLen = errors.New("dataset: max length must be positive")

	// ErrLabelWidth indicates a negative active function count.
	ErrLabelWidth = errors.New("dataset: label width must not be negative")
)

// ShapeMismatchError reports the first example whose Field has a length
// other than Want.
type ShapeMismatchError struct {
	Accession string
	Field     string // "representation" or "labels"
	Want, Got int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("dataset: %s of %q has length %d, want %d", e.Field, e.Accession, e.Got, e.Want)
}

// Unwrap lets errors.Is match ErrShapeMismatch.
func (e *ShapeMismatchError) Unwrap() error { return ErrShapeMismatch }

// Example is one labeled protein.
type Example struct {
	Accession      string
	Sequence       []int32   // integer-coded residues or n-grams
	Representation []float64 // fixed-length auxiliary vector
	Terms          []string  // full ground-truth label set
	Labels         []float64 // binary vector aligned to the active index
}

// Bundle is a reformatted partition. Representations is (examples × width)
// and Labels is (active × examples); both are nil when the bundle is empty.
type Bundle struct {
	Accessions      []string
	Sequences       [][]int32
	Representations *mat.Dense
	Labels          *mat.Dense
	Terms           [][]string // test bundle only
}

// Len returns the number of examples.
func (b *Bundle) Len() int {
	if b == nil {
		return 0
	}

	return len(b.Accessions)
}

// Row reassembles example i from the bundle's columns.
func (b *Bundle) Row(i int) (Example, error) {
	if i < 0 || i >= b.Len() {
		return Example{}, fmt.Errorf("dataset: row %d out of range [0,%d)", i, b.Len())
	}
	ex := Example{Accession: b.Accessions[i], Sequence: b.Sequences[i]}
	if b.Representations != nil {
		ex.Representation = mat.Row(nil, i, b.Representations)
	}
	if b.Labels != nil {
		ex.Labels = mat.Col(nil, i, b.Labels)
	}
	if b.Terms != nil {
		ex.Terms = b.Terms[i]
	}

	return ex, nil
}

// Padding selects which end of a sequence is padded or truncated.
type Padding uint8

const (
	// Pre pads or cuts at the start of the sequence.
	Pre Padding = iota
	// Post pads or cuts at the end of the sequence.
	Post
)

func (p Padding) String() string {
	if p == Post {
		return "post"
	}

	return "pre"
}

// DefaultMaxLen is the sequence length used when no WithMaxLen is given.
const DefaultMaxLen = 1000

// Option configures Reformat.
type Option func(*options)

type options struct {
	maxLen     int
	padding    Padding
	truncating Padding
	logger     *slog.Logger
}

func defaultOptions() options {
	return options{
		maxLen:     DefaultMaxLen,
		padding:    Pre,
		truncating: Pre,
		logger:     slog.Default(),
	}
}

// WithMaxLen sets the padded sequence length.
func WithMaxLen(n int) Option {
	return func(o *options) { o.maxLen = n }
}

// WithPadding sets where padding and truncation happen.
func WithPadding(padding, truncating Padding) Option {
	return func(o *options) {
		o.padding = padding
		o.truncating = truncating
	}
}

// WithLogger sets the logger; nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

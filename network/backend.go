package network

import (
	"errors"
	"fmt"
)

// Backend receives the layer operations emitted by Build. Each call returns
// the handle of the node it created. Sites are unique per call.
type Backend interface {
	// Merge concatenates in along the feature axis.
	Merge(site int, in []Handle) (Handle, error)
	// Transform projects in to width features through a nonlinearity.
	Transform(site int, in Handle, width int) (Handle, error)
	// Classify projects in to a single probability.
	Classify(site int, in Handle) (Handle, error)
}

// Recorder errors.
var (
	ErrUnknownHandle = errors.New("network: unknown handle")
	ErrSiteInUse     = errors.New("network: site already in use")
	ErrInvalidWidth  = errors.New("network: width must be positive")
	ErrNoInputs      = errors.New("network: merge without inputs")
)

// OpKind identifies a recorded operation.
type OpKind uint8

const (
	OpInput OpKind = iota
	OpConcat
	OpTransform // dense + ReLU
	OpClassify  // dense to 1 + sigmoid
)

func (k OpKind) String() string {
	switch k {
	case OpInput:
		return "input"
	case OpConcat:
		return "concat"
	case OpTransform:
		return "transform"
	case OpClassify:
		return "classify"
	default:
		return fmt.Sprintf("OpKind(%d)", uint8(k))
	}
}

// Op is one row of the handle table.
type Op struct {
	Kind   OpKind
	Site   int // -1 for inputs
	Inputs []Handle
	Width  int // output width
}

// Recorder is a Backend that stores operations in an append-only handle
// table. Handle h is ops[h]; inputs always precede their consumers, so the
// table is already in evaluation order.
type Recorder struct {
	ops   []Op
	sites map[int]Handle
}

var _ Backend = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{sites: make(map[int]Handle)}
}

// Input registers an external representation of the given width, e.g. the
// output of a feature model, and returns its handle.
func (r *Recorder) Input(width int) (Handle, error) {
	if width <= 0 {
		return NoHandle, fmt.Errorf("%w: input width %d", ErrInvalidWidth, width)
	}

	return r.push(Op{Kind: OpInput, Site: -1, Width: width}), nil
}

// Merge records a concatenation; its width is the sum of the input widths.
func (r *Recorder) Merge(site int, in []Handle) (Handle, error) {
	if len(in) == 0 {
		return NoHandle, ErrNoInputs
	}
	width := 0
	for _, h := range in {
		w, err := r.Width(h)
		if err != nil {
			return NoHandle, err
		}
		width += w
	}
	if err := r.claim(site); err != nil {
		return NoHandle, err
	}

	return r.bind(site, Op{Kind: OpConcat, Site: site, Inputs: append([]Handle(nil), in...), Width: width}), nil
}

// Transform records a dense projection to width followed by ReLU.
func (r *Recorder) Transform(site int, in Handle, width int) (Handle, error) {
	if width <= 0 {
		return NoHandle, fmt.Errorf("%w: transform width %d", ErrInvalidWidth, width)
	}
	if _, err := r.Width(in); err != nil {
		return NoHandle, err
	}
	if err := r.claim(site); err != nil {
		return NoHandle, err
	}

	return r.bind(site, Op{Kind: OpTransform, Site: site, Inputs: []Handle{in}, Width: width}), nil
}

// Classify records a dense projection to one unit followed by a sigmoid.
func (r *Recorder) Classify(site int, in Handle) (Handle, error) {
	if _, err := r.Width(in); err != nil {
		return NoHandle, err
	}
	if err := r.claim(site); err != nil {
		return NoHandle, err
	}

	return r.bind(site, Op{Kind: OpClassify, Site: site, Inputs: []Handle{in}, Width: 1}), nil
}

// Len returns the number of recorded operations.
func (r *Recorder) Len() int { return len(r.ops) }

// Op returns a copy of the operation behind h.
func (r *Recorder) Op(h Handle) (Op, error) {
	if h < 0 || int(h) >= len(r.ops) {
		return Op{}, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	op := r.ops[h]
	op.Inputs = append([]Handle(nil), op.Inputs...)

	return op, nil
}

// Width returns the output width of h.
func (r *Recorder) Width(h Handle) (int, error) {
	if h < 0 || int(h) >= len(r.ops) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}

	return r.ops[h].Width, nil
}

// Site returns the handle recorded at site.
func (r *Recorder) Site(site int) (Handle, bool) {
	h, ok := r.sites[site]
	return h, ok
}

func (r *Recorder) claim(site int) error {
	if _, ok := r.sites[site]; ok {
		return fmt.Errorf("%w: %d", ErrSiteInUse, site)
	}

	return nil
}

func (r *Recorder) bind(site int, op Op) Handle {
	h := r.push(op)
	r.sites[site] = h

	return h
}

func (r *Recorder) push(op Op) Handle {
	r.ops = append(r.ops, op)
	return Handle(len(r.ops) - 1)
}

package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/deepgo/dataset"
	"github.com/katalvlaran/deepgo/labels"
)

// DefaultLearningRate is the SGD step size used when WithLearningRate is
// not given.
const DefaultLearningRate = 0.01

// eps clips probabilities away from 0 and 1 inside the log loss.
const eps = 1e-7

// Model errors.
var (
	ErrNoRepresentations = errors.New("network: bundle has no representations")
	ErrLabelShape        = errors.New("network: label matrix does not match output heads")
	ErrSnapshot          = errors.New("network: snapshot does not match parameters")
)

// ModelOption configures NewModel.
type ModelOption func(*modelOptions)

type modelOptions struct {
	lr  float64
	err error
}

// WithLearningRate sets the SGD step size; it must be positive.
func WithLearningRate(lr float64) ModelOption {
	return func(o *modelOptions) {
		if !(lr > 0) || math.IsInf(lr, 1) {
			o.err = fmt.Errorf("%w: learning rate %v", ErrOptionViolation, lr)
			return
		}
		o.lr = lr
	}
}

// Model trains an Executor on reformatted bundles. Head i scores active
// function i; the loss is the sum over heads of the mean binary
// cross-entropy, and FitEpoch runs one pass of minibatch SGD in row order.
// Only Bundle.Representations feed the network: the root input is the
// representation vector. A Model is not safe for concurrent use.
type Model struct {
	ex      *Executor
	outputs []Handle
	lr      float64
}

// NewModel binds ex to the output heads of net in active-index order.
// ex must have been created from the Recorder net was built on.
func NewModel(net *Network, ex *Executor, active *labels.Index, opts ...ModelOption) (*Model, error) {
	if net == nil || ex == nil || active == nil {
		return nil, ErrNilArgument
	}
	o := modelOptions{lr: DefaultLearningRate}
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	outputs, err := net.Outputs(active)
	if err != nil {
		return nil, err
	}
	if len(outputs) == 0 {
		return nil, ErrNoOutputs
	}
	for _, h := range outputs {
		if int(h) >= len(ex.rec.ops) || ex.rec.ops[h].Kind != OpClassify {
			return nil, fmt.Errorf("%w: %d is not a classify op of the executor", ErrUnknownHandle, h)
		}
	}

	return &Model{ex: ex, outputs: outputs, lr: o.lr}, nil
}

// Outputs returns the number of output heads.
func (m *Model) Outputs() int { return len(m.outputs) }

// Predict returns scores of shape (heads × examples).
func (m *Model) Predict(ctx context.Context, b *dataset.Bundle, batchSize int) (*mat.Dense, error) {
	x, err := representations(b)
	if err != nil {
		return nil, err
	}
	n, _ := x.Dims()
	scores := mat.NewDense(len(m.outputs), n, nil)
	err = batches(ctx, n, batchSize, func(lo, hi int) error {
		acts, err := m.ex.Forward(rowView(x, lo, hi))
		if err != nil {
			return err
		}
		for i, h := range m.outputs {
			for j := lo; j < hi; j++ {
				scores.Set(i, j, acts[h].At(j-lo, 0))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return scores, nil
}

// Loss returns the summed per-head binary cross-entropy, averaged over
// the examples of b.
func (m *Model) Loss(ctx context.Context, b *dataset.Bundle, batchSize int) (float64, error) {
	x, y, err := m.data(b)
	if err != nil {
		return 0, err
	}
	n, _ := x.Dims()
	total := 0.0
	err = batches(ctx, n, batchSize, func(lo, hi int) error {
		acts, err := m.ex.Forward(rowView(x, lo, hi))
		if err != nil {
			return err
		}
		for i, h := range m.outputs {
			for j := lo; j < hi; j++ {
				total += bce(acts[h].At(j-lo, 0), y.At(i, j))
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return total / float64(n), nil
}

// FitEpoch runs one SGD pass over b and returns the example-weighted mean
// of the batch losses, each measured before its update.
func (m *Model) FitEpoch(ctx context.Context, b *dataset.Bundle, batchSize int) (float64, error) {
	x, y, err := m.data(b)
	if err != nil {
		return 0, err
	}
	n, _ := x.Dims()
	total := 0.0
	err = batches(ctx, n, batchSize, func(lo, hi int) error {
		loss, err := m.step(rowView(x, lo, hi), y.Slice(0, len(m.outputs), lo, hi))
		total += loss
		return err
	})
	if err != nil {
		return 0, err
	}

	return total / float64(n), nil
}

// step runs forward and backward on one batch, applies the SGD update and
// returns the summed (not averaged) loss of the batch.
func (m *Model) step(x *mat.Dense, y mat.Matrix) (float64, error) {
	acts, err := m.ex.Forward(x)
	if err != nil {
		return 0, err
	}
	n, _ := x.Dims()
	ops := m.ex.rec.ops
	grads := make([]*mat.Dense, len(ops))

	// For a sigmoid head under mean BCE, dL/dlogit = (p-t)/n.
	loss := 0.0
	for i, h := range m.outputs {
		g := mat.NewDense(n, 1, nil)
		for r := 0; r < n; r++ {
			p, t := acts[h].At(r, 0), y.At(i, r)
			loss += bce(p, t)
			g.Set(r, 0, (p-t)/float64(n))
		}
		accumulate(grads, h, g)
	}

	for i := len(ops) - 1; i >= 0; i-- {
		g := grads[i]
		if g == nil {
			continue
		}
		op := ops[i]
		switch op.Kind {
		case OpConcat:
			off := 0
			for _, in := range op.Inputs {
				w := ops[in].Width
				accumulate(grads, in, mat.DenseCopyOf(g.Slice(0, n, off, off+w)))
				off += w
			}
		case OpTransform:
			act := acts[i]
			dz := mat.DenseCopyOf(g)
			dz.Apply(func(r, c int, v float64) float64 {
				if act.At(r, c) > 0 {
					return v
				}
				return 0
			}, dz)
			m.backDense(Handle(i), op.Inputs[0], acts[op.Inputs[0]], dz, grads)
		case OpClassify:
			m.backDense(Handle(i), op.Inputs[0], acts[op.Inputs[0]], g, grads)
		}
	}

	return loss, nil
}

// backDense propagates dz (dL/d pre-activation of op h) to its input and
// updates the parameters of h. The input gradient uses the old weights.
func (m *Model) backDense(h, in Handle, x, dz *mat.Dense, grads []*mat.Dense) {
	p := m.ex.params[h]
	if m.ex.rec.ops[in].Kind != OpInput {
		var dx mat.Dense
		dx.Mul(dz, p.w.T())
		accumulate(grads, in, &dx)
	}

	var dw mat.Dense
	dw.Mul(x.T(), dz)
	dw.Scale(m.lr, &dw)
	p.w.Sub(p.w, &dw)
	for c := range p.b {
		p.b[c] -= m.lr * floats.Sum(mat.Col(nil, c, dz))
	}
}

func accumulate(grads []*mat.Dense, h Handle, g *mat.Dense) {
	if grads[h] == nil {
		grads[h] = g
		return
	}
	grads[h].Add(grads[h], g)
}

// paramState is the serialized form of one dense op.
type paramState struct {
	Handle Handle    `json:"handle"`
	W      []byte    `json:"w"` // mat.Dense binary encoding
	B      []float64 `json:"b"`
}

// Snapshot serializes every parameter, ordered by handle.
func (m *Model) Snapshot() ([]byte, error) {
	handles := slices.Sorted(maps.Keys(m.ex.params))
	states := make([]paramState, len(handles))
	for i, h := range handles {
		p := m.ex.params[h]
		w, err := p.w.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("network: snapshot %d: %w", h, err)
		}
		states[i] = paramState{Handle: h, W: w, B: append([]float64(nil), p.b...)}
	}

	return json.Marshal(states)
}

// Restore loads a Snapshot taken from a model over the same graph. Nothing
// is changed unless every parameter matches in handle and shape.
func (m *Model) Restore(snapshot []byte) error {
	var states []paramState
	if err := json.Unmarshal(snapshot, &states); err != nil {
		return fmt.Errorf("%w: %w", ErrSnapshot, err)
	}
	if len(states) != len(m.ex.params) {
		return fmt.Errorf("%w: %d parameter sets, want %d", ErrSnapshot, len(states), len(m.ex.params))
	}
	weights := make([]*mat.Dense, len(states))
	for i, s := range states {
		p, ok := m.ex.params[s.Handle]
		if !ok {
			return fmt.Errorf("%w: unknown handle %d", ErrSnapshot, s.Handle)
		}
		var w mat.Dense
		if err := w.UnmarshalBinary(s.W); err != nil {
			return fmt.Errorf("%w: handle %d: %w", ErrSnapshot, s.Handle, err)
		}
		wr, wc := w.Dims()
		pr, pc := p.w.Dims()
		if wr != pr || wc != pc || len(s.B) != len(p.b) {
			return fmt.Errorf("%w: handle %d is %dx%d+%d, want %dx%d+%d",
				ErrSnapshot, s.Handle, wr, wc, len(s.B), pr, pc, len(p.b))
		}
		weights[i] = &w
	}
	for i, s := range states {
		p := m.ex.params[s.Handle]
		p.w.Copy(weights[i])
		copy(p.b, s.B)
	}

	return nil
}

// representations returns the input matrix of b.
func representations(b *dataset.Bundle) (*mat.Dense, error) {
	if b == nil || b.Representations == nil {
		return nil, ErrNoRepresentations
	}

	return b.Representations, nil
}

// data returns the representations and the (heads × examples) labels of b.
func (m *Model) data(b *dataset.Bundle) (*mat.Dense, *mat.Dense, error) {
	x, err := representations(b)
	if err != nil {
		return nil, nil, err
	}
	n, _ := x.Dims()
	if b.Labels == nil {
		return nil, nil, fmt.Errorf("%w: bundle has no labels", ErrLabelShape)
	}
	if r, c := b.Labels.Dims(); r != len(m.outputs) || c != n {
		return nil, nil, fmt.Errorf("%w: labels are %dx%d, want %dx%d", ErrLabelShape, r, c, len(m.outputs), n)
	}

	return x, b.Labels, nil
}

// batches calls fn on consecutive [lo, hi) ranges of at most size rows,
// checking ctx before each one.
func batches(ctx context.Context, n, size int, fn func(lo, hi int) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if size <= 0 {
		size = n
	}
	for lo := 0; lo < n; lo += size {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(lo, min(lo+size, n)); err != nil {
			return err
		}
	}

	return nil
}

// rowView returns a view of rows [lo, hi) of x.
func rowView(x *mat.Dense, lo, hi int) *mat.Dense {
	_, c := x.Dims()
	return x.Slice(lo, hi, 0, c).(*mat.Dense)
}

func bce(p, t float64) float64 {
	p = math.Min(math.Max(p, eps), 1-eps)
	return -(t*math.Log(p) + (1-t)*math.Log(1-p))
}

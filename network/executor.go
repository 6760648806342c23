package network

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/deepgo/labels"
)

// Executor errors.
var (
	ErrInputCount = errors.New("network: executor needs exactly one input op")
	ErrInputShape = errors.New("network: input matrix width mismatch")
	ErrNoOutputs  = errors.New("network: no output heads to predict")
)

// dense holds the parameters of one Transform or Classify op.
type dense struct {
	w *mat.Dense // in × out
	b []float64  // out
}

// Executor evaluates a recorded computation graph on row-major batches
// (examples × features). Parameters are drawn once, deterministically from
// the seed, with Glorot-uniform weights and zero biases.
type Executor struct {
	rec    *Recorder
	input  Handle
	params map[Handle]dense
}

// NewExecutor allocates parameters for every dense op of rec.
func NewExecutor(rec *Recorder, seed uint64) (*Executor, error) {
	e := &Executor{rec: rec, input: NoHandle, params: make(map[Handle]dense)}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	for i, op := range rec.ops {
		h := Handle(i)
		switch op.Kind {
		case OpInput:
			if e.input != NoHandle {
				return nil, ErrInputCount
			}
			e.input = h
		case OpTransform, OpClassify:
			in := rec.ops[op.Inputs[0]].Width
			e.params[h] = glorot(rng, in, op.Width)
		}
	}
	if e.input == NoHandle {
		return nil, ErrInputCount
	}

	return e, nil
}

func glorot(rng *rand.Rand, in, out int) dense {
	limit := math.Sqrt(6 / float64(in+out))
	data := make([]float64, in*out)
	for i := range data {
		data[i] = (2*rng.Float64() - 1) * limit
	}

	return dense{w: mat.NewDense(in, out, data), b: make([]float64, out)}
}

// ParamCount returns the number of scalar parameters.
func (e *Executor) ParamCount() int {
	n := 0
	for _, p := range e.params {
		r, c := p.w.Dims()
		n += r*c + len(p.b)
	}

	return n
}

// Forward evaluates every op on x and returns the activations indexed by
// handle. x must have the input op's width as its column count.
func (e *Executor) Forward(x *mat.Dense) ([]*mat.Dense, error) {
	if x == nil {
		return nil, ErrNilArgument
	}
	rows, cols := x.Dims()
	if want := e.rec.ops[e.input].Width; cols != want {
		return nil, fmt.Errorf("%w: got %d columns, want %d", ErrInputShape, cols, want)
	}

	acts := make([]*mat.Dense, len(e.rec.ops))
	for i, op := range e.rec.ops {
		h := Handle(i)
		switch op.Kind {
		case OpInput:
			acts[i] = x
		case OpConcat:
			out := mat.NewDense(rows, op.Width, nil)
			off := 0
			for _, in := range op.Inputs {
				a := acts[in]
				_, w := a.Dims()
				out.Slice(0, rows, off, off+w).(*mat.Dense).Copy(a)
				off += w
			}
			acts[i] = out
		case OpTransform:
			acts[i] = e.affine(h, acts[op.Inputs[0]], relu)
		case OpClassify:
			acts[i] = e.affine(h, acts[op.Inputs[0]], sigmoid)
		}
	}

	return acts, nil
}

// affine computes act(in·W + b).
func (e *Executor) affine(h Handle, in *mat.Dense, act func(float64) float64) *mat.Dense {
	p := e.params[h]
	var out mat.Dense
	out.Mul(in, p.w)
	rows, _ := out.Dims()
	for r := 0; r < rows; r++ {
		row := out.RawRowView(r)
		floats.Add(row, p.b)
		for j, v := range row {
			row[j] = act(v)
		}
	}

	return &out
}

func relu(v float64) float64 { return math.Max(0, v) }

func sigmoid(v float64) float64 { return 1 / (1 + math.Exp(-v)) }

// Predict runs x through the network and returns a score matrix of shape
// (active × examples): row i holds the probabilities of output head i.
func (e *Executor) Predict(net *Network, active *labels.Index, x *mat.Dense) (*mat.Dense, error) {
	if net == nil || active == nil || x == nil {
		return nil, ErrNilArgument
	}
	outputs, err := net.Outputs(active)
	if err != nil {
		return nil, err
	}
	if len(outputs) == 0 {
		return nil, ErrNoOutputs
	}
	acts, err := e.Forward(x)
	if err != nil {
		return nil, err
	}
	n, _ := x.Dims()
	scores := mat.NewDense(len(outputs), n, nil)
	for i, h := range outputs {
		scores.SetRow(i, mat.Col(nil, 0, acts[h]))
	}

	return scores, nil
}

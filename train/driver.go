package train

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/deepgo/dataset"
)

var (
	// ErrNilModel indicates a Driver built without a model.
	ErrNilModel = errors.New("train: model is nil")

	// ErrEmptyTrain indicates a training bundle without examples.
	ErrEmptyTrain = errors.New("train: training bundle is empty")

	// ErrOutputMismatch indicates that the model's output heads do not line
	// up with the label rows or the test examples.
	ErrOutputMismatch = errors.New("train: model outputs do not match labels")

	// ErrInvalidConfig indicates a non-positive epoch count or batch size.
	ErrInvalidConfig = errors.New("train: invalid config")

	// ErrIllegalTransition indicates a state change outside the transition table.
	ErrIllegalTransition = errors.New("train: illegal state transition")
)

// Model is a multi-output classifier whose head i predicts label row i.
// Losses are averaged over the examples of the bundle.
type Model interface {
	Outputs() int
	FitEpoch(ctx context.Context, b *dataset.Bundle, batchSize int) (float64, error)
	Loss(ctx context.Context, b *dataset.Bundle, batchSize int) (float64, error)
	// Predict returns scores of shape (Outputs() × b.Len()).
	Predict(ctx context.Context, b *dataset.Bundle, batchSize int) (*mat.Dense, error)
	Snapshot() ([]byte, error)
	Restore(snapshot []byte) error
}

// Config holds the loop parameters.
type Config struct {
	Epochs    int
	BatchSize int
}

// EpochStats records one epoch.
type EpochStats struct {
	Epoch      int // 1-based
	TrainLoss  float64
	ValLoss    float64
	Checkpoint bool
}

// Result captures the outcome of a run. BestEpoch is 0 when no epoch
// improved on +Inf, e.g. when every validation loss was NaN.
type Result struct {
	BestEpoch   int
	BestLoss    float64
	History     []EpochStats
	TestLoss    float64
	Predictions *mat.Dense // (outputs × test examples); nil without test examples
}

// Option configures a Driver.
type Option func(*Driver)

// WithCheckpointer replaces the default MemoryCheckpointer.
func WithCheckpointer(c Checkpointer) Option {
	return func(d *Driver) {
		if c != nil {
			d.ckpt = c
		}
	}
}

// WithLogger sets the logger; nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithOnTransition registers a hook called on every state change.
func WithOnTransition(fn func(from, to State)) Option {
	return func(d *Driver) { d.onTransition = fn }
}

// Driver runs the training state machine. A Driver performs one run at a
// time and is not safe for concurrent use.
type Driver struct {
	cfg          Config
	model        Model
	ckpt         Checkpointer
	logger       *slog.Logger
	onTransition func(from, to State)
	state        State
}

// NewDriver validates cfg and returns a Driver in the Initializing state.
func NewDriver(cfg Config, m Model, opts ...Option) (*Driver, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	if cfg.Epochs <= 0 || cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("%w: epochs=%d batch_size=%d", ErrInvalidConfig, cfg.Epochs, cfg.BatchSize)
	}
	d := &Driver{
		cfg:    cfg,
		model:  m,
		ckpt:   &MemoryCheckpointer{},
		logger: slog.Default(),
		state:  Initializing,
	}
	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// State returns the current state.
func (d *Driver) State() State { return d.state }

// Run fits the model for cfg.Epochs epochs on train, monitors the loss on
// val (or on train when val is empty), restores the best checkpoint and
// evaluates test. On error the driver ends in Failed. A nil ctx means
// context.Background().
func (d *Driver) Run(ctx context.Context, train, val, test *dataset.Bundle) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := d.run(ctx, train, val, test)
	if err != nil {
		if !d.state.IsTerminal() {
			_ = d.transition(Failed)
		}
		d.logger.Error("training failed", "error", err)
		return nil, err
	}

	return res, nil
}

func (d *Driver) run(ctx context.Context, train, val, test *dataset.Bundle) (*Result, error) {
	if d.state != Initializing {
		return nil, fmt.Errorf("%w: run started in state %s", ErrIllegalTransition, d.state)
	}
	if train.Len() == 0 {
		return nil, ErrEmptyTrain
	}
	for _, b := range []*dataset.Bundle{train, val, test} {
		if err := d.checkOutputs(b); err != nil {
			return nil, err
		}
	}
	monitor := val
	if val.Len() == 0 {
		monitor = train
		d.logger.Warn("validation bundle is empty, monitoring training loss")
	}

	res := &Result{BestLoss: math.Inf(1), History: make([]EpochStats, 0, d.cfg.Epochs)}
	for epoch := 1; epoch <= d.cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("train: epoch %d: %w", epoch, err)
		}
		if err := d.transition(Fitting); err != nil {
			return nil, err
		}
		trainLoss, err := d.model.FitEpoch(ctx, train, d.cfg.BatchSize)
		if err != nil {
			return nil, fmt.Errorf("train: fit epoch %d: %w", epoch, err)
		}

		if err = d.transition(Validating); err != nil {
			return nil, err
		}
		valLoss, err := d.model.Loss(ctx, monitor, d.cfg.BatchSize)
		if err != nil {
			return nil, fmt.Errorf("train: validate epoch %d: %w", epoch, err)
		}
		stats := EpochStats{Epoch: epoch, TrainLoss: trainLoss, ValLoss: valLoss}

		if valLoss < res.BestLoss {
			if err = d.checkpoint(ctx, epoch); err != nil {
				return nil, err
			}
			res.BestEpoch, res.BestLoss = epoch, valLoss
			stats.Checkpoint = true
		}
		res.History = append(res.History, stats)
		d.logger.Info("epoch done", "epoch", epoch, "loss", trainLoss, "val_loss", valLoss, "checkpoint", stats.Checkpoint)
	}

	if res.BestEpoch > 0 {
		if err := d.restore(ctx); err != nil {
			return nil, err
		}
	}
	if test.Len() > 0 {
		if err := d.evaluate(ctx, test, res); err != nil {
			return nil, err
		}
	}
	if err := d.transition(Done); err != nil {
		return nil, err
	}

	return res, nil
}

func (d *Driver) checkpoint(ctx context.Context, epoch int) error {
	if err := d.transition(Checkpointing); err != nil {
		return err
	}
	snap, err := d.model.Snapshot()
	if err != nil {
		return fmt.Errorf("train: snapshot epoch %d: %w", epoch, err)
	}
	if err = d.ckpt.Save(ctx, epoch, snap); err != nil {
		return fmt.Errorf("train: save checkpoint epoch %d: %w", epoch, err)
	}

	return nil
}

func (d *Driver) restore(ctx context.Context) error {
	epoch, snap, err := d.ckpt.Load(ctx)
	if err != nil {
		return fmt.Errorf("train: load checkpoint: %w", err)
	}
	if err = d.model.Restore(snap); err != nil {
		return fmt.Errorf("train: restore epoch %d: %w", epoch, err)
	}
	d.logger.Debug("restored best checkpoint", "epoch", epoch)

	return nil
}

func (d *Driver) evaluate(ctx context.Context, test *dataset.Bundle, res *Result) error {
	loss, err := d.model.Loss(ctx, test, d.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("train: test loss: %w", err)
	}
	preds, err := d.model.Predict(ctx, test, d.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("train: predict: %w", err)
	}
	if preds == nil {
		return fmt.Errorf("%w: nil predictions for %d examples", ErrOutputMismatch, test.Len())
	}
	if r, c := preds.Dims(); r != d.model.Outputs() || c != test.Len() {
		return fmt.Errorf("%w: predictions are %dx%d, want %dx%d",
			ErrOutputMismatch, r, c, d.model.Outputs(), test.Len())
	}
	res.TestLoss, res.Predictions = loss, preds
	d.logger.Info("test done", "loss", loss, "examples", test.Len())

	return nil
}

// checkOutputs requires one label row per output head.
func (d *Driver) checkOutputs(b *dataset.Bundle) error {
	if b == nil || b.Labels == nil {
		return nil
	}
	if r, _ := b.Labels.Dims(); r != d.model.Outputs() {
		return fmt.Errorf("%w: %d label rows, %d outputs", ErrOutputMismatch, r, d.model.Outputs())
	}

	return nil
}

func (d *Driver) transition(to State) error {
	from := d.state
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s → %s", ErrIllegalTransition, from, to)
	}
	d.state = to
	d.logger.Debug("state transition", "from", from, "to", to)
	if d.onTransition != nil {
		d.onTransition(from, to)
	}

	return nil
}

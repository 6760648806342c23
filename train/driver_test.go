package train_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/deepgo/dataset"
	"github.com/katalvlaran/deepgo/train"
)

// fakeModel "learns" one step per FitEpoch. Its validation loss for epoch
// k is valLosses[k-1]; snapshots carry the step counter.
type fakeModel struct {
	outputs   int
	step      int
	restored  int
	valLosses []float64
	fitErr    error
	predRows  int
	calls     []string
}

func (m *fakeModel) Outputs() int { return m.outputs }

func (m *fakeModel) FitEpoch(_ context.Context, b *dataset.Bundle, batchSize int) (float64, error) {
	m.calls = append(m.calls, "fit")
	if m.fitErr != nil {
		return 0, m.fitErr
	}
	m.step++
	return 1 / float64(m.step), nil
}

func (m *fakeModel) Loss(_ context.Context, b *dataset.Bundle, _ int) (float64, error) {
	m.calls = append(m.calls, "loss")
	if b.Terms != nil { // test bundle
		return float64(m.step) / 10, nil
	}
	return m.valLosses[m.step-1], nil
}

func (m *fakeModel) Predict(_ context.Context, b *dataset.Bundle, _ int) (*mat.Dense, error) {
	m.calls = append(m.calls, "predict")
	rows := m.outputs
	if m.predRows > 0 {
		rows = m.predRows
	}
	out := mat.NewDense(rows, b.Len(), nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < b.Len(); j++ {
			out.Set(i, j, float64(m.step))
		}
	}
	return out, nil
}

func (m *fakeModel) Snapshot() ([]byte, error) {
	return []byte(strconv.Itoa(m.step)), nil
}

func (m *fakeModel) Restore(snap []byte) error {
	n, err := strconv.Atoi(string(snap))
	if err != nil {
		return err
	}
	m.step, m.restored = n, n
	return nil
}

// bundles returns train, validation and test bundles with two label rows.
func bundles(t testing.TB) (*dataset.Bundle, *dataset.Bundle, *dataset.Bundle) {
	t.Helper()
	rows := make([]dataset.Example, 5)
	for i := range rows {
		rows[i] = dataset.Example{
			Accession:      strconv.Itoa(i),
			Sequence:       []int32{1, 2},
			Representation: []float64{float64(i)},
			Terms:          []string{"GO:1"},
			Labels:         []float64{1, 0},
		}
	}
	tr, va, te, err := dataset.Reformat(rows[:4], rows[4:], 0.5, 2, dataset.WithMaxLen(2))
	require.NoError(t, err)

	return tr, va, te
}

type DriverSuite struct {
	suite.Suite
	train, val, test *dataset.Bundle
}

func (s *DriverSuite) SetupTest() {
	s.train, s.val, s.test = bundles(s.T())
}

func TestDriverSuite(t *testing.T) {
	suite.Run(t, new(DriverSuite))
}

func (s *DriverSuite) TestBestCheckpointRestored() {
	m := &fakeModel{outputs: 2, valLosses: []float64{0.9, 0.5, 0.5, 0.7}}
	ckpt := &train.MemoryCheckpointer{}
	d, err := train.NewDriver(train.Config{Epochs: 4, BatchSize: 8}, m, train.WithCheckpointer(ckpt))
	s.Require().NoError(err)

	res, err := d.Run(context.Background(), s.train, s.val, s.test)
	s.Require().NoError(err)

	s.Equal(2, res.BestEpoch)
	s.Equal(0.5, res.BestLoss)
	s.Equal(2, ckpt.Saves(), "ties do not checkpoint")
	s.Equal(2, m.restored)
	s.InDelta(0.2, res.TestLoss, 1e-12)
	s.Require().NotNil(res.Predictions)
	r, c := res.Predictions.Dims()
	s.Equal([2]int{2, 1}, [2]int{r, c})
	s.Equal(2.0, res.Predictions.At(0, 0), "predictions come from the best epoch")

	s.Require().Len(res.History, 4)
	var marks []bool
	for _, h := range res.History {
		marks = append(marks, h.Checkpoint)
	}
	s.Equal([]bool{true, true, false, false}, marks)
	s.Equal(train.Done, d.State())
}

func (s *DriverSuite) TestTransitions() {
	m := &fakeModel{outputs: 2, valLosses: []float64{0.9, 1.0}}
	var seen []string
	d, err := train.NewDriver(train.Config{Epochs: 2, BatchSize: 1}, m,
		train.WithOnTransition(func(from, to train.State) { seen = append(seen, to.String()) }))
	s.Require().NoError(err)

	_, err = d.Run(context.Background(), s.train, s.val, nil)
	s.Require().NoError(err)
	s.Equal([]string{"fitting", "validating", "checkpointing", "fitting", "validating", "done"}, seen)
	s.NotContains(m.calls, "predict", "no test examples")

	_, err = d.Run(context.Background(), s.train, s.val, nil)
	s.ErrorIs(err, train.ErrIllegalTransition, "a driver runs once")
}

func (s *DriverSuite) TestEmptyValidationMonitorsTraining() {
	m := &fakeModel{outputs: 2, valLosses: []float64{0.3}}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	d, err := train.NewDriver(train.Config{Epochs: 1, BatchSize: 1}, m, train.WithLogger(logger))
	s.Require().NoError(err)

	res, err := d.Run(context.Background(), s.train, &dataset.Bundle{}, s.test)
	s.Require().NoError(err)
	s.Equal(1, res.BestEpoch)
	s.Contains(buf.String(), "monitoring training loss")
	s.Contains(buf.String(), "epoch done")
}

func (s *DriverSuite) TestNaNNeverCheckpoints() {
	m := &fakeModel{outputs: 2, valLosses: []float64{math.NaN(), math.NaN()}}
	d, err := train.NewDriver(train.Config{Epochs: 2, BatchSize: 1}, m)
	s.Require().NoError(err)

	res, err := d.Run(context.Background(), s.train, s.val, s.test)
	s.Require().NoError(err)
	s.Zero(res.BestEpoch)
	s.True(math.IsInf(res.BestLoss, 1))
	s.Zero(m.restored)
}

func (s *DriverSuite) TestOutputMismatch() {
	m := &fakeModel{outputs: 3, valLosses: []float64{1}}
	d, err := train.NewDriver(train.Config{Epochs: 1, BatchSize: 1}, m)
	s.Require().NoError(err)

	_, err = d.Run(context.Background(), s.train, s.val, s.test)
	s.ErrorIs(err, train.ErrOutputMismatch)
	s.Equal(train.Failed, d.State())
	s.Empty(m.calls, "checked before fitting")

	m = &fakeModel{outputs: 2, predRows: 1, valLosses: []float64{1}}
	d, err = train.NewDriver(train.Config{Epochs: 1, BatchSize: 1}, m)
	s.Require().NoError(err)
	_, err = d.Run(context.Background(), s.train, s.val, s.test)
	s.ErrorIs(err, train.ErrOutputMismatch)
}

func (s *DriverSuite) TestFitErrorFails() {
	boom := errors.New("boom")
	m := &fakeModel{outputs: 2, fitErr: boom}
	d, err := train.NewDriver(train.Config{Epochs: 3, BatchSize: 1}, m)
	s.Require().NoError(err)

	_, err = d.Run(context.Background(), s.train, s.val, s.test)
	s.ErrorIs(err, boom)
	s.Equal(train.Failed, d.State())
	s.Equal([]string{"fit"}, m.calls)
}

func (s *DriverSuite) TestCancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := &fakeModel{outputs: 2}
	d, err := train.NewDriver(train.Config{Epochs: 1, BatchSize: 1}, m)
	s.Require().NoError(err)

	_, err = d.Run(ctx, s.train, s.val, s.test)
	s.ErrorIs(err, context.Canceled)
	s.Equal(train.Failed, d.State())
}

func (s *DriverSuite) TestNilContext() {
	m := &fakeModel{outputs: 2, valLosses: []float64{0.4}}
	d, err := train.NewDriver(train.Config{Epochs: 1, BatchSize: 1}, m)
	s.Require().NoError(err)

	//nolint:staticcheck // a nil context falls back to Background
	res, err := d.Run(nil, s.train, s.val, s.test)
	s.Require().NoError(err)
	s.Equal(1, res.BestEpoch)
	s.Equal(train.Done, d.State())
}

func (s *DriverSuite) TestEmptyTrain() {
	d, err := train.NewDriver(train.Config{Epochs: 1, BatchSize: 1}, &fakeModel{outputs: 2})
	s.Require().NoError(err)
	_, err = d.Run(context.Background(), &dataset.Bundle{}, s.val, s.test)
	s.ErrorIs(err, train.ErrEmptyTrain)
}

func TestNewDriver_Invalid(t *testing.T) {
	_, err := train.NewDriver(train.Config{Epochs: 1, BatchSize: 1}, nil)
	assert.ErrorIs(t, err, train.ErrNilModel)
	_, err = train.NewDriver(train.Config{Epochs: 0, BatchSize: 1}, &fakeModel{})
	assert.ErrorIs(t, err, train.ErrInvalidConfig)
	_, err = train.NewDriver(train.Config{Epochs: 1, BatchSize: 0}, &fakeModel{})
	assert.ErrorIs(t, err, train.ErrInvalidConfig)
}

func TestState(t *testing.T) {
	assert.Equal(t, "checkpointing", train.Checkpointing.String())
	assert.Equal(t, "unknown", train.State(42).String())
	assert.True(t, train.Done.IsTerminal())
	assert.False(t, train.Fitting.IsTerminal())
	assert.True(t, train.Validating.CanTransitionTo(train.Fitting))
	assert.False(t, train.Fitting.CanTransitionTo(train.Checkpointing))
	assert.False(t, train.Done.CanTransitionTo(train.Fitting))
}

func TestMemoryCheckpointer(t *testing.T) {
	ctx := context.Background()
	var c train.MemoryCheckpointer
	_, _, err := c.Load(ctx)
	assert.ErrorIs(t, err, train.ErrNoCheckpoint)

	snap := []byte("v1")
	require.NoError(t, c.Save(ctx, 3, snap))
	snap[0] = 'x'
	epoch, got, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, epoch)
	assert.Equal(t, []byte("v1"), got)
}

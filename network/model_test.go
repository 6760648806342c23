package network_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/deepgo/dataset"
	"github.com/katalvlaran/deepgo/labels"
	"github.com/katalvlaran/deepgo/network"
	"github.com/katalvlaran/deepgo/train"
)

var _ train.Model = (*network.Model)(nil)

// ModelSuite trains a two-head network on a linearly separable toy set:
// head A fires for x0 > 0 and head B for x1 > 0.
type ModelSuite struct {
	suite.Suite
	c     *labels.Context
	net   *network.Network
	ex    *network.Executor
	model *network.Model
	data  *dataset.Bundle
}

func TestModelSuite(t *testing.T) {
	suite.Run(t, new(ModelSuite))
}

func (s *ModelSuite) SetupTest() {
	rel := [][2]string{{"A", "R"}, {"B", "R"}, {"AB", "A"}, {"AB", "B"}}
	s.c = newContext(s.T(), "R", rel, "A", "B")
	rec, root := newInput(s.T(), 2)
	var err error
	s.net, err = network.Build(context.Background(), root, s.c, rec, network.WithWidth(4))
	s.Require().NoError(err)
	s.ex, err = network.NewExecutor(rec, 3)
	s.Require().NoError(err)
	s.model, err = network.NewModel(s.net, s.ex, s.c.Active(), network.WithLearningRate(0.2))
	s.Require().NoError(err)

	s.data = toyBundle(s.T(), s.c.Active(), 16)
}

// toyBundle returns n examples spread over the four quadrants.
func toyBundle(t testing.TB, active *labels.Index, n int) *dataset.Bundle {
	t.Helper()
	rows := make([]dataset.Example, n)
	for i := range rows {
		x0 := float64(i%4) - 1.5
		x1 := float64((i/4)%4) - 1.5
		var terms []string
		if x0 > 0 {
			terms = append(terms, "A")
		}
		if x1 > 0 {
			terms = append(terms, "B")
		}
		rows[i] = dataset.Example{
			Accession:      fmt.Sprintf("T%02d", i),
			Sequence:       []int32{1},
			Representation: []float64{x0, x1},
			Terms:          terms,
			Labels:         active.Encode(terms),
		}
	}
	_, _, te, err := dataset.Reformat(nil, rows, 0, active.Len(), dataset.WithMaxLen(1))
	require.NoError(t, err)

	return te
}

func (s *ModelSuite) TestPredictShape() {
	scores, err := s.model.Predict(context.Background(), s.data, 5)
	s.Require().NoError(err)
	r, c := scores.Dims()
	s.Equal([2]int{2, 16}, [2]int{r, c})

	// batching does not change the scores
	whole, err := s.ex.Predict(s.net, s.c.Active(), s.data.Representations)
	s.Require().NoError(err)
	s.InDeltaSlice(whole.RawMatrix().Data, scores.RawMatrix().Data, 1e-12)
}

func (s *ModelSuite) TestFitLowersLoss() {
	ctx := context.Background()
	before, err := s.model.Loss(ctx, s.data, 4)
	s.Require().NoError(err)

	for range 40 {
		_, err = s.model.FitEpoch(ctx, s.data, 4)
		s.Require().NoError(err)
	}
	after, err := s.model.Loss(ctx, s.data, 4)
	s.Require().NoError(err)
	s.Less(after, before)
}

func (s *ModelSuite) TestSnapshotRestore() {
	ctx := context.Background()
	snap, err := s.model.Snapshot()
	s.Require().NoError(err)
	want, err := s.model.Loss(ctx, s.data, 16)
	s.Require().NoError(err)

	_, err = s.model.FitEpoch(ctx, s.data, 2)
	s.Require().NoError(err)
	moved, err := s.model.Loss(ctx, s.data, 16)
	s.Require().NoError(err)
	s.NotEqual(want, moved)

	s.Require().NoError(s.model.Restore(snap))
	got, err := s.model.Loss(ctx, s.data, 16)
	s.Require().NoError(err)
	s.Equal(want, got)
}

func (s *ModelSuite) TestRestoreRejectsForeignSnapshot() {
	rec, root := newInput(s.T(), 2)
	net, err := network.Build(context.Background(), root, s.c, rec, network.WithWidth(3))
	s.Require().NoError(err)
	ex, err := network.NewExecutor(rec, 3)
	s.Require().NoError(err)
	other, err := network.NewModel(net, ex, s.c.Active())
	s.Require().NoError(err)
	snap, err := other.Snapshot()
	s.Require().NoError(err)

	s.ErrorIs(s.model.Restore(snap), network.ErrSnapshot)
	s.ErrorIs(s.model.Restore([]byte("not json")), network.ErrSnapshot)
	s.ErrorIs(s.model.Restore([]byte("[]")), network.ErrSnapshot)
}

func (s *ModelSuite) TestDriverRun() {
	d, err := train.NewDriver(train.Config{Epochs: 5, BatchSize: 4}, s.model)
	s.Require().NoError(err)

	res, err := d.Run(context.Background(), s.data, &dataset.Bundle{}, s.data)
	s.Require().NoError(err)
	s.Equal(train.Done, d.State())
	s.Positive(res.BestEpoch)
	s.Len(res.History, 5)
	s.InDelta(res.BestLoss, res.TestLoss, 1e-12, "test loss comes from the restored best epoch")
	r, c := res.Predictions.Dims()
	s.Equal([2]int{2, 16}, [2]int{r, c})
}

func (s *ModelSuite) TestBundleErrors() {
	ctx := context.Background()
	_, err := s.model.Predict(ctx, &dataset.Bundle{}, 4)
	s.ErrorIs(err, network.ErrNoRepresentations)

	three, err := labels.NewIndex([]string{"A", "B", "AB"})
	s.Require().NoError(err)
	wide := toyBundle(s.T(), three, 4)
	_, err = s.model.Loss(ctx, wide, 4)
	s.ErrorIs(err, network.ErrLabelShape)
	_, err = s.model.FitEpoch(ctx, wide, 4)
	s.ErrorIs(err, network.ErrLabelShape)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.model.FitEpoch(cancelled, s.data, 4)
	s.ErrorIs(err, context.Canceled)
}

func TestNewModel_Errors(t *testing.T) {
	rec, net := buildDiamond(t, 4, 3)
	ex, err := network.NewExecutor(rec, 1)
	require.NoError(t, err)
	ix, err := labels.NewIndex([]string{"C", "A", "B"})
	require.NoError(t, err)

	_, err = network.NewModel(nil, ex, ix)
	assert.ErrorIs(t, err, network.ErrNilArgument)
	_, err = network.NewModel(net, nil, ix)
	assert.ErrorIs(t, err, network.ErrNilArgument)
	_, err = network.NewModel(net, ex, ix, network.WithLearningRate(0))
	assert.ErrorIs(t, err, network.ErrOptionViolation)

	empty, err := labels.NewIndex(nil)
	require.NoError(t, err)
	_, err = network.NewModel(net, ex, empty)
	assert.ErrorIs(t, err, network.ErrNoOutputs)

	m, err := network.NewModel(net, ex, ix)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Outputs())
}

package network_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/deepgo/network"
)

func TestRecorder(t *testing.T) {
	rec := network.NewRecorder()
	_, err := rec.Input(0)
	assert.ErrorIs(t, err, network.ErrInvalidWidth)

	a, err := rec.Input(3)
	require.NoError(t, err)
	b, err := rec.Transform(0, a, 4)
	require.NoError(t, err)
	m, err := rec.Merge(2, []network.Handle{a, b})
	require.NoError(t, err)

	w, err := rec.Width(m)
	require.NoError(t, err)
	assert.Equal(t, 7, w)

	o, err := rec.Classify(1, m)
	require.NoError(t, err)
	op, err := rec.Op(o)
	require.NoError(t, err)
	assert.Equal(t, network.Op{Kind: network.OpClassify, Site: 1, Inputs: []network.Handle{m}, Width: 1}, op)
	assert.Equal(t, "classify", op.Kind.String())

	// sites are single-use
	_, err = rec.Transform(0, a, 4)
	assert.ErrorIs(t, err, network.ErrSiteInUse)
	_, err = rec.Merge(2, []network.Handle{a})
	assert.ErrorIs(t, err, network.ErrSiteInUse)

	_, err = rec.Merge(5, nil)
	assert.ErrorIs(t, err, network.ErrNoInputs)
	_, err = rec.Transform(6, network.Handle(99), 4)
	assert.ErrorIs(t, err, network.ErrUnknownHandle)
	_, err = rec.Transform(7, a, -1)
	assert.ErrorIs(t, err, network.ErrInvalidWidth)
	_, err = rec.Classify(8, network.NoHandle)
	assert.ErrorIs(t, err, network.ErrUnknownHandle)

	assert.Equal(t, 4, rec.Len())
}

func TestRecorder_OpIsACopy(t *testing.T) {
	rec := network.NewRecorder()
	a, _ := rec.Input(2)
	b, _ := rec.Input(2)
	m, _ := rec.Merge(0, []network.Handle{a, b})

	op, err := rec.Op(m)
	require.NoError(t, err)
	op.Inputs[0] = 42
	again, _ := rec.Op(m)
	assert.Equal(t, []network.Handle{a, b}, again.Inputs)
}

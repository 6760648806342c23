package network_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/deepgo/labels"
	"github.com/katalvlaran/deepgo/network"
	"github.com/katalvlaran/deepgo/ontology"
)

// newContext builds an ontology from child→parent pairs and freezes it with
// the given active terms.
func newContext(t testing.TB, root string, relations [][2]string, active ...string) *labels.Context {
	t.Helper()
	g := ontology.NewGraph()
	require.NoError(t, g.AddTerm(ontology.Term{ID: root}))
	for _, r := range relations {
		require.NoError(t, g.AddRelation(r[0], r[1]))
	}
	ix, err := labels.NewIndex(active)
	require.NoError(t, err)
	c, err := labels.NewContext(g, root, ix)
	require.NoError(t, err)

	return c
}

// newInput returns a recorder holding a single root input of width w.
func newInput(t testing.TB, w int) (*network.Recorder, network.Handle) {
	t.Helper()
	rec := network.NewRecorder()
	h, err := rec.Input(w)
	require.NoError(t, err)

	return rec, h
}

func position(order []string, v string) int {
	for i, x := range order {
		if x == v {
			return i
		}
	}

	return -1
}

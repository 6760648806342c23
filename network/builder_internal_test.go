package network

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/katalvlaran/deepgo/labels"
	"github.com/katalvlaran/deepgo/ontology"
)

// TestBuildUnit_Memoized calls buildUnit twice for the same term, which the
// walker never does on its own.
func TestBuildUnit_Memoized(t *testing.T) {
	g := ontology.NewGraph()
	if err := g.AddRelation("A", "R"); err != nil {
		t.Fatal(err)
	}
	ix, _ := labels.NewIndex([]string{"A"})
	c, err := labels.NewContext(g, "R", ix)
	if err != nil {
		t.Fatal(err)
	}
	rec := NewRecorder()
	root, _ := rec.Input(3)

	b := &builder{
		ctx:     context.Background(),
		c:       c,
		backend: rec,
		opts:    options{width: 2, logger: slog.Default(), onUnit: func(*Unit) error { return nil }},
		net:     newNetwork("R", root, 2, BreadthFirst, nil),
	}
	if err = b.buildUnit("A", 1); err != nil {
		t.Fatalf("first build: %v", err)
	}
	err = b.buildUnit("A", 1)
	if !errors.Is(err, ErrAlreadyBuilt) {
		t.Fatalf("second build: want ErrAlreadyBuilt, got %v", err)
	}
	if rec.Len() != 3 {
		t.Errorf("recorder has %d ops; want 3", rec.Len())
	}

	if err = b.buildUnit("R", 0); !errors.Is(err, ErrInactiveTerm) {
		t.Errorf("inactive term: want ErrInactiveTerm, got %v", err)
	}
}

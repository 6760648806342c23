package ontology

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/deepgo/bfs"
	"github.com/katalvlaran/deepgo/dfs"
)

// Descendants returns every term reachable from root through children,
// root excluded, sorted ascending. This is the "relevant function set" of a
// sub-ontology.
func (g *Graph) Descendants(root string) ([]string, error) {
	return g.reach(root, g.Children)
}

// Ancestors returns every term reachable from id through parents, id
// excluded, sorted ascending.
func (g *Graph) Ancestors(id string) ([]string, error) {
	return g.reach(id, g.Parents)
}

func (g *Graph) reach(start string, next bfs.SuccessorFunc) ([]string, error) {
	if !g.HasTerm(start) {
		return nil, fmt.Errorf("%w: %q", ErrTermNotFound, start)
	}
	res, err := bfs.Walk(next, start)
	if err != nil {
		return nil, err
	}
	out := append([]string(nil), res.Order[1:]...)
	sort.Strings(out)

	return out, nil
}

// Validate checks that the subgraph below root is acyclic.
// Returns ErrTermNotFound for an unknown root and ErrCycle (with the cycle
// path in the message) when a cycle exists.
func (g *Graph) Validate(root string) error {
	if !g.HasTerm(root) {
		return fmt.Errorf("%w: %q", ErrTermNotFound, root)
	}
	cycle, err := dfs.FindCycle(dfs.SuccessorFunc(g.Children), root)
	if err != nil {
		return err
	}
	if cycle != nil {
		return fmt.Errorf("%w: %v", ErrCycle, cycle)
	}

	return nil
}

// File: methods_relations.go
// Role: is_a relation lifecycle & neighborhood queries (the Oracle surface).
//
// Determinism:
//   - Parents() and Children() return IDs sorted ascending.
//
// Concurrency:
//   - Relation maps protected by muRel; term creation goes through AddTerm
//     (muTerm) before muRel is taken, so the two locks are never nested.
package ontology

import (
	"fmt"
	"sort"
)

// AddRelation records "child is_a parent".
//
// Implementation:
//   - Stage 1: Validate IDs (ErrEmptyTermID) and reject child == parent (ErrSelfRelation).
//   - Stage 2: Ensure both endpoints exist (create, or ErrTermNotFound in strict mode).
//   - Stage 3: Under muRel, link parents[child][parent] and children[parent][child].
//
// Behavior highlights:
//   - Idempotent: a relation that already exists is not counted twice.
//   - Cycles are not rejected here; call Validate(root) once loading is done.
//
// Complexity:
//   - Time O(1) amortized.
func (g *Graph) AddRelation(child, parent string) error {
	if child == "" || parent == "" {
		return ErrEmptyTermID
	}
	if child == parent {
		return fmt.Errorf("%w: %q", ErrSelfRelation, child)
	}
	for _, id := range []string{child, parent} {
		if g.HasTerm(id) {
			continue
		}
		if g.strict {
			return fmt.Errorf("%w: %q", ErrTermNotFound, id)
		}
		if err := g.AddTerm(Term{ID: id}); err != nil {
			return err
		}
	}

	g.muRel.Lock()
	defer g.muRel.Unlock()
	if _, ok := g.parents[child][parent]; ok {
		return nil
	}
	link(g.parents, child, parent)
	link(g.children, parent, child)
	g.relations++

	return nil
}

// link sets m[from][to], allocating the inner bucket on demand.
func link(m map[string]map[string]struct{}, from, to string) {
	inner, ok := m[from]
	if !ok {
		inner = make(map[string]struct{})
		m[from] = inner
	}
	inner[to] = struct{}{}
}

// HasRelation reports whether child is_a parent is recorded.
func (g *Graph) HasRelation(child, parent string) bool {
	g.muRel.RLock()
	defer g.muRel.RUnlock()
	_, ok := g.parents[child][parent]

	return ok
}

// RelationCount returns the number of distinct is_a relations.
func (g *Graph) RelationCount() int {
	g.muRel.RLock()
	defer g.muRel.RUnlock()

	return g.relations
}

// Parents returns the direct parents of id, sorted.
// Returns ErrTermNotFound for unknown IDs.
func (g *Graph) Parents(id string) ([]string, error) {
	return g.neighborhood(id, g.parents)
}

// Children returns the direct children of id, sorted.
// Returns ErrTermNotFound for unknown IDs.
func (g *Graph) Children(id string) ([]string, error) {
	return g.neighborhood(id, g.children)
}

func (g *Graph) neighborhood(id string, m map[string]map[string]struct{}) ([]string, error) {
	if !g.HasTerm(id) {
		return nil, fmt.Errorf("%w: %q", ErrTermNotFound, id)
	}
	g.muRel.RLock()
	out := make([]string, 0, len(m[id]))
	for n := range m[id] {
		out = append(out, n)
	}
	g.muRel.RUnlock()
	sort.Strings(out)

	return out, nil
}

// File: methods_terms.go
// Role: Term lifecycle & queries.
//
// Determinism:
//   - Terms() returns IDs sorted lexicographically ascending.
//
// Concurrency:
//   - Term catalog protected by muTerm.
package ontology

import "sort"

// AddTerm inserts t, or merges non-empty metadata into an existing term.
//
// Implementation:
//   - Stage 1: Validate non-empty ID (ErrEmptyTermID).
//   - Stage 2: Under muTerm write lock, insert a copy or merge Name/Namespace.
//
// Behavior highlights:
//   - Idempotent: re-adding a bare ID is a no-op; a later record with a Name
//     fills in a term first created implicitly by AddRelation.
//
// Complexity:
//   - Time O(1), Space O(1).
func (g *Graph) AddTerm(t Term) error {
	if t.ID == "" {
		return ErrEmptyTermID
	}
	g.muTerm.Lock()
	defer g.muTerm.Unlock()

	if cur, ok := g.terms[t.ID]; ok {
		if t.Name != "" {
			cur.Name = t.Name
		}
		if t.Namespace != "" {
			cur.Namespace = t.Namespace
		}
		return nil
	}
	cp := t
	g.terms[t.ID] = &cp

	return nil
}

// HasTerm reports whether the term exists (empty ID ⇒ false).
func (g *Graph) HasTerm(id string) bool {
	if id == "" {
		return false
	}
	g.muTerm.RLock()
	defer g.muTerm.RUnlock()
	_, ok := g.terms[id]

	return ok
}

// Term returns a copy of the term record.
func (g *Graph) Term(id string) (Term, error) {
	g.muTerm.RLock()
	defer g.muTerm.RUnlock()
	t, ok := g.terms[id]
	if !ok {
		return Term{}, ErrTermNotFound
	}

	return *t, nil
}

// Terms returns all term IDs sorted ascending.
// Complexity: O(T log T).
func (g *Graph) Terms() []string {
	g.muTerm.RLock()
	ids := make([]string, 0, len(g.terms))
	for id := range g.terms {
		ids = append(ids, id)
	}
	g.muTerm.RUnlock()
	sort.Strings(ids)

	return ids
}

// TermCount returns the number of terms.
func (g *Graph) TermCount() int {
	g.muTerm.RLock()
	defer g.muTerm.RUnlock()

	return len(g.terms)
}

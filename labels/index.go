package labels

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyID indicates an empty term ID in the active set.
	ErrEmptyID = errors.New("labels: empty term id")

	// ErrDuplicateID indicates the same term listed twice in the active set.
	ErrDuplicateID = errors.New("labels: duplicate term id")

	// ErrOutOfRange indicates a position outside [0, Len()).
	ErrOutOfRange = errors.New("labels: index out of range")
)

// Index is an ordered, immutable enumeration of active functions.
// Positions are unique, contiguous and zero-based.
type Index struct {
	ids []string
	pos map[string]int
}

// NewIndex copies ids into a new Index, preserving order.
func NewIndex(ids []string) (*Index, error) {
	ix := &Index{
		ids: make([]string, len(ids)),
		pos: make(map[string]int, len(ids)),
	}
	for i, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%w at position %d", ErrEmptyID, i)
		}
		if prev, ok := ix.pos[id]; ok {
			return nil, fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateID, id, prev, i)
		}
		ix.ids[i] = id
		ix.pos[id] = i
	}

	return ix, nil
}

// Len returns the number of active functions.
func (ix *Index) Len() int { return len(ix.ids) }

// At returns the term at position i.
func (ix *Index) At(i int) (string, error) {
	if i < 0 || i >= len(ix.ids) {
		return "", fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(ix.ids))
	}

	return ix.ids[i], nil
}

// Position returns the index of id and whether it is active.
func (ix *Index) Position(id string) (int, bool) {
	i, ok := ix.pos[id]
	return i, ok
}

// Contains reports whether id is an active function.
func (ix *Index) Contains(id string) bool {
	_, ok := ix.pos[id]
	return ok
}

// IDs returns a copy of the active functions in index order.
func (ix *Index) IDs() []string {
	return append([]string(nil), ix.ids...)
}

// Encode projects a term set onto the index: the result has Len() entries,
// 1 where the term is present and 0 elsewhere. Inactive terms are ignored.
func (ix *Index) Encode(terms []string) []float64 {
	vec := make([]float64, len(ix.ids))
	for _, t := range terms {
		if i, ok := ix.pos[t]; ok {
			vec[i] = 1
		}
	}

	return vec
}

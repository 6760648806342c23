package dfs

import "fmt"

// topoSorter encapsulates state for a topological sort traversal.
type topoSorter struct {
	next  SuccessorFunc
	opts  options
	state map[string]int // visitation state: White, Gray, Black
	order []string       // recorded post-order sequence
}

// TopologicalSort computes a topological ordering of every node reachable
// from start (start included, always first).
// Returns ErrCycleDetected if a back-edge is met and ErrNeighborFetch
// (wrapping the cause) if next fails.
func TopologicalSort(next SuccessorFunc, start string, opts ...Option) ([]string, error) {
	if next == nil {
		return nil, ErrNilSuccessors
	}
	if start == "" {
		return nil, ErrEmptyStart
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &topoSorter{
		next:  next,
		opts:  o,
		state: make(map[string]int),
	}
	if err := s.visit(start); err != nil {
		return nil, err
	}

	// reverse post-order
	for i, j := 0, len(s.order)-1; i < j; i, j = i+1, j-1 {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	}

	return s.order, nil
}

// visit performs a DFS from id, marking states and detecting cycles.
func (s *topoSorter) visit(id string) error {
	select {
	case <-s.opts.ctx.Done():
		return s.opts.ctx.Err()
	default:
	}
	switch s.state[id] {
	case Gray:
		return fmt.Errorf("%w: back-edge into %q", ErrCycleDetected, id)
	case Black:
		return nil
	}
	s.state[id] = Gray

	succ, err := s.next(id)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrNeighborFetch, id, err)
	}
	for _, nxt := range succ {
		if !s.opts.filter(id, nxt) {
			continue
		}
		if err = s.visit(nxt); err != nil {
			return err
		}
	}

	s.state[id] = Black
	s.order = append(s.order, id)

	return nil
}

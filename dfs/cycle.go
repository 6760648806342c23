package dfs

import "fmt"

// cycleFinder tracks the current DFS path so a back-edge can be turned into
// the cycle it closes.
type cycleFinder struct {
	next  SuccessorFunc
	opts  options
	state map[string]int
	path  []string
	cycle []string
}

// FindCycle searches the subgraph reachable from start for a cycle.
// It returns the cycle as a closed path (first node repeated at the end),
// or nil if the reachable subgraph is acyclic.
func FindCycle(next SuccessorFunc, start string, opts ...Option) ([]string, error) {
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

	f := &cycleFinder{next: next, opts: o, state: make(map[string]int)}
	if err := f.visit(start); err != nil {
		return nil, err
	}

	return f.cycle, nil
}

func (f *cycleFinder) visit(id string) error {
	select {
	case <-f.opts.ctx.Done():
		return f.opts.ctx.Err()
	default:
	}
	f.state[id] = Gray
	f.path = append(f.path, id)

	succ, err := f.next(id)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrNeighborFetch, id, err)
	}
	for _, nxt := range succ {
		if f.cycle != nil {
			return nil
		}
		if !f.opts.filter(id, nxt) {
			continue
		}
		switch f.state[nxt] {
		case White:
			if err = f.visit(nxt); err != nil {
				return err
			}
		case Gray:
			f.cycle = f.closePath(nxt)
			return nil
		}
	}

	f.path = f.path[:len(f.path)-1]
	f.state[id] = Black

	return nil
}

// closePath slices the current path from the first occurrence of head and
// appends head again to close the loop.
func (f *cycleFinder) closePath(head string) []string {
	for i, id := range f.path {
		if id == head {
			out := make([]string, 0, len(f.path)-i+1)
			out = append(out, f.path[i:]...)
			return append(out, head)
		}
	}

	return []string{head, head}
}

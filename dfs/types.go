package dfs

import (
	"context"
	"errors"
)

// Node visitation states.
const (
	White = iota // White: the node has not been visited yet.
	Gray         // Gray: the node is in the recursion stack (visiting).
	Black        // Black: the node and all its descendants have been fully explored.
)

var (
	// ErrNilSuccessors is returned when a nil successor function is passed.
	ErrNilSuccessors = errors.New("dfs: successor function is nil")

	// ErrEmptyStart indicates that the start ID is empty.
	ErrEmptyStart = errors.New("dfs: start id is empty")

	// ErrCycleDetected indicates that a cycle was encountered during TopologicalSort.
	ErrCycleDetected = errors.New("dfs: cycle detected")

	// ErrNeighborFetch indicates a failure to retrieve successors.
	ErrNeighborFetch = errors.New("dfs: failed to fetch successors")
)

// SuccessorFunc lists the direct successors of id.
type SuccessorFunc func(id string) ([]string, error)

// Option configures optional behavior of TopologicalSort and FindCycle.
type Option func(*options)

type options struct {
	ctx    context.Context
	filter func(curr, next string) bool
}

func defaultOptions() options {
	return options{
		ctx:    context.Background(),
		filter: func(_, _ string) bool { return true },
	}
}

// WithContext sets the cancellation context.
// Passing a nil context has no effect.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithFilterNeighbor restricts traversal to links for which fn returns true.
func WithFilterNeighbor(fn func(curr, next string) bool) Option {
	return func(o *options) {
		if fn != nil {
			o.filter = fn
		}
	}
}

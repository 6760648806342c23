// Package bfs provides tunable options and error definitions
// for breadth-first walks.
package bfs

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for BFS execution.
var (
	// ErrNilSuccessors is returned if a nil successor function is passed.
	ErrNilSuccessors = errors.New("bfs: successor function is nil")

	// ErrEmptyStart is returned when the start ID is empty.
	ErrEmptyStart = errors.New("bfs: start id is empty")

	// ErrNeighbors is returned when expanding a node's successors fails.
	ErrNeighbors = errors.New("bfs: successor expansion error")
)

// SuccessorFunc lists the direct successors of id (children, in an ontology).
type SuccessorFunc func(id string) ([]string, error)

// Option configures BFS behavior via functional arguments.
type Option func(*Options)

// Options holds parameters and callbacks to customize a walk.
type Options struct {
	// Ctx allows cancellation and deadlines.
	Ctx context.Context

	// OnEnqueue is called when a node is enqueued, before visiting.
	// Receives node ID and its depth from the start.
	OnEnqueue func(id string, depth int)

	// OnVisit is called when visiting a node. If it returns an error,
	// the walk aborts and propagates that error.
	OnVisit func(id string, depth int) error

	// FilterNeighbor can skip links by returning false.
	// Called for each link curr→next.
	FilterNeighbor func(curr, next string) bool
}

// DefaultOptions returns Options with:
//   - Context.Background()
//   - no filtering (all successors allowed)
//   - no-op hooks (OnEnqueue, OnVisit)
func DefaultOptions() Options {
	return Options{
		Ctx:            context.Background(),
		OnEnqueue:      func(string, int) {},
		OnVisit:        func(string, int) error { return nil },
		FilterNeighbor: func(_, _ string) bool { return true },
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnEnqueue registers a callback to run on enqueue.
func WithOnEnqueue(fn func(id string, depth int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnEnqueue = fn
		}
	}
}

// WithOnVisit registers a callback to run on visit; returning an error
// from this callback stops the walk.
func WithOnVisit(fn func(id string, depth int) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// WithFilterNeighbor skips successors when fn returns false.
func WithFilterNeighbor(fn func(curr, next string) bool) Option {
	return func(o *Options) {
		if fn != nil {
			o.FilterNeighbor = fn
		}
	}
}

// Result holds the outcome of a walk:
//   - Order: nodes visited, in visit sequence (start first).
//   - Depth: map from node ID to its distance (in links) from the start.
//   - Parent: map from node ID to its predecessor in the BFS tree.
type Result struct {
	Order  []string
	Depth  map[string]int
	Parent map[string]string
}

// Reached reports whether id was discovered by the walk.
func (r *Result) Reached(id string) bool {
	_, ok := r.Depth[id]
	return ok
}

// PathTo reconstructs the BFS-tree path from the start node to dest.
// Returns an error if dest was not reached.
func (r *Result) PathTo(dest string) ([]string, error) {
	if !r.Reached(dest) {
		return nil, fmt.Errorf("bfs: no path to %q", dest)
	}
	path := []string{}
	for cur := dest; ; {
		path = append(path, cur)
		prev, ok := r.Parent[cur]
		if !ok {
			break
		}
		cur = prev
	}
	// reverse to get start → dest
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}

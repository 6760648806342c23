package bfs

import (
	"context"
	"fmt"
)

// queueItem pairs a node ID with its BFS depth and its parent's ID.
type queueItem struct {
	id     string
	depth  int
	parent string // empty for the start node
}

// walker encapsulates mutable BFS state.
type walker struct {
	next    SuccessorFunc
	opts    Options
	ctx     context.Context
	queue   []queueItem
	visited map[string]bool
	res     *Result
}

// Walk runs breadth-first search starting from startID, expanding nodes
// through next and applying any number of functional Options.
// Returns ErrNilSuccessors or ErrEmptyStart for invalid input,
// ErrNeighbors when next fails,
// or any user-supplied hook error.
func Walk(next SuccessorFunc, startID string, opts ...Option) (*Result, error) {
	if next == nil {
		return nil, ErrNilSuccessors
	}
	if startID == "" {
		return nil, ErrEmptyStart
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	w := &walker{
		next:    next,
		opts:    o,
		ctx:     o.Ctx,
		visited: make(map[string]bool),
		res: &Result{
			Depth:  make(map[string]int),
			Parent: make(map[string]string),
		},
	}

	// Seed queue with start node (no parent)
	w.enqueue(startID, 0, "")

	return w.res, w.loop()
}

// enqueue marks id visited at depth d, calls OnEnqueue, records its parent,
// and adds it to the queue.
func (w *walker) enqueue(id string, d int, parent string) {
	w.visited[id] = true
	w.res.Depth[id] = d
	if parent != "" {
		w.res.Parent[id] = parent
	}
	w.opts.OnEnqueue(id, d)
	w.queue = append(w.queue, queueItem{id: id, depth: d, parent: parent})
}

// loop processes the queue until empty, error, or cancellation.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		item := w.dequeue()
		if err := w.visit(item); err != nil {
			return err
		}
		if err := w.enqueueSuccessors(item); err != nil {
			return err
		}
	}

	return nil
}

// dequeue pops the first item.
func (w *walker) dequeue() queueItem {
	item := w.queue[0]
	w.queue = w.queue[1:]

	return item
}

// visit records the node in Order and calls OnVisit.
func (w *walker) visit(item queueItem) error {
	w.res.Order = append(w.res.Order, item.id)
	if err := w.opts.OnVisit(item.id, item.depth); err != nil {
		return fmt.Errorf("bfs: OnVisit error at %q: %w", item.id, err)
	}

	return nil
}

// enqueueSuccessors expands item, applies filtering and enqueues each
// unseen successor one level deeper.
func (w *walker) enqueueSuccessors(item queueItem) error {
	nextDepth := item.depth + 1
	successors, err := w.next(item.id)
	if err != nil {
		return fmt.Errorf("%w: expanding %q: %w", ErrNeighbors, item.id, err)
	}
	for _, s := range successors {
		if !w.opts.FilterNeighbor(item.id, s) {
			continue
		}
		if !w.visited[s] {
			w.enqueue(s, nextDepth, item.id)
		}
	}

	return nil
}

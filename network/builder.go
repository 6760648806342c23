package network

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/deepgo/bfs"
	"github.com/katalvlaran/deepgo/dfs"
	"github.com/katalvlaran/deepgo/labels"
)

// DefaultWidth is the node-output width used when WithWidth is not given.
const DefaultWidth = 256

// Option configures Build.
type Option func(*options)

type options struct {
	width    int
	strategy Strategy
	logger   *slog.Logger
	onUnit   func(*Unit) error
	err      error
}

func defaultOptions() options {
	return options{
		width:    DefaultWidth,
		strategy: BreadthFirst,
		logger:   slog.Default(),
		onUnit:   func(*Unit) error { return nil },
	}
}

// WithWidth sets the node-output width W; it is propagated unchanged from
// parent to child.
func WithWidth(w int) Option {
	return func(o *options) {
		if w <= 0 {
			o.err = fmt.Errorf("%w: width %d", ErrOptionViolation, w)
			return
		}
		o.width = w
	}
}

// WithStrategy selects BreadthFirst (default) or Topological.
func WithStrategy(s Strategy) Option {
	return func(o *options) {
		if s != BreadthFirst && s != Topological {
			o.err = fmt.Errorf("%w: %v", ErrOptionViolation, s)
			return
		}
		o.strategy = s
	}
}

// WithLogger sets the logger used for per-unit debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOnUnit registers a hook called after each unit is recorded.
// Returning an error aborts the build.
func WithOnUnit(fn func(*Unit) error) Option {
	return func(o *options) {
		if fn != nil {
			o.onUnit = fn
		}
	}
}

// builder holds the state of one build pass. It exclusively owns the
// network until Build returns.
type builder struct {
	ctx     context.Context
	c       *labels.Context
	backend Backend
	opts    options
	net     *Network
}

// Build compiles the active subgraph below c.Root() into units on backend.
// root is the handle of the externally supplied root representation.
//
// A root without active children yields a Network with Len() == 0.
func Build(ctx context.Context, root Handle, c *labels.Context, backend Backend, opts ...Option) (*Network, error) {
	if c == nil || backend == nil {
		return nil, ErrNilArgument
	}
	if ctx == nil {
		ctx = context.Background()
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	b := &builder{
		ctx:     ctx,
		c:       c,
		backend: backend,
		opts:    o,
		net:     newNetwork(c.Root(), root, o.width, o.strategy, c.Oracle()),
	}

	var err error
	switch o.strategy {
	case Topological:
		err = b.topological()
	default:
		err = b.breadthFirst()
	}
	if err != nil {
		return nil, err
	}
	o.logger.Debug("network built",
		"root", c.Root(), "units", b.net.Len(), "active", c.Active().Len(), "strategy", o.strategy.String())

	return b.net, nil
}

// active filters links to active terms only.
func (b *builder) active(_, next string) bool {
	return b.c.Active().Contains(next)
}

// breadthFirst is the single-pass build: a FIFO walk from the root where
// visiting a term builds it. The walker enqueues each term once, which is
// the memoization.
func (b *builder) breadthFirst() error {
	root := b.c.Root()
	_, err := bfs.Walk(b.c.Oracle().Children, root,
		bfs.WithContext(b.ctx),
		bfs.WithFilterNeighbor(b.active),
		bfs.WithOnEnqueue(b.queued),
		bfs.WithOnVisit(func(id string, depth int) error {
			if id == root {
				return nil
			}
			return b.buildUnit(id, depth)
		}),
	)

	return err
}

// queued logs one build-queue entry: the term and the width its unit will
// receive from its parents.
func (b *builder) queued(id string, depth int) {
	if id == b.c.Root() {
		return
	}
	b.opts.logger.Debug("unit queued", "term", id, "width", b.opts.width, "depth", depth)
}

// topological orders the reachable active subgraph first, so that every
// reachable active parent is built before its children.
func (b *builder) topological() error {
	root := b.c.Root()
	order, err := dfs.TopologicalSort(b.c.Oracle().Children, root,
		dfs.WithContext(b.ctx),
		dfs.WithFilterNeighbor(b.active),
	)
	if err != nil {
		return &BuildError{Term: root, Err: err}
	}
	for _, id := range order {
		if id == root {
			continue
		}
		if err = b.buildUnit(id, b.depthFromParents(id)); err != nil {
			return err
		}
	}

	return nil
}

// depthFromParents is 1 + the deepest built parent (the root has depth 0).
func (b *builder) depthFromParents(id string) int {
	parents, err := b.c.Oracle().Parents(id)
	if err != nil {
		return 0
	}
	depth := 0
	for _, p := range parents {
		if p == b.net.rootTerm {
			depth = max(depth, 1)
			continue
		}
		if u, ok := b.net.units[p]; ok {
			depth = max(depth, u.Depth+1)
		}
	}

	return depth
}

// buildUnit runs merge → transform → classify for one term.
func (b *builder) buildUnit(id string, depth int) error {
	if _, ok := b.net.units[id]; ok {
		return &BuildError{Term: id, Err: ErrAlreadyBuilt}
	}
	idx, ok := b.c.Active().Position(id)
	if !ok {
		return &BuildError{Term: id, Err: ErrInactiveTerm}
	}

	parents, err := b.c.Oracle().Parents(id)
	if err != nil {
		return &BuildError{Term: id, Err: err}
	}
	var (
		merged  []string
		handles []Handle
	)
	for _, p := range parents {
		if h, ok := b.net.Forward(p); ok {
			merged = append(merged, p)
			handles = append(handles, h)
		}
	}
	if len(handles) == 0 {
		return &BuildError{Term: id, Err: ErrNoParents}
	}

	transformSite, outputSite, mergeSite := Sites(idx)
	u := &Unit{
		Term:    id,
		Index:   idx,
		Depth:   depth,
		Width:   b.opts.width,
		Parents: merged,
		Merge:   NoHandle,
	}

	in := handles[0]
	if len(handles) > 1 {
		if in, err = b.backend.Merge(mergeSite, handles); err != nil {
			return &BuildError{Term: id, Err: err}
		}
		u.Merge = in
	}
	if u.Forward, err = b.backend.Transform(transformSite, in, b.opts.width); err != nil {
		return &BuildError{Term: id, Err: err}
	}
	if u.Output, err = b.backend.Classify(outputSite, u.Forward); err != nil {
		return &BuildError{Term: id, Err: err}
	}

	b.net.units[id] = u
	b.net.order = append(b.net.order, id)
	b.opts.logger.Debug("unit built",
		"term", id, "index", idx, "depth", depth, "parents", merged, "forward", int(u.Forward), "output", int(u.Output))

	return b.opts.onUnit(u)
}

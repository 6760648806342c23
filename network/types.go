package network

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/deepgo/bfs"
	"github.com/katalvlaran/deepgo/labels"
	"github.com/katalvlaran/deepgo/ontology"
)

// Sentinel errors for network construction.
var (
	// ErrNoParents indicates a queued term with no built parent to merge.
	ErrNoParents = errors.New("network: no resolved parent representation")

	// ErrAlreadyBuilt indicates a second build of the same term.
	ErrAlreadyBuilt = errors.New("network: term already built")

	// ErrInactiveTerm indicates a build request for a term outside the active index.
	ErrInactiveTerm = errors.New("network: term is not active")

	// ErrMissingUnit indicates an active term without a unit.
	ErrMissingUnit = errors.New("network: active term has no unit")

	// ErrNilArgument indicates a required argument passed as nil.
	ErrNilArgument = errors.New("network: nil argument")

	// ErrOptionViolation indicates an invalid Option.
	ErrOptionViolation = errors.New("network: invalid option")
)

// BuildError reports a failure to build the unit of one term.
// It is fatal to the build pass.
type BuildError struct {
	Term string
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("network: build %q: %v", e.Term, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Handle addresses one node of a backend's computation graph.
type Handle int

// NoHandle marks an absent handle.
const NoHandle Handle = -1

// Strategy selects how parents are resolved during a build.
type Strategy int

const (
	// BreadthFirst builds in BFS order and merges the parents built so far.
	BreadthFirst Strategy = iota
	// Topological builds in topological order and merges every reachable active parent.
	Topological
)

func (s Strategy) String() string {
	switch s {
	case BreadthFirst:
		return "bfs"
	case Topological:
		return "topological"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy accepts "bfs" or "topological" (case-insensitive).
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "bfs", "breadth-first", "":
		return BreadthFirst, nil
	case "topological", "topo":
		return Topological, nil
	}

	return 0, fmt.Errorf("%w: unknown strategy %q", ErrOptionViolation, s)
}

// Sites returns the transform, output and merge sites of the term at
// active position idx.
func Sites(idx int) (transform, output, merge int) {
	return 3 * idx, 3*idx + 1, 3*idx + 2
}

// Unit is the built block of one active term.
type Unit struct {
	Term  string
	Index int // position in the active index
	Depth int // BFS depth (BreadthFirst) or longest parent chain (Topological)
	Width int

	// Parents are the parent terms whose representations were merged,
	// in merge order. The root appears here for top-level terms.
	Parents []string

	Merge   Handle // NoHandle when a single parent passed through
	Forward Handle
	Output  Handle
}

// Network is the result of Build: the root entry plus one Unit per reached
// active term.
type Network struct {
	rootTerm string
	root     Handle
	width    int
	strategy Strategy
	oracle   ontology.Oracle // for diagnostics only
	units    map[string]*Unit
	order    []string
}

func newNetwork(rootTerm string, root Handle, width int, s Strategy, o ontology.Oracle) *Network {
	return &Network{
		rootTerm: rootTerm,
		root:     root,
		width:    width,
		strategy: s,
		oracle:   o,
		units:    make(map[string]*Unit),
	}
}

// RootTerm returns the ontology root the network was built from.
func (n *Network) RootTerm() string { return n.rootTerm }

// Root returns the externally supplied root representation.
func (n *Network) Root() Handle { return n.root }

// Strategy returns the strategy used for the build.
func (n *Network) Strategy() Strategy { return n.strategy }

// Width returns the node-output width.
func (n *Network) Width() int { return n.width }

// Len returns the number of units (the root entry excluded).
func (n *Network) Len() int { return len(n.units) }

// Unit returns the unit of term id.
func (n *Network) Unit(id string) (*Unit, bool) {
	u, ok := n.units[id]
	return u, ok
}

// Forward returns the forward representation of id; for the root term this
// is the root representation.
func (n *Network) Forward(id string) (Handle, bool) {
	if id == n.rootTerm {
		return n.root, true
	}
	u, ok := n.units[id]
	if !ok {
		return NoHandle, false
	}

	return u.Forward, true
}

// Order returns the terms in build order.
func (n *Network) Order() []string {
	return append([]string(nil), n.order...)
}

// Units returns the units in build order.
func (n *Network) Units() []*Unit {
	out := make([]*Unit, len(n.order))
	for i, id := range n.order {
		out[i] = n.units[id]
	}

	return out
}

// Outputs lists output handles in active-index order: element i is the
// classification head of active term i. A term without a unit fails with
// ErrMissingUnit and the reason it was never reached.
func (n *Network) Outputs(active *labels.Index) ([]Handle, error) {
	if active == nil {
		return nil, ErrNilArgument
	}
	out := make([]Handle, active.Len())
	for i, id := range active.IDs() {
		u, ok := n.units[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q (position %d): %s", ErrMissingUnit, id, i, n.unreached(id))
		}
		out[i] = u.Output
	}

	return out, nil
}

// unreached explains a missing unit by walking the full hierarchy from the
// root: id is either outside the root's closure, or its shortest path
// crosses a term that was never built.
func (n *Network) unreached(id string) string {
	if n.oracle == nil {
		return "no hierarchy to trace"
	}
	res, err := bfs.Walk(n.oracle.Children, n.rootTerm)
	if err != nil {
		return fmt.Sprintf("trace failed: %v", err)
	}
	if !res.Reached(id) {
		return fmt.Sprintf("not below root %q", n.rootTerm)
	}
	path, err := res.PathTo(id)
	if err != nil {
		return err.Error()
	}
	if len(path) < 2 {
		return "the root has no unit of its own"
	}
	for _, p := range path[1 : len(path)-1] {
		if _, ok := n.units[p]; !ok {
			return fmt.Sprintf("path %s crosses unbuilt term %q", strings.Join(path, " > "), p)
		}
	}

	return fmt.Sprintf("path %s", strings.Join(path, " > "))
}

package ontology

import (
	"errors"
	"sync"
)

// Sentinel errors for ontology graph operations.
var (
	// ErrEmptyTermID indicates that a term ID is the empty string.
	ErrEmptyTermID = errors.New("ontology: term ID is empty")

	// ErrTermNotFound indicates an operation referenced a non-existent term.
	ErrTermNotFound = errors.New("ontology: term not found")

	// ErrSelfRelation indicates an is_a relation from a term to itself.
	ErrSelfRelation = errors.New("ontology: self relation not allowed")

	// ErrCycle indicates a cycle in the subgraph below a root.
	ErrCycle = errors.New("ontology: cycle detected")

	// ErrUnknownNamespace indicates an unsupported namespace short name.
	ErrUnknownNamespace = errors.New("ontology: unknown namespace")
)

// Oracle is the read-only view of an ontology consumed by the builder and
// the evaluator. Implementations must return IDs in a stable order.
type Oracle interface {
	// Parents returns the direct is_a parents of id.
	Parents(id string) ([]string, error)
	// Children returns the direct is_a children of id.
	Children(id string) ([]string, error)
	// Descendants returns every term below root (root excluded).
	Descendants(root string) ([]string, error)
}

// Term is a node of the ontology.
type Term struct {
	// ID is the unique term identifier, e.g. "GO:0005488".
	ID string

	// Name is the human-readable label. Optional.
	Name string

	// Namespace is the sub-ontology the term belongs to. Optional.
	Namespace string
}

// GraphOption configures behavior of a Graph before creation.
type GraphOption func(g *Graph)

// WithStrictRelations makes AddRelation reject unknown endpoints instead of
// creating them.
func WithStrictRelations() GraphOption {
	return func(g *Graph) { g.strict = true }
}

// Graph is the in-memory ontology.
//
// muTerm protects terms; muRel protects parents and children.
// parents[child][parent] and children[parent][child] always mirror each other.
type Graph struct {
	muTerm sync.RWMutex // guards terms
	muRel  sync.RWMutex // guards parents, children, relations

	strict bool // AddRelation requires existing terms

	terms     map[string]*Term
	parents   map[string]map[string]struct{}
	children  map[string]map[string]struct{}
	relations int
}

// Compile-time assertion: *Graph is an Oracle.
var _ Oracle = (*Graph)(nil)

// NewGraph creates an empty Graph with the given options.
// Complexity: O(1)
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		terms:    make(map[string]*Term),
		parents:  make(map[string]map[string]struct{}),
		children: make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

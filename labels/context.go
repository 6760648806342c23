package labels

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/deepgo/ontology"
)

// ErrNilContextPart indicates a nil oracle or index passed to NewContext.
var ErrNilContextPart = errors.New("labels: nil oracle or index")

// Context bundles everything a build or evaluation pass needs to know about
// the label space. It is read-only after NewContext returns.
type Context struct {
	root     string
	oracle   ontology.Oracle
	active   *Index
	relevant map[string]struct{}
}

// NewContext resolves the relevant closure of root through o and freezes
// it together with the active index.
func NewContext(o ontology.Oracle, root string, active *Index) (*Context, error) {
	if o == nil || active == nil {
		return nil, ErrNilContextPart
	}
	desc, err := o.Descendants(root)
	if err != nil {
		return nil, fmt.Errorf("labels: closure of %q: %w", root, err)
	}
	rel := make(map[string]struct{}, len(desc))
	for _, id := range desc {
		rel[id] = struct{}{}
	}

	return &Context{root: root, oracle: o, active: active, relevant: rel}, nil
}

// Root returns the sub-ontology root.
func (c *Context) Root() string { return c.root }

// Oracle returns the ontology view.
func (c *Context) Oracle() ontology.Oracle { return c.oracle }

// Active returns the active function index.
func (c *Context) Active() *Index { return c.active }

// Relevant reports whether id lies in the closure below the root.
func (c *Context) Relevant(id string) bool {
	_, ok := c.relevant[id]
	return ok
}

// RelevantCount returns the size of the closure.
func (c *Context) RelevantCount() int { return len(c.relevant) }

// Unmodeled reports whether id is a relevant function without an output
// head: a true label that the network can never predict.
func (c *Context) Unmodeled(id string) bool {
	return c.Relevant(id) && !c.active.Contains(id)
}

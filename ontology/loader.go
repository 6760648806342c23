package ontology

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// document is the on-disk term list.
type document struct {
	Terms []termRecord `yaml:"terms"`
}

type termRecord struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Namespace string   `yaml:"namespace"`
	Parents   []string `yaml:"parents"`
}

// LoadYAML builds a Graph from a YAML term list read from r.
// Parents may be listed before they are defined.
func LoadYAML(r io.Reader, opts ...GraphOption) (*Graph, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("ontology: decode term list: %w", err)
	}

	g := NewGraph(opts...)
	for _, rec := range doc.Terms {
		if err := g.AddTerm(Term{ID: rec.ID, Name: rec.Name, Namespace: rec.Namespace}); err != nil {
			return nil, err
		}
	}
	for _, rec := range doc.Terms {
		for _, p := range rec.Parents {
			if err := g.AddRelation(rec.ID, p); err != nil {
				return nil, fmt.Errorf("ontology: term %q: %w", rec.ID, err)
			}
		}
	}

	return g, nil
}

// LoadFile opens path and delegates to LoadYAML.
func LoadFile(path string, opts ...GraphOption) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ontology: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return LoadYAML(f, opts...)
}

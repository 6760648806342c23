package ontology

import "fmt"

// Gene Ontology sub-ontology roots.
const (
	BiologicalProcess = "GO:0008150"
	MolecularFunction = "GO:0003674"
	CellularComponent = "GO:0005575"
)

// namespaceRoots maps the short names used on the command line to roots.
var namespaceRoots = map[string]string{
	"bp": BiologicalProcess,
	"mf": MolecularFunction,
	"cc": CellularComponent,
}

// RootFor resolves "bp", "mf" or "cc" to the corresponding root term.
func RootFor(short string) (string, error) {
	root, ok := namespaceRoots[short]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownNamespace, short)
	}

	return root, nil
}

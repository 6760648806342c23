package ontology_test

import (
	"fmt"

	"github.com/katalvlaran/deepgo/ontology"
)

// ExampleGraph_Descendants computes the relevant function set of a root.
func ExampleGraph_Descendants() {
	g := ontology.NewGraph()
	_ = g.AddRelation("binding", "MF")
	_ = g.AddRelation("catalytic", "MF")
	_ = g.AddRelation("ion binding", "binding")

	desc, _ := g.Descendants("MF")
	fmt.Println(desc)
	// Output:
	// [binding catalytic ion binding]
}

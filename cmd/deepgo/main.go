// Command deepgo compiles ontology-shaped classifier networks and scores
// their predictions with hierarchy-aware metrics.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

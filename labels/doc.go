// Package labels holds the supervision-side context of a run: the ordered
// set of active functions (the terms that get an output head) and the
// relevant-function closure of the chosen sub-ontology root.
//
// Index position i addresses both row i of a transposed label matrix and
// output head i of a compiled network. Both structures are immutable after
// construction and are passed explicitly to every component instead of
// living in package-level state.
package labels

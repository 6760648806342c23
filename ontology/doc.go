// Package ontology provides the term graph that the network builder and the
// evaluator consult: an in-memory, thread-safe directed acyclic graph of
// ontology terms connected by is_a relations (child → parent).
//
// The graph G = (T, R) offers:
//
//   - Oracle: Parents(id), Children(id), Descendants(root) — the only view the
//     rest of the module depends on.
//   - Deterministic enumeration: Terms(), Parents(), Children(), Descendants()
//     all return IDs sorted ascending.
//   - Idempotent construction: AddTerm merges metadata, AddRelation ignores a
//     relation that already exists.
//   - Separate sync.RWMutex for the term catalog (muTerm) and the relation
//     maps (muRel), so concurrent readers never block each other.
//   - Validate(root): cycle check of the subgraph below a root, the
//     precondition for building a network from it.
//
// Configuration Options (GraphOption):
//
//	– WithStrictRelations()
//	    AddRelation fails with ErrTermNotFound instead of creating missing terms.
//
// Loading:
//
//	LoadYAML/LoadFile read a plain term list:
//
//	    terms:
//	      - id: GO:0003674
//	        name: molecular_function
//	      - id: GO:0005488
//	        name: binding
//	        parents: [GO:0003674]
//
//	This is a fixture format, not an OBO parser.
//
// Errors:
//
//	ErrEmptyTermID    – zero-length term ID
//	ErrTermNotFound   – missing term
//	ErrSelfRelation   – is_a relation from a term to itself
//	ErrCycle          – cycle below a validated root
//	ErrUnknownNamespace – RootFor with an unknown short name
package ontology

// Package network compiles an ontology subgraph into a computation graph
// whose topology mirrors the DAG: one merge → transform → classify unit per
// active function.
//
// What:
//
//   - Build walks the active subgraph below the root breadth-first. For every
//     active term it merges the forward representations of the parents that
//     are already built (the root counts as built), projects the result to a
//     fixed width with a nonlinearity, and attaches a single sigmoid output.
//   - Every term is built at most once; a term reachable through several
//     parents is built on its first discovery.
//   - Units are addressed by integer Handles handed out by a Backend, so the
//     graph carries no string-keyed layer names. Merge, transform and output
//     sites of the term at active position i are 3i+2, 3i and 3i+1, which
//     cannot collide across terms.
//
// Strategies:
//
//   - BreadthFirst (default): single pass; a parent first discovered deeper
//     than its child is skipped in the child's merge.
//   - Topological: a first pass orders the active subgraph with a DFS
//     topological sort; every reachable active parent is merged.
//
// Backends:
//
//   - Recorder stores the op table (Input, Concat, Transform, Classify).
//   - Executor runs a recorded graph on gonum matrices with seeded
//     Glorot-uniform weights and produces the score matrix that the
//     evaluation package consumes.
//
// Training:
//
//   - Model wraps an Executor for the train package: binary cross-entropy
//     over every head, minibatch SGD with backpropagation through the op
//     table, and parameter snapshots for checkpointing.
//
// Errors:
//
//   - *BuildError wrapping ErrNoParents, ErrAlreadyBuilt, dfs.ErrCycleDetected
//     or a Backend failure.
//   - ErrMissingUnit when an active term has no unit, with the BFS path that
//     explains why it was unreachable from the root.
//   - ErrNilArgument for nil inputs to Build, Predict, Forward or NewModel.
//   - ErrUnknownHandle, ErrSiteInUse, ErrInvalidWidth, ErrNoInputs from Recorder.
package network

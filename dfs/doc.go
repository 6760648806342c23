// Package dfs implements depth-first topological ordering and cycle
// detection over the part of a directed structure reachable from a start
// node.
//
// What:
//
//   - TopologicalSort: computes a linear ordering of every node reachable
//     from the start such that for each link u→v, u appears before v.
//     Returns ErrCycleDetected if the reachable subgraph has a cycle.
//   - FindCycle: reports one cycle (as a closed path) in the reachable
//     subgraph, or nil when the subgraph is acyclic.
//
// Both use three-color marking (White, Gray, Black): a link into a Gray node
// is a back-edge and therefore a cycle.
//
// Determinism:
//
//	Successors are explored in the order the SuccessorFunc returns them,
//	so sorted successor lists give reproducible orders.
//
// Complexity:
//
//   - TopologicalSort: Time O(V+E), Memory O(V)
//   - FindCycle:       Time O(V+E), Memory O(V)
//
// Errors:
//
//   - ErrNilSuccessors  when the successor function is nil.
//   - ErrEmptyStart     when the start ID is empty.
//   - ErrCycleDetected  when TopologicalSort meets a back-edge.
//   - ErrNeighborFetch  when the successor function fails.
package dfs

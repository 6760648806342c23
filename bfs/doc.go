// Package bfs provides a breadth-first walk over any directed structure that
// can enumerate the successors of a node, returning visit order, discovery
// depth and the BFS-tree parent of every reached node.
//
// What
//
//   - Explore nodes in non-decreasing distance (edge count) from a start node.
//   - Each node is enqueued at most once: the first discovery wins, later
//     discoveries through other predecessors are ignored.
//   - Supports functional hooks at two stages:
//   - OnEnqueue (when a node is first discovered)
//   - OnVisit   (when visiting; may abort with an error)
//   - Allows pruning of individual successor links via WithFilterNeighbor.
//   - Result.PathTo reconstructs the BFS-tree path to any reached node.
//
// Determinism
//
//	Successors are expanded in the order the SuccessorFunc returns them. The
//	ontology graph returns sorted IDs, so walks over it are fully reproducible.
//
// Complexity (V = reached nodes, E = inspected links)
//
//   - Time:   O(V + E)
//   - Memory: O(V)
//
// Usage
//
//	res, err := bfs.Walk(graph.Children, root,
//	    bfs.WithFilterNeighbor(func(_, next string) bool { return active.Contains(next) }),
//	    bfs.WithOnVisit(func(id string, depth int) error { return build(id) }),
//	)
//
// Errors
//
//   - ErrNilSuccessors    if the successor function is nil.
//   - ErrEmptyStart       if the start ID is empty.
//   - ErrNeighbors        if the successor function fails for any node.
//   - Wrapped hook errors from OnVisit.
package bfs

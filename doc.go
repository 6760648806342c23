// Package deepgo predicts protein functions with a classifier whose
// topology mirrors a Gene Ontology subgraph, and scores the predictions
// with ontology-aware precision, recall and F1.
//
// Layout:
//
//	ontology/   term graph, parent/child/descendant queries, YAML loader
//	bfs/, dfs/  traversals over successor functions (closure, ordering, cycles)
//	labels/     active function index and the frozen label context
//	network/    DAG-to-network compilation, handle table, gonum executor
//	dataset/    split, filter, pad and stack examples into bundles
//	evaluation/ hierarchical per-protein and per-function metrics
//	train/      epoch state machine with best-checkpoint selection
//	store/      SQLite run history
//	config/     YAML configuration
//	cmd/deepgo  command-line entry point
//
// Typical flow:
//
//	g, _ := ontology.LoadFile("terms.yaml")
//	active, _ := labels.ReadIndexFile("functions.txt")
//	c, _ := labels.NewContext(g, ontology.MolecularFunction, active)
//	rec := network.NewRecorder()
//	in, _ := rec.Input(256)
//	net, _ := network.Build(ctx, in, c, rec)
//	// train, predict, then:
//	rep, _ := evaluation.Evaluate(scores, testBundle.Labels, testBundle.Terms, c)
package deepgo

// Package evaluation scores multi-label predictions against ground truth
// while accounting for ontology labels that have no output head.
//
// Evaluate thresholds an (active × examples) score matrix, counts true and
// false positives and false negatives per example, and then adds one false
// negative for every distinct true label of the example that lies in the
// relevant closure but outside the active set. Examples with no signal
// (tp = fp = fn = 0) are skipped; examples with tp = 0 still count towards
// the mean but add nothing to it. Precision, recall and F1 are the means of
// the per-example values.
//
// A per-function report (one row per active function, in index order) is
// produced alongside the protein-centric metrics.
package evaluation

// Package dataset turns flat example records into the aligned tensors a
// multi-output model trains on.
//
// What:
//
//   - Reformat: splits training rows into train/validation without
//     shuffling, pads sequences, stacks representation vectors into an
//     (examples × width) matrix and stacks label vectors into a matrix
//     transposed to (active × examples), so row i feeds output head i.
//   - Split: seeded shuffle followed by a train/test cut.
//   - Filter: drops examples with an empty or over-long sequence.
//   - PadSequences: fixed-length padding and truncation.
//   - TransposeLabels: the (examples × active) ⇄ (active × examples) seam.
//
// Shapes:
//
//	Every example of one run must share the same representation width and
//	the same label length. A mismatch is reported as *ShapeMismatchError
//	before any matrix is returned. Empty inputs give bundles with zero
//	examples and nil matrices.
//
// Errors:
//
//   - ErrShapeMismatch  (wrapped by *ShapeMismatchError)
//   - ErrFraction       when a split fraction is outside its range.
//   - ErrMaxLen         when the maximum length is not positive.
package dataset

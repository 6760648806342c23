// Package train drives a multi-output model through its epochs as an
// explicit state machine and keeps the parameters with the best
// validation loss.
//
// States:
//
//	Initializing → Fitting → Validating → (Checkpointing) → Fitting ... → Done
//
// Any error moves the driver to Failed. A checkpoint is written only when
// the validation loss strictly improves; before the test pass the best
// checkpoint is restored, so the reported test loss and predictions come
// from the best epoch rather than the last one.
//
// The model itself (layers, optimizer, batching) is supplied by the caller
// through the Model interface. Output head i of the model must correspond
// to row i of the bundles' label matrices.
package train

// Package layer provides neural network layer implementations.
//
// A layer maps an input vector of fixed length to an output vector of fixed
// length and may hold trainable parameters. Parameters travel as ordered
// bundles of gonum matrices so that gradients keep the exact shape of the
// parameters they refer to.
package layer

import "gonum.org/v1/gonum/mat"

// Layer is a neural network layer.
//
// Forward, Backward and Gradient are pure with respect to the layer: they
// read the parameters but never mutate them, and the layer retains no state
// between calls. Backward and Gradient receive the same input x that produced
// the layer's output, together with the gradient of the loss with respect to
// that output.
//
// Params and SetParams round-trip: SetParams(Params()) leaves the layer
// unchanged. Both copy, so callers never share backing arrays with the layer.
// SetParams panics if the bundle shapes differ from those returned by Params;
// passing a wrong-shape bundle is a configuration error, not a runtime
// condition to recover from.
type Layer interface {
	// Forward computes the layer output for an input of length in.
	Forward(x []float64) []float64

	// Backward returns dLoss/dx given the input x and dLoss/dOutput.
	Backward(x, outputGrad []float64) []float64

	// Gradient returns dLoss/dParam for each parameter matrix, with the
	// same shapes and order as Params.
	Gradient(x, outputGrad []float64) []*mat.Dense

	// Params returns a copy of the trainable parameter bundle.
	Params() []*mat.Dense

	// SetParams overwrites the trainable parameters with a copy of the
	// given bundle.
	SetParams(params []*mat.Dense)

	// Shape returns the fixed (input, output) dimensions of the layer.
	Shape() (in, out int)
}

// CloneBundle deep-copies an ordered parameter or gradient bundle.
func CloneBundle(bundle []*mat.Dense) []*mat.Dense {
	out := make([]*mat.Dense, len(bundle))
	for i, m := range bundle {
		out[i] = mat.DenseCopyOf(m)
	}
	return out
}

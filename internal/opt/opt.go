// Package opt provides optimization algorithms.
//
// An optimizer turns an averaged parameter gradient into a parameter update.
// Parameters and gradients travel as ordered bundles of matrices matching the
// network's parameter layout; the update is applied independently to each
// matrix in the bundle. Optimizers that keep running state (momentum,
// adaptive moments) key that state to the bundle layout of the first update
// call and must be Reset before being reused on a different network.
package opt

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// UpdateContext carries the training-loop metadata available to a single
// update call.
type UpdateContext struct {
	Epoch         int     // current epoch, starting at 1
	BatchIndex    int     // index of the batch within the epoch, starting at 0
	BatchSize     int     // number of records averaged into the gradient
	EpochLoss     float64 // whole-dataset loss at the end of the previous epoch
	PrevEpochLoss float64 // whole-dataset loss one epoch earlier
}

// Optimizer computes one parameter update given current parameters and an
// averaged gradient.
type Optimizer interface {
	// SingleUpdate returns the new parameter bundle and a stop flag. A true
	// stop flag ends training early; it is the only non-error early
	// termination path.
	SingleUpdate(params, grad []*mat.Dense, ctx UpdateContext) (newParams []*mat.Dense, stop bool)

	// Reset clears any running state so the optimizer can be reused with a
	// different network.
	Reset()
}

// checkLayout panics if state was initialized against a different parameter
// layout, which means the optimizer is being shared across networks.
func checkLayout(state, params []*mat.Dense, name string) {
	if len(state) != len(params) {
		panic(fmt.Sprintf("opt: %s state holds %d matrices but update got %d; reset the optimizer before reusing it", name, len(state), len(params)))
	}
	for i := range state {
		sr, sc := state[i].Dims()
		pr, pc := params[i].Dims()
		if sr != pr || sc != pc {
			panic(fmt.Sprintf("opt: %s state matrix %d has shape (%d,%d) but update got (%d,%d); reset the optimizer before reusing it", name, i, sr, sc, pr, pc))
		}
	}
}

// zerosLike allocates a bundle of zero matrices with the same shapes as the
// given one.
func zerosLike(bundle []*mat.Dense) []*mat.Dense {
	out := make([]*mat.Dense, len(bundle))
	for i, m := range bundle {
		r, c := m.Dims()
		out[i] = mat.NewDense(r, c, nil)
	}
	return out
}

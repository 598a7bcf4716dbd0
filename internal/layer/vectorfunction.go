package layer

import (
	"fmt"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// VectorFunction applies an arbitrary vector-valued function to the whole
// input vector. It has no trainable parameters; a typical use is a softmax
// block on top of a dense stack.
type VectorFunction struct {
	f       func(x []float64) []float64
	jac     func(x []float64) *mat.Dense
	inSize  int
	outSize int
}

// NewVectorFunction creates a layer applying f to its input. jac, if non-nil,
// returns the [out, in] Jacobian of f at x; when nil the Jacobian is
// approximated with central finite differences.
func NewVectorFunction(in, out int, f func(x []float64) []float64, jac func(x []float64) *mat.Dense) *VectorFunction {
	return &VectorFunction{f: f, jac: jac, inSize: in, outSize: out}
}

// Forward computes f(x).
func (v *VectorFunction) Forward(x []float64) []float64 {
	out := v.f(x)
	if len(out) != v.outSize {
		panic(fmt.Sprintf("layer: vector function returned %d values, want %d", len(out), v.outSize))
	}
	return out
}

// jacobian evaluates the Jacobian of f at x, numerically when no closed form
// was supplied.
func (v *VectorFunction) jacobian(x []float64) *mat.Dense {
	if v.jac != nil {
		return v.jac(x)
	}
	jac := mat.NewDense(v.outSize, v.inSize, nil)
	fd.Jacobian(jac, func(dst, x []float64) {
		copy(dst, v.f(x))
	}, x, &fd.JacobianSettings{Formula: fd.Central})
	return jac
}

// Backward returns dLoss/dx = J^T * outputGrad.
func (v *VectorFunction) Backward(x, outputGrad []float64) []float64 {
	jac := v.jacobian(x)
	dx := mat.NewVecDense(v.inSize, nil)
	dx.MulVec(jac.T(), mat.NewVecDense(v.outSize, outputGrad))
	out := make([]float64, v.inSize)
	copy(out, dx.RawVector().Data)
	return out
}

// Gradient returns an empty bundle: the layer has nothing to train.
func (v *VectorFunction) Gradient(x, outputGrad []float64) []*mat.Dense {
	return nil
}

// Params returns an empty bundle.
func (v *VectorFunction) Params() []*mat.Dense {
	return nil
}

// SetParams accepts only an empty bundle.
func (v *VectorFunction) SetParams(params []*mat.Dense) {
	if len(params) != 0 {
		panic(fmt.Sprintf("layer: vector function has no parameters, got %d matrices", len(params)))
	}
}

// Shape returns the (input, output) dimensions.
func (v *VectorFunction) Shape() (in, out int) {
	return v.inSize, v.outSize
}

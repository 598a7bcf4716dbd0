package layer

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/sylvaticus/deeplearning/internal/activations"
	"github.com/sylvaticus/deeplearning/internal/stats"
)

// Dense is a fully connected layer: output = act(W*x + b).
//
// W has shape [out, in] and b has length out. Both are owned exclusively by
// the layer; Params and Gradient hand out copies.
type Dense struct {
	w       *mat.Dense
	b       *mat.VecDense
	act     activations.Activation
	inSize  int
	outSize int
}

// NewDense creates a dense layer with Xavier/Glorot-initialized weights drawn
// from the given rng. The rng must not be nil: every stochastic operation in
// this module takes an explicit random source so runs are reproducible.
func NewDense(in, out int, act activations.Activation, rng *rand.Rand) *Dense {
	limit := stats.XavierLimit(in, out)
	w := make([]float64, out*in)
	for i := range w {
		w[i] = rng.Float64()*2*limit - limit
	}
	b := make([]float64, out)
	for i := range b {
		b[i] = rng.Float64()*2*limit - limit
	}
	return &Dense{
		w:       mat.NewDense(out, in, w),
		b:       mat.NewVecDense(out, b),
		act:     act,
		inSize:  in,
		outSize: out,
	}
}

// NewDenseWithWeights creates a dense layer from explicit initial weights.
// w must have shape [out, in] and b length out.
func NewDenseWithWeights(w *mat.Dense, b []float64, act activations.Activation) (*Dense, error) {
	out, in := w.Dims()
	if len(b) != out {
		return nil, fmt.Errorf("layer: dense bias length %d does not match output size %d", len(b), out)
	}
	bias := make([]float64, out)
	copy(bias, b)
	return &Dense{
		w:       mat.DenseCopyOf(w),
		b:       mat.NewVecDense(out, bias),
		act:     act,
		inSize:  in,
		outSize: out,
	}, nil
}

// preActivation computes z = W*x + b.
func (d *Dense) preActivation(x []float64) *mat.VecDense {
	z := mat.NewVecDense(d.outSize, nil)
	z.MulVec(d.w, mat.NewVecDense(d.inSize, x))
	z.AddVec(z, d.b)
	return z
}

// Forward computes act(W*x + b).
func (d *Dense) Forward(x []float64) []float64 {
	z := d.preActivation(x)
	out := make([]float64, d.outSize)
	for i := range out {
		out[i] = d.act.Activate(z.AtVec(i))
	}
	return out
}

// dz returns dLoss/dz, the output gradient pulled through the activation.
func (d *Dense) dz(z *mat.VecDense, outputGrad []float64) *mat.VecDense {
	dz := mat.NewVecDense(d.outSize, nil)
	for i := 0; i < d.outSize; i++ {
		dz.SetVec(i, outputGrad[i]*d.act.Derivative(z.AtVec(i)))
	}
	return dz
}

// Backward returns dLoss/dx = W^T * dz.
func (d *Dense) Backward(x, outputGrad []float64) []float64 {
	dz := d.dz(d.preActivation(x), outputGrad)
	dx := mat.NewVecDense(d.inSize, nil)
	dx.MulVec(d.w.T(), dz)
	out := make([]float64, d.inSize)
	copy(out, dx.RawVector().Data)
	return out
}

// Gradient returns [dLoss/dW, dLoss/db] with dLoss/dW = dz ⊗ x.
func (d *Dense) Gradient(x, outputGrad []float64) []*mat.Dense {
	dz := d.dz(d.preActivation(x), outputGrad)
	gw := mat.NewDense(d.outSize, d.inSize, nil)
	gw.Outer(1, dz, mat.NewVecDense(d.inSize, x))
	gb := mat.NewDense(d.outSize, 1, nil)
	for i := 0; i < d.outSize; i++ {
		gb.Set(i, 0, dz.AtVec(i))
	}
	return []*mat.Dense{gw, gb}
}

// Params returns [W, b], with b as an out x 1 matrix.
func (d *Dense) Params() []*mat.Dense {
	b := mat.NewDense(d.outSize, 1, nil)
	for i := 0; i < d.outSize; i++ {
		b.Set(i, 0, d.b.AtVec(i))
	}
	return []*mat.Dense{mat.DenseCopyOf(d.w), b}
}

// SetParams overwrites W and b from a [W, b] bundle.
func (d *Dense) SetParams(params []*mat.Dense) {
	if len(params) != 2 {
		panic(fmt.Sprintf("layer: dense SetParams expects 2 matrices, got %d", len(params)))
	}
	if r, c := params[0].Dims(); r != d.outSize || c != d.inSize {
		panic(fmt.Sprintf("layer: dense SetParams weight shape (%d,%d), want (%d,%d)", r, c, d.outSize, d.inSize))
	}
	if r, c := params[1].Dims(); r != d.outSize || c != 1 {
		panic(fmt.Sprintf("layer: dense SetParams bias shape (%d,%d), want (%d,1)", r, c, d.outSize))
	}
	d.w.Copy(params[0])
	for i := 0; i < d.outSize; i++ {
		d.b.SetVec(i, params[1].At(i, 0))
	}
}

// Shape returns the (input, output) dimensions.
func (d *Dense) Shape() (in, out int) {
	return d.inSize, d.outSize
}

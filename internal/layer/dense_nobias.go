package layer

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/sylvaticus/deeplearning/internal/activations"
	"github.com/sylvaticus/deeplearning/internal/stats"
)

// DenseNoBias is a fully connected layer without a bias term:
// output = act(W*x).
type DenseNoBias struct {
	w       *mat.Dense
	act     activations.Activation
	inSize  int
	outSize int
}

// NewDenseNoBias creates a bias-free dense layer with Xavier-initialized
// weights drawn from the given rng.
func NewDenseNoBias(in, out int, act activations.Activation, rng *rand.Rand) *DenseNoBias {
	limit := stats.XavierLimit(in, out)
	w := make([]float64, out*in)
	for i := range w {
		w[i] = rng.Float64()*2*limit - limit
	}
	return &DenseNoBias{
		w:       mat.NewDense(out, in, w),
		act:     act,
		inSize:  in,
		outSize: out,
	}
}

// NewDenseNoBiasWithWeights creates a bias-free dense layer from explicit
// initial weights of shape [out, in].
func NewDenseNoBiasWithWeights(w *mat.Dense, act activations.Activation) *DenseNoBias {
	out, in := w.Dims()
	return &DenseNoBias{
		w:       mat.DenseCopyOf(w),
		act:     act,
		inSize:  in,
		outSize: out,
	}
}

func (d *DenseNoBias) preActivation(x []float64) *mat.VecDense {
	z := mat.NewVecDense(d.outSize, nil)
	z.MulVec(d.w, mat.NewVecDense(d.inSize, x))
	return z
}

// Forward computes act(W*x).
func (d *DenseNoBias) Forward(x []float64) []float64 {
	z := d.preActivation(x)
	out := make([]float64, d.outSize)
	for i := range out {
		out[i] = d.act.Activate(z.AtVec(i))
	}
	return out
}

func (d *DenseNoBias) dz(z *mat.VecDense, outputGrad []float64) *mat.VecDense {
	dz := mat.NewVecDense(d.outSize, nil)
	for i := 0; i < d.outSize; i++ {
		dz.SetVec(i, outputGrad[i]*d.act.Derivative(z.AtVec(i)))
	}
	return dz
}

// Backward returns dLoss/dx = W^T * dz.
func (d *DenseNoBias) Backward(x, outputGrad []float64) []float64 {
	dz := d.dz(d.preActivation(x), outputGrad)
	dx := mat.NewVecDense(d.inSize, nil)
	dx.MulVec(d.w.T(), dz)
	out := make([]float64, d.inSize)
	copy(out, dx.RawVector().Data)
	return out
}

// Gradient returns [dLoss/dW].
func (d *DenseNoBias) Gradient(x, outputGrad []float64) []*mat.Dense {
	dz := d.dz(d.preActivation(x), outputGrad)
	gw := mat.NewDense(d.outSize, d.inSize, nil)
	gw.Outer(1, dz, mat.NewVecDense(d.inSize, x))
	return []*mat.Dense{gw}
}

// Params returns [W].
func (d *DenseNoBias) Params() []*mat.Dense {
	return []*mat.Dense{mat.DenseCopyOf(d.w)}
}

// SetParams overwrites W from a [W] bundle.
func (d *DenseNoBias) SetParams(params []*mat.Dense) {
	if len(params) != 1 {
		panic(fmt.Sprintf("layer: dense-no-bias SetParams expects 1 matrix, got %d", len(params)))
	}
	if r, c := params[0].Dims(); r != d.outSize || c != d.inSize {
		panic(fmt.Sprintf("layer: dense-no-bias SetParams weight shape (%d,%d), want (%d,%d)", r, c, d.outSize, d.inSize))
	}
	d.w.Copy(params[0])
}

// Shape returns the (input, output) dimensions.
func (d *DenseNoBias) Shape() (in, out int) {
	return d.inSize, d.outSize
}

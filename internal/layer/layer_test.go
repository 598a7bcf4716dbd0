package layer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/sylvaticus/deeplearning/internal/activations"
	"github.com/sylvaticus/deeplearning/internal/stats"
)

func TestDenseForward(t *testing.T) {
	// Identity weights and zero bias: output is tanh applied to the input.
	w := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	d, err := NewDenseWithWeights(w, []float64{0, 0}, activations.Tanh{})
	require.NoError(t, err)

	out := d.Forward([]float64{1, 2})
	assert.InDelta(t, math.Tanh(1), out[0], 1e-9)
	assert.InDelta(t, math.Tanh(2), out[1], 1e-9)
}

func TestDenseShape(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := NewDense(3, 2, activations.ReLU{}, rng)
	in, out := d.Shape()
	assert.Equal(t, 3, in)
	assert.Equal(t, 2, out)
	assert.Len(t, d.Forward([]float64{1, 2, 3}), 2)
}

// Backward with a unit next-gradient must reproduce the transposed
// Jacobian-vector product of Forward.
func TestDenseBackwardMatchesJacobian(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	d := NewDense(3, 2, activations.Sigmoid{}, rng)
	x := []float64{0.5, -1.2, 0.3}
	u := []float64{1, 1}

	jac := mat.NewDense(2, 3, nil)
	fd.Jacobian(jac, func(dst, x []float64) {
		copy(dst, d.Forward(x))
	}, x, &fd.JacobianSettings{Formula: fd.Central})

	want := mat.NewVecDense(3, nil)
	want.MulVec(jac.T(), mat.NewVecDense(2, u))

	got := d.Backward(x, u)
	for i := range got {
		assert.InDelta(t, want.AtVec(i), got[i], 1e-6)
	}
}

// Setting the parameters a layer reports back into the layer is a no-op.
func TestParamsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	layers := map[string]Layer{
		"dense":       NewDense(3, 2, activations.Tanh{}, rng),
		"denseNoBias": NewDenseNoBias(3, 2, activations.Tanh{}, rng),
		"vectorFn":    NewVectorFunction(3, 3, stats.Softmax, nil),
	}
	x := []float64{0.1, 0.2, 0.3}

	for name, l := range layers {
		before := l.Forward(x)
		l.SetParams(l.Params())
		after := l.Forward(x)
		assert.Equal(t, before, after, "%s changed after round-trip", name)
	}
}

// Params must hand out copies: mutating the returned bundle must not touch
// the layer.
func TestParamsDoNotAlias(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	d := NewDense(2, 2, activations.Linear{}, rng)
	x := []float64{1, 1}

	before := d.Forward(x)
	params := d.Params()
	params[0].Set(0, 0, 1e6)
	after := d.Forward(x)
	assert.Equal(t, before, after)
}

func TestDenseGradientMatchesFiniteDifferences(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	d := NewDense(3, 2, activations.Tanh{}, rng)
	x := []float64{0.4, -0.2, 0.9}
	u := []float64{1, 1}

	// Scalar objective: sum of layer outputs.
	objective := func(l Layer) float64 {
		var sum float64
		for _, v := range l.Forward(x) {
			sum += v
		}
		return sum
	}

	grads := d.Gradient(x, u)
	params := d.Params()
	require.Len(t, grads, len(params))

	const h = 1e-6
	for pi, p := range params {
		r, c := p.Dims()
		gr, gc := grads[pi].Dims()
		require.Equal(t, r, gr)
		require.Equal(t, c, gc)
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				orig := p.At(i, j)
				p.Set(i, j, orig+h)
				d.SetParams(params)
				up := objective(d)
				p.Set(i, j, orig-h)
				d.SetParams(params)
				down := objective(d)
				p.Set(i, j, orig)
				d.SetParams(params)
				assert.InDelta(t, (up-down)/(2*h), grads[pi].At(i, j), 1e-5,
					"param %d element (%d,%d)", pi, i, j)
			}
		}
	}
}

func TestDenseNoBiasHasSingleParamMatrix(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	d := NewDenseNoBias(4, 2, activations.Linear{}, rng)
	params := d.Params()
	require.Len(t, params, 1)
	r, c := params[0].Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 4, c)

	// Zero input maps to zero without a bias term.
	out := d.Forward([]float64{0, 0, 0, 0})
	assert.Equal(t, []float64{0, 0}, out)
}

func TestSetParamsShapeMismatchPanics(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	d := NewDense(3, 2, activations.Tanh{}, rng)

	assert.Panics(t, func() {
		d.SetParams([]*mat.Dense{mat.NewDense(2, 2, nil), mat.NewDense(2, 1, nil)})
	})
	assert.Panics(t, func() {
		d.SetParams([]*mat.Dense{mat.NewDense(2, 3, nil)})
	})
}

func TestVectorFunctionNumericJacobianMatchesClosedForm(t *testing.T) {
	numeric := NewVectorFunction(3, 3, stats.Softmax, nil)
	closed := NewVectorFunction(3, 3, stats.Softmax, stats.SoftmaxJacobian)

	x := []float64{0.3, -0.8, 1.4}
	u := []float64{0.5, -1, 2}

	got := numeric.Backward(x, u)
	want := closed.Backward(x, u)
	require.Len(t, got, len(want))
	for i := range got {
		assert.InDelta(t, want[i], got[i], 1e-6)
	}

	assert.Empty(t, numeric.Params())
	assert.Empty(t, numeric.Gradient(x, u))
}

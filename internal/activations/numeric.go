package activations

import "gonum.org/v1/gonum/diff/fd"

// Numeric adapts a scalar function with no closed-form derivative,
// approximating Derivative by central finite differences.
type Numeric struct {
	F func(x float64) float64
}

// Activate evaluates the wrapped function.
func (n Numeric) Activate(x float64) float64 {
	return n.F(x)
}

// Derivative approximates f'(x) by central differences.
func (n Numeric) Derivative(x float64) float64 {
	return fd.Derivative(n.F, x, &fd.Settings{Formula: fd.Central})
}

// Package activations provides scalar activation functions and their derivatives.
package activations

import "math"

// Activation is a scalar activation function with its first derivative.
// Dense layers apply it element-wise to the pre-activation vector.
type Activation interface {
	// Activate computes f(x)
	Activate(x float64) float64

	// Derivative computes f'(x)
	Derivative(x float64) float64
}

// Linear is the identity activation, for output layers of regression networks.
type Linear struct{}

// Activate returns x unchanged.
func (l Linear) Activate(x float64) float64 { return x }

// Derivative returns 1.
func (l Linear) Derivative(x float64) float64 { return 1 }

// ReLU activation function.
type ReLU struct{}

// Activate computes max(0, x)
func (r ReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// Derivative returns 1 if x > 0, else 0
func (r ReLU) Derivative(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// Sigmoid activation function.
type Sigmoid struct{}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Activate computes 1 / (1 + exp(-x))
func (s Sigmoid) Activate(x float64) float64 {
	return sigmoid(x)
}

// Derivative computes sigmoid(x) * (1 - sigmoid(x))
func (s Sigmoid) Derivative(x float64) float64 {
	sigma := sigmoid(x)
	return sigma * (1 - sigma)
}

// Tanh activation function.
type Tanh struct{}

// Activate computes tanh(x)
func (t Tanh) Activate(x float64) float64 {
	return math.Tanh(x)
}

// Derivative computes 1 - tanh(x)^2
func (t Tanh) Derivative(x float64) float64 {
	th := math.Tanh(x)
	return 1 - th*th
}

// LeakyReLU activation function, avoids dead units on negative inputs.
type LeakyReLU struct {
	Alpha float64 // slope for x <= 0
}

// NewLeakyReLU creates a LeakyReLU with the given negative slope.
func NewLeakyReLU(alpha float64) *LeakyReLU {
	return &LeakyReLU{Alpha: alpha}
}

// Activate computes x if x > 0, else alpha*x
func (l *LeakyReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return l.Alpha * x
}

// Derivative returns 1 if x > 0, else alpha
func (l *LeakyReLU) Derivative(x float64) float64 {
	if x > 0 {
		return 1
	}
	return l.Alpha
}

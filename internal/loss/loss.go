// Package loss provides cost functions for network training.
package loss

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
)

func logEps(x float64) float64 {
	return math.Log(x + crossEntropyEps)
}

// Loss is a scalar cost function with its gradient.
type Loss interface {
	// Forward computes the cost of a prediction against the true values.
	Forward(yPred, yTrue []float64) float64

	// Backward computes dCost/dyPred.
	Backward(yPred, yTrue []float64) []float64
}

// SquaredError is the half squared Euclidean cost:
// (1/2) * sum((y_pred - y_true)^2).
type SquaredError struct{}

// Forward computes (1/2) * sum((y_pred - y_true)^2)
func (s SquaredError) Forward(yPred, yTrue []float64) float64 {
	if len(yPred) != len(yTrue) {
		panic("loss: squared error: prediction and target must have same length")
	}
	var sum float64
	for i := range yPred {
		diff := yPred[i] - yTrue[i]
		sum += diff * diff
	}
	return sum / 2
}

// Backward computes gradient: dL/dy_pred = y_pred - y_true
func (s SquaredError) Backward(yPred, yTrue []float64) []float64 {
	if len(yPred) != len(yTrue) {
		panic("loss: squared error: prediction and target must have same length")
	}
	grad := make([]float64, len(yPred))
	for i := range yPred {
		grad[i] = yPred[i] - yTrue[i]
	}
	return grad
}

// CrossEntropy is the categorical cross-entropy cost:
// -sum(y_true * log(y_pred)). Predictions are expected to be probabilities,
// e.g. the output of a softmax block.
type CrossEntropy struct{}

const crossEntropyEps = 1e-10

// Forward computes -sum(y_true * log(y_pred + eps))
func (c CrossEntropy) Forward(yPred, yTrue []float64) float64 {
	if len(yPred) != len(yTrue) {
		panic("loss: cross entropy: prediction and target must have same length")
	}
	var sum float64
	for i := range yPred {
		if yTrue[i] != 0 {
			sum -= yTrue[i] * logEps(yPred[i])
		}
	}
	return sum
}

// Backward computes gradient: dL/dy_pred = -y_true / (y_pred + eps)
func (c CrossEntropy) Backward(yPred, yTrue []float64) []float64 {
	if len(yPred) != len(yTrue) {
		panic("loss: cross entropy: prediction and target must have same length")
	}
	grad := make([]float64, len(yPred))
	for i := range yPred {
		grad[i] = -yTrue[i] / (yPred[i] + crossEntropyEps)
	}
	return grad
}

// Numeric adapts a cost function with no closed-form derivative. Backward is
// a central finite-difference gradient of Cost in its first argument, so any
// scalar cost can be trained against at the price of 2*len(yPred) extra cost
// evaluations per record.
type Numeric struct {
	Cost func(yPred, yTrue []float64) float64
}

// Forward evaluates the wrapped cost.
func (n Numeric) Forward(yPred, yTrue []float64) float64 {
	return n.Cost(yPred, yTrue)
}

// Backward approximates dCost/dyPred by central finite differences.
func (n Numeric) Backward(yPred, yTrue []float64) []float64 {
	grad := make([]float64, len(yPred))
	fd.Gradient(grad, func(p []float64) float64 {
		return n.Cost(p, yTrue)
	}, yPred, &fd.Settings{Formula: fd.Central})
	return grad
}

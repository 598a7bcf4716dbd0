// Package deeplearning re-exports the common types and constructors of the
// training engine for easier access.
package deeplearning

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/sylvaticus/deeplearning/internal/activations"
	"github.com/sylvaticus/deeplearning/internal/layer"
	"github.com/sylvaticus/deeplearning/internal/loss"
	"github.com/sylvaticus/deeplearning/internal/net"
	"github.com/sylvaticus/deeplearning/internal/opt"
)

// Re-export common types for easier access
type (
	Network      = net.Network
	Config       = net.Config
	TrainOptions = net.TrainOptions
	TrainResult  = net.TrainResult
	Layer        = layer.Layer
	Optimizer    = opt.Optimizer
	Loss         = loss.Loss
	Activation   = activations.Activation
)

// Verbosity levels
const (
	None = net.None
	Low  = net.Low
	Std  = net.Std
	High = net.High
	Full = net.Full
)

// Network construction
func New(cfg Config) (*Network, error) {
	return net.New(cfg)
}

// Activations
var (
	Linear  = activations.Linear{}
	ReLU    = activations.ReLU{}
	Sigmoid = activations.Sigmoid{}
	Tanh    = activations.Tanh{}
)

func LeakyReLU(alpha float64) activations.Activation {
	return activations.NewLeakyReLU(alpha)
}

// Layers
func Dense(in, out int, act activations.Activation, rng *rand.Rand) Layer {
	return layer.NewDense(in, out, act, rng)
}

func DenseNoBias(in, out int, act activations.Activation, rng *rand.Rand) Layer {
	return layer.NewDenseNoBias(in, out, act, rng)
}

func VectorFunction(in, out int, f func([]float64) []float64, jac func([]float64) *mat.Dense) Layer {
	return layer.NewVectorFunction(in, out, f, jac)
}

// Costs
var (
	SquaredError = loss.SquaredError{}
	CrossEntropy = loss.CrossEntropy{}
)

// Optimizers
func SGD(cfg opt.SGDConfig) *opt.SGD {
	return opt.NewSGD(cfg)
}

func Adam(cfg opt.AdamConfig) *opt.Adam {
	return opt.NewAdam(cfg)
}

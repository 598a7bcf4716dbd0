// Package net provides the network container and the mini-batch training
// loop.
//
// A Network is an ordered sequence of layers plus a scalar cost function.
// Prediction runs each record through the layer chain; training assembles
// per-layer parameter gradients by backpropagation and hands them, averaged
// over a batch, to a pluggable optimization algorithm.
package net

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/sylvaticus/deeplearning/internal/layer"
	"github.com/sylvaticus/deeplearning/internal/loss"
)

// DefaultName is used when a network is built without an explicit name.
const DefaultName = "Neural Network"

// Network is a stack of layers with a cost function.
//
// The layer chain is validated once at construction: the output dimension of
// each layer must equal the input dimension of the next. Parameters mutate
// on every training step; the rest of the structure is fixed.
type Network struct {
	layers  []layer.Layer
	cost    loss.Loss
	name    string
	trained bool
}

// Config holds the construction options for a network.
type Config struct {
	// Layers is the ordered layer sequence. Required.
	Layers []layer.Layer

	// Cost is the scalar cost function. Required. A cost without a
	// closed-form derivative can be wrapped in loss.Numeric, which falls
	// back to finite differences.
	Cost loss.Loss

	// Name labels the network in logs. Default: "Neural Network".
	Name string
}

// New builds a network, validating the configuration. Dimension mismatches
// between consecutive layers and a missing cost function are configuration
// errors reported here rather than at training time.
func New(cfg Config) (*Network, error) {
	if len(cfg.Layers) == 0 {
		return nil, errors.New("net: a network requires at least one layer")
	}
	if cfg.Cost == nil {
		return nil, errors.New("net: a cost function is required; wrap a derivative-free cost in loss.Numeric")
	}
	for i := 1; i < len(cfg.Layers); i++ {
		_, prevOut := cfg.Layers[i-1].Shape()
		in, _ := cfg.Layers[i].Shape()
		if prevOut != in {
			return nil, errors.Errorf("net: layer %d outputs %d values but layer %d expects %d", i-1, prevOut, i, in)
		}
	}
	name := cfg.Name
	if name == "" {
		name = DefaultName
	}
	return &Network{layers: cfg.Layers, cost: cfg.Cost, name: name}, nil
}

// Forward runs a single record through the full layer chain.
func (n *Network) Forward(x []float64) []float64 {
	curr := x
	for i := range n.layers {
		curr = n.layers[i].Forward(curr)
	}
	return curr
}

// Predict runs each row of X independently through the layer chain and
// returns the stacked outputs. It never mutates the network.
func (n *Network) Predict(X [][]float64) ([][]float64, error) {
	in, _ := n.layers[0].Shape()
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != in {
			return nil, errors.Errorf("net: predict: record %d has %d values but the first layer expects %d", i, len(row), in)
		}
		out[i] = n.Forward(row)
	}
	return out, nil
}

// Loss returns the mean cost over the rows of X against Y.
func (n *Network) Loss(X, Y [][]float64) (float64, error) {
	if len(X) != len(Y) {
		return 0, errors.Errorf("net: loss: %d records but %d targets", len(X), len(Y))
	}
	if len(X) == 0 {
		return 0, errors.New("net: loss: empty dataset")
	}
	preds, err := n.Predict(X)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := range preds {
		sum += n.cost.Forward(preds[i], Y[i])
	}
	return sum / float64(len(X)), nil
}

// Params returns the concatenation of every layer's parameter bundle,
// order-preserving.
func (n *Network) Params() []*mat.Dense {
	var params []*mat.Dense
	for _, l := range n.layers {
		params = append(params, l.Params()...)
	}
	return params
}

// SetParams distributes a concatenated bundle back to the layers, in the
// same order Params produced it.
func (n *Network) SetParams(params []*mat.Dense) error {
	offset := 0
	for i, l := range n.layers {
		count := len(l.Params())
		if offset+count > len(params) {
			return errors.Errorf("net: set params: bundle exhausted at layer %d", i)
		}
		l.SetParams(params[offset : offset+count])
		offset += count
	}
	if offset != len(params) {
		return errors.Errorf("net: set params: %d matrices provided, %d consumed", len(params), offset)
	}
	return nil
}

// Gradient computes the parameter gradients of the cost for a single record
// by backpropagation, returning one ordered bundle matching Params.
//
// The three phases: a forward sweep retaining every intermediate input
// (numLayers+1 entries, the record itself first and the network output
// last), the gradient of the cost at the output as the seed, then a reverse
// sweep pulling the seed through each layer's Backward while collecting each
// layer's parameter gradient.
func (n *Network) Gradient(x, y []float64) []*mat.Dense {
	inputs := make([][]float64, len(n.layers)+1)
	inputs[0] = x
	for i, l := range n.layers {
		inputs[i+1] = l.Forward(inputs[i])
	}

	grad := n.cost.Backward(inputs[len(n.layers)], y)

	perLayer := make([][]*mat.Dense, len(n.layers))
	for i := len(n.layers) - 1; i >= 0; i-- {
		perLayer[i] = n.layers[i].Gradient(inputs[i], grad)
		grad = n.layers[i].Backward(inputs[i], grad)
	}

	var out []*mat.Dense
	for _, g := range perLayer {
		out = append(out, g...)
	}
	return out
}

// Layers returns the network's layer sequence.
func (n *Network) Layers() []layer.Layer {
	return n.layers
}

// Name returns the network's display name.
func (n *Network) Name() string {
	return n.name
}

// Trained reports whether a training run has completed on this network.
func (n *Network) Trained() bool {
	return n.trained
}

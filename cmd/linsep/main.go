// Command linsep trains a single sigmoid dense layer on a linearly separable
// two-class synthetic dataset and reports the classification accuracy.
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sylvaticus/deeplearning/internal/activations"
	"github.com/sylvaticus/deeplearning/internal/layer"
	"github.com/sylvaticus/deeplearning/internal/loss"
	"github.com/sylvaticus/deeplearning/internal/net"
	"github.com/sylvaticus/deeplearning/internal/opt"
)

const numRecords = 200

// makeData draws points in [0,1)^2 labelled by the side of the line
// x1 + x2 = 1, nudged away from the boundary so the classes are separable
// with a margin.
func makeData(rng *rand.Rand) (X, Y [][]float64) {
	X = make([][]float64, numRecords)
	Y = make([][]float64, numRecords)
	for i := range X {
		x1 := rng.Float64()
		x2 := rng.Float64()
		label := 0.0
		if x1+x2 > 1 {
			label = 1
			x1 += 0.1
			x2 += 0.1
		} else {
			x1 -= 0.1
			x2 -= 0.1
		}
		X[i] = []float64{x1, x2}
		Y[i] = []float64{label}
	}
	return X, Y
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rng := rand.New(rand.NewSource(7))
	X, Y := makeData(rng)

	network, err := net.New(net.Config{
		Layers: []layer.Layer{
			layer.NewDense(2, 1, activations.Sigmoid{}, rng),
		},
		Cost: loss.SquaredError{},
		Name: "LinSep",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("could not build network")
	}

	res, err := network.Train(X, Y, net.TrainOptions{
		Epochs:    200,
		BatchSize: 16,
		Optimizer: opt.NewSGD(opt.SGDConfig{LearningRate: opt.ConstantSchedule(0.1)}),
		Progress:  net.LogProgress(log.Logger, 500),
		RNG:       rng,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("training failed")
	}

	preds, err := network.Predict(X)
	if err != nil {
		log.Fatal().Err(err).Msg("prediction failed")
	}
	correct := 0
	for i := range preds {
		label := 0.0
		if preds[i][0] > 0.5 {
			label = 1
		}
		if label == Y[i][0] {
			correct++
		}
	}
	fmt.Printf("epochs: %d  final loss: %.6f  accuracy: %.1f%%\n",
		res.Epochs, res.Losses[len(res.Losses)-1], 100*float64(correct)/float64(numRecords))
}

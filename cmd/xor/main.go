// Command xor trains a 2-3-1 network on the XOR function.
//
// XOR is not linearly separable, so it needs the hidden layer; a few
// thousand constant-rate SGD epochs drive the squared-error loss close to
// zero.
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

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rng := rand.New(rand.NewSource(42))

	network, err := net.New(net.Config{
		Layers: []layer.Layer{
			layer.NewDense(2, 3, activations.Tanh{}, rng),
			layer.NewDense(3, 1, activations.Sigmoid{}, rng),
		},
		Cost: loss.SquaredError{},
		Name: "XOR",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("could not build network")
	}

	trainX := [][]float64{
		{0, 0},
		{0, 1},
		{1, 0},
		{1, 1},
	}
	trainY := [][]float64{
		{0},
		{1},
		{1},
		{0},
	}

	res, err := network.Train(trainX, trainY, net.TrainOptions{
		Epochs:    3000,
		BatchSize: 1,
		Optimizer: opt.NewSGD(opt.SGDConfig{LearningRate: opt.ConstantSchedule(0.5)}),
		RNG:       rng,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("training failed")
	}
	log.Info().Int("epochs", res.Epochs).
		Float64("finalLoss", res.Losses[len(res.Losses)-1]).Msg("done")

	preds, err := network.Predict(trainX)
	if err != nil {
		log.Fatal().Err(err).Msg("prediction failed")
	}
	for i, x := range trainX {
		fmt.Printf("xor(%v, %v) = %.3f (want %v)\n", x[0], x[1], preds[i][0], trainY[i][0])
	}
}

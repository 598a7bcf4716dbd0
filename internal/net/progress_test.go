package net

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogProgressThrottles(t *testing.T) {
	n := newTestNetwork(t, 20)
	X := [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	Y := [][]float64{{0, 1}, {1, 0}, {1, 0}, {0, 1}}

	progress := LogProgress(zerolog.Nop(), 3)
	info := BatchInfo{Epoch: 1, TotalEpochs: 1, Batch: 0, TotalBatches: 1}
	for i := 0; i < 5; i++ {
		require.NoError(t, progress(n, X, Y, info))
	}
}

func TestLogProgressInsideTraining(t *testing.T) {
	n := newTestNetwork(t, 21)
	X := [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	Y := [][]float64{{0, 1}, {1, 0}, {1, 0}, {0, 1}}

	_, err := n.Train(X, Y, TrainOptions{
		Epochs:    2,
		BatchSize: 2,
		Verbosity: None,
		Progress:  LogProgress(zerolog.Nop(), 1),
		RNG:       rand.New(rand.NewSource(1)),
	})
	assert.NoError(t, err)
}

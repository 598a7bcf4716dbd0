package net

import (
	"github.com/rs/zerolog"
)

// LogProgress returns a ProgressFunc that logs the running batch loss to the
// given logger every interval updates. It observes only: the network is not
// modified and numerical results are unaffected.
func LogProgress(logger zerolog.Logger, interval int) ProgressFunc {
	if interval <= 0 {
		interval = 1
	}
	updates := 0
	return func(n *Network, batchX, batchY [][]float64, info BatchInfo) error {
		updates++
		if updates%interval != 0 {
			return nil
		}
		batchLoss, err := n.Loss(batchX, batchY)
		if err != nil {
			return err
		}
		logger.Debug().Str("network", n.Name()).
			Int("epoch", info.Epoch).Int("of", info.TotalEpochs).
			Int("batch", info.Batch).Int("batches", info.TotalBatches).
			Float64("batchLoss", batchLoss).Msg("training progress")
		return nil
	}
}

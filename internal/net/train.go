package net

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"

	"github.com/sylvaticus/deeplearning/internal/layer"
	"github.com/sylvaticus/deeplearning/internal/opt"
	"github.com/sylvaticus/deeplearning/internal/stats"
)

// Verbosity controls progress logging and history collection during
// training. The zero value is treated as Std so an unset option picks the
// default.
type Verbosity int

const (
	verbosityUnset Verbosity = iota
	// None disables logging and history collection.
	None
	// Low logs a handful of epochs per run.
	Low
	// Std logs every tenth epoch and collects loss/parameter history.
	Std
	// High logs every epoch.
	High
	// Full additionally logs every batch.
	Full
)

// BatchInfo is the progress metadata passed to a ProgressFunc.
type BatchInfo struct {
	Epoch        int // current epoch, starting at 1
	TotalEpochs  int
	Batch        int // current batch within the epoch, starting at 0
	TotalBatches int
}

// ProgressFunc observes training after each parameter update. It receives
// the network and the records of the batch that produced the update. A
// non-nil error aborts training immediately.
type ProgressFunc func(n *Network, batchX, batchY [][]float64, info BatchInfo) error

// TrainOptions holds the knobs of one training invocation.
type TrainOptions struct {
	// Epochs is the maximum number of passes over the data. Default: 100.
	Epochs int

	// BatchSize is the fixed batch size. Default: min(numRecords, 32).
	// Records beyond the last full batch of an epoch are dropped; see
	// stats.Batches.
	BatchSize int

	// Sequential disables the per-epoch shuffle, taking batches in record
	// order.
	Sequential bool

	// Verbosity selects logging detail and whether loss/parameter history
	// is collected. Default: Std.
	Verbosity Verbosity

	// Progress, if set, is invoked after every parameter update.
	Progress ProgressFunc

	// Optimizer computes the parameter updates. Default: SGD with a
	// constant 0.01 learning rate.
	Optimizer opt.Optimizer

	// RNG drives the batch shuffling. Default: a fresh source seeded from
	// the process-wide generator; inject a fixed-seed source for
	// reproducible runs.
	RNG *rand.Rand
}

// TrainResult reports the outcome of a training run.
type TrainResult struct {
	// Epochs is the number of epochs actually executed; less than the
	// configured maximum when the optimizer stopped the run early.
	Epochs int

	// Losses holds the whole-dataset loss per epoch, starting with the
	// epoch-0 baseline taken before any update. Empty when history
	// collection is off.
	Losses []float64

	// ParamHistory holds a parameter snapshot per epoch, aligned with
	// Losses. Empty when history collection is off.
	ParamHistory [][]*mat.Dense
}

func (o *TrainOptions) withDefaults(numRecords int) TrainOptions {
	out := *o
	if out.Epochs == 0 {
		out.Epochs = 100
	}
	if out.BatchSize == 0 {
		out.BatchSize = numRecords
		if out.BatchSize > 32 {
			out.BatchSize = 32
		}
	}
	if out.Verbosity == verbosityUnset {
		out.Verbosity = Std
	}
	if out.Optimizer == nil {
		out.Optimizer = opt.NewSGD(opt.SGDConfig{})
	}
	if out.RNG == nil {
		out.RNG = rand.New(rand.NewSource(rand.Int63()))
	}
	return out
}

// logEvery maps a verbosity to an epoch-logging stride; 0 disables.
func logEvery(v Verbosity, epochs int) int {
	switch v {
	case None:
		return 0
	case Low:
		if epochs < 4 {
			return 1
		}
		return epochs / 4
	case Std:
		if epochs < 10 {
			return 1
		}
		return epochs / 10
	default:
		return 1
	}
}

// Train fits the network to X, Y with mini-batch gradient descent.
//
// Each epoch partitions the record indices into fixed-size batches, averages
// the per-record gradients of every batch, and asks the optimizer for one
// parameter update per batch. The optimizer's stop signal ends the run early;
// in both the early-stopped and the exhausted case the network is marked
// trained. The network is exclusively owned by Train for the duration of the
// call.
func (n *Network) Train(X, Y [][]float64, options TrainOptions) (*TrainResult, error) {
	if len(X) != len(Y) {
		return nil, errors.Errorf("net: train: %d records but %d targets", len(X), len(Y))
	}
	if len(X) == 0 {
		return nil, errors.New("net: train: empty dataset")
	}
	if options.Epochs < 0 || options.BatchSize < 0 {
		return nil, errors.New("net: train: epochs and batch size must be positive")
	}
	opts := options.withDefaults(len(X))

	collect := opts.Verbosity >= Std
	every := logEvery(opts.Verbosity, opts.Epochs)
	res := &TrainResult{}

	// Epoch-0 baseline, before any update.
	prevLoss := math.NaN()
	epochLoss, err := n.Loss(X, Y)
	if err != nil {
		return nil, errors.Wrap(err, "net: train: initial loss")
	}
	if collect {
		res.Losses = append(res.Losses, epochLoss)
		res.ParamHistory = append(res.ParamHistory, layer.CloneBundle(n.Params()))
	}
	if opts.Verbosity > None {
		log.Info().Str("network", n.name).Int("records", len(X)).
			Int("epochs", opts.Epochs).Int("batchSize", opts.BatchSize).
			Float64("loss", epochLoss).Msg("training started")
	}

	for epoch := 1; epoch <= opts.Epochs; epoch++ {
		batches, err := stats.Batches(len(X), opts.BatchSize, opts.RNG, opts.Sequential)
		if err != nil {
			return nil, errors.Wrapf(err, "net: train: epoch %d", epoch)
		}

		for bi, batch := range batches {
			acc := n.Gradient(X[batch[0]], Y[batch[0]])
			for _, idx := range batch[1:] {
				addBundle(acc, n.Gradient(X[idx], Y[idx]))
			}
			scaleBundle(1/float64(len(batch)), acc)

			newParams, stop := opts.Optimizer.SingleUpdate(n.Params(), acc, opt.UpdateContext{
				Epoch:         epoch,
				BatchIndex:    bi,
				BatchSize:     len(batch),
				EpochLoss:     epochLoss,
				PrevEpochLoss: prevLoss,
			})
			if err := n.SetParams(newParams); err != nil {
				return nil, errors.Wrapf(err, "net: train: epoch %d batch %d", epoch, bi)
			}

			if opts.Progress != nil {
				batchX := make([][]float64, len(batch))
				batchY := make([][]float64, len(batch))
				for i, idx := range batch {
					batchX[i] = X[idx]
					batchY[i] = Y[idx]
				}
				info := BatchInfo{Epoch: epoch, TotalEpochs: opts.Epochs, Batch: bi, TotalBatches: len(batches)}
				if err := opts.Progress(n, batchX, batchY, info); err != nil {
					return nil, errors.Wrapf(err, "net: train: progress callback at epoch %d batch %d", epoch, bi)
				}
			}
			if opts.Verbosity == Full {
				log.Debug().Str("network", n.name).Int("epoch", epoch).
					Int("batch", bi).Msg("batch update applied")
			}

			if stop {
				n.trained = true
				res.Epochs = epoch
				if opts.Verbosity > None {
					log.Info().Str("network", n.name).Int("epoch", epoch).
						Msg("optimizer signalled early stop")
				}
				return res, nil
			}
		}

		prevLoss = epochLoss
		epochLoss, err = n.Loss(X, Y)
		if err != nil {
			return nil, errors.Wrapf(err, "net: train: epoch %d loss", epoch)
		}
		if math.IsNaN(epochLoss) || math.IsInf(epochLoss, 0) {
			return nil, errors.Errorf("net: train: non-finite loss %v at epoch %d", epochLoss, epoch)
		}
		if collect {
			res.Losses = append(res.Losses, epochLoss)
			res.ParamHistory = append(res.ParamHistory, layer.CloneBundle(n.Params()))
		}
		if every > 0 && epoch%every == 0 {
			log.Info().Str("network", n.name).Int("epoch", epoch).
				Float64("loss", epochLoss).Msg("epoch completed")
		}
	}

	n.trained = true
	res.Epochs = opts.Epochs
	if opts.Verbosity > None {
		log.Info().Str("network", n.name).Int("epochs", res.Epochs).
			Float64("loss", epochLoss).Msg("training completed")
	}
	return res, nil
}

// addBundle sums src into dst element-wise, matrix by matrix.
func addBundle(dst, src []*mat.Dense) {
	for i := range dst {
		dst[i].Add(dst[i], src[i])
	}
}

// scaleBundle multiplies every matrix of b by s in place.
func scaleBundle(s float64, b []*mat.Dense) {
	for i := range b {
		b[i].Scale(s, b[i])
	}
}

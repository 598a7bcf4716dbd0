// Package stats provides the statistical helpers the training engine relies on:
// batch-index generation, the softmax operator and its Jacobian, and summary
// statistics over data columns.
package stats

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Batches partitions the record indices [0, n) into batches of the given size.
//
// When sequential is false the indices are shuffled (without replacement) with
// the supplied rng before being sliced, so each epoch sees the records in a
// fresh order. A final batch smaller than size is dropped: gradient averaging
// assumes a constant batch size, so up to size-1 trailing records sit out of
// a given epoch. A size larger than n is clamped to n, yielding a single
// batch covering every record.
func Batches(n, size int, rng *rand.Rand, sequential bool) ([][]int, error) {
	if n <= 0 {
		return nil, errors.Errorf("stats: batches requires n > 0, got %d", n)
	}
	if size <= 0 {
		return nil, errors.Errorf("stats: batches requires size > 0, got %d", size)
	}
	if size > n {
		size = n
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if !sequential {
		rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	}

	nBatches := n / size
	batches := make([][]int, nBatches)
	for b := 0; b < nBatches; b++ {
		batches[b] = idx[b*size : (b+1)*size]
	}
	return batches, nil
}

// Softmax returns exp(x_i) / sum_j exp(x_j), shifted by max(x) for stability.
func Softmax(x []float64) []float64 {
	out := make([]float64, len(x))
	maxX := math.Inf(-1)
	for _, v := range x {
		if v > maxX {
			maxX = v
		}
	}
	var sum float64
	for i, v := range x {
		out[i] = math.Exp(v - maxX)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// SoftmaxJacobian returns the len(x) x len(x) Jacobian of Softmax at x:
// J[i][j] = s_i * (delta_ij - s_j).
func SoftmaxJacobian(x []float64) *mat.Dense {
	s := Softmax(x)
	n := len(s)
	jac := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				jac.Set(i, j, s[i]*(1-s[j]))
			} else {
				jac.Set(i, j, -s[i]*s[j])
			}
		}
	}
	return jac
}

// Mean returns the arithmetic mean of x.
func Mean(x []float64) float64 {
	return stat.Mean(x, nil)
}

// Variance returns the unbiased sample variance of x.
func Variance(x []float64) float64 {
	return stat.Variance(x, nil)
}

// XavierLimit returns the half-width of the uniform Xavier/Glorot
// initialization interval for a layer with the given fan-in and fan-out.
func XavierLimit(fanIn, fanOut int) float64 {
	return math.Sqrt(6.0 / float64(fanIn+fanOut))
}

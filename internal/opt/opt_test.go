package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func bundle(vals ...float64) []*mat.Dense {
	return []*mat.Dense{mat.NewDense(len(vals), 1, vals)}
}

func TestSGDStep(t *testing.T) {
	s := NewSGD(SGDConfig{LearningRate: ConstantSchedule(0.1)})

	params := bundle(1, 2)
	grad := bundle(10, -10)
	out, stop := s.SingleUpdate(params, grad, UpdateContext{Epoch: 1, BatchSize: 2})

	assert.False(t, stop)
	assert.InDelta(t, 0.0, out[0].At(0, 0), 1e-12)
	assert.InDelta(t, 3.0, out[0].At(1, 0), 1e-12)
	// Inputs untouched.
	assert.Equal(t, 1.0, params[0].At(0, 0))
}

func TestSGDSchedule(t *testing.T) {
	// eta(t) = 1/t: the same gradient produces shrinking steps.
	s := NewSGD(SGDConfig{LearningRate: func(epoch int) float64 { return 1 / float64(epoch) }})
	grad := bundle(1)

	out1, _ := s.SingleUpdate(bundle(0), grad, UpdateContext{Epoch: 1})
	out2, _ := s.SingleUpdate(bundle(0), grad, UpdateContext{Epoch: 4})
	assert.InDelta(t, -1.0, out1[0].At(0, 0), 1e-12)
	assert.InDelta(t, -0.25, out2[0].At(0, 0), 1e-12)
}

func TestSGDMomentumAccumulates(t *testing.T) {
	s := NewSGD(SGDConfig{LearningRate: ConstantSchedule(0.1), Momentum: 0.9})
	grad := bundle(1)

	// First step: v = -0.1. Second step: v = 0.9*(-0.1) - 0.1 = -0.19.
	p, _ := s.SingleUpdate(bundle(0), grad, UpdateContext{Epoch: 1})
	assert.InDelta(t, -0.1, p[0].At(0, 0), 1e-12)
	p, _ = s.SingleUpdate(p, grad, UpdateContext{Epoch: 1})
	assert.InDelta(t, -0.29, p[0].At(0, 0), 1e-12)
}

func TestSGDStateKeyedToLayout(t *testing.T) {
	s := NewSGD(SGDConfig{Momentum: 0.9})
	_, _ = s.SingleUpdate(bundle(1, 2), bundle(1, 1), UpdateContext{Epoch: 1})

	// Reusing the optimizer on a different parameter layout is a
	// configuration error.
	assert.Panics(t, func() {
		_, _ = s.SingleUpdate(bundle(1), bundle(1), UpdateContext{Epoch: 1})
	})

	s.Reset()
	assert.NotPanics(t, func() {
		_, _ = s.SingleUpdate(bundle(1), bundle(1), UpdateContext{Epoch: 1})
	})
}

func TestAdamFirstStepIsBounded(t *testing.T) {
	a := NewAdam(AdamConfig{})
	require.Equal(t, 0.001, a.Eta)

	// With bias correction the very first step has magnitude ~eta
	// regardless of gradient scale.
	out, stop := a.SingleUpdate(bundle(1), bundle(1000), UpdateContext{Epoch: 1})
	assert.False(t, stop)
	assert.InDelta(t, 1-0.001, out[0].At(0, 0), 1e-6)

	out, _ = NewAdam(AdamConfig{}).SingleUpdate(bundle(1), bundle(0.001), UpdateContext{Epoch: 1})
	assert.InDelta(t, 1-0.001, out[0].At(0, 0), 1e-6)
}

func TestAdamReset(t *testing.T) {
	a := NewAdam(AdamConfig{})
	_, _ = a.SingleUpdate(bundle(1, 2), bundle(1, 1), UpdateContext{Epoch: 1})
	a.Reset()
	assert.NotPanics(t, func() {
		_, _ = a.SingleUpdate(bundle(1), bundle(1), UpdateContext{Epoch: 1})
	})
}

func TestSchedules(t *testing.T) {
	assert.Equal(t, 0.05, ConstantSchedule(0.05)(123))

	step := StepSchedule(1, 10, 0.5)
	assert.Equal(t, 1.0, step(9))
	assert.Equal(t, 0.5, step(10))
	assert.Equal(t, 0.25, step(20))

	exp := ExponentialSchedule(1, 0.9)
	assert.InDelta(t, 0.81, exp(2), 1e-12)

	inv := InverseTimeSchedule(1, 1)
	assert.InDelta(t, 0.5, inv(1), 1e-12)
	assert.InDelta(t, 0.25, inv(3), 1e-12)
}

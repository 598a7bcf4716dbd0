package opt

import "gonum.org/v1/gonum/mat"

// SGD (Stochastic Gradient Descent) optimizer with a learning-rate schedule
// and optional momentum.
//
// Update rule without momentum:
//
//	param = param - eta(epoch) * gradient
//
// With momentum:
//
//	velocity = momentum * velocity - eta(epoch) * gradient
//	param = param + velocity
type SGD struct {
	// LearningRate maps the epoch number to a step size. Constant-rate
	// descent is the degenerate schedule eta(t) = k.
	LearningRate func(epoch int) float64

	// Momentum in [0, 1); zero disables the velocity term.
	Momentum float64

	velocity []*mat.Dense
}

// SGDConfig holds construction options for SGD.
type SGDConfig struct {
	LearningRate func(epoch int) float64 // default: constant 0.01
	Momentum     float64                 // default: 0
}

// NewSGD creates an SGD optimizer, filling unset options with defaults.
func NewSGD(cfg SGDConfig) *SGD {
	if cfg.LearningRate == nil {
		cfg.LearningRate = ConstantSchedule(0.01)
	}
	return &SGD{
		LearningRate: cfg.LearningRate,
		Momentum:     cfg.Momentum,
	}
}

// SingleUpdate computes params - eta(epoch)*grad, matrix by matrix. Plain SGD
// never signals an early stop.
func (s *SGD) SingleUpdate(params, grad []*mat.Dense, ctx UpdateContext) ([]*mat.Dense, bool) {
	eta := s.LearningRate(ctx.Epoch)

	if s.Momentum == 0 {
		out := make([]*mat.Dense, len(params))
		for i := range params {
			step := &mat.Dense{}
			step.Scale(eta, grad[i])
			out[i] = &mat.Dense{}
			out[i].Sub(params[i], step)
		}
		return out, false
	}

	if s.velocity == nil {
		s.velocity = zerosLike(params)
	}
	checkLayout(s.velocity, params, "sgd")

	out := make([]*mat.Dense, len(params))
	for i := range params {
		step := &mat.Dense{}
		step.Scale(eta, grad[i])
		s.velocity[i].Scale(s.Momentum, s.velocity[i])
		s.velocity[i].Sub(s.velocity[i], step)
		out[i] = &mat.Dense{}
		out[i].Add(params[i], s.velocity[i])
	}
	return out, false
}

// Reset clears the momentum state.
func (s *SGD) Reset() {
	s.velocity = nil
}

package opt

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule, per parameter element:
//
//	m = beta1*m + (1-beta1)*g
//	v = beta2*v + (1-beta2)*g^2
//	param = param - eta * (m / (1-beta1^t)) / (sqrt(v / (1-beta2^t)) + eps)
//
// Reference: Kingma & Ba, "Adam: A Method for Stochastic Optimization", 2014.
type Adam struct {
	Eta   float64
	Beta1 float64
	Beta2 float64
	Eps   float64

	t int
	m []*mat.Dense
	v []*mat.Dense
}

// AdamConfig holds construction options for Adam.
type AdamConfig struct {
	Eta   float64 // default: 0.001
	Beta1 float64 // default: 0.9
	Beta2 float64 // default: 0.999
	Eps   float64 // default: 1e-8
}

// NewAdam creates an Adam optimizer, filling unset options with defaults.
func NewAdam(cfg AdamConfig) *Adam {
	if cfg.Eta == 0 {
		cfg.Eta = 0.001
	}
	if cfg.Beta1 == 0 {
		cfg.Beta1 = 0.9
	}
	if cfg.Beta2 == 0 {
		cfg.Beta2 = 0.999
	}
	if cfg.Eps == 0 {
		cfg.Eps = 1e-8
	}
	return &Adam{Eta: cfg.Eta, Beta1: cfg.Beta1, Beta2: cfg.Beta2, Eps: cfg.Eps}
}

// SingleUpdate applies one bias-corrected Adam step. Adam never signals an
// early stop.
func (a *Adam) SingleUpdate(params, grad []*mat.Dense, ctx UpdateContext) ([]*mat.Dense, bool) {
	if a.m == nil {
		a.m = zerosLike(params)
		a.v = zerosLike(params)
	}
	checkLayout(a.m, params, "adam")

	a.t++
	corr1 := 1 - math.Pow(a.Beta1, float64(a.t))
	corr2 := 1 - math.Pow(a.Beta2, float64(a.t))

	out := make([]*mat.Dense, len(params))
	for i := range params {
		r, c := params[i].Dims()
		out[i] = mat.NewDense(r, c, nil)
		for row := 0; row < r; row++ {
			for col := 0; col < c; col++ {
				g := grad[i].At(row, col)
				m := a.Beta1*a.m[i].At(row, col) + (1-a.Beta1)*g
				v := a.Beta2*a.v[i].At(row, col) + (1-a.Beta2)*g*g
				a.m[i].Set(row, col, m)
				a.v[i].Set(row, col, v)
				step := a.Eta * (m / corr1) / (math.Sqrt(v/corr2) + a.Eps)
				out[i].Set(row, col, params[i].At(row, col)-step)
			}
		}
	}
	return out, false
}

// Reset clears the moment estimates and the timestep.
func (a *Adam) Reset() {
	a.t = 0
	a.m = nil
	a.v = nil
}

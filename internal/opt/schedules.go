package opt

import "math"

// Learning-rate schedules as functions of the epoch number, for use as the
// SGD LearningRate option.

// ConstantSchedule returns eta(t) = k.
func ConstantSchedule(k float64) func(epoch int) float64 {
	return func(epoch int) float64 { return k }
}

// StepSchedule decays the rate by gamma every stepSize epochs.
func StepSchedule(initial float64, stepSize int, gamma float64) func(epoch int) float64 {
	return func(epoch int) float64 {
		return initial * math.Pow(gamma, float64(epoch/stepSize))
	}
}

// ExponentialSchedule decays the rate by gamma every epoch.
func ExponentialSchedule(initial, gamma float64) func(epoch int) float64 {
	return func(epoch int) float64 {
		return initial * math.Pow(gamma, float64(epoch))
	}
}

// InverseTimeSchedule returns eta(t) = initial / (1 + decay*t).
func InverseTimeSchedule(initial, decay float64) func(epoch int) float64 {
	return func(epoch int) float64 {
		return initial / (1 + decay*float64(epoch))
	}
}

package nn

import (
	"fmt"
	"math"
)

// preActivationLimit bounds the output unit's pre-activation sum before
// exponentiation. Sigmoid saturates far earlier, so the clamp only guards
// against Inf/NaN on pathological weight drift.
const preActivationLimit = 60.0

// Sigmoid is the logistic function with a clamped pre-activation.
func Sigmoid(x float64) float64 {
	x = SaturationWithSpread(x, preActivationLimit)
	return 1.0 / (1.0 + math.Exp(-x))
}

// SaturationWithSpread clamps value to the symmetric range [-spread, spread].
func SaturationWithSpread(value, spread float64) float64 {
	if spread < 0 {
		spread = -spread
	}
	if value > spread {
		return spread
	}
	if value < -spread {
		return -spread
	}
	return value
}

// Sat clamps value to [min, max].
func Sat(value, max, min float64) float64 {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}

// Avg returns the arithmetic mean of values.
func Avg(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("values must not be empty")
	}
	sum := 0.0
	for _, value := range values {
		sum += value
	}
	return sum / float64(len(values)), nil
}

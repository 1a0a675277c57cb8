package evo

import (
	"math/rand"

	"neuroflap/internal/model"
	"neuroflap/internal/nn"
)

// MutateWeights perturbs every scalar parameter independently: with
// probability rate the parameter gains a delta drawn uniformly from
// [-step, step]. All parameters are clipped to the weight limit afterwards
// to bound drift.
func MutateWeights(rng *rand.Rand, params *model.NetworkParameters, rate, step float64) {
	perturb := func(v float64) float64 {
		if rng.Float64() < rate {
			return v + (rng.Float64()*2-1)*step
		}
		return v
	}

	for i := range params.InputWeights {
		for j := range params.InputWeights[i] {
			params.InputWeights[i][j] = perturb(params.InputWeights[i][j])
		}
	}
	for i := range params.OutputWeights {
		params.OutputWeights[i] = perturb(params.OutputWeights[i])
	}
	for i := range params.HiddenBias {
		params.HiddenBias[i] = perturb(params.HiddenBias[i])
	}
	params.OutputBias = perturb(params.OutputBias)

	nn.ClipAll(params, nn.WeightLimit)
}

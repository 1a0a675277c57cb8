package evo

import (
	"fmt"
	"math/rand"

	"neuroflap/internal/model"
	"neuroflap/internal/nn"
)

// Crossover combines two parent networks into a child.
type Crossover interface {
	Name() string
	Combine(rng *rand.Rand, a, b model.NetworkParameters) model.NetworkParameters
}

// UniformCrossover picks each scalar parameter from either parent with equal
// probability.
type UniformCrossover struct{}

func (UniformCrossover) Name() string {
	return "uniform"
}

func (UniformCrossover) Combine(rng *rand.Rand, a, b model.NetworkParameters) model.NetworkParameters {
	pick := func(x, y float64) float64 {
		if rng.Float64() < 0.5 {
			return x
		}
		return y
	}

	child := nn.ZeroNetwork()
	child.HiddenActivation = a.HiddenActivation
	for i := range child.InputWeights {
		for j := range child.InputWeights[i] {
			child.InputWeights[i][j] = pick(a.InputWeights[i][j], b.InputWeights[i][j])
		}
		child.OutputWeights[i] = pick(a.OutputWeights[i], b.OutputWeights[i])
		child.HiddenBias[i] = pick(a.HiddenBias[i], b.HiddenBias[i])
	}
	child.OutputBias = pick(a.OutputBias, b.OutputBias)
	nn.ClipAll(&child, nn.WeightLimit)
	return child
}

// AverageCrossover sets each scalar parameter to the arithmetic mean of the
// parents. Engines pairing it with mutation conventionally use a smaller
// mutation step.
type AverageCrossover struct{}

func (AverageCrossover) Name() string {
	return "average"
}

func (AverageCrossover) Combine(_ *rand.Rand, a, b model.NetworkParameters) model.NetworkParameters {
	child := nn.ZeroNetwork()
	child.HiddenActivation = a.HiddenActivation
	for i := range child.InputWeights {
		for j := range child.InputWeights[i] {
			child.InputWeights[i][j] = (a.InputWeights[i][j] + b.InputWeights[i][j]) / 2
		}
		child.OutputWeights[i] = (a.OutputWeights[i] + b.OutputWeights[i]) / 2
		child.HiddenBias[i] = (a.HiddenBias[i] + b.HiddenBias[i]) / 2
	}
	child.OutputBias = (a.OutputBias + b.OutputBias) / 2
	nn.ClipAll(&child, nn.WeightLimit)
	return child
}

// ResolveCrossover maps a configured name to its strategy. The empty name
// defaults to uniform crossover.
func ResolveCrossover(name string) (Crossover, error) {
	switch name {
	case "", "uniform":
		return UniformCrossover{}, nil
	case "average":
		return AverageCrossover{}, nil
	default:
		return nil, fmt.Errorf("unsupported crossover: %s", name)
	}
}

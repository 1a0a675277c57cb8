package nn

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"neuroflap/internal/model"
)

const (
	// InputCount and HiddenCount fix the network topology for the lifetime
	// of the process: 4 inputs, 8 hidden units, 1 output.
	InputCount  = 4
	HiddenCount = 8

	// WeightLimit bounds every parameter after mutation and crossover.
	WeightLimit = 6.0

	DefaultHiddenActivation = "sigmoid"
)

// NewRandomNetwork draws every weight and bias uniformly from [-1, 1].
func NewRandomNetwork(rng *rand.Rand) model.NetworkParameters {
	params := ZeroNetwork()
	for i := 0; i < HiddenCount; i++ {
		for j := 0; j < InputCount; j++ {
			params.InputWeights[i][j] = rng.Float64()*2 - 1
		}
		params.OutputWeights[i] = rng.Float64()*2 - 1
		params.HiddenBias[i] = rng.Float64()*2 - 1
	}
	params.OutputBias = rng.Float64()*2 - 1
	return params
}

// ZeroNetwork allocates a network with every parameter set to zero. Used as
// the construction target for clone and crossover.
func ZeroNetwork() model.NetworkParameters {
	inputWeights := make([][]float64, HiddenCount)
	for i := range inputWeights {
		inputWeights[i] = make([]float64, InputCount)
	}
	return model.NetworkParameters{
		ID:               uuid.NewString(),
		InputWeights:     inputWeights,
		OutputWeights:    make([]float64, HiddenCount),
		HiddenBias:       make([]float64, HiddenCount),
		HiddenActivation: DefaultHiddenActivation,
	}
}

// Clone returns a fully independent deep copy. The caller assigns a new ID
// when the clone is meant to diverge from its parent.
func Clone(params model.NetworkParameters) model.NetworkParameters {
	out := params
	out.InputWeights = make([][]float64, len(params.InputWeights))
	for i, row := range params.InputWeights {
		out.InputWeights[i] = append([]float64(nil), row...)
	}
	out.OutputWeights = append([]float64(nil), params.OutputWeights...)
	out.HiddenBias = append([]float64(nil), params.HiddenBias...)
	return out
}

// ClipAll clamps every parameter into [-limit, limit].
func ClipAll(params *model.NetworkParameters, limit float64) {
	for i := range params.InputWeights {
		for j := range params.InputWeights[i] {
			params.InputWeights[i][j] = SaturationWithSpread(params.InputWeights[i][j], limit)
		}
	}
	for i := range params.OutputWeights {
		params.OutputWeights[i] = SaturationWithSpread(params.OutputWeights[i], limit)
	}
	for i := range params.HiddenBias {
		params.HiddenBias[i] = SaturationWithSpread(params.HiddenBias[i], limit)
	}
	params.OutputBias = SaturationWithSpread(params.OutputBias, limit)
}

// Predict runs the feedforward pass and returns a value in the open
// interval (0, 1). The input vector must have exactly InputCount entries.
func Predict(params model.NetworkParameters, inputs []float64) (float64, error) {
	if len(inputs) != InputCount {
		return 0, fmt.Errorf("network requires %d inputs, got %d", InputCount, len(inputs))
	}
	if err := checkShape(params); err != nil {
		return 0, err
	}

	hiddenActivation := params.HiddenActivation
	if hiddenActivation == "" {
		hiddenActivation = DefaultHiddenActivation
	}
	activate, err := GetActivation(hiddenActivation)
	if err != nil {
		return 0, fmt.Errorf("hidden activation: %w", err)
	}

	total := params.OutputBias
	for i := 0; i < HiddenCount; i++ {
		sum := params.HiddenBias[i]
		for j := 0; j < InputCount; j++ {
			sum += inputs[j] * params.InputWeights[i][j]
		}
		total += activate(sum) * params.OutputWeights[i]
	}
	return Sigmoid(total), nil
}

func checkShape(params model.NetworkParameters) error {
	if len(params.InputWeights) != HiddenCount {
		return fmt.Errorf("input weight rows: got=%d want=%d", len(params.InputWeights), HiddenCount)
	}
	for i, row := range params.InputWeights {
		if len(row) != InputCount {
			return fmt.Errorf("input weight row %d: got=%d want=%d", i, len(row), InputCount)
		}
	}
	if len(params.OutputWeights) != HiddenCount {
		return fmt.Errorf("output weights: got=%d want=%d", len(params.OutputWeights), HiddenCount)
	}
	if len(params.HiddenBias) != HiddenCount {
		return fmt.Errorf("hidden bias: got=%d want=%d", len(params.HiddenBias), HiddenCount)
	}
	return nil
}

package control

import (
	"math/rand"

	"neuroflap/internal/model"
	"neuroflap/internal/nn"
)

const (
	epsilon = 1e-6

	// Normalization constants: vertical speed saturates at 400 world units
	// per second, horizontal distance to the next obstacle at 200 units.
	velocityScale    = 400.0
	distanceSaturate = 200.0
)

// Observation is the raw per-tick world measurement for one individual. All
// heights are measured above ground.
type Observation struct {
	BirdY       float64
	GapTopY     float64
	GapBottomY  float64
	Distance    float64
	VelocityY   float64
	WorldHeight float64
}

// Policy converts observations into network inputs and network outputs into
// flap decisions.
type Policy struct {
	// Stochastic samples the decision (flap iff output > U(0,1)); otherwise
	// the decision compares against Threshold.
	Stochastic bool
	Threshold  float64
}

// NewPolicy returns the deterministic policy with the default 0.5 threshold.
func NewPolicy() Policy {
	return Policy{Threshold: 0.5}
}

// Inputs normalizes an observation into the 4-vector the network consumes:
// offset from gap center in half-gap units, normalized vertical speed,
// saturated distance to the next obstacle, and gap size relative to world
// height. Degenerate gaps and world heights are floored by epsilon, never
// rejected.
func Inputs(obs Observation) []float64 {
	gapCenter := (obs.GapTopY + obs.GapBottomY) / 2
	gapHalf := (obs.GapTopY - obs.GapBottomY) / 2
	if gapHalf < epsilon {
		gapHalf = epsilon
	}
	height := obs.WorldHeight
	if height < epsilon {
		height = epsilon
	}

	yRel := (obs.BirdY - gapCenter) / gapHalf
	velN := nn.Sat(obs.VelocityY/velocityScale, 1, -1)
	distN := nn.Sat(obs.Distance, distanceSaturate, 0) / distanceSaturate
	gapN := gapHalf / height

	return []float64{yRel, velN, distN, gapN}
}

// ShouldFlap runs the network on a normalized observation and applies the
// decision rule. The rng is only consulted for stochastic decisions.
func (p Policy) ShouldFlap(rng *rand.Rand, params model.NetworkParameters, obs Observation) (bool, error) {
	output, err := nn.Predict(params, Inputs(obs))
	if err != nil {
		return false, err
	}
	return p.Decide(rng, output), nil
}

// Decide applies the decision rule to a network output.
func (p Policy) Decide(rng *rand.Rand, output float64) bool {
	if p.Stochastic {
		return output > rng.Float64()
	}
	threshold := p.Threshold
	if threshold <= 0 {
		threshold = 0.5
	}
	return output > threshold
}

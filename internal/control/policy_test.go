package control

import (
	"math"
	"math/rand"
	"testing"

	"neuroflap/internal/nn"
)

func TestInputsNormalization(t *testing.T) {
	tests := []struct {
		name string
		obs  Observation
		want []float64
	}{
		{
			name: "bird-at-gap-center",
			obs:  Observation{BirdY: 300, GapTopY: 350, GapBottomY: 250, Distance: 100, VelocityY: 0, WorldHeight: 800},
			want: []float64{0, 0, 0.5, 50.0 / 800.0},
		},
		{
			name: "bird-at-gap-top",
			obs:  Observation{BirdY: 350, GapTopY: 350, GapBottomY: 250, Distance: 200, VelocityY: 400, WorldHeight: 800},
			want: []float64{1, 1, 1, 50.0 / 800.0},
		},
		{
			name: "velocity-saturates",
			obs:  Observation{BirdY: 250, GapTopY: 350, GapBottomY: 250, Distance: 500, VelocityY: -1200, WorldHeight: 800},
			want: []float64{-1, -1, 1, 50.0 / 800.0},
		},
		{
			name: "negative-distance-floors-to-zero",
			obs:  Observation{BirdY: 300, GapTopY: 350, GapBottomY: 250, Distance: -10, VelocityY: 0, WorldHeight: 800},
			want: []float64{0, 0, 0, 50.0 / 800.0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Inputs(tc.obs)
			if len(got) != 4 {
				t.Fatalf("input vector length: got=%d want=4", len(got))
			}
			for i := range tc.want {
				if math.Abs(got[i]-tc.want[i]) > 1e-9 {
					t.Fatalf("input %d: got=%f want=%f", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestInputsDegenerateGeometry(t *testing.T) {
	tests := []struct {
		name string
		obs  Observation
	}{
		{name: "zero-gap", obs: Observation{BirdY: 10, GapTopY: 100, GapBottomY: 100, Distance: 50, WorldHeight: 800}},
		{name: "inverted-gap", obs: Observation{BirdY: 10, GapTopY: 100, GapBottomY: 200, Distance: 50, WorldHeight: 800}},
		{name: "zero-world-height", obs: Observation{BirdY: 10, GapTopY: 150, GapBottomY: 100, Distance: 50, WorldHeight: 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, v := range Inputs(tc.obs) {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("non-finite input from degenerate geometry: %v", Inputs(tc.obs))
				}
			}
		})
	}
}

func TestDeterministicDecisionThreshold(t *testing.T) {
	policy := NewPolicy()

	tests := []struct {
		name   string
		output float64
		want   bool
	}{
		{name: "above-threshold-flaps", output: 0.6, want: true},
		{name: "below-threshold-holds", output: 0.4, want: false},
		{name: "exactly-threshold-holds", output: 0.5, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := policy.Decide(nil, tc.output); got != tc.want {
				t.Fatalf("decide(%f): got=%v want=%v", tc.output, got, tc.want)
			}
		})
	}
}

func TestShouldFlapForcedOutputs(t *testing.T) {
	policy := NewPolicy()
	obs := Observation{BirdY: 300, GapTopY: 350, GapBottomY: 250, Distance: 100, WorldHeight: 800}

	flapper := nn.ZeroNetwork()
	flapper.OutputBias = math.Log(0.6 / 0.4) // sigmoid -> exactly 0.6

	holder := nn.ZeroNetwork()
	holder.OutputBias = math.Log(0.4 / 0.6) // sigmoid -> exactly 0.4

	flap, err := policy.ShouldFlap(nil, flapper, obs)
	if err != nil {
		t.Fatalf("should flap: %v", err)
	}
	if !flap {
		t.Fatal("network outputting 0.6 must flap at threshold 0.5")
	}

	hold, err := policy.ShouldFlap(nil, holder, obs)
	if err != nil {
		t.Fatalf("should flap: %v", err)
	}
	if hold {
		t.Fatal("network outputting 0.4 must not flap at threshold 0.5")
	}
}

func TestStochasticDecisionSamples(t *testing.T) {
	policy := Policy{Stochastic: true}
	rng := rand.New(rand.NewSource(55))

	flaps := 0
	const trials = 2000
	for i := 0; i < trials; i++ {
		if policy.Decide(rng, 0.7) {
			flaps++
		}
	}

	rate := float64(flaps) / float64(trials)
	if rate < 0.6 || rate > 0.8 {
		t.Fatalf("stochastic flap rate off target: got=%f want~0.7", rate)
	}
}

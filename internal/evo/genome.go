package evo

import "neuroflap/internal/model"

// scoreDominance guarantees that one more obstacle passed always outranks
// any achievable distance advantage.
const scoreDominance = 1000.0

// Genome is one individual: a policy network plus the mutable state of the
// current episode. Network parameters survive episode resets; run state does
// not.
type Genome struct {
	Net      model.NetworkParameters
	Alive    bool
	Score    int
	Distance float64
}

// Fitness derives the ranking score. Score strictly dominates distance as
// long as distances stay below scoreDominance.
func (g *Genome) Fitness() float64 {
	return float64(g.Score)*scoreDominance + g.Distance
}

// ResetRunState restores the per-episode mutable state without touching the
// network parameters.
func (g *Genome) ResetRunState() {
	g.Alive = true
	g.Score = 0
	g.Distance = 0
}

// ScoredGenome pairs a network with the fitness that ranked it.
type ScoredGenome struct {
	Net     model.NetworkParameters
	Score   int
	Fitness float64
}

package scape

import (
	"context"

	"neuroflap/internal/control"
)

// Population is the engine-side surface a scape drives: per-tick decision
// queries and lifecycle reporting, indexed by stable population slot.
type Population interface {
	PopulationSize() int
	Alive(i int) bool
	Decide(i int, obs control.Observation) (bool, error)
	TickAlive(i int, distance float64)
	AddScore(i int)
	Kill(i int)
	AllDead() bool
}

// EpisodeStats summarizes one full episode of a population.
type EpisodeStats struct {
	Ticks        int
	PipesPassed  int
	BestDistance float64
}

// Scape is a headless environment that runs a whole population through one
// episode, reporting fitness signals back through the Population interface.
type Scape interface {
	Name() string
	RunEpisode(ctx context.Context, population Population) (EpisodeStats, error)
}

package scape

import (
	"context"
	"testing"

	"neuroflap/internal/control"
)

// stubPopulation scripts decisions without a real engine behind it.
type stubPopulation struct {
	alive     []bool
	scores    []int
	distances []float64
	flapFn    func(i int, obs control.Observation) bool
}

func newStubPopulation(size int, flapFn func(i int, obs control.Observation) bool) *stubPopulation {
	return &stubPopulation{
		alive:     make([]bool, size),
		scores:    make([]int, size),
		distances: make([]float64, size),
		flapFn:    flapFn,
	}
}

func (s *stubPopulation) reset() {
	for i := range s.alive {
		s.alive[i] = true
		s.scores[i] = 0
		s.distances[i] = 0
	}
}

func (s *stubPopulation) PopulationSize() int { return len(s.alive) }

func (s *stubPopulation) Alive(i int) bool { return i >= 0 && i < len(s.alive) && s.alive[i] }

func (s *stubPopulation) Decide(i int, obs control.Observation) (bool, error) {
	if !s.Alive(i) {
		return false, nil
	}
	return s.flapFn(i, obs), nil
}

func (s *stubPopulation) TickAlive(i int, distance float64) {
	if !s.Alive(i) {
		return
	}
	if distance > s.distances[i] {
		s.distances[i] = distance
	}
}

func (s *stubPopulation) AddScore(i int) {
	if s.Alive(i) {
		s.scores[i]++
	}
}

func (s *stubPopulation) Kill(i int) {
	if i >= 0 && i < len(s.alive) {
		s.alive[i] = false
	}
}

func (s *stubPopulation) AllDead() bool {
	for _, alive := range s.alive {
		if alive {
			return false
		}
	}
	return true
}

func neverFlap(_ int, _ control.Observation) bool { return false }

// hover keeps a bird oscillating around mid-height.
func hover(_ int, obs control.Observation) bool { return obs.BirdY < obs.WorldHeight/2 }

func TestPipeWorldEpisodeTerminates(t *testing.T) {
	world := NewPipeWorld(PipeWorldConfig{Seed: 1})
	population := newStubPopulation(5, neverFlap)
	population.reset()

	stats, err := world.RunEpisode(context.Background(), population)
	if err != nil {
		t.Fatalf("run episode: %v", err)
	}

	if !population.AllDead() {
		t.Fatal("episode ended with live birds")
	}
	// Free fall from mid-height hits the floor in well under a second.
	if stats.Ticks <= 0 || stats.Ticks > 120 {
		t.Fatalf("unexpected episode length for free-falling birds: %d ticks", stats.Ticks)
	}
	for i, d := range population.distances {
		if d < 0 {
			t.Fatalf("bird %d has negative distance: %f", i, d)
		}
	}
}

func TestPipeWorldLeadPassScoresAllAlive(t *testing.T) {
	world := NewPipeWorld(PipeWorldConfig{
		PipeGap:  700,
		MaxTicks: 600,
		Seed:     2,
	})
	population := newStubPopulation(3, hover)
	population.reset()

	stats, err := world.RunEpisode(context.Background(), population)
	if err != nil {
		t.Fatalf("run episode: %v", err)
	}

	if stats.PipesPassed < 2 {
		t.Fatalf("hovering birds should pass pipes: got=%d", stats.PipesPassed)
	}
	for i, score := range population.scores {
		if score != stats.PipesPassed {
			t.Fatalf("bird %d score: got=%d want=%d (every alive bird scores on a lead pass)", i, score, stats.PipesPassed)
		}
	}
	if stats.BestDistance <= 0 {
		t.Fatal("expected forward scroll distance")
	}
}

func TestPipeWorldDeterministicForSeed(t *testing.T) {
	run := func() EpisodeStats {
		world := NewPipeWorld(PipeWorldConfig{Seed: 7})
		population := newStubPopulation(4, hover)
		population.reset()
		stats, err := world.RunEpisode(context.Background(), population)
		if err != nil {
			t.Fatalf("run episode: %v", err)
		}
		return stats
	}

	a := run()
	b := run()
	if a != b {
		t.Fatalf("seeded episodes diverged: a=%+v b=%+v", a, b)
	}
}

func TestPipeWorldEmptyPopulation(t *testing.T) {
	world := NewPipeWorld(PipeWorldConfig{Seed: 3})
	population := newStubPopulation(0, neverFlap)

	if _, err := world.RunEpisode(context.Background(), population); err == nil {
		t.Fatal("expected error for empty population")
	}
}

func TestPipeWorldContextCancellation(t *testing.T) {
	world := NewPipeWorld(PipeWorldConfig{Seed: 4})
	population := newStubPopulation(2, hover)
	population.reset()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := world.RunEpisode(ctx, population); err == nil {
		t.Fatal("expected context error")
	}
}

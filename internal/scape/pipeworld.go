package scape

import (
	"context"
	"fmt"
	"math/rand"

	"neuroflap/internal/control"
)

// PipeWorldConfig shapes the headless world. Zero values fall back to the
// defaults below.
type PipeWorldConfig struct {
	WorldHeight float64
	Gravity     float64
	FlapImpulse float64
	ScrollSpeed float64
	PipeSpacing float64
	PipeGap     float64
	PipeWidth   float64
	BirdX       float64
	TickRate    float64

	// MaxTicks is a safety stop for episodes that would otherwise never
	// terminate. The remaining birds are killed when it is hit.
	MaxTicks int

	Seed int64
}

const (
	defaultWorldHeight = 800.0
	defaultGravity     = -1200.0
	defaultFlapImpulse = 360.0
	defaultScrollSpeed = 120.0
	defaultPipeSpacing = 280.0
	defaultPipeGap     = 180.0
	defaultPipeWidth   = 60.0
	defaultBirdX       = 100.0
	defaultTickRate    = 60.0
	defaultMaxTicks    = 100000
	gapCenterMargin    = 40.0
)

func (c PipeWorldConfig) withDefaults() PipeWorldConfig {
	if c.WorldHeight <= 0 {
		c.WorldHeight = defaultWorldHeight
	}
	if c.Gravity == 0 {
		c.Gravity = defaultGravity
	}
	if c.FlapImpulse <= 0 {
		c.FlapImpulse = defaultFlapImpulse
	}
	if c.ScrollSpeed <= 0 {
		c.ScrollSpeed = defaultScrollSpeed
	}
	if c.PipeSpacing <= 0 {
		c.PipeSpacing = defaultPipeSpacing
	}
	if c.PipeGap <= 0 || c.PipeGap >= c.WorldHeight {
		c.PipeGap = defaultPipeGap
	}
	if c.PipeWidth <= 0 {
		c.PipeWidth = defaultPipeWidth
	}
	if c.BirdX <= 0 {
		c.BirdX = defaultBirdX
	}
	if c.TickRate <= 0 {
		c.TickRate = defaultTickRate
	}
	if c.MaxTicks <= 0 {
		c.MaxTicks = defaultMaxTicks
	}
	return c
}

// PipeWorld is a deterministic, render-free flappy world: pipes scroll left
// past a column of birds that only move vertically. It exists to exercise
// the evolution engine, not to simulate the presentation layer.
type PipeWorld struct {
	cfg PipeWorldConfig
	rng *rand.Rand
}

func NewPipeWorld(cfg PipeWorldConfig) *PipeWorld {
	cfg = cfg.withDefaults()
	return &PipeWorld{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

func (w *PipeWorld) Name() string {
	return "pipe-world"
}

type pipe struct {
	x         float64
	gapCenter float64
	passed    bool
}

type bird struct {
	y  float64
	vy float64
}

// RunEpisode ticks the world until every bird is dead or the tick cap hits.
// Scoring follows the lead-bird rule: when the front pipe scrolls past the
// bird column, every currently-alive bird is credited with the pass.
func (w *PipeWorld) RunEpisode(ctx context.Context, population Population) (EpisodeStats, error) {
	size := population.PopulationSize()
	if size == 0 {
		return EpisodeStats{}, fmt.Errorf("population is empty")
	}

	dt := 1.0 / w.cfg.TickRate
	birds := make([]bird, size)
	for i := range birds {
		birds[i] = bird{y: w.cfg.WorldHeight / 2}
	}

	pipes := []pipe{w.spawnPipe(w.cfg.BirdX + w.cfg.PipeSpacing)}
	stats := EpisodeStats{}
	distance := 0.0

	for tick := 0; tick < w.cfg.MaxTicks; tick++ {
		if err := ctx.Err(); err != nil {
			return EpisodeStats{}, err
		}
		if population.AllDead() {
			break
		}
		stats.Ticks = tick + 1

		next := w.nextPipe(pipes)
		obsBase := control.Observation{
			GapTopY:     next.gapCenter + w.cfg.PipeGap/2,
			GapBottomY:  next.gapCenter - w.cfg.PipeGap/2,
			Distance:    next.x - w.cfg.BirdX,
			WorldHeight: w.cfg.WorldHeight,
		}

		for i := 0; i < size; i++ {
			if !population.Alive(i) {
				continue
			}

			obs := obsBase
			obs.BirdY = birds[i].y
			obs.VelocityY = birds[i].vy
			flap, err := population.Decide(i, obs)
			if err != nil {
				return EpisodeStats{}, fmt.Errorf("decide bird %d: %w", i, err)
			}
			if flap {
				birds[i].vy = w.cfg.FlapImpulse
			}

			birds[i].vy += w.cfg.Gravity * dt
			birds[i].y += birds[i].vy * dt

			if w.collides(birds[i], next) || birds[i].y <= 0 || birds[i].y >= w.cfg.WorldHeight {
				population.Kill(i)
				continue
			}
			population.TickAlive(i, distance)
		}

		distance += w.cfg.ScrollSpeed * dt
		if distance > stats.BestDistance {
			stats.BestDistance = distance
		}
		for p := range pipes {
			pipes[p].x -= w.cfg.ScrollSpeed * dt
			if !pipes[p].passed && pipes[p].x+w.cfg.PipeWidth < w.cfg.BirdX {
				pipes[p].passed = true
				stats.PipesPassed++
				for i := 0; i < size; i++ {
					if population.Alive(i) {
						population.AddScore(i)
					}
				}
			}
		}
		pipes = w.recyclePipes(pipes)
	}

	for i := 0; i < size; i++ {
		population.Kill(i)
	}
	return stats, nil
}

func (w *PipeWorld) spawnPipe(x float64) pipe {
	gapHalf := w.cfg.PipeGap / 2
	low := gapHalf + gapCenterMargin
	high := w.cfg.WorldHeight - gapHalf - gapCenterMargin
	if high <= low {
		return pipe{x: x, gapCenter: w.cfg.WorldHeight / 2}
	}
	return pipe{x: x, gapCenter: low + w.rng.Float64()*(high-low)}
}

// nextPipe returns the first pipe the birds have not fully passed yet.
func (w *PipeWorld) nextPipe(pipes []pipe) pipe {
	for _, p := range pipes {
		if p.x+w.cfg.PipeWidth >= w.cfg.BirdX {
			return p
		}
	}
	return pipes[len(pipes)-1]
}

func (w *PipeWorld) collides(b bird, next pipe) bool {
	if w.cfg.BirdX < next.x || w.cfg.BirdX > next.x+w.cfg.PipeWidth {
		return false
	}
	gapHalf := w.cfg.PipeGap / 2
	return b.y > next.gapCenter+gapHalf || b.y < next.gapCenter-gapHalf
}

// recyclePipes drops pipes that scrolled off and keeps one spawned ahead.
func (w *PipeWorld) recyclePipes(pipes []pipe) []pipe {
	kept := pipes[:0]
	for _, p := range pipes {
		if p.x+w.cfg.PipeWidth > 0 {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		kept = append(kept, w.spawnPipe(w.cfg.BirdX+w.cfg.PipeSpacing))
	} else if kept[len(kept)-1].x < w.cfg.BirdX+w.cfg.PipeSpacing {
		kept = append(kept, w.spawnPipe(kept[len(kept)-1].x+w.cfg.PipeSpacing))
	}
	return kept
}

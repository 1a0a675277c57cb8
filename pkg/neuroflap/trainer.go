package neuroflap

import (
	"math/rand"

	"neuroflap/internal/control"
	"neuroflap/internal/evo"
	"neuroflap/internal/model"
	"neuroflap/internal/nn"
)

// TrainerConfig combines the engine capability surface with the decision
// policy knobs.
type TrainerConfig struct {
	Engine evo.Config

	// UseStochasticPolicy samples flap decisions instead of thresholding,
	// trading run-to-run stability for exploration.
	UseStochasticPolicy bool

	// FlapThreshold is the deterministic decision boundary. Zero means 0.5.
	FlapThreshold float64
}

// Trainer is the in-process API consumed by a game loop: per-tick decision
// queries, lifecycle reporting, and generation turnover. All methods are
// intended for one sequential simulation loop; Evolve must run strictly
// between episodes.
type Trainer struct {
	engine *evo.Engine
	policy control.Policy
	rng    *rand.Rand
}

func NewTrainer(cfg TrainerConfig) (*Trainer, error) {
	engine, err := evo.NewEngine(cfg.Engine)
	if err != nil {
		return nil, err
	}

	threshold := cfg.FlapThreshold
	if threshold <= 0 {
		threshold = 0.5
	}
	return &Trainer{
		engine: engine,
		policy: control.Policy{Stochastic: cfg.UseStochasticPolicy, Threshold: threshold},
		rng:    rand.New(rand.NewSource(cfg.Engine.Seed + 1)),
	}, nil
}

// Reset constructs a fresh population of randomly initialized genomes.
func (t *Trainer) Reset(populationSize int) {
	t.engine.Reset(populationSize)
}

// ResetRunState starts a new episode without touching network parameters.
func (t *Trainer) ResetRunState() {
	t.engine.ResetRunState()
}

func (t *Trainer) TickAlive(index int, distanceSoFar float64) {
	t.engine.TickAlive(index, distanceSoFar)
}

func (t *Trainer) AddScore(index int) {
	t.engine.AddScore(index)
}

func (t *Trainer) Kill(index int) {
	t.engine.Kill(index)
}

func (t *Trainer) Alive(index int) bool {
	return t.engine.Alive(index)
}

func (t *Trainer) AllDead() bool {
	return t.engine.AllDead()
}

func (t *Trainer) PopulationSize() int {
	return t.engine.PopulationSize()
}

func (t *Trainer) Generation() int {
	return t.engine.Generation()
}

// ShouldFlap answers the per-tick decision query for individual index given
// raw world measurements. Dead individuals and out-of-range indices never
// flap.
func (t *Trainer) ShouldFlap(index int, birdY, gapTopY, gapBottomY, distanceToNextObstacle, verticalVelocity, worldHeight float64) bool {
	flap, err := t.Decide(index, control.Observation{
		BirdY:       birdY,
		GapTopY:     gapTopY,
		GapBottomY:  gapBottomY,
		Distance:    distanceToNextObstacle,
		VelocityY:   verticalVelocity,
		WorldHeight: worldHeight,
	})
	if err != nil {
		return false
	}
	return flap
}

// Decide is the observation-based decision query used by headless scapes.
func (t *Trainer) Decide(index int, obs control.Observation) (bool, error) {
	if !t.engine.Alive(index) {
		return false, nil
	}
	params, ok := t.engine.Net(index)
	if !ok {
		return false, nil
	}
	return t.policy.ShouldFlap(t.rng, params, obs)
}

// Evolve advances to the next generation, replacing every genome and
// incrementing the generation counter.
func (t *Trainer) Evolve() (model.GenerationDiagnostics, error) {
	return t.engine.Evolve()
}

// Champion returns the best-ever record when champion preservation is on.
func (t *Trainer) Champion() (model.ChampionRecord, bool) {
	return t.engine.Champion()
}

// HallOfFame returns the retained top-performer pool, best first.
func (t *Trainer) HallOfFame() []model.ChampionRecord {
	return t.engine.HallOfFame()
}

// AgentView is a read-only export of one population slot for the
// presentation layer.
type AgentView struct {
	Index    int
	Network  model.NetworkParameters
	Color    string
	Alive    bool
	Score    int
	Distance float64
}

// CurrentPopulationSnapshot exports one view per genome with a stable,
// visually distinct tint per slot. The returned networks are deep copies;
// mutating them never affects the live population.
func (t *Trainer) CurrentPopulationSnapshot() []AgentView {
	size := t.engine.PopulationSize()
	views := make([]AgentView, 0, size)
	for i := 0; i < size; i++ {
		net, ok := t.engine.Net(i)
		if !ok {
			continue
		}
		views = append(views, AgentView{
			Index:    i,
			Network:  nn.Clone(net),
			Color:    slotColor(i, size),
			Alive:    t.engine.Alive(i),
			Score:    t.engine.Score(i),
			Distance: t.engine.Distance(i),
		})
	}
	return views
}

package evo

import (
	"fmt"
	"math/rand"
	"sort"

	"neuroflap/internal/model"
	"neuroflap/internal/nn"
)

const minPopulationSize = 2

// Config is the full capability surface of the engine. One engine type
// covers every variant: champion preservation, hall-of-fame injection,
// selection and crossover strategy, and the mutation schedule are all
// selected here at construction.
type Config struct {
	PopulationSize int

	// EliteFraction of the population survives unmutated and forms the
	// parent pool. Defaults to 0.2, floored at two elites.
	EliteFraction float64

	Champion           bool
	HallOfFame         bool
	HallOfFameTopK     int
	HallOfFameCapacity int

	// Selection is "tournament" (default) or "random-pair".
	Selection      string
	TournamentSize int

	// Crossover is "uniform" (default) or "average".
	Crossover string

	// MutationSchedule is "annealed" (default) or "fixed". Rate and step
	// seed the fixed schedule; the floors bound the annealed one.
	MutationSchedule string
	MutationRate     float64
	MutationStep     float64
	MinMutationRate  float64
	MinMutationStep  float64

	// HiddenActivation names the hidden layer activation for fresh
	// networks. Defaults to sigmoid.
	HiddenActivation string

	Seed int64
}

// Engine runs the generation clock: per-tick fitness signals accumulate into
// genomes, Evolve replaces the population when the caller reports everyone
// dead. All methods are meant for one sequential simulation loop.
type Engine struct {
	cfg       Config
	rng       *rand.Rand
	selector  Selector
	crossover Crossover
	schedule  MutationSchedule
	archive   *Archive

	genomes    []*Genome
	generation int
	rate       float64
	step       float64
}

func NewEngine(cfg Config) (*Engine, error) {
	if cfg.PopulationSize < minPopulationSize {
		cfg.PopulationSize = minPopulationSize
	}
	if cfg.EliteFraction <= 0 || cfg.EliteFraction > 1 {
		cfg.EliteFraction = 0.2
	}
	if cfg.MutationRate <= 0 {
		cfg.MutationRate = 0.3
	}
	if cfg.MutationStep <= 0 {
		cfg.MutationStep = 0.5
	}
	if cfg.HiddenActivation == "" {
		cfg.HiddenActivation = nn.DefaultHiddenActivation
	}
	if _, err := nn.GetActivation(cfg.HiddenActivation); err != nil {
		return nil, fmt.Errorf("hidden activation: %w", err)
	}

	selector, err := ResolveSelector(cfg.Selection, cfg.TournamentSize)
	if err != nil {
		return nil, err
	}
	crossover, err := ResolveCrossover(cfg.Crossover)
	if err != nil {
		return nil, err
	}
	schedule, err := ResolveSchedule(cfg.MutationSchedule, cfg.MutationRate, cfg.MutationStep, cfg.MinMutationRate, cfg.MinMutationStep)
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		selector:  selector,
		crossover: crossover,
		schedule:  schedule,
		archive:   NewArchive(cfg.HallOfFameTopK, cfg.HallOfFameCapacity),
		rate:      cfg.MutationRate,
		step:      cfg.MutationStep,
	}
	engine.Reset(cfg.PopulationSize)
	return engine, nil
}

// Reset builds a fresh population of randomly initialized genomes. The
// archive survives; the generation counter does not.
func (e *Engine) Reset(popSize int) {
	if popSize < minPopulationSize {
		popSize = minPopulationSize
	}
	e.cfg.PopulationSize = popSize

	e.genomes = make([]*Genome, popSize)
	for i := range e.genomes {
		net := nn.NewRandomNetwork(e.rng)
		net.HiddenActivation = e.cfg.HiddenActivation
		e.genomes[i] = &Genome{Net: net}
		e.genomes[i].ResetRunState()
	}
	e.generation = 0
}

// ResetRunState starts a new episode: every genome alive with zero score and
// distance, networks untouched.
func (e *Engine) ResetRunState() {
	for _, genome := range e.genomes {
		genome.ResetRunState()
	}
}

// TickAlive merges the best distance reached so far for a live individual.
// Out-of-range indices and dead individuals are ignored.
func (e *Engine) TickAlive(i int, distance float64) {
	genome, ok := e.genome(i)
	if !ok || !genome.Alive {
		return
	}
	if distance > genome.Distance {
		genome.Distance = distance
	}
}

// AddScore credits a live individual with one passed obstacle.
func (e *Engine) AddScore(i int) {
	genome, ok := e.genome(i)
	if !ok || !genome.Alive {
		return
	}
	genome.Score++
}

// Kill marks an individual dead. Idempotent.
func (e *Engine) Kill(i int) {
	genome, ok := e.genome(i)
	if !ok {
		return
	}
	genome.Alive = false
}

// Alive reports whether individual i is still in play this episode.
func (e *Engine) Alive(i int) bool {
	genome, ok := e.genome(i)
	return ok && genome.Alive
}

// AllDead reports whether the episode is over for the whole population.
func (e *Engine) AllDead() bool {
	for _, genome := range e.genomes {
		if genome.Alive {
			return false
		}
	}
	return true
}

func (e *Engine) Generation() int {
	return e.generation
}

func (e *Engine) PopulationSize() int {
	return len(e.genomes)
}

// Net returns a read-only view of individual i's network parameters.
func (e *Engine) Net(i int) (model.NetworkParameters, bool) {
	genome, ok := e.genome(i)
	if !ok {
		return model.NetworkParameters{}, false
	}
	return genome.Net, true
}

// Score reports the obstacles passed by individual i this episode.
func (e *Engine) Score(i int) int {
	genome, ok := e.genome(i)
	if !ok {
		return 0
	}
	return genome.Score
}

// Distance reports the best distance reached by individual i this episode.
func (e *Engine) Distance(i int) float64 {
	genome, ok := e.genome(i)
	if !ok {
		return 0
	}
	return genome.Distance
}

// Champion returns the archived best-ever record, if champion preservation
// captured one.
func (e *Engine) Champion() (model.ChampionRecord, bool) {
	return e.archive.Champion()
}

// HallOfFame returns the archived top-performer pool, best first.
func (e *Engine) HallOfFame() []model.ChampionRecord {
	return e.archive.HallOfFame()
}

// MutationRateStep reports the rate and step that built the current
// population.
func (e *Engine) MutationRateStep() (rate, step float64) {
	return e.rate, e.step
}

// Evolve replaces the population with the next generation. It is meant to
// run once per episode, after the caller has reported the whole population
// dead, and strictly serialized with the per-tick calls.
func (e *Engine) Evolve() (model.GenerationDiagnostics, error) {
	if len(e.genomes) == 0 {
		return model.GenerationDiagnostics{}, fmt.Errorf("population is empty")
	}

	ranked := make([]ScoredGenome, len(e.genomes))
	for i, genome := range e.genomes {
		ranked[i] = ScoredGenome{Net: genome.Net, Score: genome.Score, Fitness: genome.Fitness()}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Fitness > ranked[j].Fitness
	})

	if e.cfg.Champion {
		e.archive.ObserveChampion(ranked, e.generation)
	}
	if e.cfg.HallOfFame {
		e.archive.CaptureHallOfFame(ranked, e.generation)
	}

	eliteCount := int(e.cfg.EliteFraction * float64(len(ranked)))
	if eliteCount < minPopulationSize {
		eliteCount = minPopulationSize
	}
	if eliteCount > len(ranked) {
		eliteCount = len(ranked)
	}

	bestScore := ranked[0].Score
	e.rate, e.step = e.schedule.RateStep(bestScore)

	next := make([]*Genome, 0, len(ranked))
	if e.cfg.Champion {
		if champion, ok := e.archive.Champion(); ok {
			next = append(next, &Genome{Net: champion.Network})
		}
	}
	if e.cfg.HallOfFame {
		for _, record := range e.archive.HallOfFame() {
			if len(next) >= len(ranked) {
				break
			}
			next = append(next, &Genome{Net: record.Network})
		}
	}
	for i := 0; i < eliteCount && len(next) < len(ranked); i++ {
		next = append(next, &Genome{Net: nn.Clone(ranked[i].Net)})
	}
	for len(next) < len(ranked) {
		parentA, err := e.selector.PickParent(e.rng, ranked, eliteCount)
		if err != nil {
			return model.GenerationDiagnostics{}, err
		}
		parentB, err := e.selector.PickParent(e.rng, ranked, eliteCount)
		if err != nil {
			return model.GenerationDiagnostics{}, err
		}
		child := e.crossover.Combine(e.rng, parentA, parentB)
		MutateWeights(e.rng, &child, e.rate, e.step)
		next = append(next, &Genome{Net: child})
	}

	e.genomes = next
	e.ResetRunState()
	e.generation++

	return e.summarize(ranked), nil
}

func (e *Engine) summarize(ranked []ScoredGenome) model.GenerationDiagnostics {
	total := 0.0
	minFitness := ranked[0].Fitness
	for _, scored := range ranked {
		total += scored.Fitness
		if scored.Fitness < minFitness {
			minFitness = scored.Fitness
		}
	}

	championScore := ranked[0].Score
	if champion, ok := e.archive.Champion(); ok {
		championScore = champion.Score
	}

	return model.GenerationDiagnostics{
		VersionedRecord: model.Stamp(),
		Generation:      e.generation,
		BestScore:       ranked[0].Score,
		BestFitness:     ranked[0].Fitness,
		MeanFitness:     total / float64(len(ranked)),
		MinFitness:      minFitness,
		ChampionScore:   championScore,
		MutationRate:    e.rate,
		MutationStep:    e.step,
	}
}

func (e *Engine) genome(i int) (*Genome, bool) {
	if i < 0 || i >= len(e.genomes) {
		return nil, false
	}
	return e.genomes[i], true
}

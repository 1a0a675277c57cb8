package neuroflap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"neuroflap/internal/evo"
	"neuroflap/internal/model"
	"neuroflap/internal/scape"
	"neuroflap/internal/storage"
)

const defaultDBPath = "neuroflap.db"

type Options struct {
	StoreKind string
	DBPath    string
}

// Client orchestrates headless training runs and persists their artifacts.
type Client struct {
	store storage.Store
}

// RunRequest configures one full experiment: population and generation
// counts, the engine strategy names, and the world shape.
type RunRequest struct {
	Population  int
	Generations int
	Seed        int64

	Selection        string
	TournamentSize   int
	Crossover        string
	MutationSchedule string
	MutationRate     float64
	MutationStep     float64
	MinMutationRate  float64
	MinMutationStep  float64
	HiddenActivation string

	Stochastic    bool
	FlapThreshold float64

	World scape.PipeWorldConfig
}

type RunSummary struct {
	RunID            string
	Generations      int
	BestScore        int
	BestFitness      float64
	BestByGeneration []float64
}

type RunsRequest struct {
	Limit int
}

type FitnessHistoryRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type DiagnosticsRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type ChampionRequest struct {
	RunID  string
	Latest bool
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	return &Client{store: store}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

// RunExperiment evolves a population against the pipe world for the
// requested number of generations and persists the run record, champion,
// hall-of-fame, fitness history, and per-generation diagnostics.
func (c *Client) RunExperiment(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.Population <= 0 {
		req.Population = 50
	}
	if req.Generations <= 0 {
		req.Generations = 100
	}

	trainer, err := NewTrainer(TrainerConfig{
		Engine: evo.Config{
			PopulationSize:   req.Population,
			Champion:         true,
			HallOfFame:       true,
			Selection:        req.Selection,
			TournamentSize:   req.TournamentSize,
			Crossover:        req.Crossover,
			MutationSchedule: req.MutationSchedule,
			MutationRate:     req.MutationRate,
			MutationStep:     req.MutationStep,
			MinMutationRate:  req.MinMutationRate,
			MinMutationStep:  req.MinMutationStep,
			HiddenActivation: req.HiddenActivation,
			Seed:             req.Seed,
		},
		UseStochasticPolicy: req.Stochastic,
		FlapThreshold:       req.FlapThreshold,
	})
	if err != nil {
		return RunSummary{}, err
	}

	world := req.World
	if world.Seed == 0 {
		world.Seed = req.Seed
	}
	pipeWorld := scape.NewPipeWorld(world)

	if err := c.store.Init(ctx); err != nil {
		return RunSummary{}, err
	}

	history := make([]float64, 0, req.Generations)
	diagnostics := make([]model.GenerationDiagnostics, 0, req.Generations)
	bestScore := 0
	bestFitness := 0.0

	for generation := 0; generation < req.Generations; generation++ {
		if err := ctx.Err(); err != nil {
			return RunSummary{}, err
		}
		if _, err := pipeWorld.RunEpisode(ctx, trainer); err != nil {
			return RunSummary{}, fmt.Errorf("generation %d: %w", generation, err)
		}
		diag, err := trainer.Evolve()
		if err != nil {
			return RunSummary{}, fmt.Errorf("evolve generation %d: %w", generation, err)
		}
		history = append(history, diag.BestFitness)
		diagnostics = append(diagnostics, diag)
		if diag.BestScore > bestScore {
			bestScore = diag.BestScore
		}
		if diag.BestFitness > bestFitness {
			bestFitness = diag.BestFitness
		}
	}

	runID := uuid.NewString()
	run := model.RunRecord{
		VersionedRecord: storage.Stamp(),
		ID:              runID,
		CreatedAtUTC:    time.Now().UTC().Format(time.RFC3339Nano),
		Seed:            req.Seed,
		Population:      req.Population,
		Generations:     req.Generations,
		BestScore:       bestScore,
		BestFitness:     bestFitness,
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return RunSummary{}, err
	}
	if champion, ok := trainer.Champion(); ok {
		if err := c.store.SaveChampion(ctx, runID, champion); err != nil {
			return RunSummary{}, err
		}
	}
	if pool := trainer.HallOfFame(); len(pool) > 0 {
		if err := c.store.SaveHallOfFame(ctx, runID, pool); err != nil {
			return RunSummary{}, err
		}
	}
	if err := c.store.SaveFitnessHistory(ctx, runID, history); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveGenerationDiagnostics(ctx, runID, diagnostics); err != nil {
		return RunSummary{}, err
	}

	return RunSummary{
		RunID:            runID,
		Generations:      req.Generations,
		BestScore:        bestScore,
		BestFitness:      bestFitness,
		BestByGeneration: append([]float64(nil), history...),
	}, nil
}

func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]model.RunRecord, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	if len(runs) > req.Limit {
		runs = runs[:req.Limit]
	}
	return runs, nil
}

func (c *Client) FitnessHistory(ctx context.Context, req FitnessHistoryRequest) ([]float64, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}
	history, ok, err := c.store.GetFitnessHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("fitness history not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(history) > req.Limit {
		history = history[:req.Limit]
	}
	return append([]float64(nil), history...), nil
}

func (c *Client) Diagnostics(ctx context.Context, req DiagnosticsRequest) ([]model.GenerationDiagnostics, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}
	diagnostics, ok, err := c.store.GetGenerationDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("diagnostics not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(diagnostics) > req.Limit {
		diagnostics = diagnostics[:req.Limit]
	}
	out := make([]model.GenerationDiagnostics, len(diagnostics))
	copy(out, diagnostics)
	return out, nil
}

func (c *Client) Champion(ctx context.Context, req ChampionRequest) (model.ChampionRecord, error) {
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return model.ChampionRecord{}, err
	}
	champion, ok, err := c.store.GetChampion(ctx, runID)
	if err != nil {
		return model.ChampionRecord{}, err
	}
	if !ok {
		return model.ChampionRecord{}, fmt.Errorf("champion not found for run id: %s", runID)
	}
	return champion, nil
}

func (c *Client) HallOfFame(ctx context.Context, req ChampionRequest) ([]model.ChampionRecord, error) {
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}
	pool, ok, err := c.store.GetHallOfFame(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("hall of fame not found for run id: %s", runID)
	}
	return pool, nil
}

func (c *Client) resolveRunID(ctx context.Context, runID string, latest bool) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if latest {
		runs, err := c.store.ListRuns(ctx)
		if err != nil {
			return "", err
		}
		if len(runs) == 0 {
			return "", errors.New("no runs available")
		}
		return runs[0].ID, nil
	}
	if runID == "" {
		return "", errors.New("run id or latest is required")
	}
	return runID, nil
}

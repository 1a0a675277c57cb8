package storage

import (
	"context"

	"neuroflap/internal/model"
)

// Store persists evolution artifacts across process restarts: run metadata,
// per-generation fitness history and diagnostics, and the champion and
// hall-of-fame snapshots of each run.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	SaveChampion(ctx context.Context, runID string, champion model.ChampionRecord) error
	GetChampion(ctx context.Context, runID string) (model.ChampionRecord, bool, error)
	SaveHallOfFame(ctx context.Context, runID string, pool []model.ChampionRecord) error
	GetHallOfFame(ctx context.Context, runID string) ([]model.ChampionRecord, bool, error)
	SaveFitnessHistory(ctx context.Context, runID string, history []float64) error
	GetFitnessHistory(ctx context.Context, runID string) ([]float64, bool, error)
	SaveGenerationDiagnostics(ctx context.Context, runID string, diagnostics []model.GenerationDiagnostics) error
	GetGenerationDiagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error)
}

package storage

import (
	"context"
	"sort"
	"sync"

	"neuroflap/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	runs        map[string]model.RunRecord
	champions   map[string]model.ChampionRecord
	hallOfFame  map[string][]model.ChampionRecord
	history     map[string][]float64
	diagnostics map[string][]model.GenerationDiagnostics
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs:        make(map[string]model.RunRecord),
		champions:   make(map[string]model.ChampionRecord),
		hallOfFame:  make(map[string][]model.ChampionRecord),
		history:     make(map[string][]float64),
		diagnostics: make(map[string][]model.GenerationDiagnostics),
	}
}

// Init is a no-op for the in-memory backend; it exists so callers can treat
// every backend uniformly.
func (s *MemoryStore) Init(_ context.Context) error {
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAtUTC == out[j].CreatedAtUTC {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAtUTC > out[j].CreatedAtUTC
	})
	return out, nil
}

func (s *MemoryStore) SaveChampion(_ context.Context, runID string, champion model.ChampionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.champions[runID] = champion
	return nil
}

func (s *MemoryStore) GetChampion(_ context.Context, runID string) (model.ChampionRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	champion, ok := s.champions[runID]
	return champion, ok, nil
}

func (s *MemoryStore) SaveHallOfFame(_ context.Context, runID string, pool []model.ChampionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hallOfFame[runID] = append([]model.ChampionRecord(nil), pool...)
	return nil
}

func (s *MemoryStore) GetHallOfFame(_ context.Context, runID string) ([]model.ChampionRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pool, ok := s.hallOfFame[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]model.ChampionRecord(nil), pool...), true, nil
}

func (s *MemoryStore) SaveFitnessHistory(_ context.Context, runID string, history []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[runID] = append([]float64(nil), history...)
	return nil
}

func (s *MemoryStore) GetFitnessHistory(_ context.Context, runID string) ([]float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.history[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]float64(nil), history...), true, nil
}

func (s *MemoryStore) SaveGenerationDiagnostics(_ context.Context, runID string, diagnostics []model.GenerationDiagnostics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.diagnostics[runID] = append([]model.GenerationDiagnostics(nil), diagnostics...)
	return nil
}

func (s *MemoryStore) GetGenerationDiagnostics(_ context.Context, runID string) ([]model.GenerationDiagnostics, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	diagnostics, ok := s.diagnostics[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]model.GenerationDiagnostics(nil), diagnostics...), true, nil
}

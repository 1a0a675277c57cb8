package evo

import (
	"fmt"
	"math/rand"

	"neuroflap/internal/model"
)

// Selector chooses a parent from ranked genomes for replication. The ranked
// slice is ordered by descending fitness and eliteCount bounds the parent
// pool.
type Selector interface {
	Name() string
	PickParent(rng *rand.Rand, ranked []ScoredGenome, eliteCount int) (model.NetworkParameters, error)
}

// RandomPairSelector picks uniformly from the top elite set.
type RandomPairSelector struct{}

func (RandomPairSelector) Name() string {
	return "random-pair"
}

func (RandomPairSelector) PickParent(rng *rand.Rand, ranked []ScoredGenome, eliteCount int) (model.NetworkParameters, error) {
	if rng == nil {
		return model.NetworkParameters{}, fmt.Errorf("random source is required")
	}
	if eliteCount <= 0 || eliteCount > len(ranked) {
		return model.NetworkParameters{}, fmt.Errorf("invalid elite count: %d", eliteCount)
	}
	return ranked[rng.Intn(eliteCount)].Net, nil
}

// TournamentSelector samples candidates from the elite pool and keeps the
// best fitness among them.
type TournamentSelector struct {
	TournamentSize int
}

func (TournamentSelector) Name() string {
	return "tournament"
}

func (s TournamentSelector) PickParent(rng *rand.Rand, ranked []ScoredGenome, eliteCount int) (model.NetworkParameters, error) {
	if rng == nil {
		return model.NetworkParameters{}, fmt.Errorf("random source is required")
	}
	if eliteCount <= 0 || eliteCount > len(ranked) {
		return model.NetworkParameters{}, fmt.Errorf("invalid elite count: %d", eliteCount)
	}

	tournamentSize := s.TournamentSize
	if tournamentSize <= 0 {
		tournamentSize = 5
	}
	if tournamentSize < 2 {
		tournamentSize = 2
	}

	best := ranked[rng.Intn(eliteCount)]
	for i := 1; i < tournamentSize; i++ {
		candidate := ranked[rng.Intn(eliteCount)]
		if candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	return best.Net, nil
}

// ResolveSelector maps a configured name to its strategy. The empty name
// defaults to tournament selection.
func ResolveSelector(name string, tournamentSize int) (Selector, error) {
	switch name {
	case "", "tournament":
		return TournamentSelector{TournamentSize: tournamentSize}, nil
	case "random-pair":
		return RandomPairSelector{}, nil
	default:
		return nil, fmt.Errorf("unsupported selector: %s", name)
	}
}

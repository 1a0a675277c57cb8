package evo

import (
	"sort"

	"github.com/google/uuid"

	"neuroflap/internal/model"
	"neuroflap/internal/nn"
)

// Archive keeps cross-generation memory: the best-ever champion and a
// bounded hall-of-fame pool of historically top-ranked networks. Entries are
// cloned on capture and never mutate with the live population.
type Archive struct {
	topK     int
	capacity int

	champion   *model.ChampionRecord
	hallOfFame []model.ChampionRecord
}

func NewArchive(topK, capacity int) *Archive {
	if topK <= 0 {
		topK = 20
	}
	if capacity <= 0 {
		capacity = 10
	}
	return &Archive{topK: topK, capacity: capacity}
}

// Champion returns the best-ever record, if one has been captured.
func (a *Archive) Champion() (model.ChampionRecord, bool) {
	if a.champion == nil {
		return model.ChampionRecord{}, false
	}
	return cloneRecord(*a.champion), true
}

// HallOfFame returns cloned copies of the retained pool, best first.
func (a *Archive) HallOfFame() []model.ChampionRecord {
	out := make([]model.ChampionRecord, 0, len(a.hallOfFame))
	for _, record := range a.hallOfFame {
		out = append(out, cloneRecord(record))
	}
	return out
}

// ObserveChampion replaces the recorded champion when the top of the ranked
// generation beats it. The recorded fitness is monotonically non-decreasing
// for the life of the process.
func (a *Archive) ObserveChampion(ranked []ScoredGenome, generation int) {
	if len(ranked) == 0 {
		return
	}
	top := ranked[0]
	if a.champion != nil && top.Fitness <= a.champion.Fitness {
		return
	}
	record := newRecord(top, generation)
	a.champion = &record
}

// CaptureHallOfFame appends clones of the generation's top performers,
// re-ranks the pool, and truncates it to capacity. The all-time champion is
// reinserted if truncation dropped it.
func (a *Archive) CaptureHallOfFame(ranked []ScoredGenome, generation int) {
	take := a.topK
	if take > len(ranked) {
		take = len(ranked)
	}
	for _, scored := range ranked[:take] {
		a.hallOfFame = append(a.hallOfFame, newRecord(scored, generation))
	}

	sort.SliceStable(a.hallOfFame, func(i, j int) bool {
		return a.hallOfFame[i].Fitness > a.hallOfFame[j].Fitness
	})
	if len(a.hallOfFame) > a.capacity {
		a.hallOfFame = a.hallOfFame[:a.capacity]
	}

	if a.champion == nil {
		return
	}
	for _, record := range a.hallOfFame {
		if record.Fitness >= a.champion.Fitness {
			return
		}
	}
	champion := cloneRecord(*a.champion)
	if len(a.hallOfFame) < a.capacity {
		a.hallOfFame = append(a.hallOfFame, champion)
	} else {
		a.hallOfFame[len(a.hallOfFame)-1] = champion
	}
	sort.SliceStable(a.hallOfFame, func(i, j int) bool {
		return a.hallOfFame[i].Fitness > a.hallOfFame[j].Fitness
	})
}

func newRecord(scored ScoredGenome, generation int) model.ChampionRecord {
	return model.ChampionRecord{
		VersionedRecord: model.Stamp(),
		ID:              uuid.NewString(),
		Network:         nn.Clone(scored.Net),
		Score:           scored.Score,
		Fitness:         scored.Fitness,
		Generation:      generation,
	}
}

func cloneRecord(record model.ChampionRecord) model.ChampionRecord {
	out := record
	out.Network = nn.Clone(record.Network)
	return out
}

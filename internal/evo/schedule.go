package evo

import "fmt"

// MutationSchedule yields the mutation rate and step for the coming
// generation, given the best score of the one that just finished.
type MutationSchedule interface {
	Name() string
	RateStep(bestScore int) (rate, step float64)
}

// FixedSchedule always returns the configured rate and step.
type FixedSchedule struct {
	Rate float64
	Step float64
}

func (FixedSchedule) Name() string {
	return "fixed"
}

func (s FixedSchedule) RateStep(_ int) (float64, float64) {
	return s.Rate, s.Step
}

// AnnealedSchedule stages mutation pressure down as the population improves:
// wide exploration while the best score is low, progressively finer steps as
// it crosses the stage thresholds, never dropping below the floors.
type AnnealedSchedule struct {
	MinRate float64
	MinStep float64
}

const (
	annealMidScore  = 5
	annealLateScore = 12
)

func (AnnealedSchedule) Name() string {
	return "annealed"
}

func (s AnnealedSchedule) RateStep(bestScore int) (float64, float64) {
	var rate, step float64
	switch {
	case bestScore < annealMidScore:
		rate, step = 0.30, 0.50
	case bestScore < annealLateScore:
		rate, step = 0.15, 0.25
	default:
		rate, step = 0.05, 0.10
	}
	if rate < s.MinRate {
		rate = s.MinRate
	}
	if step < s.MinStep {
		step = s.MinStep
	}
	return rate, step
}

// ResolveSchedule maps a configured name to its schedule. The empty name
// defaults to the annealed schedule.
func ResolveSchedule(name string, rate, step, minRate, minStep float64) (MutationSchedule, error) {
	switch name {
	case "", "annealed":
		return AnnealedSchedule{MinRate: minRate, MinStep: minStep}, nil
	case "fixed":
		return FixedSchedule{Rate: rate, Step: step}, nil
	default:
		return nil, fmt.Errorf("unsupported mutation schedule: %s", name)
	}
}

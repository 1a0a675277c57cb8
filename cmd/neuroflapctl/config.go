package main

import (
	"encoding/json"
	"fmt"
	"os"

	"neuroflap/internal/scape"
	flapapi "neuroflap/pkg/neuroflap"
)

func loadRunRequestFromConfig(path string) (flapapi.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return flapapi.RunRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return flapapi.RunRequest{}, err
	}

	var req flapapi.RunRequest
	if v, ok := asInt(raw["population"]); ok {
		req.Population = v
	}
	if v, ok := asInt(raw["generations"]); ok {
		req.Generations = v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		req.Seed = v
	}
	if v, ok := asString(raw["selection"]); ok {
		req.Selection = v
	}
	if v, ok := asInt(raw["tournament_size"]); ok {
		req.TournamentSize = v
	}
	if v, ok := asString(raw["crossover"]); ok {
		req.Crossover = v
	}
	if v, ok := asString(raw["mutation_schedule"]); ok {
		req.MutationSchedule = v
	}
	if v, ok := asFloat64(raw["mutation_rate"]); ok {
		req.MutationRate = v
	}
	if v, ok := asFloat64(raw["mutation_step"]); ok {
		req.MutationStep = v
	}
	if v, ok := asFloat64(raw["min_mutation_rate"]); ok {
		req.MinMutationRate = v
	}
	if v, ok := asFloat64(raw["min_mutation_step"]); ok {
		req.MinMutationStep = v
	}
	if v, ok := asString(raw["hidden_activation"]); ok {
		req.HiddenActivation = v
	}
	if v, ok := asBool(raw["stochastic"]); ok {
		req.Stochastic = v
	}
	if v, ok := asFloat64(raw["flap_threshold"]); ok {
		req.FlapThreshold = v
	}

	if worldMap, ok := raw["world"].(map[string]any); ok {
		req.World = worldFromConfig(worldMap)
	}

	return req, nil
}

func worldFromConfig(raw map[string]any) scape.PipeWorldConfig {
	var world scape.PipeWorldConfig
	if v, ok := asFloat64(raw["world_height"]); ok {
		world.WorldHeight = v
	}
	if v, ok := asFloat64(raw["gravity"]); ok {
		world.Gravity = v
	}
	if v, ok := asFloat64(raw["flap_impulse"]); ok {
		world.FlapImpulse = v
	}
	if v, ok := asFloat64(raw["scroll_speed"]); ok {
		world.ScrollSpeed = v
	}
	if v, ok := asFloat64(raw["pipe_spacing"]); ok {
		world.PipeSpacing = v
	}
	if v, ok := asFloat64(raw["pipe_gap"]); ok {
		world.PipeGap = v
	}
	if v, ok := asFloat64(raw["pipe_width"]); ok {
		world.PipeWidth = v
	}
	if v, ok := asFloat64(raw["bird_x"]); ok {
		world.BirdX = v
	}
	if v, ok := asFloat64(raw["tick_rate"]); ok {
		world.TickRate = v
	}
	if v, ok := asInt(raw["max_ticks"]); ok {
		world.MaxTicks = v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		world.Seed = v
	}
	return world
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

func overrideFromFlags(req *flapapi.RunRequest, set map[string]bool, flagValue map[string]any) {
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "pop":
			req.Population = v.(int)
		case "gens":
			req.Generations = v.(int)
		case "seed":
			req.Seed = v.(int64)
		case "selection":
			req.Selection = v.(string)
		case "tournament-size":
			req.TournamentSize = v.(int)
		case "crossover":
			req.Crossover = v.(string)
		case "mutation-schedule":
			req.MutationSchedule = v.(string)
		case "mutation-rate":
			req.MutationRate = v.(float64)
		case "mutation-step":
			req.MutationStep = v.(float64)
		case "min-mutation-rate":
			req.MinMutationRate = v.(float64)
		case "min-mutation-step":
			req.MinMutationStep = v.(float64)
		case "activation":
			req.HiddenActivation = v.(string)
		case "stochastic":
			req.Stochastic = v.(bool)
		case "threshold":
			req.FlapThreshold = v.(float64)
		case "max-ticks":
			req.World.MaxTicks = v.(int)
		}
	}
}

func loadOrDefaultRunRequest(configPath string) (flapapi.RunRequest, error) {
	if configPath == "" {
		return flapapi.RunRequest{}, nil
	}
	req, err := loadRunRequestFromConfig(configPath)
	if err != nil {
		return flapapi.RunRequest{}, fmt.Errorf("load config: %w", err)
	}
	return req, nil
}

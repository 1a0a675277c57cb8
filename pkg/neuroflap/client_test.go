package neuroflap

import (
	"context"
	"testing"

	"neuroflap/internal/scape"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(Options{StoreKind: "memory"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Fatalf("close client: %v", err)
		}
	})
	return client
}

func smallRunRequest() RunRequest {
	return RunRequest{
		Population:  6,
		Generations: 3,
		Seed:        11,
		World: scape.PipeWorldConfig{
			MaxTicks: 400,
			Seed:     11,
		},
	}
}

func TestRunExperimentPersistsArtifacts(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	summary, err := client.RunExperiment(ctx, smallRunRequest())
	if err != nil {
		t.Fatalf("run experiment: %v", err)
	}
	if summary.RunID == "" {
		t.Fatal("missing run id")
	}
	if len(summary.BestByGeneration) != 3 {
		t.Fatalf("fitness history length: got=%d want=3", len(summary.BestByGeneration))
	}

	runs, err := client.Runs(ctx, RunsRequest{})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != summary.RunID {
		t.Fatalf("unexpected run list: %+v", runs)
	}
	if runs[0].Population != 6 || runs[0].Generations != 3 {
		t.Fatalf("run record mismatch: %+v", runs[0])
	}

	history, err := client.FitnessHistory(ctx, FitnessHistoryRequest{RunID: summary.RunID})
	if err != nil {
		t.Fatalf("fitness history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("persisted history length: got=%d want=3", len(history))
	}

	diagnostics, err := client.Diagnostics(ctx, DiagnosticsRequest{Latest: true})
	if err != nil {
		t.Fatalf("diagnostics: %v", err)
	}
	if len(diagnostics) != 3 {
		t.Fatalf("diagnostics length: got=%d want=3", len(diagnostics))
	}
	for i, diag := range diagnostics {
		if diag.Generation != i+1 {
			t.Fatalf("diagnostics %d has generation %d", i, diag.Generation)
		}
		if diag.MutationRate <= 0 || diag.MutationStep <= 0 {
			t.Fatalf("diagnostics %d missing mutation settings: %+v", i, diag)
		}
	}

	champion, err := client.Champion(ctx, ChampionRequest{Latest: true})
	if err != nil {
		t.Fatalf("champion: %v", err)
	}
	if champion.ID == "" || champion.Network.ID == "" {
		t.Fatalf("champion record incomplete: %+v", champion)
	}
	if champion.Fitness < summary.BestByGeneration[0] {
		t.Fatalf("champion fitness %f below first-generation best %f", champion.Fitness, summary.BestByGeneration[0])
	}

	pool, err := client.HallOfFame(ctx, ChampionRequest{RunID: summary.RunID})
	if err != nil {
		t.Fatalf("hall of fame: %v", err)
	}
	if len(pool) == 0 {
		t.Fatal("empty hall of fame")
	}
	for i := 1; i < len(pool); i++ {
		if pool[i].Fitness > pool[i-1].Fitness {
			t.Fatalf("hall of fame not sorted: %f before %f", pool[i-1].Fitness, pool[i].Fitness)
		}
	}
}

func TestRunExperimentDeterministicForSeed(t *testing.T) {
	ctx := context.Background()

	run := func() RunSummary {
		client := newTestClient(t)
		summary, err := client.RunExperiment(ctx, smallRunRequest())
		if err != nil {
			t.Fatalf("run experiment: %v", err)
		}
		return summary
	}

	a := run()
	b := run()
	if len(a.BestByGeneration) != len(b.BestByGeneration) {
		t.Fatalf("history lengths diverged: %d vs %d", len(a.BestByGeneration), len(b.BestByGeneration))
	}
	for i := range a.BestByGeneration {
		if a.BestByGeneration[i] != b.BestByGeneration[i] {
			t.Fatalf("generation %d diverged: %f vs %f", i, a.BestByGeneration[i], b.BestByGeneration[i])
		}
	}
}

func TestClientQueriesRequireRunSelector(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if _, err := client.FitnessHistory(ctx, FitnessHistoryRequest{}); err == nil {
		t.Fatal("expected error without run id or latest")
	}
	if _, err := client.Diagnostics(ctx, DiagnosticsRequest{RunID: "x", Latest: true}); err == nil {
		t.Fatal("expected error for run id combined with latest")
	}
	if _, err := client.Champion(ctx, ChampionRequest{Latest: true}); err == nil {
		t.Fatal("expected error when no runs exist")
	}
	if _, err := client.FitnessHistory(ctx, FitnessHistoryRequest{RunID: "missing"}); err == nil {
		t.Fatal("expected error for unknown run id")
	}
}

func TestRunExperimentHonorsContextCancellation(t *testing.T) {
	client := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.RunExperiment(ctx, smallRunRequest()); err == nil {
		t.Fatal("expected context error")
	}
}

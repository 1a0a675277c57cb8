package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"neuroflap/internal/scape"
	"neuroflap/internal/storage"
	flapapi "neuroflap/pkg/neuroflap"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "fitness":
		return runFitness(ctx, args[1:])
	case "diagnostics":
		return runDiagnostics(ctx, args[1:])
	case "champion":
		return runChampion(ctx, args[1:])
	case "hof":
		return runHallOfFame(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(message string) error {
	return fmt.Errorf("%s\nusage: neuroflapctl <init|reset|run|runs|fitness|diagnostics|champion|hof> [flags]", message)
}

func newClient(storeKind, dbPath string) (*flapapi.Client, error) {
	return flapapi.New(flapapi.Options{StoreKind: storeKind, DBPath: dbPath})
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "neuroflap.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "neuroflap.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Memory stores hold nothing between processes; sqlite resets by
	// dropping the database file and re-initializing the schema.
	if *storeKind == "sqlite" {
		if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("reset store=%s\n", *storeKind)
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config JSON path")
	population := fs.Int("pop", 50, "population size")
	generations := fs.Int("gens", 100, "generation count")
	seed := fs.Int64("seed", 1, "rng seed")
	selection := fs.String("selection", "tournament", "parent selection strategy: tournament|random-pair")
	tournamentSize := fs.Int("tournament-size", 5, "tournament pool size")
	crossover := fs.String("crossover", "uniform", "crossover strategy: uniform|average")
	schedule := fs.String("mutation-schedule", "annealed", "mutation schedule: annealed|fixed")
	mutationRate := fs.Float64("mutation-rate", 0.3, "per-weight mutation probability")
	mutationStep := fs.Float64("mutation-step", 0.5, "mutation perturbation magnitude")
	minMutationRate := fs.Float64("min-mutation-rate", 0.0, "annealed schedule rate floor")
	minMutationStep := fs.Float64("min-mutation-step", 0.0, "annealed schedule step floor")
	activation := fs.String("activation", "sigmoid", "hidden layer activation")
	stochastic := fs.Bool("stochastic", false, "sample flap decisions instead of thresholding")
	threshold := fs.Float64("threshold", 0.5, "deterministic flap threshold")
	maxTicks := fs.Int("max-ticks", 0, "episode tick cap (0 uses default)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "neuroflap.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	req, err := loadOrDefaultRunRequest(*configPath)
	if err != nil {
		return err
	}
	if *configPath == "" {
		req = flapapi.RunRequest{
			Population:       *population,
			Generations:      *generations,
			Seed:             *seed,
			Selection:        *selection,
			TournamentSize:   *tournamentSize,
			Crossover:        *crossover,
			MutationSchedule: *schedule,
			MutationRate:     *mutationRate,
			MutationStep:     *mutationStep,
			MinMutationRate:  *minMutationRate,
			MinMutationStep:  *minMutationStep,
			HiddenActivation: *activation,
			Stochastic:       *stochastic,
			FlapThreshold:    *threshold,
			World:            scape.PipeWorldConfig{MaxTicks: *maxTicks},
		}
	} else {
		overrideFromFlags(&req, setFlags, map[string]any{
			"pop":               *population,
			"gens":              *generations,
			"seed":              *seed,
			"selection":         *selection,
			"tournament-size":   *tournamentSize,
			"crossover":         *crossover,
			"mutation-schedule": *schedule,
			"mutation-rate":     *mutationRate,
			"mutation-step":     *mutationStep,
			"min-mutation-rate": *minMutationRate,
			"min-mutation-step": *minMutationStep,
			"activation":        *activation,
			"stochastic":        *stochastic,
			"threshold":         *threshold,
			"max-ticks":         *maxTicks,
		})
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.RunExperiment(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("run completed run_id=%s pop=%d gens=%d seed=%d\n", summary.RunID, req.Population, req.Generations, req.Seed)
	for i, best := range summary.BestByGeneration {
		fmt.Printf("generation=%d best_fitness=%.6f\n", i+1, best)
	}
	fmt.Printf("best_score=%d best_fitness=%.6f\n", summary.BestScore, summary.BestFitness)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "neuroflap.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx, flapapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	for _, r := range runs {
		fmt.Printf("run_id=%s created_at=%s seed=%d pop=%d gens=%d best_score=%d best_fitness=%.6f\n",
			r.ID,
			r.CreatedAtUTC,
			r.Seed,
			r.Population,
			r.Generations,
			r.BestScore,
			r.BestFitness,
		)
	}
	return nil
}

func runFitness(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fitness", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show fitness history for the most recent run")
	limit := fs.Int("limit", 50, "max generations to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit fitness history as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "neuroflap.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("fitness requires --run-id or --latest")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.FitnessHistory(ctx, flapapi.FitnessHistoryRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Println("no fitness history")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(history)
	}

	for i, best := range history {
		fmt.Printf("generation=%d best_fitness=%.6f\n", i+1, best)
	}
	return nil
}

func runDiagnostics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diagnostics", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show diagnostics for the most recent run")
	limit := fs.Int("limit", 50, "max generations to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit diagnostics as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "neuroflap.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("diagnostics requires --run-id or --latest")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	diagnostics, err := client.Diagnostics(ctx, flapapi.DiagnosticsRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if len(diagnostics) == 0 {
		fmt.Println("no diagnostics")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(diagnostics)
	}

	for _, d := range diagnostics {
		fmt.Printf("generation=%d best_score=%d best=%.6f mean=%.6f min=%.6f champion_score=%d mutation_rate=%.4f mutation_step=%.4f\n",
			d.Generation,
			d.BestScore,
			d.BestFitness,
			d.MeanFitness,
			d.MinFitness,
			d.ChampionScore,
			d.MutationRate,
			d.MutationStep,
		)
	}
	return nil
}

func runChampion(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("champion", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show champion for the most recent run")
	jsonOut := fs.Bool("json", false, "emit champion as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "neuroflap.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("champion requires --run-id or --latest")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	champion, err := client.Champion(ctx, flapapi.ChampionRequest{RunID: *runID, Latest: *latest})
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(champion)
	}

	fmt.Printf("champion_id=%s network_id=%s generation=%d score=%d fitness=%.6f\n",
		champion.ID,
		champion.Network.ID,
		champion.Generation,
		champion.Score,
		champion.Fitness,
	)
	return nil
}

func runHallOfFame(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("hof", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show hall of fame for the most recent run")
	jsonOut := fs.Bool("json", false, "emit hall of fame as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "neuroflap.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("hof requires --run-id or --latest")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	pool, err := client.HallOfFame(ctx, flapapi.ChampionRequest{RunID: *runID, Latest: *latest})
	if err != nil {
		return err
	}
	if len(pool) == 0 {
		fmt.Println("no hall of fame records")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pool)
	}

	for i, record := range pool {
		fmt.Printf("rank=%d record_id=%s generation=%d score=%d fitness=%.6f\n",
			i+1,
			record.ID,
			record.Generation,
			record.Score,
			record.Fitness,
		)
	}
	return nil
}

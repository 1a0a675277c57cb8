package storage

import (
	"errors"
	"testing"

	"neuroflap/internal/evo"
	"neuroflap/internal/model"
	"neuroflap/internal/nn"
)

func championFixture() model.ChampionRecord {
	net := nn.ZeroNetwork()
	net.VersionedRecord = Stamp()
	net.OutputBias = 1.25
	return model.ChampionRecord{
		VersionedRecord: Stamp(),
		ID:              "champ-1",
		Network:         net,
		Score:           7,
		Fitness:         7042.5,
		Generation:      12,
	}
}

func TestChampionRoundTrip(t *testing.T) {
	original := championFixture()

	data, err := EncodeChampion(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeChampion(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if decoded.ID != original.ID || decoded.Score != original.Score || decoded.Fitness != original.Fitness {
		t.Fatalf("champion mismatch: got=%+v", decoded)
	}
	if decoded.Network.OutputBias != 1.25 {
		t.Fatalf("network payload mismatch: got=%f", decoded.Network.OutputBias)
	}
}

func TestDecodeChampionVersionMismatch(t *testing.T) {
	record := championFixture()
	record.SchemaVersion = 99

	data, err := EncodeChampion(record)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	_, err = DecodeChampion(data)
	if !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestRunRoundTrip(t *testing.T) {
	original := model.RunRecord{
		VersionedRecord: Stamp(),
		ID:              "run-1",
		CreatedAtUTC:    "2026-08-23T00:00:00Z",
		Seed:            42,
		Population:      30,
		Generations:     100,
		BestScore:       19,
		BestFitness:     19350,
	}

	data, err := EncodeRun(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != original {
		t.Fatalf("run mismatch: got=%+v want=%+v", decoded, original)
	}
}

func TestHallOfFameRoundTrip(t *testing.T) {
	pool := []model.ChampionRecord{championFixture(), championFixture()}
	pool[1].ID = "champ-2"
	pool[1].Fitness = 5000

	data, err := EncodeHallOfFame(pool)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeHallOfFame(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 2 || decoded[1].ID != "champ-2" || decoded[1].Fitness != 5000 {
		t.Fatalf("pool mismatch: got=%+v", decoded)
	}
}

func TestGenerationDiagnosticsRoundTrip(t *testing.T) {
	diagnostics := []model.GenerationDiagnostics{
		{VersionedRecord: Stamp(), Generation: 1, BestScore: 3, BestFitness: 3010, MutationRate: 0.3, MutationStep: 0.5},
		{VersionedRecord: Stamp(), Generation: 2, BestScore: 6, BestFitness: 6120, MutationRate: 0.15, MutationStep: 0.25},
	}

	data, err := EncodeGenerationDiagnostics(diagnostics)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeGenerationDiagnostics(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 2 || decoded[1].BestScore != 6 {
		t.Fatalf("diagnostics mismatch: got=%+v", decoded)
	}
}

// Records built by the engine itself must survive the codec without any
// caller-side stamping.
func TestEngineRecordsRoundTrip(t *testing.T) {
	engine, err := evo.NewEngine(evo.Config{
		PopulationSize: 4,
		Champion:       true,
		HallOfFame:     true,
		Seed:           17,
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	engine.AddScore(0)
	for i := 0; i < 4; i++ {
		engine.Kill(i)
	}
	diag, err := engine.Evolve()
	if err != nil {
		t.Fatalf("evolve: %v", err)
	}

	champion, ok := engine.Champion()
	if !ok {
		t.Fatal("expected a champion after one generation")
	}
	championData, err := EncodeChampion(champion)
	if err != nil {
		t.Fatalf("encode champion: %v", err)
	}
	decodedChampion, err := DecodeChampion(championData)
	if err != nil {
		t.Fatalf("decode engine champion: %v", err)
	}
	if decodedChampion.ID != champion.ID || decodedChampion.Fitness != champion.Fitness {
		t.Fatalf("champion mismatch: got=%+v want=%+v", decodedChampion, champion)
	}

	poolData, err := EncodeHallOfFame(engine.HallOfFame())
	if err != nil {
		t.Fatalf("encode hall of fame: %v", err)
	}
	decodedPool, err := DecodeHallOfFame(poolData)
	if err != nil {
		t.Fatalf("decode engine hall of fame: %v", err)
	}
	if len(decodedPool) == 0 {
		t.Fatal("empty hall of fame")
	}

	diagData, err := EncodeGenerationDiagnostics([]model.GenerationDiagnostics{diag})
	if err != nil {
		t.Fatalf("encode diagnostics: %v", err)
	}
	decodedDiag, err := DecodeGenerationDiagnostics(diagData)
	if err != nil {
		t.Fatalf("decode engine diagnostics: %v", err)
	}
	if len(decodedDiag) != 1 || decodedDiag[0].Generation != diag.Generation {
		t.Fatalf("diagnostics mismatch: got=%+v want=%+v", decodedDiag, diag)
	}
}

func TestFitnessHistoryRoundTrip(t *testing.T) {
	history := []float64{10, 1050, 3010}

	data, err := EncodeFitnessHistory(history)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeFitnessHistory(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 3 || decoded[2] != 3010 {
		t.Fatalf("history mismatch: got=%v", decoded)
	}
}

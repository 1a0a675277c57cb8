package model

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Stamp fills in the current schema and codec versions. Every record built
// for persistence carries this at creation time.
func Stamp() VersionedRecord {
	return VersionedRecord{
		SchemaVersion: CurrentSchemaVersion,
		CodecVersion:  CurrentCodecVersion,
	}
}

// NetworkParameters is the full parameter set of one fixed-topology policy
// network: 4 inputs, 8 hidden units, 1 output. Dimensions never change for
// the lifetime of the process.
type NetworkParameters struct {
	VersionedRecord
	ID               string      `json:"id"`
	InputWeights     [][]float64 `json:"input_weights"`
	OutputWeights    []float64   `json:"output_weights"`
	HiddenBias       []float64   `json:"hidden_bias"`
	OutputBias       float64     `json:"output_bias"`
	HiddenActivation string      `json:"hidden_activation"`
}

// ChampionRecord is a snapshot of a network at the moment it was captured,
// together with the fitness signals that ranked it.
type ChampionRecord struct {
	VersionedRecord
	ID         string            `json:"id"`
	Network    NetworkParameters `json:"network"`
	Score      int               `json:"score"`
	Fitness    float64           `json:"fitness"`
	Generation int               `json:"generation"`
}

type RunRecord struct {
	VersionedRecord
	ID           string  `json:"id"`
	CreatedAtUTC string  `json:"created_at_utc"`
	Seed         int64   `json:"seed"`
	Population   int     `json:"population"`
	Generations  int     `json:"generations"`
	BestScore    int     `json:"best_score"`
	BestFitness  float64 `json:"best_fitness"`
}

type GenerationDiagnostics struct {
	VersionedRecord
	Generation    int     `json:"generation"`
	BestScore     int     `json:"best_score"`
	BestFitness   float64 `json:"best_fitness"`
	MeanFitness   float64 `json:"mean_fitness"`
	MinFitness    float64 `json:"min_fitness"`
	ChampionScore int     `json:"champion_score"`
	MutationRate  float64 `json:"mutation_rate"`
	MutationStep  float64 `json:"mutation_step"`
}

package contracts

// Pipeline Stage definitions (SSOT)
// Every log line, manifest entry and DB row uses these constants.
//
// Pipeline flow:
//   S0 → S1 → S2 → S3 → S4 → S5
//   Ingest  Join  Scoring  Tiering  Export  Report

// Stage represents a pipeline stage
type Stage string

const (
	// StageIngest S0: read the three source datasets
	// Responsibility: named schema resolution, parse validation
	// Location: internal/ingest/
	StageIngest Stage = "S0_INGEST"

	// StageJoin S1: sales ⟕ postcode lookup ⟕ deprivation
	// Responsibility: postcode normalization, left joins, neutral decile
	// Location: internal/join/
	StageJoin Stage = "S1_JOIN"

	// StageScoring S2: four sub-scores and the composite score
	// Location: internal/scoring/
	StageScoring Stage = "S2_SCORING"

	// StageTiering S3: composite score quantiles → A..G
	// Location: internal/tiering/
	StageTiering Stage = "S3_TIERING"

	// StageExport S4: write the classified table to every sink
	// Location: internal/export/
	StageExport Stage = "S4_EXPORT"

	// StageReport S5: tier summary statistics
	// Location: internal/report/
	StageReport Stage = "S5_REPORT"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "S0", "S1")
func (s Stage) ShortName() string {
	switch s {
	case StageIngest:
		return "S0"
	case StageJoin:
		return "S1"
	case StageScoring:
		return "S2"
	case StageTiering:
		return "S3"
	case StageExport:
		return "S4"
	case StageReport:
		return "S5"
	default:
		return "UNKNOWN"
	}
}

// Description returns a short description of the stage
func (s Stage) Description() string {
	switch s {
	case StageIngest:
		return "Read source datasets"
	case StageJoin:
		return "Join postcode and deprivation data"
	case StageScoring:
		return "Compute sub-scores and composite score"
	case StageTiering:
		return "Assign A-G tiers"
	case StageExport:
		return "Write classified dataset"
	case StageReport:
		return "Summarise tiers"
	default:
		return "Unknown"
	}
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StageIngest,
		StageJoin,
		StageScoring,
		StageTiering,
		StageExport,
		StageReport,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}

// PipelineResult represents the result of a pipeline stage execution
type PipelineResult struct {
	Stage       Stage                  `json:"stage"`
	Success     bool                   `json:"success"`
	InputCount  int                    `json:"input_count"`
	OutputCount int                    `json:"output_count"`
	Duration    int64                  `json:"duration_ms"`
	Error       string                 `json:"error,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

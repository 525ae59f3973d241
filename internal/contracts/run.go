package contracts

import "time"

// RunManifest records what a pipeline run consumed and produced
// Written next to the file outputs so a run can be reproduced.
type RunManifest struct {
	RunID       string           `json:"run_id"`
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  time.Time        `json:"finished_at,omitempty"`
	ModelHash   string           `json:"model_hash"`
	Inputs      []InputFile      `json:"inputs"`
	Outputs     []string         `json:"outputs"`
	Join        *JoinDiagnostics `json:"join,omitempty"`
	TierCounts  map[Tier]int     `json:"tier_counts,omitempty"`
	RecordCount int              `json:"record_count"`
	Stages      []PipelineResult `json:"stages"`
}

// InputFile identifies one input by path and content hash
type InputFile struct {
	Role   string `json:"role"` // postcodes, deprivation, sales
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	Rows   int    `json:"rows"`
}

// Input returns the input with the given role
func (m *RunManifest) Input(role string) (InputFile, bool) {
	for _, in := range m.Inputs {
		if in.Role == role {
			return in, true
		}
	}
	return InputFile{}, false
}

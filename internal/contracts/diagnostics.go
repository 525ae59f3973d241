package contracts

// JoinDiagnostics records the non-fatal conditions met in S1
// ⭐ SSOT: S1 → CLI/manifest coverage report
type JoinDiagnostics struct {
	InputCount  int `json:"input_count"`
	OutputCount int `json:"output_count"`

	// MissingJoinKey: sales with no area code
	MissingArea int `json:"missing_area"`
	// MissingDeprivationMatch: sales whose decile was defaulted
	MissingDeprivation int `json:"missing_deprivation"`

	// Lookup hygiene
	DuplicateLinks       int `json:"duplicate_links"`
	ConflictingPostcodes int `json:"conflicting_postcodes"`
	DuplicateDeprivation int `json:"duplicate_deprivation"`
	LinkCount            int `json:"link_count"`
	DeprivationCount     int `json:"deprivation_count"`
}

// MissingAreaRate returns the fraction of sales with no area code
func (d *JoinDiagnostics) MissingAreaRate() float64 {
	return rate(d.MissingArea, d.OutputCount)
}

// MissingDeprivationRate returns the fraction of sales with a defaulted decile
func (d *JoinDiagnostics) MissingDeprivationRate() float64 {
	return rate(d.MissingDeprivation, d.OutputCount)
}

// LeftPreserving reports whether the join kept every input sale exactly once
func (d *JoinDiagnostics) LeftPreserving() bool {
	return d.InputCount == d.OutputCount
}

func rate(n, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(n) / float64(total)
}

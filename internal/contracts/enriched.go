package contracts

// EnrichedRecord is the output unit: one per input sale
// ⭐ SSOT: created in S1, completed by S2/S3, written by S4
type EnrichedRecord struct {
	SaleRecord

	// S1: join results. Flags separate "missing" from "neutral".
	PostcodeKey        string `json:"postcode_key"`
	AreaCode           string `json:"area_code,omitempty"`
	AreaMatched        bool   `json:"area_matched"`
	DeprivationRank    int    `json:"deprivation_rank,omitempty"` // 0 when unmatched
	DeprivationDecile  int    `json:"deprivation_decile"`
	DeprivationMatched bool   `json:"deprivation_matched"`
	DecileImputed      bool   `json:"decile_imputed"` // decile is NeutralDecile by substitution

	// S2
	Scores         ScoreDetail `json:"scores"`
	CompositeScore int         `json:"composite_score"`

	// S3
	Tier Tier `json:"tier"`
}

// ScoreDetail contains the breakdown of the composite score
type ScoreDetail struct {
	Location     int `json:"location"`
	PropertyType int `json:"property_type"`
	Valuation    int `json:"valuation"`
	Volatility   int `json:"volatility"`
}

// Total returns the sum of the sub-scores
func (s ScoreDetail) Total() int {
	return s.Location + s.PropertyType + s.Valuation + s.Volatility
}

// NewEnrichedRecord starts an enriched record from a sale
func NewEnrichedRecord(sale SaleRecord) EnrichedRecord {
	return EnrichedRecord{SaleRecord: sale}
}

// ApplyNeutralDecile substitutes the neutral decile when no deprivation match exists
// Must only be called after both joins have completed.
func (r *EnrichedRecord) ApplyNeutralDecile() {
	if r.DeprivationMatched {
		return
	}
	r.DeprivationRank = 0
	r.DeprivationDecile = NeutralDecile
	r.DecileImputed = true
}

package contracts

import "context"

// Ingester reads the three source datasets (S0)
// ⭐ SSOT: S0 input interface
type Ingester interface {
	AreaLinks(ctx context.Context) ([]AreaLink, error)
	Deprivation(ctx context.Context) ([]DeprivationRecord, error)
	Sales(ctx context.Context) ([]SaleRecord, error)
}

// Joiner builds one enriched record per sale (S1)
// ⭐ SSOT: S1 join interface
type Joiner interface {
	Join(ctx context.Context, sales []SaleRecord, links []AreaLink, deprivation []DeprivationRecord) ([]EnrichedRecord, *JoinDiagnostics, error)
}

// Scorer fills sub-scores and the composite score for the whole table (S2)
// ⭐ SSOT: S2 scoring interface
type Scorer interface {
	Score(ctx context.Context, records []EnrichedRecord) ([]EnrichedRecord, error)
}

// Classifier assigns tiers from the composite score distribution (S3)
// ⭐ SSOT: S3 tiering interface
type Classifier interface {
	Classify(ctx context.Context, records []EnrichedRecord) ([]EnrichedRecord, error)
}

// Exporter writes the terminal table to one sink (S4)
// ⭐ SSOT: S4 export interface
type Exporter interface {
	Name() string
	Export(ctx context.Context, manifest *RunManifest, records []EnrichedRecord) error
}

package join

import (
	"context"
	"fmt"

	"github.com/wonny/proptier/internal/contracts"
	"github.com/wonny/proptier/pkg/logger"
)

// Resolver performs the two left joins of S1
// ⭐ SSOT: contracts.Joiner implementation
type Resolver struct {
	logger *logger.Logger
}

var _ contracts.Joiner = (*Resolver)(nil)

// NewResolver creates a new join resolver
func NewResolver(log *logger.Logger) *Resolver {
	return &Resolver{
		logger: log.WithStage(string(contracts.StageJoin)),
	}
}

// Join builds both indexes and joins every sale
func (r *Resolver) Join(ctx context.Context, sales []contracts.SaleRecord, links []contracts.AreaLink, deprivation []contracts.DeprivationRecord) ([]contracts.EnrichedRecord, *contracts.JoinDiagnostics, error) {
	return r.JoinIndexed(ctx, sales, BuildAreaIndex(links), BuildDeprivationIndex(deprivation))
}

// JoinIndexed joins sales against prebuilt (possibly cached) indexes
// Output has exactly one record per sale, in input order.
func (r *Resolver) JoinIndexed(ctx context.Context, sales []contracts.SaleRecord, areas *AreaIndex, deprivation *DeprivationIndex) ([]contracts.EnrichedRecord, *contracts.JoinDiagnostics, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("join cancelled: %w", err)
	}

	diag := &contracts.JoinDiagnostics{
		InputCount:           len(sales),
		DuplicateLinks:       areas.DuplicateLinks,
		ConflictingPostcodes: areas.ConflictingPostcodes,
		DuplicateDeprivation: deprivation.Duplicates,
		LinkCount:            areas.Len(),
		DeprivationCount:     deprivation.Len(),
	}

	records := make([]contracts.EnrichedRecord, len(sales))

	// Pass 1: postcode -> area
	for i, sale := range sales {
		rec := contracts.NewEnrichedRecord(sale)
		rec.PostcodeKey = NormalizePostcode(sale.Postcode)
		if area, ok := areas.Lookup(rec.PostcodeKey); ok {
			rec.AreaCode = area
			rec.AreaMatched = true
		} else {
			diag.MissingArea++
		}
		records[i] = rec
	}

	// Pass 2: area -> deprivation
	for i := range records {
		rec := &records[i]
		if !rec.AreaMatched {
			continue
		}
		if dep, ok := deprivation.Lookup(rec.AreaCode); ok {
			rec.DeprivationRank = dep.Rank
			rec.DeprivationDecile = dep.Decile
			rec.DeprivationMatched = true
		}
	}

	// Neutral fallback only once both joins are complete
	for i := range records {
		if !records[i].DeprivationMatched {
			records[i].ApplyNeutralDecile()
			diag.MissingDeprivation++
		}
	}
	diag.OutputCount = len(records)

	r.report(diag)
	return records, diag, nil
}

func (r *Resolver) report(diag *contracts.JoinDiagnostics) {
	r.logger.WithFields(map[string]interface{}{
		"sales":              diag.InputCount,
		"records":            diag.OutputCount,
		"postcodes":          diag.LinkCount,
		"areas":              diag.DeprivationCount,
		"missing_area":       diag.MissingArea,
		"missing_area_pct":   fmt.Sprintf("%.2f", diag.MissingAreaRate()*100),
		"missing_decile":     diag.MissingDeprivation,
		"missing_decile_pct": fmt.Sprintf("%.2f", diag.MissingDeprivationRate()*100),
	}).Info("Join completed")

	if diag.ConflictingPostcodes > 0 {
		r.logger.WithField("conflicts", diag.ConflictingPostcodes).Warn("Postcodes mapped to more than one area, kept first")
	}
	if diag.DuplicateDeprivation > 0 {
		r.logger.WithField("duplicates", diag.DuplicateDeprivation).Warn("Duplicate deprivation rows, kept first")
	}
}

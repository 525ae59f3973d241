// Package scoring computes the four sub-scores and the composite score (S2).
package scoring

import (
	"context"
	"fmt"

	"github.com/wonny/proptier/internal/contracts"
	"github.com/wonny/proptier/internal/modelconfig"
	"github.com/wonny/proptier/internal/quantile"
	"github.com/wonny/proptier/pkg/logger"
)

// Engine scores the whole table against one model
// ⭐ SSOT: contracts.Scorer implementation
type Engine struct {
	model  *modelconfig.Config
	logger *logger.Logger
}

var _ contracts.Scorer = (*Engine)(nil)

// NewEngine creates a scoring engine
func NewEngine(model *modelconfig.Config, log *logger.Logger) *Engine {
	return &Engine{
		model:  model,
		logger: log.WithStage(string(contracts.StageScoring)),
	}
}

// Score fills Scores and CompositeScore on every record
// Valuation needs the whole price column, so a degenerate price
// distribution fails the entire table.
func (e *Engine) Score(ctx context.Context, records []contracts.EnrichedRecord) ([]contracts.EnrichedRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scoring cancelled: %w", err)
	}

	prices := make([]float64, len(records))
	for i := range records {
		prices[i] = records[i].Price
	}

	valuation, split, err := e.ValuationScores(prices)
	if err != nil {
		return nil, fmt.Errorf("valuation score: %w", err)
	}

	for i := range records {
		rec := &records[i]
		if rec.DecileImputed || !contracts.ValidDecile(rec.DeprivationDecile) {
			rec.DeprivationDecile = e.model.Location.NeutralDecile
			rec.DecileImputed = true
		}

		rec.Scores = contracts.ScoreDetail{
			Location:     e.LocationScore(rec.DeprivationDecile),
			PropertyType: e.model.PropertyTypeScore(rec.PropertyType),
			Valuation:    valuation[i],
			Volatility:   e.model.Volatility.Constant,
		}
		rec.CompositeScore = rec.Scores.Total()
	}

	e.logger.WithFields(map[string]interface{}{
		"records":     len(records),
		"price_edges": split.Edges,
		"band_sizes":  split.Sizes,
	}).Info("Scoring completed")

	return records, nil
}

// LocationScore = decile × multiplier
func (e *Engine) LocationScore(decile int) int {
	return decile * e.model.Location.Multiplier
}

// ValuationScores buckets prices into len(bands) equal-population groups
// Band scores ascend with price. Repeated edges are an error.
func (e *Engine) ValuationScores(prices []float64) ([]int, *quantile.Split, error) {
	bands := e.model.Valuation.Bands

	split, err := quantile.Cut("price", prices, len(bands), quantile.Raise)
	if err != nil {
		return nil, nil, err
	}

	scores := make([]int, len(prices))
	for i, b := range split.Buckets {
		scores[i] = bands[b]
	}
	return scores, split, nil
}

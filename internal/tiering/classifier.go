// Package tiering buckets composite scores into the seven ordinal tiers (S3).
package tiering

import (
	"context"
	"fmt"

	"github.com/wonny/proptier/internal/contracts"
	"github.com/wonny/proptier/internal/modelconfig"
	"github.com/wonny/proptier/internal/quantile"
	"github.com/wonny/proptier/pkg/logger"
)

// Classifier assigns tiers by composite score quantiles
// ⭐ SSOT: contracts.Classifier implementation
type Classifier struct {
	policy quantile.DuplicatePolicy
	logger *logger.Logger
}

var _ contracts.Classifier = (*Classifier)(nil)

// NewClassifier creates a tier classifier using the model's duplicate-edge policy
func NewClassifier(model *modelconfig.Config, log *logger.Logger) *Classifier {
	policy := quantile.Drop
	if model.Tiering.OnDuplicateEdges == modelconfig.DuplicateEdgesError {
		policy = quantile.Raise
	}
	return &Classifier{
		policy: policy,
		logger: log.WithStage(string(contracts.StageTiering)),
	}
}

// Classify sets Tier on every record
// Tiers keep the letter of their quantile position: when boundaries repeat
// the empty tiers are simply absent, G stays lowest and A stays highest.
func (c *Classifier) Classify(ctx context.Context, records []contracts.EnrichedRecord) ([]contracts.EnrichedRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("tiering cancelled: %w", err)
	}
	if len(records) == 0 {
		return records, nil
	}

	tiers := contracts.AllTiers()
	scores := make([]float64, len(records))
	for i := range records {
		scores[i] = float64(records[i].CompositeScore)
	}

	split, err := quantile.Cut("composite_score", scores, len(tiers), c.policy)
	if err != nil {
		return nil, fmt.Errorf("tier split: %w", err)
	}

	for i, b := range split.Buckets {
		records[i].Tier = tiers[b]
	}

	if empty := split.Empty(); empty > 0 {
		collapsed := make([]string, 0, empty)
		for b, size := range split.Sizes {
			if size == 0 {
				collapsed = append(collapsed, tiers[b].String())
			}
		}
		c.logger.WithFields(map[string]interface{}{
			"edges":     split.Edges,
			"collapsed": collapsed,
		}).Warn("Duplicate tier boundaries, empty tiers dropped")
	}

	c.logger.WithField("records", len(records)).Info("Tiering completed")
	return records, nil
}

// Counts returns the record count per tier, all seven letters present
func Counts(records []contracts.EnrichedRecord) map[contracts.Tier]int {
	counts := make(map[contracts.Tier]int, 7)
	for _, t := range contracts.AllTiers() {
		counts[t] = 0
	}
	for i := range records {
		if records[i].Tier != contracts.TierNone {
			counts[records[i].Tier]++
		}
	}
	return counts
}

// Package report computes tier summary statistics over a classified table (S5).
package report

import (
	"sort"

	"github.com/wonny/proptier/internal/contracts"
	"github.com/wonny/proptier/internal/quantile"
)

// TierSummary holds the statistics of one tier
// Price and Decile are five-number summaries: min, Q1, median, Q3, max.
type TierSummary struct {
	Tier          contracts.Tier `json:"tier"`
	Count         int            `json:"count"`
	MeanPrice     float64        `json:"mean_price"`
	MeanDecile    float64        `json:"mean_decile"`
	MeanComposite float64        `json:"mean_composite"`
	Price         [5]float64     `json:"price"`
	Decile        [5]float64     `json:"decile"`
}

// AreaTier is the mean tier rank of the sales in one area
type AreaTier struct {
	AreaCode     string  `json:"area_code"`
	MeanTierRank float64 `json:"mean_tier_rank"`
	Sales        int     `json:"sales"`
}

// Summary is the full report over a classified table
type Summary struct {
	Total        int                    `json:"total"`
	Counts       map[contracts.Tier]int `json:"counts"`
	Tiers        []TierSummary          `json:"tiers"` // A first, empty tiers omitted
	Correlation  *Matrix                `json:"correlation"`
	Areas        []AreaTier             `json:"areas"` // sorted by area code
	Unclassified int                    `json:"unclassified"`
}

// Build computes the summary
func Build(records []contracts.EnrichedRecord) *Summary {
	s := &Summary{
		Total:  len(records),
		Counts: make(map[contracts.Tier]int, 7),
	}

	byTier := make(map[contracts.Tier][]*contracts.EnrichedRecord, 7)
	for _, t := range contracts.AllTiers() {
		s.Counts[t] = 0
	}
	for i := range records {
		rec := &records[i]
		if rec.Tier == contracts.TierNone {
			s.Unclassified++
			continue
		}
		s.Counts[rec.Tier]++
		byTier[rec.Tier] = append(byTier[rec.Tier], rec)
	}

	tiers := contracts.AllTiers()
	for i := len(tiers) - 1; i >= 0; i-- {
		group := byTier[tiers[i]]
		if len(group) == 0 {
			continue
		}
		s.Tiers = append(s.Tiers, summarize(tiers[i], group))
	}

	s.Correlation = Correlation(records)
	s.Areas = AreaAverages(records)
	return s
}

func summarize(tier contracts.Tier, group []*contracts.EnrichedRecord) TierSummary {
	prices := make([]float64, len(group))
	deciles := make([]float64, len(group))
	var composite float64
	for i, rec := range group {
		prices[i] = rec.Price
		deciles[i] = float64(rec.DeprivationDecile)
		composite += float64(rec.CompositeScore)
	}

	return TierSummary{
		Tier:          tier,
		Count:         len(group),
		MeanPrice:     mean(prices),
		MeanDecile:    mean(deciles),
		MeanComposite: composite / float64(len(group)),
		Price:         quantile.FiveNumber(prices),
		Decile:        quantile.FiveNumber(deciles),
	}
}

// AreaAverages returns the mean tier rank per matched area
// Unclassified records and sales without an area code are skipped.
func AreaAverages(records []contracts.EnrichedRecord) []AreaTier {
	type acc struct {
		sum, n int
	}
	byArea := make(map[string]*acc)
	for i := range records {
		rec := &records[i]
		if !rec.AreaMatched || rec.Tier == contracts.TierNone {
			continue
		}
		a, ok := byArea[rec.AreaCode]
		if !ok {
			a = &acc{}
			byArea[rec.AreaCode] = a
		}
		a.sum += rec.Tier.Rank()
		a.n++
	}

	out := make([]AreaTier, 0, len(byArea))
	for code, a := range byArea {
		out = append(out, AreaTier{
			AreaCode:     code,
			MeanTierRank: float64(a.sum) / float64(a.n),
			Sales:        a.n,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AreaCode < out[j].AreaCode })
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

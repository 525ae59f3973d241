package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/proptier/internal/contracts"
)

func classified(area string, price float64, decile, composite int, tier contracts.Tier) contracts.EnrichedRecord {
	rec := contracts.NewEnrichedRecord(contracts.SaleRecord{Price: price})
	rec.AreaCode = area
	rec.AreaMatched = area != ""
	rec.DeprivationDecile = decile
	rec.CompositeScore = composite
	rec.Tier = tier
	return rec
}

func fixture() []contracts.EnrichedRecord {
	return []contracts.EnrichedRecord{
		classified("E01000001", 100000, 1, 30, contracts.TierG),
		classified("E01000001", 120000, 2, 35, contracts.TierG),
		classified("E01000002", 300000, 5, 60, contracts.TierD),
		classified("E01000002", 500000, 9, 90, contracts.TierA),
		classified("", 700000, 10, 95, contracts.TierA),
		classified("E01000003", 50000, 5, 0, contracts.TierNone),
	}
}

func TestBuild(t *testing.T) {
	s := Build(fixture())

	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 1, s.Unclassified)
	assert.Len(t, s.Counts, 7)
	assert.Equal(t, 2, s.Counts[contracts.TierG])
	assert.Equal(t, 0, s.Counts[contracts.TierB])
	assert.Equal(t, 2, s.Counts[contracts.TierA])

	require.Len(t, s.Tiers, 3)
	assert.Equal(t, contracts.TierA, s.Tiers[0].Tier)
	assert.Equal(t, contracts.TierD, s.Tiers[1].Tier)
	assert.Equal(t, contracts.TierG, s.Tiers[2].Tier)

	top := s.Tiers[0]
	assert.Equal(t, 2, top.Count)
	assert.InDelta(t, 600000, top.MeanPrice, 1e-6)
	assert.InDelta(t, 9.5, top.MeanDecile, 1e-9)
	assert.InDelta(t, 92.5, top.MeanComposite, 1e-9)
	assert.Equal(t, [5]float64{500000, 550000, 600000, 650000, 700000}, top.Price)
}

func TestAreaAverages(t *testing.T) {
	areas := AreaAverages(fixture())

	require.Len(t, areas, 2)
	assert.Equal(t, AreaTier{AreaCode: "E01000001", MeanTierRank: 1, Sales: 2}, areas[0])
	assert.Equal(t, "E01000002", areas[1].AreaCode)
	assert.InDelta(t, 5.5, areas[1].MeanTierRank, 1e-9) // D=4, A=7
}

func TestPearson(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}

	assert.InDelta(t, 1.0, Pearson(x, []float64{2, 4, 6, 8, 10}), 1e-12)
	assert.InDelta(t, -1.0, Pearson(x, []float64{5, 4, 3, 2, 1}), 1e-12)
	assert.True(t, math.IsNaN(Pearson(x, []float64{3, 3, 3, 3, 3})))
	assert.True(t, math.IsNaN(Pearson(x[:1], x[:1])))
	assert.True(t, math.IsNaN(Pearson(x, x[:3])))
}

func TestCorrelation(t *testing.T) {
	m := Correlation(fixture())

	require.Len(t, m.Labels, 4)
	for i := range m.Labels {
		assert.InDelta(t, 1.0, m.Values[i][i], 1e-12)
		for j := range m.Labels {
			assert.Equal(t, m.Values[i][j], m.Values[j][i])
		}
	}
	assert.Greater(t, m.At(ColTierRank, ColComposite), 0.9)
	assert.True(t, math.IsNaN(m.At("missing", ColPrice)))
}

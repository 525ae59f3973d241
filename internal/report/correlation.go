package report

import (
	"math"

	"github.com/wonny/proptier/internal/contracts"
)

// Correlation matrix columns
const (
	ColTierRank  = "tier_rank"
	ColPrice     = "price"
	ColDecile    = "deprivation_decile"
	ColComposite = "composite_score"
)

// Matrix is a square Pearson correlation matrix
// NaN marks a pair where one column has zero variance.
type Matrix struct {
	Labels []string    `json:"labels"`
	Values [][]float64 `json:"values"`
}

// At returns the coefficient for two labels
func (m *Matrix) At(a, b string) float64 {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return math.NaN()
	}
	return m.Values[i][j]
}

func (m *Matrix) index(label string) int {
	for i, l := range m.Labels {
		if l == label {
			return i
		}
	}
	return -1
}

// Correlation computes the matrix over classified records
func Correlation(records []contracts.EnrichedRecord) *Matrix {
	labels := []string{ColTierRank, ColPrice, ColDecile, ColComposite}
	cols := make([][]float64, len(labels))
	for i := range records {
		rec := &records[i]
		if rec.Tier == contracts.TierNone {
			continue
		}
		cols[0] = append(cols[0], float64(rec.Tier.Rank()))
		cols[1] = append(cols[1], rec.Price)
		cols[2] = append(cols[2], float64(rec.DeprivationDecile))
		cols[3] = append(cols[3], float64(rec.CompositeScore))
	}

	values := make([][]float64, len(labels))
	for i := range labels {
		values[i] = make([]float64, len(labels))
		for j := range labels {
			if j < i {
				values[i][j] = values[j][i]
				continue
			}
			values[i][j] = Pearson(cols[i], cols[j])
		}
	}
	return &Matrix{Labels: labels, Values: values}
}

// Pearson returns the correlation coefficient of x and y
func Pearson(x, y []float64) float64 {
	n := len(x)
	if n < 2 || n != len(y) {
		return math.NaN()
	}

	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}
	return sxy / math.Sqrt(sxx*syy)
}

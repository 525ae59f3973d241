// Package quantile implements equal-population bucketing of a numeric column.
//
// Bucketing is two-pass: Edges derives n+1 boundaries from the whole column
// (linear interpolation between order statistics), then Assign places each
// value in the right-closed interval it falls in, the lowest edge included.
package quantile

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrDegenerateSplit is returned when the edges of a split are not strictly increasing
var ErrDegenerateSplit = errors.New("quantile bin edges must be unique")

// DegenerateSplitError carries the details of a degenerate split
type DegenerateSplitError struct {
	Column   string
	Buckets  int
	Values   int
	Distinct int
	Edges    []float64
}

func (e *DegenerateSplitError) Error() string {
	return fmt.Sprintf("%s: cannot split %d values (%d distinct) into %d quantile buckets, edges %v: %v",
		e.Column, e.Values, e.Distinct, e.Buckets, e.Edges, ErrDegenerateSplit)
}

// Unwrap lets errors.Is match ErrDegenerateSplit
func (e *DegenerateSplitError) Unwrap() error {
	return ErrDegenerateSplit
}

// DuplicatePolicy decides what happens when edges repeat
type DuplicatePolicy int

const (
	// Raise rejects repeated edges with a DegenerateSplitError
	Raise DuplicatePolicy = iota
	// Drop leaves the buckets behind repeated edges empty
	Drop
)

// Split is the result of bucketing a column
type Split struct {
	Edges   []float64 // n+1 boundaries, non-decreasing
	Buckets []int     // bucket index per input value, 0..n-1
	Sizes   []int     // population per bucket
}

// Edges returns the n+1 quantile boundaries of values
func Edges(values []float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("bucket count must be positive, got %d", n)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no values to split: %w", ErrDegenerateSplit)
	}

	sorted := sortedCopy(values)
	edges := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		edges[i] = at(sorted, i, n)
	}
	return edges, nil
}

// Cut buckets values into n equal-population groups
func Cut(column string, values []float64, n int, policy DuplicatePolicy) (*Split, error) {
	if n < 1 {
		return nil, fmt.Errorf("bucket count must be positive, got %d", n)
	}
	if len(values) == 0 {
		return nil, &DegenerateSplitError{Column: column, Buckets: n}
	}

	edges, err := Edges(values, n)
	if err != nil {
		return nil, err
	}

	degenerate := func() error {
		return &DegenerateSplitError{
			Column:   column,
			Buckets:  n,
			Values:   len(values),
			Distinct: Distinct(values),
			Edges:    edges,
		}
	}

	if policy == Raise && !strictlyIncreasing(edges) {
		return nil, degenerate()
	}

	split := &Split{
		Edges:   edges,
		Buckets: make([]int, len(values)),
		Sizes:   make([]int, n),
	}
	for i, v := range values {
		b := Assign(edges, v)
		split.Buckets[i] = b
		split.Sizes[b]++
	}

	// Unique edges can still leave a bucket empty when there are fewer
	// distinct values than buckets.
	if policy == Raise && split.Empty() > 0 {
		return nil, degenerate()
	}
	return split, nil
}

// Empty returns the number of buckets that received no values
func (s *Split) Empty() int {
	empty := 0
	for _, size := range s.Sizes {
		if size == 0 {
			empty++
		}
	}
	return empty
}

// Assign returns the bucket of v: the smallest i with v <= edges[i+1]
// With repeated edges the buckets between them receive nothing.
func Assign(edges []float64, v float64) int {
	n := len(edges) - 1
	i := sort.SearchFloat64s(edges, v)
	switch {
	case i == 0:
		// v <= lowest edge: the lowest interval is closed on the left
		return 0
	case i > n:
		return n - 1
	default:
		return i - 1
	}
}

// Distinct counts the distinct values in the column
func Distinct(values []float64) int {
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// Quantile returns the q-quantile (0..1) of values by linear interpolation
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return interpolate(sortedCopy(values), q*float64(len(values)-1))
}

// FiveNumber returns min, Q1, median, Q3 and max
func FiveNumber(values []float64) [5]float64 {
	var out [5]float64
	if len(values) == 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	sorted := sortedCopy(values)
	for i := range out {
		out[i] = at(sorted, i, 4)
	}
	return out
}

// at returns the (i/n)-quantile of sorted values
// The position is computed from integers so edges that land exactly on an
// order statistic are not perturbed by rounding.
func at(sorted []float64, i, n int) float64 {
	pos := float64(i*(len(sorted)-1)) / float64(n)
	return interpolate(sorted, pos)
}

func interpolate(sorted []float64, pos float64) float64 {
	lo := int(math.Floor(pos))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	if lo < 0 {
		return sorted[0]
	}
	frac := pos - float64(lo)
	if frac == 0 {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[lo+1]-sorted[lo])*frac
}

func sortedCopy(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}

func strictlyIncreasing(edges []float64) bool {
	for i := 1; i < len(edges); i++ {
		if !(edges[i] > edges[i-1]) {
			return false
		}
	}
	return true
}

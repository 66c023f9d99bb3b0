// Package stats provides the rank-based percentile math and distribution
// summaries the partition builders consume. Missing values are NaN and are
// excluded before ranking; an empty or all-missing input yields NaN for
// every statistic.
package stats

import (
	"math"
	"sort"
)

// Percentile computes the p-th percentile (0..100) of values with linear
// interpolation between the two closest ranks. NaN entries are dropped first.
// Returns NaN when no finite values remain.
func Percentile(values []float64, p float64) float64 {
	vs := clean(values)
	if len(vs) == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return vs[0]
	}
	if p >= 100 {
		return vs[len(vs)-1]
	}
	k := float64(len(vs)-1) * (p / 100.0)
	f := math.Floor(k)
	c := math.Ceil(k)
	if f == c {
		return vs[int(k)]
	}
	return vs[int(f)]*(c-k) + vs[int(c)]*(k-f)
}

// Summary captures the distribution of one feature across windows.
// P95 is carried for the threshold derivation policy, which anchors on the
// ADL 95th percentile.
type Summary struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
}

// Summarize computes the Summary of values. All fields are NaN when the
// input has no finite entries.
func Summarize(values []float64) Summary {
	vs := clean(values)
	if len(vs) == 0 {
		nan := math.NaN()
		return Summary{Min: nan, Max: nan, P10: nan, P25: nan, P50: nan, P75: nan, P90: nan, P95: nan}
	}
	return Summary{
		Min: vs[0],
		Max: vs[len(vs)-1],
		P10: Percentile(vs, 10),
		P25: Percentile(vs, 25),
		P50: Percentile(vs, 50),
		P75: Percentile(vs, 75),
		P90: Percentile(vs, 90),
		P95: Percentile(vs, 95),
	}
}

// Empty reports whether the summary came from an empty input.
func (s Summary) Empty() bool {
	return math.IsNaN(s.P50)
}

// clean returns a sorted copy of values with NaNs removed.
func clean(values []float64) []float64 {
	vs := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			vs = append(vs, v)
		}
	}
	sort.Float64s(vs)
	return vs
}

package fuzzy

import (
	"math"
	"sort"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/monitoring"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/stats"
)

// Policy selects how percentile summaries become triangular partitions.
type Policy string

const (
	// PolicyQuartile derives three sets from the quartiles of a single
	// class distribution (the FALL-only calibration mode).
	PolicyQuartile Policy = "quartile"
	// PolicyThreshold anchors three sets on the midpoint between the ADL
	// p95 and the FALL p50 of a two-class calibration.
	PolicyThreshold Policy = "threshold"
)

// Valid reports whether p names a known policy.
func (p Policy) Valid() bool {
	return p == PolicyQuartile || p == PolicyThreshold
}

// FallbackPartitions counts threshold derivations that fell back to the
// generic partition because one class had no samples for the feature.
var FallbackPartitions monitoring.Counter

// QuartilePartition builds low/medium/high triangles from one class's
// quartiles: low (min, p25, p50), medium (p25, p50, p75), high (p50, p75,
// max), each clamped to the universe and repaired for degeneracy. Missing
// statistics substitute universe bounds and midpoint so incomplete
// calibration data still yields a usable partition.
func QuartilePartition(s stats.Summary, lo, hi float64) [3]Triangle {
	mid := (lo + hi) / 2
	mn := orDefault(s.Min, lo)
	p25 := orDefault(s.P25, lo)
	p50 := orDefault(s.P50, mid)
	p75 := orDefault(s.P75, hi)
	mx := orDefault(s.Max, hi)

	return [3]Triangle{
		repairTriangle(mn, p25, p50, lo, hi),
		repairTriangle(p25, p50, p75, lo, hi),
		repairTriangle(p50, p75, mx, lo, hi),
	}
}

// ThresholdPartition builds three overlapping sets anchored at the decision
// threshold thr = (ADL p95 + FALL p50) / 2: low tapers off to thr, medium is
// centered at thr with 30% linear overlap into both neighbors, high rises
// from thr to the universe ceiling. When either class is empty the
// threshold is undefined and the generic partition takes over; that
// recovery is local and observable, never an error.
func ThresholdPartition(adl, fall stats.Summary, lo, hi float64) [3]Triangle {
	thr := (adl.P95 + fall.P50) / 2
	if math.IsNaN(thr) {
		FallbackPartitions.Inc()
		monitoring.Logf("fuzzy: threshold undefined (empty class), using generic partition over [%g, %g]", lo, hi)
		return GenericPartition(lo, hi)
	}

	lowMax := math.Min(0.6*hi, thr)
	highMin := math.Max(thr, 0.4*hi)

	low := sortedTriangle([3]float64{
		lo,
		(lo + lowMax) / 2,
		math.Min(thr, lowMax),
	}, lo, hi)
	mid := sortedTriangle([3]float64{
		thr - (thr-lo)*0.3,
		thr,
		thr + (hi-thr)*0.3,
	}, lo, hi)
	high := sortedTriangle([3]float64{
		math.Max(thr, highMin),
		(highMin + hi) / 2,
		hi,
	}, lo, hi)

	return [3]Triangle{low, mid, high}
}

// GenericPartition spans the universe in overlapping fifths: low over the
// first 40%, medium over 20-80%, high over the last 40%. The edge sets are
// shoulders (full membership at the universe bounds) so coverage has no
// dead zones.
func GenericPartition(lo, hi float64) [3]Triangle {
	span := hi - lo
	return [3]Triangle{
		{A: lo, B: lo, C: lo + span*0.4},
		{A: lo + span*0.2, B: lo + span*0.5, C: lo + span*0.8},
		{A: lo + span*0.6, B: hi, C: hi},
	}
}

// Threshold exposes the decision-threshold anchor for the artifact. NaN
// when either class summary is empty.
func Threshold(adl, fall stats.Summary) float64 {
	return (adl.P95 + fall.P50) / 2
}

// sortedTriangle clamps, sorts, and de-duplicates a candidate triple so the
// result satisfies a <= b <= c with epsilon separation.
func sortedTriangle(abc [3]float64, lo, hi float64) Triangle {
	for i := range abc {
		abc[i] = clamp(abc[i], lo, hi)
	}
	sort.Float64s(abc[:])
	return repairTriangle(abc[0], abc[1], abc[2], lo, hi)
}

func orDefault(v, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	return v
}

// Package window slices a labeled sample stream into fixed-length
// overlapping windows and computes the per-window scalar features that feed
// calibration. The window and hop lengths are derived from the stream's own
// estimated sampling rate, never from an assumed fixed rate.
package window

import (
	"math"
	"sort"
)

// DefaultSampleRate is used when the stream carries no positive timestamp
// delta to estimate from (e.g. a single sample or a constant clock).
const DefaultSampleRate = 50.0

// Plan fixes the sample counts for one windowing pass.
type Plan struct {
	FS   float64 // estimated sampling rate, Hz
	WinN int     // samples per window
	HopN int     // stride between window starts
}

// EstimateRate returns the sampling rate implied by the median of the
// positive consecutive deltas of ts. Non-positive deltas (duplicate or
// out-of-order stamps) are ignored. Falls back to defaultFS when nothing
// usable remains.
func EstimateRate(ts []float64, defaultFS float64) float64 {
	var dts []float64
	for i := 1; i < len(ts); i++ {
		d := ts[i] - ts[i-1]
		if d > 0 && !math.IsNaN(d) {
			dts = append(dts, d)
		}
	}
	if len(dts) == 0 {
		return defaultFS
	}
	sort.Float64s(dts)
	mid := len(dts) / 2
	var med float64
	if len(dts)%2 == 1 {
		med = dts[mid]
	} else {
		med = 0.5 * (dts[mid-1] + dts[mid])
	}
	if med <= 0 {
		return defaultFS
	}
	return 1.0 / med
}

// PlanWindows derives a Plan from the stream timestamps and the requested
// window and hop durations in seconds. Window and hop are at least one
// sample each.
func PlanWindows(ts []float64, winSeconds, hopSeconds, defaultFS float64) Plan {
	fs := EstimateRate(ts, defaultFS)
	winN := int(math.Round(winSeconds * fs))
	hopN := int(math.Round(hopSeconds * fs))
	if winN < 1 {
		winN = 1
	}
	if hopN < 1 {
		hopN = 1
	}
	return Plan{FS: fs, WinN: winN, HopN: hopN}
}

// Count returns how many full windows the plan yields over n samples.
// The trailing partial window is dropped.
func (p Plan) Count(n int) int {
	if n < p.WinN {
		return 0
	}
	return (n-p.WinN)/p.HopN + 1
}

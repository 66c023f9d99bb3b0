// Package fuzzy implements the calibration-side partition builders and the
// run-time Mamdani inference engine. The two phases share one artifact: a
// ParameterSet mapping feature names to universes and named triangular
// membership functions. The engine consumes the artifact and never
// recomputes statistics.
package fuzzy

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/monitoring"
)

// epsilonNudge separates collapsed triangle bounds. Matches the repair step
// of the calibration artifacts already in the field, so re-deriving from the
// same distributions stays bit-identical.
const epsilonNudge = 1e-6

// RepairCount tracks degenerate-interval repairs across all partition
// derivations in the process. Repairs are recovered locally and never
// surfaced as errors; the counter keeps them observable.
var RepairCount monitoring.Counter

// Triangle is a triangular membership function: zero at A, rising to one at
// B, falling back to zero at C. A == B or B == C are shoulder shapes with
// full membership at the shared vertex.
type Triangle struct {
	A, B, C float64
}

// Membership evaluates the triangular function at x.
func (t Triangle) Membership(x float64) float64 {
	if x < t.A || x > t.C {
		return 0
	}
	if x == t.B {
		return 1
	}
	if x < t.B {
		if t.B == t.A {
			return 1
		}
		return (x - t.A) / (t.B - t.A)
	}
	if t.C == t.B {
		return 1
	}
	return (t.C - x) / (t.C - t.B)
}

// Valid reports whether the bounds are ordered.
func (t Triangle) Valid() bool {
	return t.A <= t.B && t.B <= t.C
}

// MarshalJSON encodes the triangle as the [a, b, c] array used by the
// parameters artifact.
func (t Triangle) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("[%s, %s, %s]",
		formatBound(t.A), formatBound(t.B), formatBound(t.C))), nil
}

// UnmarshalJSON decodes an [a, b, c] array.
func (t *Triangle) UnmarshalJSON(data []byte) error {
	var abc [3]float64
	if err := json.Unmarshal(data, &abc); err != nil {
		return fmt.Errorf("trimf must be a three-element array: %w", err)
	}
	t.A, t.B, t.C = abc[0], abc[1], abc[2]
	if !t.Valid() {
		return fmt.Errorf("trimf bounds out of order: [%v, %v, %v]", t.A, t.B, t.C)
	}
	return nil
}

// clamp restricts x to [lo, hi].
func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// repairTriangle clamps the bounds to the universe and nudges collapsed
// intervals apart: a degenerate rising or falling edge gets the later bound
// pushed up by epsilon, re-clamped to the universe ceiling.
func repairTriangle(a, b, c, lo, hi float64) Triangle {
	a, b, c = clamp(a, lo, hi), clamp(b, lo, hi), clamp(c, lo, hi)
	repaired := false
	if b <= a {
		b = math.Min(hi, a+epsilonNudge)
		repaired = true
	}
	if c <= b {
		c = math.Min(hi, b+epsilonNudge)
		repaired = true
	}
	if repaired {
		RepairCount.Inc()
		monitoring.Logf("fuzzy: repaired degenerate interval -> [%g, %g, %g]", a, b, c)
	}
	return Triangle{A: a, B: b, C: c}
}

func formatBound(v float64) string {
	// Stable shortest representation; artifacts must be byte-identical
	// across re-runs on identical inputs.
	return strconv.FormatFloat(v, 'g', -1, 64)
}

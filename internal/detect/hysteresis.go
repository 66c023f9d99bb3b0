// Package detect turns the continuous fall score stream into a binary
// decision. It is deliberately separate from inference so other decision
// policies (majority vote, debounce) can replace the latch without touching
// the engine.
package detect

import (
	"fmt"
	"sync"
)

// historyCap bounds the retained score history. Only observability reads
// it; the latch itself needs nothing but its active flag.
const historyCap = 32

// Hysteresis is a two-threshold latch: it arms when the latest score
// reaches the high threshold and holds until the score drops below the low
// threshold. Evaluation is causal; only past and current scores matter.
// Safe for concurrent use, but the natural deployment is one instance per
// sensor stream.
type Hysteresis struct {
	hi float64
	lo float64

	mu     sync.Mutex
	active bool
	recent []float64
}

// NewHysteresis builds a latch with the given thresholds. Panics unless
// hi > lo: equal thresholds degenerate into a plain comparator and a
// misordered pair would latch forever.
func NewHysteresis(hi, lo float64) *Hysteresis {
	if hi <= lo {
		panic(fmt.Sprintf("detect: hysteresis thresholds must satisfy hi > lo, got hi=%v lo=%v", hi, lo))
	}
	return &Hysteresis{hi: hi, lo: lo, recent: make([]float64, 0, historyCap)}
}

// Update feeds the latest score and returns the current decision.
// Inactive -> Active when score >= hi; Active holds while score >= lo and
// releases when score < lo.
func (h *Hysteresis) Update(score float64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.recent) == historyCap {
		copy(h.recent, h.recent[1:])
		h.recent = h.recent[:historyCap-1]
	}
	h.recent = append(h.recent, score)

	if h.active {
		h.active = score >= h.lo
	} else {
		h.active = score >= h.hi
	}
	return h.active
}

// Active returns the current decision without feeding a new score.
func (h *Hysteresis) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// Recent returns a copy of the retained score history, oldest first.
func (h *Hysteresis) Recent() []float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]float64, len(h.recent))
	copy(out, h.recent)
	return out
}

// Reset returns the latch to the Inactive state and clears the history.
func (h *Hysteresis) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active = false
	h.recent = h.recent[:0]
}

// Thresholds reports the configured pair.
func (h *Hysteresis) Thresholds() (hi, lo float64) {
	return h.hi, h.lo
}

package stream

import (
	"sync"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/imu"
)

// RetroMode controls which labeling keypresses relabel the buffered
// lead-up samples.
type RetroMode string

const (
	// RetroOff disables retroactive relabeling; labels apply forward only.
	RetroOff RetroMode = "off"
	// RetroFallOnly relabels the buffer for FALL events only. A fall's
	// interesting motion precedes the keypress; ADL labels do not need
	// the same treatment.
	RetroFallOnly RetroMode = "fall_only"
	// RetroAll relabels the buffer for every labeling event.
	RetroAll RetroMode = "all"
)

// Valid reports whether m names a known mode.
func (m RetroMode) Valid() bool {
	return m == RetroOff || m == RetroFallOnly || m == RetroAll
}

// Entry is one buffered sample plus its labeling provenance.
type Entry struct {
	Sample       imu.Sample
	EventID      string
	LabelChanged bool
}

// RetroBuffer is a bounded FIFO of the most recent samples. Samples enter
// unlabeled (or forward-labeled) and leave either by eviction, once the
// buffer is full, or by an explicit drain. A labeling event may rewrite
// the labels of everything still buffered, which is the whole point: the
// entries not yet written out are still editable.
type RetroBuffer struct {
	mu   sync.Mutex
	cap  int
	mode RetroMode
	buf  []Entry
}

// NewRetroBuffer sizes the buffer for capacity samples. Capacity is the
// retro window in samples (retro seconds times sample rate), minimum 1.
func NewRetroBuffer(capacity int, mode RetroMode) *RetroBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &RetroBuffer{cap: capacity, mode: mode}
}

// Push appends a sample and returns the entry evicted to make room, if the
// buffer was full. Evicted entries are final: write them out.
func (rb *RetroBuffer) Push(s imu.Sample) (Entry, bool) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.buf = append(rb.buf, Entry{Sample: s})
	if len(rb.buf) <= rb.cap {
		return Entry{}, false
	}
	evicted := rb.buf[0]
	rb.buf = rb.buf[1:]
	return evicted, true
}

// Relabel rewrites the labels of everything still buffered, subject to the
// mode, and tags the rewritten entries with the event id. Returns how many
// entries changed.
func (rb *RetroBuffer) Relabel(label imu.Label, eventID string) int {
	if rb.mode == RetroOff {
		return 0
	}
	if rb.mode == RetroFallOnly && label != imu.LabelFALL {
		return 0
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()

	var changed int
	for i := range rb.buf {
		if rb.buf[i].Sample.Label == label {
			continue
		}
		rb.buf[i].Sample.Label = label
		rb.buf[i].EventID = eventID
		rb.buf[i].LabelChanged = true
		changed++
	}
	return changed
}

// Drain removes and returns every buffered entry, oldest first.
func (rb *RetroBuffer) Drain() []Entry {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	out := rb.buf
	rb.buf = nil
	return out
}

// Len returns the number of buffered entries.
func (rb *RetroBuffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return len(rb.buf)
}

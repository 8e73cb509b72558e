package compliance

import (
	"sync"
	"time"

	"github.com/Klerno-Labs/iso20022-engine/internal/iso20022"
)

// Outcome is one recorded validation result.
type Outcome struct {
	MessageID   string               `json:"message_id"`
	MessageType iso20022.MessageType `json:"message_type"`
	Valid       bool                 `json:"valid"`
	FieldErrors int                  `json:"field_errors"`
	Timestamp   time.Time            `json:"timestamp"`
}

// History is a bounded, thread-safe ring buffer of recent validation
// outcomes. When full it overwrites the oldest entry. It is the only
// cross-call state the engine keeps, and it exists solely to back
// compliance report generation.
type History struct {
	mu   sync.Mutex
	buf  []Outcome
	next int
	size int
}

// DefaultHistorySize bounds the buffer when the configuration does not.
const DefaultHistorySize = 256

// NewHistory creates a ring buffer with the given capacity. Non-positive
// capacities fall back to DefaultHistorySize.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{buf: make([]Outcome, capacity)}
}

// Record appends an outcome, overwriting the oldest entry when full.
func (h *History) Record(o Outcome) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf[h.next] = o
	h.next = (h.next + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

// Snapshot returns the retained outcomes oldest-first. The returned slice is
// a copy; concurrent appends after the call do not affect it.
func (h *History) Snapshot() []Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Outcome, 0, h.size)
	start := h.next - h.size
	if start < 0 {
		start += len(h.buf)
	}
	for i := 0; i < h.size; i++ {
		out = append(out, h.buf[(start+i)%len(h.buf)])
	}
	return out
}

// Len returns the number of retained outcomes.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size
}

package notify

import (
	"sync"
	"time"
)

// Outcome of one delivery attempt.
type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeFailed    Outcome = "failed"
)

// Delivery records what happened to a request.
type Delivery struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Message     string        `json:"message"`
	Source      string        `json:"source,omitempty"`
	Outcome     Outcome       `json:"outcome"`
	Error       string        `json:"error,omitempty"`
	EnqueuedAt  time.Time     `json:"enqueued_at"`
	DeliveredAt time.Time     `json:"delivered_at"`
	Latency     time.Duration `json:"latency"`
}

// History is a thread-safe ring of the most recent deliveries.
type History struct {
	entries []Delivery
	head    int
	size    int
	mu      sync.RWMutex
}

// NewHistory creates a ring holding up to capacity deliveries
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{entries: make([]Delivery, capacity)}
}

// Add records d, overwriting the oldest entry when full.
func (h *History) Add(d Delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries[h.head] = d
	h.head = (h.head + 1) % len(h.entries)
	if h.size < len(h.entries) {
		h.size++
	}
}

// Recent returns up to limit deliveries, newest first. An empty outcome
// matches everything; limit <= 0 means all.
func (h *History) Recent(limit int, outcome Outcome) []Delivery {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if limit <= 0 || limit > h.size {
		limit = h.size
	}
	out := make([]Delivery, 0, limit)
	for i := 0; i < h.size && len(out) < limit; i++ {
		d := h.entries[(h.head-1-i+len(h.entries))%len(h.entries)]
		if outcome == "" || d.Outcome == outcome {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of recorded deliveries
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.size
}

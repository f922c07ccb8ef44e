package testutil

import (
	"sync"
	"time"
)

// Observation is one ObserveOperation call.
type Observation struct {
	Op     string
	Status string
	Took   time.Duration
}

// HooksRecorder collects aggregate hook calls per operation name.
type HooksRecorder struct {
	mu        sync.Mutex
	observed  []Observation
	conflicts map[string]int
	retries   map[string]int
}

func (h *HooksRecorder) ObserveOperation(name, status string, dur time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observed = append(h.observed, Observation{Op: name, Status: status, Took: dur})
}

func (h *HooksRecorder) IncConflict(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conflicts == nil {
		h.conflicts = map[string]int{}
	}
	h.conflicts[name]++
}

func (h *HooksRecorder) IncRetry(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.retries == nil {
		h.retries = map[string]int{}
	}
	h.retries[name]++
}

// Statuses returns the statuses recorded for op, oldest first.
func (h *HooksRecorder) Statuses(op string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, o := range h.observed {
		if o.Op == op {
			out = append(out, o.Status)
		}
	}
	return out
}

func (h *HooksRecorder) Conflicts(op string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conflicts[op]
}

func (h *HooksRecorder) Retries(op string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.retries[op]
}

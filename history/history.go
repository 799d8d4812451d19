// Package history keeps the in-memory list of training results for one
// session. Entries are unique by key; a re-run replaces the earlier entry in
// place so the list keeps the order in which keys were first seen.
package history

import "sync"

// Keyed is a record with an identity key.
type Keyed[K comparable] interface {
	Key() K
}

// RunHistory is an ordered, upsert-by-key collection of records. It is safe
// for concurrent use.
type RunHistory[K comparable, R Keyed[K]] struct {
	mu      sync.RWMutex
	records []R
	index   map[K]int
}

// New returns an empty history.
func New[K comparable, R Keyed[K]]() *RunHistory[K, R] {
	return &RunHistory[K, R]{index: make(map[K]int)}
}

// Upsert appends r, or replaces the record with the same key at its current
// position. It reports whether an existing record was replaced.
func (h *RunHistory[K, R]) Upsert(r R) (replaced bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	k := r.Key()
	if i, ok := h.index[k]; ok {
		h.records[i] = r
		return true
	}
	h.index[k] = len(h.records)
	h.records = append(h.records, r)
	return false
}

// Get returns the record stored under k.
func (h *RunHistory[K, R]) Get(k K) (R, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	i, ok := h.index[k]
	if !ok {
		var zero R
		return zero, false
	}
	return h.records[i], true
}

// Snapshot returns a copy of the records in order.
func (h *RunHistory[K, R]) Snapshot() []R {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]R, len(h.records))
	copy(out, h.records)
	return out
}

// Len returns the number of records.
func (h *RunHistory[K, R]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// Clear removes every record.
func (h *RunHistory[K, R]) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
	h.index = make(map[K]int)
}

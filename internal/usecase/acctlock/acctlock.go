// Package acctlock provides per-account mutual exclusion for the
// read-check-write sequences in the order and wallet services. The backing
// store offers no transaction-level guarantee that an admissibility check and
// its paired mutation see the same snapshot, so every mutating path for an
// account must run under that account's lock.
package acctlock

import (
	"sync"

	"github.com/google/uuid"
)

// Registry hands out one mutex per account ID. Locks are never removed; the
// set of active accounts in one process is small enough that this does not
// matter.
type Registry struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewRegistry creates an empty lock registry.
func NewRegistry() *Registry {
	return &Registry{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Lock acquires the lock for the given account and returns the matching
// unlock function.
func (r *Registry) Lock(userID uuid.UUID) func() {
	r.mu.Lock()
	m, ok := r.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		r.locks[userID] = m
	}
	r.mu.Unlock()

	m.Lock()
	return m.Unlock
}

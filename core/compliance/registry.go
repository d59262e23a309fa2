package compliance

import (
	"sort"
	"sync"
	"time"
)

// Result is the final outcome of a completed test.
type Result struct {
	Compliant   bool      `json:"compliant"`
	Emission    float64   `json:"emission"`
	CompletedAt time.Time `json:"completed_at"`
}

// Entry pairs a vehicle identifier with its result.
type Entry struct {
	VehicleID string `json:"vehicle_id"`
	Result
}

// Registry is the shared store of completed test verdicts keyed by vehicle
// identifier. A missing key signals "test did not complete", distinct from a
// false verdict meaning "completed, non-compliant". All mutation happens
// under the lock so concurrent test executions can record safely.
type Registry struct {
	mu   sync.RWMutex
	data map[string]Result
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{data: map[string]Result{}}
}

// Record stores the result for the given identifier.
func (r *Registry) Record(id string, res Result) {
	r.mu.Lock()
	r.data[id] = res
	r.mu.Unlock()
}

// Lookup returns the result for the identifier, if present.
func (r *Registry) Lookup(id string) (Result, bool) {
	r.mu.RLock()
	res, ok := r.data[id]
	r.mu.RUnlock()
	return res, ok
}

// Len returns the number of recorded results.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

// List returns a snapshot of all entries sorted by identifier.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]Entry, 0, len(r.data))
	for id, st := range r.data {
		res = append(res, Entry{VehicleID: id, Result: st})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].VehicleID < res[j].VehicleID })
	return res
}

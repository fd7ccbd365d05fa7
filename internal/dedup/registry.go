// Package dedup tracks media group IDs that have already produced a
// confirmation prompt.
package dedup

import (
	"log"
	"sync"
)

// Registry is a process-wide set of processed media group IDs.
// It only grows until Clear is called.
type Registry struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]struct{})}
}

// IsProcessed reports whether groupID was seen before and marks it as seen
// when it was not. Check and record happen under one lock.
func (r *Registry) IsProcessed(groupID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[groupID]; ok {
		return true
	}
	r.seen[groupID] = struct{}{}
	return false
}

// Clear empties the registry.
func (r *Registry) Clear() {
	r.mu.Lock()
	n := len(r.seen)
	r.seen = make(map[string]struct{})
	r.mu.Unlock()

	log.Printf("[DedupRegistry] Cleared %d media group ID(s)", n)
}

package metrics

import "time"

// Expires every slice older than maxAge relative to now
func (registry *Registry) Prune(now time.Time, maxAge time.Duration) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	// Slices are ordered, so expired ones form a prefix
	keep := 0
	for keep < len(registry.slices) && now.Sub(registry.slices[keep].at) > maxAge {
		keep++
	}
	if keep == 0 {
		return
	}
	registry.slices = append(registry.slices[:0], registry.slices[keep:]...)
}

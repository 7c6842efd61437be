package metrics

import (
	"slices"
	"time"
)

// Opens the slice a collection run writes into. The slice start is now
// rounded down to the interval; a zero interval keeps now as is.
func (registry *Registry) NewTimeSlice(now time.Time, interval time.Duration) (start time.Time) {
	start = now
	if interval > 0 {
		start = now.Truncate(interval)
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	index, found := registry.locate(start)
	if !found {
		registry.slices = slices.Insert(registry.slices, index, timeSlice{
			at:     start,
			series: make(map[seriesKey]Metric),
		})
	}
	return
}

// Stores a collection run. Metrics for a slice that was never opened (or
// already pruned) are dropped.
func (registry *Registry) Add(start time.Time, collection []Metric) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	index, found := registry.locate(start)
	if !found {
		return
	}
	series := registry.slices[index].series
	for _, metric := range collection {
		series[keyOf(metric)] = metric
	}
}

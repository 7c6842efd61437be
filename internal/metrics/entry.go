// In-memory store of collected pipeline metrics, grouped in time slices so
// the query server can search, aggregate and expire them
package metrics

import (
	"slices"
	"strings"
	"time"
)

func New() (new *Registry) {
	new = &Registry{}
	return
}

func keyOf(metric Metric) seriesKey {
	return seriesKey{
		namespace: strings.Join(metric.Namespace, "/"),
		name:      metric.Name,
	}
}

// Position of the slice starting at the given time, and whether it exists
func (registry *Registry) locate(at time.Time) (index int, found bool) {
	index, found = slices.BinarySearchFunc(registry.slices, at, func(slice timeSlice, target time.Time) int {
		return slice.at.Compare(target)
	})
	return
}

// Sorted keys of one slice so readers see a stable order
func (slice timeSlice) keys() (keys []seriesKey) {
	keys = make([]seriesKey, 0, len(slice.series))
	for key := range slice.series {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b seriesKey) int {
		if c := strings.Compare(a.namespace, b.namespace); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})
	return
}

package metrics

import (
	"slices"
	"strings"
	"time"
)

// Reports whether the namespace starts with every element of prefix. An
// empty prefix matches everything.
func underNamespace(namespace, prefix []string) bool {
	if len(prefix) > len(namespace) {
		return false
	}
	return slices.Equal(namespace[:len(prefix)], prefix)
}

// Samples named exactly name (any name when empty) under the namespace
// prefix, oldest slice first. Zero start or end leaves that side open.
func (registry *Registry) Search(name string, namespacePrefix []string, start, end time.Time) (results []Metric) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	for _, slice := range registry.slices {
		if !start.IsZero() && slice.at.Before(start) {
			continue
		}
		if !end.IsZero() && slice.at.After(end) {
			break
		}
		for _, key := range slice.keys() {
			if name != "" && key.name != name {
				continue
			}
			metric := slice.series[key]
			if !underNamespace(metric.Namespace, namespacePrefix) {
				continue
			}
			results = append(results, metric)
		}
	}
	return
}

// Lists the distinct series known to the registry regardless of time.
// Name and description match by substring, unit and type exactly; empty
// filters match all. Returned metrics carry no value or timestamp.
func (registry *Registry) Discover(name, description string, namespacePrefix []string, unit string, metricType MetricType) (results []Metric) {
	type identity struct {
		series     seriesKey
		unit       string
		metricType MetricType
	}

	registry.mu.RLock()
	defer registry.mu.RUnlock()

	seen := make(map[identity]bool)
	for _, slice := range registry.slices {
		for key, metric := range slice.series {
			switch {
			case !underNamespace(metric.Namespace, namespacePrefix):
				continue
			case name != "" && !strings.Contains(metric.Name, name):
				continue
			case description != "" && !strings.Contains(metric.Description, description):
				continue
			case unit != "" && metric.Value.Unit != unit:
				continue
			case metricType != "" && metric.Type != metricType:
				continue
			}

			id := identity{series: key, unit: metric.Value.Unit, metricType: metric.Type}
			if seen[id] {
				continue
			}
			seen[id] = true

			results = append(results, Metric{
				Name:        metric.Name,
				Description: metric.Description,
				Namespace:   metric.Namespace,
				Type:        metric.Type,
				Value:       MetricValue{Unit: metric.Value.Unit},
			})
		}
	}

	slices.SortStableFunc(results, func(a, b Metric) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(strings.Join(a.Namespace, "/"), strings.Join(b.Namespace, "/"))
	})
	return
}

package metrics

import (
	"sync"
	"time"
)

// Registry keeps one set of series per collection slice, slices ordered
// oldest first
type Registry struct {
	mu     sync.RWMutex
	slices []timeSlice
}

type timeSlice struct {
	at     time.Time
	series map[seriesKey]Metric
}

// Identifies one metric within a slice
type seriesKey struct {
	namespace string // tags joined with "/"
	name      string
}

type MetricType string

const (
	Counter MetricType = "counter" // monotonic within a process run
	Gauge   MetricType = "gauge"
	Summary MetricType = "summary" // result of an aggregation
)

// Metric is a single sample, e.g. records_read of Daemon/Feed over 15s
type Metric struct {
	Name        string
	Description string
	Namespace   []string
	Value       MetricValue
	Type        MetricType
	Timestamp   time.Time
}

type MetricValue struct {
	Raw      interface{}   // numeric, strings are parsed on aggregation
	Unit     string        // "count", "bytes", "ns"
	Interval time.Duration // collection window the value covers
}

// Wire form served by the query server
type JMetric struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Namespace   string       `json:"namespace"`
	Value       JMetricValue `json:"value"`
	Type        string       `json:"type"`
	Timestamp   string       `json:"timestamp"`
}

type JMetricValue struct {
	Raw      string `json:"raw"`
	Unit     string `json:"unit"`
	Interval string `json:"interval"`
}

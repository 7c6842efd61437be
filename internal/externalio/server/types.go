package server

import (
	"context"
	"detailq/internal/metrics"
	"time"
)

type httpLogWriter struct {
	ctx context.Context
}

// Body of every unsuccessful query
type Jerror struct {
	Msg string `json:"error"`
}

// Registry views the server queries, normally the methods of *metrics.Registry
type DataSearcher func(name string, namespacePrefix []string, start, end time.Time) []metrics.Metric
type Discoverer func(name, description string, namespacePrefix []string, unit string, metricType metrics.MetricType) []metrics.Metric
type AggSearcher func(aggType, name string, namespacePrefix []string, start, end time.Time) (metrics.Metric, error)

type queryHandler struct {
	ctx       context.Context
	search    DataSearcher
	discover  Discoverer
	aggregate AggSearcher
}

// Parameters shared by all query endpoints
type query struct {
	namespace []string
	name      string
	start     time.Time
	end       time.Time
}

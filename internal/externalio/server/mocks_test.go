package server

import (
	"detailq/internal/metrics"
	"time"
)

// Records the arguments of the last registry call
type recorder struct {
	name        string
	description string
	namespace   []string
	unit        string
	metricType  metrics.MetricType
	aggregation string
	start, end  time.Time
}

func (rec *recorder) search(results []metrics.Metric) DataSearcher {
	return func(name string, ns []string, start, end time.Time) []metrics.Metric {
		rec.name, rec.namespace, rec.start, rec.end = name, ns, start, end
		return results
	}
}

func (rec *recorder) discover(results []metrics.Metric) Discoverer {
	return func(name, desc string, ns []string, unit string, mt metrics.MetricType) []metrics.Metric {
		rec.name, rec.description, rec.namespace, rec.unit, rec.metricType = name, desc, ns, unit, mt
		return results
	}
}

func (rec *recorder) aggregate(result metrics.Metric, err error) AggSearcher {
	return func(agg, name string, ns []string, start, end time.Time) (metrics.Metric, error) {
		rec.aggregation, rec.name, rec.namespace, rec.start, rec.end = agg, name, ns, start, end
		return result, err
	}
}

package file

import (
	"detailq/internal/metrics"
	"time"
)

func (mod *OutModule) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	// Read and clear
	lines := mod.metrics.LinesWritten.Swap(0)
	bytesOut := mod.metrics.BytesWritten.Swap(0)
	errs := mod.metrics.WriteErrors.Swap(0)

	// Record read time
	recordTime := time.Now()

	collection = []metrics.Metric{
		{
			Name:        "lines_written",
			Description: "Total lines written to the output file in the interval",
			Namespace:   mod.Namespace,
			Value: metrics.MetricValue{
				Raw:      lines,
				Unit:     "count",
				Interval: interval,
			},
			Type:      metrics.Counter,
			Timestamp: recordTime,
		},
		{
			Name:        "bytes_written",
			Description: "Total bytes written to the output file in the interval",
			Namespace:   mod.Namespace,
			Value: metrics.MetricValue{
				Raw:      bytesOut,
				Unit:     "bytes",
				Interval: interval,
			},
			Type:      metrics.Counter,
			Timestamp: recordTime,
		},
		{
			Name:        "write_errors",
			Description: "Failed flushes to the output file in the interval",
			Namespace:   mod.Namespace,
			Value: metrics.MetricValue{
				Raw:      errs,
				Unit:     "count",
				Interval: interval,
			},
			Type:      metrics.Counter,
			Timestamp: recordTime,
		},
	}
	return
}

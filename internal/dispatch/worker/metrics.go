package worker

import (
	"detailq/internal/metrics"
	"time"
)

func (instance *Instance) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	// Read and clear
	processed := instance.Metrics.Processed.Swap(0)
	delivered := instance.Metrics.Delivered.Swap(0)
	failed := instance.Metrics.Failed.Swap(0)
	parseErrs := instance.Metrics.ParseErrors.Swap(0)
	outputErrs := instance.Metrics.OutputErrors.Swap(0)
	bytesIn := instance.Metrics.BytesIn.Swap(0)
	sumTime := instance.Metrics.ProcessTimeNs.Swap(0)
	maxTime := instance.Metrics.MaxProcessNs.Swap(0)

	recordTime := time.Now()

	var avgTime uint64
	if processed > 0 {
		avgTime = sumTime / processed
	}

	add := func(name string, raw uint64, unit string, t metrics.MetricType, description string) {
		collection = append(collection, metrics.Metric{
			Name:        name,
			Description: description,
			Namespace:   instance.Namespace,
			Value: metrics.MetricValue{
				Raw:      raw,
				Unit:     unit,
				Interval: interval,
			},
			Type:      t,
			Timestamp: recordTime,
		})
	}

	add("processed", processed, "count", metrics.Counter, "Records handled in the interval")
	add("delivered", delivered, "count", metrics.Counter, "Records delivered to every output in the interval")
	add("failed", failed, "count", metrics.Counter, "Records left for replay in the interval")
	add("parse_errors", parseErrs, "count", metrics.Counter, "Malformed records in the interval")
	add("output_errors", outputErrs, "count", metrics.Counter, "Failed output writes in the interval")
	add("bytes_in", bytesIn, "bytes", metrics.Counter, "Record bytes handled in the interval")
	add("maximum_process_time", maxTime, "ns", metrics.Gauge, "Slowest record in the interval")
	add("average_process_time", avgTime, "ns", metrics.Summary, "Average per-record processing time in the interval")
	return
}

package detail

import (
	"detailq/internal/metrics"
	"time"
)

func (stream *Stream) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	// Read and clear
	read := stream.metrics.RecordsRead.Swap(0)
	bytesRead := stream.metrics.BytesRead.Swap(0)
	oversize := stream.metrics.SkippedOversize.Swap(0)
	done := stream.metrics.SkippedDone.Swap(0)
	acked := stream.metrics.Acknowledged.Swap(0)
	marked := stream.metrics.MarkedDone.Swap(0)
	suppressed := stream.metrics.Suppressed.Swap(0)

	recordTime := time.Now()

	counter := func(name, description, unit string, value uint64) metrics.Metric {
		return metrics.Metric{
			Name:        name,
			Description: description,
			Namespace:   stream.Namespace,
			Value: metrics.MetricValue{
				Raw:      value,
				Unit:     unit,
				Interval: interval,
			},
			Type:      metrics.Counter,
			Timestamp: recordTime,
		}
	}

	collection = []metrics.Metric{
		counter("records_read", "Records surfaced from the detail file in the interval", "count", read),
		counter("bytes_read", "Bytes read from the detail file in the interval", "bytes", bytesRead),
		counter("skipped_oversize", "Records dropped for exceeding the maximum record size", "count", oversize),
		counter("skipped_done", "Records dropped because they were already marked done", "count", done),
		counter("acknowledged", "Records acknowledged in the interval", "count", acked),
		counter("marked_done", "Done markers written back to the detail file", "count", marked),
		counter("suppressed_replies", "Acknowledgments that asked for no write-back", "count", suppressed),
		{
			Name:        "outstanding",
			Description: "Records handed out and not yet acknowledged",
			Namespace:   stream.Namespace,
			Value: metrics.MetricValue{
				Raw:      uint64(max(stream.outstanding.Load(), 0)),
				Unit:     "count",
				Interval: interval,
			},
			Type:      metrics.Gauge,
			Timestamp: recordTime,
		},
	}
	return
}

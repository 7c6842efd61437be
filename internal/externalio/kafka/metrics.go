package kafka

import (
	"detailq/internal/metrics"
	"time"
)

func (mod *OutModule) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	produced := mod.metrics.RecordsProduced.Swap(0)
	bytesOut := mod.metrics.BytesProduced.Swap(0)
	errs := mod.metrics.ProduceErrors.Swap(0)

	recordTime := time.Now()

	collection = []metrics.Metric{
		{
			Name:        "records_produced",
			Description: "Records acknowledged by the kafka cluster in the interval",
			Namespace:   mod.Namespace,
			Value:       metrics.MetricValue{Raw: produced, Unit: "count", Interval: interval},
			Type:        metrics.Counter,
			Timestamp:   recordTime,
		},
		{
			Name:        "bytes_produced",
			Description: "Message value bytes acknowledged by the kafka cluster in the interval",
			Namespace:   mod.Namespace,
			Value:       metrics.MetricValue{Raw: bytesOut, Unit: "bytes", Interval: interval},
			Type:        metrics.Counter,
			Timestamp:   recordTime,
		},
		{
			Name:        "produce_errors",
			Description: "Failed produce requests in the interval",
			Namespace:   mod.Namespace,
			Value:       metrics.MetricValue{Raw: errs, Unit: "count", Interval: interval},
			Type:        metrics.Counter,
			Timestamp:   recordTime,
		},
	}
	return
}

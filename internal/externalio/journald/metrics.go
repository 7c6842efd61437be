package journald

import (
	"detailq/internal/metrics"
	"time"
)

func (mod *OutModule) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	sent := mod.metrics.EntriesSent.Swap(0)
	sentBytes := mod.metrics.BytesSent.Swap(0)
	failed := mod.metrics.UploadErrors.Swap(0)
	recordTime := time.Now()

	collection = []metrics.Metric{
		{
			Name:        "entries_sent",
			Description: "Journal entries accepted by the remote journal in the interval",
			Namespace:   mod.Namespace,
			Value:       metrics.MetricValue{Raw: sent, Unit: "count", Interval: interval},
			Type:        metrics.Counter,
			Timestamp:   recordTime,
		},
		{
			Name:        "bytes_sent",
			Description: "Export format bytes uploaded in the interval",
			Namespace:   mod.Namespace,
			Value:       metrics.MetricValue{Raw: sentBytes, Unit: "bytes", Interval: interval},
			Type:        metrics.Counter,
			Timestamp:   recordTime,
		},
		{
			Name:        "upload_errors",
			Description: "Failed uploads to the remote journal in the interval",
			Namespace:   mod.Namespace,
			Value:       metrics.MetricValue{Raw: failed, Unit: "count", Interval: interval},
			Type:        metrics.Counter,
			Timestamp:   recordTime,
		},
	}
	return
}

package dispatch

import (
	"detailq/internal/metrics"
	"time"
)

func (lanes *Lanes) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	for _, queue := range lanes.queues {
		collection = append(collection, queue.CollectMetrics(interval)...)
	}

	collection = append(collection, metrics.Metric{
		Name:        "in_flight",
		Description: "Jobs queued or being processed",
		Namespace:   lanes.Namespace,
		Value: metrics.MetricValue{
			Raw:      lanes.InFlight.Load(),
			Unit:     "count",
			Interval: interval,
		},
		Type:      metrics.Gauge,
		Timestamp: time.Now(),
	})
	return
}

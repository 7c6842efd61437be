package manager

import (
	"detailq/internal/metrics"
	"time"
)

// Lane and per-worker metrics
func (manager *InstanceManager) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	collection = manager.Lanes.CollectMetrics(interval)

	manager.Mu.Lock()
	for _, instance := range manager.Instances {
		collection = append(collection, instance.Worker.CollectMetrics(interval)...)
	}
	workers := uint64(len(manager.Instances))
	manager.Mu.Unlock()

	collection = append(collection, metrics.Metric{
		Name:        "workers",
		Description: "Running dispatch workers",
		Namespace:   manager.Lanes.Namespace,
		Value: metrics.MetricValue{
			Raw:      workers,
			Unit:     "count",
			Interval: interval,
		},
		Type:      metrics.Gauge,
		Timestamp: time.Now(),
	})
	return
}

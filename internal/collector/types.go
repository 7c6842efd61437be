package collector

import (
	"detailq/internal/dispatch/manager"
	"detailq/internal/feed"
	"detailq/internal/metrics"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Source is anything reporting metrics once per interval
type Source interface {
	CollectMetrics(interval time.Duration) (collection []metrics.Metric)
}

type Gatherer struct {
	Registry  *metrics.Registry
	Exporter  *Exporter
	Feed      *feed.Instance
	Dispatch  *manager.InstanceManager
	Outputs   []Source
	Interval  time.Duration
	Retention time.Duration
}

// Exporter mirrors gathered metrics into a Prometheus registry
type Exporter struct {
	Registry *prometheus.Registry
	mu       sync.Mutex
	counters map[string]*prometheus.CounterVec
	gauges   map[string]*prometheus.GaugeVec
}

package collector

import (
	"detailq/internal/global"
	"detailq/internal/metrics"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const promNamespace = global.ProgBaseName

func NewExporter() (exporter *Exporter) {
	exporter = &Exporter{
		Registry: prometheus.NewRegistry(),
		counters: make(map[string]*prometheus.CounterVec),
		gauges:   make(map[string]*prometheus.GaugeVec),
	}
	exporter.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return
}

// Applies one interval of metrics. Interval counters are added to
// Prometheus counters, everything else is set as a gauge.
func (exporter *Exporter) Observe(collection []metrics.Metric) {
	exporter.mu.Lock()
	defer exporter.mu.Unlock()

	for _, metric := range collection {
		value, err := metric.Float()
		if err != nil {
			continue
		}
		component := strings.Join(metric.Namespace, "/")

		if metric.Type == metrics.Counter {
			if value < 0 {
				continue
			}
			exporter.counter(metric).WithLabelValues(component).Add(value)
			continue
		}
		exporter.gauge(metric).WithLabelValues(component).Set(value)
	}
}

func (exporter *Exporter) counter(metric metrics.Metric) (vec *prometheus.CounterVec) {
	name := promName(metric.Name, metric.Value.Unit) + "_total"
	vec, ok := exporter.counters[name]
	if ok {
		return
	}
	vec = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      name,
		Help:      metric.Description,
	}, []string{"component"})
	exporter.Registry.MustRegister(vec)
	exporter.counters[name] = vec
	return
}

func (exporter *Exporter) gauge(metric metrics.Metric) (vec *prometheus.GaugeVec) {
	name := promName(metric.Name, metric.Value.Unit)
	vec, ok := exporter.gauges[name]
	if ok {
		return
	}
	vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: promNamespace,
		Name:      name,
		Help:      metric.Description,
	}, []string{"component"})
	exporter.Registry.MustRegister(vec)
	exporter.gauges[name] = vec
	return
}

// Prometheus friendly metric name with a unit suffix where one applies
func promName(name, unit string) (out string) {
	out = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, name)

	switch unit {
	case "bytes":
		if !strings.Contains(out, "bytes") {
			out += "_bytes"
		}
	case "ns":
		out += "_nanoseconds"
	}
	return
}

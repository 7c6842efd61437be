// Writes processed records as text lines to standard output (or any writer)
package stdout

import (
	"context"
	"detailq/internal/externalio"
	"detailq/internal/global"
	"detailq/internal/metrics"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

type OutModule struct {
	Namespace []string
	mu        sync.Mutex
	sink      io.Writer
	lines     atomic.Uint64
}

// Creates new text line output. A nil writer selects os.Stdout.
func NewOutput(namespace []string, sink io.Writer) (module *OutModule) {
	if sink == nil {
		sink = os.Stdout
	}
	module = &OutModule{
		Namespace: append(append([]string{}, namespace...), global.NSoStdout),
		sink:      sink,
	}
	return
}

func (mod *OutModule) Name() string { return "stdout" }

// Writes one line per record, serialized across workers
func (mod *OutModule) Write(ctx context.Context, delivery externalio.Delivery) (err error) {
	line := externalio.FormatAsText(delivery) + "\n"

	mod.mu.Lock()
	defer mod.mu.Unlock()

	_, err = io.WriteString(mod.sink, line)
	if err != nil {
		return
	}
	mod.lines.Add(1)
	return
}

func (mod *OutModule) Flush() (err error) { return }

func (mod *OutModule) Shutdown() (err error) { return }

func (mod *OutModule) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	collection = []metrics.Metric{
		{
			Name:        "lines_written",
			Description: "Total lines written to standard output in the interval",
			Namespace:   mod.Namespace,
			Value: metrics.MetricValue{
				Raw:      mod.lines.Swap(0),
				Unit:     "count",
				Interval: interval,
			},
			Type:      metrics.Counter,
			Timestamp: time.Now(),
		},
	}
	return
}

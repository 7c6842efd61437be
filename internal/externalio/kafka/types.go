package kafka

import (
	"context"
	"sync/atomic"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Subset of the franz-go client used by the module
type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type OutModule struct {
	Namespace []string
	topic     string
	brokers   []string
	client    producer
	metrics   MetricStorage
}

type MetricStorage struct {
	RecordsProduced atomic.Uint64
	BytesProduced   atomic.Uint64
	ProduceErrors   atomic.Uint64
}

// JSON value of a produced record
type message struct {
	Timestamp  string            `json:"timestamp,omitempty"`
	ReceivedAt string            `json:"received_at"`
	Class      string            `json:"class"`
	Header     string            `json:"header"`
	Fields     map[string]string `json:"fields"`
	Done       bool              `json:"done,omitempty"`
	Priority   string            `json:"priority,omitempty"`
	Source     string            `json:"source"`
	Offset     int64             `json:"offset"`
	Host       string            `json:"host"`
}

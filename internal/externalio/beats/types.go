package beats

import (
	"sync"
	"sync/atomic"
)

// Subset of the lumberjack sync client used by the module
type eventSender interface {
	Send(data []interface{}) (int, error)
	Close() error
}

type OutModule struct {
	Namespace []string
	endpoint  string
	mu        sync.Mutex // lumberjack sync client is not safe for concurrent sends
	sink      eventSender
	metrics   MetricStorage
}

type MetricStorage struct {
	EventsSent atomic.Uint64
	SendErrors atomic.Uint64
}

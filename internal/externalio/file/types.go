package file

import (
	"io"
	"sync"
	"sync/atomic"
)

type OutModule struct {
	Namespace   []string
	path        string
	mu          sync.Mutex
	sink        io.WriteCloser
	batchBuffer []string
	batchSize   int // lines buffered before a flush, 1 writes through
	metrics     MetricStorage
}

type MetricStorage struct {
	LinesWritten atomic.Uint64 // lines flushed to the file
	BytesWritten atomic.Uint64 // bytes flushed to the file
	WriteErrors  atomic.Uint64 // failed flushes
}

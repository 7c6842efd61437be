package feed

import (
	"detailq/internal/detail"
	"detailq/internal/dispatch"
	"sync"
	"sync/atomic"
	"time"
)

// Config describes where detail files come from and how they are read.
type Config struct {
	Glob            string // pattern matching detail files waiting to be claimed
	WorkFile        string // claimed file path, defaults to detail.work next to Glob
	PollInterval    time.Duration
	RetryDelay      time.Duration // wait after a fatal stream error before reopening
	AckDrainTimeout time.Duration // shutdown wait for outstanding acknowledgments
	BufferSize      int
	MaxRecordSize   int
	Priorities      detail.PriorityTable
}

type Instance struct {
	Namespace   []string
	config      Config
	lanes       *dispatch.Lanes
	completions <-chan dispatch.Completion
	changed     chan struct{} // watcher and Rescan wake the read loop

	mu          sync.Mutex // guards stream swaps against metric collection
	stream      *detail.Stream
	buffer      *detail.Buffer
	undelivered atomic.Int64 // do-not-respond replies for the current stream

	Metrics *MetricStorage
}

type MetricStorage struct {
	FilesClaimed      atomic.Uint64 // detail files renamed to the work file (or resumed)
	FilesCompleted    atomic.Uint64 // work files fully acknowledged and removed
	FilesReplayed     atomic.Uint64 // work files reopened to retry undelivered records
	RecordsDispatched atomic.Uint64 // records pushed into the lanes
	AcksDelivered     atomic.Uint64 // completions that marked a record Done
	AcksSuppressed    atomic.Uint64 // completions with a do-not-respond reply
	AckErrors         atomic.Uint64 // completions the stream rejected
	FatalErrors       atomic.Uint64 // stream I/O failures forcing a reopen
	WatcherEvents     atomic.Uint64 // change notifications from inotify
}

// Priority lanes between the feed and the processing workers
package dispatch

import (
	"detailq/internal/detail"
	"detailq/internal/queue/mpmc"
	"sync/atomic"
	"time"
)

// Reply bodies handed back to the stream with a token
var (
	ReplyDone       = []byte{1} // delivered, mark the record Done
	ReplyNoResponse = []byte{0} // not delivered, leave for replay
)

// Job is one record waiting for a worker. Payload is owned by the job.
type Job struct {
	Token    *detail.Token
	Payload  []byte
	Priority detail.Priority
	Source   string // work file path
	Offset   int64  // record offset within Source
	ReadAt   time.Time
}

// Completion returns a token to the feed after processing.
type Completion struct {
	Token *detail.Token
	Reply []byte
}

// Delivered reports whether the reply asks for a Done marker.
func (completion Completion) Delivered() bool {
	return len(completion.Reply) > 0 && completion.Reply[0] != 0
}

// Lanes holds one queue per priority level, served highest first.
type Lanes struct {
	Namespace []string
	queues    [len(levelOrder)]*mpmc.Queue[Job]
	wake      chan struct{} // shared across lanes, buffered 1
	InFlight  atomic.Uint64 // jobs pushed and not yet finished
}

// Lane index order, highest priority first
var levelOrder = [...]detail.Priority{
	detail.PriorityImmediate,
	detail.PriorityHigh,
	detail.PriorityNormal,
	detail.PriorityLow,
}

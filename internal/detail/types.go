package detail

import (
	"io"
	"os"
	"sync/atomic"
	"time"
)

// File is the handle a Stream reads from and rewrites Done markers into.
// *os.File satisfies it.
type File interface {
	io.ReadWriteSeeker
	io.Closer
	Stat() (os.FileInfo, error)
}

// Stream is the read/acknowledge state of one open detail file.
// It is not safe for concurrent use; a single owner serializes
// ReadNext, Acknowledge and Close.
type Stream struct {
	Namespace []string

	file     File
	filePath string

	fileSize     int64 // size at open, soft upper bound of the read region
	headerOffset int64 // file offset of the next unparsed record
	readOffset   int64 // cursor position as of the last seek or read
	lastRead     int64 // cursor position right after the read that hit EOF

	eof        bool
	closing    bool
	closed     bool
	discarding bool // dropping the tail of a record larger than the buffer

	outstanding atomic.Int64

	maxRecordSize int
	priorities    PriorityTable
	now           func() time.Time

	metrics MetricStorage
}

// Options configures a Stream at construction.
type Options struct {
	Namespace     []string
	MaxRecordSize int           // records longer than this are dropped; <= 0 selects the default
	Priorities    PriorityTable // class byte to priority; nil maps everything to normal
	Clock         func() time.Time
}

// Token correlates a surfaced record with its later acknowledgment.
// It is handed out by ReadNext and consumed exactly once by Acknowledge.
type Token struct {
	CreatedAt  time.Time
	DoneOffset int64 // absolute offset to rewrite with Done, 0 when the record has no Timestamp tag

	stream   *Stream
	released bool
}

// Record is one complete record surfaced by ReadNext. The zero value means
// no record was produced.
type Record struct {
	Payload  []byte // view into the caller's Buffer, valid until the next ReadNext
	Offset   int64  // file offset of the first payload byte
	Token    *Token
	Priority Priority
}

type MetricStorage struct {
	RecordsRead     atomic.Uint64 // records surfaced to the caller
	BytesRead       atomic.Uint64 // bytes read from the file
	SkippedOversize atomic.Uint64 // records dropped for exceeding the size limit
	SkippedDone     atomic.Uint64 // records dropped because they were already marked Done
	Acknowledged    atomic.Uint64 // tokens released
	MarkedDone      atomic.Uint64 // Done markers written
	Suppressed      atomic.Uint64 // acknowledgments with a do-not-respond reply
}

// Empty reports whether the record carries nothing.
func (rec Record) Empty() bool {
	return rec.Token == nil
}

// Len is the record length in bytes, terminator included.
func (rec Record) Len() int {
	return len(rec.Payload)
}

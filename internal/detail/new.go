package detail

import (
	"detailq/internal/global"
	"fmt"
	"os"
	"time"
)

// Opens detail file read-write and wraps it in a stream
func Open(path string, opts Options) (stream *Stream, err error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		err = fmt.Errorf("failed to open detail file: %w", err)
		return
	}

	stream, err = NewStream(file, opts)
	if err != nil {
		_ = file.Close()
		return
	}
	stream.filePath = path
	return
}

// Creates stream over an already open file, capturing its current size
func NewStream(file File, opts Options) (stream *Stream, err error) {
	info, err := file.Stat()
	if err != nil {
		err = fmt.Errorf("failed to stat detail file: %w", err)
		return
	}

	maxSize := opts.MaxRecordSize
	if maxSize <= 0 {
		maxSize = global.DefaultMaxRecordSize
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	stream = &Stream{
		Namespace:     append(append([]string{}, opts.Namespace...), global.NSStream),
		file:          file,
		fileSize:      info.Size(),
		maxRecordSize: maxSize,
		priorities:    opts.Priorities,
		now:           clock,
	}
	return
}

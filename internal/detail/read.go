package detail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

var (
	doneTag      = []byte("\tDone")
	timestampTag = []byte("\tTimestamp")
)

// ReadNext surfaces at most one complete record from the stream.
//
// An empty Record with a nil error means nothing is available yet, or, once
// Closing reports true, that nothing ever will be. Records larger than the
// configured maximum and records already marked Done are skipped without
// returning. Any error other than a contract violation leaves the stream
// unusable and the caller should close it.
func (stream *Stream) ReadNext(buf *Buffer) (rec Record, err error) {
	if stream.closed {
		err = ErrClosed
		return
	}

	buf.compact()
	if buf.end >= len(buf.data) {
		err = ErrLeftoverOverflow
		return
	}

	if stream.closing {
		stream.readOffset, err = stream.file.Seek(stream.fileSize, io.SeekStart)
		if err != nil {
			err = fmt.Errorf("failed to seek to end of detail file: %w", err)
		}
		return
	}

	if !stream.eof {
		err = stream.fill(buf)
		if err != nil {
			return
		}
	}

	for {
		length, found := buf.nextDelimiter()
		if !found {
			if !stream.eof {
				if buf.start > 0 {
					// Skipped records freed room, the tail may finish with another read
					buf.compact()
					err = stream.fill(buf)
					if err != nil {
						return
					}
					continue
				}
				if buf.end == len(buf.data) {
					stream.discard(buf)
				}
				return
			}
			// Whatever remains at EOF is the final record, delimiter or not
			length = buf.Leftover()
		}

		offset := stream.headerOffset
		payload := buf.consume(length)

		if length == 0 {
			err = stream.rewind(buf)
			return
		}

		var doneOffset int64
		skip := false
		if stream.discarding {
			stream.discarding = false
			skip = true
			stream.metrics.SkippedOversize.Add(1)
		} else if length > stream.maxRecordSize {
			skip = true
			stream.metrics.SkippedOversize.Add(1)
		} else {
			var done bool
			doneOffset, done = scanTags(payload, offset)
			if done {
				skip = true
				stream.metrics.SkippedDone.Add(1)
			}
		}

		if skip {
			stream.headerOffset += int64(length)
			if found {
				continue
			}
			err = stream.rewind(buf)
			return
		}

		rec = Record{
			Payload: payload,
			Offset:  offset,
			Token: &Token{
				CreatedAt:  stream.now(),
				DoneOffset: doneOffset,
				stream:     stream,
			},
			Priority: stream.priorities.Lookup(payload[0]),
		}
		stream.headerOffset += int64(length)
		stream.outstanding.Add(1)
		stream.metrics.RecordsRead.Add(1)

		if stream.eof {
			err = stream.rewind(buf)
		}
		return
	}
}

// Reads as much as fits after the carried-over bytes
func (stream *Stream) fill(buf *Buffer) (err error) {
	n, err := stream.file.Read(buf.room())
	if err != nil && !errors.Is(err, io.EOF) {
		err = fmt.Errorf("failed to read detail file: %w", err)
		return
	}
	err = nil

	buf.end += n
	stream.readOffset += int64(n)
	stream.metrics.BytesRead.Add(uint64(n))

	if n == 0 || stream.readOffset >= stream.fileSize {
		stream.eof = true
		stream.lastRead = stream.readOffset
	}
	return
}

// Drops a buffer full of bytes that cannot finish inside the buffer. A
// trailing newline is kept so a delimiter split by the next read is found.
func (stream *Stream) discard(buf *Buffer) {
	keep := 0
	if buf.data[buf.end-1] == '\n' {
		keep = 1
	}
	dropped := buf.Leftover() - keep
	buf.consume(dropped)
	buf.scanned = keep

	stream.headerOffset += int64(dropped)
	stream.discarding = true
}

// Leaves the cursor one byte before where the EOF read ended, so the next
// poll has to read again before believing there is nothing more. Moves the
// stream to closing once nothing is carried over.
func (stream *Stream) rewind(buf *Buffer) (err error) {
	target := max(stream.lastRead-1, 0)
	stream.readOffset, err = stream.file.Seek(target, io.SeekStart)
	if err != nil {
		err = fmt.Errorf("failed to rewind detail file cursor: %w", err)
		return
	}

	if buf.Leftover() == 0 {
		stream.closing = true
	}
	return
}

// Looks at every newline-prefixed tag of a record. Returns the absolute
// offset just past the "\n\t" of the last Timestamp tag, and whether the
// record carries a Done tag.
func scanTags(payload []byte, recordOffset int64) (doneOffset int64, done bool) {
	for i := 0; i < len(payload); i++ {
		if payload[i] != '\n' {
			continue
		}
		tag := payload[i+1:]
		if bytes.HasPrefix(tag, doneTag) {
			done = true
			return
		}
		if bytes.HasPrefix(tag, timestampTag) {
			doneOffset = recordOffset + int64(i+2)
		}
	}
	return
}

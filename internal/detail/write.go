package detail

import (
	"fmt"
	"io"
)

var doneMarker = []byte("Done")

// Acknowledge releases a token handed out by ReadNext. Unless the first
// reply byte is zero (do-not-respond), the record's Timestamp tag is
// overwritten in place with Done and the read cursor restored. Returns the
// number of reply bytes consumed.
func (stream *Stream) Acknowledge(token *Token, reply []byte) (consumed int, err error) {
	if len(reply) < 1 {
		err = ErrEmptyReply
		return
	}
	if stream.closed {
		err = ErrClosed
		return
	}
	if stream.outstanding.Load() <= 0 {
		err = ErrNoOutstanding
		return
	}
	if token == nil || token.stream != stream {
		err = ErrForeignToken
		return
	}
	if token.released {
		err = ErrTokenReleased
		return
	}

	stream.outstanding.Add(-1)
	token.released = true
	stream.metrics.Acknowledged.Add(1)

	if reply[0] == 0 {
		stream.metrics.Suppressed.Add(1)
	} else if token.DoneOffset > 0 {
		err = stream.markDone(token.DoneOffset)
		if err != nil {
			return
		}
		stream.metrics.MarkedDone.Add(1)
	}

	consumed = len(reply)
	return
}

// Writes the Done marker at offset, then puts the cursor back where reading left off
func (stream *Stream) markDone(offset int64) (err error) {
	_, err = stream.file.Seek(offset, io.SeekStart)
	if err != nil {
		err = fmt.Errorf("failed to seek to done marker at offset %d: %w", offset, err)
		return
	}

	n, err := stream.file.Write(doneMarker)
	if err == nil && n != len(doneMarker) {
		err = io.ErrShortWrite
	}
	if err != nil {
		err = fmt.Errorf("failed to write done marker at offset %d: %w", offset, err)
		return
	}

	_, err = stream.file.Seek(stream.readOffset, io.SeekStart)
	if err != nil {
		err = fmt.Errorf("failed to restore read cursor to offset %d: %w", stream.readOffset, err)
		return
	}
	return
}

package detail

import "fmt"

// Close releases the file. Tokens still outstanding become orphaned and
// acknowledging them returns ErrClosed.
func (stream *Stream) Close() (err error) {
	if stream.closed {
		return
	}
	stream.closed = true
	stream.closing = true

	err = stream.file.Close()
	if err != nil {
		err = fmt.Errorf("failed to close detail file: %w", err)
	}
	return
}

func (stream *Stream) Outstanding() int64  { return stream.outstanding.Load() }
func (stream *Stream) HeaderOffset() int64 { return stream.headerOffset }
func (stream *Stream) ReadOffset() int64   { return stream.readOffset }
func (stream *Stream) FileSize() int64     { return stream.fileSize }
func (stream *Stream) AtEOF() bool         { return stream.eof }
func (stream *Stream) Closing() bool       { return stream.closing }
func (stream *Stream) Closed() bool        { return stream.closed }
func (stream *Stream) Path() string        { return stream.filePath }

// Drained reports that the stream will produce no more records and every
// record it produced has been acknowledged. The owner should close it.
func (stream *Stream) Drained() bool {
	return stream.closing && stream.outstanding.Load() == 0
}

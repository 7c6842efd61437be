package detail

// Buffer is the caller-owned transport buffer. Bytes in [start, end) are
// carried between ReadNext calls; the first scanned of them are known to
// hold no delimiter.
type Buffer struct {
	data    []byte
	start   int
	end     int
	scanned int
}

// Creates transport buffer of fixed size
func NewBuffer(size int) (buf *Buffer) {
	if size < 2 {
		size = 2
	}
	buf = &Buffer{data: make([]byte, size)}
	return
}

// Leftover is the number of carried-over bytes not yet part of a record.
func (buf *Buffer) Leftover() int {
	return buf.end - buf.start
}

// Cap is the total buffer size.
func (buf *Buffer) Cap() int {
	return len(buf.data)
}

// Reset drops all carried bytes. Callers reset before reusing a buffer on a new stream.
func (buf *Buffer) Reset() {
	buf.start = 0
	buf.end = 0
	buf.scanned = 0
}

// Moves the unconsumed region to the front of the buffer
func (buf *Buffer) compact() {
	if buf.start == 0 {
		return
	}
	n := copy(buf.data, buf.data[buf.start:buf.end])
	buf.start = 0
	buf.end = n
}

// Returns the length of the record ending in the first "\n\n" of the
// unconsumed region, delimiter included. A newline that is the last
// filled byte is never treated as the first half of a delimiter.
func (buf *Buffer) nextDelimiter() (length int, found bool) {
	from := max(buf.scanned-1, 0)
	region := buf.data[buf.start:buf.end]
	for i := from; i < len(region)-1; i++ {
		if region[i] != '\n' {
			continue
		}
		if region[i+1] == '\n' {
			length = i + 2
			found = true
			return
		}
	}
	buf.scanned = len(region)
	return
}

// Consumes n bytes from the front of the unconsumed region
func (buf *Buffer) consume(n int) (view []byte) {
	view = buf.data[buf.start : buf.start+n]
	buf.start += n
	buf.scanned = 0
	return
}

// Free space after the filled region
func (buf *Buffer) room() []byte {
	return buf.data[buf.end:]
}

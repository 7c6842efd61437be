package file

import (
	"context"
	"detailq/internal/externalio"
	"sort"
	"strings"
	"time"
)

// Writes record and associated metadata in one line to configured file
func (mod *OutModule) Write(ctx context.Context, delivery externalio.Delivery) (err error) {
	if mod == nil {
		return
	}

	newLine := externalio.FormatAsText(delivery)

	// Always ensure outputs have only one trailing newline
	if !strings.HasSuffix(newLine, "\n") {
		newLine += "\n"
	}

	mod.mu.Lock()
	defer mod.mu.Unlock()

	// Buffer small amount to reorder and write in batches
	mod.batchBuffer = append(mod.batchBuffer, newLine)
	if len(mod.batchBuffer) >= mod.batchSize {
		err = mod.flushLocked()
	}
	return
}

// Flushes line buffer to the file
func (mod *OutModule) Flush() (err error) {
	if mod == nil {
		return
	}
	mod.mu.Lock()
	defer mod.mu.Unlock()
	err = mod.flushLocked()
	return
}

func (mod *OutModule) flushLocked() (err error) {
	if len(mod.batchBuffer) == 0 {
		return
	}

	sort.SliceStable(mod.batchBuffer, func(i, j int) bool {
		// Extract timestamp prefix (up to first space)
		getTime := func(s string) time.Time {
			ts := s
			if idx := strings.IndexByte(s, ' '); idx != -1 {
				ts = s[:idx]
			}
			t, err := time.Parse(time.RFC3339Nano, ts)
			if err != nil {
				return time.Time{} // zero time on error
			}
			return t
		}

		// Oldest first
		return getTime(mod.batchBuffer[i]).Before(getTime(mod.batchBuffer[j]))
	})

	for idx, line := range mod.batchBuffer {
		data := []byte(line)
		for len(data) > 0 {
			var n int
			n, err = mod.sink.Write(data)
			if err != nil {
				mod.metrics.WriteErrors.Add(1)
				// Keep what was not written for the next flush
				mod.batchBuffer = append(mod.batchBuffer[:0], mod.batchBuffer[idx:]...)
				if len(data) < len(line) {
					mod.batchBuffer[0] = string(data)
				}
				return
			}
			mod.metrics.BytesWritten.Add(uint64(n))
			data = data[n:] // remove the bytes that were successfully written
		}
		mod.metrics.LinesWritten.Add(1)
	}

	// All writes succeeded, empty buffer
	mod.batchBuffer = mod.batchBuffer[:0]
	return
}

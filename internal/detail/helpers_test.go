package detail

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected I/O failure")

// Limits each Read to the next chunk size, then reads normally
type chunkedFile struct {
	*os.File
	chunks []int
}

func (f *chunkedFile) Read(p []byte) (int, error) {
	if len(f.chunks) > 0 {
		n := f.chunks[0]
		f.chunks = f.chunks[1:]
		if n < len(p) {
			p = p[:n]
		}
	}
	return f.File.Read(p)
}

// Fails reads or writes on demand
type faultyFile struct {
	*os.File
	failRead  bool
	failWrite bool
}

func (f *faultyFile) Read(p []byte) (int, error) {
	if f.failRead {
		return 0, errInjected
	}
	return f.File.Read(p)
}

func (f *faultyFile) Write(p []byte) (int, error) {
	if f.failWrite {
		return 0, errInjected
	}
	return f.File.Write(p)
}

type readResult struct {
	payload string
	offset  int64
	token   *Token
	prio    Priority
}

func writeDetailFile(t *testing.T, content string) (path string) {
	t.Helper()
	path = filepath.Join(t.TempDir(), "detail.work")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return
}

func openStream(t *testing.T, content string, opts Options) (stream *Stream, path string) {
	t.Helper()
	path = writeDetailFile(t, content)
	stream, err := Open(path, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stream.Close() })
	return
}

func openRaw(t *testing.T, content string) (file *os.File) {
	t.Helper()
	path := writeDetailFile(t, content)
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })
	return
}

// Drives ReadNext until the stream is closing, copying every payload
func readAll(t *testing.T, stream *Stream, buf *Buffer) (results []readResult) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		rec, err := stream.ReadNext(buf)
		require.NoError(t, err)
		if !rec.Empty() {
			results = append(results, readResult{
				payload: string(rec.Payload),
				offset:  rec.Offset,
				token:   rec.Token,
				prio:    rec.Priority,
			})
			continue
		}
		if stream.Closing() {
			return
		}
	}
	t.Fatalf("stream never reached closing")
	return
}

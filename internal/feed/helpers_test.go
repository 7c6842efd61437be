package feed

import (
	"bytes"
	"context"
	"detailq/internal/detail"
	"detailq/internal/dispatch"
	"detailq/internal/global"
	"detailq/internal/logctx"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Writes a detail file of count records, each tagged with a Timestamp
func writeRecords(t *testing.T, path string, prefix string, count int) {
	t.Helper()
	var out bytes.Buffer
	for i := 0; i < count; i++ {
		_, err := detail.AppendRecord(&out, detail.Entry{
			Header:    fmt.Sprintf("%s record %d", prefix, i),
			Fields:    []detail.Field{{Name: "Seq", Value: fmt.Sprint(i)}},
			Timestamp: time.Unix(1700000000+int64(i), 0),
		})
		require.NoError(t, err)
	}

	// Staged outside the pattern so the feed never claims a half-written file
	staging := filepath.Join(filepath.Dir(path), ".staging-"+filepath.Base(path))
	require.NoError(t, os.WriteFile(staging, out.Bytes(), 0o600))
	require.NoError(t, os.Rename(staging, path))
}

type harness struct {
	dir         string
	feed        *Instance
	lanes       *dispatch.Lanes
	completions chan dispatch.Completion
	cancel      context.CancelFunc
	done        chan struct{}
}

func newHarness(t *testing.T, dir string) *harness {
	t.Helper()

	lanes, err := dispatch.NewLanes([]string{global.NSTest}, 64)
	require.NoError(t, err)
	completions := make(chan dispatch.Completion, 256)

	feed, err := New([]string{global.NSTest}, Config{
		Glob:            filepath.Join(dir, "detail-*"),
		PollInterval:    10 * time.Millisecond,
		RetryDelay:      10 * time.Millisecond,
		AckDrainTimeout: 2 * time.Second,
		BufferSize:      4096,
	}, lanes, completions)
	require.NoError(t, err)

	return &harness{dir: dir, feed: feed, lanes: lanes, completions: completions}
}

func (h *harness) start() {
	ctx := logctx.New(context.Background(), global.NSTest, global.VerbosityNone, nil)
	ctx, h.cancel = context.WithCancel(ctx)
	h.done = make(chan struct{})
	go func() {
		defer close(h.done)
		h.feed.Run(ctx)
	}()
}

func (h *harness) stop(t *testing.T) {
	t.Helper()
	h.cancel()
	select {
	case <-h.done:
	case <-time.After(5 * time.Second):
		t.Fatalf("feed did not stop")
	}
}

// Pops jobs and answers each with reply(job)
type fakeWorker struct {
	mu   sync.Mutex
	seen []string
}

func (w *fakeWorker) run(ctx context.Context, h *harness, reply func(job dispatch.Job) []byte) {
	for {
		job, ok := h.lanes.Pop(ctx)
		if !ok {
			return
		}
		w.mu.Lock()
		w.seen = append(w.seen, string(job.Payload))
		w.mu.Unlock()

		select {
		case h.completions <- dispatch.Completion{Token: job.Token, Reply: reply(job)}:
		case <-ctx.Done():
		}
		h.lanes.Finish()
	}
}

func (w *fakeWorker) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.seen)
}

func (w *fakeWorker) payloads() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string{}, w.seen...)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

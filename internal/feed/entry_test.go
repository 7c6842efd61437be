package feed

import (
	"context"
	"detailq/internal/dispatch"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRun_ConsumesFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeRecords(t, filepath.Join(dir, "detail-1"), "first", 5)
	writeRecords(t, filepath.Join(dir, "detail-2"), "second", 3)

	h := newHarness(t, dir)
	worker := &fakeWorker{}
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go worker.run(workerCtx, h, func(job dispatch.Job) []byte { return dispatch.ReplyDone })

	h.start()
	require.Eventually(t, func() bool {
		return worker.count() == 8 &&
			!exists(h.feed.WorkFile()) &&
			!exists(filepath.Join(dir, "detail-1")) &&
			!exists(filepath.Join(dir, "detail-2"))
	}, 5*time.Second, 10*time.Millisecond)
	h.stop(t)

	payloads := worker.payloads()
	for i, payload := range payloads[:5] {
		require.True(t, strings.HasPrefix(payload, "first record"), "record %d: %q", i, payload)
	}
	for i, payload := range payloads[5:] {
		require.True(t, strings.HasPrefix(payload, "second record"), "record %d: %q", i+5, payload)
	}

	require.EqualValues(t, 2, h.feed.Metrics.FilesClaimed.Load())
	require.EqualValues(t, 2, h.feed.Metrics.FilesCompleted.Load())
	require.EqualValues(t, 8, h.feed.Metrics.RecordsDispatched.Load())
	require.EqualValues(t, 8, h.feed.Metrics.AcksDelivered.Load())
}

func TestRun_PicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(t, dir)
	worker := &fakeWorker{}
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go worker.run(workerCtx, h, func(job dispatch.Job) []byte { return dispatch.ReplyDone })

	h.start()
	defer h.stop(t)

	time.Sleep(30 * time.Millisecond)
	require.Zero(t, worker.count())

	writeRecords(t, filepath.Join(dir, "detail-late"), "late", 2)
	require.Eventually(t, func() bool {
		return worker.count() == 2 && !exists(h.feed.WorkFile())
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRun_ReplaysUndelivered(t *testing.T) {
	dir := t.TempDir()
	writeRecords(t, filepath.Join(dir, "detail-1"), "replay", 4)

	h := newHarness(t, dir)
	worker := &fakeWorker{}
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	// Record 2 fails on its first delivery only
	failedOnce := false
	go worker.run(workerCtx, h, func(job dispatch.Job) []byte {
		if strings.HasPrefix(string(job.Payload), "replay record 2") && !failedOnce {
			failedOnce = true
			return dispatch.ReplyNoResponse
		}
		return dispatch.ReplyDone
	})

	h.start()
	require.Eventually(t, func() bool {
		return worker.count() == 5 && !exists(h.feed.WorkFile())
	}, 5*time.Second, 10*time.Millisecond)
	h.stop(t)

	// Everything else was marked Done on the first pass and skipped on replay
	payloads := worker.payloads()
	require.True(t, strings.HasPrefix(payloads[4], "replay record 2"), "replayed %q", payloads[4])
	require.EqualValues(t, 1, h.feed.Metrics.FilesReplayed.Load())
	require.EqualValues(t, 1, h.feed.Metrics.AcksSuppressed.Load())
	require.EqualValues(t, 2, h.feed.Metrics.FilesClaimed.Load())
}

func TestRun_ShutdownWaitsForAcknowledgments(t *testing.T) {
	dir := t.TempDir()
	writeRecords(t, filepath.Join(dir, "detail-1"), "held", 2)

	h := newHarness(t, dir)
	h.start()

	// Collect both jobs without answering
	popCtx, cancelPop := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPop()
	var jobs []dispatch.Job
	for len(jobs) < 2 {
		job, ok := h.lanes.Pop(popCtx)
		require.True(t, ok, "timed out waiting for dispatched jobs")
		jobs = append(jobs, job)
	}

	h.cancel()

	// Answer after shutdown began
	time.Sleep(20 * time.Millisecond)
	for _, job := range jobs {
		h.completions <- dispatch.Completion{Token: job.Token, Reply: dispatch.ReplyDone}
	}

	select {
	case <-h.done:
	case <-time.After(5 * time.Second):
		t.Fatalf("feed did not stop")
	}

	require.EqualValues(t, 2, h.feed.Metrics.AcksDelivered.Load())
	require.False(t, exists(h.feed.WorkFile()), "fully acknowledged work file should be removed")
}

func TestRun_ShutdownLeavesUnacknowledgedWorkFile(t *testing.T) {
	dir := t.TempDir()
	writeRecords(t, filepath.Join(dir, "detail-1"), "lost", 3)

	h := newHarness(t, dir)
	h.feed.config.AckDrainTimeout = 50 * time.Millisecond
	h.start()

	popCtx, cancelPop := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPop()
	first, ok := h.lanes.Pop(popCtx)
	require.True(t, ok)

	// Only the first record is acknowledged
	h.completions <- dispatch.Completion{Token: first.Token, Reply: dispatch.ReplyDone}
	require.Eventually(t, func() bool {
		return h.feed.Metrics.AcksDelivered.Load() == 1
	}, 5*time.Second, 5*time.Millisecond)

	h.stop(t)

	content, err := os.ReadFile(h.feed.WorkFile())
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(content), "\tDonestamp"))
	require.Equal(t, 2, strings.Count(string(content), "\tTimestamp"))
}

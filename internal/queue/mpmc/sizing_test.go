package mpmc

import (
	"context"
	"detailq/internal/global"
	"testing"
)

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{64, 64},
		{65, 128},
		{4095, 4096},
	}

	for _, tt := range tests {
		if got := nextPowerOfTwo(tt.in); got != tt.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCapacityFor(t *testing.T) {
	tests := []struct {
		name      string
		itemBytes uint64
		min       int
		max       int
		wantMax   uint64
		wantMin   uint64
	}{
		{"SmallItems", 64, 64, 4096, 4096, 64},
		{"MaxNotPowerOfTwo", 64, 16, 1000, 512, 16},
		{"MinAboveMax", 64, 128, 32, 128, 128},
		{"MinBelowTwo", 0, 0, 8, 8, 2},
		{"HugeItemsClampToMin", 1 << 50, 32, 4096, 4096, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CapacityFor(tt.itemBytes, tt.min, tt.max)
			if got&(got-1) != 0 {
				t.Fatalf("capacity %d is not a power of two", got)
			}
			if got > tt.wantMax || got < tt.wantMin {
				t.Fatalf("capacity %d outside [%d, %d]", got, tt.wantMin, tt.wantMax)
			}
			if _, err := New[int]([]string{global.NSTest}, got); err != nil {
				t.Fatalf("capacity %d rejected by New: %v", got, err)
			}
		})
	}
}

func TestTryPopAndLen(t *testing.T) {
	queue, err := New[string]([]string{global.NSTest}, 4)
	if err != nil {
		t.Fatalf("expected no error in creating queue, but got '%v'", err)
	}

	if _, ok := queue.TryPop(); ok {
		t.Fatalf("expected empty queue to report no element")
	}

	if err := queue.PushBlocking(context.Background(), "abc", 3); err != nil {
		t.Fatalf("unexpected push error: %v", err)
	}
	queue.Push("de")

	if queue.Len() != 2 {
		t.Fatalf("expected depth 2, got %d", queue.Len())
	}
	if got := queue.Metrics.Bytes.Load(); got != 3 {
		t.Fatalf("expected byte sum 3, got %d", got)
	}

	v, ok := queue.TryPop()
	if !ok || v != "abc" {
		t.Fatalf("expected abc, got %q (%v)", v, ok)
	}
	if got := queue.Metrics.Bytes.Load(); got != 0 {
		t.Fatalf("expected byte sum 0 after pop, got %d", got)
	}
	if queue.Len() != 1 {
		t.Fatalf("expected depth 1, got %d", queue.Len())
	}
}

func TestPushBlockingCancelled(t *testing.T) {
	queue, err := New[int]([]string{global.NSTest}, 2)
	if err != nil {
		t.Fatalf("expected no error in creating queue, but got '%v'", err)
	}
	queue.Push(1)
	queue.Push(2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := queue.PushBlocking(ctx, 3, 1); err == nil {
		t.Fatalf("expected error pushing into full queue with cancelled context")
	}
}

func TestCollectMetrics(t *testing.T) {
	queue, err := New[int]([]string{global.NSTest}, 4)
	if err != nil {
		t.Fatalf("expected no error in creating queue, but got '%v'", err)
	}
	for i := 0; i < 5; i++ {
		queue.Push(i)
	}
	queue.TryPop()

	collection := queue.CollectMetrics(0)
	values := make(map[string]uint64)
	for _, m := range collection {
		values[m.Name] = m.Value.Raw.(uint64)
	}

	tests := []struct {
		name string
		want uint64
	}{
		{"depth", 3},
		{"capacity", 4},
		{"push_attempts", 5},
		{"push_success", 4},
		{"push_full", 1},
		{"pop_success", 1},
	}
	for _, tt := range tests {
		if values[tt.name] != tt.want {
			t.Errorf("metric %s = %d, want %d", tt.name, values[tt.name], tt.want)
		}
	}

	// Counters reset on collection
	for _, m := range queue.CollectMetrics(0) {
		if m.Name == "push_attempts" && m.Value.Raw.(uint64) != 0 {
			t.Errorf("push_attempts not reset after collection")
		}
	}
}

package atomics

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// In-flight job counter drained by workers finishing in the background
func TestWaitUntilZero(t *testing.T) {
	tests := []struct {
		name        string
		inFlight    uint64
		finishAfter time.Duration // zero leaves the jobs stuck
		timeout     time.Duration
		wantDrained bool
	}{
		{"nothing in flight", 0, 0, 200 * time.Millisecond, true},
		{"workers finish in time", 4, 80 * time.Millisecond, time.Second, true},
		{"workers stuck", 3, 0, 150 * time.Millisecond, false},
		{"workers finish too late", 2, 600 * time.Millisecond, 100 * time.Millisecond, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var inFlight atomic.Uint64
			inFlight.Store(tt.inFlight)

			if tt.finishAfter > 0 {
				go func() {
					time.Sleep(tt.finishAfter)
					for range tt.inFlight {
						inFlight.Add(^uint64(0))
					}
				}()
			}

			start := time.Now()
			drained, last := WaitUntilZero(context.Background(), &inFlight, tt.timeout)
			elapsed := time.Since(start)

			if drained != tt.wantDrained {
				t.Fatalf("drained=%v, expected %v (last=%d)", drained, tt.wantDrained, last)
			}
			if drained && last != 0 {
				t.Fatalf("drained with last value %d", last)
			}
			if !drained && last == 0 {
				t.Fatalf("gave up while last value read was zero")
			}
			if elapsed > tt.timeout+250*time.Millisecond {
				t.Fatalf("wait overran its timeout: %s", elapsed)
			}
		})
	}
}

func TestWaitUntilZero_RequiresStableZero(t *testing.T) {
	var inFlight atomic.Uint64

	// Counter bounces off zero once before settling
	go func() {
		time.Sleep(10 * time.Millisecond)
		inFlight.Store(1)
		time.Sleep(60 * time.Millisecond)
		inFlight.Store(0)
	}()

	start := time.Now()
	drained, _ := WaitUntilZero(context.Background(), &inFlight, 2*time.Second)
	if !drained {
		t.Fatalf("expected drain once the counter settles")
	}
	if time.Since(start) < 70*time.Millisecond {
		t.Fatalf("returned before the counter settled")
	}
}

func TestWaitUntilZero_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var inFlight atomic.Uint64
	inFlight.Store(1)

	start := time.Now()
	drained, last := WaitUntilZero(ctx, &inFlight, 5*time.Second)
	if drained || last != 1 {
		t.Fatalf("expected cancelled wait to report not drained with last=1, got %v/%d", drained, last)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("cancelled wait did not return promptly")
	}
}

func TestWaitUntilZero_LoaderFunc(t *testing.T) {
	var signed atomic.Int64
	signed.Store(2)
	go func() {
		time.Sleep(50 * time.Millisecond)
		signed.Store(0)
	}()

	loader := LoaderFunc(func() uint64 { return uint64(max(signed.Load(), 0)) })
	drained, _ := WaitUntilZero(context.Background(), loader, time.Second)
	if !drained {
		t.Fatalf("expected signed counter to reach zero")
	}
}

package manager

import (
	"context"
	"detailq/internal/detail"
	"detailq/internal/dispatch"
	"detailq/internal/externalio"
	"detailq/internal/global"
	"detailq/internal/logctx"
	"testing"
	"time"
)

type nopOutput struct{}

func (nopOutput) Name() string                                           { return "nop" }
func (nopOutput) Write(ctx context.Context, d externalio.Delivery) error { return nil }
func (nopOutput) Flush() error                                           { return nil }
func (nopOutput) Shutdown() error                                        { return nil }

func newTestManager(t *testing.T, capacity uint64, minInsts, maxInsts int) (*InstanceManager, chan dispatch.Completion) {
	t.Helper()

	ctx := logctx.New(context.Background(), global.NSTest, global.VerbosityNone, nil)
	lanes, err := dispatch.NewLanes([]string{global.NSTest}, capacity)
	if err != nil {
		t.Fatalf("NewLanes: %v", err)
	}
	completions := make(chan dispatch.Completion, 64)

	manager, err := NewInstanceManager(ctx, lanes, []externalio.Output{nopOutput{}}, completions, minInsts, maxInsts)
	if err != nil {
		t.Fatalf("NewInstanceManager: %v", err)
	}
	t.Cleanup(manager.Shutdown)
	return manager, completions
}

func TestNewInstanceManager_Validation(t *testing.T) {
	lanes, err := dispatch.NewLanes([]string{global.NSTest}, 4)
	if err != nil {
		t.Fatalf("NewLanes: %v", err)
	}
	ctx := context.Background()

	tests := []struct {
		name        string
		lanes       *dispatch.Lanes
		completions chan dispatch.Completion
		min, max    int
		wantErr     bool
		wantMin     int
		wantMax     int
	}{
		{name: "bounds kept", lanes: lanes, completions: make(chan dispatch.Completion), min: 2, max: 6, wantMin: 2, wantMax: 6},
		{name: "min raised to one", lanes: lanes, completions: make(chan dispatch.Completion), min: 0, max: 3, wantMin: 1, wantMax: 3},
		{name: "max raised to min", lanes: lanes, completions: make(chan dispatch.Completion), min: 4, max: 1, wantMin: 4, wantMax: 4},
		{name: "missing lanes", completions: make(chan dispatch.Completion), min: 1, max: 1, wantErr: true},
		{name: "missing completions", lanes: lanes, min: 1, max: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, err := NewInstanceManager(ctx, tt.lanes, nil, tt.completions, tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if manager.MinInstCount != tt.wantMin || manager.MaxInstCount != tt.wantMax {
				t.Fatalf("bounds = [%d,%d], want [%d,%d]", manager.MinInstCount, manager.MaxInstCount, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestInstanceManager_AddRemove(t *testing.T) {
	manager, _ := newTestManager(t, 8, 2, 4)

	manager.Start()
	if got := manager.Count(); got != 2 {
		t.Fatalf("Count() after Start = %d, want 2", got)
	}

	id := manager.AddInstance()
	if id != 2 {
		t.Fatalf("third instance id = %d, want 2", id)
	}
	if got := manager.Count(); got != 3 {
		t.Fatalf("Count() = %d, want 3", got)
	}

	manager.RemoveInstance(id)
	manager.RemoveInstance(id) // already gone
	if got := manager.Count(); got != 2 {
		t.Fatalf("Count() after remove = %d, want 2", got)
	}

	manager.Shutdown()
	if got := manager.Count(); got != 0 {
		t.Fatalf("Count() after Shutdown = %d, want 0", got)
	}
}

func TestInstanceManager_ProcessesJobs(t *testing.T) {
	manager, completions := newTestManager(t, 16, 2, 2)
	manager.Start()

	payload := []byte("Mon Feb  3 09:00:00 2025\n\tAcct-Status-Type\t= Stop\n\n")
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		job := dispatch.Job{Token: &detail.Token{}, Payload: payload, Priority: detail.PriorityNormal, Offset: int64(i)}
		if err := manager.Lanes.Push(ctx, job); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}

	for i := 0; i < 10; i++ {
		select {
		case completion := <-completions:
			if !completion.Delivered() {
				t.Fatalf("completion %d not delivered", i)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d completions", i)
		}
	}

	collection := manager.CollectMetrics(time.Second)
	var sawWorkers bool
	for _, m := range collection {
		if m.Name == "workers" {
			sawWorkers = true
			if m.Value.Raw.(uint64) != 2 {
				t.Fatalf("workers metric = %v, want 2", m.Value.Raw)
			}
		}
	}
	if !sawWorkers {
		t.Fatalf("workers metric missing")
	}
}

func TestInstanceManager_Scale(t *testing.T) {
	manager, _ := newTestManager(t, 4, 1, 2)
	ctx := context.Background()

	// Idle with no workers stays as is
	manager.Scale(ctx)
	if got := manager.Count(); got != 0 {
		t.Fatalf("idle scale: Count() = %d, want 0", got)
	}

	// Backlog with no workers adds one
	for i := 0; i < 3; i++ {
		if err := manager.Lanes.Push(ctx, dispatch.Job{Priority: detail.PriorityLow}); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	manager.Scale(ctx)
	if got := manager.Count(); got != 1 {
		t.Fatalf("backlog scale: Count() = %d, want 1", got)
	}

	// Above the minimum and idle removes one
	manager.AddInstance()
	deadline := time.Now().Add(2 * time.Second)
	for manager.Lanes.InFlight.Load() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if manager.Lanes.InFlight.Load() != 0 {
		t.Fatalf("backlog was not drained")
	}

	manager.Scale(ctx)
	if got := manager.Count(); got != 1 {
		t.Fatalf("idle scale down: Count() = %d, want 1", got)
	}

	// Never below the minimum
	manager.Scale(ctx)
	if got := manager.Count(); got != 1 {
		t.Fatalf("scale at minimum: Count() = %d, want 1", got)
	}
}

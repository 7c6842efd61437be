// Manages dispatch worker instances
package manager

import (
	"context"
	"detailq/internal/calc"
	"detailq/internal/dispatch"
	"detailq/internal/externalio"
	"detailq/internal/global"
	"detailq/internal/logctx"
	"fmt"
)

const (
	depthSamples int     = 8    // scale checks averaged for backlog decisions
	depthTrim    float64 = 0.25 // share of extreme samples dropped from each end
)

// Creates new instance manager. Workers are not started until AddInstance.
func NewInstanceManager(ctx context.Context, lanes *dispatch.Lanes, outputs []externalio.Output, completions chan dispatch.Completion, minInsts, maxInsts int) (new *InstanceManager, err error) {
	if lanes == nil {
		err = fmt.Errorf("dispatch manager requires lanes")
		return
	}
	if completions == nil {
		err = fmt.Errorf("dispatch manager requires a completion channel")
		return
	}
	if minInsts < 1 {
		minInsts = 1
	}
	if maxInsts < minInsts {
		maxInsts = minInsts
	}

	new = &InstanceManager{
		Instances:    make(map[int]*Instance),
		MinInstCount: minInsts,
		MaxInstCount: maxInsts,
		Lanes:        lanes,
		outputs:      outputs,
		completions:  completions,
		depth:        calc.NewWindow(depthSamples),
		ctx:          logctx.AppendCtxTag(ctx, global.NSDispatch),
	}
	return
}

// Starts the minimum worker count
func (manager *InstanceManager) Start() {
	for range manager.MinInstCount {
		manager.AddInstance()
	}
}

// Current worker count
func (manager *InstanceManager) Count() (count int) {
	manager.Mu.Lock()
	count = len(manager.Instances)
	manager.Mu.Unlock()
	return
}

package manager

import (
	"context"
	"detailq/internal/dispatch/worker"
	"detailq/internal/global"
	"detailq/internal/logctx"
)

// Create new worker instance
func (manager *InstanceManager) AddInstance() (instanceID int) {
	// Lock manager for new spawn
	manager.Mu.Lock()
	defer manager.Mu.Unlock()

	// Grab the next sequence for ID
	instanceID = manager.nextID
	manager.nextID++

	newWorker := &Instance{
		id:     instanceID,
		Worker: worker.New(logctx.GetTagList(manager.ctx), instanceID, manager.Lanes, manager.outputs, manager.completions),
	}

	manager.Instances[instanceID] = newWorker

	// Workers outlive the caller's context so queued jobs keep draining during feed shutdown
	workerCtx, cancelInstance := context.WithCancel(context.Background())
	newWorker.cancel = cancelInstance
	workerCtx = context.WithValue(workerCtx, global.LoggerKey, logctx.GetLogger(manager.ctx))

	newWorker.wg.Add(1)
	go func() {
		defer newWorker.wg.Done()
		workerCtx := logctx.OverwriteCtxTag(workerCtx, newWorker.Worker.Namespace)
		newWorker.Worker.Run(workerCtx)
	}()
	return
}

// Remove existing worker instance
func (manager *InstanceManager) RemoveInstance(instanceID int) {
	manager.Mu.Lock()
	defer manager.Mu.Unlock()

	instancePair, ok := manager.Instances[instanceID]
	if ok {
		if instancePair.cancel != nil {
			instancePair.cancel()
		}
		instancePair.wg.Wait()
		delete(manager.Instances, instanceID)
	}
}

// Stops every worker
func (manager *InstanceManager) Shutdown() {
	manager.Mu.Lock()
	ids := make([]int, 0, len(manager.Instances))
	for id := range manager.Instances {
		ids = append(ids, id)
	}
	manager.Mu.Unlock()

	for _, id := range ids {
		manager.RemoveInstance(id)
	}
}

// Adds a worker when the lanes back up and removes one when they sit
// empty, within the configured bounds
func (manager *InstanceManager) Scale(ctx context.Context) {
	count := manager.Count()
	depth := manager.Lanes.Len()

	// Single bursts are trimmed out of the smoothed depth
	manager.depth.Add(uint64(depth))
	smoothed := int(manager.depth.TrimmedMean(depthTrim))

	// Backlog of more than a quarter lane per worker
	backlog := smoothed > 0 && smoothed >= count*max(manager.Lanes.Capacity()/4, 1)

	if backlog && count < manager.MaxInstCount {
		id := manager.AddInstance()
		logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog,
			"Scaled up dispatch workers to %d (added %d, %d jobs queued)\n", count+1, id, depth)
		return
	}

	if depth == 0 && manager.Lanes.InFlight.Load() == 0 && count > manager.MinInstCount {
		// Newest instance first
		manager.Mu.Lock()
		newest := -1
		for id := range manager.Instances {
			newest = max(newest, id)
		}
		manager.Mu.Unlock()
		if newest < 0 {
			return
		}

		manager.RemoveInstance(newest)
		logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog,
			"Scaled down dispatch workers to %d\n", count-1)
	}
}

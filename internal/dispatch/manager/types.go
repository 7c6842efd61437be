package manager

import (
	"context"
	"detailq/internal/calc"
	"detailq/internal/dispatch"
	"detailq/internal/dispatch/worker"
	"detailq/internal/externalio"
	"sync"
)

type InstanceManager struct {
	Mu           sync.Mutex               // For adding/removing worker operations
	nextID       int                      // Next unused worker id
	Instances    map[int]*Instance        // Individual processing workers
	MinInstCount int                      // Minimum number of instances at any one time
	MaxInstCount int                      // Maximum number of instances at any one time
	Lanes        *dispatch.Lanes          // Jobs from the feed
	outputs      []externalio.Output      // Destinations shared by all workers
	completions  chan dispatch.Completion // Tokens back to the feed
	depth        *calc.Window             // Recent lane depth samples, only touched by Scale
	ctx          context.Context
}

type Instance struct {
	id     int                // Manager map id
	Worker *worker.Instance   // Individual processing worker
	wg     sync.WaitGroup     // Waiter for instance
	cancel context.CancelFunc // Stop instance
}

// Helper functions that deal with atomic variables and their values
package atomics

import (
	"context"
	"time"
)

// Loader is any atomic counter readable without locking
// (*atomic.Uint64, or an adapter over a signed counter).
type Loader interface {
	Load() uint64
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func() uint64

func (fn LoaderFunc) Load() uint64 { return fn() }

// Waits until value reads 0 three consecutive times, with exponential
// backoff. Gives up at timeout or when ctx ends.
func WaitUntilZero(ctx context.Context, value Loader, timeout time.Duration) (reachedZero bool, lastValue uint64) {
	const successfulStreakCount = 3

	backoff := 20 * time.Millisecond
	const maxBackoff = 500 * time.Millisecond

	deadline := time.Now().Add(timeout)
	zeroStreak := 0

	for {
		lastValue = value.Load()
		if lastValue == 0 {
			zeroStreak++
			if zeroStreak >= successfulStreakCount {
				reachedZero = true
				return
			}
		} else {
			zeroStreak = 0
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}

		sleep := min(backoff, remaining)
		select {
		case <-ctx.Done():
			return
		case <-time.After(sleep):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

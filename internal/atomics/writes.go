package atomics

import (
	"sync/atomic"
	"time"
)

// Subtracts value from source without going below zero. Success if already 0.
// Retries up to maxRetries times when the CAS loses to another writer,
// backing off exponentially between attempts.
func Subtract(source *atomic.Uint64, value uint64, maxRetries int) (success bool) {
	retryInterval := 10 * time.Microsecond

	for i := 0; i < maxRetries; i++ {
		current := source.Load()
		if current == 0 {
			success = true
			return
		}

		newValue := uint64(0)
		if value < current {
			newValue = current - value
		}

		if source.CompareAndSwap(current, newValue) {
			success = true
			return
		}

		time.Sleep(retryInterval)
		retryInterval *= 2
	}
	return
}

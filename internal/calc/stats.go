// Smoothing of sampled gauges
package calc

import "slices"

// Window keeps the most recent samples of a gauge, oldest overwritten first.
type Window struct {
	samples []uint64
	next    int
	filled  int
}

func NewWindow(size int) (window *Window) {
	window = &Window{samples: make([]uint64, max(size, 1))}
	return
}

func (window *Window) Add(value uint64) {
	window.samples[window.next] = value
	window.next = (window.next + 1) % len(window.samples)
	window.filled = min(window.filled+1, len(window.samples))
}

// Samples currently held, in no particular order
func (window *Window) Values() (values []uint64) {
	values = window.samples[:window.filled]
	return
}

func (window *Window) TrimmedMean(trimPercent float64) (mean uint64) {
	mean = TrimmedMeanUint64(window.Values(), trimPercent)
	return
}

// Mean of values after dropping trimPercent of the smallest and of the
// largest values. Always keeps at least one value.
func TrimmedMeanUint64(values []uint64, trimPercent float64) (mean uint64) {
	if trimPercent < 0 {
		trimPercent = 0
	}

	n := len(values)
	if n == 0 {
		return
	}

	nums := slices.Clone(values)
	slices.Sort(nums)

	// How many values to drop from each end
	trimCount := int(float64(n) * trimPercent)
	if trimCount*2 >= n {
		trimCount = (n - 1) / 2
	}

	var sum uint64
	for _, v := range nums[trimCount : n-trimCount] {
		sum += v
	}

	mean = sum / uint64(n-2*trimCount)
	return
}

package mpmc

import "github.com/pbnjay/memory"

// Picks a power-of-two capacity within [minCapacity, maxCapacity], shrunk so
// that a full queue of itemBytes-sized items stays under a quarter of free
// system memory. Free memory of 0 (unknown) leaves the upper bound alone.
func CapacityFor(itemBytes uint64, minCapacity, maxCapacity int) (capacity uint64) {
	if minCapacity < 2 {
		minCapacity = 2
	}
	if maxCapacity < minCapacity {
		maxCapacity = minCapacity
	}

	target := nextPowerOfTwo(maxCapacity)
	if target > maxCapacity {
		target >>= 1
	}

	freeMem := memory.FreeMemory()
	if freeMem > 0 && itemBytes > 0 {
		budget := freeMem / 4
		for target > minCapacity && uint64(target)*itemBytes > budget {
			target >>= 1
		}
	}

	floor := nextPowerOfTwo(minCapacity)
	if target < floor {
		target = floor
	}
	capacity = uint64(target)
	return
}

func nextPowerOfTwo(start int) (next int) {
	if start <= 1 {
		next = 1
		return
	}
	start--
	start |= start >> 1
	start |= start >> 2
	start |= start >> 4
	start |= start >> 8
	start |= start >> 16
	start |= start >> 32
	next = start + 1
	return
}

package detail

import (
	"fmt"
	"strings"
)

// Priority orders records for dispatch. Higher values are served first.
type Priority uint8

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityImmediate
)

// Levels lists every priority from highest to lowest.
var Levels = []Priority{PriorityImmediate, PriorityHigh, PriorityNormal, PriorityLow}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityImmediate:
		return "immediate"
	}
	return fmt.Sprintf("priority(%d)", uint8(p))
}

// ParsePriority accepts the names returned by String, case-insensitively.
// "now" is accepted as an alias of immediate.
func ParsePriority(name string) (p Priority, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "low":
		p = PriorityLow
	case "normal", "":
		p = PriorityNormal
	case "high":
		p = PriorityHigh
	case "immediate", "now":
		p = PriorityImmediate
	default:
		err = fmt.Errorf("unknown priority %q", name)
	}
	return
}

// PriorityTable maps a record class byte to its priority.
type PriorityTable map[byte]Priority

// Retrieves priority for class byte, normal when unmapped
func (table PriorityTable) Lookup(class byte) (p Priority) {
	p, ok := table[class]
	if !ok {
		p = PriorityNormal
	}
	return
}

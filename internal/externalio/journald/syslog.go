package journald

import (
	"detailq/internal/detail"
	"fmt"
)

const defaultFacility string = "daemon"

var facilityCodes = map[string]uint16{
	"kern":     0,
	"user":     1,
	"mail":     2,
	"daemon":   3,
	"auth":     4,
	"syslog":   5,
	"lpr":      6,
	"news":     7,
	"uucp":     8,
	"cron":     9,
	"authpriv": 10,
	"ftp":      11,
	"local0":   16,
	"local1":   17,
	"local2":   18,
	"local3":   19,
	"local4":   20,
	"local5":   21,
	"local6":   22,
	"local7":   23,
}

const (
	severityWarning uint16 = 4
	severityNotice  uint16 = 5
	severityInfo    uint16 = 6
	severityDebug   uint16 = 7
)

// Convert facility string to numeric code
func FacilityToCode(facility string) (code uint16, err error) {
	code, ok := facilityCodes[facility]
	if !ok {
		err = fmt.Errorf("invalid facility '%s'", facility)
	}
	return
}

// Journal PRIORITY for a record, by dispatch priority
func severityFor(priorityName string) (code uint16) {
	priority, err := detail.ParsePriority(priorityName)
	if err != nil {
		code = severityInfo
		return
	}
	switch priority {
	case detail.PriorityImmediate:
		code = severityWarning
	case detail.PriorityHigh:
		code = severityNotice
	case detail.PriorityLow:
		code = severityDebug
	default:
		code = severityInfo
	}
	return
}

// Parsing of detail record payloads into header and fields
package record

import "time"

// One tab-indented "name = value" line of a record
type Field struct {
	Name  string
	Value string
}

type Record struct {
	Class     byte   // first byte of the header line
	Header    string // first line of the record
	Fields    []Field
	Done      bool      // record carries a Done marker
	Timestamp time.Time // zero when the record has no parseable Timestamp
}

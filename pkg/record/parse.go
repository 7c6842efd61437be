package record

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	timestampName = "Timestamp"
	doneName      = "Donestamp"
)

// Parses a record payload as surfaced by the detail reader. Trailing
// blank lines are ignored. A Donestamp field, the rewritten form of
// Timestamp, is reported as Timestamp with Done set.
func Parse(payload []byte) (rec Record, err error) {
	payload = bytes.TrimRight(payload, "\n")
	if len(payload) == 0 {
		err = fmt.Errorf("empty record")
		return
	}

	lines := bytes.Split(payload, []byte("\n"))

	header := strings.TrimRight(string(lines[0]), "\r")
	if header == "" || header[0] == '\t' {
		err = fmt.Errorf("record has no header line")
		return
	}
	if !isPrintableASCII([]byte(header)) {
		err = fmt.Errorf("header contains non-printable characters")
		return
	}
	rec.Class = header[0]
	rec.Header = header

	for i, line := range lines[1:] {
		if len(line) == 0 {
			continue
		}

		var field Field
		field, err = parseField(line)
		if err != nil {
			err = fmt.Errorf("line %d: %w", i+2, err)
			return
		}

		if field.Name == doneName {
			field.Name = timestampName
			rec.Done = true
		}
		if field.Name == timestampName {
			seconds, parseErr := strconv.ParseInt(field.Value, 10, 64)
			if parseErr == nil {
				rec.Timestamp = time.Unix(seconds, 0)
			}
		}

		rec.Fields = append(rec.Fields, field)
	}
	return
}

// Splits "\tName\t= value" (or "\tName = value") into its parts
func parseField(line []byte) (field Field, err error) {
	if line[0] != '\t' {
		err = fmt.Errorf("field line is not tab-indented")
		return
	}

	name, value, found := strings.Cut(string(line[1:]), "=")
	if !found {
		err = fmt.Errorf("field line has no '='")
		return
	}

	field.Name = strings.TrimSpace(name)
	if field.Name == "" {
		err = fmt.Errorf("field has no name")
		return
	}
	if strings.ContainsAny(field.Name, " \t") {
		err = fmt.Errorf("field name %q contains whitespace", field.Name)
		return
	}

	field.Value = unquote(strings.TrimSpace(value))
	return
}

// Removes surrounding double quotes, resolving escapes when possible
func unquote(value string) string {
	if len(value) < 2 || value[0] != '"' || value[len(value)-1] != '"' {
		return value
	}
	unquoted, err := strconv.Unquote(value)
	if err != nil {
		return value[1 : len(value)-1]
	}
	return unquoted
}

// Returns the first value of the named field
func (rec Record) Field(name string) (value string, ok bool) {
	for _, field := range rec.Fields {
		if field.Name == name {
			value = field.Value
			ok = true
			return
		}
	}
	return
}

// Returns all fields keyed by name, later duplicates overwriting earlier ones
func (rec Record) Map() (fields map[string]string) {
	fields = make(map[string]string, len(rec.Fields))
	for _, field := range rec.Fields {
		fields[field.Name] = field.Value
	}
	return
}

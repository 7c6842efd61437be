package detail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Field is one tab-indented name/value line of a record.
type Field struct {
	Name  string
	Value string
}

// Entry is the producer-side view of a record.
type Entry struct {
	Header    string // first line, its first byte is the record class
	Fields    []Field
	Timestamp time.Time // written as the trailing Timestamp field when set
}

// Renders entry in detail file format, blank line terminator included
func FormatRecord(entry Entry) (record []byte, err error) {
	if entry.Header == "" {
		err = errors.New("record header must not be empty")
		return
	}
	if strings.ContainsAny(entry.Header, "\r\n") {
		err = errors.New("record header must be a single line")
		return
	}

	var out bytes.Buffer
	out.WriteString(entry.Header)
	out.WriteByte('\n')

	for _, field := range entry.Fields {
		if field.Name == "" || strings.ContainsAny(field.Name, "\t\r\n ") {
			err = fmt.Errorf("invalid field name %q", field.Name)
			return
		}
		if strings.ContainsAny(field.Value, "\r\n") {
			err = fmt.Errorf("value of field %q must be a single line", field.Name)
			return
		}
		if field.Name == "Timestamp" || strings.HasPrefix(field.Name, "Done") {
			err = fmt.Errorf("field name %q is reserved", field.Name)
			return
		}
		writeField(&out, field.Name, field.Value)
	}

	if !entry.Timestamp.IsZero() {
		writeField(&out, "Timestamp", strconv.FormatInt(entry.Timestamp.Unix(), 10))
	}

	out.WriteByte('\n')
	record = out.Bytes()
	return
}

// Formats and writes a single record to w
func AppendRecord(w io.Writer, entry Entry) (written int, err error) {
	record, err := FormatRecord(entry)
	if err != nil {
		return
	}
	written, err = w.Write(record)
	return
}

func writeField(out *bytes.Buffer, name, value string) {
	out.WriteByte('\t')
	out.WriteString(name)
	out.WriteString("\t= ")
	out.WriteString(value)
	out.WriteByte('\n')
}

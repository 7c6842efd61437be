package journald

import (
	"bytes"
	"context"
	"detailq/internal/externalio"
	"detailq/internal/global"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const exportContentType string = "application/vnd.fdo.journal"

type field struct {
	key string
	val string
}

// Uploads one record as a journal entry
func (mod *OutModule) Write(ctx context.Context, delivery externalio.Delivery) (err error) {
	if mod == nil {
		return
	}

	payload := mod.encodeEntry(delivery, time.Now())

	err = sendJournalExport(ctx, mod.sink, mod.url, payload)
	if err != nil {
		mod.metrics.UploadErrors.Add(1)
		err = fmt.Errorf("%w (record: source '%s', offset %d)", err, delivery.Source, delivery.Offset)
		return
	}
	mod.metrics.EntriesSent.Add(1)
	mod.metrics.BytesSent.Add(uint64(len(payload)))
	return
}

func (mod *OutModule) Flush() (err error) { return }

// Renders delivery in journal export format, one entry ending in a blank line
func (mod *OutModule) encodeEntry(delivery externalio.Delivery, now time.Time) (payload []byte) {
	timestamp := delivery.Record.Timestamp
	if timestamp.IsZero() {
		timestamp = delivery.ReceivedAt
	}

	pid := strconv.Itoa(global.PID)
	fields := []field{
		{key: "__REALTIME_TIMESTAMP", val: strconv.FormatInt(now.UnixMicro(), 10)}, // Required field
		{key: "_BOOT_ID", val: mod.bootID},                                         // Required field
		{key: "PRIORITY", val: strconv.Itoa(int(severityFor(delivery.Priority)))},
		{key: "SYSLOG_IDENTIFIER", val: global.ProgBaseName},
		{key: "MESSAGE", val: delivery.Record.Header}, // Required field
		{key: "SYSLOG_FACILITY", val: strconv.Itoa(int(mod.facility))},
		{key: "SYSLOG_PID", val: pid},
		{key: "HOSTNAME", val: global.Hostname},
		{key: "SYSLOG_TIMESTAMP", val: timestamp.UTC().Format(time.RFC3339Nano)},
		{key: "DETAIL_CLASS", val: string(delivery.Record.Class)},
		{key: "DETAIL_FILE", val: delivery.Source},
		{key: "DETAIL_OFFSET", val: strconv.FormatInt(delivery.Offset, 10)},
		{key: "DETAIL_PRIORITY", val: delivery.Priority},
	}
	for _, recField := range delivery.Record.Fields {
		fields = append(fields, field{key: fieldKey(recField.Name), val: recField.Value})
	}

	var buf bytes.Buffer
	for _, f := range fields {
		if f.key == "" || f.val == "" {
			continue
		}
		writeExportField(&buf, f.key, f.val)
	}
	// Terminate with double newline
	buf.WriteByte('\n')

	payload = buf.Bytes()
	return
}

// Text fields as KEY=value, values with newlines in the binary form
func writeExportField(buf *bytes.Buffer, key, value string) {
	if !strings.Contains(value, "\n") {
		buf.WriteString(key)
		buf.WriteByte('=')
		buf.WriteString(value)
		buf.WriteByte('\n')
		return
	}

	buf.WriteString(key)
	buf.WriteByte('\n')
	var size [8]byte
	binary.LittleEndian.PutUint64(size[:], uint64(len(value)))
	buf.Write(size[:])
	buf.WriteString(value)
	buf.WriteByte('\n')
}

// Journal field names are upper case letters, digits and underscores and
// never start with an underscore or a digit
func fieldKey(name string) (key string) {
	var out strings.Builder
	out.WriteString("DETAIL_")
	for _, char := range strings.ToUpper(name) {
		if (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') {
			out.WriteRune(char)
		} else {
			out.WriteByte('_')
		}
	}
	key = out.String()
	return
}

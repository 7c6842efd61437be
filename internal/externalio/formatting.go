package externalio

import (
	"strconv"
	"strings"
	"time"
)

// Main raw line format for text outputs
// Fmt: '2026-01-01T10:10:10.123456789Z Access-Request [high] User-Name="bob" NAS-Port="7" offset=120'
func FormatAsText(delivery Delivery) (text string) {
	var line strings.Builder
	line.WriteString(delivery.ReceivedAt.UTC().Format(time.RFC3339Nano))
	line.WriteByte(' ')
	line.WriteString(delivery.Record.Header)
	if delivery.Priority != "" {
		line.WriteString(" [" + delivery.Priority + "]")
	}
	for _, field := range delivery.Record.Fields {
		line.WriteByte(' ')
		line.WriteString(field.Name)
		line.WriteByte('=')
		line.WriteString(strconv.Quote(field.Value))
	}
	if delivery.Record.Done {
		line.WriteString(" done=true")
	}
	line.WriteString(" offset=" + strconv.FormatInt(delivery.Offset, 10))
	text = line.String()
	return
}

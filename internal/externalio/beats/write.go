package beats

import (
	"context"
	"detailq/internal/externalio"
	"detailq/internal/global"
	"fmt"
	"os"
)

// Sends record and associated metadata as one event to the configured beats server
func (mod *OutModule) Write(ctx context.Context, delivery externalio.Delivery) (err error) {
	if mod == nil {
		return
	}

	event := buildEvent(delivery)

	mod.mu.Lock()
	defer mod.mu.Unlock()

	sent, err := mod.sink.Send([]interface{}{event})
	if err != nil {
		mod.metrics.SendErrors.Add(1)
		err = fmt.Errorf("failed sending event to beats server: %w", err)
		return
	}
	if sent != 1 {
		mod.metrics.SendErrors.Add(1)
		err = fmt.Errorf("beats server acknowledged %d of 1 events", sent)
		return
	}
	mod.metrics.EventsSent.Add(1)
	return
}

func buildEvent(delivery externalio.Delivery) (fields map[string]interface{}) {
	timestamp := delivery.ReceivedAt
	if !delivery.Record.Timestamp.IsZero() {
		timestamp = delivery.Record.Timestamp
	}

	fields = map[string]interface{}{
		// Minimum required fields
		"@timestamp": timestamp,
		"message":    externalio.FormatAsText(delivery),

		"detail": map[string]interface{}{
			"class":    string(delivery.Record.Class),
			"header":   delivery.Record.Header,
			"fields":   delivery.Record.Map(),
			"done":     delivery.Record.Done,
			"priority": delivery.Priority,
		},
		"log": map[string]interface{}{
			"file": map[string]interface{}{
				"path": delivery.Source,
			},
			"offset": delivery.Offset,
		},
		"event": map[string]interface{}{
			"created": delivery.ReceivedAt,
		},
		"agent": map[string]interface{}{
			"name":    global.Hostname,
			"program": global.ProgBaseName,
			"version": global.ProgVersion,
			"type":    "filebeat",
			"pid":     os.Getpid(),
		},
	}
	return
}

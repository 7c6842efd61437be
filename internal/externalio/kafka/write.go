package kafka

import (
	"context"
	"detailq/internal/externalio"
	"detailq/internal/global"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Produces one JSON message per record and waits for all in-sync replicas
func (mod *OutModule) Write(ctx context.Context, delivery externalio.Delivery) (err error) {
	if mod == nil {
		return
	}

	value, err := encodeMessage(delivery)
	if err != nil {
		mod.metrics.ProduceErrors.Add(1)
		return
	}

	rec := &kgo.Record{
		Topic: mod.topic,
		Key:   []byte(delivery.Source + ":" + strconv.FormatInt(delivery.Offset, 10)),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "class", Value: []byte{delivery.Record.Class}},
			{Key: "priority", Value: []byte(delivery.Priority)},
		},
	}

	err = mod.client.ProduceSync(ctx, rec).FirstErr()
	if err != nil {
		mod.metrics.ProduceErrors.Add(1)
		err = fmt.Errorf("failed producing record to topic %q: %w", mod.topic, err)
		return
	}
	mod.metrics.RecordsProduced.Add(1)
	mod.metrics.BytesProduced.Add(uint64(len(value)))
	return
}

func encodeMessage(delivery externalio.Delivery) (value []byte, err error) {
	msg := message{
		ReceivedAt: delivery.ReceivedAt.UTC().Format(time.RFC3339Nano),
		Class:      string(delivery.Record.Class),
		Header:     delivery.Record.Header,
		Fields:     delivery.Record.Map(),
		Done:       delivery.Record.Done,
		Priority:   delivery.Priority,
		Source:     delivery.Source,
		Offset:     delivery.Offset,
		Host:       global.Hostname,
	}
	if !delivery.Record.Timestamp.IsZero() {
		msg.Timestamp = delivery.Record.Timestamp.UTC().Format(time.RFC3339)
	}

	value, err = json.Marshal(msg)
	if err != nil {
		err = fmt.Errorf("failed to encode record: %w", err)
	}
	return
}

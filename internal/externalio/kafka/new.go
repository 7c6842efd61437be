package kafka

import (
	"detailq/internal/global"
	"fmt"
	"strings"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Creates new kafka output module. Returns nil nil if no brokers.
func NewOutput(namespace []string, brokers []string, topic string) (module *OutModule, err error) {
	if len(brokers) == 0 {
		return
	}
	if topic == "" {
		err = fmt.Errorf("kafka output requires a topic")
		return
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ClientID(global.ProgBaseName),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		err = fmt.Errorf("failed to create kafka client: %w", err)
		return
	}

	module = &OutModule{
		Namespace: append(append([]string{}, namespace...), global.NSoKafka),
		topic:     topic,
		brokers:   brokers,
		client:    client,
	}
	return
}

func (mod *OutModule) Name() string {
	return "kafka:" + strings.Join(mod.brokers, ",") + "/" + mod.topic
}

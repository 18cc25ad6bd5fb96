package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/baltotest/freight-api/internal/domain/event"
)

// KafkaBroker maps an exchange to a topic and the routing key to the
// message key. Only the primary routing key is published.
type KafkaBroker struct {
	writer *kafka.Writer
}

func NewKafkaBroker(brokers []string) (*KafkaBroker, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka broker requires at least one address")
	}
	return &KafkaBroker{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			RequiredAcks:           kafka.RequireAll,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
	}, nil
}

func (b *KafkaBroker) Publish(ctx context.Context, exchange, routingKey string, body []byte) error {
	return b.writer.WriteMessages(ctx, kafka.Message{
		Topic: exchange,
		Key:   []byte(routingKey),
		Value: body,
		Time:  time.Now().UTC(),
	})
}

func (b *KafkaBroker) PrimaryKeyOnly() bool { return true }

func (b *KafkaBroker) Close() error {
	return b.writer.Close()
}

var _ event.Broker = (*KafkaBroker)(nil)

package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/baltotest/freight-api/internal/domain/event"
)

// Handler processes one delivery.
type Handler func(ctx context.Context, routingKey string, body []byte) error

// Classifier reports whether a handler error is final. Final failures are
// dropped, anything else is requeued.
type Classifier func(err error) bool

type Consumer interface {
	Run(ctx context.Context, h Handler) error
	Close() error
}

// RabbitConsumer consumes every queue in event.Topology concurrently.
type RabbitConsumer struct {
	conn      *amqp.Connection
	ch        *amqp.Channel
	permanent Classifier
	logger    *logrus.Logger
}

func NewRabbitConsumer(url string, prefetch int, permanent Classifier, logger *logrus.Logger) (*RabbitConsumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("qos: %w", err)
	}
	if err := DeclareTopology(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare topology: %w", err)
	}
	if permanent == nil {
		permanent = func(error) bool { return false }
	}
	return &RabbitConsumer{conn: conn, ch: ch, permanent: permanent, logger: logger}, nil
}

func (c *RabbitConsumer) Run(ctx context.Context, h Handler) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, b := range event.Topology {
		msgs, err := c.ch.Consume(b.Queue, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("consume %s: %w", b.Queue, err)
		}
		queue := b.Queue
		g.Go(func() error { return c.drain(ctx, queue, msgs, h) })
	}
	c.logger.WithField("queues", len(event.Topology)).Info("event worker listening")
	return g.Wait()
}

func (c *RabbitConsumer) drain(ctx context.Context, queue string, msgs <-chan amqp.Delivery, h Handler) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("queue %s: delivery channel closed", queue)
			}
			log := c.logger.WithFields(logrus.Fields{"queue": queue, "routing_key": msg.RoutingKey})
			if err := h(ctx, msg.RoutingKey, msg.Body); err != nil {
				requeue := !c.permanent(err)
				log.WithError(err).WithField("requeue", requeue).Warn("event handling failed")
				_ = msg.Nack(false, requeue)
				continue
			}
			_ = msg.Ack(false)
		}
	}
}

func (c *RabbitConsumer) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// KafkaConsumer reads the exchange topics in a consumer group. The message
// key carries the routing key.
type KafkaConsumer struct {
	reader *kafka.Reader
	logger *logrus.Logger
}

func NewKafkaConsumer(brokers []string, groupID string, logger *logrus.Logger) (*KafkaConsumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka consumer requires at least one broker")
	}
	if groupID == "" {
		return nil, fmt.Errorf("kafka consumer requires group id")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		GroupTopics: event.Exchanges(),
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     500 * time.Millisecond,
	})
	return &KafkaConsumer{reader: reader, logger: logger}, nil
}

// Run commits every message after handling. Kafka has no per-message
// requeue, so failures are logged and skipped.
func (c *KafkaConsumer) Run(ctx context.Context, h Handler) error {
	c.logger.WithField("topics", event.Exchanges()).Info("event worker listening")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		if err := h(ctx, string(msg.Key), msg.Value); err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{"topic": msg.Topic, "key": string(msg.Key)}).Warn("event handling failed")
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}

package messaging

import (
	"context"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/baltotest/freight-api/internal/domain/event"
)

// RabbitBroker publishes to the topic exchanges declared by DeclareTopology.
type RabbitBroker struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewRabbitBroker(url string) (*RabbitBroker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := DeclareTopology(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &RabbitBroker{conn: conn, ch: ch}, nil
}

// DeclareTopology declares the durable topic exchanges, queues and bindings
// listed in event.Topology. Declaring is idempotent.
func DeclareTopology(ch *amqp.Channel) error {
	for _, ex := range event.Exchanges() {
		if err := ch.ExchangeDeclare(
			ex,
			amqp.ExchangeTopic,
			true,  // durable
			false, // autoDelete
			false, // internal
			false, // noWait
			nil,
		); err != nil {
			return err
		}
	}
	for _, b := range event.Topology {
		if _, err := ch.QueueDeclare(b.Queue, true, false, false, false, nil); err != nil {
			return err
		}
		if err := ch.QueueBind(b.Queue, b.RoutingKey, b.Exchange, false, nil); err != nil {
			return err
		}
	}
	return nil
}

func (b *RabbitBroker) Publish(ctx context.Context, exchange, routingKey string, body []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ch.PublishWithContext(ctx,
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

func (b *RabbitBroker) Close() error {
	if b == nil {
		return nil
	}
	if b.ch != nil {
		_ = b.ch.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}

var _ event.Broker = (*RabbitBroker)(nil)

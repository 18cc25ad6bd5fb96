package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/baltotest/freight-api/internal/domain/entity"
	"github.com/baltotest/freight-api/internal/domain/event"
)

const (
	DefaultPublishTimeout = 2 * time.Second
	defaultMaxInFlight    = 256
)

// BrokerPublisher hands events to a Broker on a background goroutine.
// Each attempt is bounded by the publish timeout and never retried; failures
// are logged as event.ErrPublishFailed and never reach the caller.
type BrokerPublisher struct {
	broker   event.Broker
	fanOut   bool
	timeout  time.Duration
	logger   *logrus.Logger
	inflight chan struct{}
	wg       sync.WaitGroup
	now      func() time.Time
}

// keyedBroker is implemented by brokers whose routing key is only a message
// key. Consumers there cannot bind to load.<id> or user.<id>, so the extra
// keys would just write the same event to the topic again.
type keyedBroker interface {
	PrimaryKeyOnly() bool
}

func NewBrokerPublisher(broker event.Broker, timeout time.Duration, logger *logrus.Logger) *BrokerPublisher {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	fanOut := true
	if kb, ok := broker.(keyedBroker); ok {
		fanOut = !kb.PrimaryKeyOnly()
	}
	return &BrokerPublisher{
		broker:   broker,
		fanOut:   fanOut,
		timeout:  timeout,
		logger:   logger,
		inflight: make(chan struct{}, defaultMaxInFlight),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (p *BrokerPublisher) PublishUserRegistered(ctx context.Context, email, name string) {
	p.publish(ctx, event.ExchangeUserEvents, []string{event.RoutingUserRegistered},
		event.UserRegistered{Email: email, Name: name, OccurredAt: p.now()})
}

func (p *BrokerPublisher) PublishMessageSent(ctx context.Context, m event.MessageSent) {
	p.publish(ctx, event.ExchangeMessageEvents,
		[]string{event.RoutingMessageSent, event.LoadRoutingKey(m.LoadID), event.UserRoutingKey(m.RecipientID)}, m)
}

func (p *BrokerPublisher) PublishLoadStatusUpdated(ctx context.Context, loadID string, status entity.LoadStatus) {
	p.publish(ctx, event.ExchangeMessageEvents,
		[]string{event.RoutingLoadStatusUpdated, event.LoadRoutingKey(loadID)},
		event.LoadStatusUpdated{LoadID: loadID, Status: status, OccurredAt: p.now()})
}

func (p *BrokerPublisher) PublishLoadETAUpdated(ctx context.Context, loadID string, eta time.Time) {
	p.publish(ctx, event.ExchangeMessageEvents,
		[]string{event.RoutingLoadETAUpdated, event.LoadRoutingKey(loadID)},
		event.LoadETAUpdated{LoadID: loadID, EstimatedDeliveryDate: eta, OccurredAt: p.now()})
}

func (p *BrokerPublisher) fail(err error, exchange, key string) {
	p.logger.WithError(fmt.Errorf("%w: %w", event.ErrPublishFailed, err)).
		WithFields(logrus.Fields{"exchange": exchange, "routing_key": key}).
		Warn("event publish failed")
}

func (p *BrokerPublisher) publish(ctx context.Context, exchange string, keys []string, payload any) {
	if !p.fanOut {
		keys = keys[:1]
	}
	body, err := json.Marshal(payload)
	if err != nil {
		p.fail(err, exchange, keys[0])
		return
	}
	select {
	case p.inflight <- struct{}{}:
	default:
		p.fail(fmt.Errorf("%d publishes in flight", cap(p.inflight)), exchange, keys[0])
		return
	}

	// the request context is cancelled once the handler returns
	ctx = context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() { <-p.inflight }()
		c, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		for _, key := range keys {
			if err := p.broker.Publish(c, exchange, key, body); err != nil {
				p.fail(err, exchange, key)
				return
			}
		}
	}()
}

// Close waits for in-flight publishes, then closes the broker.
func (p *BrokerPublisher) Close() error {
	p.wg.Wait()
	return p.broker.Close()
}

var _ event.Publisher = (*BrokerPublisher)(nil)

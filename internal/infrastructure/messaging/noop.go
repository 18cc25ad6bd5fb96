package messaging

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/baltotest/freight-api/internal/domain/entity"
	"github.com/baltotest/freight-api/internal/domain/event"
)

// NoopPublisher stands in when messaging is disabled and only logs.
type NoopPublisher struct {
	logger *logrus.Logger
}

func NewNoopPublisher(logger *logrus.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) log(key string, fields logrus.Fields) {
	if p.logger == nil {
		return
	}
	fields["routing_key"] = key
	p.logger.WithFields(fields).Debug("messaging disabled; event dropped")
}

func (p *NoopPublisher) PublishUserRegistered(_ context.Context, email, _ string) {
	p.log(event.RoutingUserRegistered, logrus.Fields{"email": email})
}

func (p *NoopPublisher) PublishMessageSent(_ context.Context, m event.MessageSent) {
	p.log(event.RoutingMessageSent, logrus.Fields{"message_id": m.MessageID, "load_id": m.LoadID})
}

func (p *NoopPublisher) PublishLoadStatusUpdated(_ context.Context, loadID string, status entity.LoadStatus) {
	p.log(event.RoutingLoadStatusUpdated, logrus.Fields{"load_id": loadID, "status": status})
}

func (p *NoopPublisher) PublishLoadETAUpdated(_ context.Context, loadID string, eta time.Time) {
	p.log(event.RoutingLoadETAUpdated, logrus.Fields{"load_id": loadID, "eta": eta})
}

func (p *NoopPublisher) Close() error { return nil }

var _ event.Publisher = (*NoopPublisher)(nil)

package application

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/baltotest/freight-api/internal/domain/entity"
	"github.com/baltotest/freight-api/internal/domain/event"
)

const (
	TemplateWelcome             = "welcome"
	TemplateMessageNotification = "message_notification"
)

// NotificationService reacts to published events on the worker side.
type NotificationService struct {
	Mailer Mailer
	Logger *logrus.Logger
}

func NewNotificationService(mailer Mailer, logger *logrus.Logger) *NotificationService {
	return &NotificationService{Mailer: mailer, Logger: discardLogger(logger)}
}

// Handle dispatches one delivery by routing key. Unknown keys are ignored.
// A returned error means the delivery may be retried; malformed payloads
// are reported as ErrValidation and must not be.
func (s *NotificationService) Handle(ctx context.Context, routingKey string, body []byte) error {
	switch routingKey {
	case event.RoutingUserRegistered:
		var e event.UserRegistered
		if err := json.Unmarshal(body, &e); err != nil {
			return invalid(err)
		}
		return s.UserRegistered(ctx, e)
	case event.RoutingMessageSent:
		var e event.MessageSent
		if err := json.Unmarshal(body, &e); err != nil {
			return invalid(err)
		}
		return s.MessageSent(ctx, e)
	case event.RoutingLoadStatusUpdated:
		var e event.LoadStatusUpdated
		if err := json.Unmarshal(body, &e); err != nil {
			return invalid(err)
		}
		s.Logger.WithFields(logrus.Fields{"load_id": e.LoadID, "status": e.Status}).Info("load status updated")
		return nil
	case event.RoutingLoadETAUpdated:
		var e event.LoadETAUpdated
		if err := json.Unmarshal(body, &e); err != nil {
			return invalid(err)
		}
		s.Logger.WithFields(logrus.Fields{"load_id": e.LoadID, "eta": e.EstimatedDeliveryDate}).Info("load eta updated")
		return nil
	default:
		s.Logger.WithField("routing_key", routingKey).Debug("ignoring event")
		return nil
	}
}

func (s *NotificationService) UserRegistered(ctx context.Context, e event.UserRegistered) error {
	if s.Mailer == nil {
		s.Logger.WithField("email", e.Email).Info("mail disabled; skipping welcome email")
		return nil
	}
	data := map[string]any{"Name": e.Name, "RecipientEmail": e.Email}
	if err := s.Mailer.Send(ctx, e.Email, TemplateWelcome, data); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	return nil
}

// MessageSent emails the recipient for messages sent over an EMAIL channel.
func (s *NotificationService) MessageSent(ctx context.Context, e event.MessageSent) error {
	if e.ChannelType != entity.ChannelEmail || e.RecipientEmail == "" {
		return nil
	}
	if s.Mailer == nil {
		s.Logger.WithField("message_id", e.MessageID).Info("mail disabled; skipping message notification")
		return nil
	}
	data := map[string]any{
		"Name":           e.RecipientName,
		"RecipientEmail": e.RecipientEmail,
		"SenderName":     e.SenderName,
		"LoadID":         e.LoadID,
		"Content":        e.Content,
		"SentAt":         e.SentAt,
	}
	if err := s.Mailer.Send(ctx, e.RecipientEmail, TemplateMessageNotification, data); err != nil {
		return fmt.Errorf("send message notification: %w", err)
	}
	return nil
}

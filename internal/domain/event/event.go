// Package event defines the notifications the core emits after a state change
// has been committed, and the broker contract they are delivered through.
package event

import (
	"context"
	"errors"
	"time"

	"github.com/baltotest/freight-api/internal/domain/entity"
)

// ErrPublishFailed marks a notification that could not be handed to the broker.
// It is logged by the publisher and never returned to the triggering operation.
var ErrPublishFailed = errors.New("event publish failed")

// Publisher is the fire-and-forget boundary used by services and handlers.
// Implementations must not block the caller beyond a short bounded attempt.
type Publisher interface {
	PublishUserRegistered(ctx context.Context, email, name string)
	PublishMessageSent(ctx context.Context, m MessageSent)
	PublishLoadStatusUpdated(ctx context.Context, loadID string, status entity.LoadStatus)
	PublishLoadETAUpdated(ctx context.Context, loadID string, eta time.Time)
}

// Broker delivers an encoded payload. It gives no delivery guarantee beyond
// what the underlying transport provides.
type Broker interface {
	Publish(ctx context.Context, exchange, routingKey string, body []byte) error
	Close() error
}

type UserRegistered struct {
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}

type MessageSent struct {
	MessageID      string             `json:"message_id"`
	LoadID         string             `json:"load_id"`
	SenderID       string             `json:"sender_id"`
	SenderName     string             `json:"sender_name"`
	RecipientID    string             `json:"recipient_id"`
	RecipientName  string             `json:"recipient_name"`
	RecipientEmail string             `json:"recipient_email"`
	ChannelID      string             `json:"channel_id"`
	ChannelType    entity.ChannelType `json:"channel_type"`
	Content        string             `json:"content"`
	SentAt         time.Time          `json:"sent_at"`
}

type LoadStatusUpdated struct {
	LoadID     string            `json:"load_id"`
	Status     entity.LoadStatus `json:"status"`
	OccurredAt time.Time         `json:"occurred_at"`
}

type LoadETAUpdated struct {
	LoadID                string    `json:"load_id"`
	EstimatedDeliveryDate time.Time `json:"estimated_delivery_date"`
	OccurredAt            time.Time `json:"occurred_at"`
}

package repository

import (
	"context"
	"time"

	"github.com/baltotest/freight-api/internal/domain/entity"
)

type MessageFilter struct {
	LoadID      string
	SenderID    string
	RecipientID string
	ChannelID   string
	UnreadOnly  bool
}

// MessageRepository lists results ordered by SentAt ascending.
type MessageRepository interface {
	Create(ctx context.Context, m *entity.Message) error
	GetByID(ctx context.Context, id string) (*entity.Message, error)
	Update(ctx context.Context, m *entity.Message) error
	// MarkRead flips an unread message to read at the given time. It reports
	// false when the message is already read or missing, leaving it untouched.
	MarkRead(ctx context.Context, id string, at time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
	DeleteByLoad(ctx context.Context, loadID string) (int64, error)
	List(ctx context.Context, f MessageFilter) ([]*entity.Message, error)
	CountUnreadByRecipient(ctx context.Context, recipientID string) (int64, error)
	CountByChannel(ctx context.Context, channelID string) (int64, error)
}

package application

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/baltotest/freight-api/internal/domain/entity"
	"github.com/baltotest/freight-api/internal/domain/event"
	repo "github.com/baltotest/freight-api/internal/domain/repository"
	"github.com/baltotest/freight-api/pkg/validation"
)

type MessageService struct {
	Messages    repo.MessageRepository
	Loads       repo.LoadRepository
	Users       repo.UserRepository
	Channels    repo.ChannelRepository
	Tx          repo.TxManager
	Events      event.Publisher
	Attachments AttachmentStore
	Logger      *logrus.Logger
	Now         func() time.Time
}

func NewMessageService(messages repo.MessageRepository, loads repo.LoadRepository, users repo.UserRepository, channels repo.ChannelRepository, tx repo.TxManager, events event.Publisher, attachments AttachmentStore, logger *logrus.Logger) *MessageService {
	return &MessageService{
		Messages:    messages,
		Loads:       loads,
		Users:       users,
		Channels:    channels,
		Tx:          tx,
		Events:      events,
		Attachments: attachments,
		Logger:      discardLogger(logger),
		Now:         utcNow,
	}
}

// Send stores an unread message. SentAt defaults to now.
func (s *MessageService) Send(ctx context.Context, in SendMessageInput) (*MessageResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, invalid(err)
	}
	users := newUserCache(s.Users)
	channels := newChannelCache(s.Channels)
	var (
		m         *entity.Message
		sender    *entity.User
		recipient *entity.User
		channel   *entity.Channel
	)
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.Loads.GetByID(ctx, in.LoadID); err != nil {
			return lookupErr(err, "load", in.LoadID)
		}
		var err error
		if sender, err = s.Users.GetByID(ctx, in.SenderID); err != nil {
			return lookupErr(err, "sender", in.SenderID)
		}
		if recipient, err = s.Users.GetByID(ctx, in.RecipientID); err != nil {
			return lookupErr(err, "recipient", in.RecipientID)
		}
		if channel, err = s.Channels.GetByID(ctx, in.ChannelID); err != nil {
			return lookupErr(err, "channel", in.ChannelID)
		}

		sentAt := s.Now()
		if in.SentAt != nil {
			sentAt = in.SentAt.UTC()
		}
		m = &entity.Message{
			LoadID:      in.LoadID,
			SenderID:    sender.ID,
			RecipientID: recipient.ID,
			ChannelID:   channel.ID,
			Content:     in.Content,
			Attachments: append([]string(nil), in.Attachments...),
			Read:        false,
			SentAt:      sentAt,
		}
		return s.Messages.Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	s.Events.PublishMessageSent(ctx, event.MessageSent{
		MessageID:      m.ID,
		LoadID:         m.LoadID,
		SenderID:       sender.ID,
		SenderName:     sender.Name,
		RecipientID:    recipient.ID,
		RecipientName:  recipient.Name,
		RecipientEmail: recipient.Email,
		ChannelID:      channel.ID,
		ChannelType:    channel.Type,
		Content:        m.Content,
		SentAt:         m.SentAt,
	})

	users.put(sender)
	users.put(recipient)
	channels.put(channel)
	return s.respond(ctx, users, channels, m)
}

func (s *MessageService) Get(ctx context.Context, id string) (*MessageResponse, error) {
	m, err := s.Messages.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "message", id)
	}
	return s.respond(ctx, newUserCache(s.Users), newChannelCache(s.Channels), m)
}

func (s *MessageService) ListByLoad(ctx context.Context, loadID string) ([]MessageResponse, error) {
	if err := s.requireLoad(ctx, loadID); err != nil {
		return nil, err
	}
	return s.list(ctx, repo.MessageFilter{LoadID: loadID})
}

func (s *MessageService) ListBySender(ctx context.Context, senderID string) ([]MessageResponse, error) {
	if err := s.requireUser(ctx, "sender", senderID); err != nil {
		return nil, err
	}
	return s.list(ctx, repo.MessageFilter{SenderID: senderID})
}

func (s *MessageService) ListByRecipient(ctx context.Context, recipientID string) ([]MessageResponse, error) {
	if err := s.requireUser(ctx, "recipient", recipientID); err != nil {
		return nil, err
	}
	return s.list(ctx, repo.MessageFilter{RecipientID: recipientID})
}

func (s *MessageService) ListByChannel(ctx context.Context, channelID string) ([]MessageResponse, error) {
	if _, err := s.Channels.GetByID(ctx, channelID); err != nil {
		return nil, lookupErr(err, "channel", channelID)
	}
	return s.list(ctx, repo.MessageFilter{ChannelID: channelID})
}

func (s *MessageService) ListUnreadByRecipient(ctx context.Context, recipientID string) ([]MessageResponse, error) {
	if err := s.requireUser(ctx, "recipient", recipientID); err != nil {
		return nil, err
	}
	return s.list(ctx, repo.MessageFilter{RecipientID: recipientID, UnreadOnly: true})
}

func (s *MessageService) ListUnreadByLoad(ctx context.Context, loadID string) ([]MessageResponse, error) {
	if err := s.requireLoad(ctx, loadID); err != nil {
		return nil, err
	}
	return s.list(ctx, repo.MessageFilter{LoadID: loadID, UnreadOnly: true})
}

// CountUnread matches the length of ListUnreadByRecipient.
func (s *MessageService) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	if err := s.requireUser(ctx, "recipient", recipientID); err != nil {
		return 0, err
	}
	return s.Messages.CountUnreadByRecipient(ctx, recipientID)
}

// MarkAsRead is idempotent; the first read time is kept.
func (s *MessageService) MarkAsRead(ctx context.Context, id string) (*MessageResponse, error) {
	var m *entity.Message
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if m, err = s.Messages.GetByID(ctx, id); err != nil {
			return lookupErr(err, "message", id)
		}
		if m.Read {
			return nil
		}
		// Conditional on is_read so a concurrent reader cannot overwrite read_at.
		if _, err := s.Messages.MarkRead(ctx, id, s.Now()); err != nil {
			return lookupErr(err, "message", id)
		}
		m, err = s.Messages.GetByID(ctx, id)
		return lookupErr(err, "message", id)
	})
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, newUserCache(s.Users), newChannelCache(s.Channels), m)
}

func (s *MessageService) Delete(ctx context.Context, id string) error {
	return s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.Messages.GetByID(ctx, id); err != nil {
			return lookupErr(err, "message", id)
		}
		return lookupErr(s.Messages.Delete(ctx, id), "message", id)
	})
}

// UploadAttachment stores a file under attachments/<user>/ and returns its URL
// for use in SendMessageInput.Attachments.
func (s *MessageService) UploadAttachment(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.Attachments == nil {
		return "", ErrUnavailable
	}
	if err := s.requireUser(ctx, "user", userID); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("attachments", userID, uuid.NewString()+ext))
	url, err := s.Attachments.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		s.Logger.WithError(err).WithField("object", objectPath).Error("attachment upload failed")
		return "", err
	}
	return url, nil
}

func (s *MessageService) requireUser(ctx context.Context, role, id string) error {
	if _, err := s.Users.GetByID(ctx, id); err != nil {
		return lookupErr(err, role, id)
	}
	return nil
}

func (s *MessageService) requireLoad(ctx context.Context, id string) error {
	if _, err := s.Loads.GetByID(ctx, id); err != nil {
		return lookupErr(err, "load", id)
	}
	return nil
}

func (s *MessageService) list(ctx context.Context, f repo.MessageFilter) ([]MessageResponse, error) {
	msgs, err := s.Messages.List(ctx, f)
	if err != nil {
		return nil, err
	}
	users := newUserCache(s.Users)
	channels := newChannelCache(s.Channels)
	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		r, err := s.respond(ctx, users, channels, m)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *MessageService) respond(ctx context.Context, users *userCache, channels *channelCache, m *entity.Message) (*MessageResponse, error) {
	sender, err := users.summary(ctx, m.SenderID)
	if err != nil {
		return nil, err
	}
	recipient, err := users.summary(ctx, m.RecipientID)
	if err != nil {
		return nil, err
	}
	channel, err := channels.summary(ctx, m.ChannelID)
	if err != nil {
		return nil, err
	}
	attachments := m.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return &MessageResponse{
		ID:          m.ID,
		LoadID:      m.LoadID,
		Sender:      sender,
		Recipient:   recipient,
		Channel:     channel,
		Content:     m.Content,
		Attachments: attachments,
		Read:        m.Read,
		ReadAt:      m.ReadAt,
		SentAt:      m.SentAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

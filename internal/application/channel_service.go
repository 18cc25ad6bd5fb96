package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/baltotest/freight-api/internal/domain/entity"
	repo "github.com/baltotest/freight-api/internal/domain/repository"
	"github.com/baltotest/freight-api/pkg/validation"
)

type ChannelService struct {
	Channels repo.ChannelRepository
	Messages repo.MessageRepository
	Tx       repo.TxManager
	Logger   *logrus.Logger
}

func NewChannelService(channels repo.ChannelRepository, messages repo.MessageRepository, tx repo.TxManager, logger *logrus.Logger) *ChannelService {
	return &ChannelService{Channels: channels, Messages: messages, Tx: tx, Logger: discardLogger(logger)}
}

func parseChannelInput(in ChannelInput) (entity.ChannelType, error) {
	if err := validation.Struct(in); err != nil {
		return "", invalid(err)
	}
	t, err := entity.ParseChannelType(in.Type)
	if err != nil {
		return "", invalidf("%v", err)
	}
	return t, nil
}

func (s *ChannelService) Create(ctx context.Context, in ChannelInput) (*ChannelResponse, error) {
	t, err := parseChannelInput(in)
	if err != nil {
		return nil, err
	}
	c := &entity.Channel{
		Type:          t,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Configuration: in.Configuration,
		Active:        in.Active,
	}
	if err := s.Channels.Create(ctx, c); err != nil {
		return nil, err
	}
	out := toChannelResponse(c)
	return &out, nil
}

func (s *ChannelService) Get(ctx context.Context, id string) (*ChannelResponse, error) {
	c, err := s.Channels.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "channel", id)
	}
	out := toChannelResponse(c)
	return &out, nil
}

func (s *ChannelService) List(ctx context.Context) ([]ChannelResponse, error) {
	return s.list(ctx, repo.ChannelFilter{})
}

func (s *ChannelService) ListByType(ctx context.Context, channelType string) ([]ChannelResponse, error) {
	t, err := entity.ParseChannelType(channelType)
	if err != nil {
		return nil, invalidf("%v", err)
	}
	return s.list(ctx, repo.ChannelFilter{Type: t})
}

func (s *ChannelService) ListActive(ctx context.Context) ([]ChannelResponse, error) {
	return s.list(ctx, repo.ChannelFilter{ActiveOnly: true})
}

// Update replaces every field including the active flag.
func (s *ChannelService) Update(ctx context.Context, id string, in ChannelInput) (*ChannelResponse, error) {
	t, err := parseChannelInput(in)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(c *entity.Channel) {
		c.Type = t
		c.Name = strings.TrimSpace(in.Name)
		c.Description = in.Description
		c.Configuration = in.Configuration
		c.Active = in.Active
	})
}

func (s *ChannelService) Activate(ctx context.Context, id string) (*ChannelResponse, error) {
	return s.mutate(ctx, id, (*entity.Channel).Activate)
}

func (s *ChannelService) Deactivate(ctx context.Context, id string) (*ChannelResponse, error) {
	return s.mutate(ctx, id, (*entity.Channel).Deactivate)
}

// Delete is rejected with ErrConflict while any message was sent over the channel.
func (s *ChannelService) Delete(ctx context.Context, id string) error {
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.Channels.GetByID(ctx, id); err != nil {
			return lookupErr(err, "channel", id)
		}
		n, err := s.Messages.CountByChannel(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: channel %s is referenced by %d messages", ErrConflict, id, n)
		}
		return lookupErr(s.Channels.Delete(ctx, id), "channel", id)
	})
	if err != nil {
		return err
	}
	s.Logger.WithField("channel_id", id).Info("channel deleted")
	return nil
}

func (s *ChannelService) mutate(ctx context.Context, id string, fn func(*entity.Channel)) (*ChannelResponse, error) {
	var c *entity.Channel
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if c, err = s.Channels.GetByID(ctx, id); err != nil {
			return lookupErr(err, "channel", id)
		}
		fn(c)
		return lookupErr(s.Channels.Update(ctx, c), "channel", id)
	})
	if err != nil {
		return nil, err
	}
	out := toChannelResponse(c)
	return &out, nil
}

func (s *ChannelService) list(ctx context.Context, f repo.ChannelFilter) ([]ChannelResponse, error) {
	cs, err := s.Channels.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]ChannelResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toChannelResponse(c))
	}
	return out, nil
}

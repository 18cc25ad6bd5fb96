package application

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/baltotest/freight-api/internal/domain/entity"
	repo "github.com/baltotest/freight-api/internal/domain/repository"
)

func discardLogger(l *logrus.Logger) *logrus.Logger {
	if l != nil {
		return l
	}
	l = logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func utcNow() time.Time { return time.Now().UTC() }

// userCache memoises user lookups while building a batch of responses.
type userCache struct {
	users repo.UserRepository
	seen  map[string]*entity.User
}

func newUserCache(users repo.UserRepository) *userCache {
	return &userCache{users: users, seen: map[string]*entity.User{}}
}

func (c *userCache) put(u *entity.User) {
	if u != nil {
		c.seen[u.ID] = u
	}
}

// summary falls back to an id-only summary when the user has vanished.
func (c *userCache) summary(ctx context.Context, id string) (UserSummary, error) {
	if u, ok := c.seen[id]; ok {
		return toUserSummary(u), nil
	}
	u, err := c.users.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return UserSummary{ID: id}, nil
	}
	if err != nil {
		return UserSummary{}, err
	}
	c.seen[id] = u
	return toUserSummary(u), nil
}

type channelCache struct {
	channels repo.ChannelRepository
	seen     map[string]*entity.Channel
}

func newChannelCache(channels repo.ChannelRepository) *channelCache {
	return &channelCache{channels: channels, seen: map[string]*entity.Channel{}}
}

func (c *channelCache) put(ch *entity.Channel) {
	if ch != nil {
		c.seen[ch.ID] = ch
	}
}

func (c *channelCache) summary(ctx context.Context, id string) (ChannelSummary, error) {
	if ch, ok := c.seen[id]; ok {
		return toChannelSummary(ch), nil
	}
	ch, err := c.channels.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ChannelSummary{ID: id}, nil
	}
	if err != nil {
		return ChannelSummary{}, err
	}
	c.seen[id] = ch
	return toChannelSummary(ch), nil
}

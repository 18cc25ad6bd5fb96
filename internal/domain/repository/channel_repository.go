package repository

import (
	"context"

	"github.com/baltotest/freight-api/internal/domain/entity"
)

type ChannelFilter struct {
	Type       entity.ChannelType
	ActiveOnly bool
}

// ChannelRepository lists results ordered by name.
type ChannelRepository interface {
	Create(ctx context.Context, c *entity.Channel) error
	GetByID(ctx context.Context, id string) (*entity.Channel, error)
	Update(ctx context.Context, c *entity.Channel) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ChannelFilter) ([]*entity.Channel, error)
}

package repository

import (
	"context"

	"github.com/baltotest/freight-api/internal/domain/entity"
)

// LoadFilter narrows List. Zero fields are ignored; set fields are ANDed.
type LoadFilter struct {
	BrokerID   string
	CustomerID string
	CarrierID  string
	Status     entity.LoadStatus
}

// LoadRepository lists results newest first.
type LoadRepository interface {
	Create(ctx context.Context, l *entity.Load) error
	GetByID(ctx context.Context, id string) (*entity.Load, error)
	Update(ctx context.Context, l *entity.Load) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f LoadFilter) ([]*entity.Load, error)
}

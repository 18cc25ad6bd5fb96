package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/baltotest/freight-api/internal/domain/entity"
	repo "github.com/baltotest/freight-api/internal/domain/repository"
)

type LoadRepository struct{ s *Store }

func (r *LoadRepository) Create(ctx context.Context, l *entity.Load) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	} else if _, ok := r.s.loads[l.ID]; ok {
		return repo.ErrDuplicateKey
	}
	now := r.s.now()
	l.CreatedAt, l.UpdatedAt = now, now
	track(ctx, r.s.loads, "load", l.ID)
	r.s.loads[l.ID] = cloneLoad(l)
	return nil
}

func (r *LoadRepository) GetByID(_ context.Context, id string) (*entity.Load, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.loads[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneLoad(l), nil
}

func (r *LoadRepository) Update(ctx context.Context, l *entity.Load) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.loads[l.ID]; !ok {
		return repo.ErrNotFound
	}
	l.UpdatedAt = r.s.now()
	track(ctx, r.s.loads, "load", l.ID)
	r.s.loads[l.ID] = cloneLoad(l)
	return nil
}

func (r *LoadRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.loads[id]; !ok {
		return repo.ErrNotFound
	}
	track(ctx, r.s.loads, "load", id)
	delete(r.s.loads, id)
	return nil
}

func (r *LoadRepository) List(_ context.Context, f repo.LoadFilter) ([]*entity.Load, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Load{}
	for _, l := range r.s.loads {
		if f.BrokerID != "" && l.BrokerID != f.BrokerID {
			continue
		}
		if f.CustomerID != "" && l.CustomerID != f.CustomerID {
			continue
		}
		if f.CarrierID != "" && !l.HasCarrier(f.CarrierID) {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		out = append(out, cloneLoad(l))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

var _ repo.LoadRepository = (*LoadRepository)(nil)

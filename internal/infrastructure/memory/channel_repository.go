package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/baltotest/freight-api/internal/domain/entity"
	repo "github.com/baltotest/freight-api/internal/domain/repository"
)

type ChannelRepository struct{ s *Store }

func (r *ChannelRepository) Create(ctx context.Context, c *entity.Channel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	} else if _, ok := r.s.channels[c.ID]; ok {
		return repo.ErrDuplicateKey
	}
	now := r.s.now()
	c.CreatedAt, c.UpdatedAt = now, now
	track(ctx, r.s.channels, "channel", c.ID)
	r.s.channels[c.ID] = cloneChannel(c)
	return nil
}

func (r *ChannelRepository) GetByID(_ context.Context, id string) (*entity.Channel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.channels[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneChannel(c), nil
}

func (r *ChannelRepository) Update(ctx context.Context, c *entity.Channel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.channels[c.ID]; !ok {
		return repo.ErrNotFound
	}
	c.UpdatedAt = r.s.now()
	track(ctx, r.s.channels, "channel", c.ID)
	r.s.channels[c.ID] = cloneChannel(c)
	return nil
}

func (r *ChannelRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.channels[id]; !ok {
		return repo.ErrNotFound
	}
	track(ctx, r.s.channels, "channel", id)
	delete(r.s.channels, id)
	return nil
}

func (r *ChannelRepository) List(_ context.Context, f repo.ChannelFilter) ([]*entity.Channel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Channel{}
	for _, c := range r.s.channels {
		if f.Type != "" && c.Type != f.Type {
			continue
		}
		if f.ActiveOnly && !c.Active {
			continue
		}
		out = append(out, cloneChannel(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

var _ repo.ChannelRepository = (*ChannelRepository)(nil)

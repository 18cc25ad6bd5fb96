package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/baltotest/freight-api/internal/domain/entity"
	repo "github.com/baltotest/freight-api/internal/domain/repository"
)

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repo.ErrDuplicateKey
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	} else if _, ok := r.s.users[u.ID]; ok {
		return repo.ErrDuplicateKey
	}
	now := r.s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	track(ctx, r.s.users, "user", u.ID)
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	for id, existing := range r.s.users {
		if id != u.ID && strings.EqualFold(existing.Email, u.Email) {
			return repo.ErrDuplicateKey
		}
	}
	u.UpdatedAt = r.s.now()
	track(ctx, r.s.users, "user", u.ID)
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

var _ repo.UserRepository = (*UserRepository)(nil)

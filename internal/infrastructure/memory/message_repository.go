package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/baltotest/freight-api/internal/domain/entity"
	repo "github.com/baltotest/freight-api/internal/domain/repository"
)

type MessageRepository struct{ s *Store }

func (r *MessageRepository) Create(ctx context.Context, m *entity.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	} else if _, ok := r.s.messages[m.ID]; ok {
		return repo.ErrDuplicateKey
	}
	now := r.s.now()
	m.CreatedAt, m.UpdatedAt = now, now
	if m.SentAt.IsZero() {
		m.SentAt = now
	}
	track(ctx, r.s.messages, "message", m.ID)
	r.s.messages[m.ID] = cloneMessage(m)
	return nil
}

func (r *MessageRepository) GetByID(_ context.Context, id string) (*entity.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.messages[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneMessage(m), nil
}

func (r *MessageRepository) Update(ctx context.Context, m *entity.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.messages[m.ID]; !ok {
		return repo.ErrNotFound
	}
	m.UpdatedAt = r.s.now()
	track(ctx, r.s.messages, "message", m.ID)
	r.s.messages[m.ID] = cloneMessage(m)
	return nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, id string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.messages[id]
	if !ok {
		return false, nil
	}
	m := cloneMessage(cur)
	if !m.MarkAsRead(at) {
		return false, nil
	}
	m.UpdatedAt = r.s.now()
	track(ctx, r.s.messages, "message", id)
	r.s.messages[id] = m
	return true, nil
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.messages[id]; !ok {
		return repo.ErrNotFound
	}
	track(ctx, r.s.messages, "message", id)
	delete(r.s.messages, id)
	return nil
}

func (r *MessageRepository) DeleteByLoad(ctx context.Context, loadID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, m := range r.s.messages {
		if m.LoadID == loadID {
			track(ctx, r.s.messages, "message", id)
			delete(r.s.messages, id)
			n++
		}
	}
	return n, nil
}

func matches(m *entity.Message, f repo.MessageFilter) bool {
	switch {
	case f.LoadID != "" && m.LoadID != f.LoadID:
		return false
	case f.SenderID != "" && m.SenderID != f.SenderID:
		return false
	case f.RecipientID != "" && m.RecipientID != f.RecipientID:
		return false
	case f.ChannelID != "" && m.ChannelID != f.ChannelID:
		return false
	case f.UnreadOnly && m.Read:
		return false
	}
	return true
}

func (r *MessageRepository) List(_ context.Context, f repo.MessageFilter) ([]*entity.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Message{}
	for _, m := range r.s.messages {
		if matches(m, f) {
			out = append(out, cloneMessage(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].SentAt.Before(out[j].SentAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MessageRepository) count(f repo.MessageFilter) int64 {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, m := range r.s.messages {
		if matches(m, f) {
			n++
		}
	}
	return n
}

func (r *MessageRepository) CountUnreadByRecipient(_ context.Context, recipientID string) (int64, error) {
	return r.count(repo.MessageFilter{RecipientID: recipientID, UnreadOnly: true}), nil
}

func (r *MessageRepository) CountByChannel(_ context.Context, channelID string) (int64, error) {
	return r.count(repo.MessageFilter{ChannelID: channelID}), nil
}

var _ repo.MessageRepository = (*MessageRepository)(nil)

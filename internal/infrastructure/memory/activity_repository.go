package memory

import (
	"context"
	"time"

	repo "github.com/baltotest/freight-api/internal/domain/repository"
)

type ActivityRepository struct{ s *Store }

func within(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (r *ActivityRepository) UserActivity(_ context.Context, from, to time.Time) ([]repo.UserActivity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	byUser := map[string]*repo.UserActivity{}
	row := func(id string) *repo.UserActivity {
		a, ok := byUser[id]
		if !ok {
			a = &repo.UserActivity{UserID: id}
			byUser[id] = a
		}
		return a
	}
	for _, l := range r.s.loads {
		if within(l.CreatedAt, from, to) {
			row(l.BrokerID).LoadsCreated++
		}
	}
	for _, m := range r.s.messages {
		if !within(m.SentAt, from, to) {
			continue
		}
		a := row(m.SenderID)
		a.MessagesSent++
		if a.LastMessageAt == nil || m.SentAt.After(*a.LastMessageAt) {
			sent := m.SentAt
			a.LastMessageAt = &sent
		}
	}

	out := make([]repo.UserActivity, 0, len(byUser))
	for id, a := range byUser {
		u, ok := r.s.users[id]
		if !ok {
			continue
		}
		a.Name, a.Role = u.Name, u.Role
		out = append(out, *a)
	}
	repo.SortUserActivity(out)
	return out, nil
}

var _ repo.ActivityRepository = (*ActivityRepository)(nil)

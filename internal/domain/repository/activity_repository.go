package repository

import (
	"context"
	"sort"
	"time"

	"github.com/baltotest/freight-api/internal/domain/entity"
)

// UserActivity aggregates one user's work inside a reporting window.
// LoadsCreated counts loads the user brokered.
type UserActivity struct {
	UserID        string
	Name          string
	Role          entity.Role
	LoadsCreated  int64
	MessagesSent  int64
	LastMessageAt *time.Time
}

// ActivityRepository reports over the half-open window [from, to). Users
// with no loads or messages in the window are omitted. Rows are ordered by
// LastMessageAt descending with users who sent nothing last, then by name.
type ActivityRepository interface {
	UserActivity(ctx context.Context, from, to time.Time) ([]UserActivity, error)
}

// SortUserActivity orders rows most recent sender first; users who sent no
// messages follow, then ties break on name and id.
func SortUserActivity(rows []UserActivity) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.LastMessageAt != nil && b.LastMessageAt == nil:
			return true
		case a.LastMessageAt == nil && b.LastMessageAt != nil:
			return false
		case a.LastMessageAt != nil && !a.LastMessageAt.Equal(*b.LastMessageAt):
			return a.LastMessageAt.After(*b.LastMessageAt)
		case a.Name != b.Name:
			return a.Name < b.Name
		}
		return a.UserID < b.UserID
	})
}

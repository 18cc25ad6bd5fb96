package gormstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/baltotest/freight-api/internal/domain/entity"
	repo "github.com/baltotest/freight-api/internal/domain/repository"
)

type ActivityRepository struct{ db *gorm.DB }

type activityCount struct {
	UserID string
	N      int64
	// sqlite hands back max(datetime) as text, so the column is parsed here.
	Last sql.NullString
}

// sqliteTimeLayouts are tried after RFC 3339 when parsing aggregated times.
var sqliteTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func parseAggregateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range sqliteTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse aggregate time %q", s)
}

func (r *ActivityRepository) UserActivity(ctx context.Context, from, to time.Time) ([]repo.UserActivity, error) {
	from, to = from.UTC(), to.UTC()
	q := conn(ctx, r.db)

	var loads, msgs []activityCount
	if err := q.Model(&loadModel{}).
		Select("broker_id AS user_id, count(*) AS n").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("broker_id").
		Scan(&loads).Error; err != nil {
		return nil, mapErr(err)
	}
	if err := q.Model(&messageModel{}).
		Select("sender_id AS user_id, count(*) AS n, max(sent_at) AS last").
		Where("sent_at >= ? AND sent_at < ?", from, to).
		Group("sender_id").
		Scan(&msgs).Error; err != nil {
		return nil, mapErr(err)
	}

	byUser := map[string]*repo.UserActivity{}
	row := func(id string) *repo.UserActivity {
		a, ok := byUser[id]
		if !ok {
			a = &repo.UserActivity{UserID: id}
			byUser[id] = a
		}
		return a
	}
	for _, c := range loads {
		row(c.UserID).LoadsCreated = c.N
	}
	for _, c := range msgs {
		a := row(c.UserID)
		a.MessagesSent = c.N
		if c.Last.Valid && c.Last.String != "" {
			t, err := parseAggregateTime(c.Last.String)
			if err != nil {
				return nil, err
			}
			a.LastMessageAt = &t
		}
	}
	if len(byUser) == 0 {
		return []repo.UserActivity{}, nil
	}

	ids := make([]string, 0, len(byUser))
	for id := range byUser {
		ids = append(ids, id)
	}
	var users []userModel
	if err := q.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, mapErr(err)
	}
	out := make([]repo.UserActivity, 0, len(users))
	for _, u := range users {
		a := byUser[u.ID]
		a.Name, a.Role = u.Name, entity.Role(u.Role)
		out = append(out, *a)
	}
	repo.SortUserActivity(out)
	return out, nil
}

var _ repo.ActivityRepository = (*ActivityRepository)(nil)

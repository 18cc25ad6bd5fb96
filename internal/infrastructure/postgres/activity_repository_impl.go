package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baltotest/freight-api/internal/domain/entity"
	"github.com/baltotest/freight-api/internal/domain/repository"
)

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

const userActivitySQL = `
	SELECT u.id, u.name, u.role, COALESCE(l.n, 0), COALESCE(m.n, 0), m.last_sent
	FROM users u
	LEFT JOIN (
		SELECT broker_id, count(*) AS n FROM loads
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY broker_id
	) l ON l.broker_id = u.id
	LEFT JOIN (
		SELECT sender_id, count(*) AS n, max(sent_at) AS last_sent FROM messages
		WHERE sent_at >= $1 AND sent_at < $2
		GROUP BY sender_id
	) m ON m.sender_id = u.id
	WHERE l.n IS NOT NULL OR m.n IS NOT NULL
	ORDER BY m.last_sent DESC NULLS LAST, u.name, u.id`

func (r *ActivityRepository) UserActivity(ctx context.Context, from, to time.Time) ([]repository.UserActivity, error) {
	rows, err := db(ctx, r.pool).Query(ctx, userActivitySQL, from.UTC(), to.UTC())
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []repository.UserActivity{}
	for rows.Next() {
		var (
			a    repository.UserActivity
			role string
		)
		if err := rows.Scan(&a.UserID, &a.Name, &role, &a.LoadsCreated, &a.MessagesSent, &a.LastMessageAt); err != nil {
			return nil, mapErr(err)
		}
		a.Role = entity.Role(role)
		out = append(out, a)
	}
	return out, mapErr(rows.Err())
}

var _ repository.ActivityRepository = (*ActivityRepository)(nil)

package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baltotest/freight-api/internal/domain/entity"
	"github.com/baltotest/freight-api/internal/domain/repository"
)

type ChannelRepository struct {
	pool *pgxpool.Pool
}

func NewChannelRepository(pool *pgxpool.Pool) *ChannelRepository {
	return &ChannelRepository{pool: pool}
}

const channelColumns = `id, type, name, description, configuration, active, created_at, updated_at`

func scanChannel(row pgx.Row) (*entity.Channel, error) {
	c := &entity.Channel{}
	var typ string
	if err := row.Scan(&c.ID, &typ, &c.Name, &c.Description, &c.Configuration,
		&c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	c.Type = entity.ChannelType(typ)
	return c, nil
}

func (r *ChannelRepository) Create(ctx context.Context, c *entity.Channel) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	row := db(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO channels (id, type, name, description, configuration, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, c.ID, string(c.Type), c.Name, c.Description, c.Configuration, c.Active)

	return mapErr(row.Scan(&c.CreatedAt, &c.UpdatedAt))
}

func (r *ChannelRepository) GetByID(ctx context.Context, id string) (*entity.Channel, error) {
	return scanChannel(db(ctx, r.pool).QueryRow(ctx, `SELECT `+channelColumns+` FROM channels WHERE id = $1`, id))
}

func (r *ChannelRepository) Update(ctx context.Context, c *entity.Channel) error {
	c.UpdatedAt = time.Now().UTC()
	return affected(db(ctx, r.pool).Exec(ctx, `
		UPDATE channels
		SET type = $1, name = $2, description = $3, configuration = $4, active = $5, updated_at = $6
		WHERE id = $7
	`, string(c.Type), c.Name, c.Description, c.Configuration, c.Active, c.UpdatedAt, c.ID))
}

func (r *ChannelRepository) Delete(ctx context.Context, id string) error {
	return affected(db(ctx, r.pool).Exec(ctx, `DELETE FROM channels WHERE id = $1`, id))
}

func (r *ChannelRepository) List(ctx context.Context, f repository.ChannelFilter) ([]*entity.Channel, error) {
	var w where
	if f.Type != "" {
		w.eq("type", string(f.Type))
	}
	if f.ActiveOnly {
		w.raw("active")
	}
	rows, err := db(ctx, r.pool).Query(ctx,
		`SELECT `+channelColumns+` FROM channels`+w.String()+` ORDER BY name, id`, w.args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []*entity.Channel{}
	for rows.Next() {
		c, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, mapErr(rows.Err())
}

var _ repository.ChannelRepository = (*ChannelRepository)(nil)

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

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

const messageColumns = `id, load_id, sender_id, recipient_id, channel_id, content, attachments,
	is_read, read_at, sent_at, created_at, updated_at`

func scanMessage(row pgx.Row) (*entity.Message, error) {
	m := &entity.Message{}
	if err := row.Scan(&m.ID, &m.LoadID, &m.SenderID, &m.RecipientID, &m.ChannelID, &m.Content,
		&m.Attachments, &m.Read, &m.ReadAt, &m.SentAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return m, nil
}

func attachments(m *entity.Message) []string {
	if m.Attachments == nil {
		return []string{}
	}
	return m.Attachments
}

func (r *MessageRepository) Create(ctx context.Context, m *entity.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.SentAt.IsZero() {
		m.SentAt = time.Now().UTC()
	}
	row := db(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO messages (id, load_id, sender_id, recipient_id, channel_id, content,
			attachments, is_read, read_at, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`, m.ID, m.LoadID, m.SenderID, m.RecipientID, m.ChannelID, m.Content,
		attachments(m), m.Read, m.ReadAt, m.SentAt)

	return mapErr(row.Scan(&m.CreatedAt, &m.UpdatedAt))
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	return scanMessage(db(ctx, r.pool).QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
}

func (r *MessageRepository) Update(ctx context.Context, m *entity.Message) error {
	m.UpdatedAt = time.Now().UTC()
	return affected(db(ctx, r.pool).Exec(ctx, `
		UPDATE messages
		SET load_id = $1, sender_id = $2, recipient_id = $3, channel_id = $4, content = $5,
		    attachments = $6, is_read = $7, read_at = $8, sent_at = $9, updated_at = $10
		WHERE id = $11
	`, m.LoadID, m.SenderID, m.RecipientID, m.ChannelID, m.Content,
		attachments(m), m.Read, m.ReadAt, m.SentAt, m.UpdatedAt, m.ID))
}

func (r *MessageRepository) MarkRead(ctx context.Context, id string, at time.Time) (bool, error) {
	tag, err := db(ctx, r.pool).Exec(ctx, `
		UPDATE messages SET is_read = TRUE, read_at = $2, updated_at = $2
		WHERE id = $1 AND NOT is_read
	`, id, at.UTC())
	if err != nil {
		return false, mapErr(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	return affected(db(ctx, r.pool).Exec(ctx, `DELETE FROM messages WHERE id = $1`, id))
}

func (r *MessageRepository) DeleteByLoad(ctx context.Context, loadID string) (int64, error) {
	tag, err := db(ctx, r.pool).Exec(ctx, `DELETE FROM messages WHERE load_id = $1`, loadID)
	if err != nil {
		return 0, mapErr(err)
	}
	return tag.RowsAffected(), nil
}

func messageWhere(f repository.MessageFilter) *where {
	w := &where{}
	if f.LoadID != "" {
		w.eq("load_id", f.LoadID)
	}
	if f.SenderID != "" {
		w.eq("sender_id", f.SenderID)
	}
	if f.RecipientID != "" {
		w.eq("recipient_id", f.RecipientID)
	}
	if f.ChannelID != "" {
		w.eq("channel_id", f.ChannelID)
	}
	if f.UnreadOnly {
		w.raw("NOT is_read")
	}
	return w
}

func (r *MessageRepository) List(ctx context.Context, f repository.MessageFilter) ([]*entity.Message, error) {
	w := messageWhere(f)
	rows, err := db(ctx, r.pool).Query(ctx,
		`SELECT `+messageColumns+` FROM messages`+w.String()+` ORDER BY sent_at ASC, id`, w.args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []*entity.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, mapErr(rows.Err())
}

func (r *MessageRepository) count(ctx context.Context, f repository.MessageFilter) (int64, error) {
	w := messageWhere(f)
	var n int64
	err := db(ctx, r.pool).QueryRow(ctx, `SELECT count(*) FROM messages`+w.String(), w.args...).Scan(&n)
	return n, mapErr(err)
}

func (r *MessageRepository) CountUnreadByRecipient(ctx context.Context, recipientID string) (int64, error) {
	return r.count(ctx, repository.MessageFilter{RecipientID: recipientID, UnreadOnly: true})
}

func (r *MessageRepository) CountByChannel(ctx context.Context, channelID string) (int64, error) {
	return r.count(ctx, repository.MessageFilter{ChannelID: channelID})
}

var _ repository.MessageRepository = (*MessageRepository)(nil)

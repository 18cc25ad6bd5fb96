package gormstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/baltotest/freight-api/internal/domain/entity"
	repo "github.com/baltotest/freight-api/internal/domain/repository"
)

// Store bundles the repositories over one *gorm.DB.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Users() *UserRepository        { return &UserRepository{db: s.db} }
func (s *Store) Loads() *LoadRepository        { return &LoadRepository{db: s.db} }
func (s *Store) Messages() *MessageRepository  { return &MessageRepository{db: s.db} }
func (s *Store) Channels() *ChannelRepository  { return &ChannelRepository{db: s.db} }
func (s *Store) Activity() *ActivityRepository { return &ActivityRepository{db: s.db} }
func (s *Store) Tx() *TxManager                { return NewTxManager(s.db) }

// save rewrites every column except created_at on the row keyed by rec's id.
func save(ctx context.Context, db *gorm.DB, rec any) error {
	return affected(conn(ctx, db).Model(rec).Select("*").Omit("created_at").Updates(rec))
}

type UserRepository struct{ db *gorm.DB }

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	rec := toUserModel(u)
	if err := conn(ctx, r.db).Create(&rec).Error; err != nil {
		return mapErr(err)
	}
	u.CreatedAt, u.UpdatedAt = rec.CreatedAt, rec.UpdatedAt
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var rec userModel
	if err := conn(ctx, r.db).Where("id = ?", id).Take(&rec).Error; err != nil {
		return nil, mapErr(err)
	}
	return rec.toEntity(), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var rec userModel
	if err := conn(ctx, r.db).Where("LOWER(email) = LOWER(?)", email).Take(&rec).Error; err != nil {
		return nil, mapErr(err)
	}
	return rec.toEntity(), nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now().UTC()
	rec := toUserModel(u)
	return save(ctx, r.db, &rec)
}

type LoadRepository struct{ db *gorm.DB }

func (r *LoadRepository) Create(ctx context.Context, l *entity.Load) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	rec := toLoadModel(l)
	if err := conn(ctx, r.db).Create(&rec).Error; err != nil {
		return mapErr(err)
	}
	l.CreatedAt, l.UpdatedAt = rec.CreatedAt, rec.UpdatedAt
	return nil
}

func (r *LoadRepository) GetByID(ctx context.Context, id string) (*entity.Load, error) {
	var rec loadModel
	if err := conn(ctx, r.db).Where("id = ?", id).Take(&rec).Error; err != nil {
		return nil, mapErr(err)
	}
	return rec.toEntity(), nil
}

func (r *LoadRepository) Update(ctx context.Context, l *entity.Load) error {
	l.UpdatedAt = time.Now().UTC()
	rec := toLoadModel(l)
	return save(ctx, r.db, &rec)
}

func (r *LoadRepository) Delete(ctx context.Context, id string) error {
	return affected(conn(ctx, r.db).Where("id = ?", id).Delete(&loadModel{}))
}

func (r *LoadRepository) List(ctx context.Context, f repo.LoadFilter) ([]*entity.Load, error) {
	q := conn(ctx, r.db)
	if f.BrokerID != "" {
		q = q.Where("broker_id = ?", f.BrokerID)
	}
	if f.CustomerID != "" {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.CarrierID != "" {
		q = q.Where("carrier_id = ?", f.CarrierID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	var recs []loadModel
	if err := q.Order("created_at DESC").Order("id").Find(&recs).Error; err != nil {
		return nil, mapErr(err)
	}
	out := make([]*entity.Load, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toEntity())
	}
	return out, nil
}

type MessageRepository struct{ db *gorm.DB }

func (r *MessageRepository) Create(ctx context.Context, m *entity.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.SentAt.IsZero() {
		m.SentAt = time.Now().UTC()
	}
	rec := toMessageModel(m)
	if err := conn(ctx, r.db).Create(&rec).Error; err != nil {
		return mapErr(err)
	}
	m.CreatedAt, m.UpdatedAt = rec.CreatedAt, rec.UpdatedAt
	return nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	var rec messageModel
	if err := conn(ctx, r.db).Where("id = ?", id).Take(&rec).Error; err != nil {
		return nil, mapErr(err)
	}
	return rec.toEntity(), nil
}

func (r *MessageRepository) Update(ctx context.Context, m *entity.Message) error {
	m.UpdatedAt = time.Now().UTC()
	rec := toMessageModel(m)
	return save(ctx, r.db, &rec)
}

func (r *MessageRepository) MarkRead(ctx context.Context, id string, at time.Time) (bool, error) {
	at = at.UTC()
	res := conn(ctx, r.db).Model(&messageModel{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]any{"is_read": true, "read_at": at, "updated_at": at})
	return res.RowsAffected > 0, mapErr(res.Error)
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	return affected(conn(ctx, r.db).Where("id = ?", id).Delete(&messageModel{}))
}

func (r *MessageRepository) DeleteByLoad(ctx context.Context, loadID string) (int64, error) {
	res := conn(ctx, r.db).Where("load_id = ?", loadID).Delete(&messageModel{})
	return res.RowsAffected, mapErr(res.Error)
}

func (r *MessageRepository) filtered(ctx context.Context, f repo.MessageFilter) *gorm.DB {
	q := conn(ctx, r.db).Model(&messageModel{})
	if f.LoadID != "" {
		q = q.Where("load_id = ?", f.LoadID)
	}
	if f.SenderID != "" {
		q = q.Where("sender_id = ?", f.SenderID)
	}
	if f.RecipientID != "" {
		q = q.Where("recipient_id = ?", f.RecipientID)
	}
	if f.ChannelID != "" {
		q = q.Where("channel_id = ?", f.ChannelID)
	}
	if f.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	return q
}

func (r *MessageRepository) List(ctx context.Context, f repo.MessageFilter) ([]*entity.Message, error) {
	var recs []messageModel
	if err := r.filtered(ctx, f).Order("sent_at ASC").Order("id").Find(&recs).Error; err != nil {
		return nil, mapErr(err)
	}
	out := make([]*entity.Message, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toEntity())
	}
	return out, nil
}

func (r *MessageRepository) CountUnreadByRecipient(ctx context.Context, recipientID string) (int64, error) {
	var n int64
	err := r.filtered(ctx, repo.MessageFilter{RecipientID: recipientID, UnreadOnly: true}).Count(&n).Error
	return n, mapErr(err)
}

func (r *MessageRepository) CountByChannel(ctx context.Context, channelID string) (int64, error) {
	var n int64
	err := r.filtered(ctx, repo.MessageFilter{ChannelID: channelID}).Count(&n).Error
	return n, mapErr(err)
}

type ChannelRepository struct{ db *gorm.DB }

func (r *ChannelRepository) Create(ctx context.Context, c *entity.Channel) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	rec := toChannelModel(c)
	if err := conn(ctx, r.db).Create(&rec).Error; err != nil {
		return mapErr(err)
	}
	c.CreatedAt, c.UpdatedAt = rec.CreatedAt, rec.UpdatedAt
	return nil
}

func (r *ChannelRepository) GetByID(ctx context.Context, id string) (*entity.Channel, error) {
	var rec channelModel
	if err := conn(ctx, r.db).Where("id = ?", id).Take(&rec).Error; err != nil {
		return nil, mapErr(err)
	}
	return rec.toEntity(), nil
}

func (r *ChannelRepository) Update(ctx context.Context, c *entity.Channel) error {
	c.UpdatedAt = time.Now().UTC()
	rec := toChannelModel(c)
	return save(ctx, r.db, &rec)
}

func (r *ChannelRepository) Delete(ctx context.Context, id string) error {
	return affected(conn(ctx, r.db).Where("id = ?", id).Delete(&channelModel{}))
}

func (r *ChannelRepository) List(ctx context.Context, f repo.ChannelFilter) ([]*entity.Channel, error) {
	q := conn(ctx, r.db)
	if f.Type != "" {
		q = q.Where("type = ?", string(f.Type))
	}
	if f.ActiveOnly {
		q = q.Where("active = ?", true)
	}
	var recs []channelModel
	if err := q.Order("name").Order("id").Find(&recs).Error; err != nil {
		return nil, mapErr(err)
	}
	out := make([]*entity.Channel, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toEntity())
	}
	return out, nil
}

var (
	_ repo.UserRepository    = (*UserRepository)(nil)
	_ repo.LoadRepository    = (*LoadRepository)(nil)
	_ repo.MessageRepository = (*MessageRepository)(nil)
	_ repo.ChannelRepository = (*ChannelRepository)(nil)
)

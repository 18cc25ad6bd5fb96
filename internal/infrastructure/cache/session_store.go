// Package cache keeps login sessions in Redis hashes keyed by user id.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/baltotest/freight-api/internal/application"
)

const sessionPrefix = "user:session:"

func sessionKey(userID string) string {
	return sessionPrefix + userID
}

type SessionStore struct {
	rdb *redis.Client
	// ttl applies when a session carries no expiry of its own.
	ttl    time.Duration
	logger *logrus.Logger
	now    func() time.Time
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *SessionStore {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SessionStore{rdb: rdb, ttl: ttl, logger: logger, now: time.Now}
}

func sessionFields(s application.Session, now time.Time) map[string]any {
	return map[string]any{
		"user_id":    s.UserID,
		"email":      s.Email,
		"name":       s.Name,
		"role":       string(s.Role),
		"logged_in":  true,
		"created_at": now.UTC().Format(time.RFC3339),
		"expires_at": s.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

func (st *SessionStore) expiry(s application.Session) time.Duration {
	if s.ExpiresAt.IsZero() {
		return st.ttl
	}
	if d := s.ExpiresAt.Sub(st.now()); d > 0 {
		return d
	}
	return time.Second
}

func (st *SessionStore) Save(ctx context.Context, s application.Session) error {
	key := sessionKey(s.UserID)
	pipe := st.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, sessionFields(s, st.now()))
	pipe.Expire(ctx, key, st.expiry(s))
	_, err := pipe.Exec(ctx)
	return err
}

func (st *SessionStore) Exists(ctx context.Context, userID string) (bool, error) {
	n, err := st.rdb.Exists(ctx, sessionKey(userID)).Result()
	return n > 0, err
}

// Rename updates the cached display name, preserving the remaining TTL.
// Missing sessions are left alone.
func (st *SessionStore) Rename(ctx context.Context, userID, name string) error {
	key := sessionKey(userID)
	ttl, err := st.rdb.TTL(ctx, key).Result()
	if err != nil {
		return err
	}
	if ttl <= 0 {
		return nil
	}
	pipe := st.rdb.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"name":       name,
		"updated_at": st.now().UTC().Format(time.RFC3339),
	})
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		st.logger.WithError(err).WithField("key", key).Warn("redis pipeline failed")
		return err
	}
	return nil
}

func (st *SessionStore) Delete(ctx context.Context, userID string) error {
	return st.rdb.Del(ctx, sessionKey(userID)).Err()
}

var _ application.SessionStore = (*SessionStore)(nil)

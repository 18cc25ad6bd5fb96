package application

import (
	"context"
	"io"
	"time"

	"github.com/baltotest/freight-api/internal/domain/entity"
)

// TokenProvider issues and verifies bearer tokens bound to a user id.
type TokenProvider interface {
	GenerateToken(userID string) (token string, expiresAt time.Time, err error)
	ValidateToken(token string) bool
	ExtractUserID(token string) (string, error)
}

// PasswordHasher is a one-way salted hash.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

type Session struct {
	UserID    string
	Email     string
	Name      string
	Role      entity.Role
	ExpiresAt time.Time
}

// SessionStore records logged-in users. A nil store disables session checks.
type SessionStore interface {
	Save(ctx context.Context, s Session) error
	Exists(ctx context.Context, userID string) (bool, error)
	Rename(ctx context.Context, userID, name string) error
	Delete(ctx context.Context, userID string) error
}

// LoadIndexer keeps a full-text view of loads. Search returns load ids
// ordered by relevance.
type LoadIndexer interface {
	Index(ctx context.Context, l *entity.Load) error
	Remove(ctx context.Context, loadID string) error
	Search(ctx context.Context, q string, size int) ([]string, error)
}

// AttachmentStore persists uploaded files and returns a public URL.
type AttachmentStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// Mailer renders the named template with data and delivers it to one recipient.
type Mailer interface {
	Send(ctx context.Context, to, template string, data any) error
}

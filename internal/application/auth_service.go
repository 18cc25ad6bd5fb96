package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/baltotest/freight-api/internal/domain/entity"
	repo "github.com/baltotest/freight-api/internal/domain/repository"
	"github.com/baltotest/freight-api/pkg/validation"
)

type AuthService struct {
	Users    repo.UserRepository
	Tokens   TokenProvider
	Hasher   PasswordHasher
	Sessions SessionStore
	Logger   *logrus.Logger
	Now      func() time.Time
}

func NewAuthService(users repo.UserRepository, tokens TokenProvider, hasher PasswordHasher, sessions SessionStore, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:    users,
		Tokens:   tokens,
		Hasher:   hasher,
		Sessions: sessions,
		Logger:   discardLogger(logger),
		Now:      utcNow,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user and returns a token bound to its id.
// Publishing the registration event is left to the caller.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validation.Struct(in); err != nil {
		return nil, invalid(err)
	}
	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, invalidf("%v", err)
	}
	email := normalizeEmail(in.Email)

	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := entity.NewUser(strings.TrimSpace(in.Name), email, hash, role)
	u.Touch(s.Now())
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user registered")
	return s.issue(ctx, u)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := validation.Struct(in); err != nil {
		return nil, invalid(err)
	}
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.Hasher.Verify(in.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	u.Touch(s.Now())
	if err := s.Users.Update(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("touch last active failed")
	}
	return s.issue(ctx, u)
}

// Logout forgets the user's session. Tokens stay valid until expiry when
// no session store is configured.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if s.Sessions == nil {
		return nil
	}
	return s.Sessions.Delete(ctx, userID)
}

func (s *AuthService) issue(ctx context.Context, u *entity.User) (*AuthResult, error) {
	token, exp, err := s.Tokens.GenerateToken(u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		return nil, err
	}
	if s.Sessions != nil {
		sess := Session{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, ExpiresAt: exp}
		// Best-effort: the guard fails open when the store is unreachable.
		if err := s.Sessions.Save(ctx, sess); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("record session failed")
		}
	}
	return &AuthResult{Token: token, ExpiresAt: exp, User: toUserResponse(u)}, nil
}

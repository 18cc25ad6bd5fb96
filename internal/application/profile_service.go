package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	repo "github.com/baltotest/freight-api/internal/domain/repository"
	"github.com/baltotest/freight-api/pkg/validation"
)

type ProfileService struct {
	Users    repo.UserRepository
	Sessions SessionStore
	Logger   *logrus.Logger
}

func NewProfileService(users repo.UserRepository, sessions SessionStore, logger *logrus.Logger) *ProfileService {
	return &ProfileService{Users: users, Sessions: sessions, Logger: discardLogger(logger)}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*UserResponse, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "user", userID)
	}
	out := toUserResponse(u)
	return &out, nil
}

// Update overwrites name and phone, and location only when supplied.
func (s *ProfileService) Update(ctx context.Context, userID string, in UpdateProfileInput) (*UserResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, invalid(err)
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "user", userID)
	}
	u.Name = strings.TrimSpace(in.Name)
	u.Phone = in.Phone
	if in.Location != nil {
		u.Location = *in.Location
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, lookupErr(err, "user", userID)
	}

	if s.Sessions != nil {
		if err := s.Sessions.Rename(ctx, u.ID, u.Name); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("session refresh failed")
		}
	}
	out := toUserResponse(u)
	return &out, nil
}

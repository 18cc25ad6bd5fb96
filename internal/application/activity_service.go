package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/baltotest/freight-api/internal/domain/entity"
	repo "github.com/baltotest/freight-api/internal/domain/repository"
)

const (
	activityDateLayout = "2006-01-02"
	// DefaultActivityDays is the window reported when no dates are given.
	DefaultActivityDays = 7
)

type UserActivityResponse struct {
	UserID        string      `json:"user_id"`
	Name          string      `json:"name"`
	Role          entity.Role `json:"role"`
	LoadsCreated  int64       `json:"loads_created"`
	MessagesSent  int64       `json:"messages_sent"`
	LastMessageAt *time.Time  `json:"last_message_at,omitempty"`
}

// ActivityReport covers whole UTC days from From through To inclusive.
type ActivityReport struct {
	From  string                 `json:"from"`
	To    string                 `json:"to"`
	Users []UserActivityResponse `json:"users"`
}

type ActivityService struct {
	Activity repo.ActivityRepository
	Logger   *logrus.Logger
	Now      func() time.Time
}

func NewActivityService(activity repo.ActivityRepository, logger *logrus.Logger) *ActivityService {
	return &ActivityService{Activity: activity, Logger: discardLogger(logger), Now: utcNow}
}

// activityWindow resolves YYYY-MM-DD bounds to [from 00:00, to+1 00:00).
// Both bounds empty means the last DefaultActivityDays days through today.
func (s *ActivityService) activityWindow(from, to string) (start, end time.Time, err error) {
	switch {
	case from == "" && to == "":
		today := s.Now().UTC().Truncate(24 * time.Hour)
		return today.AddDate(0, 0, -DefaultActivityDays), today.AddDate(0, 0, 1), nil
	case from == "" || to == "":
		return start, end, invalidf("from and to must be given together")
	}
	if start, err = time.Parse(activityDateLayout, from); err != nil {
		return start, end, invalidf("from: expected YYYY-MM-DD, got %q", from)
	}
	if end, err = time.Parse(activityDateLayout, to); err != nil {
		return start, end, invalidf("to: expected YYYY-MM-DD, got %q", to)
	}
	if end.Before(start) {
		return start, end, invalidf("from %s is after to %s", from, to)
	}
	return start, end.AddDate(0, 0, 1), nil
}

// Report lists per-user loads created, messages sent and last message time
// for the requested days.
func (s *ActivityService) Report(ctx context.Context, from, to string) (*ActivityReport, error) {
	start, end, err := s.activityWindow(from, to)
	if err != nil {
		return nil, err
	}
	rows, err := s.Activity.UserActivity(ctx, start, end)
	if err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"from": start, "to": end}).Error("user activity query failed")
		return nil, err
	}
	out := &ActivityReport{
		From:  start.Format(activityDateLayout),
		To:    end.AddDate(0, 0, -1).Format(activityDateLayout),
		Users: make([]UserActivityResponse, 0, len(rows)),
	}
	for _, r := range rows {
		out.Users = append(out.Users, UserActivityResponse{
			UserID:        r.UserID,
			Name:          r.Name,
			Role:          r.Role,
			LoadsCreated:  r.LoadsCreated,
			MessagesSent:  r.MessagesSent,
			LastMessageAt: r.LastMessageAt,
		})
	}
	return out, nil
}

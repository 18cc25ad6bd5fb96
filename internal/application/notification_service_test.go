package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/baltotest/freight-api/internal/domain/entity"
	"github.com/baltotest/freight-api/internal/domain/event"
)

type sentMail struct {
	to, template string
	data         any
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, template string, data any) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, template: template, data: data})
	return nil
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestNotificationDispatch(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		key      string
		body     any
		wantMail string
	}{
		{"welcome", event.RoutingUserRegistered, event.UserRegistered{Email: "a@example.com", Name: "A", OccurredAt: now}, TemplateWelcome},
		{"email message", event.RoutingMessageSent, event.MessageSent{MessageID: "m", RecipientEmail: "b@example.com", ChannelType: entity.ChannelEmail, SentAt: now}, TemplateMessageNotification},
		{"chat message", event.RoutingMessageSent, event.MessageSent{MessageID: "m", RecipientEmail: "b@example.com", ChannelType: entity.ChannelChat}, ""},
		{"status", event.RoutingLoadStatusUpdated, event.LoadStatusUpdated{LoadID: "l", Status: entity.LoadStatusDelivered}, ""},
		{"eta", event.RoutingLoadETAUpdated, event.LoadETAUpdated{LoadID: "l", EstimatedDeliveryDate: now}, ""},
		{"fan-out key", event.LoadRoutingKey("l"), map[string]string{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMailer{}
			s := NewNotificationService(m, nil)
			if err := s.Handle(context.Background(), tt.key, mustJSON(t, tt.body)); err != nil {
				t.Fatalf("handle: %v", err)
			}
			switch {
			case tt.wantMail == "" && len(m.sent) != 0:
				t.Fatalf("unexpected mail %+v", m.sent)
			case tt.wantMail != "" && (len(m.sent) != 1 || m.sent[0].template != tt.wantMail):
				t.Fatalf("sent %+v, want %s", m.sent, tt.wantMail)
			}
		})
	}
}

func TestNotificationErrors(t *testing.T) {
	s := NewNotificationService(&fakeMailer{}, nil)
	if err := s.Handle(context.Background(), event.RoutingUserRegistered, []byte("{")); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	boom := errors.New("mailgun down")
	s = NewNotificationService(&fakeMailer{err: boom}, nil)
	err := s.Handle(context.Background(), event.RoutingUserRegistered, mustJSON(t, event.UserRegistered{Email: "a@example.com"}))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped mailer error", err)
	}

	s = NewNotificationService(nil, nil)
	if err := s.Handle(context.Background(), event.RoutingUserRegistered, mustJSON(t, event.UserRegistered{Email: "a@example.com"})); err != nil {
		t.Fatalf("disabled mailer err = %v", err)
	}
}

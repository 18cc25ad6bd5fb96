package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/baltotest/freight-api/internal/domain/entity"
)

func TestActivityReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// the memory store stamps loads with the wall clock
	f.clock = time.Now().UTC().Add(-time.Hour)

	a := f.register(t, "A", "a@example.com", entity.RoleBroker)
	b := f.register(t, "B", "b@example.com", entity.RoleCustomer)
	f.register(t, "Idle", "idle@example.com", entity.RoleCarrier)
	email := f.channel(t, entity.ChannelEmail)
	l := f.load(t, a.ID, b.ID, nil)

	send := func(from, to string) time.Time {
		t.Helper()
		f.clock = f.clock.Add(time.Minute)
		if _, err := f.messages.Send(ctx, SendMessageInput{LoadID: l.ID, SenderID: from, RecipientID: to, ChannelID: email.ID, Content: "update"}); err != nil {
			t.Fatal(err)
		}
		return f.clock
	}
	send(a.ID, b.ID)
	aLast := send(a.ID, b.ID)
	bLast := send(b.ID, a.ID)

	rep, err := f.activity.Report(ctx, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Users) != 2 {
		t.Fatalf("report has %d users, want 2 (idle user omitted): %+v", len(rep.Users), rep.Users)
	}
	tests := []struct {
		got      UserActivityResponse
		id       string
		loads    int64
		messages int64
		last     time.Time
	}{
		{rep.Users[0], b.ID, 0, 1, bLast},
		{rep.Users[1], a.ID, 1, 2, aLast},
	}
	for _, tt := range tests {
		if tt.got.UserID != tt.id || tt.got.LoadsCreated != tt.loads || tt.got.MessagesSent != tt.messages {
			t.Errorf("row %+v, want user %s loads %d messages %d", tt.got, tt.id, tt.loads, tt.messages)
		}
		if tt.got.LastMessageAt == nil || !tt.got.LastMessageAt.Equal(tt.last) {
			t.Errorf("user %s last message %v, want %v", tt.id, tt.got.LastMessageAt, tt.last)
		}
	}

	old, err := f.activity.Report(ctx, "2000-01-01", "2000-01-31")
	if err != nil {
		t.Fatal(err)
	}
	if len(old.Users) != 0 || old.From != "2000-01-01" || old.To != "2000-01-31" {
		t.Fatalf("old window report %+v", old)
	}
}

func TestActivityWindow(t *testing.T) {
	f := newFixture(t)
	f.activity.Now = func() time.Time { return time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC) }

	tests := []struct {
		name     string
		from, to string
		start    time.Time
		end      time.Time
		wantErr  bool
	}{
		{"default last week", "", "", time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC), false},
		{"single day", "2024-05-01", "2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), false},
		{"only from", "2024-05-01", "", time.Time{}, time.Time{}, true},
		{"only to", "", "2024-05-01", time.Time{}, time.Time{}, true},
		{"bad date", "05/01/2024", "2024-05-02", time.Time{}, time.Time{}, true},
		{"reversed", "2024-05-02", "2024-05-01", time.Time{}, time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := f.activity.activityWindow(tt.from, tt.to)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("err = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !start.Equal(tt.start) || !end.Equal(tt.end) {
				t.Fatalf("window [%v, %v), want [%v, %v)", start, end, tt.start, tt.end)
			}
		})
	}
}

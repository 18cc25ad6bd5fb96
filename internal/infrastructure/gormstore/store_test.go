package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/baltotest/freight-api/internal/domain/entity"
	repo "github.com/baltotest/freight-api/internal/domain/repository"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := Open(context.Background(), DialectSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewStore(db)
}

func TestUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	users := openTestStore(t).Users()

	u := entity.NewUser("Dana", "dana@example.com", "hash", entity.RoleBroker)
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == "" || u.CreatedAt.IsZero() {
		t.Fatalf("create did not fill id/timestamps: %+v", u)
	}

	got, err := users.GetByEmail(ctx, "DANA@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != u.ID || got.Role != entity.RoleBroker || got.Location != entity.DefaultLocation {
		t.Fatalf("unexpected user %+v", got)
	}

	phone := "+15551234567"
	got.Phone = &phone
	if err := users.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, _ := users.GetByID(ctx, u.ID)
	if again.Phone == nil || *again.Phone != phone {
		t.Fatalf("phone not persisted: %+v", again.Phone)
	}

	dup := entity.NewUser("Other", "dana@example.com", "hash", entity.RoleCarrier)
	if err := users.Create(ctx, dup); !errors.Is(err, repo.ErrDuplicateKey) {
		t.Fatalf("duplicate email err = %v", err)
	}
	if _, err := users.GetByID(ctx, "missing"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("missing err = %v", err)
	}
	if err := users.Update(ctx, &entity.User{ID: "missing"}); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("update missing err = %v", err)
	}
}

func TestMessageQueries(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	msgs := s.Messages()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	seed := []*entity.Message{
		{LoadID: "l1", SenderID: "a", RecipientID: "b", ChannelID: "c1", Content: "second", SentAt: base.Add(time.Minute)},
		{LoadID: "l1", SenderID: "b", RecipientID: "a", ChannelID: "c1", Content: "first", SentAt: base, Attachments: []string{"x.pdf"}},
		{LoadID: "l2", SenderID: "a", RecipientID: "b", ChannelID: "c2", Content: "other", SentAt: base.Add(2 * time.Minute)},
	}
	for _, m := range seed {
		if err := msgs.Create(ctx, m); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := msgs.List(ctx, repo.MessageFilter{LoadID: "l1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Content != "first" || got[1].Content != "second" {
		t.Fatalf("list by load not ordered by sent_at: %+v", got)
	}
	if len(got[0].Attachments) != 1 || got[0].Attachments[0] != "x.pdf" {
		t.Fatalf("attachments = %v", got[0].Attachments)
	}

	n, _ := msgs.CountUnreadByRecipient(ctx, "b")
	if n != 2 {
		t.Fatalf("unread for b = %d, want 2", n)
	}
	toB := got[1]
	toB.MarkAsRead(base)
	if err := msgs.Update(ctx, toB); err != nil {
		t.Fatal(err)
	}
	if n, _ = msgs.CountUnreadByRecipient(ctx, "b"); n != 1 {
		t.Fatalf("unread for b after read = %d, want 1", n)
	}
	if n, _ = msgs.CountByChannel(ctx, "c1"); n != 2 {
		t.Fatalf("count by channel = %d", n)
	}

	deleted, err := msgs.DeleteByLoad(ctx, "l1")
	if err != nil || deleted != 2 {
		t.Fatalf("delete by load = %d, %v", deleted, err)
	}
	rest, _ := msgs.List(ctx, repo.MessageFilter{})
	if len(rest) != 1 || rest[0].LoadID != "l2" {
		t.Fatalf("remaining = %+v", rest)
	}
}

func TestLoadAndChannelFilters(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	carrier := "carrier-1"
	for _, l := range []*entity.Load{
		entity.NewLoad("broker-1", "cust-1", nil),
		entity.NewLoad("broker-1", "cust-2", &carrier),
		entity.NewLoad("broker-2", "cust-1", nil),
	} {
		l.OriginAddress, l.DestinationAddress = "A", "B"
		if err := s.Loads().Create(ctx, l); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name   string
		filter repo.LoadFilter
		want   int
	}{
		{"all", repo.LoadFilter{}, 3},
		{"broker", repo.LoadFilter{BrokerID: "broker-1"}, 2},
		{"customer", repo.LoadFilter{CustomerID: "cust-1"}, 2},
		{"carrier", repo.LoadFilter{CarrierID: carrier}, 1},
		{"status", repo.LoadFilter{Status: entity.LoadStatusAssigned}, 1},
		{"combined", repo.LoadFilter{BrokerID: "broker-2", Status: entity.LoadStatusAssigned}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Loads().List(ctx, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Fatalf("got %d loads, want %d", len(got), tt.want)
			}
		})
	}

	for _, c := range []*entity.Channel{
		{Type: entity.ChannelSMS, Name: "zeta", Active: true},
		{Type: entity.ChannelEmail, Name: "alpha", Active: false},
		{Type: entity.ChannelEmail, Name: "beta", Active: true},
	} {
		if err := s.Channels().Create(ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	active, _ := s.Channels().List(ctx, repo.ChannelFilter{ActiveOnly: true})
	if len(active) != 2 || active[0].Name != "beta" || active[1].Name != "zeta" {
		t.Fatalf("active channels = %+v", active)
	}
	email, _ := s.Channels().List(ctx, repo.ChannelFilter{Type: entity.ChannelEmail})
	if len(email) != 2 || email[0].Name != "alpha" {
		t.Fatalf("email channels = %+v", email)
	}
}

func TestWithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	boom := errors.New("boom")

	err := s.Tx().WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Channels().Create(ctx, &entity.Channel{Type: entity.ChannelChat, Name: "chat"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	cs, _ := s.Channels().List(ctx, repo.ChannelFilter{})
	if len(cs) != 0 {
		t.Fatalf("rollback left %d channels", len(cs))
	}
}

func TestMarkReadIsConditional(t *testing.T) {
	ctx := context.Background()
	msgs := openTestStore(t).Messages()
	m := &entity.Message{LoadID: "l1", SenderID: "a", RecipientID: "b", ChannelID: "c1", Content: "hi"}
	if err := msgs.Create(ctx, m); err != nil {
		t.Fatal(err)
	}
	first := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	changed, err := msgs.MarkRead(ctx, m.ID, first)
	if err != nil || !changed {
		t.Fatalf("first mark = %v, %v", changed, err)
	}
	changed, err = msgs.MarkRead(ctx, m.ID, first.Add(time.Hour))
	if err != nil || changed {
		t.Fatalf("second mark = %v, %v; want unchanged", changed, err)
	}
	got, _ := msgs.GetByID(ctx, m.ID)
	if !got.Read || got.ReadAt == nil || !got.ReadAt.Equal(first) {
		t.Fatalf("read_at = %v, want %v", got.ReadAt, first)
	}
	if changed, _ := msgs.MarkRead(ctx, "missing", first); changed {
		t.Fatal("missing message reported as changed")
	}
}

func TestUserActivity(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	broker := entity.NewUser("Broker", "broker@example.com", "h", entity.RoleBroker)
	customer := entity.NewUser("Customer", "customer@example.com", "h", entity.RoleCustomer)
	idle := entity.NewUser("Idle", "idle@example.com", "h", entity.RoleCarrier)
	for _, u := range []*entity.User{broker, customer, idle} {
		if err := s.Users().Create(ctx, u); err != nil {
			t.Fatal(err)
		}
	}

	for _, at := range []time.Time{day.Add(time.Hour), day.Add(2 * time.Hour), day.Add(-time.Hour)} {
		l := entity.NewLoad(broker.ID, customer.ID, nil)
		l.OriginAddress, l.DestinationAddress = "A", "B"
		l.CreatedAt, l.UpdatedAt = at, at
		if err := s.Loads().Create(ctx, l); err != nil {
			t.Fatal(err)
		}
	}
	msgs := []*entity.Message{
		{LoadID: "l1", SenderID: broker.ID, RecipientID: customer.ID, ChannelID: "c", Content: "1", SentAt: day.Add(3 * time.Hour)},
		{LoadID: "l1", SenderID: customer.ID, RecipientID: broker.ID, ChannelID: "c", Content: "2", SentAt: day.Add(5 * time.Hour)},
		{LoadID: "l1", SenderID: customer.ID, RecipientID: broker.ID, ChannelID: "c", Content: "3", SentAt: day.Add(4 * time.Hour)},
		{LoadID: "l1", SenderID: idle.ID, RecipientID: broker.ID, ChannelID: "c", Content: "late", SentAt: day.Add(24 * time.Hour)},
	}
	for _, m := range msgs {
		if err := s.Messages().Create(ctx, m); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Activity().UserActivity(ctx, day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %+v, want broker and customer only", got)
	}
	tests := []struct {
		row      repo.UserActivity
		id       string
		role     entity.Role
		loads    int64
		messages int64
		last     time.Time
	}{
		{got[0], customer.ID, entity.RoleCustomer, 0, 2, day.Add(5 * time.Hour)},
		{got[1], broker.ID, entity.RoleBroker, 2, 1, day.Add(3 * time.Hour)},
	}
	for _, tt := range tests {
		if tt.row.UserID != tt.id || tt.row.Role != tt.role || tt.row.LoadsCreated != tt.loads || tt.row.MessagesSent != tt.messages {
			t.Errorf("row %+v, want %s loads=%d messages=%d", tt.row, tt.id, tt.loads, tt.messages)
		}
		if tt.row.LastMessageAt == nil || !tt.row.LastMessageAt.Equal(tt.last) {
			t.Errorf("%s last message = %v, want %v", tt.id, tt.row.LastMessageAt, tt.last)
		}
	}

	empty, err := s.Activity().UserActivity(ctx, day.AddDate(1, 0, 0), day.AddDate(1, 0, 1))
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty window = %+v, %v", empty, err)
	}
}

func TestParseAggregateTime(t *testing.T) {
	want := time.Date(2024, 5, 1, 5, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"2024-05-01T05:00:00Z",
		"2024-05-01 05:00:00+00:00",
		"2024-05-01 07:00:00+02:00",
		"2024-05-01 05:00:00",
	} {
		got, err := parseAggregateTime(in)
		if err != nil || !got.Equal(want) {
			t.Errorf("parseAggregateTime(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := parseAggregateTime("yesterday"); err == nil {
		t.Error("expected an error for a non-time value")
	}
}

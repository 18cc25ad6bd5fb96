package application

import (
	"context"
	"errors"
	"testing"

	"github.com/baltotest/freight-api/internal/domain/entity"
)

func TestProfileUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "Ann", "ann@example.com", entity.RoleBroker)
	phone := "+12015550123"
	loc := "Trenton, NJ"

	got, err := f.profiles.Update(ctx, u.ID, UpdateProfileInput{Name: "Ann B", Phone: &phone, Location: &loc})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Ann B" || got.Phone == nil || *got.Phone != phone || got.Location != loc {
		t.Fatalf("unexpected profile %+v", got)
	}
	if f.sessions.saved[u.ID].Name != "Ann B" {
		t.Fatal("session name not refreshed")
	}

	// location omitted keeps the old value, phone omitted clears it
	got, err = f.profiles.Update(ctx, u.ID, UpdateProfileInput{Name: "Ann C"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Location != loc {
		t.Fatalf("location = %q, want %q", got.Location, loc)
	}
	if got.Phone != nil {
		t.Fatalf("phone = %v, want cleared", *got.Phone)
	}
}

func TestProfileNotFound(t *testing.T) {
	f := newFixture(t)
	if _, err := f.profiles.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	_, err := f.profiles.Update(context.Background(), "missing", UpdateProfileInput{Name: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

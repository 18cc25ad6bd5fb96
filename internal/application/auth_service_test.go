package application

import (
	"context"
	"errors"
	"testing"

	"github.com/baltotest/freight-api/internal/domain/entity"
)

func TestRegisterReturnsTokenForNewUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.auth.Register(ctx, RegisterInput{Name: "Ann", Email: "Ann@Example.com", Password: "password123", Role: "broker"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	uid, err := fakeTokens{}.ExtractUserID(res.Token)
	if err != nil || uid != res.User.ID {
		t.Fatalf("token resolves to %q (%v), want %q", uid, err, res.User.ID)
	}
	if res.User.Email != "ann@example.com" || res.User.Role != entity.RoleBroker {
		t.Fatalf("unexpected user %+v", res.User)
	}
	if res.User.Location != entity.DefaultLocation {
		t.Fatalf("location = %q", res.User.Location)
	}
	if _, ok := f.sessions.saved[res.User.ID]; !ok {
		t.Fatal("session not recorded")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := RegisterInput{Name: "X", Email: "x@example.com", Password: "password123", Role: "CUSTOMER"}

	if _, err := f.auth.Register(ctx, in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := f.auth.Register(ctx, in)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
	u, err := f.store.Users().GetByEmail(ctx, "x@example.com")
	if err != nil || u.Name != "X" {
		t.Fatalf("expected exactly the first user, got %+v, %v", u, err)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"missing name", RegisterInput{Email: "a@b.co", Password: "password123", Role: "BROKER"}},
		{"bad email", RegisterInput{Name: "A", Email: "nope", Password: "password123", Role: "BROKER"}},
		{"short password", RegisterInput{Name: "A", Email: "a@b.co", Password: "short", Role: "BROKER"}},
		{"unknown role", RegisterInput{Name: "A", Email: "a@b.co", Password: "password123", Role: "ADMIN"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Register(context.Background(), tt.in)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "Bob", "bob@example.com", entity.RoleCarrier)

	tests := []struct {
		name    string
		email   string
		pass    string
		wantErr error
	}{
		{"ok", "bob@example.com", "password123", nil},
		{"case insensitive email", "BOB@example.com", "password123", nil},
		{"wrong password", "bob@example.com", "password124", ErrInvalidCredentials},
		{"unknown email", "nobody@example.com", "password123", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.auth.Login(ctx, LoginInput{Email: tt.email, Password: tt.pass})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if res.User.ID != u.ID {
					t.Fatalf("logged in as %s", res.User.ID)
				}
				if res.User.LastActive == nil || !res.User.LastActive.Equal(f.clock) {
					t.Fatalf("last active = %v", res.User.LastActive)
				}
			}
		})
	}
}

func TestLogoutDropsSession(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "Bob", "bob@example.com", entity.RoleCarrier)
	if err := f.auth.Logout(context.Background(), u.ID); err != nil {
		t.Fatal(err)
	}
	if ok, _ := f.sessions.Exists(context.Background(), u.ID); ok {
		t.Fatal("session survived logout")
	}
}

func TestRegisterSurvivesSessionStoreOutage(t *testing.T) {
	f := newFixture(t)
	f.auth.Sessions = &failingSessions{}
	ctx := context.Background()
	in := RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "password123", Role: "BROKER"}

	res, err := f.auth.Register(ctx, in)
	if err != nil {
		t.Fatalf("register with session store down: %v", err)
	}
	if res.Token == "" {
		t.Fatal("no token issued")
	}
	if _, err := f.auth.Login(ctx, LoginInput{Email: in.Email, Password: in.Password}); err != nil {
		t.Fatalf("login with session store down: %v", err)
	}
	if _, err := f.auth.Register(ctx, in); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("retry err = %v, want ErrDuplicateEmail", err)
	}
}

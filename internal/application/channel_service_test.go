package application

import (
	"context"
	"errors"
	"testing"

	"github.com/baltotest/freight-api/internal/domain/entity"
)

func TestChannelLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.channels.Create(ctx, ChannelInput{Type: "sms", Name: "Twilio", Configuration: `{"from":"+1555"}`})
	if err != nil {
		t.Fatal(err)
	}
	if c.Type != entity.ChannelSMS || c.Active {
		t.Fatalf("created %+v", c)
	}
	f.channel(t, entity.ChannelEmail)

	active, _ := f.channels.ListActive(ctx)
	if len(active) != 1 {
		t.Fatalf("active = %d", len(active))
	}
	if got, err := f.channels.Activate(ctx, c.ID); err != nil || !got.Active {
		t.Fatalf("activate: %v %v", got, err)
	}
	if got, err := f.channels.Deactivate(ctx, c.ID); err != nil || got.Active {
		t.Fatalf("deactivate: %v %v", got, err)
	}

	sms, err := f.channels.ListByType(ctx, "SMS")
	if err != nil || len(sms) != 1 || sms[0].ID != c.ID {
		t.Fatalf("by type: %v %v", sms, err)
	}
	if _, err := f.channels.ListByType(ctx, "FAX"); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v", err)
	}

	updated, err := f.channels.Update(ctx, c.ID, ChannelInput{Type: "PHONE", Name: "Desk", Active: true})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Type != entity.ChannelPhone || updated.Name != "Desk" || !updated.Active || updated.Configuration != "" {
		t.Fatalf("updated %+v", updated)
	}

	all, _ := f.channels.List(ctx)
	if len(all) != 2 {
		t.Fatalf("all = %d", len(all))
	}
	if err := f.channels.Delete(ctx, c.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.channels.Get(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if _, err := f.channels.Activate(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestChannelDeleteGuardedByMessages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "A", "a@example.com", entity.RoleBroker)
	b := f.register(t, "B", "b@example.com", entity.RoleCustomer)
	ch := f.channel(t, entity.ChannelChat)
	l := f.load(t, a.ID, b.ID, nil)
	if _, err := f.messages.Send(ctx, SendMessageInput{LoadID: l.ID, SenderID: a.ID, RecipientID: b.ID, ChannelID: ch.ID, Content: "x"}); err != nil {
		t.Fatal(err)
	}

	if err := f.channels.Delete(ctx, ch.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if _, err := f.channels.Get(ctx, ch.ID); err != nil {
		t.Fatalf("channel removed despite guard: %v", err)
	}
}

func TestChannelValidation(t *testing.T) {
	f := newFixture(t)
	tests := []ChannelInput{
		{Type: "EMAIL"},
		{Type: "PIGEON", Name: "x"},
		{Name: "x"},
	}
	for _, in := range tests {
		if _, err := f.channels.Create(context.Background(), in); !errors.Is(err, ErrValidation) {
			t.Fatalf("%+v: err = %v", in, err)
		}
	}
}

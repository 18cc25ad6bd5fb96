package application

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/baltotest/freight-api/internal/domain/entity"
	"github.com/baltotest/freight-api/internal/domain/event"
	repo "github.com/baltotest/freight-api/internal/domain/repository"
)

func TestCreateLoadInitialStatus(t *testing.T) {
	f := newFixture(t)
	broker := f.register(t, "Broker", "b@example.com", entity.RoleBroker)
	customer := f.register(t, "Customer", "c@example.com", entity.RoleCustomer)
	carrier := f.register(t, "Carrier", "k@example.com", entity.RoleCarrier)

	pending := f.load(t, broker.ID, customer.ID, nil)
	if pending.Status != entity.LoadStatusPending || pending.Carrier != nil {
		t.Fatalf("got %s carrier=%v", pending.Status, pending.Carrier)
	}
	assigned := f.load(t, broker.ID, customer.ID, &carrier.ID)
	if assigned.Status != entity.LoadStatusAssigned || assigned.Carrier == nil || assigned.Carrier.ID != carrier.ID {
		t.Fatalf("got %s carrier=%v", assigned.Status, assigned.Carrier)
	}
	if assigned.Broker.Name != "Broker" || assigned.Customer.Email != "c@example.com" {
		t.Fatalf("summaries not populated: %+v", assigned)
	}
	if len(f.events.kinds()) != 0 {
		t.Fatalf("creation should not publish, got %v", f.events.kinds())
	}
}

func TestCreateLoadMissingParty(t *testing.T) {
	f := newFixture(t)
	broker := f.register(t, "Broker", "b@example.com", entity.RoleBroker)
	missing := "nope"
	tests := []struct {
		name     string
		customer string
		carrier  *string
	}{
		{"customer", "nope", nil},
		{"carrier", broker.ID, &missing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.loads.Create(context.Background(), CreateLoadInput{
				OriginAddress: "a", DestinationAddress: "b",
				PickupDate: f.clock, DeliveryDate: f.clock,
				BrokerID: broker.ID, CustomerID: tt.customer, CarrierID: tt.carrier,
			})
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("err = %v, want ErrNotFound", err)
			}
		})
	}
	all, _ := f.store.Loads().List(context.Background(), repo.LoadFilter{})
	if len(all) != 0 {
		t.Fatalf("partial write: %d loads", len(all))
	}
}

func TestCreateLoadValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.loads.Create(context.Background(), CreateLoadInput{
		OriginAddress: "a", DestinationAddress: "b",
		PickupDate: f.clock, DeliveryDate: f.clock.Add(-time.Hour),
		BrokerID: "x", CustomerID: "y",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestAssignCarrierPromotion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	broker := f.register(t, "Broker", "b@example.com", entity.RoleBroker)
	customer := f.register(t, "Customer", "c@example.com", entity.RoleCustomer)
	c1 := f.register(t, "C1", "c1@example.com", entity.RoleCarrier)
	c2 := f.register(t, "C2", "c2@example.com", entity.RoleCarrier)

	l := f.load(t, broker.ID, customer.ID, nil)
	got, err := f.loads.AssignCarrier(ctx, l.ID, c1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != entity.LoadStatusAssigned || got.Carrier.ID != c1.ID {
		t.Fatalf("got %s / %v", got.Status, got.Carrier)
	}

	if _, err := f.loads.UpdateStatus(ctx, l.ID, "in_transit"); err != nil {
		t.Fatal(err)
	}
	got, err = f.loads.AssignCarrier(ctx, l.ID, c2.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != entity.LoadStatusInTransit || got.Carrier.ID != c2.ID {
		t.Fatalf("reassign changed status: %s / %v", got.Status, got.Carrier)
	}

	want := []string{event.RoutingLoadStatusUpdated, event.RoutingLoadStatusUpdated}
	if !reflect.DeepEqual(f.events.kinds(), want) {
		t.Fatalf("events = %v, want %v", f.events.kinds(), want)
	}

	if _, err := f.loads.AssignCarrier(ctx, l.ID, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if _, err := f.loads.AssignCarrier(ctx, "ghost", c1.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestUpdateLoadSwapsChangedParties(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	broker := f.register(t, "Broker", "b@example.com", entity.RoleBroker)
	customer := f.register(t, "Customer", "c@example.com", entity.RoleCustomer)
	other := f.register(t, "Other", "o@example.com", entity.RoleCustomer)
	carrier := f.register(t, "Carrier", "k@example.com", entity.RoleCarrier)
	l := f.load(t, broker.ID, customer.ID, nil)

	got, err := f.loads.Update(ctx, l.ID, UpdateLoadInput{
		OriginAddress:      "Trenton, NJ",
		DestinationAddress: "Boston, MA",
		BrokerID:           &broker.ID,
		CustomerID:         &other.ID,
		CarrierID:          &carrier.ID,
		Notes:              "fragile",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Customer.ID != other.ID || got.Carrier.ID != carrier.ID || got.Status != entity.LoadStatusAssigned {
		t.Fatalf("unexpected %+v", got)
	}
	if got.OriginAddress != "Trenton, NJ" || got.Notes != "fragile" {
		t.Fatalf("fields not replaced: %+v", got)
	}
	if !got.PickupDate.Equal(l.PickupDate) {
		t.Fatal("pickup date changed although not supplied")
	}

	ghost := "ghost"
	_, err = f.loads.Update(ctx, l.ID, UpdateLoadInput{OriginAddress: "x", DestinationAddress: "y", BrokerID: &ghost})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	after, _ := f.loads.Get(ctx, l.ID)
	if after.OriginAddress != "Trenton, NJ" {
		t.Fatal("failed update was not rolled back")
	}
}

func TestUpdateStatusAndETA(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	broker := f.register(t, "Broker", "b@example.com", entity.RoleBroker)
	customer := f.register(t, "Customer", "c@example.com", entity.RoleCustomer)
	l := f.load(t, broker.ID, customer.ID, nil)

	got, err := f.loads.UpdateStatus(ctx, l.ID, "DELIVERED")
	if err != nil || got.Status != entity.LoadStatusDelivered {
		t.Fatalf("got %v, %v", got, err)
	}
	// explicit override may move backwards
	got, err = f.loads.UpdateStatus(ctx, l.ID, "PENDING")
	if err != nil || got.Status != entity.LoadStatusPending {
		t.Fatalf("got %v, %v", got, err)
	}
	if _, err := f.loads.UpdateStatus(ctx, l.ID, "LOST"); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v", err)
	}

	eta := f.clock.Add(72 * time.Hour)
	got, err = f.loads.UpdateEstimatedDelivery(ctx, l.ID, eta)
	if err != nil || got.EstimatedDeliveryDate == nil || !got.EstimatedDeliveryDate.Equal(eta) {
		t.Fatalf("got %v, %v", got, err)
	}

	want := []string{event.RoutingLoadStatusUpdated, event.RoutingLoadStatusUpdated, event.RoutingLoadETAUpdated}
	if !reflect.DeepEqual(f.events.kinds(), want) {
		t.Fatalf("events = %v, want %v", f.events.kinds(), want)
	}
}

func TestListLoads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	broker := f.register(t, "Broker", "b@example.com", entity.RoleBroker)
	customer := f.register(t, "Customer", "c@example.com", entity.RoleCustomer)
	carrier := f.register(t, "Carrier", "k@example.com", entity.RoleCarrier)
	f.load(t, broker.ID, customer.ID, nil)
	f.load(t, broker.ID, customer.ID, &carrier.ID)

	byBroker, err := f.loads.ListByBroker(ctx, broker.ID)
	if err != nil || len(byBroker) != 2 {
		t.Fatalf("broker: %d, %v", len(byBroker), err)
	}
	byCarrier, err := f.loads.ListByCarrier(ctx, carrier.ID)
	if err != nil || len(byCarrier) != 1 {
		t.Fatalf("carrier: %d, %v", len(byCarrier), err)
	}
	pending, err := f.loads.ListByStatus(ctx, "pending")
	if err != nil || len(pending) != 1 {
		t.Fatalf("pending: %d, %v", len(pending), err)
	}
	all, err := f.loads.ListByStatus(ctx, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("all: %d, %v", len(all), err)
	}
	if _, err := f.loads.ListByCustomer(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestDeleteLoadCascadesMessages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	broker := f.register(t, "Broker", "b@example.com", entity.RoleBroker)
	customer := f.register(t, "Customer", "c@example.com", entity.RoleCustomer)
	ch := f.channel(t, entity.ChannelChat)
	l := f.load(t, broker.ID, customer.ID, nil)
	keep := f.load(t, broker.ID, customer.ID, nil)

	for _, id := range []string{l.ID, l.ID, keep.ID} {
		if _, err := f.messages.Send(ctx, SendMessageInput{LoadID: id, SenderID: broker.ID, RecipientID: customer.ID, ChannelID: ch.ID, Content: "hi"}); err != nil {
			t.Fatal(err)
		}
	}

	if err := f.loads.Delete(ctx, l.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.loads.Get(ctx, l.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("load still present: %v", err)
	}
	left, _ := f.store.Messages().List(ctx, repo.MessageFilter{})
	if len(left) != 1 || left[0].LoadID != keep.ID {
		t.Fatalf("remaining messages %+v", left)
	}
	if len(f.index.removed) != 1 || f.index.removed[0] != l.ID {
		t.Fatalf("index removals %v", f.index.removed)
	}
	if err := f.loads.Delete(ctx, l.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestSearchLoads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	broker := f.register(t, "Broker", "b@example.com", entity.RoleBroker)
	customer := f.register(t, "Customer", "c@example.com", entity.RoleCustomer)
	l := f.load(t, broker.ID, customer.ID, nil)

	got, err := f.loads.Search(ctx, "Chicago", 0)
	if err != nil || len(got) != 1 || got[0].ID != l.ID {
		t.Fatalf("got %v, %v", got, err)
	}
	if _, err := f.loads.Search(ctx, "  ", 5); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v", err)
	}

	f.loads.Index = nil
	got, err = f.loads.Search(ctx, "Chicago", 5)
	if err != nil || len(got) != 0 {
		t.Fatalf("disabled search returned %v, %v", got, err)
	}
}

func TestIndexFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture(t)
	f.index.err = errors.New("es down")
	broker := f.register(t, "Broker", "b@example.com", entity.RoleBroker)
	customer := f.register(t, "Customer", "c@example.com", entity.RoleCustomer)
	f.load(t, broker.ID, customer.ID, nil)
}

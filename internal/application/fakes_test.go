package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baltotest/freight-api/internal/domain/entity"
	"github.com/baltotest/freight-api/internal/domain/event"
	"github.com/baltotest/freight-api/internal/infrastructure/memory"
)

type fakeTokens struct{}

func (fakeTokens) GenerateToken(userID string) (string, time.Time, error) {
	return "tok." + userID, time.Now().Add(time.Hour), nil
}

func (fakeTokens) ValidateToken(token string) bool { return strings.HasPrefix(token, "tok.") }

func (fakeTokens) ExtractUserID(token string) (string, error) {
	if !strings.HasPrefix(token, "tok.") {
		return "", errors.New("bad token")
	}
	return strings.TrimPrefix(token, "tok."), nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (fakeHasher) Verify(p, digest string) bool  { return digest == "hashed:"+p }

type published struct {
	kind    string
	loadID  string
	status  entity.LoadStatus
	eta     time.Time
	message event.MessageSent
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) add(e published) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) PublishUserRegistered(_ context.Context, email, name string) {
	p.add(published{kind: event.RoutingUserRegistered})
}

func (p *recordingPublisher) PublishMessageSent(_ context.Context, m event.MessageSent) {
	p.add(published{kind: event.RoutingMessageSent, loadID: m.LoadID, message: m})
}

func (p *recordingPublisher) PublishLoadStatusUpdated(_ context.Context, loadID string, status entity.LoadStatus) {
	p.add(published{kind: event.RoutingLoadStatusUpdated, loadID: loadID, status: status})
}

func (p *recordingPublisher) PublishLoadETAUpdated(_ context.Context, loadID string, eta time.Time) {
	p.add(published{kind: event.RoutingLoadETAUpdated, loadID: loadID, eta: eta})
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.kind)
	}
	return out
}

type fakeIndex struct {
	docs    map[string]*entity.Load
	removed []string
	err     error
}

func (f *fakeIndex) Index(_ context.Context, l *entity.Load) error {
	if f.err != nil {
		return f.err
	}
	if f.docs == nil {
		f.docs = map[string]*entity.Load{}
	}
	f.docs[l.ID] = l
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, id string) error {
	f.removed = append(f.removed, id)
	delete(f.docs, id)
	return nil
}

// Search matches on origin or destination substrings.
func (f *fakeIndex) Search(_ context.Context, q string, size int) ([]string, error) {
	var ids []string
	for id, l := range f.docs {
		if strings.Contains(l.OriginAddress, q) || strings.Contains(l.DestinationAddress, q) {
			ids = append(ids, id)
		}
	}
	if len(ids) > size {
		ids = ids[:size]
	}
	return ids, nil
}

type fakeSessions struct {
	saved map[string]Session
}

func (f *fakeSessions) Save(_ context.Context, s Session) error {
	if f.saved == nil {
		f.saved = map[string]Session{}
	}
	f.saved[s.UserID] = s
	return nil
}

func (f *fakeSessions) Exists(_ context.Context, userID string) (bool, error) {
	_, ok := f.saved[userID]
	return ok, nil
}

func (f *fakeSessions) Rename(_ context.Context, userID, name string) error {
	s := f.saved[userID]
	s.Name = name
	f.saved[userID] = s
	return nil
}

func (f *fakeSessions) Delete(_ context.Context, userID string) error {
	delete(f.saved, userID)
	return nil
}

type fakeAttachments struct{ paths []string }

func (f *fakeAttachments) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.paths = append(f.paths, objectPath)
	return "https://storage.example/" + objectPath, nil
}

type fixture struct {
	store    *memory.Store
	events   *recordingPublisher
	index    *fakeIndex
	sessions *fakeSessions
	auth     *AuthService
	loads    *LoadService
	messages *MessageService
	channels *ChannelService
	profiles *ProfileService
	activity *ActivityService
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.NewStore()
	f := &fixture{
		store:    st,
		events:   &recordingPublisher{},
		index:    &fakeIndex{},
		sessions: &fakeSessions{},
		clock:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	now := func() time.Time { return f.clock }
	f.auth = NewAuthService(st.Users(), fakeTokens{}, fakeHasher{}, f.sessions, nil)
	f.auth.Now = now
	f.loads = NewLoadService(st.Loads(), st.Users(), st.Messages(), st, f.events, f.index, nil)
	f.messages = NewMessageService(st.Messages(), st.Loads(), st.Users(), st.Channels(), st, f.events, nil, nil)
	f.messages.Now = now
	f.channels = NewChannelService(st.Channels(), st.Messages(), st, nil)
	f.profiles = NewProfileService(st.Users(), f.sessions, nil)
	f.activity = NewActivityService(st.Activity(), nil)
	return f
}

func (f *fixture) register(t *testing.T, name, email string, role entity.Role) UserResponse {
	t.Helper()
	res, err := f.auth.Register(context.Background(), RegisterInput{
		Name: name, Email: email, Password: "password123", Role: string(role),
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return res.User
}

func (f *fixture) channel(t *testing.T, typ entity.ChannelType) ChannelResponse {
	t.Helper()
	c, err := f.channels.Create(context.Background(), ChannelInput{Type: string(typ), Name: string(typ) + " channel", Active: true})
	if err != nil {
		t.Fatalf("create channel: %v", err)
	}
	return *c
}

func (f *fixture) load(t *testing.T, brokerID, customerID string, carrierID *string) LoadResponse {
	t.Helper()
	pickup := f.clock.Add(24 * time.Hour)
	l, err := f.loads.Create(context.Background(), CreateLoadInput{
		OriginAddress:      "Newark, NJ",
		DestinationAddress: "Chicago, IL",
		PickupDate:         pickup,
		DeliveryDate:       pickup.Add(48 * time.Hour),
		BrokerID:           brokerID,
		CustomerID:         customerID,
		CarrierID:          carrierID,
	})
	if err != nil {
		t.Fatalf("create load: %v", err)
	}
	return *l
}

type failingSessions struct{ fakeSessions }

func (f *failingSessions) Save(context.Context, Session) error {
	return errors.New("redis down")
}

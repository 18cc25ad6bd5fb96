// Package memory is an instance-scoped, mutex-guarded storage adapter used by
// tests and by STORAGE_DRIVER=memory. Nothing here is shared between stores.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/baltotest/freight-api/internal/domain/entity"
	repo "github.com/baltotest/freight-api/internal/domain/repository"
)

type Store struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	users    map[string]*entity.User
	loads    map[string]*entity.Load
	messages map[string]*entity.Message
	channels map[string]*entity.Channel
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:    map[string]*entity.User{},
		loads:    map[string]*entity.Load{},
		messages: map[string]*entity.Message{},
		channels: map[string]*entity.Channel{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Users() *UserRepository        { return &UserRepository{s: s} }
func (s *Store) Loads() *LoadRepository        { return &LoadRepository{s: s} }
func (s *Store) Messages() *MessageRepository  { return &MessageRepository{s: s} }
func (s *Store) Channels() *ChannelRepository  { return &ChannelRepository{s: s} }
func (s *Store) Activity() *ActivityRepository { return &ActivityRepository{s: s} }

type undoKey struct{}

// undoLog remembers the pre-transaction value of every key a transaction
// wrote, so rollback reverts those keys and nothing else.
type undoLog struct {
	seen  map[string]struct{}
	steps []func()
}

// track records the current value of m[id] the first time the transaction
// in ctx writes it. Callers hold s.mu. Outside a transaction it does nothing.
func track[T any](ctx context.Context, m map[string]*T, kind, id string) {
	log, ok := ctx.Value(undoKey{}).(*undoLog)
	if !ok {
		return
	}
	key := kind + "/" + id
	if _, dup := log.seen[key]; dup {
		return
	}
	log.seen[key] = struct{}{}
	prev, existed := m[id]
	log.steps = append(log.steps, func() {
		if existed {
			m[id] = prev
		} else {
			delete(m, id)
		}
	})
}

func (s *Store) rollback(log *undoLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(log.steps) - 1; i >= 0; i-- {
		log.steps[i]()
	}
}

// WithinTx serialises transactions and, when fn fails, reverts only the
// keys fn wrote. A ctx already inside a transaction joins it.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(undoKey{}).(*undoLog); ok {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	log := &undoLog{seen: map[string]struct{}{}}
	if err := fn(context.WithValue(ctx, undoKey{}, log)); err != nil {
		s.rollback(log)
		return err
	}
	return nil
}

var _ repo.TxManager = (*Store)(nil)

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.Phone = clonePtr(u.Phone)
	c.LastActive = clonePtr(u.LastActive)
	return &c
}

func cloneLoad(l *entity.Load) *entity.Load {
	c := *l
	c.CarrierID = clonePtr(l.CarrierID)
	c.EstimatedDeliveryDate = clonePtr(l.EstimatedDeliveryDate)
	return &c
}

func cloneMessage(m *entity.Message) *entity.Message {
	c := *m
	c.ReadAt = clonePtr(m.ReadAt)
	if m.Attachments != nil {
		c.Attachments = append([]string(nil), m.Attachments...)
	}
	return &c
}

func cloneChannel(ch *entity.Channel) *entity.Channel {
	c := *ch
	return &c
}

package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/baltotest/freight-api/internal/domain/entity"
	"github.com/baltotest/freight-api/internal/domain/event"
	repo "github.com/baltotest/freight-api/internal/domain/repository"
	"github.com/baltotest/freight-api/pkg/validation"
)

const defaultSearchSize = 10

type LoadService struct {
	Loads    repo.LoadRepository
	Users    repo.UserRepository
	Messages repo.MessageRepository
	Tx       repo.TxManager
	Events   event.Publisher
	Index    LoadIndexer
	Logger   *logrus.Logger
}

func NewLoadService(loads repo.LoadRepository, users repo.UserRepository, messages repo.MessageRepository, tx repo.TxManager, events event.Publisher, index LoadIndexer, logger *logrus.Logger) *LoadService {
	return &LoadService{
		Loads:    loads,
		Users:    users,
		Messages: messages,
		Tx:       tx,
		Events:   events,
		Index:    index,
		Logger:   discardLogger(logger),
	}
}

func (s *LoadService) requireUser(ctx context.Context, role, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, role, id)
	}
	return u, nil
}

func (s *LoadService) Create(ctx context.Context, in CreateLoadInput) (*LoadResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, invalid(err)
	}
	cache := newUserCache(s.Users)
	var l *entity.Load
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		broker, err := s.requireUser(ctx, "broker", in.BrokerID)
		if err != nil {
			return err
		}
		customer, err := s.requireUser(ctx, "customer", in.CustomerID)
		if err != nil {
			return err
		}
		cache.put(broker)
		cache.put(customer)
		if in.CarrierID != nil {
			carrier, err := s.requireUser(ctx, "carrier", *in.CarrierID)
			if err != nil {
				return err
			}
			cache.put(carrier)
		}

		l = entity.NewLoad(in.BrokerID, in.CustomerID, in.CarrierID)
		l.OriginAddress = in.OriginAddress
		l.DestinationAddress = in.DestinationAddress
		l.PickupDate = in.PickupDate.UTC()
		l.DeliveryDate = in.DeliveryDate.UTC()
		l.EstimatedDeliveryDate = utcPtr(in.EstimatedDeliveryDate)
		l.VehicleDetails = in.VehicleDetails
		l.Notes = in.Notes
		return s.Loads.Create(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	s.index(ctx, l)
	return s.respond(ctx, cache, l)
}

func (s *LoadService) Get(ctx context.Context, id string) (*LoadResponse, error) {
	l, err := s.Loads.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "load", id)
	}
	return s.respond(ctx, newUserCache(s.Users), l)
}

func (s *LoadService) ListByBroker(ctx context.Context, brokerID string) ([]LoadResponse, error) {
	if _, err := s.requireUser(ctx, "broker", brokerID); err != nil {
		return nil, err
	}
	return s.list(ctx, repo.LoadFilter{BrokerID: brokerID})
}

func (s *LoadService) ListByCustomer(ctx context.Context, customerID string) ([]LoadResponse, error) {
	if _, err := s.requireUser(ctx, "customer", customerID); err != nil {
		return nil, err
	}
	return s.list(ctx, repo.LoadFilter{CustomerID: customerID})
}

func (s *LoadService) ListByCarrier(ctx context.Context, carrierID string) ([]LoadResponse, error) {
	if _, err := s.requireUser(ctx, "carrier", carrierID); err != nil {
		return nil, err
	}
	return s.list(ctx, repo.LoadFilter{CarrierID: carrierID})
}

// ListByStatus lists every load when status is empty.
func (s *LoadService) ListByStatus(ctx context.Context, status string) ([]LoadResponse, error) {
	var f repo.LoadFilter
	if status != "" {
		st, err := entity.ParseLoadStatus(status)
		if err != nil {
			return nil, invalidf("%v", err)
		}
		f.Status = st
	}
	return s.list(ctx, f)
}

// Update swaps a party only when the supplied id differs from the current one.
// Attaching a new carrier follows the PENDING to ASSIGNED promotion.
func (s *LoadService) Update(ctx context.Context, id string, in UpdateLoadInput) (*LoadResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, invalid(err)
	}
	cache := newUserCache(s.Users)
	var (
		l        *entity.Load
		promoted bool
	)
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		l, err = s.Loads.GetByID(ctx, id)
		if err != nil {
			return lookupErr(err, "load", id)
		}
		l.OriginAddress = in.OriginAddress
		l.DestinationAddress = in.DestinationAddress
		if in.PickupDate != nil {
			l.PickupDate = in.PickupDate.UTC()
		}
		if in.DeliveryDate != nil {
			l.DeliveryDate = in.DeliveryDate.UTC()
		}
		if l.DeliveryDate.Before(l.PickupDate) {
			return invalidf("delivery_date must not be before pickup_date")
		}
		l.VehicleDetails = in.VehicleDetails
		l.Notes = in.Notes

		if in.BrokerID != nil && *in.BrokerID != l.BrokerID {
			u, err := s.requireUser(ctx, "broker", *in.BrokerID)
			if err != nil {
				return err
			}
			cache.put(u)
			l.BrokerID = u.ID
		}
		if in.CustomerID != nil && *in.CustomerID != l.CustomerID {
			u, err := s.requireUser(ctx, "customer", *in.CustomerID)
			if err != nil {
				return err
			}
			cache.put(u)
			l.CustomerID = u.ID
		}
		if in.CarrierID != nil && !l.HasCarrier(*in.CarrierID) {
			u, err := s.requireUser(ctx, "carrier", *in.CarrierID)
			if err != nil {
				return err
			}
			cache.put(u)
			promoted = l.AssignCarrier(u.ID)
		}
		return lookupErr(s.Loads.Update(ctx, l), "load", id)
	})
	if err != nil {
		return nil, err
	}
	if promoted {
		s.Events.PublishLoadStatusUpdated(ctx, l.ID, l.Status)
	}
	s.index(ctx, l)
	return s.respond(ctx, cache, l)
}

// UpdateStatus overrides the status unconditionally.
func (s *LoadService) UpdateStatus(ctx context.Context, id, status string) (*LoadResponse, error) {
	st, err := entity.ParseLoadStatus(status)
	if err != nil {
		return nil, invalidf("%v", err)
	}
	var (
		l       *entity.Load
		changed bool
	)
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if l, err = s.Loads.GetByID(ctx, id); err != nil {
			return lookupErr(err, "load", id)
		}
		changed = l.SetStatus(st)
		return lookupErr(s.Loads.Update(ctx, l), "load", id)
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.Events.PublishLoadStatusUpdated(ctx, l.ID, l.Status)
	}
	s.index(ctx, l)
	return s.respond(ctx, newUserCache(s.Users), l)
}

func (s *LoadService) UpdateEstimatedDelivery(ctx context.Context, id string, eta time.Time) (*LoadResponse, error) {
	if eta.IsZero() {
		return nil, invalidf("estimated_delivery_date is required")
	}
	eta = eta.UTC()
	var l *entity.Load
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if l, err = s.Loads.GetByID(ctx, id); err != nil {
			return lookupErr(err, "load", id)
		}
		l.EstimatedDeliveryDate = &eta
		return lookupErr(s.Loads.Update(ctx, l), "load", id)
	})
	if err != nil {
		return nil, err
	}
	s.Events.PublishLoadETAUpdated(ctx, l.ID, eta)
	s.index(ctx, l)
	return s.respond(ctx, newUserCache(s.Users), l)
}

func (s *LoadService) AssignCarrier(ctx context.Context, loadID, carrierID string) (*LoadResponse, error) {
	if strings.TrimSpace(carrierID) == "" {
		return nil, invalidf("carrier id is required")
	}
	cache := newUserCache(s.Users)
	var (
		l        *entity.Load
		promoted bool
	)
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if l, err = s.Loads.GetByID(ctx, loadID); err != nil {
			return lookupErr(err, "load", loadID)
		}
		carrier, err := s.requireUser(ctx, "carrier", carrierID)
		if err != nil {
			return err
		}
		cache.put(carrier)
		promoted = l.AssignCarrier(carrier.ID)
		return lookupErr(s.Loads.Update(ctx, l), "load", loadID)
	})
	if err != nil {
		return nil, err
	}
	if promoted {
		s.Events.PublishLoadStatusUpdated(ctx, l.ID, l.Status)
	}
	s.index(ctx, l)
	return s.respond(ctx, cache, l)
}

// Delete removes the load together with its messages.
func (s *LoadService) Delete(ctx context.Context, id string) error {
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.Loads.GetByID(ctx, id); err != nil {
			return lookupErr(err, "load", id)
		}
		n, err := s.Messages.DeleteByLoad(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			s.Logger.WithFields(logrus.Fields{"load_id": id, "messages": n}).Info("cascade deleted load messages")
		}
		return lookupErr(s.Loads.Delete(ctx, id), "load", id)
	})
	if err != nil {
		return err
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("load_id", id).Warn("es delete failed")
		}
	}
	return nil
}

// Search runs a full-text query over the load index. It returns an empty
// result when search is not configured.
func (s *LoadService) Search(ctx context.Context, q string, size int) ([]LoadResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, invalidf("query is required")
	}
	if s.Index == nil {
		return []LoadResponse{}, nil
	}
	if size <= 0 || size > 50 {
		size = defaultSearchSize
	}
	ids, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, err
	}
	cache := newUserCache(s.Users)
	out := make([]LoadResponse, 0, len(ids))
	for _, id := range ids {
		l, err := s.Loads.GetByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			// index lags behind deletes
			continue
		}
		if err != nil {
			return nil, err
		}
		r, err := s.respond(ctx, cache, l)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *LoadService) list(ctx context.Context, f repo.LoadFilter) ([]LoadResponse, error) {
	loads, err := s.Loads.List(ctx, f)
	if err != nil {
		return nil, err
	}
	cache := newUserCache(s.Users)
	out := make([]LoadResponse, 0, len(loads))
	for _, l := range loads {
		r, err := s.respond(ctx, cache, l)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *LoadService) index(ctx context.Context, l *entity.Load) {
	if s.Index == nil || l == nil {
		return
	}
	if err := s.Index.Index(ctx, l); err != nil {
		s.Logger.WithError(err).WithField("load_id", l.ID).Warn("es index failed")
	}
}

func (s *LoadService) respond(ctx context.Context, cache *userCache, l *entity.Load) (*LoadResponse, error) {
	broker, err := cache.summary(ctx, l.BrokerID)
	if err != nil {
		return nil, err
	}
	customer, err := cache.summary(ctx, l.CustomerID)
	if err != nil {
		return nil, err
	}
	r := &LoadResponse{
		ID:                    l.ID,
		OriginAddress:         l.OriginAddress,
		DestinationAddress:    l.DestinationAddress,
		PickupDate:            l.PickupDate,
		DeliveryDate:          l.DeliveryDate,
		EstimatedDeliveryDate: l.EstimatedDeliveryDate,
		Status:                l.Status,
		Broker:                broker,
		Customer:              customer,
		VehicleDetails:        l.VehicleDetails,
		Notes:                 l.Notes,
		CreatedAt:             l.CreatedAt,
		UpdatedAt:             l.UpdatedAt,
	}
	if l.CarrierID != nil {
		carrier, err := cache.summary(ctx, *l.CarrierID)
		if err != nil {
			return nil, err
		}
		r.Carrier = &carrier
	}
	return r, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

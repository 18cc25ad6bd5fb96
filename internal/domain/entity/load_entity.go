package entity

import (
	"fmt"
	"strings"
	"time"
)

type LoadStatus string

const (
	LoadStatusPending   LoadStatus = "PENDING"
	LoadStatusAssigned  LoadStatus = "ASSIGNED"
	LoadStatusInTransit LoadStatus = "IN_TRANSIT"
	LoadStatusDelivered LoadStatus = "DELIVERED"
	LoadStatusCancelled LoadStatus = "CANCELLED"
)

var LoadStatuses = []LoadStatus{
	LoadStatusPending,
	LoadStatusAssigned,
	LoadStatusInTransit,
	LoadStatusDelivered,
	LoadStatusCancelled,
}

func (s LoadStatus) Valid() bool {
	for _, v := range LoadStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func ParseLoadStatus(s string) (LoadStatus, error) {
	st := LoadStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown load status %q", s)
	}
	return st, nil
}

// Load is a shipment linking a broker, a customer and optionally a carrier.
//
// Status only moves forward on its own: attaching a carrier to a PENDING load
// promotes it to ASSIGNED, anything else requires an explicit SetStatus.
type Load struct {
	ID                    string
	OriginAddress         string
	DestinationAddress    string
	PickupDate            time.Time
	DeliveryDate          time.Time
	EstimatedDeliveryDate *time.Time
	Status                LoadStatus
	BrokerID              string
	CustomerID            string
	CarrierID             *string
	VehicleDetails        string
	Notes                 string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewLoad starts PENDING, or ASSIGNED when a carrier is known up front.
func NewLoad(brokerID, customerID string, carrierID *string) *Load {
	l := &Load{
		BrokerID:   brokerID,
		CustomerID: customerID,
		Status:     LoadStatusPending,
	}
	if carrierID != nil {
		l.AssignCarrier(*carrierID)
	}
	return l
}

// AssignCarrier attaches the carrier and reports whether the status changed.
func (l *Load) AssignCarrier(carrierID string) bool {
	id := carrierID
	l.CarrierID = &id
	if l.Status == LoadStatusPending {
		l.Status = LoadStatusAssigned
		return true
	}
	return false
}

// SetStatus overrides the status unconditionally.
func (l *Load) SetStatus(s LoadStatus) bool {
	changed := l.Status != s
	l.Status = s
	return changed
}

func (l *Load) HasCarrier(carrierID string) bool {
	return l.CarrierID != nil && *l.CarrierID == carrierID
}

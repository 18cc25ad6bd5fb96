package application

import (
	"time"

	"github.com/baltotest/freight-api/internal/domain/entity"
	"github.com/baltotest/freight-api/pkg/validation"
)

func init() {
	validation.Register("role", func(s string) bool { _, err := entity.ParseRole(s); return err == nil })
	validation.Register("loadstatus", func(s string) bool { _, err := entity.ParseLoadStatus(s); return err == nil })
	validation.Register("channeltype", func(s string) bool { _, err := entity.ParseChannelType(s); return err == nil })
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,pwd,max=72"`
	Role     string `json:"role" validate:"required,role"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type UpdateProfileInput struct {
	Name string `json:"name" validate:"required,max=100"`
	// Phone is always written; nil clears it.
	Phone *string `json:"phone" validate:"omitempty,phone"`
	// Location is only written when supplied.
	Location *string `json:"location" validate:"omitempty,max=255"`
}

type CreateLoadInput struct {
	OriginAddress         string     `json:"origin_address" validate:"required,max=500"`
	DestinationAddress    string     `json:"destination_address" validate:"required,max=500"`
	PickupDate            time.Time  `json:"pickup_date" validate:"required"`
	DeliveryDate          time.Time  `json:"delivery_date" validate:"required,gtefield=PickupDate"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date"`
	BrokerID              string     `json:"broker_id" validate:"required"`
	CustomerID            string     `json:"customer_id" validate:"required"`
	CarrierID             *string    `json:"carrier_id" validate:"omitempty,min=1"`
	VehicleDetails        string     `json:"vehicle_details" validate:"max=500"`
	Notes                 string     `json:"notes" validate:"max=2000"`
}

// UpdateLoadInput replaces addresses and free text. Dates and parties are
// only touched when supplied.
type UpdateLoadInput struct {
	OriginAddress      string     `json:"origin_address" validate:"required,max=500"`
	DestinationAddress string     `json:"destination_address" validate:"required,max=500"`
	PickupDate         *time.Time `json:"pickup_date"`
	DeliveryDate       *time.Time `json:"delivery_date"`
	BrokerID           *string    `json:"broker_id" validate:"omitempty,min=1"`
	CustomerID         *string    `json:"customer_id" validate:"omitempty,min=1"`
	CarrierID          *string    `json:"carrier_id" validate:"omitempty,min=1"`
	VehicleDetails     string     `json:"vehicle_details" validate:"max=500"`
	Notes              string     `json:"notes" validate:"max=2000"`
}

type SendMessageInput struct {
	LoadID      string     `json:"load_id" validate:"required"`
	SenderID    string     `json:"sender_id" validate:"required"`
	RecipientID string     `json:"recipient_id" validate:"required"`
	ChannelID   string     `json:"channel_id" validate:"required"`
	Content     string     `json:"content" validate:"required,max=4000"`
	Attachments []string   `json:"attachments" validate:"omitempty,max=20,dive,required,max=1024"`
	SentAt      *time.Time `json:"sent_at"`
}

type ChannelInput struct {
	Type          string `json:"type" validate:"required,channeltype"`
	Name          string `json:"name" validate:"required,max=100"`
	Description   string `json:"description" validate:"max=500"`
	Configuration string `json:"configuration" validate:"omitempty,max=10000"`
	Active        bool   `json:"active"`
}

type UserSummary struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  entity.Role `json:"role"`
}

type UserResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       entity.Role `json:"role"`
	Phone      *string     `json:"phone,omitempty"`
	Location   string      `json:"location"`
	LastActive *time.Time  `json:"last_active,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type LoadResponse struct {
	ID                    string            `json:"id"`
	OriginAddress         string            `json:"origin_address"`
	DestinationAddress    string            `json:"destination_address"`
	PickupDate            time.Time         `json:"pickup_date"`
	DeliveryDate          time.Time         `json:"delivery_date"`
	EstimatedDeliveryDate *time.Time        `json:"estimated_delivery_date,omitempty"`
	Status                entity.LoadStatus `json:"status"`
	Broker                UserSummary       `json:"broker"`
	Customer              UserSummary       `json:"customer"`
	Carrier               *UserSummary      `json:"carrier,omitempty"`
	VehicleDetails        string            `json:"vehicle_details"`
	Notes                 string            `json:"notes"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

type ChannelSummary struct {
	ID   string             `json:"id"`
	Type entity.ChannelType `json:"type"`
	Name string             `json:"name"`
}

type ChannelResponse struct {
	ID            string             `json:"id"`
	Type          entity.ChannelType `json:"type"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Configuration string             `json:"configuration"`
	Active        bool               `json:"active"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type MessageResponse struct {
	ID          string         `json:"id"`
	LoadID      string         `json:"load_id"`
	Sender      UserSummary    `json:"sender"`
	Recipient   UserSummary    `json:"recipient"`
	Channel     ChannelSummary `json:"channel"`
	Content     string         `json:"content"`
	Attachments []string       `json:"attachments"`
	Read        bool           `json:"read"`
	ReadAt      *time.Time     `json:"read_at,omitempty"`
	SentAt      time.Time      `json:"sent_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func toUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Phone:      u.Phone,
		Location:   u.Location,
		LastActive: u.LastActive,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toUserSummary(u *entity.User) UserSummary {
	if u == nil {
		return UserSummary{}
	}
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func toChannelResponse(c *entity.Channel) ChannelResponse {
	return ChannelResponse{
		ID:            c.ID,
		Type:          c.Type,
		Name:          c.Name,
		Description:   c.Description,
		Configuration: c.Configuration,
		Active:        c.Active,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func toChannelSummary(c *entity.Channel) ChannelSummary {
	if c == nil {
		return ChannelSummary{}
	}
	return ChannelSummary{ID: c.ID, Type: c.Type, Name: c.Name}
}

package gormstore

import (
	"time"

	"github.com/baltotest/freight-api/internal/domain/entity"
)

type userModel struct {
	ID           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;size:16"`
	Phone        *string
	Location     string `gorm:"not null"`
	LastActive   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

type channelModel struct {
	ID            string `gorm:"primaryKey;size:36"`
	Type          string `gorm:"not null;size:16;index"`
	Name          string `gorm:"not null"`
	Description   string
	Configuration string
	Active        bool `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (channelModel) TableName() string { return "channels" }

type loadModel struct {
	ID                    string    `gorm:"primaryKey;size:36"`
	OriginAddress         string    `gorm:"not null"`
	DestinationAddress    string    `gorm:"not null"`
	PickupDate            time.Time `gorm:"not null"`
	DeliveryDate          time.Time `gorm:"not null"`
	EstimatedDeliveryDate *time.Time
	Status                string  `gorm:"not null;size:16;index"`
	BrokerID              string  `gorm:"not null;size:36;index"`
	CustomerID            string  `gorm:"not null;size:36;index"`
	CarrierID             *string `gorm:"size:36;index"`
	VehicleDetails        string
	Notes                 string
	CreatedAt             time.Time `gorm:"index"`
	UpdatedAt             time.Time
}

func (loadModel) TableName() string { return "loads" }

type messageModel struct {
	ID          string   `gorm:"primaryKey;size:36"`
	LoadID      string   `gorm:"not null;size:36;index"`
	SenderID    string   `gorm:"not null;size:36;index"`
	RecipientID string   `gorm:"not null;size:36;index"`
	ChannelID   string   `gorm:"not null;size:36;index"`
	Content     string   `gorm:"not null"`
	Attachments []string `gorm:"serializer:json"`
	Read        bool     `gorm:"column:is_read;not null"`
	ReadAt      *time.Time
	SentAt      time.Time `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (messageModel) TableName() string { return "messages" }

func toUserModel(u *entity.User) userModel {
	return userModel{
		ID: u.ID, Name: u.Name, Email: u.Email, PasswordHash: u.PasswordHash, Role: string(u.Role),
		Phone: u.Phone, Location: u.Location, LastActive: u.LastActive,
		CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

func (m userModel) toEntity() *entity.User {
	return &entity.User{
		ID: m.ID, Name: m.Name, Email: m.Email, PasswordHash: m.PasswordHash, Role: entity.Role(m.Role),
		Phone: m.Phone, Location: m.Location, LastActive: m.LastActive,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func toChannelModel(c *entity.Channel) channelModel {
	return channelModel{
		ID: c.ID, Type: string(c.Type), Name: c.Name, Description: c.Description,
		Configuration: c.Configuration, Active: c.Active, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

func (m channelModel) toEntity() *entity.Channel {
	return &entity.Channel{
		ID: m.ID, Type: entity.ChannelType(m.Type), Name: m.Name, Description: m.Description,
		Configuration: m.Configuration, Active: m.Active, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func toLoadModel(l *entity.Load) loadModel {
	return loadModel{
		ID: l.ID, OriginAddress: l.OriginAddress, DestinationAddress: l.DestinationAddress,
		PickupDate: l.PickupDate, DeliveryDate: l.DeliveryDate, EstimatedDeliveryDate: l.EstimatedDeliveryDate,
		Status: string(l.Status), BrokerID: l.BrokerID, CustomerID: l.CustomerID, CarrierID: l.CarrierID,
		VehicleDetails: l.VehicleDetails, Notes: l.Notes, CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt,
	}
}

func (m loadModel) toEntity() *entity.Load {
	return &entity.Load{
		ID: m.ID, OriginAddress: m.OriginAddress, DestinationAddress: m.DestinationAddress,
		PickupDate: m.PickupDate.UTC(), DeliveryDate: m.DeliveryDate.UTC(), EstimatedDeliveryDate: m.EstimatedDeliveryDate,
		Status: entity.LoadStatus(m.Status), BrokerID: m.BrokerID, CustomerID: m.CustomerID, CarrierID: m.CarrierID,
		VehicleDetails: m.VehicleDetails, Notes: m.Notes, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func toMessageModel(m *entity.Message) messageModel {
	return messageModel{
		ID: m.ID, LoadID: m.LoadID, SenderID: m.SenderID, RecipientID: m.RecipientID, ChannelID: m.ChannelID,
		Content: m.Content, Attachments: m.Attachments, Read: m.Read, ReadAt: m.ReadAt, SentAt: m.SentAt,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func (m messageModel) toEntity() *entity.Message {
	return &entity.Message{
		ID: m.ID, LoadID: m.LoadID, SenderID: m.SenderID, RecipientID: m.RecipientID, ChannelID: m.ChannelID,
		Content: m.Content, Attachments: m.Attachments, Read: m.Read, ReadAt: m.ReadAt, SentAt: m.SentAt.UTC(),
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

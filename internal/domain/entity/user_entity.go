package entity

import (
	"time"
)

// DefaultLocation is assigned to users who never set one.
const DefaultLocation = "Princeton, NJ"

// User is the aggregate root for brokers, customers and carriers.
// PasswordHash holds a bcrypt digest, never the plaintext.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Phone        *string
	Location     string
	LastActive   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser builds a user ready for persistence with the default location.
func NewUser(name, email, passwordHash string, role Role) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Location:     DefaultLocation,
	}
}

// Touch records activity at the given instant.
func (u *User) Touch(now time.Time) {
	t := now.UTC()
	u.LastActive = &t
}

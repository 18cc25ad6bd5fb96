package entity

import (
	"fmt"
	"strings"
	"time"
)

// ChannelType is the medium a message travels over.
type ChannelType string

const (
	ChannelEmail ChannelType = "EMAIL"
	ChannelSMS   ChannelType = "SMS"
	ChannelChat  ChannelType = "CHAT"
	ChannelPhone ChannelType = "PHONE"
)

var ChannelTypes = []ChannelType{ChannelEmail, ChannelSMS, ChannelChat, ChannelPhone}

func (t ChannelType) Valid() bool {
	for _, v := range ChannelTypes {
		if t == v {
			return true
		}
	}
	return false
}

func ParseChannelType(s string) (ChannelType, error) {
	t := ChannelType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown channel type %q", s)
	}
	return t, nil
}

// Channel is a named communication medium.
// Configuration is opaque to the core and interpreted by the integration itself.
type Channel struct {
	ID            string
	Type          ChannelType
	Name          string
	Description   string
	Configuration string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (c *Channel) Activate()   { c.Active = true }
func (c *Channel) Deactivate() { c.Active = false }

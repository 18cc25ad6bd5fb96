package entity

import "time"

// MaxMessageContent bounds the length of a message body.
const MaxMessageContent = 4000

// Message belongs to exactly one load and travels over one channel.
type Message struct {
	ID          string
	LoadID      string
	SenderID    string
	RecipientID string
	ChannelID   string
	Content     string
	Attachments []string
	Read        bool
	ReadAt      *time.Time
	SentAt      time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MarkAsRead flips the read flag once. ReadAt is never overwritten;
// later calls are no-ops and return false.
func (m *Message) MarkAsRead(now time.Time) bool {
	if m.Read {
		return false
	}
	t := now.UTC()
	m.Read = true
	m.ReadAt = &t
	return true
}

package message

import (
	"time"
)

// Message is a one-way internal note. ReadAt is set once by the receiver
// and never cleared or changed afterwards.
type Message struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	SenderID   int64      `json:"sender_id" gorm:"column:sender_id;not null;index"`
	ReceiverID int64      `json:"receiver_id" gorm:"column:receiver_id;not null;index"`
	Body       string     `json:"body" gorm:"column:body;size:2000;not null"`
	SentAt     time.Time  `json:"sent_at" gorm:"column:sent_at;not null"`
	ReadAt     *time.Time `json:"read_at,omitempty" gorm:"column:read_at"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) IsRead() bool {
	return m.ReadAt != nil
}

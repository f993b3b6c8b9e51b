package postgres

import (
	"time"

	"github.com/fahrizalm/staffdesk/internal"
	"github.com/fahrizalm/staffdesk/internal/message"
	"gorm.io/gorm"
)

// MessageRepository implements the message.Repository interface using GORM.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) message.Repository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(msg *message.Message) error {
	return r.db.Create(msg).Error
}

// MarkRead is a single conditional update: the read_at IS NULL predicate
// keeps a set read instant immutable, and the receiver_id predicate keeps
// other accounts out. Zero rows affected collapses every cause into
// CannotMarkRead.
func (r *MessageRepository) MarkRead(id, receiverID int64, readAt time.Time) error {
	res := r.db.Model(&message.Message{}).
		Where("id = ? AND receiver_id = ? AND read_at IS NULL", id, receiverID).
		Update("read_at", readAt)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrCannotMarkRead
	}
	return nil
}

func (r *MessageRepository) Inbox(receiverID int64, limit int) ([]*message.Message, error) {
	var msgs []*message.Message
	err := r.db.Where("receiver_id = ?", receiverID).
		Order("sent_at DESC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

func (r *MessageRepository) Sent(senderID int64, limit int) ([]*message.Message, error) {
	var msgs []*message.Message
	err := r.db.Where("sender_id = ?", senderID).
		Order("sent_at DESC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

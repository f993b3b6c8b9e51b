package mental

import (
	"time"
)

// Checkin is one mental-health entry per (user, calendar date). Writing a
// second entry on the same day overwrites the first: the pair is a natural
// key with upsert semantics, never an append.
type Checkin struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:ux_mental_user_date,priority:1"`
	CheckDate time.Time `json:"check_date" gorm:"column:check_date;type:date;not null;uniqueIndex:ux_mental_user_date,priority:2"`
	Score     int       `json:"score" gorm:"column:score;not null"`
	Comment   *string   `json:"comment,omitempty" gorm:"column:comment;size:500"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Checkin) TableName() string {
	return "mental_checkins"
}

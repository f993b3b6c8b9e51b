package attendance

import (
	"time"
)

// Record is one attendance row per (user, work date). The pair is the
// natural key; a unique index backs it so concurrent punches cannot create
// two rows for the same day.
type Record struct {
	ID        int64      `json:"id" gorm:"primaryKey"`
	UserID    int64      `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:ux_attendance_user_date,priority:1"`
	WorkDate  time.Time  `json:"work_date" gorm:"column:work_date;type:date;not null;uniqueIndex:ux_attendance_user_date,priority:2"`
	ClockIn   *time.Time `json:"clock_in,omitempty" gorm:"column:clock_in"`
	ClockOut  *time.Time `json:"clock_out,omitempty" gorm:"column:clock_out"`
	CreatedAt time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Record) TableName() string {
	return "attendance_records"
}

func (r *Record) ClockedIn() bool {
	return r.ClockIn != nil
}

func (r *Record) ClockedOut() bool {
	return r.ClockOut != nil
}

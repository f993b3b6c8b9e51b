package request

import (
	"time"
)

type Type string

const (
	TypeLeave       Type = "LEAVE"
	TypeOvertime    Type = "OVERTIME"
	TypeShiftChange Type = "SHIFT_CHANGE"
)

func (t Type) Valid() bool {
	switch t {
	case TypeLeave, TypeOvertime, TypeShiftChange:
		return true
	}
	return false
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Request is an approval request of any kind. It is created PENDING and
// transitions exactly once, by a different account, to APPROVED or
// REJECTED. Decision metadata is set iff the status is terminal.
type Request struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	Type        Type   `json:"type" gorm:"column:type;size:20;not null"`
	RequesterID int64  `json:"requester_id" gorm:"column:requester_id;not null;index"`
	Status      Status `json:"status" gorm:"column:status;size:20;not null;index"`

	StartDate       *time.Time `json:"start_date,omitempty" gorm:"column:start_date;type:date"`
	EndDate         *time.Time `json:"end_date,omitempty" gorm:"column:end_date;type:date"`
	TargetDate      *time.Time `json:"target_date,omitempty" gorm:"column:target_date;type:date"`
	OvertimeMinutes *int       `json:"overtime_minutes,omitempty" gorm:"column:overtime_minutes"`
	RequestedShift  *string    `json:"requested_shift,omitempty" gorm:"column:requested_shift;size:100"`
	Reason          *string    `json:"reason,omitempty" gorm:"column:reason;size:500"`

	DecidedByID  *int64     `json:"decided_by_id,omitempty" gorm:"column:decided_by_id;index"`
	DecidedAt    *time.Time `json:"decided_at,omitempty" gorm:"column:decided_at"`
	DecisionNote *string    `json:"decision_note,omitempty" gorm:"column:decision_note;size:500"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Request) TableName() string {
	return "application_requests"
}

func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

// StatusCounts summarizes one requester's requests per status.
type StatusCounts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

package passwordreset

import (
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// ResetRequest is an admin-mediated password reset. It is reachable before
// authentication, which is why RequestedByID is nullable: a pre-login
// self-service request has no actor. At most one PENDING request may exist
// per target account.
type ResetRequest struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	TargetUserID  int64      `json:"target_user_id" gorm:"column:target_user_id;not null;index"`
	RequestedByID *int64     `json:"requested_by_id,omitempty" gorm:"column:requested_by_id"`
	Status        Status     `json:"status" gorm:"column:status;size:20;not null;index"`
	RequestedAt   time.Time  `json:"requested_at" gorm:"column:requested_at;not null"`
	DecidedByID   *int64     `json:"decided_by_id,omitempty" gorm:"column:decided_by_id"`
	DecidedAt     *time.Time `json:"decided_at,omitempty" gorm:"column:decided_at"`
	DecisionNote  *string    `json:"decision_note,omitempty" gorm:"column:decision_note;size:500"`
}

func (ResetRequest) TableName() string {
	return "password_reset_requests"
}

func (r *ResetRequest) IsPending() bool {
	return r.Status == StatusPending
}

package request

import (
	"strings"
	"time"

	"github.com/fahrizalm/staffdesk/internal"
)

// CreateRequestDTO is the type-discriminated creation payload. Only the
// fields matching Type are consulted.
type CreateRequestDTO struct {
	Type            Type       `json:"type"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	TargetDate      *time.Time `json:"target_date,omitempty"`
	OvertimeMinutes *int       `json:"overtime_minutes,omitempty"`
	RequestedShift  *string    `json:"requested_shift,omitempty"`
	Reason          *string    `json:"reason,omitempty"`
}

func (d *CreateRequestDTO) Validate() error {
	if !d.Type.Valid() {
		return internal.NewValidationError("unknown request type", internal.ErrCodeValidationFailed)
	}

	switch d.Type {
	case TypeLeave:
		if d.StartDate == nil || d.EndDate == nil {
			return internal.NewValidationError("leave request needs a start and end date", internal.ErrCodeInvalidDateRange)
		}
		if d.EndDate.Before(*d.StartDate) {
			return internal.NewValidationError("leave end date precedes start date", internal.ErrCodeInvalidDateRange)
		}
	case TypeOvertime:
		if d.TargetDate == nil {
			return internal.NewValidationError("overtime request needs a target date", internal.ErrCodeInvalidDateRange)
		}
		if d.OvertimeMinutes == nil || *d.OvertimeMinutes <= 0 {
			return internal.NewValidationError("overtime minutes must be positive", internal.ErrCodeInvalidMinutes)
		}
	case TypeShiftChange:
		if d.TargetDate == nil {
			return internal.NewValidationError("shift change request needs a target date", internal.ErrCodeInvalidDateRange)
		}
		if d.RequestedShift == nil || strings.TrimSpace(*d.RequestedShift) == "" {
			return internal.NewValidationError("requested shift must not be empty", internal.ErrCodeInvalidShift)
		}
	}

	if d.Reason != nil && strings.TrimSpace(*d.Reason) == "" {
		d.Reason = nil
	}
	return nil
}

package attendance

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fahrizalm/staffdesk/internal"
	"github.com/fahrizalm/staffdesk/internal/account"
	"github.com/fahrizalm/staffdesk/internal/audit"
)

// Repository defines the data access methods for attendance records. The
// writes are conditional single statements so that racing callers on the
// same (user, date) key produce exactly one winner.
type Repository interface {
	// SetClockIn records the first punch of the day. It returns
	// internal.ErrAlreadyClockedIn when clock-in is already set.
	SetClockIn(userID int64, workDate time.Time, now time.Time) error
	// SetClockOut returns internal.ErrNotClockedIn when no open clock-in
	// exists for the day and internal.ErrAlreadyClockedOut when clock-out
	// is already set.
	SetClockOut(userID int64, workDate time.Time, now time.Time) error
	GetByUserAndDate(userID int64, workDate time.Time) (*Record, error)
	RecentByUser(userID int64, limit int) ([]*Record, error)
}

// Service is the daily-record idempotency guard for attendance punches.
type Service struct {
	repo    Repository
	auditor audit.Recorder
	logger  *slog.Logger
}

func NewService(repo Repository, auditor audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		auditor: auditor,
		logger:  logger,
	}
}

// ClockIn records the session owner's first punch for now's calendar date.
// A second punch on the same day fails with AlreadyClockedIn.
func (s *Service) ClockIn(session *account.Session, now time.Time) (*Record, error) {
	workDate := internal.DateOnly(now)

	if err := s.repo.SetClockIn(session.ID, workDate, now); err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Code == internal.ErrCodeAlreadyClockedIn {
			s.logger.Warn("duplicate clock-in rejected", "account_id", session.ID, "work_date", workDate)
		} else {
			s.logger.Error("clock-in failed", "error", err, "account_id", session.ID)
		}
		return nil, err
	}

	s.auditor.Record(session.AuditActor(), audit.ActionClockIn, "attendance_records",
		dailyEntityID(session.ID, workDate), "")

	s.logger.Info("clocked in", "account_id", session.ID, "work_date", workDate)
	return s.repo.GetByUserAndDate(session.ID, workDate)
}

// ClockOut completes today's record. It fails with NotClockedIn when no
// clock-in exists and AlreadyClockedOut when the day is already closed.
func (s *Service) ClockOut(session *account.Session, now time.Time) (*Record, error) {
	workDate := internal.DateOnly(now)

	rec, err := s.repo.GetByUserAndDate(session.ID, workDate)
	if err != nil {
		return nil, err
	}
	if rec == nil || !rec.ClockedIn() {
		return nil, internal.ErrNotClockedIn
	}
	if rec.ClockedOut() {
		return nil, internal.ErrAlreadyClockedOut
	}
	if now.Before(*rec.ClockIn) {
		return nil, internal.NewValidationError("clock-out must not precede clock-in", internal.ErrCodeValidationFailed)
	}

	if err := s.repo.SetClockOut(session.ID, workDate, now); err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Code == internal.ErrCodeAlreadyClockedOut {
			s.logger.Warn("duplicate clock-out rejected", "account_id", session.ID, "work_date", workDate)
		} else {
			s.logger.Error("clock-out failed", "error", err, "account_id", session.ID)
		}
		return nil, err
	}

	s.auditor.Record(session.AuditActor(), audit.ActionClockOut, "attendance_records",
		dailyEntityID(session.ID, workDate), "")

	s.logger.Info("clocked out", "account_id", session.ID, "work_date", workDate)
	return s.repo.GetByUserAndDate(session.ID, workDate)
}

// Recent lists the session owner's latest attendance rows, newest first.
func (s *Service) Recent(session *account.Session, limit int) ([]*Record, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	records, err := s.repo.RecentByUser(session.ID, limit)
	if err != nil {
		s.logger.Error("failed to load recent attendance", "error", err, "account_id", session.ID)
		return nil, err
	}
	return records, nil
}

func dailyEntityID(userID int64, workDate time.Time) string {
	return fmt.Sprintf("%d:%s", userID, workDate.Format("2006-01-02"))
}

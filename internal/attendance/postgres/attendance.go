package postgres

import (
	"errors"
	"time"

	"github.com/fahrizalm/staffdesk/internal"
	"github.com/fahrizalm/staffdesk/internal/attendance"
	"gorm.io/gorm"
)

// AttendanceRepository implements the attendance.Repository interface using
// GORM. The unique index on (user_id, work_date) is what makes the punch
// operations race-safe: every check-then-write below is either a plain
// insert guarded by that index or a single conditional update.
type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) attendance.Repository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) SetClockIn(userID int64, workDate, now time.Time) error {
	rec := &attendance.Record{
		UserID:    userID,
		WorkDate:  workDate,
		ClockIn:   &now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.Create(rec).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	// A row already exists for the day. Repair it when clock-in is still
	// unset; otherwise this punch is a duplicate. The IS NULL predicate
	// makes concurrent duplicates lose here with zero rows affected.
	res := r.db.Model(&attendance.Record{}).
		Where("user_id = ? AND work_date = ? AND clock_in IS NULL", userID, workDate).
		Updates(map[string]interface{}{
			"clock_in":   now,
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrAlreadyClockedIn
	}
	return nil
}

// SetClockOut closes an open day with one conditional update. Zero rows
// affected means either no open clock-in exists or the day is already
// closed; a follow-up read tells the two apart.
func (r *AttendanceRepository) SetClockOut(userID int64, workDate, now time.Time) error {
	res := r.db.Model(&attendance.Record{}).
		Where("user_id = ? AND work_date = ? AND clock_in IS NOT NULL AND clock_out IS NULL", userID, workDate).
		Updates(map[string]interface{}{
			"clock_out":  now,
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		rec, err := r.GetByUserAndDate(userID, workDate)
		if err != nil {
			return err
		}
		if rec == nil || !rec.ClockedIn() {
			return internal.ErrNotClockedIn
		}
		return internal.ErrAlreadyClockedOut
	}
	return nil
}

// GetByUserAndDate returns nil without an error when no row exists for the
// day.
func (r *AttendanceRepository) GetByUserAndDate(userID int64, workDate time.Time) (*attendance.Record, error) {
	var rec attendance.Record
	err := r.db.Where("user_id = ? AND work_date = ?", userID, workDate).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *AttendanceRepository) RecentByUser(userID int64, limit int) ([]*attendance.Record, error) {
	var records []*attendance.Record
	err := r.db.Where("user_id = ?", userID).
		Order("work_date DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

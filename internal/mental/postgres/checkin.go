package postgres

import (
	"errors"
	"time"

	"github.com/fahrizalm/staffdesk/internal/mental"
	"gorm.io/gorm"
)

// CheckinRepository implements the mental.Repository interface using GORM.
type CheckinRepository struct {
	db *gorm.DB
}

func NewCheckinRepository(db *gorm.DB) mental.Repository {
	return &CheckinRepository{db: db}
}

// Upsert inserts first and falls back to an update on the natural key, so
// the second write of a day overwrites instead of erroring. The unique
// index on (user_id, check_date) decides which path a concurrent writer
// takes; both paths succeed, last write wins on score and comment.
func (r *CheckinRepository) Upsert(checkin *mental.Checkin) (bool, error) {
	err := r.db.Create(checkin).Error
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, err
	}

	res := r.db.Model(&mental.Checkin{}).
		Where("user_id = ? AND check_date = ?", checkin.UserID, checkin.CheckDate).
		Updates(map[string]interface{}{
			"score":      checkin.Score,
			"comment":    checkin.Comment,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return false, nil
}

func (r *CheckinRepository) RecentByUser(userID int64, limit int) ([]*mental.Checkin, error) {
	var checkins []*mental.Checkin
	err := r.db.Where("user_id = ?", userID).
		Order("check_date DESC").
		Limit(limit).
		Find(&checkins).Error
	return checkins, err
}

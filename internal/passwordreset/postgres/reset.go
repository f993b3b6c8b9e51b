package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/fahrizalm/staffdesk/internal"
	"github.com/fahrizalm/staffdesk/internal/passwordreset"
)

type ResetRepository struct {
	db *gorm.DB
}

func NewResetRepository(db *gorm.DB) passwordreset.Repository {
	return &ResetRepository{db: db}
}

func (r *ResetRepository) Create(req *passwordreset.ResetRequest) error {
	err := r.db.Create(req).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return internal.ErrResetAlreadyPending
	}
	return err
}

func (r *ResetRepository) GetByID(id int64) (*passwordreset.ResetRequest, error) {
	var req passwordreset.ResetRequest
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *ResetRepository) HasPending(targetUserID int64) (bool, error) {
	var count int64
	err := r.db.Model(&passwordreset.ResetRequest{}).
		Where("target_user_id = ? AND status = ?", targetUserID, passwordreset.StatusPending).
		Count(&count).Error
	return count > 0, err
}

// Approve claims the pending request and installs the new credential in one
// transaction. The conditional status check is the claim: a request already
// decided by a concurrent admin yields zero rows and the credential is left
// untouched.
func (r *ResetRepository) Approve(id, deciderID int64, note *string, targetUserID int64, newPasswordHash string, decidedAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&passwordreset.ResetRequest{}).
			Where("id = ? AND status = ?", id, passwordreset.StatusPending).
			Updates(map[string]interface{}{
				"status":        passwordreset.StatusApproved,
				"decided_by_id": deciderID,
				"decided_at":    decidedAt,
				"decision_note": note,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrCannotDecide
		}

		res = tx.Table("users").
			Where("id = ?", targetUserID).
			Updates(map[string]interface{}{
				"password_hash": newPasswordHash,
				"updated_at":    decidedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrAccountNotFound
		}
		return nil
	})
}

func (r *ResetRepository) Reject(id, deciderID int64, note *string, decidedAt time.Time) error {
	res := r.db.Model(&passwordreset.ResetRequest{}).
		Where("id = ? AND status = ?", id, passwordreset.StatusPending).
		Updates(map[string]interface{}{
			"status":        passwordreset.StatusRejected,
			"decided_by_id": deciderID,
			"decided_at":    decidedAt,
			"decision_note": note,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrCannotDecide
	}
	return nil
}

func (r *ResetRepository) ListPending(limit int) ([]passwordreset.ResetRequest, error) {
	var reqs []passwordreset.ResetRequest
	q := r.db.Where("status = ?", passwordreset.StatusPending).Order("requested_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&reqs).Error
	return reqs, err
}

func (r *ResetRepository) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&passwordreset.ResetRequest{}).
		Where("status = ?", passwordreset.StatusPending).
		Count(&count).Error
	return count, err
}

package postgres

import (
	"errors"
	"time"

	"github.com/fahrizalm/staffdesk/internal"
	"github.com/fahrizalm/staffdesk/internal/account"
	"gorm.io/gorm"
)

// AccountRepository implements the account.Repository interface using GORM.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) account.Repository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(acc *account.Account) error {
	err := r.db.Create(acc).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return internal.ErrUsernameTaken
	}
	return err
}

func (r *AccountRepository) GetByID(id int64) (*account.Account, error) {
	var acc account.Account
	err := r.db.Where("id = ?", id).First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (r *AccountRepository) GetByUsername(username string) (*account.Account, error) {
	var acc account.Account
	err := r.db.Where("username = ?", username).First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (r *AccountRepository) List() ([]*account.Account, error) {
	var accounts []*account.Account
	err := r.db.Order("id ASC").Find(&accounts).Error
	return accounts, err
}

func (r *AccountRepository) UpdatePasswordHash(id int64, hash string) error {
	res := r.db.Model(&account.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": hash,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) SetEnabled(id int64, enabled bool) error {
	res := r.db.Model(&account.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"enabled":    enabled,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(id int64) error {
	res := r.db.Where("id = ?", id).Delete(&account.Account{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) CountByRole(role account.Role) (int64, error) {
	var count int64
	err := r.db.Model(&account.Account{}).
		Where("role = ?", role).
		Count(&count).Error
	return count, err
}

// referenceQueries covers every table that may hold a row pointing at an
// account. HasHistory gates hard deletion: any single hit keeps the account.
var referenceQueries = []struct {
	query string
	args  int
}{
	{"SELECT COUNT(*) FROM attendance_records WHERE user_id = ?", 1},
	{"SELECT COUNT(*) FROM application_requests WHERE requester_id = ? OR decided_by_id = ?", 2},
	{"SELECT COUNT(*) FROM messages WHERE sender_id = ? OR receiver_id = ?", 2},
	{"SELECT COUNT(*) FROM mental_checkins WHERE user_id = ?", 1},
	{"SELECT COUNT(*) FROM audit_logs WHERE actor_id = ?", 1},
	{"SELECT COUNT(*) FROM password_reset_requests WHERE target_user_id = ? OR requested_by_id = ? OR decided_by_id = ?", 3},
}

func (r *AccountRepository) HasHistory(id int64) (bool, error) {
	for _, ref := range referenceQueries {
		args := make([]interface{}, ref.args)
		for i := range args {
			args[i] = id
		}

		var count int64
		if err := r.db.Raw(ref.query, args...).Scan(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

package postgres

import (
	"github.com/fahrizalm/staffdesk/internal/audit"
	"gorm.io/gorm"
)

// AuditRepository implements the audit.Repository interface using GORM.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(entry *audit.Entry) error {
	return r.db.Create(entry).Error
}

func (r *AuditRepository) Recent(limit int) ([]*audit.Entry, error) {
	var entries []*audit.Entry
	err := r.db.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

package postgres

import (
	"errors"
	"time"

	"github.com/fahrizalm/staffdesk/internal"
	"github.com/fahrizalm/staffdesk/internal/request"
	"gorm.io/gorm"
)

// RequestRepository implements the request.Repository interface using GORM.
type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) request.Repository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(req *request.Request) error {
	return r.db.Create(req).Error
}

func (r *RequestRepository) GetByID(id int64) (*request.Request, error) {
	var req request.Request
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) ListPending(limit int) ([]*request.Request, error) {
	var reqs []*request.Request
	err := r.db.Where("status = ?", request.StatusPending).
		Order("created_at DESC").
		Limit(limit).
		Find(&reqs).Error
	return reqs, err
}

func (r *RequestRepository) ListByRequester(requesterID int64) ([]*request.Request, error) {
	var reqs []*request.Request
	err := r.db.Where("requester_id = ?", requesterID).
		Order("created_at DESC, id DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *RequestRepository) CountByRequesterAndStatus(requesterID int64, status request.Status) (int64, error) {
	var count int64
	err := r.db.Model(&request.Request{}).
		Where("requester_id = ? AND status = ?", requesterID, status).
		Count(&count).Error
	return count, err
}

// Decide is the whole state machine in one statement. The WHERE clause
// re-checks PENDING and excludes the requester at write time, so a race
// between two deciders (or a decider and the requester) leaves exactly one
// winner; every loser sees zero rows affected.
func (r *RequestRepository) Decide(id, deciderID int64, status request.Status, note *string, decidedAt time.Time) error {
	res := r.db.Model(&request.Request{}).
		Where("id = ? AND status = ? AND requester_id <> ?", id, request.StatusPending, deciderID).
		Updates(map[string]interface{}{
			"status":        status,
			"decided_by_id": deciderID,
			"decided_at":    decidedAt,
			"decision_note": note,
			"updated_at":    decidedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrCannotDecide
	}
	return nil
}

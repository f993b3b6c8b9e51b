package request

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fahrizalm/staffdesk/internal"
	"github.com/fahrizalm/staffdesk/internal/account"
	"github.com/fahrizalm/staffdesk/internal/audit"
)

// Repository defines the data access methods for approval requests.
type Repository interface {
	Create(req *Request) error
	GetByID(id int64) (*Request, error)
	ListPending(limit int) ([]*Request, error)
	ListByRequester(requesterID int64) ([]*Request, error)
	CountByRequesterAndStatus(requesterID int64, status Status) (int64, error)
	// Decide performs the conditional PENDING -> terminal transition. It
	// returns internal.ErrCannotDecide when the request is missing, already
	// decided, or the decider is the requester.
	Decide(id, deciderID int64, status Status, note *string, decidedAt time.Time) error
}

// Service is the request workflow state machine.
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

// Create validates the type-specific payload and stores the request as
// PENDING. An admin's own request is just another pending row; nothing is
// ever auto-approved.
func (s *Service) Create(session *account.Session, dto CreateRequestDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("request validation failed", "error", err, "account_id", session.ID)
		return nil, err
	}

	req := &Request{
		Type:            dto.Type,
		RequesterID:     session.ID,
		Status:          StatusPending,
		StartDate:       dto.StartDate,
		EndDate:         dto.EndDate,
		TargetDate:      dto.TargetDate,
		OvertimeMinutes: dto.OvertimeMinutes,
		RequestedShift:  dto.RequestedShift,
		Reason:          dto.Reason,
	}
	if err := s.repo.Create(req); err != nil {
		s.logger.Error("failed to create request", "error", err, "account_id", session.ID)
		return nil, err
	}

	s.auditor.Record(session.AuditActor(), audit.ActionCreateRequest, "application_requests",
		fmt.Sprint(req.ID), "type="+string(req.Type))

	s.logger.Info("request created", "request_id", req.ID, "type", req.Type, "requester_id", session.ID)
	return req, nil
}

// Decide transitions one request out of PENDING. The repository performs
// the transition as a single conditional update, so a missing request, a
// request already decided, and a self-decision all collapse into the same
// opaque CannotDecide outcome - the caller learns nothing about which
// predicate failed.
func (s *Service) Decide(session *account.Session, id int64, approve bool, note string) error {
	if !session.IsAdmin() {
		s.logger.Warn("decide denied: not an admin", "request_id", id, "actor_id", session.ID)
		return internal.ErrPermissionDenied
	}

	status := StatusRejected
	action := audit.ActionRejectRequest
	if approve {
		status = StatusApproved
		action = audit.ActionApproveRequest
	}

	var notePtr *string
	if note != "" {
		notePtr = &note
	}

	if err := s.repo.Decide(id, session.ID, status, notePtr, time.Now()); err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Code == internal.ErrCodeCannotDecide {
			s.logger.Warn("request not updatable", "request_id", id, "actor_id", session.ID)
		} else {
			s.logger.Error("failed to decide request", "error", err, "request_id", id)
		}
		return err
	}

	s.auditor.Record(session.AuditActor(), action, "application_requests", fmt.Sprint(id), note)

	s.logger.Info("request decided", "request_id", id, "status", status, "decider_id", session.ID)
	return nil
}

// ListPending returns the open requests for the admin work queue.
func (s *Service) ListPending(session *account.Session, limit int) ([]*Request, error) {
	if !session.IsAdmin() {
		return nil, internal.ErrPermissionDenied
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListPending(limit)
}

// Get returns one request. Non-admins only see their own.
func (s *Service) Get(session *account.Session, id int64) (*Request, error) {
	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !session.IsAdmin() && req.RequesterID != session.ID {
		s.logger.Warn("request access denied", "request_id", id, "actor_id", session.ID)
		return nil, internal.ErrPermissionDenied
	}
	return req, nil
}

// ForRequester lists the session owner's requests, newest first.
func (s *Service) ForRequester(session *account.Session) ([]*Request, error) {
	return s.repo.ListByRequester(session.ID)
}

// Counts summarizes the session owner's requests per status.
func (s *Service) Counts(session *account.Session) (*StatusCounts, error) {
	counts := &StatusCounts{}
	for _, pair := range []struct {
		status Status
		dst    *int64
	}{
		{StatusPending, &counts.Pending},
		{StatusApproved, &counts.Approved},
		{StatusRejected, &counts.Rejected},
	} {
		n, err := s.repo.CountByRequesterAndStatus(session.ID, pair.status)
		if err != nil {
			return nil, err
		}
		*pair.dst = n
	}
	return counts, nil
}

package passwordreset

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fahrizalm/staffdesk/internal"
	"github.com/fahrizalm/staffdesk/internal/account"
	"github.com/fahrizalm/staffdesk/internal/audit"
	"github.com/fahrizalm/staffdesk/internal/credential"
)

type Repository interface {
	Create(req *ResetRequest) error
	GetByID(id int64) (*ResetRequest, error)
	HasPending(targetUserID int64) (bool, error)
	Approve(id, deciderID int64, note *string, targetUserID int64, newPasswordHash string, decidedAt time.Time) error
	Reject(id, deciderID int64, note *string, decidedAt time.Time) error
	ListPending(limit int) ([]ResetRequest, error)
	CountPending() (int64, error)
}

// AccountLookup resolves target accounts. The account repository satisfies it.
type AccountLookup interface {
	GetByID(id int64) (*account.Account, error)
	GetByUsername(username string) (*account.Account, error)
}

// PasswordVerifier re-checks an admin's password before a decision is
// applied. Implemented by the account service.
type PasswordVerifier interface {
	VerifyPassword(accountID int64, password string) (bool, error)
}

type Service struct {
	repo     Repository
	accounts AccountLookup
	verifier PasswordVerifier
	hasher   credential.Hasher
	auditor  audit.Recorder
	logger   *slog.Logger
}

func NewService(repo Repository, accounts AccountLookup, verifier PasswordVerifier, hasher credential.Hasher, auditor audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		verifier: verifier,
		hasher:   hasher,
		auditor:  auditor,
		logger:   logger,
	}
}

// Request files a reset request for the named account. It runs before
// authentication, so there is no session and no actor. Disabled accounts may
// still file one: the admin decides.
func (s *Service) Request(username string, now time.Time) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return internal.NewValidationError("username is required", internal.ErrCodeValidationFailed)
	}

	target, err := s.accounts.GetByUsername(username)
	if err != nil {
		return err
	}

	pending, err := s.repo.HasPending(target.ID)
	if err != nil {
		return err
	}
	if pending {
		return internal.ErrResetAlreadyPending
	}

	req := &ResetRequest{
		TargetUserID: target.ID,
		Status:       StatusPending,
		RequestedAt:  now,
	}
	if err := s.repo.Create(req); err != nil {
		return err
	}

	s.auditor.RecordSystem(audit.ActionRequestReset, "password_reset_requests", fmt.Sprintf("%d", req.ID), "target="+target.Username)
	return nil
}

// Decide approves or rejects a pending reset. The deciding admin must present
// their own password again; a stale session is not enough to hand out a
// credential. On approval the new plaintext is returned exactly once and is
// never persisted or logged.
func (s *Service) Decide(session *account.Session, adminPassword string, requestID int64, approve bool, note string, now time.Time) (string, error) {
	if !session.IsAdmin() {
		return "", internal.ErrPermissionDenied
	}
	ok, err := s.verifier.VerifyPassword(session.ID, adminPassword)
	if err != nil {
		return "", err
	}
	if !ok {
		s.logger.Warn("reset decision denied: re-authentication failed", "account_id", session.ID)
		return "", internal.ErrBadCredential
	}

	var decisionNote *string
	if trimmed := strings.TrimSpace(note); trimmed != "" {
		decisionNote = &trimmed
	}

	req, err := s.repo.GetByID(requestID)
	if err != nil {
		return "", err
	}

	entityID := fmt.Sprintf("%d", requestID)

	if !approve {
		if err := s.repo.Reject(requestID, session.ID, decisionNote, now); err != nil {
			return "", err
		}
		s.auditor.Record(session.AuditActor(), audit.ActionRejectReset, "password_reset_requests", entityID, "")
		return "", nil
	}

	target, err := s.accounts.GetByID(req.TargetUserID)
	if err != nil {
		return "", err
	}

	plaintext := credential.ResetPassword(target.DisplayName, target.Username)
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return "", err
	}

	if err := s.repo.Approve(requestID, session.ID, decisionNote, target.ID, hash, now); err != nil {
		return "", err
	}

	s.auditor.Record(session.AuditActor(), audit.ActionApproveReset, "password_reset_requests", entityID, "target="+target.Username)
	return plaintext, nil
}

func (s *Service) ListPending(session *account.Session, limit int) ([]ResetRequest, error) {
	if !session.IsAdmin() {
		return nil, internal.ErrPermissionDenied
	}
	return s.repo.ListPending(limit)
}

func (s *Service) CountPending(session *account.Session) (int64, error) {
	if !session.IsAdmin() {
		return 0, internal.ErrPermissionDenied
	}
	return s.repo.CountPending()
}

package mental

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fahrizalm/staffdesk/internal"
	"github.com/fahrizalm/staffdesk/internal/account"
	"github.com/fahrizalm/staffdesk/internal/audit"
)

// Repository defines the data access methods for mental check-ins.
type Repository interface {
	// Upsert writes the (user, date) entry, overwriting an existing one.
	// The returned flag reports whether a new row was created.
	Upsert(checkin *Checkin) (created bool, err error)
	RecentByUser(userID int64, limit int) ([]*Checkin, error)
}

// AccountLookup resolves a username for the admin view. The account
// repository satisfies it.
type AccountLookup interface {
	GetByUsername(username string) (*account.Account, error)
}

type Service struct {
	repo     Repository
	accounts AccountLookup
	auditor  audit.Recorder
	logger   *slog.Logger
}

func NewService(repo Repository, accounts AccountLookup, auditor audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		auditor:  auditor,
		logger:   logger,
	}
}

// Upsert records today's check-in for the session owner. A second write on
// the same day overwrites score and comment; there is no "already recorded"
// error path.
func (s *Service) Upsert(session *account.Session, score int, comment string, now time.Time) (*Checkin, error) {
	checkin := &Checkin{
		UserID:    session.ID,
		CheckDate: internal.DateOnly(now),
		Score:     score,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if trimmed := strings.TrimSpace(comment); trimmed != "" {
		checkin.Comment = &trimmed
	}

	created, err := s.repo.Upsert(checkin)
	if err != nil {
		s.logger.Error("failed to store mental check-in", "error", err, "account_id", session.ID)
		return nil, err
	}

	action := audit.ActionUpdateMental
	if created {
		action = audit.ActionCreateMental
	}
	s.auditor.Record(session.AuditActor(), action, "mental_checkins",
		entityID(session.ID, checkin.CheckDate), "")

	s.logger.Info("mental check-in stored", "account_id", session.ID, "created", created)
	return checkin, nil
}

// RecentForAccount lists check-ins for the named account. Everyone may view
// their own history; viewing another account's requires ADMIN.
func (s *Service) RecentForAccount(session *account.Session, username string, limit int) ([]*Checkin, error) {
	target, err := s.accounts.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if target.ID != session.ID && !session.IsAdmin() {
		s.logger.Warn("mental view denied", "actor_id", session.ID, "target_id", target.ID)
		return nil, internal.ErrPermissionDenied
	}

	if limit <= 0 || limit > 100 {
		limit = 30
	}
	return s.repo.RecentByUser(target.ID, limit)
}

func entityID(userID int64, checkDate time.Time) string {
	return fmt.Sprintf("%d:%s", userID, checkDate.Format("2006-01-02"))
}

package audit

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fahrizalm/staffdesk/internal"
)

// Repository is append-and-read only. There is deliberately no update or
// delete method.
type Repository interface {
	Create(entry *Entry) error
	Recent(limit int) ([]*Entry, error)
}

// Recorder is the write side consumed by the workflow services.
type Recorder interface {
	Record(actor *Actor, action, entityType, entityID, detail string)
	RecordSystem(action, entityType, entityID, detail string)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record appends one ledger entry. A failed write is logged and swallowed:
// losing an audit entry is preferred over failing or rolling back the
// primary operation, so audit completeness is best-effort.
func (s *Service) Record(actor *Actor, action, entityType, entityID, detail string) {
	entry := &Entry{
		EventID:    uuid.NewString(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		CreatedAt:  time.Now(),
	}
	if actor != nil {
		id := actor.ID
		entry.ActorID = &id
		entry.ActorUsername = actor.Username
		entry.ActorRole = actor.Role
	} else {
		entry.ActorUsername = SystemActorName
		entry.ActorRole = SystemActorName
	}

	if err := s.repo.Create(entry); err != nil {
		s.logger.Warn("audit write failed, entry dropped",
			"action", action,
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err)
	}
}

// RecordSystem appends an entry for an action with no authenticated actor.
func (s *Service) RecordSystem(action, entityType, entityID, detail string) {
	s.Record(nil, action, entityType, entityID, detail)
}

// Recent returns the latest entries, newest first. Admin only.
func (s *Service) Recent(viewer *Actor, limit int) ([]*Entry, error) {
	if !viewer.IsAdmin() {
		s.logger.Warn("audit view denied: not an admin", "actor_id", viewerID(viewer))
		return nil, internal.ErrPermissionDenied
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	entries, err := s.repo.Recent(limit)
	if err != nil {
		s.logger.Error("failed to load audit entries", "error", err)
		return nil, err
	}
	return entries, nil
}

func viewerID(a *Actor) int64 {
	if a == nil {
		return 0
	}
	return a.ID
}

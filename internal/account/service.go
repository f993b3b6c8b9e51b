package account

import (
	"fmt"
	"log/slog"

	"github.com/fahrizalm/staffdesk/internal"
	"github.com/fahrizalm/staffdesk/internal/audit"
	"github.com/fahrizalm/staffdesk/internal/credential"
)

// Repository defines the data access methods for accounts.
type Repository interface {
	Create(account *Account) error
	GetByID(id int64) (*Account, error)
	GetByUsername(username string) (*Account, error)
	List() ([]*Account, error)
	UpdatePasswordHash(id int64, hash string) error
	SetEnabled(id int64, enabled bool) error
	Delete(id int64) error
	CountByRole(role Role) (int64, error)
	// HasHistory reports whether any of the six history tables still
	// references the account.
	HasHistory(id int64) (bool, error)
}

// Service is the identity and credential gate plus the account lifecycle.
type Service struct {
	repo    Repository
	hasher  credential.Hasher
	auditor audit.Recorder
	logger  *slog.Logger
}

func NewService(repo Repository, hasher credential.Hasher, auditor audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		hasher:  hasher,
		auditor: auditor,
		logger:  logger,
	}
}

// Authenticate verifies the credential and returns a session. The three
// failure modes carry distinct sentinels for logging; the presentation
// boundary reports all of them identically as a failed login.
func (s *Service) Authenticate(username, password string) (*Session, error) {
	acc, err := s.repo.GetByUsername(username)
	if err != nil {
		s.logger.Warn("login failed: unknown username", "username", username)
		return nil, internal.ErrAccountNotFound
	}

	if !acc.Enabled {
		s.logger.Warn("login failed: account disabled", "account_id", acc.ID)
		return nil, internal.ErrAccountDisabled
	}

	if !s.hasher.Verify(password, acc.PasswordHash) {
		s.logger.Warn("login failed: credential mismatch", "account_id", acc.ID)
		return nil, internal.ErrBadCredential
	}

	session := NewSession(acc)
	s.auditor.Record(session.AuditActor(), audit.ActionLogin, "users", fmt.Sprint(acc.ID), "username="+acc.Username)

	s.logger.Info("login succeeded", "account_id", acc.ID, "role", acc.Role)
	return session, nil
}

// VerifyOwnPassword re-checks the session owner's password against the
// stored hash. Sensitive actions call this freshly instead of trusting the
// long-lived session.
func (s *Service) VerifyOwnPassword(session *Session, password string) (bool, error) {
	return s.VerifyPassword(session.ID, password)
}

// VerifyPassword implements the credential verifier consumed by the message
// and password-reset services.
func (s *Service) VerifyPassword(accountID int64, password string) (bool, error) {
	acc, err := s.repo.GetByID(accountID)
	if err != nil {
		return false, err
	}
	return s.hasher.Verify(password, acc.PasswordHash), nil
}

// RotatePassword changes the session owner's password after verifying the
// current one.
func (s *Service) RotatePassword(session *Session, currentPassword, newPassword string) error {
	if newPassword == "" {
		return internal.NewValidationError("new password is required", internal.ErrCodeValidationFailed)
	}

	acc, err := s.repo.GetByID(session.ID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(currentPassword, acc.PasswordHash) {
		s.logger.Warn("password rotation denied: current password mismatch", "account_id", session.ID)
		return internal.ErrBadCredential
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}
	if err := s.repo.UpdatePasswordHash(session.ID, hash); err != nil {
		s.logger.Error("failed to update password hash", "error", err, "account_id", session.ID)
		return err
	}

	s.auditor.Record(session.AuditActor(), audit.ActionChangePassword, "users", fmt.Sprint(session.ID), "")
	return nil
}

// Create adds an account with the deterministic initial credential
// (hash of the username). Admin only.
func (s *Service) Create(actor *Session, dto CreateAccountDTO) (*Account, error) {
	if !actor.IsAdmin() {
		s.logger.Warn("account creation denied: not an admin", "actor_id", actor.ID)
		return nil, internal.ErrPermissionDenied
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(credential.InitialPassword(dto.Username))
	if err != nil {
		return nil, internal.NewInternalError("failed to hash initial password", err)
	}

	acc := &Account{
		Username:     dto.Username,
		DisplayName:  dto.DisplayName,
		PasswordHash: hash,
		Role:         dto.Role,
		Enabled:      true,
	}
	if err := s.repo.Create(acc); err != nil {
		s.logger.Error("failed to create account", "error", err, "username", dto.Username)
		return nil, err
	}

	s.auditor.Record(actor.AuditActor(), audit.ActionCreateUser, "users", fmt.Sprint(acc.ID),
		fmt.Sprintf("username=%s, role=%s", acc.Username, acc.Role))

	s.logger.Info("account created", "account_id", acc.ID, "username", acc.Username, "role", acc.Role)
	return acc, nil
}

// SetEnabled soft-disables or re-enables an account. Admin only. Disabling
// the last enabled admin is not blocked; the admin invariant is enforced
// only at bootstrap.
func (s *Service) SetEnabled(actor *Session, targetID int64, enabled bool) error {
	if !actor.IsAdmin() {
		s.logger.Warn("enable/disable denied: not an admin", "actor_id", actor.ID)
		return internal.ErrPermissionDenied
	}

	if err := s.repo.SetEnabled(targetID, enabled); err != nil {
		return err
	}

	action := audit.ActionDisableUser
	if enabled {
		action = audit.ActionEnableUser
	}
	s.auditor.Record(actor.AuditActor(), action, "users", fmt.Sprint(targetID), "")

	s.logger.Info("account enabled flag changed", "account_id", targetID, "enabled", enabled)
	return nil
}

// HardDelete removes an account permanently. It is a safety gate, not a
// cascade: the delete is refused while any history table still references
// the account, and an actor can never delete itself.
func (s *Service) HardDelete(actor *Session, targetID int64) error {
	if !actor.IsAdmin() {
		s.logger.Warn("hard delete denied: not an admin", "actor_id", actor.ID)
		return internal.ErrPermissionDenied
	}
	if targetID == actor.ID {
		return internal.ErrSelfDeletion
	}

	hasHistory, err := s.repo.HasHistory(targetID)
	if err != nil {
		s.logger.Error("reference scan failed", "error", err, "account_id", targetID)
		return err
	}
	if hasHistory {
		s.logger.Warn("hard delete refused: history exists", "account_id", targetID)
		return internal.ErrHasHistory
	}

	if err := s.repo.Delete(targetID); err != nil {
		return err
	}

	s.auditor.Record(actor.AuditActor(), audit.ActionDeleteUser, "users", fmt.Sprint(targetID), "")
	s.logger.Info("account hard-deleted", "account_id", targetID)
	return nil
}

func (s *Service) GetByID(id int64) (*Account, error) {
	return s.repo.GetByID(id)
}

func (s *Service) List(actor *Session) ([]*Account, error) {
	if !actor.IsAdmin() {
		return nil, internal.ErrPermissionDenied
	}
	return s.repo.List()
}

// Bootstrap credentials for the very first admin, rotated on first use.
const (
	seedAdminUsername    = "1"
	seedAdminDisplayName = "Initial Admin"
)

// SeedInitialAdmin guarantees the bootstrap invariant that at least one
// admin exists. It runs at startup and is a no-op once any admin account is
// present.
func (s *Service) SeedInitialAdmin() error {
	count, err := s.repo.CountByRole(RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := s.hasher.Hash(credential.InitialPassword(seedAdminUsername))
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	admin := &Account{
		Username:     seedAdminUsername,
		DisplayName:  seedAdminDisplayName,
		PasswordHash: hash,
		Role:         RoleAdmin,
		Enabled:      true,
	}
	if err := s.repo.Create(admin); err != nil {
		return fmt.Errorf("failed to create seed admin: %w", err)
	}

	s.auditor.RecordSystem(audit.ActionSystemSeedAdmin, "users", fmt.Sprint(admin.ID),
		"Created initial admin: username="+seedAdminUsername)

	s.logger.Info("seeded initial admin", "account_id", admin.ID)
	return nil
}

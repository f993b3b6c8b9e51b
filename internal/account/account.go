package account

import (
	"strings"
	"time"

	"github.com/fahrizalm/staffdesk/internal/audit"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type Account struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"column:username;size:50;not null;uniqueIndex"`
	DisplayName  string    `json:"display_name,omitempty" gorm:"column:display_name;size:100"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;size:100;not null"`
	Role         Role      `json:"role" gorm:"column:role;size:20;not null"`
	Enabled      bool      `json:"enabled" gorm:"column:enabled;not null;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Account) TableName() string {
	return "users"
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Session is the authenticated identity handed back by Authenticate and
// passed explicitly into every subsequent workflow call. It is opaque to the
// other packages apart from the role check.
type Session struct {
	ID          int64
	Username    string
	DisplayName string
	Role        Role
}

func NewSession(a *Account) *Session {
	return &Session{
		ID:          a.ID,
		Username:    a.Username,
		DisplayName: a.DisplayName,
		Role:        a.Role,
	}
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// NameForPassword is the name the reset-credential derivation uses: the
// display name when present, otherwise the username.
func (s *Session) NameForPassword() string {
	if strings.TrimSpace(s.DisplayName) != "" {
		return s.DisplayName
	}
	return s.Username
}

// AuditActor snapshots the session for the audit ledger.
func (s *Session) AuditActor() *audit.Actor {
	if s == nil {
		return nil
	}
	return &audit.Actor{ID: s.ID, Username: s.Username, Role: string(s.Role)}
}

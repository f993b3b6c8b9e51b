package audit

import (
	"time"
)

// Action codes recorded in the ledger. One state-changing operation emits
// exactly one of these.
const (
	ActionSystemSeedAdmin = "SYSTEM_SEED_ADMIN"
	ActionLogin           = "LOGIN"
	ActionClockIn         = "CLOCK_IN"
	ActionClockOut        = "CLOCK_OUT"
	ActionCreateUser      = "CREATE_USER"
	ActionDisableUser     = "DISABLE_USER"
	ActionEnableUser      = "ENABLE_USER"
	ActionDeleteUser      = "DELETE_USER"
	ActionCreateRequest   = "CREATE_REQUEST"
	ActionApproveRequest  = "APPROVE_REQUEST"
	ActionRejectRequest   = "REJECT_REQUEST"
	ActionSendMessage     = "SEND_MESSAGE"
	ActionReadMessage     = "READ_MESSAGE"
	ActionCreateMental    = "CREATE_MENTAL"
	ActionUpdateMental    = "UPDATE_MENTAL"
	ActionRequestReset    = "REQUEST_PASSWORD_RESET"
	ActionApproveReset    = "APPROVE_PASSWORD_RESET"
	ActionRejectReset     = "REJECT_PASSWORD_RESET"
	ActionChangePassword  = "CHANGE_PASSWORD"
)

// SystemActorName is recorded when an action happens without an
// authenticated session (bootstrap seeding, pre-login reset requests).
const SystemActorName = "SYSTEM"

// Actor is a point-in-time snapshot of the identity performing an action.
// It is copied into each entry rather than referenced, so later account
// changes or deletion never rewrite history.
type Actor struct {
	ID       int64
	Username string
	Role     string
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == "ADMIN"
}

// Entry is a single append-only ledger row. Entries are never updated or
// deleted; the repository exposes no mutation beyond Create.
type Entry struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	EventID       string    `json:"event_id" gorm:"column:event_id;size:36;uniqueIndex"`
	ActorID       *int64    `json:"actor_id,omitempty" gorm:"column:actor_id;index"`
	ActorUsername string    `json:"actor_username" gorm:"column:actor_username;size:50"`
	ActorRole     string    `json:"actor_role" gorm:"column:actor_role;size:20"`
	Action        string    `json:"action" gorm:"column:action;size:100;not null;index"`
	EntityType    string    `json:"entity_type" gorm:"column:entity_type;size:100"`
	EntityID      string    `json:"entity_id" gorm:"column:entity_id;size:100"`
	Detail        string    `json:"detail,omitempty" gorm:"column:detail;size:2000"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Entry) TableName() string {
	return "audit_logs"
}

package account

import (
	"strings"

	"github.com/fahrizalm/staffdesk/internal"
)

type CreateAccountDTO struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Role        Role   `json:"role"`
}

func (d *CreateAccountDTO) Validate() error {
	username := strings.TrimSpace(d.Username)
	if username == "" {
		return internal.NewValidationError("username is required", internal.ErrCodeValidationFailed)
	}
	if len(username) > 50 {
		return internal.NewValidationError("username must be at most 50 characters", internal.ErrCodeValidationFailed)
	}
	if len(d.DisplayName) > 100 {
		return internal.NewValidationError("display name must be at most 100 characters", internal.ErrCodeValidationFailed)
	}
	if !d.Role.Valid() {
		return internal.NewValidationError("role must be ADMIN or EMPLOYEE", internal.ErrCodeValidationFailed)
	}
	d.Username = username
	d.DisplayName = strings.TrimSpace(d.DisplayName)
	return nil
}

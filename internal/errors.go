package internal

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrorTypeAuth       ErrorType = "AUTH_ERROR"
	ErrorTypeConflict   ErrorType = "CONFLICT"
	ErrorTypeState      ErrorType = "STATE_ERROR"
	ErrorTypeIntegrity  ErrorType = "INTEGRITY_ERROR"
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	ErrorTypeInternal   ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeAccountNotFound  ErrorCode = "ACCOUNT_NOT_FOUND"
	ErrCodeAccountDisabled  ErrorCode = "ACCOUNT_DISABLED"
	ErrCodeBadCredential    ErrorCode = "BAD_CREDENTIAL"
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	ErrCodeAlreadyClockedIn  ErrorCode = "ALREADY_CLOCKED_IN"
	ErrCodeAlreadyClockedOut ErrorCode = "ALREADY_CLOCKED_OUT"
	ErrCodeNotClockedIn      ErrorCode = "NOT_CLOCKED_IN"

	ErrCodeCannotDecide    ErrorCode = "CANNOT_DECIDE"
	ErrCodeCannotMarkRead  ErrorCode = "CANNOT_MARK_READ"
	ErrCodeRequestNotFound ErrorCode = "REQUEST_NOT_FOUND"
	ErrCodeMessageNotFound ErrorCode = "MESSAGE_NOT_FOUND"

	ErrCodeHasHistory   ErrorCode = "HAS_HISTORY"
	ErrCodeSelfDeletion ErrorCode = "SELF_DELETION"

	ErrCodeResetAlreadyPending ErrorCode = "RESET_ALREADY_PENDING"
	ErrCodeUsernameTaken       ErrorCode = "USERNAME_TAKEN"

	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidDateRange ErrorCode = "INVALID_DATE_RANGE"
	ErrCodeInvalidMinutes   ErrorCode = "INVALID_MINUTES"
	ErrCodeInvalidShift     ErrorCode = "INVALID_SHIFT"
)

type AppError struct {
	Type    ErrorType `json:"type"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func NewAuthError(message string, code ErrorCode) *AppError {
	return &AppError{Type: ErrorTypeAuth, Code: code, Message: message}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{Type: ErrorTypeConflict, Code: code, Message: message}
}

func NewStateError(message string, code ErrorCode) *AppError {
	return &AppError{Type: ErrorTypeState, Code: code, Message: message}
}

func NewIntegrityError(message string, code ErrorCode) *AppError {
	return &AppError{Type: ErrorTypeIntegrity, Code: code, Message: message}
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{Type: ErrorTypeValidation, Code: code, Message: message}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Code: "INTERNAL_ERROR", Message: message, Cause: cause}
}

var (
	// Authentication failures are distinguished internally for logging but
	// share ErrorTypeAuth so the presentation boundary can collapse them
	// into a single "login failed".
	ErrAccountNotFound  = NewAuthError("account not found", ErrCodeAccountNotFound)
	ErrAccountDisabled  = NewAuthError("account is disabled", ErrCodeAccountDisabled)
	ErrBadCredential    = NewAuthError("credential mismatch", ErrCodeBadCredential)
	ErrPermissionDenied = NewAuthError("permission denied", ErrCodePermissionDenied)

	ErrAlreadyClockedIn  = NewConflictError("already clocked in today", ErrCodeAlreadyClockedIn)
	ErrAlreadyClockedOut = NewConflictError("already clocked out today", ErrCodeAlreadyClockedOut)
	ErrNotClockedIn      = NewConflictError("not clocked in today", ErrCodeNotClockedIn)

	// CannotDecide deliberately merges not-found, already-decided and
	// self-decision so callers cannot probe request state.
	ErrCannotDecide   = NewStateError("request is not updatable", ErrCodeCannotDecide)
	ErrCannotMarkRead = NewStateError("message is not updatable", ErrCodeCannotMarkRead)

	ErrRequestNotFound = NewStateError("request not found", ErrCodeRequestNotFound)
	ErrMessageNotFound = NewStateError("message not found", ErrCodeMessageNotFound)

	ErrHasHistory   = NewIntegrityError("account has historical references", ErrCodeHasHistory)
	ErrSelfDeletion = NewIntegrityError("cannot delete own account", ErrCodeSelfDeletion)

	ErrResetAlreadyPending = NewConflictError("a pending reset request already exists", ErrCodeResetAlreadyPending)
	ErrUsernameTaken       = NewConflictError("username already exists", ErrCodeUsernameTaken)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsAuthError reports whether err belongs to the authentication class that
// the presentation layer reports uniformly as "login failed".
func IsAuthError(err error) bool {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Type == ErrorTypeAuth
	}
	return false
}

// Package credential isolates password hashing and the deterministic
// default-credential scheme behind a small capability so a stronger scheme
// can be substituted without touching the workflow services.
package credential

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Hasher is the opaque hash/verify capability consumed by the workflow
// services. Verify must be constant-time with respect to the plaintext.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// InitialPassword is the plaintext assigned to a newly created account. It
// equals the username: a known weak default meant to be rotated on first
// login.
func InitialPassword(username string) string {
	return username
}

// ResetPassword derives the replacement plaintext handed to the approving
// admin after a password-reset approval: "pp" plus the display name, falling
// back to the username when no display name is set.
func ResetPassword(displayName, username string) string {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = username
	}
	return "pp" + name
}

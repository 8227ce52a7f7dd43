package identity

import (
	"time"

	"github.com/google/uuid"
)

// PasswordReset is a one-time token issued by the forgot-password flow.
// It references the user by email only, so it can outlive the account.
type PasswordReset struct {
	Email     string
	Token     string
	CreatedAt time.Time
}

// NewPasswordReset issues a fresh token for email
func NewPasswordReset(email string) *PasswordReset {
	return &PasswordReset{
		Email:     NormalizeEmail(email),
		Token:     uuid.NewString(),
		CreatedAt: time.Now(),
	}
}

// Expired reports whether the token is older than ttl at now
func (r *PasswordReset) Expired(ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(r.CreatedAt) > ttl
}

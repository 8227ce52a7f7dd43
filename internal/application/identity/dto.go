package identity

import (
	"time"

	"github.com/landmarket/backend/internal/domain/identity"
)

// RegisterInput contains the input for account registration
type RegisterInput struct {
	Email                string
	FirstName            string
	LastName             string
	Password             string
	PasswordConfirmation string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// SocialLoginInput carries the profile returned by a social provider
type SocialLoginInput struct {
	Provider  string
	Email     string
	FirstName string
	LastName  string
}

// ForgotPasswordInput contains the input for requesting a reset link
type ForgotPasswordInput struct {
	Email     string
	ClientURL string
}

// ResetPasswordInput contains the input for choosing a new password
type ResetPasswordInput struct {
	Token                string
	Password             string
	PasswordConfirmation string
}

// UpdateUserInput contains the editable account fields
type UpdateUserInput struct {
	FirstName string
	LastName  string
	Email     string
}

// AuthResult is returned by every flow that signs a user in
type AuthResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  *identity.User
}

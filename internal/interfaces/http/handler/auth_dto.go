package handler

import (
	"time"

	identityapp "github.com/landmarket/backend/internal/application/identity"
	"github.com/landmarket/backend/internal/domain/identity"
)

// RegisterRequest represents the request body for account registration
type RegisterRequest struct {
	Email                string `json:"email" binding:"required,email,max=255"`
	FirstName            string `json:"f_name" binding:"required,min=3,max=255"`
	LastName             string `json:"l_name" binding:"required,min=3,max=255"`
	Password             string `json:"password" binding:"required,min=6,max=255"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SocialLoginRequest carries the profile the client obtained from the provider
type SocialLoginRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"f_name" binding:"omitempty,max=255"`
	LastName  string `json:"l_name" binding:"omitempty,max=255"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ForgotPasswordRequest asks for a reset link
type ForgotPasswordRequest struct {
	Email     string `json:"email" binding:"required,email"`
	ClientURL string `json:"client_url" binding:"required,url"`
}

// ResetPasswordRequest chooses a new password with a reset token
type ResetPasswordRequest struct {
	Token                string `json:"token" binding:"required"`
	Password             string `json:"password" binding:"required,min=6,max=255"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
}

// UpdateUserRequest carries the editable account fields
type UpdateUserRequest struct {
	FirstName string `json:"f_name" binding:"required,min=3,max=255"`
	LastName  string `json:"l_name" binding:"required,min=3,max=255"`
	Email     string `json:"email" binding:"required,email,max=255"`
}

// TokenResponse represents the token data in auth responses
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID          uint64     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"f_name"`
	LastName    string     `json:"l_name"`
	Role        int        `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AuthResponse is returned by every endpoint that signs a user in
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

func toUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        int(u.Role),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func toUserResponses(users []*identity.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out
}

func toAuthResponse(r *identityapp.AuthResult) AuthResponse {
	return AuthResponse{
		Token: TokenResponse{
			AccessToken:           r.AccessToken,
			RefreshToken:          r.RefreshToken,
			AccessTokenExpiresAt:  r.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: r.RefreshTokenExpiresAt,
			TokenType:             r.TokenType,
		},
		User: toUserResponse(r.User),
	}
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	identityapp "github.com/landmarket/backend/internal/application/identity"
	"github.com/landmarket/backend/internal/interfaces/http/middleware"
)

// AuthService is the authentication use case set the handler drives
type AuthService interface {
	Register(ctx context.Context, input identityapp.RegisterInput) (*identityapp.AuthResult, error)
	Login(ctx context.Context, input identityapp.LoginInput) (*identityapp.AuthResult, error)
	SocialLogin(ctx context.Context, input identityapp.SocialLoginInput) (*identityapp.AuthResult, error)
	Logout(ctx context.Context, accessToken string) error
	Refresh(ctx context.Context, refreshToken string) (*identityapp.AuthResult, error)
	ForgotPassword(ctx context.Context, input identityapp.ForgotPasswordInput) error
	ResetPassword(ctx context.Context, input identityapp.ResetPasswordInput) (*identityapp.AuthResult, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an account and signs it in
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), identityapp.RegisterInput{
		Email:                req.Email,
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toAuthResponse(result))
}

// Login authenticates with email and password
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAuthResponse(result))
}

// SocialLogin signs in with a google or facebook profile
func (h *AuthHandler) SocialLogin(c *gin.Context) {
	var req SocialLoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.SocialLogin(c.Request.Context(), identityapp.SocialLoginInput{
		Provider:  c.Param("provider"),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAuthResponse(result))
}

// Logout revokes the bearer token of the request
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.GetAccessToken(c)
	if token == "" {
		h.Unauthorized(c, "Authentication required")
		return
	}
	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Logged out successfully"})
}

// Refresh rotates the token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAuthResponse(result))
}

// ForgotPassword mails a password reset link
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.authService.ForgotPassword(c.Request.Context(), identityapp.ForgotPasswordInput{
		Email:     req.Email,
		ClientURL: req.ClientURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Password reset link sent"})
}

// ResetPassword sets a new password and signs the user in
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.ResetPassword(c.Request.Context(), identityapp.ResetPasswordInput{
		Token:                req.Token,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAuthResponse(result))
}

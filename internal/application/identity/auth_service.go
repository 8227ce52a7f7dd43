// Package identity implements registration, login, password reset and
// account management.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/landmarket/backend/internal/domain/identity"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/landmarket/backend/internal/infrastructure/auth"
	"github.com/landmarket/backend/internal/infrastructure/mail"
	"go.uber.org/zap"
)

// Mailer delivers outgoing email
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

// SocialProviders lists the accepted social login providers
var SocialProviders = map[string]bool{"google": true, "facebook": true}

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	// ResetTokenTTL bounds the age of a usable password reset token
	ResetTokenTTL time.Duration
}

// DefaultAuthServiceConfig returns a 60 minute reset token lifetime
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{ResetTokenTTL: 60 * time.Minute}
}

// AuthService handles authentication operations
type AuthService struct {
	users     identity.UserRepository
	resets    identity.PasswordResetRepository
	tokens    *auth.JWTService
	blacklist auth.TokenBlacklist
	mailer    Mailer
	config    AuthServiceConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.UserRepository,
	resets identity.PasswordResetRepository,
	tokens *auth.JWTService,
	blacklist auth.TokenBlacklist,
	mailer Mailer,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:     users,
		resets:    resets,
		tokens:    tokens,
		blacklist: blacklist,
		mailer:    mailer,
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

// Register creates an account and signs it in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if input.Password != input.PasswordConfirmation {
		return nil, shared.Validation("password confirmation does not match")
	}
	user, err := identity.NewUser(input.Email, input.FirstName, input.LastName, input.Password)
	if err != nil {
		return nil, err
	}

	exists, err := s.users.CheckUserExists(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.AlreadyExists("user")
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.Uint64("user_id", user.ID))
	return s.signIn(user)
}

// Login checks credentials and returns a token pair
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email")
		}
		return nil, err
	}
	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.Uint64("user_id", user.ID))
		return nil, shared.ErrInvalidCredentials
	}

	user.RecordLogin()
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("Failed to record login", zap.Uint64("user_id", user.ID), zap.Error(err))
	}

	s.logger.Info("User logged in", zap.Uint64("user_id", user.ID))
	return s.signIn(user)
}

// SocialLogin signs in the account matching a provider profile, creating
// it on first use.
func (s *AuthService) SocialLogin(ctx context.Context, input SocialLoginInput) (*AuthResult, error) {
	if !SocialProviders[input.Provider] {
		return nil, shared.Validation("unsupported social provider " + input.Provider)
	}

	user, err := s.users.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
	case errors.Is(err, shared.ErrNotFound):
		user, err = identity.NewSocialUser(input.Email, input.FirstName, input.LastName)
		if err != nil {
			return nil, err
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info("User registered through social login",
			zap.Uint64("user_id", user.ID), zap.String("provider", input.Provider))
	default:
		return nil, err
	}
	return s.signIn(user)
}

// Logout revokes an access token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		return shared.ErrInvalidToken
	}
	if s.blacklist == nil {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return shared.Storage(err)
	}
	s.logger.Info("User logged out", zap.Uint64("user_id", claims.UserID))
	return nil
}

// Refresh rotates a token pair using a refresh token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Warn("Refresh token rejected", zap.Error(err))
		return nil, shared.ErrInvalidToken
	}
	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			return nil, shared.Storage(err)
		}
		if revoked {
			return nil, shared.ErrInvalidToken
		}
	}

	user, err := s.users.FindByPk(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	pair, err := s.tokens.RotateTokenPair(claims, tokenInput(user))
	if err != nil {
		s.logger.Warn("Token rotation failed", zap.Uint64("user_id", user.ID), zap.Error(err))
		return nil, shared.ErrInvalidToken
	}
	if s.blacklist != nil {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Warn("Failed to revoke used refresh token", zap.Error(err))
		}
	}
	return result(pair, user), nil
}

// ForgotPassword stores a reset token for the account and mails the link
func (s *AuthService) ForgotPassword(ctx context.Context, input ForgotPasswordInput) error {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return err
	}

	reset := identity.NewPasswordReset(user.Email)
	msg, err := mail.PasswordResetMessage(user.Email, input.ClientURL, reset.Token)
	if err != nil {
		return shared.Validation(err.Error())
	}
	if err := s.resets.Save(ctx, reset); err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("Failed to send password reset email", zap.Uint64("user_id", user.ID), zap.Error(err))
		return shared.Storage(err)
	}

	s.logger.Info("Password reset requested", zap.Uint64("user_id", user.ID))
	return nil
}

// ResetPassword sets a new password using a reset token and signs the user in
func (s *AuthService) ResetPassword(ctx context.Context, input ResetPasswordInput) (*AuthResult, error) {
	if input.Password != input.PasswordConfirmation {
		return nil, shared.Validation("password confirmation does not match")
	}

	reset, err := s.resets.FindByToken(ctx, input.Token)
	if err != nil {
		return nil, err
	}
	if reset.Expired(s.config.ResetTokenTTL, s.now()) {
		if err := s.resets.DeleteByEmail(ctx, reset.Email); err != nil {
			s.logger.Warn("Failed to drop expired reset token", zap.Error(err))
		}
		return nil, shared.NotFound("reset token")
	}

	user, err := s.users.FindByEmail(ctx, reset.Email)
	if err != nil {
		return nil, err
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := s.resets.DeleteByEmail(ctx, reset.Email); err != nil {
		return nil, err
	}
	s.logger.Info("Password reset", zap.Uint64("user_id", user.ID))
	return s.signIn(user)
}

func (s *AuthService) signIn(user *identity.User) (*AuthResult, error) {
	pair, err := s.tokens.GenerateTokenPair(tokenInput(user))
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}
	return result(pair, user), nil
}

func tokenInput(user *identity.User) auth.GenerateTokenInput {
	return auth.GenerateTokenInput{UserID: user.ID, Email: user.Email, Role: int(user.Role)}
}

func result(pair *auth.TokenPair, user *identity.User) *AuthResult {
	return &AuthResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  user,
	}
}

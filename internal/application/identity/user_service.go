package identity

import (
	"context"
	"time"

	"github.com/landmarket/backend/internal/domain/identity"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/landmarket/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// SellerRemover deletes the seller profile of a user with its listings and files
type SellerRemover interface {
	DeleteForUser(ctx context.Context, userID uint64) error
}

// UserService handles account profile operations
type UserService struct {
	users     identity.UserRepository
	sellers   SellerRemover
	blacklist auth.TokenBlacklist
	revokeTTL time.Duration
	logger    *zap.Logger
}

// NewUserService creates a new user service. sellers and blacklist may be nil.
// revokeTTL is how long a deleted account's tokens stay revoked and should
// match the refresh token lifetime.
func NewUserService(
	users identity.UserRepository,
	sellers SellerRemover,
	blacklist auth.TokenBlacklist,
	revokeTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, sellers: sellers, blacklist: blacklist, revokeTTL: revokeTTL, logger: logger}
}

// Profile returns the account of the caller
func (s *UserService) Profile(ctx context.Context, actor identity.Actor) (*identity.User, error) {
	return s.users.FindByPk(ctx, actor.UserID)
}

// View returns an account by id
func (s *UserService) View(ctx context.Context, id uint64) (*identity.User, error) {
	return s.users.FindByPk(ctx, id)
}

// Update changes names and email. Only the account itself or an admin may do so.
func (s *UserService) Update(ctx context.Context, actor identity.Actor, id uint64, input UpdateUserInput) (*identity.User, error) {
	if !actor.CanManage(id) {
		return nil, shared.ErrForbidden
	}
	user, err := s.users.FindByPk(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != "" && identity.NormalizeEmail(input.Email) != user.Email {
		taken, err := s.users.CheckUserExists(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.AlreadyExists("user")
		}
		if err := user.SetEmail(input.Email); err != nil {
			return nil, err
		}
	}
	if err := user.SetName(input.FirstName, input.LastName); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User updated", zap.Uint64("user_id", id), zap.Uint64("by", actor.UserID))
	return user, nil
}

// Delete removes an account with its seller profile, listings and files.
// Tokens issued to the account stop working.
func (s *UserService) Delete(ctx context.Context, actor identity.Actor, id uint64) error {
	if !actor.CanManage(id) {
		return shared.ErrForbidden
	}
	if _, err := s.users.FindByPk(ctx, id); err != nil {
		return err
	}
	if s.sellers != nil {
		if err := s.sellers.DeleteForUser(ctx, id); err != nil {
			return err
		}
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if s.blacklist != nil {
		if err := s.blacklist.AddUserTokensToBlacklist(ctx, id, s.revokeTTL); err != nil {
			s.logger.Warn("Failed to revoke tokens of deleted user", zap.Uint64("user_id", id), zap.Error(err))
		}
	}

	s.logger.Info("User deleted", zap.Uint64("user_id", id), zap.Uint64("by", actor.UserID))
	return nil
}

package identity

import (
	"context"
	"strings"
	"time"

	"github.com/landmarket/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByPk finds a user by id; NOT_FOUND when absent
	FindByPk(ctx context.Context, id uint64) (*User, error)

	// FindByEmail finds a user by email, case-insensitive; NOT_FOUND when absent
	FindByEmail(ctx context.Context, email string) (*User, error)

	// CheckUserExists reports whether an account uses email
	CheckUserExists(ctx context.Context, email string) (bool, error)

	// IsAdmin reports whether the user exists and has the admin role
	IsAdmin(ctx context.Context, id uint64) (bool, error)

	// Create inserts a new user
	Create(ctx context.Context, user *User) error

	// Update saves an existing user
	Update(ctx context.Context, user *User) error

	// Delete removes a user and the seller it owns
	Delete(ctx context.Context, id uint64) error
}

// SellerRepository defines the interface for seller persistence
type SellerRepository interface {
	FindByPk(ctx context.Context, id uint64) (*Seller, error)
	FindBySlug(ctx context.Context, slug string) (*Seller, error)
	FindByUserID(ctx context.Context, userID uint64) (*Seller, error)

	// ExistsByEmail reports whether another seller (id != excludeID) uses email
	ExistsByEmail(ctx context.Context, email string, excludeID uint64) (bool, error)
	SlugExists(ctx context.Context, slug string) (bool, error)

	// Create inserts a seller; ALREADY_EXISTS on a duplicate email or user
	Create(ctx context.Context, seller *Seller) error
	Update(ctx context.Context, seller *Seller) error
	Delete(ctx context.Context, id uint64) error
}

// AdminRepository lists and filters users for administrators
type AdminRepository interface {
	GetAllUsers(ctx context.Context, page shared.Page) (shared.Paginated[*User], error)
	FindUsers(ctx context.Context, filters UserFilters, page shared.Page) (shared.Paginated[*User], error)
	// FindUsersByIDs returns the given users ordered by id; all users when ids is empty
	FindUsersByIDs(ctx context.Context, ids []uint64) ([]*User, error)
}

// PasswordResetRepository stores forgot-password tokens
type PasswordResetRepository interface {
	// Save stores r, replacing earlier tokens for the same email
	Save(ctx context.Context, r *PasswordReset) error
	// FindByToken returns the reset row; NOT_FOUND when absent
	FindByToken(ctx context.Context, token string) (*PasswordReset, error)
	DeleteByEmail(ctx context.Context, email string) error
	// DeleteCreatedBefore purges tokens issued before t
	DeleteCreatedBefore(ctx context.Context, t time.Time) (int64, error)
}

// UserFilterKeys are the allow-listed user search keys
var UserFilterKeys = []string{"name", "email", "role"}

// UserFilters is a raw user search bag
type UserFilters map[string]string

// Project keeps allow-listed, non-blank keys. Unknown keys are dropped.
func (f UserFilters) Project() UserFilters {
	out := UserFilters{}
	for _, k := range UserFilterKeys {
		if v, ok := f[k]; ok && strings.TrimSpace(v) != "" {
			out[k] = strings.TrimSpace(v)
		}
	}
	return out
}

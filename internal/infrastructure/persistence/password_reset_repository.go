package persistence

import (
	"context"
	"time"

	"github.com/landmarket/backend/internal/domain/identity"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/landmarket/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPasswordResetRepository stores forgot-password tokens
type GormPasswordResetRepository struct {
	db *gorm.DB
}

// NewGormPasswordResetRepository creates a new GormPasswordResetRepository
func NewGormPasswordResetRepository(db *gorm.DB) *GormPasswordResetRepository {
	return &GormPasswordResetRepository{db: db}
}

// Save stores r, dropping earlier tokens issued for the same email
func (r *GormPasswordResetRepository) Save(ctx context.Context, reset *identity.PasswordReset) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", reset.Email).Delete(&models.PasswordResetModel{}).Error; err != nil {
			return shared.Storage(err)
		}
		if err := tx.Create(models.PasswordResetModelFromDomain(reset)).Error; err != nil {
			return shared.Storage(err)
		}
		return nil
	})
}

// FindByToken returns the reset row for token
func (r *GormPasswordResetRepository) FindByToken(ctx context.Context, token string) (*identity.PasswordReset, error) {
	if token == "" {
		return nil, shared.NotFound("password reset token")
	}
	var model models.PasswordResetModel
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&model).Error; err != nil {
		return nil, lookupErr(err, "password reset token")
	}
	return model.ToDomain(), nil
}

// DeleteByEmail removes every token issued for email
func (r *GormPasswordResetRepository) DeleteByEmail(ctx context.Context, email string) error {
	if err := r.db.WithContext(ctx).
		Where("email = ?", identity.NormalizeEmail(email)).
		Delete(&models.PasswordResetModel{}).Error; err != nil {
		return shared.Storage(err)
	}
	return nil
}

// DeleteCreatedBefore purges tokens issued before t and reports how many were removed
func (r *GormPasswordResetRepository) DeleteCreatedBefore(ctx context.Context, t time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", t).Delete(&models.PasswordResetModel{})
	if result.Error != nil {
		return 0, shared.Storage(result.Error)
	}
	return result.RowsAffected, nil
}

var _ identity.PasswordResetRepository = (*GormPasswordResetRepository)(nil)

package persistence

import (
	"context"

	"github.com/landmarket/backend/internal/domain/identity"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/landmarket/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSellerRepository implements SellerRepository using GORM
type GormSellerRepository struct {
	db *gorm.DB
}

// NewGormSellerRepository creates a new GormSellerRepository
func NewGormSellerRepository(db *gorm.DB) *GormSellerRepository {
	return &GormSellerRepository{db: db}
}

// FindByPk finds a seller with its logo by ID
func (r *GormSellerRepository) FindByPk(ctx context.Context, id uint64) (*identity.Seller, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindBySlug finds a seller with its logo by slug
func (r *GormSellerRepository) FindBySlug(ctx context.Context, slug string) (*identity.Seller, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

// FindByUserID finds the seller owned by a user
func (r *GormSellerRepository) FindByUserID(ctx context.Context, userID uint64) (*identity.Seller, error) {
	return r.findOne(ctx, "user_id = ?", userID)
}

func (r *GormSellerRepository) findOne(ctx context.Context, query string, arg any) (*identity.Seller, error) {
	var model models.SellerModel
	if err := r.db.WithContext(ctx).
		Preload("Logo").
		Where(query, arg).
		First(&model).Error; err != nil {
		return nil, lookupErr(err, "seller")
	}
	return model.ToDomain(), nil
}

// ExistsByEmail reports whether a seller other than excludeID uses email
func (r *GormSellerRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.SellerModel{}).
		Where("LOWER(email) = ?", identity.NormalizeEmail(email))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, shared.Storage(err)
	}
	return count > 0, nil
}

// SlugExists reports whether slug is taken
func (r *GormSellerRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SellerModel{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, shared.Storage(err)
	}
	return count > 0, nil
}

// Create inserts a seller and assigns its ID
func (r *GormSellerRepository) Create(ctx context.Context, seller *identity.Seller) error {
	model := models.SellerModelFromDomain(seller)
	if err := r.db.WithContext(ctx).Omit("Logo").Create(model).Error; err != nil {
		return writeErr(err, "seller")
	}
	seller.ID = model.ID
	return nil
}

// Update saves an existing seller
func (r *GormSellerRepository) Update(ctx context.Context, seller *identity.Seller) error {
	result := updateRow(r.db.WithContext(ctx), models.SellerModelFromDomain(seller))
	if result.Error != nil {
		return writeErr(result.Error, "seller")
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("seller")
	}
	return nil
}

// Delete removes a seller and its logo row
func (r *GormSellerRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entity_type = ? AND entity_id = ?", shared.EntitySeller, id).
			Delete(&models.ImageModel{}).Error; err != nil {
			return shared.Storage(err)
		}
		result := tx.Delete(&models.SellerModel{}, "id = ?", id)
		if result.Error != nil {
			return shared.Storage(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.NotFound("seller")
		}
		return nil
	})
}

var _ identity.SellerRepository = (*GormSellerRepository)(nil)

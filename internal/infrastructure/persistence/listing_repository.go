package persistence

import (
	"context"

	"github.com/landmarket/backend/internal/domain/listing"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/landmarket/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// PathFunc turns a storage key into the path clients fetch it from
type PathFunc func(key string) string

// GormListingRepository implements listing.Repository using GORM
type GormListingRepository struct {
	db    *gorm.DB
	paths PathFunc
}

// NewGormListingRepository creates a new GormListingRepository.
// paths maps image keys to public paths; nil keeps the raw key.
func NewGormListingRepository(db *gorm.DB, paths PathFunc) *GormListingRepository {
	if paths == nil {
		paths = func(key string) string { return key }
	}
	return &GormListingRepository{db: db, paths: paths}
}

// FindBySlug finds a listing with its relations by slug
func (r *GormListingRepository) FindBySlug(ctx context.Context, slug string) (*listing.Listing, error) {
	return r.findOne(ctx, "listings.slug = ?", slug)
}

// FindByPk finds a listing with its relations by ID
func (r *GormListingRepository) FindByPk(ctx context.Context, id uint64) (*listing.Listing, error) {
	return r.findOne(ctx, "listings.id = ?", id)
}

func (r *GormListingRepository) findOne(ctx context.Context, query string, arg any) (*listing.Listing, error) {
	var model models.ListingModel
	if err := r.db.WithContext(ctx).
		Preload("Images", orderByID("images")).
		Preload("Geo.RoadAccess").
		Preload("Price").
		Preload("Seller.Logo").
		Where(query, arg).
		First(&model).Error; err != nil {
		return nil, lookupErr(err, "listing")
	}
	return model.ToDomain(), nil
}

// FindGeoByPk finds the geo row of a listing
func (r *GormListingRepository) FindGeoByPk(ctx context.Context, listingID uint64) (*listing.Geo, error) {
	var model models.ListingGeoModel
	if err := r.db.WithContext(ctx).
		Preload("RoadAccess").
		Where("listing_id = ?", listingID).
		First(&model).Error; err != nil {
		return nil, lookupErr(err, "listing geo")
	}
	return model.ToDomain(), nil
}

// GetImageNames returns the public path of every image of l, ordered by image id
func (r *GormListingRepository) GetImageNames(ctx context.Context, l *listing.Listing) ([]string, error) {
	var rows []models.ImageModel
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", shared.EntityListing, l.ID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, shared.Storage(err)
	}
	names := make([]string, len(rows))
	for i := range rows {
		img := rows[i].ToDomain()
		names[i] = r.paths(img.Key())
	}
	return names, nil
}

// FindSellerID resolves the seller owned by userID
func (r *GormListingRepository) FindSellerID(ctx context.Context, userID uint64) (uint64, error) {
	var ids []uint64
	if err := r.db.WithContext(ctx).
		Model(&models.SellerModel{}).
		Where("user_id = ?", userID).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return 0, shared.Storage(err)
	}
	if len(ids) == 0 {
		return 0, shared.ErrNoSeller
	}
	return ids[0], nil
}

// SlugExists reports whether a listing uses slug
func (r *GormListingRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ListingModel{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, shared.Storage(err)
	}
	return count > 0, nil
}

// FindIDsBySeller returns the listing ids of a seller in ascending order
func (r *GormListingRepository) FindIDsBySeller(ctx context.Context, sellerID uint64) ([]uint64, error) {
	var ids []uint64
	if err := r.db.WithContext(ctx).
		Model(&models.ListingModel{}).
		Where("seller_id = ?", sellerID).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, shared.Storage(err)
	}
	return ids, nil
}

// FindSlugsBySeller returns the slugs of every listing of a seller
func (r *GormListingRepository) FindSlugsBySeller(ctx context.Context, sellerID uint64) ([]string, error) {
	var slugs []string
	if err := r.db.WithContext(ctx).
		Model(&models.ListingModel{}).
		Where("seller_id = ?", sellerID).
		Order("id ASC").
		Pluck("slug", &slugs).Error; err != nil {
		return nil, shared.Storage(err)
	}
	return slugs, nil
}

// Save inserts or updates the listing, then its geo and price rows, in one transaction
func (r *GormListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.ListingModelFromDomain(l)
		if l.ID == 0 {
			if err := tx.Create(model).Error; err != nil {
				return writeErr(err, "listing")
			}
			l.ID = model.ID
		} else {
			result := updateRow(tx, model)
			if result.Error != nil {
				return writeErr(result.Error, "listing")
			}
			if result.RowsAffected == 0 {
				return shared.NotFound("listing")
			}
		}

		if l.Geo != nil {
			l.Geo.ListingID = l.ID
			geo := models.ListingGeoModelFromDomain(l.Geo)
			if err := saveChild(tx, geo, geo.ID == 0); err != nil {
				return err
			}
			l.Geo.ID = geo.ID
		}
		if l.Price != nil {
			l.Price.ListingID = l.ID
			price := models.ListingPriceModelFromDomain(l.Price)
			if err := saveChild(tx, price, price.ID == 0); err != nil {
				return err
			}
			l.Price.ID = price.ID
		}
		return nil
	})
}

func saveChild(tx *gorm.DB, model any, isNew bool) error {
	if isNew {
		if err := tx.Create(model).Error; err != nil {
			return writeErr(err, "listing detail")
		}
		return nil
	}
	if err := tx.Model(model).Select("*").Omit("id").Updates(model).Error; err != nil {
		return shared.Storage(err)
	}
	return nil
}

// Delete removes the listing with its geo, price, share, image and link rows.
// Stored files are the caller's concern.
func (r *GormListingRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner := shared.ListingOwner(id)
		steps := []func() error{
			func() error { return tx.Where("listing_id = ?", id).Delete(&models.FullsizePreviewModel{}).Error },
			func() error {
				return tx.Where("entity_type = ? AND entity_id = ?", owner.Type, owner.ID).Delete(&models.ImageModel{}).Error
			},
			func() error {
				return tx.Where("entity_type = ? AND entity_id = ?", owner.Type, owner.ID).Delete(&models.ShareModel{}).Error
			},
			func() error { return tx.Where("listing_id = ?", id).Delete(&models.ListingGeoModel{}).Error },
			func() error { return tx.Where("listing_id = ?", id).Delete(&models.ListingPriceModel{}).Error },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return shared.Storage(err)
			}
		}
		result := tx.Delete(&models.ListingModel{}, "id = ?", id)
		if result.Error != nil {
			return shared.Storage(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.NotFound("listing")
		}
		return nil
	})
}

var _ listing.Repository = (*GormListingRepository)(nil)

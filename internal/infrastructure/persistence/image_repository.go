package persistence

import (
	"context"
	"time"

	"github.com/landmarket/backend/internal/domain/media"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/landmarket/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormImageRepository implements media.ImageRepository using GORM.
// Pair writes run inside one transaction so a pair is never half stored.
type GormImageRepository struct {
	db *gorm.DB
}

// NewGormImageRepository creates a new GormImageRepository
func NewGormImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

// FindImage returns imageID if owner owns it
func (r *GormImageRepository) FindImage(ctx context.Context, owner shared.Owner, imageID uint64) (*media.Image, error) {
	var model models.ImageModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND entity_type = ? AND entity_id = ?", imageID, owner.Type, owner.ID).
		First(&model).Error; err != nil {
		return nil, lookupErr(err, "image")
	}
	img := model.ToDomain()
	return &img, nil
}

// FindByOwner returns every image of owner ordered by id
func (r *GormImageRepository) FindByOwner(ctx context.Context, owner shared.Owner) ([]media.Image, error) {
	var rows []models.ImageModel
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", owner.Type, owner.ID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, shared.Storage(err)
	}
	return models.ImagesToDomain(rows), nil
}

// FindPair returns the pair imageID belongs to, on either side
func (r *GormImageRepository) FindPair(ctx context.Context, imageID uint64) (*media.Pair, error) {
	var link models.FullsizePreviewModel
	if err := r.db.WithContext(ctx).
		Preload("Fullsize").
		Preload("Preview").
		Where("fullsize_id = ? OR preview_id = ?", imageID, imageID).
		First(&link).Error; err != nil {
		return nil, lookupErr(err, "image pair")
	}
	pair := link.ToDomain()
	return &pair, nil
}

// FindPairsByListing returns every pair of a listing ordered by link id
func (r *GormImageRepository) FindPairsByListing(ctx context.Context, listingID uint64) ([]media.Pair, error) {
	var links []models.FullsizePreviewModel
	if err := r.db.WithContext(ctx).
		Preload("Fullsize").
		Preload("Preview").
		Where("listing_id = ?", listingID).
		Order("id ASC").
		Find(&links).Error; err != nil {
		return nil, shared.Storage(err)
	}
	pairs := make([]media.Pair, len(links))
	for i := range links {
		pairs[i] = links[i].ToDomain()
	}
	return pairs, nil
}

// CreatePair stores both renditions and the link row
func (r *GormImageRepository) CreatePair(ctx context.Context, listingID uint64, fullsizeName, previewName string) (*media.Pair, error) {
	var pair *media.Pair
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		pair, err = createPair(tx, listingID, fullsizeName, previewName)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// ReplacePair stores a new pair and removes old in the same transaction
func (r *GormImageRepository) ReplacePair(ctx context.Context, old *media.Pair, fullsizeName, previewName string) (*media.Pair, error) {
	var pair *media.Pair
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if pair, err = createPair(tx, old.Link.ListingID, fullsizeName, previewName); err != nil {
			return err
		}
		return deletePair(tx, old)
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// DeletePair removes the link row and both images
func (r *GormImageRepository) DeletePair(ctx context.Context, pair *media.Pair) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deletePair(tx, pair)
	})
}

// Save inserts a standalone image and assigns its ID
func (r *GormImageRepository) Save(ctx context.Context, image *media.Image) error {
	model := models.ImageModelFromDomain(image)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return shared.Storage(err)
	}
	image.ID = model.ID
	return nil
}

// Delete removes a standalone image row
func (r *GormImageRepository) Delete(ctx context.Context, imageID uint64) error {
	result := r.db.WithContext(ctx).Delete(&models.ImageModel{}, "id = ?", imageID)
	if result.Error != nil {
		return shared.Storage(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("image")
	}
	return nil
}

func createPair(tx *gorm.DB, listingID uint64, fullsizeName, previewName string) (*media.Pair, error) {
	owner := shared.ListingOwner(listingID)
	now := time.Now()
	full := &models.ImageModel{
		EntityID:   owner.ID,
		EntityType: string(owner.Type),
		Name:       fullsizeName,
		Rendition:  string(media.RenditionFullsize),
		CreatedAt:  now,
	}
	preview := &models.ImageModel{
		EntityID:   owner.ID,
		EntityType: string(owner.Type),
		Name:       previewName,
		Rendition:  string(media.RenditionPreview),
		CreatedAt:  now,
	}
	if err := tx.Create(full).Error; err != nil {
		return nil, shared.Storage(err)
	}
	if err := tx.Create(preview).Error; err != nil {
		return nil, shared.Storage(err)
	}
	link := &models.FullsizePreviewModel{
		ListingID:  listingID,
		FullsizeID: full.ID,
		PreviewID:  preview.ID,
	}
	if err := tx.Omit("Fullsize", "Preview").Create(link).Error; err != nil {
		return nil, shared.Storage(err)
	}
	link.Fullsize, link.Preview = full, preview
	pair := link.ToDomain()
	return &pair, nil
}

func deletePair(tx *gorm.DB, pair *media.Pair) error {
	result := tx.Delete(&models.FullsizePreviewModel{}, "id = ?", pair.Link.ID)
	if result.Error != nil {
		return shared.Storage(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("image pair")
	}
	if err := tx.Where("id IN ?", []uint64{pair.Link.FullsizeID, pair.Link.PreviewID}).
		Delete(&models.ImageModel{}).Error; err != nil {
		return shared.Storage(err)
	}
	return nil
}

// GormShareRepository appends share records
type GormShareRepository struct {
	db *gorm.DB
}

// NewGormShareRepository creates a new GormShareRepository
func NewGormShareRepository(db *gorm.DB) *GormShareRepository {
	return &GormShareRepository{db: db}
}

// Create appends a share and assigns its ID
func (r *GormShareRepository) Create(ctx context.Context, share *media.Share) error {
	model := models.ShareModelFromDomain(share)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return shared.Storage(err)
	}
	share.ID = model.ID
	return nil
}

// CountByOwner counts the shares of owner
func (r *GormShareRepository) CountByOwner(ctx context.Context, owner shared.Owner) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ShareModel{}).
		Where("entity_type = ? AND entity_id = ?", owner.Type, owner.ID).
		Count(&count).Error; err != nil {
		return 0, shared.Storage(err)
	}
	return count, nil
}

var (
	_ media.ImageRepository = (*GormImageRepository)(nil)
	_ media.ShareRepository = (*GormShareRepository)(nil)
)

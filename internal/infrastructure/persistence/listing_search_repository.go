package persistence

import (
	"context"

	"github.com/landmarket/backend/internal/domain/listing"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/landmarket/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormListingSearchRepository builds filtered, paginated listing queries
type GormListingSearchRepository struct {
	db *gorm.DB
}

// NewGormListingSearchRepository creates a new GormListingSearchRepository
func NewGormListingSearchRepository(db *gorm.DB) *GormListingSearchRepository {
	return &GormListingSearchRepository{db: db}
}

// FindAll returns one page of listings with images, geo and price
func (r *GormListingSearchRepository) FindAll(ctx context.Context, page shared.Page) (shared.Paginated[*listing.Listing], error) {
	return r.paginate(ctx, r.db.WithContext(ctx).Model(&models.ListingModel{}), page, false)
}

// FindByParams returns one page of listings whose geo row matches every geo
// filter and whose price row matches every price filter. Each sub-entity is
// tested with a correlated EXISTS, and a sub-entity without filters is not
// required to exist.
func (r *GormListingSearchRepository) FindByParams(ctx context.Context, filters listing.Filters, page shared.Page) (shared.Paginated[*listing.Listing], error) {
	geo, price := filters.Project()

	query := r.db.WithContext(ctx).Model(&models.ListingModel{})
	if len(geo) > 0 {
		query = query.Where("EXISTS (?)", r.exists(models.ListingGeoModel{}.TableName(), geo))
	}
	if len(price) > 0 {
		query = query.Where("EXISTS (?)", r.exists(models.ListingPriceModel{}.TableName(), price))
	}
	return r.paginate(ctx, query, page, true)
}

// exists builds SELECT 1 FROM table WHERE table.listing_id = listings.id AND col = v ...
func (r *GormListingSearchRepository) exists(table string, conds []listing.Condition) *gorm.DB {
	sub := r.db.Session(&gorm.Session{NewDB: true}).
		Table(table).
		Select("1").
		Where(table + ".listing_id = listings.id")
	for _, c := range conds {
		sub = sub.Where(clause.Eq{
			Column: clause.Column{Table: table, Name: c.Column},
			Value:  c.Value,
		})
	}
	return sub
}

func (r *GormListingSearchRepository) paginate(ctx context.Context, query *gorm.DB, page shared.Page, withSeller bool) (shared.Paginated[*listing.Listing], error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[*listing.Listing]{}, shared.Storage(err)
	}
	if total == 0 || int64(page.Offset()) >= total {
		return shared.NewPaginated[*listing.Listing](nil, total, page), nil
	}

	query = query.
		Preload("Images", orderByID("images")).
		Preload("Geo.RoadAccess").
		Preload("Price")
	if withSeller {
		query = query.Preload("Seller").Preload("Seller.Logo")
	}

	var rows []models.ListingModel
	if err := query.
		Order("listings.id ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).Error; err != nil {
		return shared.Paginated[*listing.Listing]{}, shared.Storage(err)
	}

	items := make([]*listing.Listing, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return shared.NewPaginated(items, total, page), nil
}

func orderByID(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".id ASC")
	}
}

var _ listing.SearchRepository = (*GormListingSearchRepository)(nil)

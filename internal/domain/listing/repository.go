package listing

import (
	"context"

	"github.com/landmarket/backend/internal/domain/shared"
)

// SearchRepository builds paginated listing queries.
// Results are ordered by listing id ascending.
type SearchRepository interface {
	// FindAll returns every listing with images, geo and price loaded
	FindAll(ctx context.Context, page shared.Page) (shared.Paginated[*Listing], error)
	// FindByParams returns listings whose geo and price rows match every
	// allow-listed filter, with images, geo, price and seller logo loaded
	FindByParams(ctx context.Context, filters Filters, page shared.Page) (shared.Paginated[*Listing], error)
}

// Repository handles single listing lookups and writes.
// Every lookup reports a missing row as shared.ErrNotFound.
type Repository interface {
	FindBySlug(ctx context.Context, slug string) (*Listing, error)
	FindByPk(ctx context.Context, id uint64) (*Listing, error)
	FindGeoByPk(ctx context.Context, listingID uint64) (*Geo, error)
	// GetImageNames maps the listing's image names through the path builder
	GetImageNames(ctx context.Context, l *Listing) ([]string, error)
	// FindSellerID resolves the seller of a user, or shared.ErrNoSeller
	FindSellerID(ctx context.Context, userID uint64) (uint64, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	// FindIDsBySeller returns the ids of a seller's listings in ascending order
	FindIDsBySeller(ctx context.Context, sellerID uint64) ([]uint64, error)
	// Save inserts or updates the listing together with its geo and price
	Save(ctx context.Context, l *Listing) error
	// Delete removes the listing, its geo, price and share rows
	Delete(ctx context.Context, id uint64) error
}

package media

import (
	"context"

	"github.com/landmarket/backend/internal/domain/shared"
)

// ImageRepository persists images and their fullsize/preview links.
// Multi-row writes run in a single transaction.
type ImageRepository interface {
	// FindImage returns an image owned by owner, or NOT_FOUND
	FindImage(ctx context.Context, owner shared.Owner, imageID uint64) (*Image, error)
	// FindByOwner returns all images of an owner ordered by id
	FindByOwner(ctx context.Context, owner shared.Owner) ([]Image, error)
	// FindPair returns the pair that imageID belongs to, or NOT_FOUND
	FindPair(ctx context.Context, imageID uint64) (*Pair, error)
	// FindPairsByListing returns every pair of a listing ordered by link id
	FindPairsByListing(ctx context.Context, listingID uint64) ([]Pair, error)
	// CreatePair inserts both images and the link row
	CreatePair(ctx context.Context, listingID uint64, fullsizeName, previewName string) (*Pair, error)
	// ReplacePair inserts a new pair and removes the old one
	ReplacePair(ctx context.Context, old *Pair, fullsizeName, previewName string) (*Pair, error)
	// DeletePair removes the link row and both images
	DeletePair(ctx context.Context, pair *Pair) error
	// Save inserts a standalone image such as a seller logo
	Save(ctx context.Context, image *Image) error
	// Delete removes a standalone image row
	Delete(ctx context.Context, imageID uint64) error
}

// ShareRepository appends share records
type ShareRepository interface {
	Create(ctx context.Context, share *Share) error
	CountByOwner(ctx context.Context, owner shared.Owner) (int64, error)
}

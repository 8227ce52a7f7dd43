package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/landmarket/backend/internal/domain/identity"
	"github.com/landmarket/backend/internal/domain/listing"
	"github.com/landmarket/backend/internal/domain/shared"
)

// SellerListings resolves the listing slugs of a seller
type SellerListings interface {
	FindSlugsBySeller(ctx context.Context, sellerID uint64) ([]string, error)
}

// ListingInvalidator drops cached listings when they or their seller change
type ListingInvalidator struct {
	cache    ListingCache
	listings SellerListings
}

// NewListingInvalidator creates a bus handler for cache. Seller events are
// ignored when listings is nil.
func NewListingInvalidator(cache ListingCache, listings SellerListings) *ListingInvalidator {
	return &ListingInvalidator{cache: cache, listings: listings}
}

// Handle invalidates the slug carried by a listing event, or every listing
// of the seller behind a seller event
func (h *ListingInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *listing.Event:
		return h.cache.Invalidate(ctx, e.Slug)
	case *identity.SellerEvent:
		return h.invalidateSeller(ctx, e.AggregateID())
	}
	return fmt.Errorf("unexpected event %T for %s", event, event.EventType())
}

func (h *ListingInvalidator) invalidateSeller(ctx context.Context, sellerID uint64) error {
	if h.listings == nil {
		return nil
	}
	slugs, err := h.listings.FindSlugsBySeller(ctx, sellerID)
	if err != nil {
		return err
	}
	var errs []error
	for _, slug := range slugs {
		if err := h.cache.Invalidate(ctx, slug); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EventTypes returns the listing write events and the seller events that
// change the seller summary of a listing
func (h *ListingInvalidator) EventTypes() []string {
	return []string{
		listing.EventTypeListingUpdated,
		listing.EventTypeListingDeleted,
		identity.EventTypeSellerVerified,
		identity.EventTypeSellerUpdated,
	}
}

var _ shared.EventHandler = (*ListingInvalidator)(nil)

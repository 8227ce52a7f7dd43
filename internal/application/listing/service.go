// Package listing orchestrates listing search, writes, images and shares.
package listing

import (
	"context"
	"errors"
	"io"

	"github.com/landmarket/backend/internal/domain/identity"
	"github.com/landmarket/backend/internal/domain/listing"
	"github.com/landmarket/backend/internal/domain/media"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/landmarket/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Cache is a read-through cache of listings keyed by slug.
// Get returns nil, nil on a miss.
type Cache interface {
	Get(ctx context.Context, slug string) (*listing.Listing, error)
	Set(ctx context.Context, l *listing.Listing) error
}

// ImageManager manages the image pairs of listings
type ImageManager interface {
	Create(ctx context.Context, src io.Reader, listingID uint64) (*media.Pair, error)
	Update(ctx context.Context, imageID uint64, src io.Reader, listingID uint64) (*media.Pair, error)
	Delete(ctx context.Context, imageID uint64, listingID uint64) error
	DeleteAll(ctx context.Context, listingID uint64) error
}

// CacheRecorder observes cache lookups
type CacheRecorder interface {
	CacheLookup(hit bool)
}

// Service handles listing operations
type Service struct {
	search   listing.SearchRepository
	listings listing.Repository
	shares   media.ShareRepository
	images   ImageManager
	cache    Cache
	events   shared.EventPublisher
	recorder CacheRecorder
	logger   *zap.Logger
}

// NewService creates a new listing service. cache may be nil.
func NewService(
	search listing.SearchRepository,
	listings listing.Repository,
	shares media.ShareRepository,
	images ImageManager,
	cache Cache,
	events shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		search:   search,
		listings: listings,
		shares:   shares,
		images:   images,
		cache:    cache,
		events:   events,
		logger:   logger,
	}
}

// SetRecorder attaches a cache metrics recorder
func (s *Service) SetRecorder(r CacheRecorder) {
	s.recorder = r
}

// View returns a listing by slug, consulting the cache first
func (s *Service) View(ctx context.Context, slug string) (*listing.Listing, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, slug)
		if err != nil {
			s.logger.Warn("Listing cache read failed", zap.String("slug", slug), zap.Error(err))
		}
		s.observe(cached != nil)
		if cached != nil {
			return cached, nil
		}
	}

	l, err := s.listings.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, l); err != nil {
			s.logger.Warn("Listing cache write failed", zap.String("slug", slug), zap.Error(err))
		}
	}
	return l, nil
}

// Search returns the listings matching the allow-listed filters
func (s *Service) Search(ctx context.Context, filters listing.Filters, page shared.Page) (shared.Paginated[*listing.Listing], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "listing", "search")
	defer span.End()

	result, err := s.search.FindByParams(ctx, filters, page)
	if err != nil {
		telemetry.RecordError(span, err)
		return result, err
	}
	telemetry.SetAttributes(span, telemetry.AttrResultCount, len(result.Items))
	return result, nil
}

// All returns every listing, five per page
func (s *Service) All(ctx context.Context, page shared.Page) (shared.Paginated[*listing.Listing], error) {
	return s.search.FindAll(ctx, page)
}

// Create creates a listing for the seller of the calling user
func (s *Service) Create(ctx context.Context, actor identity.Actor, input ListingInput) (*listing.Listing, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "listing", "create", telemetry.AttrUserID, actor.UserID)
	defer span.End()

	sellerID, err := s.listings.FindSellerID(ctx, actor.UserID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	l, err := listing.NewListing(sellerID, input.Title, input.Description)
	if err != nil {
		return nil, err
	}
	if err := s.apply(l, input); err != nil {
		return nil, err
	}
	slug, err := shared.UniqueSlug(l.Title, func(candidate string) (bool, error) {
		return s.listings.SlugExists(ctx, candidate)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	l.Slug = slug

	if err := s.listings.Save(ctx, l); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Listing created",
		zap.Uint64("listing_id", l.ID),
		zap.Uint64("seller_id", sellerID),
		zap.String("slug", l.Slug),
	)
	s.publish(ctx, listing.NewEvent(listing.EventTypeListingCreated, l))
	return l, nil
}

// Update changes the details, geo and price of a listing. Only the owning
// seller or an admin may update it.
func (s *Service) Update(ctx context.Context, actor identity.Actor, id uint64, input ListingInput) (*listing.Listing, error) {
	l, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := l.SetDetails(input.Title, input.Description); err != nil {
		return nil, err
	}
	if err := s.apply(l, input); err != nil {
		return nil, err
	}
	if err := s.listings.Save(ctx, l); err != nil {
		return nil, err
	}

	s.logger.Info("Listing updated", zap.Uint64("listing_id", l.ID))
	s.publish(ctx, listing.NewEvent(listing.EventTypeListingUpdated, l))
	return l, nil
}

// Delete removes a listing with its images, geo, price and shares
func (s *Service) Delete(ctx context.Context, actor identity.Actor, id uint64) error {
	l, err := s.editable(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.remove(ctx, l)
}

// DeleteBySeller removes every listing of a seller
func (s *Service) DeleteBySeller(ctx context.Context, sellerID uint64) error {
	ids, err := s.listings.FindIDsBySeller(ctx, sellerID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		l, err := s.listings.FindByPk(ctx, id)
		if errors.Is(err, shared.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if err := s.remove(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

// AddImage stores a new image pair on a listing
func (s *Service) AddImage(ctx context.Context, actor identity.Actor, listingID uint64, src io.Reader) (*media.Pair, error) {
	l, err := s.editable(ctx, actor, listingID)
	if err != nil {
		return nil, err
	}
	pair, err := s.images.Create(ctx, src, l.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, listing.NewEvent(listing.EventTypeListingUpdated, l))
	return pair, nil
}

// ReplaceImage swaps the pair that imageID belongs to for a new upload
func (s *Service) ReplaceImage(ctx context.Context, actor identity.Actor, listingID, imageID uint64, src io.Reader) (*media.Pair, error) {
	l, err := s.editable(ctx, actor, listingID)
	if err != nil {
		return nil, err
	}
	pair, err := s.images.Update(ctx, imageID, src, l.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, listing.NewEvent(listing.EventTypeListingUpdated, l))
	return pair, nil
}

// RemoveImage deletes the pair that imageID belongs to
func (s *Service) RemoveImage(ctx context.Context, actor identity.Actor, listingID, imageID uint64) error {
	l, err := s.editable(ctx, actor, listingID)
	if err != nil {
		return err
	}
	if err := s.images.Delete(ctx, imageID, l.ID); err != nil {
		return err
	}
	s.publish(ctx, listing.NewEvent(listing.EventTypeListingUpdated, l))
	return nil
}

// ImageURLs returns the public paths of a listing's images
func (s *Service) ImageURLs(ctx context.Context, listingID uint64) ([]string, error) {
	l, err := s.listings.FindByPk(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return s.listings.GetImageNames(ctx, l)
}

// Geo returns the geo attributes of a listing
func (s *Service) Geo(ctx context.Context, listingID uint64) (*listing.Geo, error) {
	return s.listings.FindGeoByPk(ctx, listingID)
}

// Share records that a listing was shared on a network
func (s *Service) Share(ctx context.Context, listingID, networkID uint64) (*media.Share, error) {
	l, err := s.listings.FindByPk(ctx, listingID)
	if err != nil {
		return nil, err
	}
	share, err := media.NewShare(l.Owner(), networkID)
	if err != nil {
		return nil, err
	}
	if err := s.shares.Create(ctx, share); err != nil {
		return nil, err
	}
	return share, nil
}

// editable loads a listing and checks that actor may change it
func (s *Service) editable(ctx context.Context, actor identity.Actor, id uint64) (*listing.Listing, error) {
	l, err := s.listings.FindByPk(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return l, nil
	}
	sellerID, err := s.listings.FindSellerID(ctx, actor.UserID)
	if errors.Is(err, shared.ErrNoSeller) {
		return nil, shared.ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if !l.OwnedBy(sellerID) {
		return nil, shared.ErrForbidden
	}
	return l, nil
}

func (s *Service) remove(ctx context.Context, l *listing.Listing) error {
	if err := s.images.DeleteAll(ctx, l.ID); err != nil {
		return err
	}
	if err := s.listings.Delete(ctx, l.ID); err != nil {
		return err
	}
	s.logger.Info("Listing deleted", zap.Uint64("listing_id", l.ID), zap.String("slug", l.Slug))
	s.publish(ctx, listing.NewEvent(listing.EventTypeListingDeleted, l))
	return nil
}

func (s *Service) apply(l *listing.Listing, input ListingInput) error {
	if err := l.SetGeo(input.Geo.toDomain()); err != nil {
		return err
	}
	return l.SetPrice(input.Price)
}

func (s *Service) observe(hit bool) {
	if s.recorder != nil {
		s.recorder.CacheLookup(hit)
	}
}

// publish delivers an event; a failed publish is logged and never fails the write
func (s *Service) publish(ctx context.Context, event shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish listing event",
			zap.String("event_type", event.EventType()),
			zap.Uint64("listing_id", event.AggregateID()),
			zap.Error(err),
		)
	}
}

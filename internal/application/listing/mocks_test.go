package listing

import (
	"context"
	"io"
	"sync"

	"github.com/landmarket/backend/internal/domain/listing"
	"github.com/landmarket/backend/internal/domain/media"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockSearchRepository is a mock implementation of listing.SearchRepository
type MockSearchRepository struct {
	mock.Mock
}

func (m *MockSearchRepository) FindAll(ctx context.Context, page shared.Page) (shared.Paginated[*listing.Listing], error) {
	args := m.Called(ctx, page)
	return args.Get(0).(shared.Paginated[*listing.Listing]), args.Error(1)
}

func (m *MockSearchRepository) FindByParams(ctx context.Context, filters listing.Filters, page shared.Page) (shared.Paginated[*listing.Listing], error) {
	args := m.Called(ctx, filters, page)
	return args.Get(0).(shared.Paginated[*listing.Listing]), args.Error(1)
}

// MockListingRepository is a mock implementation of listing.Repository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) FindBySlug(ctx context.Context, slug string) (*listing.Listing, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingRepository) FindByPk(ctx context.Context, id uint64) (*listing.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingRepository) FindGeoByPk(ctx context.Context, listingID uint64) (*listing.Geo, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Geo), args.Error(1)
}

func (m *MockListingRepository) GetImageNames(ctx context.Context, l *listing.Listing) ([]string, error) {
	args := m.Called(ctx, l)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockListingRepository) FindSellerID(ctx context.Context, userID uint64) (uint64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockListingRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockListingRepository) FindIDsBySeller(ctx context.Context, sellerID uint64) ([]uint64, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

// MockShareRepository is a mock implementation of media.ShareRepository
type MockShareRepository struct {
	mock.Mock
}

func (m *MockShareRepository) Create(ctx context.Context, share *media.Share) error {
	return m.Called(ctx, share).Error(0)
}

func (m *MockShareRepository) CountByOwner(ctx context.Context, owner shared.Owner) (int64, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(int64), args.Error(1)
}

// MockImageManager is a mock implementation of ImageManager
type MockImageManager struct {
	mock.Mock
}

func (m *MockImageManager) Create(ctx context.Context, src io.Reader, listingID uint64) (*media.Pair, error) {
	args := m.Called(ctx, src, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.Pair), args.Error(1)
}

func (m *MockImageManager) Update(ctx context.Context, imageID uint64, src io.Reader, listingID uint64) (*media.Pair, error) {
	args := m.Called(ctx, imageID, src, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.Pair), args.Error(1)
}

func (m *MockImageManager) Delete(ctx context.Context, imageID uint64, listingID uint64) error {
	return m.Called(ctx, imageID, listingID).Error(0)
}

func (m *MockImageManager) DeleteAll(ctx context.Context, listingID uint64) error {
	return m.Called(ctx, listingID).Error(0)
}

// mapCache is a Cache backed by a map
type mapCache struct {
	items map[string]*listing.Listing
}

func (c *mapCache) Get(_ context.Context, slug string) (*listing.Listing, error) {
	return c.items[slug], nil
}

func (c *mapCache) Set(_ context.Context, l *listing.Listing) error {
	c.items[l.Slug] = l
	return nil
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type countingRecorder struct {
	hits, misses int
}

func (r *countingRecorder) CacheLookup(hit bool) {
	if hit {
		r.hits++
		return
	}
	r.misses++
}

package seller

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/landmarket/backend/internal/domain/identity"
	"github.com/landmarket/backend/internal/domain/media"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockSellerRepository struct {
	mock.Mock
}

func (m *MockSellerRepository) seller(args mock.Arguments) (*identity.Seller, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Seller), args.Error(1)
}

func (m *MockSellerRepository) FindByPk(ctx context.Context, id uint64) (*identity.Seller, error) {
	return m.seller(m.Called(ctx, id))
}

func (m *MockSellerRepository) FindBySlug(ctx context.Context, slug string) (*identity.Seller, error) {
	return m.seller(m.Called(ctx, slug))
}

func (m *MockSellerRepository) FindByUserID(ctx context.Context, userID uint64) (*identity.Seller, error) {
	return m.seller(m.Called(ctx, userID))
}

func (m *MockSellerRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint64) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSellerRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockSellerRepository) Create(ctx context.Context, s *identity.Seller) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSellerRepository) Update(ctx context.Context, s *identity.Seller) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSellerRepository) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type MockListingRemover struct {
	mock.Mock
}

func (m *MockListingRemover) DeleteBySeller(ctx context.Context, sellerID uint64) error {
	return m.Called(ctx, sellerID).Error(0)
}

type MockLogoManager struct {
	mock.Mock
}

func (m *MockLogoManager) SetLogo(ctx context.Context, src io.Reader, sellerID uint64) (*media.Image, error) {
	args := m.Called(ctx, src, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.Image), args.Error(1)
}

func (m *MockLogoManager) DeleteLogos(ctx context.Context, sellerID uint64) error {
	return m.Called(ctx, sellerID).Error(0)
}

var (
	owner = identity.Actor{UserID: 1}
	other = identity.Actor{UserID: 2}
	admin = identity.Actor{UserID: 3, Role: identity.RoleAdmin}
)

func profile() identity.SellerProfile {
	return identity.SellerProfile{
		Company:     "Hill Country Land",
		Email:       "sales@hillcountry.com",
		ClientURL:   "https://hillcountry.example",
		FirstName:   "Sam",
		LastName:    "Houston",
		MailAddress: "1 Main St, Austin TX",
		PhoneNumber: "5125550100",
	}
}

func storedSeller(t *testing.T) *identity.Seller {
	t.Helper()
	s, err := identity.NewSeller(owner.UserID, profile())
	require.NoError(t, err)
	s.ID = 7
	s.Slug = "hill-country-land"
	return s
}

type recordingPublisher struct {
	events []shared.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return p.err
}

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type fixture struct {
	svc      *Service
	sellers  *MockSellerRepository
	listings *MockListingRemover
	logos    *MockLogoManager
	events   *recordingPublisher
}

func newFixture() *fixture {
	f := &fixture{
		sellers:  new(MockSellerRepository),
		listings: new(MockListingRemover),
		logos:    new(MockLogoManager),
		events:   &recordingPublisher{},
	}
	f.svc = NewService(f.sellers, f.listings, f.logos, f.events, zap.NewNop())
	return f
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates unverified seller with unique slug", func(t *testing.T) {
		f := newFixture()
		f.sellers.On("FindByUserID", mock.Anything, uint64(1)).Return(nil, shared.NotFound("seller"))
		f.sellers.On("ExistsByEmail", mock.Anything, "sales@hillcountry.com", uint64(0)).Return(false, nil)
		f.sellers.On("SlugExists", mock.Anything, "hill-country-land").Return(true, nil)
		f.sellers.On("SlugExists", mock.Anything, "hill-country-land-2").Return(false, nil)
		f.sellers.On("Create", mock.Anything, mock.AnythingOfType("*identity.Seller")).
			Run(func(args mock.Arguments) { args.Get(1).(*identity.Seller).ID = 7 }).
			Return(nil)

		s, err := f.svc.Create(ctx, owner, profile())
		require.NoError(t, err)
		assert.Equal(t, uint64(7), s.ID)
		assert.Equal(t, "hill-country-land-2", s.Slug)
		assert.Equal(t, owner.UserID, s.UserID)
		assert.False(t, s.Verified)
	})

	t.Run("user already has a seller", func(t *testing.T) {
		f := newFixture()
		f.sellers.On("FindByUserID", mock.Anything, uint64(1)).Return(storedSeller(t), nil)

		_, err := f.svc.Create(ctx, owner, profile())
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		f.sellers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("email used by another seller", func(t *testing.T) {
		f := newFixture()
		f.sellers.On("FindByUserID", mock.Anything, uint64(1)).Return(nil, shared.NotFound("seller"))
		f.sellers.On("ExistsByEmail", mock.Anything, "sales@hillcountry.com", uint64(0)).Return(true, nil)

		_, err := f.svc.Create(ctx, owner, profile())
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("invalid profile", func(t *testing.T) {
		f := newFixture()
		f.sellers.On("FindByUserID", mock.Anything, uint64(1)).Return(nil, shared.NotFound("seller"))
		p := profile()
		p.PhoneNumber = "call me"

		_, err := f.svc.Create(ctx, owner, p)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("storage failure on lookup", func(t *testing.T) {
		f := newFixture()
		f.sellers.On("FindByUserID", mock.Anything, uint64(1)).Return(nil, shared.Storage(errors.New("db down")))

		_, err := f.svc.Create(ctx, owner, profile())
		assert.ErrorIs(t, err, shared.ErrStorage)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("owner updates profile and keeps slug", func(t *testing.T) {
		f := newFixture()
		s := storedSeller(t)
		f.sellers.On("FindByPk", ctx, uint64(7)).Return(s, nil)
		f.sellers.On("ExistsByEmail", ctx, "new@hillcountry.com", uint64(7)).Return(false, nil)
		f.sellers.On("Update", ctx, s).Return(nil)

		p := profile()
		p.Company = "Renamed Ranches"
		p.Email = "New@HillCountry.com"
		got, err := f.svc.Update(ctx, owner, 7, p)
		require.NoError(t, err)
		assert.Equal(t, "Renamed Ranches", got.Company)
		assert.Equal(t, "new@hillcountry.com", got.Email)
		assert.Equal(t, "hill-country-land", got.Slug)

		require.Len(t, f.events.events, 1)
		ev, ok := f.events.events[0].(*identity.SellerEvent)
		require.True(t, ok)
		assert.Equal(t, identity.EventTypeSellerUpdated, ev.EventType())
		assert.Equal(t, uint64(7), ev.AggregateID())
		assert.Equal(t, "hill-country-land", ev.Slug)
	})

	t.Run("publish failure does not fail the update", func(t *testing.T) {
		f := newFixture()
		f.events.err = errors.New("nats down")
		s := storedSeller(t)
		f.sellers.On("FindByPk", ctx, uint64(7)).Return(s, nil)
		f.sellers.On("ExistsByEmail", ctx, "sales@hillcountry.com", uint64(7)).Return(false, nil)
		f.sellers.On("Update", ctx, s).Return(nil)

		_, err := f.svc.Update(ctx, owner, 7, profile())
		assert.NoError(t, err)
	})

	t.Run("admin may update", func(t *testing.T) {
		f := newFixture()
		s := storedSeller(t)
		f.sellers.On("FindByPk", ctx, uint64(7)).Return(s, nil)
		f.sellers.On("ExistsByEmail", ctx, "sales@hillcountry.com", uint64(7)).Return(false, nil)
		f.sellers.On("Update", ctx, s).Return(nil)

		_, err := f.svc.Update(ctx, admin, 7, profile())
		assert.NoError(t, err)
	})

	t.Run("non owner is forbidden", func(t *testing.T) {
		f := newFixture()
		f.sellers.On("FindByPk", ctx, uint64(7)).Return(storedSeller(t), nil)

		_, err := f.svc.Update(ctx, other, 7, profile())
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("taken email", func(t *testing.T) {
		f := newFixture()
		f.sellers.On("FindByPk", ctx, uint64(7)).Return(storedSeller(t), nil)
		f.sellers.On("ExistsByEmail", ctx, "sales@hillcountry.com", uint64(7)).Return(true, nil)

		_, err := f.svc.Update(ctx, owner, 7, profile())
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		f.sellers.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		assert.Empty(t, f.events.events)
	})

	t.Run("missing seller", func(t *testing.T) {
		f := newFixture()
		f.sellers.On("FindByPk", ctx, uint64(9)).Return(nil, shared.NotFound("seller"))

		_, err := f.svc.Update(ctx, owner, 9, profile())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes listings then logos then seller", func(t *testing.T) {
		f := newFixture()
		var order []string
		f.sellers.On("FindByPk", ctx, uint64(7)).Return(storedSeller(t), nil)
		f.listings.On("DeleteBySeller", ctx, uint64(7)).Run(func(mock.Arguments) { order = append(order, "listings") }).Return(nil)
		f.logos.On("DeleteLogos", ctx, uint64(7)).Run(func(mock.Arguments) { order = append(order, "logos") }).Return(nil)
		f.sellers.On("Delete", ctx, uint64(7)).Run(func(mock.Arguments) { order = append(order, "seller") }).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, owner, 7))
		assert.Equal(t, []string{"listings", "logos", "seller"}, order)
	})

	t.Run("listing failure keeps seller", func(t *testing.T) {
		f := newFixture()
		f.sellers.On("FindByPk", ctx, uint64(7)).Return(storedSeller(t), nil)
		f.listings.On("DeleteBySeller", ctx, uint64(7)).Return(shared.Storage(errors.New("disk")))

		err := f.svc.Delete(ctx, admin, 7)
		assert.ErrorIs(t, err, shared.ErrStorage)
		f.sellers.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("non owner is forbidden", func(t *testing.T) {
		f := newFixture()
		f.sellers.On("FindByPk", ctx, uint64(7)).Return(storedSeller(t), nil)

		assert.ErrorIs(t, f.svc.Delete(ctx, other, 7), shared.ErrForbidden)
	})
}

func TestService_DeleteForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("user without seller", func(t *testing.T) {
		f := newFixture()
		f.sellers.On("FindByUserID", ctx, uint64(2)).Return(nil, shared.NotFound("seller"))

		assert.NoError(t, f.svc.DeleteForUser(ctx, 2))
		f.listings.AssertNotCalled(t, "DeleteBySeller", mock.Anything, mock.Anything)
	})

	t.Run("user with seller", func(t *testing.T) {
		f := newFixture()
		f.sellers.On("FindByUserID", ctx, uint64(1)).Return(storedSeller(t), nil)
		f.listings.On("DeleteBySeller", ctx, uint64(7)).Return(nil)
		f.logos.On("DeleteLogos", ctx, uint64(7)).Return(nil)
		f.sellers.On("Delete", ctx, uint64(7)).Return(nil)

		require.NoError(t, f.svc.DeleteForUser(ctx, 1))
		f.sellers.AssertExpectations(t)
	})
}

func TestService_SetLogo(t *testing.T) {
	ctx := context.Background()
	src := bytes.NewReader([]byte("jpeg"))

	f := newFixture()
	f.sellers.On("FindByPk", ctx, uint64(7)).Return(storedSeller(t), nil)
	logo := &media.Image{Owner: shared.SellerOwner(7), Name: "abc_seller_7.jpg", Rendition: media.RenditionLogo}
	f.logos.On("SetLogo", ctx, src, uint64(7)).Return(logo, nil)

	got, err := f.svc.SetLogo(ctx, owner, 7, src)
	require.NoError(t, err)
	assert.Same(t, logo, got)
	assert.Equal(t, []string{identity.EventTypeSellerUpdated}, f.events.types())

	_, err = f.svc.SetLogo(ctx, other, 7, src)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Len(t, f.events.events, 1)
}

func TestService_SetLogoFailureAnnouncesNothing(t *testing.T) {
	ctx := context.Background()
	src := bytes.NewReader([]byte("not an image"))

	f := newFixture()
	f.sellers.On("FindByPk", ctx, uint64(7)).Return(storedSeller(t), nil)
	f.logos.On("SetLogo", ctx, src, uint64(7)).Return(nil, shared.Validation("image cannot be decoded"))

	_, err := f.svc.SetLogo(ctx, owner, 7, src)
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Empty(t, f.events.events)
}

func TestService_View(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.sellers.On("FindBySlug", ctx, "nope").Return(nil, shared.NotFound("seller"))

	_, err := f.svc.View(ctx, "nope")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

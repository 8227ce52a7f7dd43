package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"regexp"
	"testing"

	"github.com/landmarket/backend/internal/domain/media"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/landmarket/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockImageRepository is a mock implementation of media.ImageRepository
type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) FindImage(ctx context.Context, owner shared.Owner, imageID uint64) (*media.Image, error) {
	args := m.Called(ctx, owner, imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.Image), args.Error(1)
}

func (m *MockImageRepository) FindByOwner(ctx context.Context, owner shared.Owner) ([]media.Image, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).([]media.Image), args.Error(1)
}

func (m *MockImageRepository) FindPair(ctx context.Context, imageID uint64) (*media.Pair, error) {
	args := m.Called(ctx, imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.Pair), args.Error(1)
}

func (m *MockImageRepository) FindPairsByListing(ctx context.Context, listingID uint64) ([]media.Pair, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).([]media.Pair), args.Error(1)
}

func (m *MockImageRepository) CreatePair(ctx context.Context, listingID uint64, fullsizeName, previewName string) (*media.Pair, error) {
	args := m.Called(ctx, listingID, fullsizeName, previewName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.Pair), args.Error(1)
}

func (m *MockImageRepository) ReplacePair(ctx context.Context, old *media.Pair, fullsizeName, previewName string) (*media.Pair, error) {
	args := m.Called(ctx, old, fullsizeName, previewName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.Pair), args.Error(1)
}

func (m *MockImageRepository) DeletePair(ctx context.Context, pair *media.Pair) error {
	return m.Called(ctx, pair).Error(0)
}

func (m *MockImageRepository) Save(ctx context.Context, img *media.Image) error {
	return m.Called(ctx, img).Error(0)
}

func (m *MockImageRepository) Delete(ctx context.Context, imageID uint64) error {
	return m.Called(ctx, imageID).Error(0)
}

// fakeRenderer records the bounds it renders with
type fakeRenderer struct {
	decodeErr error
	bounds    []media.Bounds
}

func (r *fakeRenderer) Decode(src io.Reader) (image.Image, error) {
	if r.decodeErr != nil {
		return nil, r.decodeErr
	}
	return image.NewRGBA(image.Rect(0, 0, 10, 10)), nil
}

func (r *fakeRenderer) Render(_ image.Image, b media.Bounds) ([]byte, error) {
	r.bounds = append(r.bounds, b)
	return []byte(fmt.Sprintf("%dx%d", b.MaxWidth, b.MaxHeight)), nil
}

type fakeRecorder struct {
	stored map[media.Rendition]int
}

func (r *fakeRecorder) ImageStored(rendition media.Rendition, size int) {
	if r.stored == nil {
		r.stored = map[media.Rendition]int{}
	}
	r.stored[rendition]++
}

func setupImageService() (*ImageService, *MockImageRepository, *storage.MemoryStorage, *fakeRenderer) {
	repo := new(MockImageRepository)
	files := storage.NewMemoryStorage("/images")
	renderer := &fakeRenderer{}
	svc := NewImageService(repo, files, renderer, DefaultConfig(), zap.NewNop())

	n := 0
	svc.newName = func(owner shared.Owner) (string, error) {
		n++
		return fmt.Sprintf("name%d_%s_%d.jpg", n, owner.Type, owner.ID), nil
	}
	return svc, repo, files, renderer
}

func pairFor(listingID, linkID, fullID, prevID uint64, fullName, prevName string) *media.Pair {
	owner := shared.ListingOwner(listingID)
	return &media.Pair{
		Link:     media.FullsizePreview{ID: linkID, ListingID: listingID, FullsizeID: fullID, PreviewID: prevID},
		Fullsize: media.Image{ID: fullID, Owner: owner, Name: fullName, Rendition: media.RenditionFullsize},
		Preview:  media.Image{ID: prevID, Owner: owner, Name: prevName, Rendition: media.RenditionPreview},
	}
}

func TestImageService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores both renditions and links them", func(t *testing.T) {
		svc, repo, files, renderer := setupImageService()
		rec := &fakeRecorder{}
		svc.SetRecorder(rec)
		want := pairFor(7, 1, 10, 11, "name1_Listing_7.jpg", "name2_Listing_7.jpg")
		repo.On("CreatePair", mock.Anything, uint64(7), "name1_Listing_7.jpg", "name2_Listing_7.jpg").Return(want, nil)

		pair, err := svc.Create(ctx, bytes.NewReader([]byte("img")), 7)
		require.NoError(t, err)
		assert.Equal(t, want, pair)

		full, ok := files.Get("fullsize/name1_Listing_7.jpg")
		require.True(t, ok)
		assert.Equal(t, "1200x800", string(full))
		prev, ok := files.Get("preview/name2_Listing_7.jpg")
		require.True(t, ok)
		assert.Equal(t, "370x250", string(prev))
		assert.Equal(t, []media.Bounds{DefaultConfig().Fullsize, DefaultConfig().Preview}, renderer.bounds)
		assert.Equal(t, 1, rec.stored[media.RenditionFullsize])
		assert.Equal(t, 1, rec.stored[media.RenditionPreview])
		repo.AssertExpectations(t)
	})

	t.Run("undecodable upload stores nothing", func(t *testing.T) {
		svc, repo, files, renderer := setupImageService()
		renderer.decodeErr = shared.Validation("unsupported image format")

		_, err := svc.Create(ctx, bytes.NewReader(nil), 7)
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Zero(t, files.Len())
		repo.AssertNotCalled(t, "CreatePair", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("preview write failure removes fullsize file", func(t *testing.T) {
		svc, repo, files, _ := setupImageService()
		files.FailPut["preview/name2_Listing_7.jpg"] = errors.New("disk full")

		_, err := svc.Create(ctx, bytes.NewReader([]byte("img")), 7)
		assert.ErrorIs(t, err, shared.ErrStorage)
		assert.Zero(t, files.Len())
		repo.AssertNotCalled(t, "CreatePair", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("database failure removes both files", func(t *testing.T) {
		svc, repo, files, _ := setupImageService()
		repo.On("CreatePair", mock.Anything, uint64(7), mock.Anything, mock.Anything).Return(nil, shared.Storage(errors.New("tx aborted")))

		_, err := svc.Create(ctx, bytes.NewReader([]byte("img")), 7)
		assert.ErrorIs(t, err, shared.ErrStorage)
		assert.Zero(t, files.Len())
	})
}

func TestImageService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("creates new pair before removing old files", func(t *testing.T) {
		svc, repo, files, _ := setupImageService()
		old := pairFor(7, 1, 10, 11, "old_full.jpg", "old_prev.jpg")
		require.NoError(t, files.Put(ctx, "fullsize/old_full.jpg", []byte("x"), ""))
		require.NoError(t, files.Put(ctx, "preview/old_prev.jpg", []byte("x"), ""))
		fresh := pairFor(7, 2, 12, 13, "name1_Listing_7.jpg", "name2_Listing_7.jpg")

		repo.On("FindImage", mock.Anything, shared.ListingOwner(7), uint64(11)).Return(&old.Preview, nil)
		repo.On("FindPair", mock.Anything, uint64(11)).Return(old, nil)
		repo.On("ReplacePair", mock.Anything, old, "name1_Listing_7.jpg", "name2_Listing_7.jpg").Return(fresh, nil)

		pair, err := svc.Update(ctx, 11, bytes.NewReader([]byte("img")), 7)
		require.NoError(t, err)
		assert.Equal(t, fresh, pair)

		for _, key := range []string{"fullsize/old_full.jpg", "preview/old_prev.jpg"} {
			ok, _ := files.Exists(ctx, key)
			assert.False(t, ok, key)
		}
		assert.Equal(t, 2, files.Len())
		repo.AssertExpectations(t)
	})

	t.Run("unknown image acts as create", func(t *testing.T) {
		svc, repo, _, _ := setupImageService()
		created := pairFor(7, 3, 20, 21, "name1_Listing_7.jpg", "name2_Listing_7.jpg")
		repo.On("FindImage", mock.Anything, shared.ListingOwner(7), uint64(99)).Return(nil, shared.NotFound("image"))
		repo.On("CreatePair", mock.Anything, uint64(7), "name1_Listing_7.jpg", "name2_Listing_7.jpg").Return(created, nil)

		pair, err := svc.Update(ctx, 99, bytes.NewReader([]byte("img")), 7)
		require.NoError(t, err)
		assert.Equal(t, created, pair)
		repo.AssertNotCalled(t, "ReplacePair", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unpaired image of the listing is replaced and removed", func(t *testing.T) {
		svc, repo, files, _ := setupImageService()
		orphan := &media.Image{ID: 30, Owner: shared.ListingOwner(7), Name: "orphan.jpg", Rendition: media.RenditionFullsize}
		require.NoError(t, files.Put(ctx, "fullsize/orphan.jpg", []byte("x"), ""))
		created := pairFor(7, 4, 31, 32, "name1_Listing_7.jpg", "name2_Listing_7.jpg")

		repo.On("FindImage", mock.Anything, shared.ListingOwner(7), uint64(30)).Return(orphan, nil)
		repo.On("FindPair", mock.Anything, uint64(30)).Return(nil, shared.NotFound("image"))
		repo.On("CreatePair", mock.Anything, uint64(7), "name1_Listing_7.jpg", "name2_Listing_7.jpg").Return(created, nil)
		repo.On("Delete", mock.Anything, uint64(30)).Return(nil)

		pair, err := svc.Update(ctx, 30, bytes.NewReader([]byte("img")), 7)
		require.NoError(t, err)
		assert.Equal(t, created, pair)

		ok, _ := files.Exists(ctx, "fullsize/orphan.jpg")
		assert.False(t, ok)
		assert.Equal(t, 2, files.Len())
		repo.AssertExpectations(t)
	})

	t.Run("unpaired image stays when the new pair fails", func(t *testing.T) {
		svc, repo, files, _ := setupImageService()
		orphan := &media.Image{ID: 30, Owner: shared.ListingOwner(7), Name: "orphan.jpg", Rendition: media.RenditionPreview}
		require.NoError(t, files.Put(ctx, "preview/orphan.jpg", []byte("x"), ""))

		repo.On("FindImage", mock.Anything, shared.ListingOwner(7), uint64(30)).Return(orphan, nil)
		repo.On("FindPair", mock.Anything, uint64(30)).Return(nil, shared.NotFound("image"))
		repo.On("CreatePair", mock.Anything, uint64(7), mock.Anything, mock.Anything).Return(nil, shared.Storage(errors.New("boom")))

		_, err := svc.Update(ctx, 30, bytes.NewReader([]byte("img")), 7)
		assert.ErrorIs(t, err, shared.ErrStorage)
		ok, _ := files.Exists(ctx, "preview/orphan.jpg")
		assert.True(t, ok)
		assert.Equal(t, 1, files.Len())
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("failed replace keeps old files and drops new ones", func(t *testing.T) {
		svc, repo, files, _ := setupImageService()
		old := pairFor(7, 1, 10, 11, "old_full.jpg", "old_prev.jpg")
		require.NoError(t, files.Put(ctx, "fullsize/old_full.jpg", []byte("x"), ""))
		require.NoError(t, files.Put(ctx, "preview/old_prev.jpg", []byte("x"), ""))

		repo.On("FindImage", mock.Anything, shared.ListingOwner(7), uint64(10)).Return(&old.Fullsize, nil)
		repo.On("FindPair", mock.Anything, uint64(10)).Return(old, nil)
		repo.On("ReplacePair", mock.Anything, old, mock.Anything, mock.Anything).Return(nil, shared.Storage(errors.New("boom")))

		_, err := svc.Update(ctx, 10, bytes.NewReader([]byte("img")), 7)
		assert.ErrorIs(t, err, shared.ErrStorage)
		assert.Equal(t, 2, files.Len())
		ok, _ := files.Exists(ctx, "fullsize/old_full.jpg")
		assert.True(t, ok)
	})
}

func TestImageService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleting either side removes the whole pair", func(t *testing.T) {
		for _, imageID := range []uint64{10, 11} {
			svc, repo, files, _ := setupImageService()
			pair := pairFor(7, 1, 10, 11, "full.jpg", "prev.jpg")
			require.NoError(t, files.Put(ctx, "fullsize/full.jpg", []byte("x"), ""))
			require.NoError(t, files.Put(ctx, "preview/prev.jpg", []byte("x"), ""))

			repo.On("FindImage", mock.Anything, shared.ListingOwner(7), imageID).Return(&pair.Fullsize, nil)
			repo.On("FindPair", mock.Anything, imageID).Return(pair, nil)
			repo.On("DeletePair", mock.Anything, pair).Return(nil)

			require.NoError(t, svc.Delete(ctx, imageID, 7))
			assert.Zero(t, files.Len())
			repo.AssertExpectations(t)
		}
	})

	t.Run("image of another listing is not found", func(t *testing.T) {
		svc, repo, _, _ := setupImageService()
		repo.On("FindImage", mock.Anything, shared.ListingOwner(8), uint64(10)).Return(nil, shared.NotFound("image"))

		err := svc.Delete(ctx, 10, 8)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		repo.AssertNotCalled(t, "DeletePair", mock.Anything, mock.Anything)
	})

	t.Run("pair linked to another listing is not found", func(t *testing.T) {
		svc, repo, _, _ := setupImageService()
		pair := pairFor(9, 1, 10, 11, "full.jpg", "prev.jpg")
		repo.On("FindImage", mock.Anything, shared.ListingOwner(7), uint64(10)).Return(&pair.Fullsize, nil)
		repo.On("FindPair", mock.Anything, uint64(10)).Return(pair, nil)

		err := svc.Delete(ctx, 10, 7)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestImageService_DeleteAll(t *testing.T) {
	ctx := context.Background()
	svc, repo, files, _ := setupImageService()
	pairs := []media.Pair{
		*pairFor(7, 1, 10, 11, "a.jpg", "b.jpg"),
		*pairFor(7, 2, 12, 13, "c.jpg", "d.jpg"),
	}
	for _, p := range pairs {
		require.NoError(t, files.Put(ctx, p.Fullsize.Key(), []byte("x"), ""))
		require.NoError(t, files.Put(ctx, p.Preview.Key(), []byte("x"), ""))
	}
	repo.On("FindPairsByListing", mock.Anything, uint64(7)).Return(pairs, nil)
	repo.On("DeletePair", mock.Anything, mock.AnythingOfType("*media.Pair")).Return(nil).Twice()

	require.NoError(t, svc.DeleteAll(ctx, 7))
	assert.Zero(t, files.Len())
	repo.AssertExpectations(t)
}

func TestImageService_SetLogo(t *testing.T) {
	ctx := context.Background()
	svc, repo, files, renderer := setupImageService()
	old := media.Image{ID: 4, Owner: shared.SellerOwner(3), Name: "old_logo.jpg", Rendition: media.RenditionLogo}
	require.NoError(t, files.Put(ctx, old.Key(), []byte("x"), ""))

	repo.On("FindByOwner", mock.Anything, shared.SellerOwner(3)).Return([]media.Image{old}, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(img *media.Image) bool {
		return img.Owner == shared.SellerOwner(3) && img.Rendition == media.RenditionLogo
	})).Return(nil)
	repo.On("Delete", mock.Anything, uint64(4)).Return(nil)

	logo, err := svc.SetLogo(ctx, bytes.NewReader([]byte("img")), 3)
	require.NoError(t, err)
	assert.Equal(t, "name1_Seller_3.jpg", logo.Name)
	assert.Equal(t, []media.Bounds{DefaultConfig().Logo}, renderer.bounds)

	ok, _ := files.Exists(ctx, "logo/name1_Seller_3.jpg")
	assert.True(t, ok)
	ok, _ = files.Exists(ctx, old.Key())
	assert.False(t, ok)
	assert.Equal(t, "/images/logo/name1_Seller_3.jpg", svc.URL(*logo))
	repo.AssertExpectations(t)
}

func TestFileName(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Za-z0-9]{20}_listing_42\.jpg$`)
	a, err := FileName(shared.ListingOwner(42))
	require.NoError(t, err)
	b, err := FileName(shared.ListingOwner(42))
	require.NoError(t, err)

	assert.Regexp(t, pattern, a)
	assert.NotEqual(t, a, b)

	logo, err := FileName(shared.SellerOwner(3))
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Za-z0-9]{20}_seller_3\.jpg$`, logo)
}

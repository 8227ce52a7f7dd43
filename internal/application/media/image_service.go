// Package media turns uploads into stored renditions and keeps the image
// rows, link rows and stored files in step.
package media

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/landmarket/backend/internal/domain/media"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/landmarket/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Renderer decodes uploads and encodes bounded renditions
type Renderer interface {
	Decode(src io.Reader) (image.Image, error)
	Render(img image.Image, b media.Bounds) ([]byte, error)
}

// Recorder observes stored renditions. Satisfied by the metrics registry.
type Recorder interface {
	ImageStored(rendition media.Rendition, size int)
}

// Config holds the rendition bounds
type Config struct {
	Fullsize    media.Bounds
	Preview     media.Bounds
	Logo        media.Bounds
	ContentType string
}

// DefaultConfig returns 1200x800 fullsize, 370x250 preview and 300x300 logo bounds
func DefaultConfig() Config {
	return Config{
		Fullsize:    media.Bounds{MaxWidth: 1200, MaxHeight: 800},
		Preview:     media.Bounds{MaxWidth: 370, MaxHeight: 250},
		Logo:        media.Bounds{MaxWidth: 300, MaxHeight: 300},
		ContentType: "image/jpeg",
	}
}

// ImageService manages listing image pairs and seller logos
type ImageService struct {
	images   media.ImageRepository
	files    media.FileStorage
	renderer Renderer
	config   Config
	recorder Recorder
	logger   *zap.Logger
	newName  func(owner shared.Owner) (string, error)
}

// NewImageService creates a new ImageService
func NewImageService(
	images media.ImageRepository,
	files media.FileStorage,
	renderer Renderer,
	config Config,
	logger *zap.Logger,
) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.ContentType == "" {
		config.ContentType = "image/jpeg"
	}
	return &ImageService{
		images:   images,
		files:    files,
		renderer: renderer,
		config:   config,
		logger:   logger,
		newName:  FileName,
	}
}

// SetRecorder attaches a metrics recorder
func (s *ImageService) SetRecorder(r Recorder) {
	s.recorder = r
}

// Create renders fullsize and preview renditions of src for a listing and
// records them as one pair. Files written before a failure are removed.
func (s *ImageService) Create(ctx context.Context, src io.Reader, listingID uint64) (*media.Pair, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "image", "create", telemetry.AttrListingID, listingID)
	defer span.End()

	files, err := s.renderPair(ctx, src, listingID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	pair, err := s.images.CreatePair(ctx, listingID, files.fullsize, files.preview)
	if err != nil {
		s.removeFiles(ctx, files.keys()...)
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Image pair created",
		zap.Uint64("listing_id", listingID),
		zap.Uint64("fullsize_id", pair.Link.FullsizeID),
		zap.Uint64("preview_id", pair.Link.PreviewID),
	)
	return pair, nil
}

// Update replaces the pair that imageID belongs to with renditions of src.
// The new pair is stored before the old one is removed. When the listing
// has no such image Update behaves like Create. An image of the listing
// that lost its link row is replaced by a new pair and then removed.
func (s *ImageService) Update(ctx context.Context, imageID uint64, src io.Reader, listingID uint64) (*media.Pair, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "image", "update",
		telemetry.AttrListingID, listingID, telemetry.AttrImageID, imageID)
	defer span.End()

	current, err := s.images.FindImage(ctx, shared.ListingOwner(listingID), imageID)
	if errors.Is(err, shared.ErrNotFound) {
		return s.Create(ctx, src, listingID)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	old, err := s.images.FindPair(ctx, imageID)
	if errors.Is(err, shared.ErrNotFound) {
		return s.replaceUnpaired(ctx, current, src, listingID)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if old.Link.ListingID != listingID {
		return s.Create(ctx, src, listingID)
	}

	files, err := s.renderPair(ctx, src, listingID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	pair, err := s.images.ReplacePair(ctx, old, files.fullsize, files.preview)
	if err != nil {
		s.removeFiles(ctx, files.keys()...)
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.removeFiles(ctx, old.Fullsize.Key(), old.Preview.Key())

	s.logger.Info("Image pair replaced",
		zap.Uint64("listing_id", listingID),
		zap.Uint64("old_link_id", old.Link.ID),
		zap.Uint64("new_link_id", pair.Link.ID),
	)
	return pair, nil
}

// replaceUnpaired stores a new pair for src, then drops the row and file of
// an image that has no link row
func (s *ImageService) replaceUnpaired(ctx context.Context, orphan *media.Image, src io.Reader, listingID uint64) (*media.Pair, error) {
	pair, err := s.Create(ctx, src, listingID)
	if err != nil {
		return nil, err
	}
	if err := s.images.Delete(ctx, orphan.ID); err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Warn("Failed to remove unpaired image",
			zap.Uint64("listing_id", listingID),
			zap.Uint64("image_id", orphan.ID),
			zap.Error(err),
		)
		return pair, nil
	}
	s.removeFiles(ctx, orphan.Key())

	s.logger.Info("Unpaired image replaced",
		zap.Uint64("listing_id", listingID),
		zap.Uint64("image_id", orphan.ID),
		zap.Uint64("link_id", pair.Link.ID),
	)
	return pair, nil
}

// Delete removes the pair that imageID belongs to: the link row, both image
// rows and both stored files. Either side of the pair may be given.
func (s *ImageService) Delete(ctx context.Context, imageID uint64, listingID uint64) error {
	pair, err := s.findListingPair(ctx, listingID, imageID)
	if err != nil {
		return err
	}
	return s.deletePair(ctx, pair)
}

// DeleteAll removes every pair of a listing
func (s *ImageService) DeleteAll(ctx context.Context, listingID uint64) error {
	pairs, err := s.images.FindPairsByListing(ctx, listingID)
	if err != nil {
		return err
	}
	for i := range pairs {
		if err := s.deletePair(ctx, &pairs[i]); err != nil {
			return err
		}
	}
	return nil
}

// Pairs returns the image pairs of a listing
func (s *ImageService) Pairs(ctx context.Context, listingID uint64) ([]media.Pair, error) {
	return s.images.FindPairsByListing(ctx, listingID)
}

// SetLogo stores a logo rendition of src for a seller, replacing any earlier logo
func (s *ImageService) SetLogo(ctx context.Context, src io.Reader, sellerID uint64) (*media.Image, error) {
	owner := shared.SellerOwner(sellerID)
	img, err := s.renderer.Decode(src)
	if err != nil {
		return nil, err
	}
	name, err := s.newName(owner)
	if err != nil {
		return nil, err
	}
	if err := s.store(ctx, img, media.RenditionLogo, s.config.Logo, name); err != nil {
		return nil, err
	}

	logo, err := media.NewImage(owner, name, media.RenditionLogo)
	if err != nil {
		s.removeFiles(ctx, media.RenditionLogo.Key(name))
		return nil, err
	}
	previous, err := s.images.FindByOwner(ctx, owner)
	if err != nil {
		s.removeFiles(ctx, logo.Key())
		return nil, err
	}
	if err := s.images.Save(ctx, logo); err != nil {
		s.removeFiles(ctx, logo.Key())
		return nil, err
	}
	for _, p := range previous {
		if err := s.images.Delete(ctx, p.ID); err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		s.removeFiles(ctx, p.Key())
	}
	return logo, nil
}

// DeleteLogos removes every logo row and file of a seller
func (s *ImageService) DeleteLogos(ctx context.Context, sellerID uint64) error {
	logos, err := s.images.FindByOwner(ctx, shared.SellerOwner(sellerID))
	if err != nil {
		return err
	}
	for _, l := range logos {
		if err := s.images.Delete(ctx, l.ID); err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		s.removeFiles(ctx, l.Key())
	}
	return nil
}

// URL returns the public location of an image
func (s *ImageService) URL(img media.Image) string {
	return s.files.URL(img.Key())
}

func (s *ImageService) findListingPair(ctx context.Context, listingID, imageID uint64) (*media.Pair, error) {
	if _, err := s.images.FindImage(ctx, shared.ListingOwner(listingID), imageID); err != nil {
		return nil, err
	}
	pair, err := s.images.FindPair(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if pair.Link.ListingID != listingID {
		return nil, shared.NotFound("image")
	}
	return pair, nil
}

func (s *ImageService) deletePair(ctx context.Context, pair *media.Pair) error {
	if err := s.images.DeletePair(ctx, pair); err != nil {
		return err
	}
	s.removeFiles(ctx, pair.Fullsize.Key(), pair.Preview.Key())
	s.logger.Info("Image pair deleted",
		zap.Uint64("listing_id", pair.Link.ListingID),
		zap.Uint64("link_id", pair.Link.ID),
	)
	return nil
}

type renderedPair struct {
	fullsize string
	preview  string
}

func (p renderedPair) keys() []string {
	return []string{media.RenditionFullsize.Key(p.fullsize), media.RenditionPreview.Key(p.preview)}
}

func (s *ImageService) renderPair(ctx context.Context, src io.Reader, listingID uint64) (renderedPair, error) {
	img, err := s.renderer.Decode(src)
	if err != nil {
		return renderedPair{}, err
	}
	owner := shared.ListingOwner(listingID)

	var out renderedPair
	if out.fullsize, err = s.newName(owner); err != nil {
		return renderedPair{}, err
	}
	if out.preview, err = s.newName(owner); err != nil {
		return renderedPair{}, err
	}

	if err := s.store(ctx, img, media.RenditionFullsize, s.config.Fullsize, out.fullsize); err != nil {
		return renderedPair{}, err
	}
	if err := s.store(ctx, img, media.RenditionPreview, s.config.Preview, out.preview); err != nil {
		s.removeFiles(ctx, media.RenditionFullsize.Key(out.fullsize))
		return renderedPair{}, err
	}
	return out, nil
}

func (s *ImageService) store(ctx context.Context, img image.Image, r media.Rendition, b media.Bounds, name string) error {
	data, err := s.renderer.Render(img, b)
	if err != nil {
		return err
	}
	if err := s.files.Put(ctx, r.Key(name), data, s.config.ContentType); err != nil {
		return shared.Storage(err)
	}
	if s.recorder != nil {
		s.recorder.ImageStored(r, len(data))
	}
	return nil
}

// removeFiles deletes stored files on a best-effort basis. Failures leave
// orphan files behind and are logged.
func (s *ImageService) removeFiles(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.files.Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to delete stored image", zap.String("key", key), zap.Error(err))
		}
	}
}

const nameAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// FileName generates a stored file name: 20 random alphanumerics, then
// _listing_<id>.jpg or _seller_<id>.jpg.
func FileName(owner shared.Owner) (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", shared.Storage(err)
	}
	for i, b := range buf {
		buf[i] = nameAlphabet[int(b)%len(nameAlphabet)]
	}
	kind := "listing"
	if owner.Type == shared.EntitySeller {
		kind = "seller"
	}
	return fmt.Sprintf("%s_%s_%d.jpg", buf, kind, owner.ID), nil
}

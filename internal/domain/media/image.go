// Package media holds image and share records attached to listings and sellers.
package media

import (
	"fmt"
	"time"

	"github.com/landmarket/backend/internal/domain/shared"
)

// Rendition names a derived image variant
type Rendition string

const (
	RenditionFullsize Rendition = "fullsize"
	RenditionPreview  Rendition = "preview"
	RenditionLogo     Rendition = "logo"
)

// Key returns the storage key for a file of this rendition
func (r Rendition) Key(name string) string {
	return string(r) + "/" + name
}

// Image is a stored file owned by a listing or seller
type Image struct {
	ID        uint64
	Owner     shared.Owner
	Name      string
	Rendition Rendition
	CreatedAt time.Time
}

// NewImage validates and builds an image record
func NewImage(owner shared.Owner, name string, rendition Rendition) (*Image, error) {
	if !owner.Valid() {
		return nil, shared.Validation(fmt.Sprintf("invalid image owner %s", owner))
	}
	if name == "" {
		return nil, shared.Validation("image name cannot be empty")
	}
	return &Image{
		Owner:     owner,
		Name:      name,
		Rendition: rendition,
		CreatedAt: time.Now(),
	}, nil
}

// Key returns the storage key of the image file
func (i *Image) Key() string {
	return i.Rendition.Key(i.Name)
}

// FullsizePreview links the two renditions created from one upload
type FullsizePreview struct {
	ID         uint64
	ListingID  uint64
	FullsizeID uint64
	PreviewID  uint64
}

// Pair is a link row together with both of its images
type Pair struct {
	Link     FullsizePreview
	Fullsize Image
	Preview  Image
}

// Contains reports whether imageID is either side of the pair
func (p *Pair) Contains(imageID uint64) bool {
	return p.Link.FullsizeID == imageID || p.Link.PreviewID == imageID
}

// Images returns both renditions, fullsize first
func (p *Pair) Images() []Image {
	return []Image{p.Fullsize, p.Preview}
}

// Bounds is the maximum size of a rendition
type Bounds struct {
	MaxWidth  int
	MaxHeight int
}

// Target computes the resize for a source of w x h.
// Width is checked first; only when it fits is height checked.
// A zero dimension in the result means "keep aspect ratio".
// ok is false when the source already fits.
func (b Bounds) Target(w, h int) (width, height int, ok bool) {
	switch {
	case b.MaxWidth > 0 && w > b.MaxWidth:
		return b.MaxWidth, 0, true
	case b.MaxHeight > 0 && h > b.MaxHeight:
		return 0, b.MaxHeight, true
	default:
		return w, h, false
	}
}

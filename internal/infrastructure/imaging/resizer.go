// Package imaging derives the fullsize and preview renditions of uploads.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/landmarket/backend/internal/domain/media"
	"github.com/landmarket/backend/internal/domain/shared"
)

// ContentType is the MIME type of every rendition
const ContentType = "image/jpeg"

// Resizer decodes uploads and encodes bounded JPEG renditions
type Resizer struct {
	quality int
	filter  imaging.ResampleFilter
}

// NewResizer creates a resizer encoding at the given JPEG quality
func NewResizer(quality int) *Resizer {
	if quality < 1 || quality > 100 {
		quality = 85
	}
	return &Resizer{quality: quality, filter: imaging.Lanczos}
}

// Decode reads an uploaded image, honoring the EXIF orientation.
// Anything that is not a supported image is a validation failure.
func (r *Resizer) Decode(src io.Reader) (image.Image, error) {
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, shared.Validation(fmt.Sprintf("file is not a supported image: %v", err))
	}
	return img, nil
}

// Render fits img into b and encodes it as JPEG. The width bound is
// checked first; the height bound only applies when the width fits.
func (r *Resizer) Render(img image.Image, b media.Bounds) ([]byte, error) {
	size := img.Bounds().Size()
	if w, h, ok := b.Target(size.X, size.Y); ok {
		img = imaging.Resize(img, w, h, r.filter)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(r.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode rendition: %w", err)
	}
	return buf.Bytes(), nil
}

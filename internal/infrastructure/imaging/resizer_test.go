package imaging

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/landmarket/backend/internal/domain/media"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 120, G: 160, B: 90, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func renderedSize(t *testing.T, data []byte) image.Point {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	return image.Pt(cfg.Width, cfg.Height)
}

func TestResizer_Render(t *testing.T) {
	r := NewResizer(85)
	fullsize := media.Bounds{MaxWidth: 1200, MaxHeight: 800}
	preview := media.Bounds{MaxWidth: 370, MaxHeight: 250}

	tests := []struct {
		name   string
		w, h   int
		bounds media.Bounds
		want   image.Point
	}{
		{"fits untouched", 600, 400, fullsize, image.Pt(600, 400)},
		{"wide image bounded by width", 2400, 1200, fullsize, image.Pt(1200, 600)},
		{"tall narrow image bounded by height", 500, 1000, fullsize, image.Pt(400, 800)},
		{"width check wins over height", 740, 1000, preview, image.Pt(370, 500)},
		{"preview of landscape", 1200, 800, preview, image.Pt(370, 247)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := r.Decode(bytes.NewReader(pngOf(t, tt.w, tt.h)))
			require.NoError(t, err)

			out, err := r.Render(img, tt.bounds)
			require.NoError(t, err)
			assert.Equal(t, tt.want, renderedSize(t, out))
		})
	}
}

func TestResizer_DecodeRejectsNonImage(t *testing.T) {
	_, err := NewResizer(85).Decode(strings.NewReader("not an image"))
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestNewResizer_QualityDefault(t *testing.T) {
	assert.Equal(t, 85, NewResizer(0).quality)
	assert.Equal(t, 70, NewResizer(70).quality)
}

package models

import (
	"time"

	"github.com/landmarket/backend/internal/domain/media"
	"github.com/landmarket/backend/internal/domain/shared"
)

// ImageModel is the persistence model for the Image domain entity.
// EntityID and EntityType form the polymorphic owner reference.
type ImageModel struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	EntityID   uint64    `gorm:"not null;index:idx_images_entity"`
	EntityType string    `gorm:"type:varchar(50);not null;index:idx_images_entity"`
	Name       string    `gorm:"type:varchar(255);not null"`
	Rendition  string    `gorm:"type:varchar(20);not null;default:'fullsize'"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ImageModel) TableName() string {
	return "images"
}

// ToDomain converts the persistence model to a domain Image.
func (m *ImageModel) ToDomain() media.Image {
	return media.Image{
		ID:        m.ID,
		Owner:     shared.Owner{Type: shared.EntityType(m.EntityType), ID: m.EntityID},
		Name:      m.Name,
		Rendition: media.Rendition(m.Rendition),
		CreatedAt: m.CreatedAt,
	}
}

// ImageModelFromDomain creates a new persistence model from a domain Image.
func ImageModelFromDomain(i *media.Image) *ImageModel {
	return &ImageModel{
		ID:         i.ID,
		EntityID:   i.Owner.ID,
		EntityType: string(i.Owner.Type),
		Name:       i.Name,
		Rendition:  string(i.Rendition),
		CreatedAt:  i.CreatedAt,
	}
}

// ImagesToDomain converts a slice of image models
func ImagesToDomain(ms []ImageModel) []media.Image {
	out := make([]media.Image, len(ms))
	for i := range ms {
		out[i] = ms[i].ToDomain()
	}
	return out
}

// FullsizePreviewModel links the fullsize and preview images of one upload.
type FullsizePreviewModel struct {
	ID         uint64      `gorm:"primaryKey;autoIncrement"`
	ListingID  uint64      `gorm:"not null;index"`
	FullsizeID uint64      `gorm:"not null;uniqueIndex"`
	PreviewID  uint64      `gorm:"not null;uniqueIndex"`
	Fullsize   *ImageModel `gorm:"foreignKey:FullsizeID"`
	Preview    *ImageModel `gorm:"foreignKey:PreviewID"`
}

// TableName returns the table name for GORM
func (FullsizePreviewModel) TableName() string {
	return "fullsize_previews"
}

// ToDomain converts the link row, and both images when loaded, to a Pair.
func (m *FullsizePreviewModel) ToDomain() media.Pair {
	p := media.Pair{Link: media.FullsizePreview{
		ID:         m.ID,
		ListingID:  m.ListingID,
		FullsizeID: m.FullsizeID,
		PreviewID:  m.PreviewID,
	}}
	if m.Fullsize != nil {
		p.Fullsize = m.Fullsize.ToDomain()
	}
	if m.Preview != nil {
		p.Preview = m.Preview.ToDomain()
	}
	return p
}

// ShareModel records a share of an entity on an external network.
type ShareModel struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	EntityID   uint64    `gorm:"not null;index:idx_shares_entity"`
	EntityType string    `gorm:"type:varchar(50);not null;index:idx_shares_entity"`
	NetworkID  uint64    `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShareModel) TableName() string {
	return "shares"
}

// ShareModelFromDomain creates a new persistence model from a domain Share.
func ShareModelFromDomain(s *media.Share) *ShareModel {
	return &ShareModel{
		ID:         s.ID,
		EntityID:   s.Owner.ID,
		EntityType: string(s.Owner.Type),
		NetworkID:  s.NetworkID,
		CreatedAt:  s.CreatedAt,
	}
}

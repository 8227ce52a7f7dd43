// Package listing models land parcels offered for sale.
package listing

import (
	"strings"

	"github.com/landmarket/backend/internal/domain/media"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Listing is a for-sale land parcel
type Listing struct {
	shared.BaseEntity
	SellerID    uint64
	Slug        string
	Title       string
	Description string

	// Loaded relations. Nil or empty when not eagerly loaded.
	Geo    *Geo
	Price  *Price
	Images []media.Image
	Seller *SellerSummary
}

// Geo holds the location and size attributes of a listing.
// At most one Geo exists per listing.
type Geo struct {
	ID           uint64
	ListingID    uint64
	State        string
	County       string
	City         string
	Address      string
	Zip          string
	Acreage      int
	RoadAccessID *uint64
	RoadAccess   *RoadAccess
	Longitude    float64
	Latitude     float64
}

// RoadAccess is a lookup value describing how a parcel is reached
type RoadAccess struct {
	ID   uint64
	Name string
}

// Price is the asking price of a listing
type Price struct {
	ID        uint64
	ListingID uint64
	Amount    decimal.Decimal
}

// SellerSummary is the seller projection attached to search results
type SellerSummary struct {
	ID       uint64
	Slug     string
	Company  string
	Verified bool
	Logo     *media.Image
}

// NewListing validates and builds a listing owned by sellerID
func NewListing(sellerID uint64, title, description string) (*Listing, error) {
	l := &Listing{
		BaseEntity: shared.NewBaseEntity(),
		SellerID:   sellerID,
	}
	if sellerID == 0 {
		return nil, shared.ErrNoSeller
	}
	if err := l.SetDetails(title, description); err != nil {
		return nil, err
	}
	return l, nil
}

// SetDetails updates title and description
func (l *Listing) SetDetails(title, description string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.Validation("title cannot be empty")
	}
	if len(title) > 255 {
		return shared.Validation("title cannot exceed 255 characters")
	}
	l.Title = title
	l.Description = strings.TrimSpace(description)
	l.Touch()
	return nil
}

// SetGeo attaches geo attributes, keeping the listing id in sync
func (l *Listing) SetGeo(g Geo) error {
	if g.Acreage < 0 {
		return shared.Validation("acreage cannot be negative")
	}
	if g.Latitude < -90 || g.Latitude > 90 {
		return shared.Validation("latitude must be between -90 and 90")
	}
	if g.Longitude < -180 || g.Longitude > 180 {
		return shared.Validation("longitude must be between -180 and 180")
	}
	if l.Geo != nil {
		g.ID = l.Geo.ID
	}
	g.ListingID = l.ID
	l.Geo = &g
	return nil
}

// SetPrice attaches the asking price
func (l *Listing) SetPrice(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.Validation("price cannot be negative")
	}
	p := Price{ListingID: l.ID, Amount: amount}
	if l.Price != nil {
		p.ID = l.Price.ID
	}
	l.Price = &p
	return nil
}

// OwnedBy reports whether the listing belongs to sellerID
func (l *Listing) OwnedBy(sellerID uint64) bool {
	return sellerID != 0 && l.SellerID == sellerID
}

// Owner returns the polymorphic owner reference of this listing
func (l *Listing) Owner() shared.Owner {
	return shared.ListingOwner(l.ID)
}

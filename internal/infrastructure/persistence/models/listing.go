package models

import (
	"github.com/landmarket/backend/internal/domain/listing"
	"github.com/shopspring/decimal"
)

// ListingModel is the persistence model for the Listing domain entity.
type ListingModel struct {
	BaseModel
	SellerID    uint64             `gorm:"not null;index"`
	Slug        string             `gorm:"type:varchar(255);not null;uniqueIndex"`
	Title       string             `gorm:"type:varchar(255);not null"`
	Description string             `gorm:"type:text"`
	Geo         *ListingGeoModel   `gorm:"foreignKey:ListingID"`
	Price       *ListingPriceModel `gorm:"foreignKey:ListingID"`
	Images      []ImageModel       `gorm:"polymorphic:Entity;polymorphicValue:Listing"`
	Seller      *SellerModel       `gorm:"foreignKey:SellerID"`
}

// TableName returns the table name for GORM
func (ListingModel) TableName() string {
	return "listings"
}

// ToDomain converts the persistence model and its loaded relations to a Listing.
func (m *ListingModel) ToDomain() *listing.Listing {
	l := &listing.Listing{
		BaseEntity:  m.BaseModel.ToDomain(),
		SellerID:    m.SellerID,
		Slug:        m.Slug,
		Title:       m.Title,
		Description: m.Description,
		Images:      ImagesToDomain(m.Images),
	}
	if m.Geo != nil {
		l.Geo = m.Geo.ToDomain()
	}
	if m.Price != nil {
		l.Price = m.Price.ToDomain()
	}
	if m.Seller != nil {
		s := &listing.SellerSummary{
			ID:       m.Seller.ID,
			Slug:     m.Seller.Slug,
			Company:  m.Seller.Company,
			Verified: m.Seller.Verified,
		}
		if m.Seller.Logo != nil {
			logo := m.Seller.Logo.ToDomain()
			s.Logo = &logo
		}
		l.Seller = s
	}
	return l
}

// FromDomain populates the listing columns. Geo and price are saved separately.
func (m *ListingModel) FromDomain(l *listing.Listing) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.SellerID = l.SellerID
	m.Slug = l.Slug
	m.Title = l.Title
	m.Description = l.Description
}

// ListingModelFromDomain creates a new persistence model from a domain Listing.
func ListingModelFromDomain(l *listing.Listing) *ListingModel {
	m := &ListingModel{}
	m.FromDomain(l)
	return m
}

// ListingGeoModel holds the location attributes of a listing.
type ListingGeoModel struct {
	ID           uint64           `gorm:"primaryKey;autoIncrement"`
	ListingID    uint64           `gorm:"not null;uniqueIndex"`
	State        string           `gorm:"type:varchar(100);index"`
	County       string           `gorm:"type:varchar(100)"`
	City         string           `gorm:"type:varchar(100)"`
	Address      string           `gorm:"type:varchar(255)"`
	Zip          string           `gorm:"type:varchar(20)"`
	Acreage      int              `gorm:"not null;default:0"`
	RoadAccessID *uint64          `gorm:"column:road_access"`
	RoadAccess   *RoadAccessModel `gorm:"foreignKey:RoadAccessID"`
	Longitude    float64
	Latitude     float64
}

// TableName returns the table name for GORM
func (ListingGeoModel) TableName() string {
	return "listing_geos"
}

// ToDomain converts the persistence model to a domain Geo.
func (m *ListingGeoModel) ToDomain() *listing.Geo {
	g := &listing.Geo{
		ID:           m.ID,
		ListingID:    m.ListingID,
		State:        m.State,
		County:       m.County,
		City:         m.City,
		Address:      m.Address,
		Zip:          m.Zip,
		Acreage:      m.Acreage,
		RoadAccessID: m.RoadAccessID,
		Longitude:    m.Longitude,
		Latitude:     m.Latitude,
	}
	if m.RoadAccess != nil {
		g.RoadAccess = &listing.RoadAccess{ID: m.RoadAccess.ID, Name: m.RoadAccess.Name}
	}
	return g
}

// ListingGeoModelFromDomain creates a new persistence model from a domain Geo.
func ListingGeoModelFromDomain(g *listing.Geo) *ListingGeoModel {
	return &ListingGeoModel{
		ID:           g.ID,
		ListingID:    g.ListingID,
		State:        g.State,
		County:       g.County,
		City:         g.City,
		Address:      g.Address,
		Zip:          g.Zip,
		Acreage:      g.Acreage,
		RoadAccessID: g.RoadAccessID,
		Longitude:    g.Longitude,
		Latitude:     g.Latitude,
	}
}

// ListingPriceModel holds the asking price of a listing.
type ListingPriceModel struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement"`
	ListingID uint64          `gorm:"not null;uniqueIndex"`
	Price     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
}

// TableName returns the table name for GORM
func (ListingPriceModel) TableName() string {
	return "listing_prices"
}

// ToDomain converts the persistence model to a domain Price.
func (m *ListingPriceModel) ToDomain() *listing.Price {
	return &listing.Price{ID: m.ID, ListingID: m.ListingID, Amount: m.Price}
}

// ListingPriceModelFromDomain creates a new persistence model from a domain Price.
func ListingPriceModelFromDomain(p *listing.Price) *ListingPriceModel {
	return &ListingPriceModel{ID: p.ID, ListingID: p.ListingID, Price: p.Amount}
}

// RoadAccessModel is the road access lookup table.
type RoadAccessModel struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (RoadAccessModel) TableName() string {
	return "road_accesses"
}

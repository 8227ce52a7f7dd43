package listing

import (
	"github.com/landmarket/backend/internal/domain/listing"
	"github.com/shopspring/decimal"
)

// GeoInput carries the location attributes of a listing
type GeoInput struct {
	State        string
	County       string
	City         string
	Address      string
	Zip          string
	Acreage      int
	RoadAccessID *uint64
	Longitude    float64
	Latitude     float64
}

func (g GeoInput) toDomain() listing.Geo {
	return listing.Geo{
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

// ListingInput contains the input for creating or updating a listing
type ListingInput struct {
	Title       string
	Description string
	Geo         GeoInput
	Price       decimal.Decimal
}

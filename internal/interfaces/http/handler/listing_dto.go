package handler

import (
	"net/url"
	"strconv"
	"time"

	listingapp "github.com/landmarket/backend/internal/application/listing"
	"github.com/landmarket/backend/internal/domain/listing"
	"github.com/landmarket/backend/internal/domain/media"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// GeoRequest carries the location attributes of a listing
type GeoRequest struct {
	State        string  `json:"state" binding:"required,max=255"`
	County       string  `json:"county" binding:"omitempty,max=255"`
	City         string  `json:"city" binding:"omitempty,max=255"`
	Address      string  `json:"address" binding:"omitempty,max=255"`
	Zip          string  `json:"zip" binding:"omitempty,max=10"`
	Acreage      int     `json:"acreage" binding:"gte=0"`
	RoadAccessID *uint64 `json:"road_access_id"`
	Longitude    float64 `json:"longitude" binding:"gte=-180,lte=180"`
	Latitude     float64 `json:"latitude" binding:"gte=-90,lte=90"`
}

// ListingRequest is the body for creating or updating a listing
type ListingRequest struct {
	Title       string          `json:"title" binding:"required,max=255"`
	Description string          `json:"description"`
	Geo         GeoRequest      `json:"geo"`
	Price       decimal.Decimal `json:"price"`
}

func (r ListingRequest) input() listingapp.ListingInput {
	return listingapp.ListingInput{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Geo: listingapp.GeoInput{
			State:        r.Geo.State,
			County:       r.Geo.County,
			City:         r.Geo.City,
			Address:      r.Geo.Address,
			Zip:          r.Geo.Zip,
			Acreage:      r.Geo.Acreage,
			RoadAccessID: r.Geo.RoadAccessID,
			Longitude:    r.Geo.Longitude,
			Latitude:     r.Geo.Latitude,
		},
	}
}

// ShareRequest names the network a listing was shared on
type ShareRequest struct {
	NetworkID uint64 `json:"network_id" binding:"required,gte=1"`
}

// GeoResponse is the location view of a listing
type GeoResponse struct {
	State      string  `json:"state"`
	County     string  `json:"county"`
	City       string  `json:"city"`
	Address    string  `json:"address"`
	Zip        string  `json:"zip"`
	Acreage    int     `json:"acreage"`
	RoadAccess string  `json:"road_access,omitempty"`
	Longitude  float64 `json:"longitude"`
	Latitude   float64 `json:"latitude"`
}

// SellerSummaryResponse is the seller attached to a listing
type SellerSummaryResponse struct {
	ID       uint64         `json:"id"`
	Slug     string         `json:"slug"`
	Company  string         `json:"company"`
	Verified bool           `json:"verified"`
	Logo     *ImageResponse `json:"logo,omitempty"`
}

// ListingResponse is the public view of a listing
type ListingResponse struct {
	ID          uint64                 `json:"id"`
	SellerID    uint64                 `json:"seller_id"`
	Slug        string                 `json:"slug"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Geo         *GeoResponse           `json:"geo,omitempty"`
	Price       *decimal.Decimal       `json:"price,omitempty"`
	Images      []ImageResponse        `json:"images"`
	Seller      *SellerSummaryResponse `json:"seller,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// PairResponse is one upload with both of its renditions
type PairResponse struct {
	ID       uint64        `json:"id"`
	Fullsize ImageResponse `json:"fullsize"`
	Preview  ImageResponse `json:"preview"`
}

// ShareResponse is a recorded share
type ShareResponse struct {
	ID        uint64    `json:"id"`
	ListingID uint64    `json:"listing_id"`
	NetworkID uint64    `json:"network_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toGeoResponse(g *listing.Geo) *GeoResponse {
	if g == nil {
		return nil
	}
	resp := &GeoResponse{
		State:     g.State,
		County:    g.County,
		City:      g.City,
		Address:   g.Address,
		Zip:       g.Zip,
		Acreage:   g.Acreage,
		Longitude: g.Longitude,
		Latitude:  g.Latitude,
	}
	if g.RoadAccess != nil {
		resp.RoadAccess = g.RoadAccess.Name
	}
	return resp
}

func toListingResponse(l *listing.Listing, url URLFunc) ListingResponse {
	resp := ListingResponse{
		ID:          l.ID,
		SellerID:    l.SellerID,
		Slug:        l.Slug,
		Title:       l.Title,
		Description: l.Description,
		Geo:         toGeoResponse(l.Geo),
		Images:      make([]ImageResponse, len(l.Images)),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	if l.Price != nil {
		amount := l.Price.Amount
		resp.Price = &amount
	}
	for i, img := range l.Images {
		resp.Images[i] = toImageResponse(img, url)
	}
	if s := l.Seller; s != nil {
		resp.Seller = &SellerSummaryResponse{
			ID:       s.ID,
			Slug:     s.Slug,
			Company:  s.Company,
			Verified: s.Verified,
			Logo:     toImagePtr(s.Logo, url),
		}
	}
	return resp
}

func toListingResponses(items []*listing.Listing, url URLFunc) []ListingResponse {
	out := make([]ListingResponse, len(items))
	for i, l := range items {
		out[i] = toListingResponse(l, url)
	}
	return out
}

func toPairResponse(p *media.Pair, url URLFunc) PairResponse {
	return PairResponse{
		ID:       p.Link.ID,
		Fullsize: toImageResponse(p.Fullsize, url),
		Preview:  toImageResponse(p.Preview, url),
	}
}

func toShareResponse(s *media.Share) ShareResponse {
	return ShareResponse{ID: s.ID, ListingID: s.Owner.ID, NetworkID: s.NetworkID, CreatedAt: s.CreatedAt}
}

// searchFilters reads the allow-listed search keys from the query string,
// typed to match their columns. Other keys are ignored.
func searchFilters(q url.Values) (listing.Filters, error) {
	filters := listing.Filters{}
	for _, key := range []string{"state", "city", "county", "zip"} {
		if v := q.Get(key); v != "" {
			filters[key] = v
		}
	}
	if v := q.Get("acreage"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, shared.Validation("acreage must be an integer")
		}
		filters["acreage"] = n
	}
	for _, key := range []string{"longitude", "latitude"} {
		if v := q.Get(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, shared.Validation(key + " must be a number")
			}
			filters[key] = f
		}
	}
	if v := q.Get("price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, shared.Validation("price must be a number")
		}
		filters["price"] = d
	}
	return filters, nil
}

package handler

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	listingapp "github.com/landmarket/backend/internal/application/listing"
	"github.com/landmarket/backend/internal/domain/identity"
	"github.com/landmarket/backend/internal/domain/listing"
	"github.com/landmarket/backend/internal/domain/media"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/landmarket/backend/internal/interfaces/http/dto"
)

// ListingService is the listing use case set the handler drives
type ListingService interface {
	View(ctx context.Context, slug string) (*listing.Listing, error)
	Search(ctx context.Context, filters listing.Filters, page shared.Page) (shared.Paginated[*listing.Listing], error)
	All(ctx context.Context, page shared.Page) (shared.Paginated[*listing.Listing], error)
	Create(ctx context.Context, actor identity.Actor, input listingapp.ListingInput) (*listing.Listing, error)
	Update(ctx context.Context, actor identity.Actor, id uint64, input listingapp.ListingInput) (*listing.Listing, error)
	Delete(ctx context.Context, actor identity.Actor, id uint64) error
	AddImage(ctx context.Context, actor identity.Actor, listingID uint64, src io.Reader) (*media.Pair, error)
	ReplaceImage(ctx context.Context, actor identity.Actor, listingID, imageID uint64, src io.Reader) (*media.Pair, error)
	RemoveImage(ctx context.Context, actor identity.Actor, listingID, imageID uint64) error
	ImageURLs(ctx context.Context, listingID uint64) ([]string, error)
	Geo(ctx context.Context, listingID uint64) (*listing.Geo, error)
	Share(ctx context.Context, listingID, networkID uint64) (*media.Share, error)
}

// ListingHandler handles land-for-sale HTTP requests
type ListingHandler struct {
	BaseHandler
	listings ListingService
	url      URLFunc
}

// NewListingHandler creates a new listing handler
func NewListingHandler(listings ListingService, url URLFunc) *ListingHandler {
	return &ListingHandler{listings: listings, url: url}
}

// Index lists listings, five per page. Recognized query keys narrow the
// result; without any the full catalogue is paged.
func (h *ListingHandler) Index(c *gin.Context) {
	filters, err := searchFilters(c.Request.URL.Query())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var result shared.Paginated[*listing.Listing]
	if filters.Empty() {
		result, err = h.listings.All(c.Request.Context(), page(c))
	} else {
		result, err = h.listings.Search(c.Request.Context(), filters, page(c))
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, toListingResponses(result.Items, h.url), dto.MetaOf(result))
}

// Show returns a listing by slug. The path segment shares its name with
// the id routes below it.
func (h *ListingHandler) Show(c *gin.Context) {
	l, err := h.listings.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toListingResponse(l, h.url))
}

// Create adds a listing for the seller of the calling user
func (h *ListingHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req ListingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	l, err := h.listings.Create(c.Request.Context(), actor, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toListingResponse(l, h.url))
}

// Update edits a listing
func (h *ListingHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req ListingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	l, err := h.listings.Update(c.Request.Context(), actor, id, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toListingResponse(l, h.url))
}

// Delete removes a listing with its images, geo and price
func (h *ListingHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	if err := h.listings.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Images returns the public paths of a listing's images
func (h *ListingHandler) Images(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	urls, err := h.listings.ImageURLs(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, urls)
}

// GeoInfo returns the location attributes of a listing
func (h *ListingHandler) GeoInfo(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	geo, err := h.listings.Geo(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toGeoResponse(geo))
}

// AddImage uploads an image and stores its fullsize and preview renditions
func (h *ListingHandler) AddImage(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	file, ok := h.formImage(c)
	if !ok {
		return
	}
	defer file.Close()

	pair, err := h.listings.AddImage(c.Request.Context(), actor, id, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toPairResponse(pair, h.url))
}

// ReplaceImage swaps the pair that imageId belongs to for a new upload
func (h *ListingHandler) ReplaceImage(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	imageID, ok := h.paramID(c, "imageId")
	if !ok {
		return
	}
	file, ok := h.formImage(c)
	if !ok {
		return
	}
	defer file.Close()

	pair, err := h.listings.ReplaceImage(c.Request.Context(), actor, id, imageID, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPairResponse(pair, h.url))
}

// RemoveImage deletes the pair that imageId belongs to
func (h *ListingHandler) RemoveImage(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	imageID, ok := h.paramID(c, "imageId")
	if !ok {
		return
	}
	if err := h.listings.RemoveImage(c.Request.Context(), actor, id, imageID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Share records that a listing was shared on a network
func (h *ListingHandler) Share(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req ShareRequest
	if !h.bindJSON(c, &req) {
		return
	}

	share, err := h.listings.Share(c.Request.Context(), id, req.NetworkID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toShareResponse(share))
}

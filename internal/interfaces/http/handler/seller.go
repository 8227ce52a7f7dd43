package handler

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/landmarket/backend/internal/domain/identity"
	"github.com/landmarket/backend/internal/domain/media"
)

// SellerService is the seller use case set the handler drives
type SellerService interface {
	View(ctx context.Context, slug string) (*identity.Seller, error)
	Create(ctx context.Context, actor identity.Actor, profile identity.SellerProfile) (*identity.Seller, error)
	Update(ctx context.Context, actor identity.Actor, id uint64, profile identity.SellerProfile) (*identity.Seller, error)
	Delete(ctx context.Context, actor identity.Actor, id uint64) error
	SetLogo(ctx context.Context, actor identity.Actor, id uint64, src io.Reader) (*media.Image, error)
}

// SellerHandler handles seller HTTP requests
type SellerHandler struct {
	BaseHandler
	sellers SellerService
	url     URLFunc
}

// NewSellerHandler creates a new seller handler
func NewSellerHandler(sellers SellerService, url URLFunc) *SellerHandler {
	return &SellerHandler{sellers: sellers, url: url}
}

// View returns a seller by slug
func (h *SellerHandler) View(c *gin.Context) {
	seller, err := h.sellers.View(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSellerResponse(seller, h.url))
}

// Create registers the seller profile of the calling user
func (h *SellerHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req SellerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	seller, err := h.sellers.Create(c.Request.Context(), actor, req.profile())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toSellerResponse(seller, h.url))
}

// Update edits a seller profile
func (h *SellerHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req SellerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	seller, err := h.sellers.Update(c.Request.Context(), actor, id, req.profile())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSellerResponse(seller, h.url))
}

// Delete removes a seller with its listings and logo
func (h *SellerHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	if err := h.sellers.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetLogo replaces the seller logo with the uploaded image
func (h *SellerHandler) SetLogo(c *gin.Context) {
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

	logo, err := h.sellers.SetLogo(c.Request.Context(), actor, id, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toImageResponse(*logo, h.url))
}

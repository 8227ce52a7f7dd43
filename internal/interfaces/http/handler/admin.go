package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/landmarket/backend/internal/application/admin"
	"github.com/landmarket/backend/internal/domain/identity"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/landmarket/backend/internal/interfaces/http/dto"
)

// AdminService is the administrator use case set the handler drives
type AdminService interface {
	VerifySeller(ctx context.Context, sellerID uint64) (*identity.Seller, error)
	GetAllUsers(ctx context.Context, page shared.Page) (shared.Paginated[*identity.User], error)
	FindUsers(ctx context.Context, filters identity.UserFilters, page shared.Page) (shared.Paginated[*identity.User], error)
	ExportUsers(ctx context.Context, ids []uint64, format string) (*admin.Export, error)
}

// VerifySellerRequest names the seller to verify
type VerifySellerRequest struct {
	SellerID uint64 `json:"seller_id" binding:"required,gte=1"`
}

// ExportUsersRequest selects users for export; no ids means everyone
type ExportUsersRequest struct {
	IDs    []uint64 `json:"ids"`
	Format string   `json:"format" binding:"omitempty,oneof=csv tsv"`
}

// AdminHandler handles administrator HTTP requests
type AdminHandler struct {
	BaseHandler
	admin AdminService
	url   URLFunc
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(svc AdminService, url URLFunc) *AdminHandler {
	return &AdminHandler{admin: svc, url: url}
}

// VerifySeller marks a seller as verified
func (h *AdminHandler) VerifySeller(c *gin.Context) {
	var req VerifySellerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	seller, err := h.admin.VerifySeller(c.Request.Context(), req.SellerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSellerResponse(seller, h.url))
}

// Users pages through every account ordered by id
func (h *AdminHandler) Users(c *gin.Context) {
	result, err := h.admin.GetAllUsers(c.Request.Context(), page(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, toUserResponses(result.Items), dto.MetaOf(result))
}

// SearchUsers filters accounts by name, email or role
func (h *AdminHandler) SearchUsers(c *gin.Context) {
	filters := identity.UserFilters{}
	for _, key := range identity.UserFilterKeys {
		if v, ok := c.GetQuery(key); ok {
			filters[key] = v
		}
	}

	result, err := h.admin.FindUsers(c.Request.Context(), filters, page(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, toUserResponses(result.Items), dto.MetaOf(result))
}

// ExportUsers downloads the selected users as a delimited file
func (h *AdminHandler) ExportUsers(c *gin.Context) {
	var req ExportUsersRequest
	if !h.bindJSON(c, &req) {
		return
	}
	export, err := h.admin.ExportUsers(c.Request.Context(), req.IDs, req.Format)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	c.Data(http.StatusOK, export.ContentType, export.Data)
}

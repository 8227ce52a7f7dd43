package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	identityapp "github.com/landmarket/backend/internal/application/identity"
	"github.com/landmarket/backend/internal/domain/identity"
)

// UserService is the account use case set the handler drives
type UserService interface {
	Profile(ctx context.Context, actor identity.Actor) (*identity.User, error)
	View(ctx context.Context, id uint64) (*identity.User, error)
	Update(ctx context.Context, actor identity.Actor, id uint64, input identityapp.UpdateUserInput) (*identity.User, error)
	Delete(ctx context.Context, actor identity.Actor, id uint64) error
}

// UserHandler handles account HTTP requests
type UserHandler struct {
	BaseHandler
	users UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Profile returns the calling user
func (h *UserHandler) Profile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	user, err := h.users.Profile(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUserResponse(user))
}

// View returns a user by id
func (h *UserHandler) View(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.View(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUserResponse(user))
}

// Update edits an account; only the owner or an admin may do so
func (h *UserHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.users.Update(c.Request.Context(), actor, id, identityapp.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUserResponse(user))
}

// Delete removes an account together with its seller and listings
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

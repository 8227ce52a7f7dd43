package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/landmarket/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RequireAdmin lets only administrators through. It must run after JWT authentication.
func RequireAdmin(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				shared.CodeUnauthorized, "Authentication required", getRequestID(c)))
			return
		}
		if !actor.IsAdmin() {
			log.Warn("Admin route denied",
				zap.Uint64("user_id", actor.UserID),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				shared.CodeForbidden, "Administrator access required", getRequestID(c)))
			return
		}
		c.Next()
	}
}

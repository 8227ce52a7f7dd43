package router

import (
	"github.com/gin-gonic/gin"
	"github.com/landmarket/backend/internal/interfaces/http/handler"
)

// Handlers are the endpoint handlers served under the versioned API
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Seller  *handler.SellerHandler
	Listing *handler.ListingHandler
	Admin   *handler.AdminHandler
	System  *handler.SystemHandler
}

// Guards are the access middlewares routes are wrapped in
type Guards struct {
	// Auth authenticates the bearer token
	Auth gin.HandlerFunc
	// Admin runs after Auth and admits administrators only
	Admin gin.HandlerFunc
	// Credentials throttles endpoints that accept passwords or mail links.
	// Nil disables throttling.
	Credentials gin.HandlerFunc
}

func (g Guards) credentials(h gin.HandlerFunc) []gin.HandlerFunc {
	if g.Credentials == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{g.Credentials, h}
}

// AuthRoutes covers registration, sessions and password recovery
func AuthRoutes(h *handler.AuthHandler, g Guards) *DomainGroup {
	return NewDomainGroup("auth", "").
		POST("/register", g.credentials(h.Register)...).
		POST("/login", g.credentials(h.Login)...).
		POST("/social/:provider", g.credentials(h.SocialLogin)...).
		POST("/forgot", g.credentials(h.ForgotPassword)...).
		POST("/reset", g.credentials(h.ResetPassword)...).
		POST("/refresh", h.Refresh).
		GET("/logout", g.Auth, h.Logout)
}

// UserRoutes covers account profiles
func UserRoutes(h *handler.UserHandler, g Guards) *DomainGroup {
	group := NewDomainGroup("user", "")
	group.GET("/profile", g.Auth, h.Profile)
	group.Group("user", "/user").
		GET("/:id", h.View).
		PUT("/:id", g.Auth, h.Update).
		DELETE("/:id", g.Auth, h.Delete)
	return group
}

// SellerRoutes covers seller profiles. GET /seller/:id takes a slug.
func SellerRoutes(h *handler.SellerHandler, g Guards) *DomainGroup {
	return NewDomainGroup("seller", "/seller").
		POST("", g.Auth, h.Create).
		GET("/:id", h.View).
		PUT("/:id", g.Auth, h.Update).
		DELETE("/:id", g.Auth, h.Delete).
		POST("/:id/logo", g.Auth, h.SetLogo)
}

// ListingRoutes covers land-for-sale search, writes, images and shares.
// GET /land-for-sale/:id takes a slug.
func ListingRoutes(h *handler.ListingHandler, g Guards) *DomainGroup {
	return NewDomainGroup("listing", "/land-for-sale").
		GET("", h.Index).
		POST("", g.Auth, h.Create).
		GET("/:id", h.Show).
		PUT("/:id", g.Auth, h.Update).
		DELETE("/:id", g.Auth, h.Delete).
		GET("/:id/geo", h.GeoInfo).
		GET("/:id/images", h.Images).
		POST("/:id/images", g.Auth, h.AddImage).
		PUT("/:id/images/:imageId", g.Auth, h.ReplaceImage).
		DELETE("/:id/images/:imageId", g.Auth, h.RemoveImage).
		POST("/:id/share", h.Share)
}

// AdminRoutes covers seller verification and user management
func AdminRoutes(h *handler.AdminHandler, g Guards) *DomainGroup {
	return NewDomainGroup("admin", "/admin").
		Use(g.Auth, g.Admin).
		POST("/verify-seller", h.VerifySeller).
		GET("/users", h.Users).
		GET("/users/search", h.SearchUsers).
		POST("/users/export", h.ExportUsers)
}

// SystemRoutes covers build info and liveness
func SystemRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("system", "/system").
		GET("/info", h.GetSystemInfo).
		GET("/ping", h.Ping)
}

// RegisterAPI queues every API group on r. Call r.Setup afterwards.
func RegisterAPI(r *Router, h Handlers, g Guards) *Router {
	return r.
		Register(AuthRoutes(h.Auth, g)).
		Register(UserRoutes(h.User, g)).
		Register(SellerRoutes(h.Seller, g)).
		Register(ListingRoutes(h.Listing, g)).
		Register(AdminRoutes(h.Admin, g)).
		Register(SystemRoutes(h.System))
}

package integration

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	adminapp "github.com/landmarket/backend/internal/application/admin"
	identityapp "github.com/landmarket/backend/internal/application/identity"
	listingapp "github.com/landmarket/backend/internal/application/listing"
	mediaapp "github.com/landmarket/backend/internal/application/media"
	sellerapp "github.com/landmarket/backend/internal/application/seller"
	"github.com/landmarket/backend/internal/domain/identity"
	"github.com/landmarket/backend/internal/domain/listing"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/landmarket/backend/internal/infrastructure/auth"
	"github.com/landmarket/backend/internal/infrastructure/cache"
	"github.com/landmarket/backend/internal/infrastructure/config"
	"github.com/landmarket/backend/internal/infrastructure/event"
	"github.com/landmarket/backend/internal/infrastructure/imaging"
	"github.com/landmarket/backend/internal/infrastructure/mail"
	"github.com/landmarket/backend/internal/infrastructure/persistence"
	"github.com/landmarket/backend/internal/infrastructure/storage"
	"github.com/landmarket/backend/internal/interfaces/http/handler"
	"github.com/landmarket/backend/internal/interfaces/http/middleware"
	"github.com/landmarket/backend/internal/interfaces/http/router"
	"github.com/landmarket/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// apiServer is the HTTP API wired the way cmd/server wires it, with files
// kept in memory
type apiServer struct {
	DB     *TestDB
	Engine *gin.Engine
	Files  *storage.MemoryStorage
	Events *testutil.EventRecorder
}

func newAPIServer(t *testing.T) *apiServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	tdb := NewSharedTestDB(t)
	log := zap.NewNop()

	files := storage.NewMemoryStorage("/images")
	blacklist := auth.NewInMemoryTokenBlacklist()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-secret-key-at-least-32-chars",
		RefreshSecret:          "integration-refresh-secret-at-least-32",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "landmarket-test",
		MaxRefreshCount:        10,
	})

	recorder := testutil.NewEventRecorder()
	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(recorder)
	listingCache := cache.NewInMemoryListingCache(time.Hour)

	userRepo := persistence.NewGormUserRepository(tdb.DB)
	sellerRepo := persistence.NewGormSellerRepository(tdb.DB)
	resetRepo := persistence.NewGormPasswordResetRepository(tdb.DB)

	listingRepo := persistence.NewGormListingRepository(tdb.DB, files.URL)
	invalidator := cache.NewListingInvalidator(listingCache, listingRepo)
	bus.Subscribe(invalidator, invalidator.EventTypes()...)

	images := mediaapp.NewImageService(persistence.NewGormImageRepository(tdb.DB), files, imaging.NewResizer(80), mediaapp.DefaultConfig(), log)
	listings := listingapp.NewService(
		persistence.NewGormListingSearchRepository(tdb.DB),
		listingRepo,
		persistence.NewGormShareRepository(tdb.DB),
		images, listingCache, bus, log,
	)
	sellers := sellerapp.NewService(sellerRepo, listings, images, bus, log)
	users := identityapp.NewUserService(userRepo, sellers, blacklist, 24*time.Hour, log)
	authService := identityapp.NewAuthService(userRepo, resetRepo, jwtService, blacklist, mail.NewLogMailer(log),
		identityapp.DefaultAuthServiceConfig(), log)
	admin := adminapp.NewService(persistence.NewGormAdminRepository(tdb.DB), sellerRepo, bus, log)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	router.RegisterAPI(router.NewRouter(engine), router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(users),
		Seller:  handler.NewSellerHandler(sellers, images.URL),
		Listing: handler.NewListingHandler(listings, images.URL),
		Admin:   handler.NewAdminHandler(admin, images.URL),
		System:  handler.NewSystemHandler("landmarket", "test", nil),
	}, router.Guards{
		Auth: middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
		}),
		Admin: middleware.RequireAdmin(log),
	}).Setup()

	return &apiServer{DB: tdb, Engine: engine, Files: files, Events: recorder}
}

func (s *apiServer) client(t *testing.T) *testutil.Client {
	return testutil.NewClient(t, s.Engine)
}

type authBody struct {
	Token struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	} `json:"token"`
	User struct {
		ID    uint64 `json:"id"`
		Email string `json:"email"`
		Role  int    `json:"role"`
	} `json:"user"`
}

type sellerBody struct {
	ID       uint64 `json:"id"`
	Slug     string `json:"slug"`
	Verified bool   `json:"verified"`
	Logo     *struct {
		URL string `json:"url"`
	} `json:"logo"`
}

type imageBody struct {
	ID        uint64 `json:"id"`
	Rendition string `json:"rendition"`
	URL       string `json:"url"`
}

type listingBody struct {
	ID     uint64 `json:"id"`
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Price  string `json:"price"`
	Images []imageBody `json:"images"`
	Geo    *struct {
		State      string `json:"state"`
		RoadAccess string `json:"road_access"`
	} `json:"geo"`
	Seller *struct {
		Slug string `json:"slug"`
	} `json:"seller"`
}

type pairBody struct {
	ID       uint64    `json:"id"`
	Fullsize imageBody `json:"fullsize"`
	Preview  imageBody `json:"preview"`
}

func register(t *testing.T, c *testutil.Client, email string) authBody {
	t.Helper()
	w := c.Do(http.MethodPost, "/api/v1/register", map[string]string{
		"email":                 email,
		"f_name":                "Jane",
		"l_name":                "Landowner",
		"password":              "secret123",
		"password_confirmation": "secret123",
	})
	return testutil.Data[authBody](t, w, http.StatusCreated)
}

func login(t *testing.T, c *testutil.Client, email, password string) authBody {
	t.Helper()
	w := c.Do(http.MethodPost, "/api/v1/login", map[string]string{"email": email, "password": password})
	return testutil.Data[authBody](t, w, http.StatusOK)
}

func sellerPayload(email string) map[string]string {
	return map[string]string{
		"company":      "River Land Co",
		"email":        email,
		"client_url":   "https://riverland.example.com",
		"f_name":       "Jane",
		"l_name":       "Landowner",
		"mail_address": "12 Ranch Road",
		"phone_number": "5125550100",
	}
}

func listingPayload(title string, roadAccess uint64) map[string]any {
	geo := map[string]any{
		"state":     "TX",
		"county":    "Travis",
		"city":      "Austin",
		"zip":       "78701",
		"acreage":   40,
		"longitude": -97.75,
		"latitude":  30.25,
	}
	if roadAccess != 0 {
		geo["road_access_id"] = roadAccess
	}
	return map[string]any{
		"title":       title,
		"description": "Rolling hills with a creek",
		"price":       "125000",
		"geo":         geo,
	}
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestAPI_SellerListingLifecycle(t *testing.T) {
	srv := newAPIServer(t)
	anon := srv.client(t)

	owner := register(t, anon, "jane@example.com")
	jane := anon.As(owner.Token.AccessToken)

	// A listing needs a seller first
	w := jane.Do(http.MethodPost, "/api/v1/land-for-sale", listingPayload("Hill Ranch", 0))
	testutil.AssertError(t, w, http.StatusUnprocessableEntity, shared.CodeNoSeller)

	seller := testutil.Data[sellerBody](t, jane.Do(http.MethodPost, "/api/v1/seller", sellerPayload("sales@riverland.example.com")), http.StatusCreated)
	assert.Equal(t, "river-land-co", seller.Slug)
	assert.False(t, seller.Verified)

	w = jane.Do(http.MethodPost, "/api/v1/seller", sellerPayload("other@riverland.example.com"))
	testutil.AssertError(t, w, http.StatusConflict, shared.CodeAlreadyExists)

	paved := srv.DB.RoadAccessID("Paved")
	created := testutil.Data[listingBody](t, jane.Do(http.MethodPost, "/api/v1/land-for-sale", listingPayload("Hill Ranch", paved)), http.StatusCreated)
	assert.Equal(t, "hill-ranch", created.Slug)

	cheaper := listingPayload("Hill Ranch", 0)
	cheaper["price"] = "80000"
	second := testutil.Data[listingBody](t, jane.Do(http.MethodPost, "/api/v1/land-for-sale", cheaper), http.StatusCreated)
	assert.Equal(t, "hill-ranch-2", second.Slug)

	listingPath := fmt.Sprintf("/api/v1/land-for-sale/%d", created.ID)

	// Images are stored as a fullsize and preview pair
	pair := testutil.Data[pairBody](t, jane.Upload(http.MethodPost, listingPath+"/images", jpegBytes(t, 1600, 1000)), http.StatusCreated)
	assert.Equal(t, "fullsize", pair.Fullsize.Rendition)
	assert.Equal(t, "preview", pair.Preview.Rendition)
	assert.True(t, strings.HasPrefix(pair.Fullsize.URL, "/images/fullsize/"))
	assert.True(t, strings.HasPrefix(pair.Preview.URL, "/images/preview/"))
	assert.Equal(t, 2, srv.Files.Len())

	w = jane.Upload(http.MethodPost, listingPath+"/images", []byte("not an image"))
	testutil.AssertError(t, w, http.StatusBadRequest, shared.CodeValidation)
	assert.Equal(t, 2, srv.Files.Len(), "a rejected upload stores nothing")

	urls := testutil.Data[[]string](t, anon.Do(http.MethodGet, listingPath+"/images", nil), http.StatusOK)
	assert.NotEmpty(t, urls)

	// Search and show are public
	w = anon.Do(http.MethodGet, "/api/v1/land-for-sale?state=TX&acreage=40&price=125000", nil)
	found := testutil.Data[[]listingBody](t, w, http.StatusOK)
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)
	require.NotNil(t, found[0].Seller)
	assert.Equal(t, "river-land-co", found[0].Seller.Slug)
	env := testutil.Decode(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)
	assert.Equal(t, shared.PageSize, env.Meta.PageSize)

	all := testutil.Data[[]listingBody](t, anon.Do(http.MethodGet, "/api/v1/land-for-sale", nil), http.StatusOK)
	assert.Len(t, all, 2)

	w = anon.Do(http.MethodGet, "/api/v1/land-for-sale?acreage=many", nil)
	testutil.AssertError(t, w, http.StatusBadRequest, shared.CodeValidation)

	shown := testutil.Data[listingBody](t, anon.Do(http.MethodGet, "/api/v1/land-for-sale/hill-ranch", nil), http.StatusOK)
	assert.Equal(t, "Hill Ranch", shown.Title)
	require.NotNil(t, shown.Geo)
	assert.Equal(t, "Paved", shown.Geo.RoadAccess)
	assert.Len(t, shown.Images, 2)

	// Updates reach readers through cache invalidation; the slug stays put
	update := listingPayload("Hill Ranch Reduced", paved)
	update["price"] = "99000"
	updated := testutil.Data[listingBody](t, jane.Do(http.MethodPut, listingPath, update), http.StatusOK)
	assert.Equal(t, "hill-ranch", updated.Slug)
	shown = testutil.Data[listingBody](t, anon.Do(http.MethodGet, "/api/v1/land-for-sale/hill-ranch", nil), http.StatusOK)
	assert.Equal(t, "Hill Ranch Reduced", shown.Title)

	geo := testutil.Data[map[string]any](t, anon.Do(http.MethodGet, listingPath+"/geo", nil), http.StatusOK)
	assert.Equal(t, "Travis", geo["county"])

	share := testutil.Data[map[string]any](t, anon.Do(http.MethodPost, listingPath+"/share", map[string]any{"network_id": 3}), http.StatusCreated)
	assert.EqualValues(t, created.ID, share["listing_id"])

	// Someone else cannot touch the listing
	intruder := register(t, anon, "mallory@example.com")
	w = anon.As(intruder.Token.AccessToken).Do(http.MethodPut, listingPath, update)
	testutil.AssertError(t, w, http.StatusForbidden, shared.CodeForbidden)
	w = anon.As(intruder.Token.AccessToken).Do(http.MethodDelete, listingPath, nil)
	testutil.AssertError(t, w, http.StatusForbidden, shared.CodeForbidden)

	// Replacing a pair swaps both files
	replaced := testutil.Data[pairBody](t, jane.Upload(http.MethodPut, fmt.Sprintf("%s/images/%d", listingPath, pair.Fullsize.ID), jpegBytes(t, 400, 300)), http.StatusOK)
	assert.NotEqual(t, pair.Fullsize.URL, replaced.Fullsize.URL)
	assert.Equal(t, 2, srv.Files.Len())

	w = jane.Do(http.MethodDelete, fmt.Sprintf("%s/images/%d", listingPath, replaced.Preview.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, srv.Files.Len())

	// Deleting the account removes the seller and every listing
	jane.Upload(http.MethodPost, listingPath+"/images", jpegBytes(t, 200, 200))
	require.Equal(t, 2, srv.Files.Len())
	w = jane.Do(http.MethodDelete, fmt.Sprintf("/api/v1/user/%d", owner.User.ID), nil)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	testutil.AssertError(t, anon.Do(http.MethodGet, "/api/v1/land-for-sale/hill-ranch", nil), http.StatusNotFound, shared.CodeNotFound)
	testutil.AssertError(t, anon.Do(http.MethodGet, "/api/v1/seller/river-land-co", nil), http.StatusNotFound, shared.CodeNotFound)
	assert.Zero(t, srv.Files.Len())

	assert.ElementsMatch(t, []uint64{created.ID, second.ID}, srv.Events.Aggregates(listing.EventTypeListingCreated))
	assert.ElementsMatch(t, []uint64{created.ID, second.ID}, srv.Events.Aggregates(listing.EventTypeListingDeleted))
}

func TestAPI_SellerLogo(t *testing.T) {
	srv := newAPIServer(t)
	anon := srv.client(t)

	owner := register(t, anon, "logo@example.com")
	c := anon.As(owner.Token.AccessToken)
	seller := testutil.Data[sellerBody](t, c.Do(http.MethodPost, "/api/v1/seller", sellerPayload("logo@riverland.example.com")), http.StatusCreated)

	path := fmt.Sprintf("/api/v1/seller/%d/logo", seller.ID)
	logo := testutil.Data[imageBody](t, c.Upload(http.MethodPost, path, jpegBytes(t, 800, 800)), http.StatusOK)
	assert.Equal(t, "logo", logo.Rendition)
	assert.Equal(t, 1, srv.Files.Len())

	// A new logo replaces the old file
	testutil.Data[imageBody](t, c.Upload(http.MethodPost, path, jpegBytes(t, 500, 500)), http.StatusOK)
	assert.Equal(t, 1, srv.Files.Len())

	shown := testutil.Data[sellerBody](t, anon.Do(http.MethodGet, "/api/v1/seller/"+seller.Slug, nil), http.StatusOK)
	require.NotNil(t, shown.Logo)
	assert.True(t, strings.HasPrefix(shown.Logo.URL, "/images/logo/"))
}

func TestAPI_AuthSessions(t *testing.T) {
	srv := newAPIServer(t)
	anon := srv.client(t)

	registered := register(t, anon, "Sam@Example.com")
	assert.Equal(t, "sam@example.com", registered.User.Email)

	w := anon.Do(http.MethodPost, "/api/v1/register", map[string]string{
		"email": "sam@example.com", "f_name": "Sam", "l_name": "Samson",
		"password": "secret123", "password_confirmation": "secret123",
	})
	testutil.AssertError(t, w, http.StatusConflict, shared.CodeAlreadyExists)

	w = anon.Do(http.MethodPost, "/api/v1/login", map[string]string{"email": "sam@example.com", "password": "wrong-pass"})
	testutil.AssertError(t, w, http.StatusUnauthorized, shared.CodeInvalidCredentials)

	session := login(t, anon, "SAM@example.com", "secret123")
	profile := testutil.Data[map[string]any](t, anon.As(session.Token.AccessToken).Do(http.MethodGet, "/api/v1/profile", nil), http.StatusOK)
	assert.Equal(t, "sam@example.com", profile["email"])

	refreshed := testutil.Data[authBody](t, anon.Do(http.MethodPost, "/api/v1/refresh", map[string]string{
		"refresh_token": session.Token.RefreshToken,
	}), http.StatusOK)
	assert.NotEmpty(t, refreshed.Token.AccessToken)

	// Logout revokes the presented token only
	w = anon.As(session.Token.AccessToken).Do(http.MethodGet, "/api/v1/logout", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = anon.As(session.Token.AccessToken).Do(http.MethodGet, "/api/v1/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = anon.As(refreshed.Token.AccessToken).Do(http.MethodGet, "/api/v1/profile", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Social login reuses the account with the same email
	social := testutil.Data[authBody](t, anon.Do(http.MethodPost, "/api/v1/social/google", map[string]string{
		"email": "sam@example.com", "f_name": "Sam", "l_name": "Samson",
	}), http.StatusOK)
	assert.Equal(t, registered.User.ID, social.User.ID)
	w = anon.Do(http.MethodPost, "/api/v1/social/myspace", map[string]string{"email": "x@example.com"})
	testutil.AssertError(t, w, http.StatusBadRequest, shared.CodeValidation)
}

func TestAPI_PasswordReset(t *testing.T) {
	srv := newAPIServer(t)
	anon := srv.client(t)
	register(t, anon, "forgetful@example.com")

	w := anon.Do(http.MethodPost, "/api/v1/forgot", map[string]string{
		"email": "forgetful@example.com", "client_url": "https://app.example.com/reset",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var token string
	require.NoError(t, srv.DB.DB.Raw(`SELECT token FROM password_resets WHERE email = ?`, "forgetful@example.com").Scan(&token).Error)
	require.NotEmpty(t, token)

	w = anon.Do(http.MethodPost, "/api/v1/reset", map[string]string{
		"token": "bogus", "password": "newpass1", "password_confirmation": "newpass1",
	})
	testutil.AssertError(t, w, http.StatusNotFound, shared.CodeNotFound)

	testutil.Data[authBody](t, anon.Do(http.MethodPost, "/api/v1/reset", map[string]string{
		"token": token, "password": "newpass1", "password_confirmation": "newpass1",
	}), http.StatusOK)

	login(t, anon, "forgetful@example.com", "newpass1")
	w = anon.Do(http.MethodPost, "/api/v1/login", map[string]string{"email": "forgetful@example.com", "password": "secret123"})
	testutil.AssertError(t, w, http.StatusUnauthorized, shared.CodeInvalidCredentials)

	// Tokens are single use
	w = anon.Do(http.MethodPost, "/api/v1/reset", map[string]string{
		"token": token, "password": "newpass2", "password_confirmation": "newpass2",
	})
	testutil.AssertError(t, w, http.StatusNotFound, shared.CodeNotFound)
}

func TestAPI_Admin(t *testing.T) {
	srv := newAPIServer(t)
	anon := srv.client(t)

	owner := register(t, anon, "owner@example.com")
	seller := testutil.Data[sellerBody](t, anon.As(owner.Token.AccessToken).Do(http.MethodPost, "/api/v1/seller", sellerPayload("owner@riverland.example.com")), http.StatusCreated)

	register(t, anon, "boss@example.com")
	w := anon.As(login(t, anon, "boss@example.com", "secret123").Token.AccessToken).Do(http.MethodGet, "/api/v1/admin/users", nil)
	testutil.AssertError(t, w, http.StatusForbidden, shared.CodeForbidden)

	srv.DB.PromoteToAdmin("boss@example.com")
	admin := anon.As(login(t, anon, "boss@example.com", "secret123").Token.AccessToken)

	verified := testutil.Data[sellerBody](t, admin.Do(http.MethodPost, "/api/v1/admin/verify-seller", map[string]any{"seller_id": seller.ID}), http.StatusOK)
	assert.True(t, verified.Verified)
	testutil.Data[sellerBody](t, admin.Do(http.MethodPost, "/api/v1/admin/verify-seller", map[string]any{"seller_id": seller.ID}), http.StatusOK)
	assert.Equal(t, []uint64{seller.ID}, srv.Events.Aggregates(identity.EventTypeSellerVerified), "verifying twice announces once")

	w = admin.Do(http.MethodPost, "/api/v1/admin/verify-seller", map[string]any{"seller_id": 9999})
	testutil.AssertError(t, w, http.StatusNotFound, shared.CodeNotFound)

	users := testutil.Data[[]map[string]any](t, admin.Do(http.MethodGet, "/api/v1/admin/users", nil), http.StatusOK)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.NotContains(t, u, "password")
	}

	admins := testutil.Data[[]map[string]any](t, admin.Do(http.MethodGet, "/api/v1/admin/users/search?role=1", nil), http.StatusOK)
	require.Len(t, admins, 1)
	assert.Equal(t, "boss@example.com", admins[0]["email"])

	w = admin.Do(http.MethodPost, "/api/v1/admin/users/export", map[string]any{"ids": []uint64{owner.User.ID}, "format": "csv"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "owner@example.com")
	assert.NotContains(t, w.Body.String(), "boss@example.com")
}

func TestAPI_SellerChangesReachCachedListings(t *testing.T) {
	srv := newAPIServer(t)
	anon := srv.client(t)

	owner := register(t, anon, "cached@example.com")
	jane := anon.As(owner.Token.AccessToken)
	seller := testutil.Data[sellerBody](t, jane.Do(http.MethodPost, "/api/v1/seller", sellerPayload("cached@riverland.example.com")), http.StatusCreated)
	testutil.Data[listingBody](t, jane.Do(http.MethodPost, "/api/v1/land-for-sale", listingPayload("Cedar Flats", 0)), http.StatusCreated)

	type sellerSummary struct {
		Company  string `json:"company"`
		Verified bool   `json:"verified"`
		Logo     *struct {
			URL string `json:"url"`
		} `json:"logo"`
	}
	view := func() sellerSummary {
		t.Helper()
		body := testutil.Data[struct {
			Seller *sellerSummary `json:"seller"`
		}](t, anon.Do(http.MethodGet, "/api/v1/land-for-sale/cedar-flats", nil), http.StatusOK)
		require.NotNil(t, body.Seller)
		return *body.Seller
	}

	first := view()
	assert.False(t, first.Verified)
	assert.Nil(t, first.Logo)

	register(t, anon, "chief@example.com")
	srv.DB.PromoteToAdmin("chief@example.com")
	admin := anon.As(login(t, anon, "chief@example.com", "secret123").Token.AccessToken)
	testutil.Data[sellerBody](t, admin.Do(http.MethodPost, "/api/v1/admin/verify-seller", map[string]any{"seller_id": seller.ID}), http.StatusOK)
	assert.True(t, view().Verified)

	renamed := sellerPayload("cached@riverland.example.com")
	renamed["company"] = "Cedar Land Partners"
	testutil.Data[sellerBody](t, jane.Do(http.MethodPut, fmt.Sprintf("/api/v1/seller/%d", seller.ID), renamed), http.StatusOK)
	assert.Equal(t, "Cedar Land Partners", view().Company)

	logoPath := fmt.Sprintf("/api/v1/seller/%d/logo", seller.ID)
	testutil.Data[imageBody](t, jane.Upload(http.MethodPost, logoPath, jpegBytes(t, 300, 300)), http.StatusOK)
	withLogo := view()
	require.NotNil(t, withLogo.Logo)

	replaced := testutil.Data[imageBody](t, jane.Upload(http.MethodPost, logoPath, jpegBytes(t, 320, 320)), http.StatusOK)
	latest := view()
	require.NotNil(t, latest.Logo)
	assert.Equal(t, replaced.URL, latest.Logo.URL)
	assert.NotEqual(t, withLogo.Logo.URL, latest.Logo.URL)
}


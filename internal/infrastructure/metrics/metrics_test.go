package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/landmarket/backend/internal/domain/media"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMiddleware(t *testing.T) {
	reg := New("landmarket")
	r := gin.New()
	r.Use(reg.Middleware())
	r.GET("/api/v1/listings/:slug", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/v1/listings/a", "/api/v1/listings/b", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(reg.requestsTotal.WithLabelValues("/api/v1/listings/:slug", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.requestsTotal.WithLabelValues("unmatched", "GET", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.inFlight))
	assert.Equal(t, 2, testutil.CollectAndCount(reg.requestDuration))
}

func TestImageStoredAndCacheLookup(t *testing.T) {
	reg := New("landmarket")

	reg.ImageStored(media.RenditionFullsize, 1000)
	reg.ImageStored(media.RenditionPreview, 200)
	reg.ImageStored(media.RenditionPreview, 300)
	reg.CacheLookup(true)
	reg.CacheLookup(false)
	reg.CacheLookup(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.imagesStored.WithLabelValues("fullsize")))
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.imagesStored.WithLabelValues("preview")))
	assert.Equal(t, 500.0, testutil.ToFloat64(reg.imageBytes.WithLabelValues("preview")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.cacheLookups.WithLabelValues("miss")))
}

func TestHandler(t *testing.T) {
	reg := New("landmarket")
	reg.CacheLookup(true)

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `landmarket_listing_cache_lookups_total{result="hit"} 1`))
	assert.Contains(t, body, "go_goroutines")
}

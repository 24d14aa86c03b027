package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var authorsProfile = CacheProfile{MaxAge: 60, MustRevalidate: true}

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(Recovery(), RequestID(), Logger(), HTTPCacheHeaders(authorsProfile))

	r.GET("/authors", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"name": "Berry"})
	})
	r.GET("/courses/:id", CacheExpiration(CacheProfile{MaxAge: 1000, Public: true}), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})
	r.GET("/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})
	r.POST("/authors", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHTTPCacheHeaders_Defaults(t *testing.T) {
	w := serve(newEngine(), httptest.NewRequest(http.MethodGet, "/authors", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "private, max-age=60, must-revalidate", w.Header().Get("Cache-Control"))
	assert.Equal(t, "Accept", w.Header().Get("Vary"))
	assert.NotEmpty(t, w.Header().Get("ETag"))
	assert.JSONEq(t, `{"name":"Berry"}`, w.Body.String())
}

func TestHTTPCacheHeaders_RouteOverride(t *testing.T) {
	w := serve(newEngine(), httptest.NewRequest(http.MethodGet, "/courses/1", nil))

	assert.Equal(t, "public, max-age=1000", w.Header().Get("Cache-Control"))
}

func TestHTTPCacheHeaders_NotModified(t *testing.T) {
	engine := newEngine()
	first := serve(engine, httptest.NewRequest(http.MethodGet, "/authors", nil))
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/authors", nil)
	req.Header.Set("If-None-Match", etag)
	second := serve(engine, req)

	assert.Equal(t, http.StatusNotModified, second.Code)
	assert.Empty(t, second.Body.String())
	assert.Equal(t, etag, second.Header().Get("ETag"))
}

func TestHTTPCacheHeaders_SkipsErrorsAndWrites(t *testing.T) {
	engine := newEngine()

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Header().Get("Cache-Control"))

	w = serve(engine, httptest.NewRequest(http.MethodPost, "/authors", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Header().Get("ETag"))
}

func TestRecovery(t *testing.T) {
	w := serve(newEngine(), httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "An unexpected fault happened. Try again later.")
}

func TestRequestID(t *testing.T) {
	engine := newEngine()

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/authors", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/authors", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = serve(engine, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestEtagMatches(t *testing.T) {
	assert.True(t, etagMatches(`"a", "b"`, `"b"`))
	assert.True(t, etagMatches(`W/"b"`, `"b"`))
	assert.True(t, etagMatches(`*`, `"b"`))
	assert.False(t, etagMatches(``, `"b"`))
	assert.False(t, etagMatches(`"a"`, `"b"`))
}

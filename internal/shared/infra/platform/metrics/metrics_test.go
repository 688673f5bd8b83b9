package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestObservePage(t *testing.T) {
	// Act
	ObservePage("user", "FORWARD", OutcomeOK, 3)
	ObservePage("user", "", OutcomeInvalid, 0)
	ObserveCountCache(true)

	// Assert
	body := scrape(t)
	assert.Contains(t, body, `relaypage_pagination_requests_total{direction="FORWARD",entity="user",outcome="ok"}`)
	assert.Contains(t, body, `relaypage_pagination_requests_total{direction="unknown",entity="user",outcome="invalid_arguments"}`)
	assert.Contains(t, body, `relaypage_pagination_page_size_bucket{entity="user",le="5"}`)
	assert.Contains(t, body, `relaypage_count_cache_lookups_total{result="hit"}`)
}

func TestMiddlewareAndHandler(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(Handler()))

	// Act
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping/1", nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `relaypage_http_requests_total{method="GET",route="/ping/:id",status="204"}`)
}

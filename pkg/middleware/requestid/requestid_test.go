package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, Value(c)) })
	return r
}

func TestMiddlewareGeneratesID(t *testing.T) {
	rec := httptest.NewRecorder()
	newEngine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	id := rec.Header().Get(headerKey)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, rec.Body.String())
}

func TestMiddlewareKeepsInboundID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerKey, "trace-42")
	rec := httptest.NewRecorder()
	newEngine().ServeHTTP(rec, req)
	assert.Equal(t, "trace-42", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerKey, strings.Repeat("x", 200))
	rec = httptest.NewRecorder()
	newEngine().ServeHTTP(rec, req)
	assert.NotEqual(t, strings.Repeat("x", 200), rec.Body.String())
}

func TestMiddlewareReplacesUnsafeID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerKey, "abc def\"}")
	rec := httptest.NewRecorder()
	newEngine().ServeHTTP(rec, req)

	_, err := uuid.Parse(rec.Body.String())
	assert.NoError(t, err)
	assert.True(t, wellFormed("2024-09-02T08:00:00.123_node-1"))
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corsRouter(origins ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(origins))
	router.POST("/api/v1/analyze", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func preflight(router *gin.Engine, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/analyze", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCORSOptionsPreflight(t *testing.T) {
	resp := preflight(corsRouter("http://localhost:5173/"), "http://localhost:5173")

	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "http://localhost:5173", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, resp.Header().Get("Access-Control-Allow-Headers"), "X-Guest-Id")
	assert.Equal(t, "600", resp.Header().Get("Access-Control-Max-Age"))
}

func TestCORSHeadersOnPost(t *testing.T) {
	router := corsRouter("http://localhost:5173")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "http://localhost:5173", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, resp.Header().Get("Access-Control-Expose-Headers"), "Retry-After")
	assert.Empty(t, resp.Header().Get("Access-Control-Max-Age"))
}

func TestCORSRejectsUnlistedPreflight(t *testing.T) {
	resp := preflight(corsRouter("http://localhost:5173"), "https://evil.example")

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSUnlistedSimpleRequestGetsNoHeaders(t *testing.T) {
	router := corsRouter("http://localhost:5173")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", resp.Header().Get("Vary"))
}

func TestCORSWildcardEchoesOrigin(t *testing.T) {
	resp := preflight(corsRouter("*"), "https://app.example")

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "https://app.example", resp.Header().Get("Access-Control-Allow-Origin"))
}

package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorWritesFlatBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	aborted := false
	r.GET("/x", func(c *gin.Context) {
		Error(c, http.StatusServiceUnavailable, "upstream_timeout", "analysis timed out", map[string]any{"retryAfter": 30})
		aborted = c.IsAborted()
	}, func(c *gin.Context) {
		c.String(http.StatusOK, "unreachable")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.True(t, aborted)
	assert.NotContains(t, w.Body.String(), "unreachable")
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "analysis timed out", body["error"])
	assert.Equal(t, "upstream_timeout", body["code"])
	assert.Equal(t, map[string]any{"retryAfter": float64(30)}, body["details"])
}

func TestValidationListsFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	type payload struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var p payload
		if err := c.ShouldBindJSON(&p); err != nil {
			Validation(c, err)
			return
		}
		OK(c, p)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"email":"nope","password":"123"}`)))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Code    string       `json:"code"`
		Details []FieldIssue `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation_failed", body.Code)
	assert.ElementsMatch(t, []FieldIssue{
		{Field: "email", Issue: "must be a valid email address"},
		{Field: "password", Issue: "must be at least 6 characters"},
	}, body.Details)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{`)))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"invalid_request"`)
}

func TestSuccessResponsesAreUncacheable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ok", func(c *gin.Context) { OK(c, gin.H{"token": "t"}) })
	r.POST("/created", func(c *gin.Context) { Created(c, gin.H{"id": "u1"}) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"token":"t"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/created", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

package bootstrap

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragebait-resume/internal/llm"
	"ragebait-resume/internal/shared/config"
	"ragebait-resume/internal/shared/storage/cache"
	"ragebait-resume/internal/users"
)

func testConfig(t *testing.T) config.Config {
	return config.Config{
		Port:            "0",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:3000"},
		LocalStoreDir:   t.TempDir(),
		ObjectStoreType: "local",
		MaxUploadBytes:  1 << 20,
	}
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestBuildDevDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := Build(testConfig(t))
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.DB)
	assert.IsType(t, &users.MemoryRepo{}, app.UsersRepo)
	assert.IsType(t, cache.Noop{}, app.Cache)
	assert.IsType(t, llm.PlaceholderClient{}, app.LLM)

	resp := serve(app.Router, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"ok":true}`, resp.Body.String())

	resp = serve(app.Router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestBuildRequiresDatabaseOutsideDev(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = "staging"
	_, err := Build(cfg)
	assert.Error(t, err)
}

func TestBuildRequiresJWTSecretInProduction(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = "production"
	cfg.DatabaseURL = "postgres://unused"
	_, err := Build(cfg)
	assert.Error(t, err)
}

func TestAnalyzeWithoutKeyFailsFast(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := Build(testConfig(t))
	require.NoError(t, err)

	for _, path := range []string{"/api/v1/analyze", "/api/analyze"} {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("resume", "resume.txt")
		require.NoError(t, err)
		_, _ = part.Write([]byte("Jane Doe\nSoftware Engineer\nBuilt things in Go for five years."))
		require.NoError(t, writer.WriteField("roastIntensity", "savage"))
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, path, body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp := serve(app.Router, req)

		require.Equal(t, http.StatusInternalServerError, resp.Code, path)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
		assert.Equal(t, "missing_credentials", payload["code"])
	}
}

func TestFallbackRoutesWithoutKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := Build(testConfig(t))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/interview/question",
		bytes.NewBufferString(`{"questionCount":1,"jobPosition":"Data Analyst"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := serve(app.Router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "question")

	req = httptest.NewRequest(http.MethodPost, "/api/v1/job-recommendations",
		bytes.NewBufferString(`{"resumeData":{"text":"Go developer"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp = serve(app.Router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "fallback")
}

func TestAccountRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := Build(testConfig(t))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		bytes.NewBufferString(`{"username":"roastee","email":"r@example.com","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := serve(app.Router, req)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &session))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	resp = serve(app.Router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"savedResumes":[]`)

	resp = serve(app.Router, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/start", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

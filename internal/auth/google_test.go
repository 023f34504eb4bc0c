package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"ragebait-resume/internal/users"
)

type fakeIssuer struct {
	got users.GoogleProfile
}

func (f *fakeIssuer) UpsertGoogleUser(_ context.Context, p users.GoogleProfile) (users.Session, error) {
	f.got = p
	return users.Session{Token: "signed-token", User: users.User{ID: "u1", Email: p.Email}}, nil
}

func newGoogleRouter(svc *GoogleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc.RegisterRoutes(r.Group("/api/v1/auth"))
	return r
}

func TestGoogleNotConfigured(t *testing.T) {
	router := newGoogleRouter(NewGoogleService(GoogleConfig{}, &fakeIssuer{}))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "auth_not_configured")
}

func TestGoogleFlow(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer","expires_in":3600}`))
		case "/userinfo":
			if r.Header.Get("Authorization") != "Bearer at" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"id":"123","email":"jane@gmail.com","name":"Jane","picture":"https://pic"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer provider.Close()

	issuer := &fakeIssuer{}
	svc := NewGoogleService(GoogleConfig{
		ClientID:     "cid",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/api/v1/auth/google/callback",
		UIRedirect:   "http://localhost:3000/auth/callback",
	}, issuer)
	svc.oauthConfig.Endpoint = oauth2.Endpoint{AuthURL: provider.URL + "/auth", TokenURL: provider.URL + "/token"}
	svc.userInfoURL = provider.URL + "/userinfo"
	router := newGoogleRouter(svc)

	start := httptest.NewRecorder()
	router.ServeHTTP(start, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google", nil))
	require.Equal(t, http.StatusFound, start.Code)
	loc, err := url.Parse(start.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)

	cb := httptest.NewRecorder()
	router.ServeHTTP(cb, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?code=abc&state="+state, nil))
	require.Equal(t, http.StatusFound, cb.Code, cb.Body.String())
	assert.Equal(t, "http://localhost:3000/auth/callback?token=signed-token", cb.Header().Get("Location"))
	assert.Equal(t, "jane@gmail.com", issuer.got.Email)
	assert.Equal(t, "Jane", issuer.got.FullName)

	replay := httptest.NewRecorder()
	router.ServeHTTP(replay, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?code=abc&state="+state, nil))
	assert.Equal(t, http.StatusBadRequest, replay.Code)
}

func TestGoogleCallbackMissingParams(t *testing.T) {
	svc := NewGoogleService(GoogleConfig{ClientID: "cid", ClientSecret: "s", RedirectURL: "http://x/cb"}, &fakeIssuer{})
	router := newGoogleRouter(svc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAppendToken(t *testing.T) {
	got, err := appendToken("http://ui/cb?x=1", "t")
	require.NoError(t, err)
	assert.Equal(t, "http://ui/cb?token=t&x=1", got)

	_, err = appendToken("", "t")
	assert.Error(t, err)
}

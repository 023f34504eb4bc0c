package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragebait-resume/internal/llm"
)

func TestRecommendFromModel(t *testing.T) {
	var seen llm.Request
	svc := &Service{LLM: llm.ClientFunc(func(ctx context.Context, req llm.Request) (string, error) {
		seen = req
		return `{"recommendations":[` + oneRec + `]}`, nil
	})}

	resp := svc.Recommend(context.Background(), Request{
		ResumeData:  &ResumeData{Text: strings.Repeat("x", 150)},
		JobPosition: "Analyst",
	})

	assert.Equal(t, SourceAI, resp.Source)
	assert.Empty(t, resp.Note)
	require.Len(t, resp.Recommendations, 1)

	assert.True(t, seen.JSON)
	assert.Equal(t, DefaultModel, seen.Model)
	assert.Equal(t, 1000, seen.MaxTokens)
	user := seen.Messages[1].Content
	assert.Contains(t, user, "Resume summary: "+strings.Repeat("x", 100)+"...\n")
	assert.Contains(t, user, "Position: Analyst")
	assert.Contains(t, user, "Industry: Not specified")
}

func TestRecommendFallbacks(t *testing.T) {
	tests := []struct {
		name string
		out  string
		err  error
		note string
	}{
		{name: "missing key", err: llm.ErrMissingCredentials, note: "Using fallback recommendations due to missing API key"},
		{name: "upstream", err: errors.New("boom"), note: "Using fallback recommendations due to GROQ API error"},
		{name: "bad output", out: "nope", note: "Using fallback recommendations due to invalid AI response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &Service{LLM: llm.ClientFunc(func(context.Context, llm.Request) (string, error) { return tt.out, tt.err })}
			resp := svc.Recommend(context.Background(), Request{ResumeData: &ResumeData{}})
			assert.Equal(t, SourceFallback, resp.Source)
			assert.Equal(t, tt.note, resp.Note)
			require.Len(t, resp.Recommendations, 2)
			assert.Equal(t, "Google", resp.Recommendations[0].Company)
			assert.Equal(t, 85, resp.Recommendations[0].MatchScore)
			assert.Equal(t, 80, resp.Recommendations[1].MatchScore)
		})
	}
}

func TestFallbackReturnsCopy(t *testing.T) {
	a := Fallback()
	a[0].Skills[0] = "changed"
	assert.Equal(t, "Problem-solving", Fallback()[0].Skills[0])
}

func TestHandlerRequiresResumeData(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(&Service{LLM: llm.PlaceholderClient{}}).RegisterRoutes(r.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/job-recommendations", strings.NewReader(`{"jobPosition":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/job-recommendations", strings.NewReader(`{"resumeData":{"text":"Go dev"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var body Response
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, SourceFallback, body.Source)
	assert.Len(t, body.Recommendations, 2)
}

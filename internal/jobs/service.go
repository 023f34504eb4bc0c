package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ragebait-resume/internal/llm"
	"ragebait-resume/internal/shared/metrics"
	"ragebait-resume/internal/shared/telemetry"
)

const DefaultModel = "llama3-70b-8192"

// summaryRunes is how much resume text the prompt quotes.
const summaryRunes = 100

const systemPrompt = "You are a job matching AI. You must respond ONLY with a JSON array containing exactly 2 job recommendations."

const userPrompt = `Provide exactly 2 job recommendations in JSON format based on the following:

Resume summary: %s...
Position: %s
Industry: %s

FORMAT YOUR RESPONSE AS A VALID JSON ARRAY with exactly 2 objects, each containing:
- title (string)
- company (string)
- description (string)
- matchScore (number between 65-95)
- skills (array of 3-5 strings)
- whyMatch (string)`

// Service produces job recommendations, falling back to a canned pair.
type Service struct {
	LLM   llm.Client
	Model string
}

// Recommend never fails; problems surface as a fallback response with a note.
func (s *Service) Recommend(ctx context.Context, req Request) Response {
	if s.LLM == nil {
		return s.fallback(ctx, "missing API key", llm.ErrMissingCredentials)
	}

	model := s.Model
	if model == "" {
		model = DefaultModel
	}
	out, err := s.LLM.Complete(ctx, llm.Request{
		Operation: "job_recommendations",
		Model:     model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: buildPrompt(req)},
		},
		Temperature: 0.5,
		MaxTokens:   1000,
		JSON:        true,
	})
	switch {
	case errors.Is(err, llm.ErrMissingCredentials):
		return s.fallback(ctx, "missing API key", err)
	case err != nil:
		return s.fallback(ctx, "GROQ API error", err)
	}

	recs := ParseRecommendations(out)
	if len(recs) == 0 {
		return s.fallback(ctx, "invalid AI response", nil)
	}
	return Response{Recommendations: recs, Source: SourceAI}
}

func buildPrompt(req Request) string {
	summary := "Not provided"
	if req.ResumeData != nil {
		if text := strings.TrimSpace(req.ResumeData.Text); text != "" {
			summary = llm.TruncateRunes(text, summaryRunes)
		}
	}
	return fmt.Sprintf(userPrompt, summary, orNotSpecified(req.JobPosition), orNotSpecified(req.JobField))
}

func orNotSpecified(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "Not specified"
	}
	return s
}

func (s *Service) fallback(ctx context.Context, reason string, err error) Response {
	metrics.IncFallback("job_recommendations")
	fields := map[string]any{"reason": reason, "request_id": telemetry.RequestID(ctx)}
	if err != nil {
		fields["error"] = llm.SanitizeMessage(err.Error())
	}
	telemetry.Warn("jobs.fallback", fields)
	return Response{
		Recommendations: Fallback(),
		Source:          SourceFallback,
		Note:            "Using fallback recommendations due to " + reason,
	}
}

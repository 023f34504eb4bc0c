package interview

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"ragebait-resume/internal/llm"
	"ragebait-resume/internal/shared/metrics"
	"ragebait-resume/internal/shared/telemetry"
)

const (
	DefaultQuestionModel = "llama3-70b-8192"
	DefaultFeedbackModel = "llama2-70b-4096"
)

// Service generates interview questions and scores answers.
// Every operation degrades to canned content instead of failing.
type Service struct {
	LLM           llm.Client
	QuestionModel string
	FeedbackModel string
	// IntN picks a fallback index; nil uses math/rand/v2.
	IntN func(n int) int
}

// NextQuestion returns a question for the candidate.
func (s *Service) NextQuestion(ctx context.Context, req QuestionRequest) (string, Source) {
	req.JobPosition = strings.TrimSpace(req.JobPosition)
	req.JobField = strings.TrimSpace(req.JobField)

	if s.LLM != nil {
		system := strings.TrimSpace(fmt.Sprintf(questionSystemPrompt, resumeContext(req.ResumeData), jobContext(req.JobPosition, req.JobField)))
		out, err := s.LLM.Complete(ctx, llm.Request{
			Operation: "interview_question",
			Model:     orDefault(s.QuestionModel, DefaultQuestionModel),
			Messages: []llm.Message{
				{Role: llm.RoleSystem, Content: system},
				{Role: llm.RoleUser, Content: questionUserPrompt(req.QuestionCount, req.PreviousQuestions)},
			},
			Temperature: 0.7,
			MaxTokens:   150,
		})
		if q := cleanQuestion(out); err == nil && q != "" {
			return q, SourceAI
		}
		s.logFallback(ctx, "interview_question", err)
	} else {
		s.logFallback(ctx, "interview_question", llm.ErrMissingCredentials)
	}

	pool := unused(fallbackPool(req), req.PreviousQuestions)
	return pool[s.intN(len(pool))], SourceFallback
}

// Assess scores a transcribed answer.
func (s *Service) Assess(ctx context.Context, req FeedbackRequest) (Feedback, Source) {
	if isInappropriate(req.Transcript) {
		return inappropriateFeedback(), SourceFilter
	}
	if s.LLM == nil {
		s.logFallback(ctx, "interview_feedback", llm.ErrMissingCredentials)
		return fallbackFeedback(req.Transcript), SourceFallback
	}

	out, err := s.LLM.Complete(ctx, llm.Request{
		Operation: "interview_feedback",
		Model:     orDefault(s.FeedbackModel, DefaultFeedbackModel),
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: fmt.Sprintf(feedbackSystemPrompt, answerContext(req.ResumeData))},
			{Role: llm.RoleUser, Content: fmt.Sprintf(feedbackUserPrompt, strings.TrimSpace(req.Question), strings.TrimSpace(req.Transcript))},
		},
		Temperature: 0.5,
		MaxTokens:   800,
	})
	if err == nil {
		if fb, ok := parseFeedback(out); ok {
			return fb, SourceAI
		}
	}
	s.logFallback(ctx, "interview_feedback", err)
	return fallbackFeedback(req.Transcript), SourceFallback
}

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// parseFeedback reads the outermost JSON object in a completion.
func parseFeedback(completion string) (Feedback, bool) {
	raw := jsonObjectRe.FindString(llm.StripFences(completion))
	if raw == "" || !gjson.Valid(raw) {
		return Feedback{}, false
	}
	doc := gjson.Parse(raw)
	text := strings.TrimSpace(doc.Get("feedback").String())
	score := doc.Get("score")
	if text == "" || !score.Exists() {
		return Feedback{}, false
	}

	fb := Feedback{
		Feedback:       text,
		Score:          clamp(int(score.Int()), 1, 10),
		IsProfessional: true,
		Strengths:      stringArray(doc.Get("strengths")),
		Improvements:   stringArray(doc.Get("improvements")),
	}
	if p := doc.Get("isProfessional"); p.Exists() {
		fb.IsProfessional = p.Bool()
	}
	return fb, true
}

func stringArray(v gjson.Result) []string {
	out := []string{}
	if !v.IsArray() {
		if s := strings.TrimSpace(v.String()); s != "" {
			out = append(out, s)
		}
		return out
	}
	for _, item := range v.Array() {
		if s := strings.TrimSpace(item.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func cleanQuestion(s string) string {
	s = strings.TrimSpace(llm.StripFences(s))
	return strings.Trim(s, `"`)
}

func (s *Service) intN(n int) int {
	if n <= 1 {
		return 0
	}
	if s.IntN != nil {
		if i := s.IntN(n); i >= 0 && i < n {
			return i
		}
		return 0
	}
	return rand.IntN(n)
}

func (s *Service) logFallback(ctx context.Context, feature string, err error) {
	metrics.IncFallback(feature)
	fields := map[string]any{"feature": feature, "request_id": telemetry.RequestID(ctx)}
	if err != nil {
		fields["error"] = llm.SanitizeMessage(err.Error())
	}
	telemetry.Warn("interview.fallback", fields)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

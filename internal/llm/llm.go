package llm

import (
	"context"
	"strings"
)

// Chat roles understood by OpenAI-compatible providers.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes a single chat completion call.
type Request struct {
	// Operation labels the call in logs and metrics (analyze, interview_question, ...).
	Operation   string
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int
	// JSON asks the provider for a json_object response.
	JSON bool
}

// Client abstracts chat completion providers.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f ClientFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// PlaceholderClient is used when no provider key is configured.
type PlaceholderClient struct{}

// Complete always returns ErrMissingCredentials.
func (PlaceholderClient) Complete(context.Context, Request) (string, error) {
	return "", ErrMissingCredentials
}

// StripFences removes a surrounding markdown code fence from model output.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

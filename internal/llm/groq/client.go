package groq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"github.com/tidwall/gjson"

	"ragebait-resume/internal/llm"
	"ragebait-resume/internal/shared/metrics"
	"ragebait-resume/internal/shared/telemetry"
)

const (
	DefaultBaseURL  = "https://api.groq.com/openai/v1"
	DefaultTimeout  = 60 * time.Second
	breakerName     = "groq"
	completionsPath = "/chat/completions"
)

// Config holds explicit client settings; nothing is read from the environment here.
type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint64
	// InitialBackoff is the first retry wait; later waits grow exponentially.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// BreakerFailures consecutive failures open the breaker for BreakerCooldown.
	BreakerFailures uint32
	BreakerCooldown time.Duration
	HTTPClient      *http.Client
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 500 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 8 * time.Second
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = 5
	}
	if c.BreakerCooldown <= 0 {
		c.BreakerCooldown = 30 * time.Second
	}
	return c
}

// Client implements llm.Client against Groq's OpenAI-compatible API.
type Client struct {
	cfg     Config
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker[string]
}

// NewClient constructs a Groq client. A missing key is reported per call, not here.
func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()

	httpClient := resty.New()
	if cfg.HTTPClient != nil {
		httpClient = resty.NewWithClient(cfg.HTTPClient)
	}
	httpClient.
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	c := &Client{cfg: cfg, http: httpClient}
	c.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			metrics.SetBreakerState(name, int(to))
			telemetry.Warn("llm.breaker_state", map[string]any{
				"name": name,
				"from": from.String(),
				"to":   to.String(),
			})
		},
		IsSuccessful: breakerSuccess,
	})
	return c
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []llm.Message   `json:"messages"`
	Temperature    float32         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// Complete sends one chat completion and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	if !llm.HasCredentials(c.cfg.APIKey) {
		return "", llm.ErrMissingCredentials
	}
	if strings.TrimSpace(req.Model) == "" {
		return "", errors.New("groq: model is required")
	}
	operation := req.Operation
	if operation == "" {
		operation = "completion"
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body := chatRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	start := time.Now()
	content, err := c.breaker.Execute(func() (string, error) {
		return c.completeWithRetry(ctx, operation, body)
	})
	elapsed := time.Since(start)
	if err != nil {
		err = classify(ctx, err)
		metrics.ObserveLLMRequest(operation, outcome(err), elapsed)
		telemetry.Error("llm.failed", map[string]any{
			"operation":   operation,
			"model":       req.Model,
			"duration_ms": elapsed.Milliseconds(),
			"err":         err.Error(),
		})
		return "", err
	}
	metrics.ObserveLLMRequest(operation, "ok", elapsed)
	return content, nil
}

func (c *Client) completeWithRetry(ctx context.Context, operation string, body chatRequest) (string, error) {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.cfg.InitialBackoff
	expo.MaxInterval = c.cfg.MaxBackoff
	expo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(expo, c.cfg.MaxRetries), ctx)

	attempt := 0
	op := func() (string, error) {
		attempt++
		return c.send(ctx, operation, body)
	}
	notify := func(err error, wait time.Duration) {
		metrics.IncLLMRetry(operation)
		telemetry.Warn("llm.retry", map[string]any{
			"operation": operation,
			"attempt":   attempt,
			"wait_ms":   wait.Milliseconds(),
			"err":       err.Error(),
		})
	}
	return backoff.RetryNotifyWithData(op, policy, notify)
}

func (c *Client) send(ctx context.Context, operation string, body chatRequest) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.cfg.APIKey).
		SetBody(body).
		Post(completionsPath)
	if err != nil {
		if ctx.Err() != nil {
			return "", backoff.Permanent(ctx.Err())
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", llm.ErrUpstreamTimeout
		}
		return "", &llm.UpstreamError{Unreachable: true, Message: llm.SanitizeMessage(err.Error()), Err: err}
	}

	raw := resp.Body()
	status := resp.StatusCode()
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "", backoff.Permanent(fmt.Errorf("%w: status %d", llm.ErrMissingCredentials, status))
	case status < 200 || status >= 300:
		upErr := &llm.UpstreamError{StatusCode: status, Message: errorMessage(raw, status)}
		if upErr.Retryable() {
			return "", upErr
		}
		return "", backoff.Permanent(upErr)
	}

	if !json.Valid(raw) {
		return "", backoff.Permanent(&llm.UpstreamError{StatusCode: status, Message: "invalid JSON response"})
	}
	content := gjson.GetBytes(raw, "choices.0.message.content")
	if !content.Exists() {
		return "", backoff.Permanent(&llm.UpstreamError{StatusCode: status, Message: "response missing choices"})
	}
	logUsage(operation, raw)
	return strings.TrimSpace(content.String()), nil
}

func errorMessage(raw []byte, status int) string {
	if msg := gjson.GetBytes(raw, "error.message"); msg.Exists() && msg.String() != "" {
		return llm.SanitizeMessage(msg.String())
	}
	if text := llm.SanitizeMessage(string(raw)); text != "" {
		return text
	}
	return http.StatusText(status)
}

func logUsage(operation string, raw []byte) {
	usage := gjson.GetBytes(raw, "usage")
	telemetry.Info("llm.completed", map[string]any{
		"operation":         operation,
		"model":             gjson.GetBytes(raw, "model").String(),
		"prompt_tokens":     usage.Get("prompt_tokens").Int(),
		"completion_tokens": usage.Get("completion_tokens").Int(),
		"total_tokens":      usage.Get("total_tokens").Int(),
	})
}

// classify maps breaker, context and transport failures onto the llm error kinds.
func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &llm.UpstreamError{Unreachable: true, Message: "circuit breaker open", Err: err}
	case errors.Is(err, llm.ErrMissingCredentials), errors.Is(err, llm.ErrUpstreamTimeout):
		return err
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", llm.ErrUpstreamTimeout, err)
	}
	return err
}

// breakerSuccess keeps caller mistakes from tripping the breaker.
func breakerSuccess(err error) bool {
	if err == nil || errors.Is(err, llm.ErrMissingCredentials) || errors.Is(err, context.Canceled) {
		return true
	}
	var upErr *llm.UpstreamError
	if errors.As(err, &upErr) && !upErr.Retryable() {
		return true
	}
	return false
}

func outcome(err error) string {
	switch {
	case errors.Is(err, llm.ErrMissingCredentials):
		return "missing_credentials"
	case errors.Is(err, llm.ErrUpstreamTimeout):
		return "timeout"
	case llm.IsUnavailable(err):
		return "unreachable"
	default:
		return "error"
	}
}

var _ llm.Client = (*Client)(nil)

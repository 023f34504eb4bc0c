package analyses

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"ragebait-resume/internal/extract"
	"ragebait-resume/internal/llm"
	"ragebait-resume/internal/roast"
	"ragebait-resume/internal/shared/metrics"
	"ragebait-resume/internal/shared/storage/cache"
	"ragebait-resume/internal/shared/storage/object"
	"ragebait-resume/internal/shared/telemetry"
)

const (
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1500
	DefaultCacheTTL    = 24 * time.Hour

	archiveTimeout = 5 * time.Second
	cacheVersion   = "roast_v1"
)

// Service runs the extract, prompt, complete and parse pipeline.
type Service struct {
	LLM llm.Client
	// Store archives uploads when set.
	Store object.ObjectStore
	// Cache holds parsed results keyed by input hash when set.
	Cache          cache.Cache
	CacheTTL       time.Duration
	Parser         *roast.Parser
	Model          string
	PromptMaxRunes int
}

// Analyze roasts one uploaded resume.
func (s *Service) Analyze(ctx context.Context, in Input) (Analysis, error) {
	startedAt := time.Now()
	metrics.IncAnalysisStarted()

	req := roast.Request{
		Intensity:   in.Intensity,
		JobPosition: in.JobPosition,
		JobField:    in.JobField,
	}.Normalized()
	resumeID := ulid.Make().String()
	fields := map[string]any{
		"request_id": telemetry.RequestID(ctx),
		"resume_id":  resumeID,
		"intensity":  req.Intensity.String(),
		"file_name":  in.FileName,
		"size_bytes": len(in.Data),
	}

	if len(in.Data) == 0 {
		return Analysis{}, s.fail(ErrMissingFile, fields, startedAt)
	}
	if s.LLM == nil {
		return Analysis{}, s.fail(errors.New("missing llm client"), fields, startedAt)
	}

	text, err := extract.ExtractText(ctx, in.Data, in.FileName)
	if err != nil {
		return Analysis{}, s.fail(fmt.Errorf("extract %s: %w", in.FileName, err), fields, startedAt)
	}
	req.ResumeText = text
	fields["text_runes"] = len([]rune(text))

	out := Analysis{Response: Response{
		ResumeID:       resumeID,
		RoastIntensity: req.Intensity.String(),
		JobPosition:    req.JobPosition,
		JobField:       req.JobField,
	}}
	out.StorageKey = s.archive(ctx, in, resumeID, text, fields)

	key := cacheKey(req)
	if cached, ok := s.lookup(ctx, key, fields); ok {
		out.Result = cached
		out.Cached = true
		s.complete(out, fields, startedAt)
		return out, nil
	}

	prompt, err := llm.BuildRoastPrompt(llm.RoastInput{
		ResumeText:  req.ResumeText,
		Intensity:   req.Intensity,
		JobPosition: req.JobPosition,
		JobField:    req.JobField,
		MaxRunes:    s.PromptMaxRunes,
	})
	if err != nil {
		return Analysis{}, s.fail(fmt.Errorf("build prompt: %w", err), fields, startedAt)
	}
	fields["prompt_version"] = prompt.Version

	completion, err := s.LLM.Complete(ctx, llm.Request{
		Operation:   "analyze",
		Model:       s.model(),
		Messages:    prompt.Messages(),
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	})
	if err != nil {
		return Analysis{}, s.fail(fmt.Errorf("llm complete: %w", err), fields, startedAt)
	}

	result, report := s.parser().Parse(completion, req)
	out.Result = result
	out.Report = report
	if report.Degraded() {
		for sec, tier := range report.Tiers {
			if tier != roast.TierPrecise {
				metrics.IncParseDegraded(string(sec), tier.String())
			}
		}
		telemetry.Warn("analysis.parse_degraded", merge(fields, map[string]any{
			"sections":    report.DegradedSections(),
			"gate_found":  report.GateFound,
			"score_found": report.ScoreFound,
		}))
	}

	s.remember(ctx, key, result, fields)
	s.complete(out, fields, startedAt)
	return out, nil
}

func (s *Service) complete(out Analysis, fields map[string]any, startedAt time.Time) {
	elapsed := time.Since(startedAt)
	metrics.IncAnalysisCompleted(out.RoastIntensity, out.IsValidResume, out.Score)
	metrics.ObserveAnalysisDuration(elapsed)
	telemetry.Info("analysis.completed", merge(fields, map[string]any{
		"score":        out.Score,
		"letter_grade": out.Grade(),
		"valid_resume": out.IsValidResume,
		"cached":       out.Cached,
		"degraded":     out.Report.Degraded(),
		"duration_ms":  durationMs(elapsed),
	}))
}

func (s *Service) fail(err error, fields map[string]any, startedAt time.Time) error {
	elapsed := time.Since(startedAt)
	f := classifyFailure(err)
	metrics.IncAnalysisFailed(f.Code)
	metrics.ObserveAnalysisDuration(elapsed)
	telemetry.Error("analysis.failed", merge(fields, map[string]any{
		"code":        f.Code,
		"error":       sanitizeError(err),
		"duration_ms": durationMs(elapsed),
	}))
	return err
}

// archive stores the upload and its extracted text; failures are logged only.
func (s *Service) archive(ctx context.Context, in Input, resumeID, text string, fields map[string]any) string {
	if s.Store == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, archiveTimeout)
	defer cancel()

	obj, err := s.Store.Save(ctx, in.Owner, resumeID, in.FileName, bytes.NewReader(in.Data))
	if err != nil {
		telemetry.Warn("analysis.archive_failed", merge(fields, map[string]any{"error": sanitizeError(err)}))
		return ""
	}
	if _, err := s.Store.SaveWithKey(ctx, object.ExtractedKey(obj.Key), "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		telemetry.Warn("analysis.archive_failed", merge(fields, map[string]any{
			"storage_key": obj.Key,
			"error":       sanitizeError(err),
		}))
	}
	return obj.Key
}

func (s *Service) lookup(ctx context.Context, key string, fields map[string]any) (roast.Result, bool) {
	if s.Cache == nil {
		return roast.Result{}, false
	}
	raw, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		metrics.IncCacheResult("error")
		telemetry.Warn("cache.error", merge(fields, map[string]any{"op": "get", "error": sanitizeError(err)}))
		return roast.Result{}, false
	}
	if !ok {
		metrics.IncCacheResult("miss")
		return roast.Result{}, false
	}
	var result roast.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		metrics.IncCacheResult("error")
		telemetry.Warn("cache.error", merge(fields, map[string]any{"op": "decode", "error": sanitizeError(err)}))
		return roast.Result{}, false
	}
	metrics.IncCacheResult("hit")
	return result, true
}

func (s *Service) remember(ctx context.Context, key string, result roast.Result, fields map[string]any) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	ttl := s.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if err := s.Cache.Set(ctx, key, raw, ttl); err != nil {
		telemetry.Warn("cache.error", merge(fields, map[string]any{"op": "set", "error": sanitizeError(err)}))
	}
}

func (s *Service) parser() *roast.Parser {
	if s.Parser != nil {
		return s.Parser
	}
	return roast.NewParser(roast.Options{})
}

func (s *Service) model() string {
	if s.Model != "" {
		return s.Model
	}
	return DefaultModel
}

// cacheKey hashes everything the completion depends on.
func cacheKey(req roast.Request) string {
	h := sha256.New()
	for _, part := range []string{cacheVersion, req.Intensity.String(), req.JobPosition, req.JobField, req.ResumeText} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func merge(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}

package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	analysisStartedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analysis_started_total",
		Help: "Total analyses started",
	})
	analysisCompletedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_completed_total",
		Help: "Total analyses completed by intensity and resume validity",
	}, []string{"intensity", "valid"})
	analysisFailedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_failed_total",
		Help: "Total analyses failed by error code",
	}, []string{"code"})
	analysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "analysis_duration_seconds",
		Help:    "End-to-end analysis duration in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})
	analysisScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "analysis_score",
		Help:    "Distribution of returned resume scores",
		Buckets: []float64{0, 45, 55, 60, 65, 70, 75, 80, 85, 90, 95, 100},
	})
	parseDegradedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_parse_degraded_total",
		Help: "Sections recovered by a fallback parsing tier",
	}, []string{"section", "tier"})

	llmRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_requests_total",
		Help: "Completion calls by operation and outcome",
	}, []string{"operation", "outcome"})
	llmRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_request_duration_seconds",
		Help:    "Completion call duration in seconds",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
	}, []string{"operation"})
	llmRetriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_retries_total",
		Help: "Completion retries by operation",
	}, []string{"operation"})
	llmBreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "llm_breaker_state",
		Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
	}, []string{"name"})

	fallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fallback_responses_total",
		Help: "Responses served from canned fallbacks by feature",
	}, []string{"feature"})
	cacheRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_cache_requests_total",
		Help: "Analysis cache lookups by result",
	}, []string{"result"})

	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "method", "status"})
	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"route", "method"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		analysisStartedTotal,
		analysisCompletedTotal,
		analysisFailedTotal,
		analysisDuration,
		analysisScore,
		parseDegradedTotal,
		llmRequestsTotal,
		llmRequestDuration,
		llmRetriesTotal,
		llmBreakerState,
		fallbackTotal,
		cacheRequestsTotal,
		httpRequestsTotal,
		httpRequestDuration,
	)
}

// Registry returns the registry backing the /metrics endpoint.
func Registry() *prometheus.Registry {
	return registry
}

// IncAnalysisStarted increments the started counter.
func IncAnalysisStarted() {
	analysisStartedTotal.Inc()
}

// IncAnalysisCompleted counts a finished analysis and records its score.
func IncAnalysisCompleted(intensity string, valid bool, score int) {
	analysisCompletedTotal.WithLabelValues(intensity, strconv.FormatBool(valid)).Inc()
	analysisScore.Observe(float64(score))
}

// IncAnalysisFailed counts a failed analysis by error code.
func IncAnalysisFailed(code string) {
	analysisFailedTotal.WithLabelValues(code).Inc()
}

// ObserveAnalysisDuration records an end-to-end analysis duration.
func ObserveAnalysisDuration(d time.Duration) {
	analysisDuration.Observe(d.Seconds())
}

// IncParseDegraded counts a section that needed a fallback tier.
func IncParseDegraded(section, tier string) {
	parseDegradedTotal.WithLabelValues(section, tier).Inc()
}

// ObserveLLMRequest records one completion call.
func ObserveLLMRequest(operation, outcome string, d time.Duration) {
	llmRequestsTotal.WithLabelValues(operation, outcome).Inc()
	llmRequestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncLLMRetry counts a retried completion attempt.
func IncLLMRetry(operation string) {
	llmRetriesTotal.WithLabelValues(operation).Inc()
}

// SetBreakerState publishes a circuit breaker state.
func SetBreakerState(name string, state int) {
	llmBreakerState.WithLabelValues(name).Set(float64(state))
}

// IncFallback counts a response served from a canned fallback.
func IncFallback(feature string) {
	fallbackTotal.WithLabelValues(feature).Inc()
}

// IncCacheResult counts an analysis cache lookup (hit, miss, error).
func IncCacheResult(result string) {
	cacheRequestsTotal.WithLabelValues(result).Inc()
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(route, method string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

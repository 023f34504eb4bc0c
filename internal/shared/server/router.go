package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ragebait-resume/internal/analyses"
	googleauth "ragebait-resume/internal/auth"
	"ragebait-resume/internal/interview"
	"ragebait-resume/internal/jobs"
	"ragebait-resume/internal/services/health"
	"ragebait-resume/internal/shared/auth"
	"ragebait-resume/internal/shared/config"
	"ragebait-resume/internal/shared/metrics"
	"ragebait-resume/internal/shared/server/middleware"
	"ragebait-resume/internal/users"
)

const (
	rateGroupAnalyze = "ANALYZE"
	rateGroupDefault = "DEFAULT"
)

// RouterDeps carries the handlers mounted by NewRouter. Nil handlers are skipped.
type RouterDeps struct {
	Config           config.Config
	Signer           *auth.Signer
	Health           *health.Service
	AnalysisHandler  *analyses.Handler
	InterviewHandler *interview.Handler
	JobsHandler      *jobs.Handler
	UserHandler      *users.Handler
	GoogleAuth       *googleauth.GoogleService
	// RateLimiter overrides the limiter state, mainly for tests.
	RateLimiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Signer),
		middleware.RateLimit(rateLimitConfig(deps)),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	api.GET("/health", func(c *gin.Context) {
		report := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, report)
	})

	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
		// Older clients post to /api/analyze.
		deps.AnalysisHandler.RegisterRoutes(r.Group("/api"))
	}
	if deps.InterviewHandler != nil {
		deps.InterviewHandler.RegisterRoutes(api)
	}
	if deps.JobsHandler != nil {
		deps.JobsHandler.RegisterRoutes(api)
	}
	authGroup := api.Group("/auth")
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(authGroup)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(authGroup)
	}

	return r
}

func rateLimitConfig(deps RouterDeps) middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		DefaultGroup: rateGroupDefault,
		GroupFor:     rateGroupFor,
		Limiter:      deps.RateLimiter,
		Rules: map[string]middleware.RateLimitRule{
			rateGroupAnalyze: perMinute(deps.Config.RateLimitAnalyzePerMin),
			rateGroupDefault: perMinute(deps.Config.RateLimitDefaultPerMin),
		},
	}
}

// rateGroupFor puts every completion-backed route in the ANALYZE group.
func rateGroupFor(c *gin.Context) string {
	switch c.FullPath() {
	case "/api/v1/analyze", "/api/analyze",
		"/api/v1/interview/question", "/api/v1/interview/feedback",
		"/api/v1/job-recommendations":
		return rateGroupAnalyze
	}
	return rateGroupDefault
}

// perMinute converts a per-minute budget into a bucket; zero disables limiting.
func perMinute(n int) middleware.RateLimitRule {
	if n <= 0 {
		return middleware.RateLimitRule{}
	}
	return middleware.RateLimitRule{Rate: float64(n) / 60.0, Burst: n}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

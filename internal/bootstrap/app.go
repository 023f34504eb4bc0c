package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"ragebait-resume/internal/analyses"
	googleauth "ragebait-resume/internal/auth"
	"ragebait-resume/internal/interview"
	"ragebait-resume/internal/jobs"
	"ragebait-resume/internal/llm"
	"ragebait-resume/internal/llm/groq"
	"ragebait-resume/internal/roast"
	"ragebait-resume/internal/services/health"
	"ragebait-resume/internal/shared/auth"
	"ragebait-resume/internal/shared/config"
	"ragebait-resume/internal/shared/server"
	"ragebait-resume/internal/shared/storage/cache"
	"ragebait-resume/internal/shared/storage/db"
	"ragebait-resume/internal/shared/storage/object"
	localstore "ragebait-resume/internal/shared/storage/object/local"
	s3store "ragebait-resume/internal/shared/storage/object/s3"
	"ragebait-resume/internal/shared/telemetry"
	"ragebait-resume/internal/users"
)

const cachePrefix = "ragebait:"

// App holds shared dependencies and the HTTP router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Cache  cache.Cache
	LLM    llm.Client
	Signer *auth.Signer
	Health *health.Service

	UsersRepo        users.Store
	AnalysesService  *analyses.Service
	InterviewService *interview.Service
	JobsService      *jobs.Service
	UsersService     *users.Service
	GoogleAuth       *googleauth.GoogleService
}

// Build prepares every dependency from cfg and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	if cfg.LogLevel != "" {
		telemetry.SetLevel(cfg.LogLevel)
	}
	ctx := context.Background()

	signer, err := auth.NewSigner(cfg.JWTSecret, cfg.JWTTTL, cfg.IsProduction())
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Cache:  buildCache(ctx, cfg),
		LLM:    buildLLM(cfg),
		Signer: signer,
		Health: health.NewService(),
	}
	buildServices(app)

	if app.DB != nil {
		app.Health.Register("db", app.DB.PingContext)
	}
	if _, ok := app.Cache.(*cache.Redis); ok {
		app.Health.Register("cache", app.Cache.Ping)
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           cfg,
		Signer:           signer,
		Health:           app.Health,
		AnalysisHandler:  analyses.NewHandler(app.AnalysesService, cfg.MaxUploadBytes),
		InterviewHandler: interview.NewHandler(app.InterviewService),
		JobsHandler:      jobs.NewHandler(app.JobsService),
		UserHandler:      users.NewHandler(app.UsersService),
		GoogleAuth:       app.GoogleAuth,
	})

	return app, nil
}

// Close releases pooled connections.
func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
	if r, ok := a.Cache.(*cache.Redis); ok {
		_ = r.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory user store")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: database connect failed; using in-memory user store: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		if strings.TrimSpace(cfg.LocalStoreDir) == "" {
			return nil, nil
		}
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildCache(ctx context.Context, cfg config.Config) cache.Cache {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return cache.Noop{}
	}
	redisCache, err := cache.NewRedis(cfg.RedisURL, cachePrefix)
	if err != nil {
		log.Printf("bootstrap: invalid REDIS_URL; caching disabled: %v", err)
		return cache.Noop{}
	}
	if err := redisCache.Ping(ctx); err != nil {
		log.Printf("bootstrap: redis unreachable at startup; continuing: %v", err)
	}
	return redisCache
}

// buildLLM returns the Groq client, or a client that always reports missing
// credentials when no usable key is configured.
func buildLLM(cfg config.Config) llm.Client {
	if !llm.HasCredentials(cfg.GroqAPIKey) {
		log.Printf("bootstrap: GROQ_API_KEY not set; analyze will fail and interview/jobs will use fallbacks")
		return llm.PlaceholderClient{}
	}
	return groq.NewClient(groq.Config{
		APIKey:     cfg.GroqAPIKey,
		BaseURL:    cfg.GroqBaseURL,
		Timeout:    cfg.GroqTimeout,
		MaxRetries: cfg.GroqMaxRetries,
	})
}

func buildServices(app *App) {
	cfg := app.Config

	var userRepo users.Store
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		userRepo = users.NewMemoryRepo()
	}
	userSvc := users.NewService(userRepo, app.Signer)

	app.UsersRepo = userRepo
	app.UsersService = userSvc
	app.AnalysesService = &analyses.Service{
		LLM:            app.LLM,
		Store:          app.Store,
		Cache:          app.Cache,
		CacheTTL:       cfg.AnalysisCacheTTL,
		Parser:         roast.NewParser(roast.Options{}),
		Model:          cfg.GroqModel,
		PromptMaxRunes: cfg.PromptMaxRunes,
	}
	app.InterviewService = &interview.Service{
		LLM:           app.LLM,
		QuestionModel: cfg.GroqInterviewModel,
		FeedbackModel: cfg.GroqFeedbackModel,
	}
	app.JobsService = &jobs.Service{
		LLM:   app.LLM,
		Model: cfg.GroqJobsModel,
	}
	app.GoogleAuth = googleauth.NewGoogleService(googleauth.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		UIRedirect:   cfg.UIRedirectURL,
	}, userSvc)
}

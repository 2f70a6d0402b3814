package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"vetlab-backend/internal/analyses"
	"vetlab-backend/internal/extraction"
	"vetlab-backend/internal/inference"
	"vetlab-backend/internal/inference/gemini"
	"vetlab-backend/internal/interpret"
	"vetlab-backend/internal/prompts"
	"vetlab-backend/internal/shared/config"
	"vetlab-backend/internal/shared/server"
	"vetlab-backend/internal/shared/storage/db"
	"vetlab-backend/internal/shared/storage/object"
	localstore "vetlab-backend/internal/shared/storage/object/local"
	s3store "vetlab-backend/internal/shared/storage/object/s3"
	"vetlab-backend/internal/usage"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	PromptsRepo     prompts.Repo
	AnalysesRepo    analyses.Repo
	UsageService    *usage.Service
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
	UsageHandler    *usage.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

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
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		AnalysisHandler: app.AnalysisHandler,
		UsageHandler:    app.UsageHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
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
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) error {
	var promptRepo prompts.Repo
	var analysisRepo analyses.Repo
	var usageSvc *usage.Service

	if app.DB != nil {
		promptRepo = &prompts.PGRepo{DB: app.DB}
		analysisRepo = &analyses.PGRepo{DB: app.DB}
		usageSvc = usage.NewPostgresService(usage.NewPGStore(app.DB))
	} else {
		memPrompts := prompts.NewMemoryRepo()
		prompts.SeedDefaults(memPrompts, app.Config.GeminiModel)
		promptRepo = memPrompts
		analysisRepo = analyses.NewMemoryRepo()
		usageSvc = usage.NewService()
	}

	resolver := prompts.NewResolver(promptRepo)

	var extractor *extraction.Extractor
	var interpreter *interpret.Interpreter
	if strings.TrimSpace(app.Config.GeminiAPIKey) != "" {
		client, err := gemini.New(app.Config.GeminiAPIKey)
		if err != nil {
			return err
		}
		extractor = &extraction.Extractor{Resolver: resolver, Client: client}
		interpreter = &interpret.Interpreter{Resolver: resolver, Client: client}
	} else {
		if !isDevLike(app.Config.Env) {
			return fmt.Errorf("GEMINI_API_KEY is required")
		}
		// Dev without a key keeps the deterministic interpreter; extraction
		// cannot work without a model, so submissions will fail loudly.
		log.Printf("bootstrap: GEMINI_API_KEY empty; interpretation falls back to threshold findings")
		extractor = &extraction.Extractor{Resolver: resolver, Client: unavailableClient{}}
		interpreter = nil
	}

	analysisSvc := analyses.NewService(analysisRepo, usageSvc, app.Store, extractor, interpreter)

	app.PromptsRepo = promptRepo
	app.AnalysesRepo = analysisRepo
	app.UsageService = usageSvc
	app.AnalysesService = analysisSvc
	app.AnalysisHandler = analyses.NewHandler(analysisSvc)
	app.UsageHandler = usage.NewHandler(usageSvc)

	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

// unavailableClient stands in when no model API key is configured.
type unavailableClient struct{}

func (unavailableClient) Generate(ctx context.Context, req inference.Request) (string, error) {
	_ = ctx
	_ = req
	return "", &inference.ServiceError{Op: "generate content", Err: errors.New("inference client not configured")}
}

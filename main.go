package main

import (
	"context"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/nibura2002/AI-MIDI-generator/internal/api"
	"github.com/nibura2002/AI-MIDI-generator/internal/catalog"
	"github.com/nibura2002/AI-MIDI-generator/internal/config"
	"github.com/nibura2002/AI-MIDI-generator/internal/llm"
	"github.com/nibura2002/AI-MIDI-generator/internal/metrics"
	"github.com/nibura2002/AI-MIDI-generator/internal/observability"
	"github.com/nibura2002/AI-MIDI-generator/internal/pipeline"
	"github.com/nibura2002/AI-MIDI-generator/internal/runner"
	"github.com/nibura2002/AI-MIDI-generator/internal/store"
)

const (
	sentryFlushTimeout    = 2 * time.Second
	environmentProduction = "production"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	// A missing credential is the only fatal error: the pipeline never starts
	if err := cfg.Validate(); err != nil {
		log.Fatal("Configuration error: ", err)
	}

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "ai-midi-generator@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
			Debug:            cfg.Environment != environmentProduction,
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
	}

	ctx := context.Background()

	observability.InitializeLangfuse(ctx, cfg)

	metricsClient, err := metrics.NewClient(ctx, cfg.Environment)
	if err != nil {
		log.Printf("Failed to initialize CloudWatch metrics: %v", err)
	}

	// Generation history is optional
	var history *store.Store
	if cfg.DatabaseURL != "" {
		history, err = store.Connect(cfg.DatabaseURL)
		if err != nil {
			sentry.CaptureException(err)
			log.Fatal("Failed to connect to database: ", err)
		}
		log.Println("🗄️  Generation history: ENABLED")
	} else {
		log.Println("🗄️  Generation history: DISABLED (DATABASE_URL not set)")
	}

	// Genre catalog: built-in table unless a JSON override is configured
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		cat, err = catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			log.Fatal("Failed to load genre catalog: ", err)
		}
		log.Printf("🎼 Genre catalog loaded from %s", cfg.CatalogPath)
	}

	providers := llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey)
	executor := runner.New(cfg.PythonBin, cfg.WorkspaceDir, cfg.ExecTimeout)
	pipe := pipeline.New(providers, executor, cat, cfg.GenerationModel, history, metricsClient)

	if cfg.Environment == environmentProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.SetupRouter(pipe, history, cat, cfg, releaseVersion)

	log.Printf("🚀 Starting server on port %s (model: %s)", cfg.Port, cfg.GenerationModel)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server: ", err)
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const defaultExecTimeout = 60 * time.Second

// Config holds the application configuration. It is loaded once at startup
// and passed explicitly; nothing reads the environment after Load returns.
type Config struct {
	// Environment
	Environment string
	Port        string

	// LLM API keys and model selection
	OpenAIAPIKey    string // OpenAI API key for GPT models
	GeminiAPIKey    string // Google Gemini API key
	GenerationModel string // Default model for the generation pipeline

	// Execution environment for generated programs
	PythonBin    string        // Interpreter binary for generated source
	WorkspaceDir string        // Root directory for per-run work directories
	ExecTimeout  time.Duration // Wall-clock ceiling per child process

	// Genre catalog override (optional JSON file)
	CatalogPath string

	// Persistence (optional)
	DatabaseURL string

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse
}

// Load reads configuration from the environment with defaults
func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "8080"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GenerationModel:   getEnv("GENERATION_MODEL", "gpt-4o"),
		PythonBin:         getEnv("PYTHON_BIN", "python3"),
		WorkspaceDir:      getEnv("WORKSPACE_DIR", os.TempDir()),
		ExecTimeout:       getDurationSeconds("EXEC_TIMEOUT_SECONDS", defaultExecTimeout),
		CatalogPath:       getEnv("GENRE_CATALOG_PATH", ""),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		LangfusePublicKey: getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey: getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:      getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:   getEnv("LANGFUSE_ENABLED", "false") == "true",
	}
}

// Validate checks that the pipeline can start at all. A missing credential
// here is the only fatal error class; everything downstream is reported, not
// crashed.
func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" && c.GeminiAPIKey == "" {
		return fmt.Errorf("no LLM credential configured: set OPENAI_API_KEY or GEMINI_API_KEY")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getDurationSeconds(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}

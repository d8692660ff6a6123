package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "PORT", "OPENAI_API_KEY", "GEMINI_API_KEY",
		"GENERATION_MODEL", "PYTHON_BIN", "WORKSPACE_DIR",
		"EXEC_TIMEOUT_SECONDS", "GENRE_CATALOG_PATH", "DATABASE_URL",
		"SENTRY_DSN", "LANGFUSE_PUBLIC_KEY", "LANGFUSE_SECRET_KEY",
		"LANGFUSE_HOST", "LANGFUSE_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gpt-4o", cfg.GenerationModel)
	assert.Equal(t, "python3", cfg.PythonBin)
	assert.NotEmpty(t, cfg.WorkspaceDir)
	assert.Equal(t, 60*time.Second, cfg.ExecTimeout)
	assert.False(t, cfg.LangfuseEnabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("GENERATION_MODEL", "gemini-2.0-flash")
	t.Setenv("PYTHON_BIN", "/usr/local/bin/python3.12")
	t.Setenv("EXEC_TIMEOUT_SECONDS", "120")
	t.Setenv("LANGFUSE_ENABLED", "true")

	cfg := Load()
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "gemini-2.0-flash", cfg.GenerationModel)
	assert.Equal(t, "/usr/local/bin/python3.12", cfg.PythonBin)
	assert.Equal(t, 120*time.Second, cfg.ExecTimeout)
	assert.True(t, cfg.LangfuseEnabled)
}

func TestLoadBadTimeoutFallsBack(t *testing.T) {
	clearEnv(t)

	for _, value := range []string{"abc", "-5", "12.5"} {
		t.Setenv("EXEC_TIMEOUT_SECONDS", value)
		assert.Equal(t, 60*time.Second, Load().ExecTimeout, "value %q", value)
	}
}

func TestValidateRequiresCredential(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	require.Error(t, cfg.Validate(), "no key at all must be fatal")

	cfg.OpenAIAPIKey = "sk-test"
	assert.NoError(t, cfg.Validate())

	cfg.OpenAIAPIKey = ""
	cfg.GeminiAPIKey = "gk-test"
	assert.NoError(t, cfg.Validate(), "either provider credential suffices")
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so host settings do not leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, envs := range envBindings {
		for _, env := range envs {
			t.Setenv(env, "")
			require.NoError(t, os.Unsetenv(env))
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, ProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, DefaultOpenAIModel, cfg.OpenAIModel)
	assert.Equal(t, DefaultGeminiModel, cfg.GeminiModel)
	assert.Equal(t, DefaultMaxPDFMB, cfg.MaxPDFMB)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxPDFBytes())
	assert.Equal(t, DefaultFetchTimeout, cfg.FetchTimeout)
	assert.False(t, cfg.FetchUseBrowser)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 1000, cfg.RateLimit.DefaultLimit)

	limit, err := cfg.JSONBodyLimitBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(1000*1000), limit)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "4000")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-flash")
	t.Setenv("MAX_PDF_MB", "5")
	t.Setenv("JSON_BODY_LIMIT", "2MiB")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_ENABLED", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, ProviderGemini, cfg.LLMProvider)
	assert.Equal(t, "google-key", cfg.APIKey())
	assert.Equal(t, "gemini-2.0-flash", cfg.Model())
	assert.Equal(t, int64(5*1024*1024), cfg.MaxPDFBytes())
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.True(t, cfg.RateLimit.Enabled)

	limit, err := cfg.JSONBodyLimitBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(2*1024*1024), limit)
}

func TestLoad_GeminiKeyPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini-key", cfg.APIKey())
}

func TestLoad_LegacyUseGemini(t *testing.T) {
	clearEnv(t)
	t.Setenv("USE_GEMINI", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, cfg.LLMProvider)
}

func TestLoad_UnknownProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "anthropic")

	cfg, err := Load("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "llm_provider")
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	content := "port: 5050\nllm_provider: openai\nopenai_api_key: file-key\nrate_limit:\n  default_limit: 50\n"
	path := filepath.Join(t.TempDir(), "presence.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5050, cfg.Port)
	assert.Equal(t, "file-key", cfg.APIKey())
	assert.Equal(t, 50, cfg.RateLimit.DefaultLimit)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "presence.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 5050\n"), 0644))
	t.Setenv("PORT", "6060")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	valid := Config{
		Port:          3001,
		LLMProvider:   ProviderOpenAI,
		MaxPDFMB:      10,
		JSONBodyLimit: "1mb",
		FetchTimeout:  time.Second,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"bad port", func(c *Config) { c.Port = 0 }, "port"},
		{"zero pdf limit", func(c *Config) { c.MaxPDFMB = 0 }, "max_pdf_mb"},
		{"zero fetch timeout", func(c *Config) { c.FetchTimeout = 0 }, "fetch_timeout"},
		{"bad body limit", func(c *Config) { c.JSONBodyLimit = "lots" }, "json_body_limit"},
		{"bad provider", func(c *Config) { c.LLMProvider = "x" }, "llm_provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

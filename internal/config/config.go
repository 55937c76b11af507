// Package config provides configuration loading and validation for the analyzer.
// Values come from an optional config file and the environment, in that order of precedence (env wins).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// LLM providers accepted by LLM_PROVIDER
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Defaults
const (
	DefaultPort          = 3001
	DefaultMaxPDFMB      = 10
	DefaultJSONBodyLimit = "1mb"
	DefaultFetchTimeout  = 8 * time.Second
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultGeminiModel   = "gemini-2.5-flash"
)

// Config is the process-wide configuration, resolved once at start.
type Config struct {
	Port int `mapstructure:"port"`

	LLMProvider  string `mapstructure:"llm_provider"`
	UseGemini    bool   `mapstructure:"use_gemini"`
	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	OpenAIModel  string `mapstructure:"openai_model"`
	OpenAIURL    string `mapstructure:"openai_base_url"`
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`

	MaxPDFMB      int    `mapstructure:"max_pdf_mb"`
	JSONBodyLimit string `mapstructure:"json_body_limit"`

	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	FetchUseBrowser bool          `mapstructure:"fetch_use_browser"`

	LogJSON  bool `mapstructure:"log_json"`
	LogDebug bool `mapstructure:"log_debug"`

	RateLimit RateLimit `mapstructure:"rate_limit"`
}

// RateLimit configures the HTTP rate limiter.
type RateLimit struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Whitelist       string        `mapstructure:"whitelist"`
	Blacklist       string        `mapstructure:"blacklist"`
}

// envBindings maps config keys to the environment variables that may set them.
// The first variable that is set wins.
var envBindings = map[string][]string{
	"port":                        {"PORT"},
	"llm_provider":                {"LLM_PROVIDER"},
	"use_gemini":                  {"USE_GEMINI"},
	"openai_api_key":              {"OPENAI_API_KEY"},
	"openai_model":                {"OPENAI_MODEL"},
	"openai_base_url":             {"OPENAI_BASE_URL"},
	"gemini_api_key":              {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"gemini_model":                {"GEMINI_MODEL"},
	"max_pdf_mb":                  {"MAX_PDF_MB"},
	"json_body_limit":             {"JSON_BODY_LIMIT"},
	"fetch_timeout":               {"FETCH_TIMEOUT"},
	"fetch_use_browser":           {"FETCH_USE_BROWSER"},
	"log_json":                    {"LOG_JSON"},
	"log_debug":                   {"LOG_DEBUG"},
	"rate_limit.enabled":          {"RATE_LIMIT_ENABLED"},
	"rate_limit.default_limit":    {"RATE_LIMIT_DEFAULT_LIMIT"},
	"rate_limit.default_window":  {"RATE_LIMIT_DEFAULT_WINDOW"},
	"rate_limit.cleanup_interval": {"RATE_LIMIT_CLEANUP_INTERVAL"},
	"rate_limit.whitelist":        {"RATE_LIMIT_WHITELIST"},
	"rate_limit.blacklist":        {"RATE_LIMIT_BLACKLIST"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", DefaultPort)
	v.SetDefault("llm_provider", "")
	v.SetDefault("use_gemini", false)
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_model", DefaultOpenAIModel)
	v.SetDefault("openai_base_url", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", DefaultGeminiModel)
	v.SetDefault("max_pdf_mb", DefaultMaxPDFMB)
	v.SetDefault("json_body_limit", DefaultJSONBodyLimit)
	v.SetDefault("fetch_timeout", DefaultFetchTimeout)
	v.SetDefault("fetch_use_browser", false)
	v.SetDefault("log_json", false)
	v.SetDefault("log_debug", false)
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.default_limit", 1000)
	v.SetDefault("rate_limit.default_window", time.Minute)
	v.SetDefault("rate_limit.cleanup_interval", 5*time.Minute)
	v.SetDefault("rate_limit.whitelist", "")
	v.SetDefault("rate_limit.blacklist", "")
}

// Load resolves the configuration. path may be empty, in which case only defaults and the environment apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = ProviderOpenAI
		if cfg.UseGemini {
			cfg.LLMProvider = ProviderGemini
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.LLMProvider != ProviderOpenAI && c.LLMProvider != ProviderGemini {
		return fmt.Errorf("config error: 'llm_provider' must be %q or %q, got %q", ProviderOpenAI, ProviderGemini, c.LLMProvider)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535")
	}
	if c.MaxPDFMB <= 0 {
		return fmt.Errorf("config error: 'max_pdf_mb' must be positive")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("config error: 'fetch_timeout' must be positive")
	}
	if _, err := c.JSONBodyLimitBytes(); err != nil {
		return err
	}
	return nil
}

// MaxPDFBytes returns the upload ceiling in bytes.
func (c *Config) MaxPDFBytes() int64 {
	return int64(c.MaxPDFMB) * 1024 * 1024
}

// JSONBodyLimitBytes parses the human-readable JSON body limit, e.g. "1mb" or "512KiB".
func (c *Config) JSONBodyLimitBytes() (int64, error) {
	n, err := humanize.ParseBytes(c.JSONBodyLimit)
	if err != nil {
		return 0, fmt.Errorf("config error: invalid 'json_body_limit' %q: %w", c.JSONBodyLimit, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("config error: 'json_body_limit' must be positive")
	}
	return int64(n), nil
}

// APIKey returns the key for the configured provider.
func (c *Config) APIKey() string {
	if c.LLMProvider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// Model returns the model for the configured provider.
func (c *Config) Model() string {
	if c.LLMProvider == ProviderGemini {
		return c.GeminiModel
	}
	return c.OpenAIModel
}

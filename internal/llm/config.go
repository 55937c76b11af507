// Package llm provides the chat-completion abstraction used by every model-backed stage.
// It hides the difference between the OpenAI and Gemini providers behind a single Complete call.
package llm

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOpenAI is the OpenAI chat completions provider (default)
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Default models per provider
const (
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-2.5-flash"
)

// DefaultTemperature keeps structured output stable across calls.
const DefaultTemperature = 0.3

// Config holds the provider selection for the process
type Config struct {
	Provider Provider
	APIKey   string
	Model    string
	// BaseURL overrides the OpenAI endpoint. Empty uses the public API.
	BaseURL string
}

// DefaultConfig returns an OpenAI configuration with the default model and no key.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Model:    DefaultOpenAIModel,
	}
}

// ModelOrDefault returns the configured model, falling back to the provider default.
func (c *Config) ModelOrDefault() string {
	if c.Model != "" {
		return c.Model
	}
	if c.Provider == ProviderGemini {
		return DefaultGeminiModel
	}
	return DefaultOpenAIModel
}

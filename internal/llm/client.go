package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/presence-analyzer/internal/apperr"
)

// Request is a single system + user completion call
type Request struct {
	System    string
	User      string
	MaxTokens int
}

// Client is an abstraction over LLM providers
type Client interface {
	// Complete returns the raw text content of the first choice
	Complete(ctx context.Context, req Request) (string, error)
	// Provider reports which provider serves the calls
	Provider() Provider
	// Model returns the model name used for calls
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a client for the configured provider.
// A missing API key does not fail here: the returned client fails every call with a
// missing-credentials error, so the server can start and report the problem per request.
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		if config.APIKey == "" {
			return &unconfiguredClient{provider: ProviderGemini, model: config.ModelOrDefault(), message: MsgGeminiKeyMissing}, nil
		}
		return NewGeminiClient(ctx, config)
	case ProviderOpenAI, "":
		if config.APIKey == "" {
			return &unconfiguredClient{provider: ProviderOpenAI, model: config.ModelOrDefault(), message: MsgOpenAIKeyMissing}, nil
		}
		return NewOpenAIClient(config), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, apperr.Model(apperr.CodeMissingCredentials, MsgGeminiKeyMissing, nil)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  config.ModelOrDefault(),
	}, nil
}

// Complete sends the system instruction and user message and returns the JSON text.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(DefaultTemperature)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	model.ResponseMIMEType = "application/json"
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		return "", classifyGeminiError(err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", apperr.Model(apperr.CodeProviderError, MsgNoContent, err)
	}
	return text, nil
}

// Provider returns ProviderGemini
func (c *GeminiClient) Provider() Provider { return ProviderGemini }

// Model returns the Gemini model name
func (c *GeminiClient) Model() string { return c.model }

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	joined := strings.TrimSpace(strings.Join(parts, ""))
	if joined == "" {
		return "", fmt.Errorf("no text parts in response")
	}
	return joined, nil
}

// unconfiguredClient stands in for a provider whose API key is absent.
type unconfiguredClient struct {
	provider Provider
	model    string
	message  string
}

func (c *unconfiguredClient) Complete(context.Context, Request) (string, error) {
	return "", apperr.Model(apperr.CodeMissingCredentials, c.message, nil)
}

func (c *unconfiguredClient) Provider() Provider { return c.provider }

func (c *unconfiguredClient) Model() string { return c.model }

func (c *unconfiguredClient) Close() error { return nil }

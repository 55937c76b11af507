package llm

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jonathan/presence-analyzer/internal/apperr"
)

// OpenAIClient implements Client for OpenAI chat completions
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a client that requests JSON-object responses.
func NewOpenAIClient(config *Config) *OpenAIClient {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(config.BaseURL, "/")
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  config.ModelOrDefault(),
	}
}

// Complete sends one system and one user message and returns the first choice's content.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.User})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: DefaultTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", apperr.Model(apperr.CodeProviderError, MsgNoContent, nil)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", apperr.Model(apperr.CodeProviderError, MsgNoContent, nil)
	}
	return content, nil
}

// Provider returns ProviderOpenAI
func (c *OpenAIClient) Provider() Provider { return ProviderOpenAI }

// Model returns the OpenAI model name
func (c *OpenAIClient) Model() string { return c.model }

// Close is a no-op; the HTTP client holds no resources that need releasing.
func (c *OpenAIClient) Close() error { return nil }

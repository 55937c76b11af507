package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jonathan/presence-analyzer/internal/apperr"
)

func newOpenAITestServer(t *testing.T, handler func(w http.ResponseWriter, body map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		handler(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func chatResponse(content string) string {
	resp := map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []any{
			map[string]any{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestOpenAIClient_Complete(t *testing.T) {
	var captured map[string]any
	srv := newOpenAITestServer(t, func(w http.ResponseWriter, body map[string]any) {
		captured = body
		_, _ = w.Write([]byte(chatResponse(`{"ok": true}`)))
	})

	client, err := NewClient(context.Background(), &Config{Provider: ProviderOpenAI, APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	text, err := client.Complete(context.Background(), Request{System: "sys", User: "hello", MaxTokens: 2048})
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, text)

	assert.Equal(t, DefaultOpenAIModel, captured["model"])
	assert.EqualValues(t, 2048, captured["max_tokens"])
	assert.Equal(t, map[string]any{"type": "json_object"}, captured["response_format"])
	messages := captured["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "hello", messages[1].(map[string]any)["content"])
}

func TestOpenAIClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		code    apperr.Code
		message string
	}{
		{"unauthorized", http.StatusUnauthorized, apperr.CodeInvalidCredentials, MsgInvalidAPIKey},
		{"rate limited", http.StatusTooManyRequests, apperr.CodeRateLimited, MsgRateLimitExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newOpenAITestServer(t, func(w http.ResponseWriter, _ map[string]any) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error": {"message": "nope", "type": "invalid_request_error"}}`))
			})
			client := NewOpenAIClient(&Config{APIKey: "test-key", BaseURL: srv.URL})

			_, err := client.Complete(context.Background(), Request{User: "hi"})
			require.Error(t, err)

			appErr := apperr.As(err)
			assert.Equal(t, apperr.KindModel, appErr.Kind)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestOpenAIClient_EmptyContent(t *testing.T) {
	srv := newOpenAITestServer(t, func(w http.ResponseWriter, _ map[string]any) {
		_, _ = w.Write([]byte(chatResponse("   ")))
	})
	client := NewOpenAIClient(&Config{APIKey: "test-key", BaseURL: srv.URL})

	_, err := client.Complete(context.Background(), Request{User: "hi"})
	require.Error(t, err)
	assert.Equal(t, MsgNoContent, err.Error())
}

func TestNewClient_MissingKeys(t *testing.T) {
	tests := []struct {
		provider Provider
		message  string
		model    string
	}{
		{ProviderOpenAI, MsgOpenAIKeyMissing, DefaultOpenAIModel},
		{ProviderGemini, MsgGeminiKeyMissing, DefaultGeminiModel},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			client, err := NewClient(context.Background(), &Config{Provider: tt.provider})
			require.NoError(t, err)
			assert.Equal(t, tt.provider, client.Provider())
			assert.Equal(t, tt.model, client.Model())

			_, err = client.Complete(context.Background(), Request{User: "hi"})
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, apperr.CodeMissingCredentials, apperr.As(err).Code)
		})
	}
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Provider: "anthropic", APIKey: "k"})
	assert.Error(t, err)
}

func TestClassifyGeminiError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code apperr.Code
	}{
		{"googleapi 401", &googleapi.Error{Code: 401, Message: "unauthorized"}, apperr.CodeInvalidCredentials},
		{"googleapi 429", &googleapi.Error{Code: 429, Message: "quota"}, apperr.CodeRateLimited},
		{"grpc unauthenticated", status.Error(codes.Unauthenticated, "bad key"), apperr.CodeInvalidCredentials},
		{"grpc exhausted", status.Error(codes.ResourceExhausted, "quota"), apperr.CodeRateLimited},
		{"key text", errors.New("API key not valid. Please pass a valid API key."), apperr.CodeInvalidCredentials},
		{"other", errors.New("backend exploded"), apperr.CodeProviderError},
		{"deadline", context.DeadlineExceeded, apperr.CodeProviderError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, apperr.As(classifyGeminiError(tt.err)).Code)
		})
	}
}

func TestConfig_ModelOrDefault(t *testing.T) {
	assert.Equal(t, DefaultOpenAIModel, (&Config{}).ModelOrDefault())
	assert.Equal(t, DefaultGeminiModel, (&Config{Provider: ProviderGemini}).ModelOrDefault())

	assert.Equal(t, "gpt-4o", (&Config{Model: "gpt-4o", Provider: ProviderGemini}).ModelOrDefault())
	assert.Equal(t, DefaultOpenAIModel, DefaultConfig().Model)
}

package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jonathan/presence-analyzer/internal/apperr"
)

// Provider failure messages
const (
	MsgOpenAIKeyMissing  = "OPENAI_API_KEY is not set"
	MsgGeminiKeyMissing  = "GEMINI_API_KEY or GOOGLE_API_KEY is not set (use Gemini)"
	MsgInvalidAPIKey     = "Invalid API key"
	MsgRateLimitExceeded = "Rate limit exceeded"
	MsgNoContent         = "No response content"
	MsgRequestTimedOut   = "Model request timed out"
)

func classifyOpenAIError(err error) error {
	if ctxErr := contextFailure(err); ctxErr != nil {
		return ctxErr
	}

	statusCode := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		statusCode = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		statusCode = reqErr.HTTPStatusCode
	}
	return classifyStatus(statusCode, err)
}

func classifyGeminiError(err error) error {
	if ctxErr := contextFailure(err); ctxErr != nil {
		return ctxErr
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return classifyStatus(gErr.Code, err)
	}

	switch status.Code(err) {
	case codes.Unauthenticated, codes.PermissionDenied:
		return classifyStatus(http.StatusUnauthorized, err)
	case codes.ResourceExhausted:
		return classifyStatus(http.StatusTooManyRequests, err)
	}

	if strings.Contains(strings.ToLower(err.Error()), "api key not valid") {
		return classifyStatus(http.StatusUnauthorized, err)
	}
	return classifyStatus(0, err)
}

func classifyStatus(statusCode int, err error) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperr.Model(apperr.CodeInvalidCredentials, MsgInvalidAPIKey, err)
	case http.StatusTooManyRequests:
		return apperr.Model(apperr.CodeRateLimited, MsgRateLimitExceeded, err)
	default:
		return apperr.Model(apperr.CodeProviderError, err.Error(), err)
	}
}

func contextFailure(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperr.Model(apperr.CodeProviderError, MsgRequestTimedOut, err)
	case errors.Is(err, context.Canceled):
		return apperr.Wrap(apperr.KindInternal, apperr.CodeUnexpected, "request canceled", err)
	}
	return nil
}

// Package apperr defines the typed failure outcomes shared by every analysis stage.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure by where it originated.
type Kind string

const (
	// KindValidation is bad input shape or size.
	KindValidation Kind = "validation"
	// KindExtraction is an unreadable PDF.
	KindExtraction Kind = "extraction"
	// KindUpstreamUnavailable is a failed profile URL fetch. It is downgraded to a sentinel and never surfaced.
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	// KindModel is an LLM call or model-output parse failure.
	KindModel Kind = "model"
	// KindStructure is a failure while normalizing model output.
	KindStructure Kind = "structure"
	// KindInternal is anything unexpected.
	KindInternal Kind = "internal"
)

// Code narrows a Kind to a specific condition.
type Code string

// Failure codes
const (
	CodeMissingInput       Code = "missing_input"
	CodeInvalidFormat      Code = "invalid_format"
	CodeTooLarge           Code = "too_large"
	CodeInvalidURL         Code = "invalid_url"
	CodeMissingProfile     Code = "missing_profile"
	CodeMalformedBody      Code = "malformed_body"
	CodeSparseContent      Code = "sparse_content"
	CodeEncrypted          Code = "encrypted"
	CodeCorrupted          Code = "corrupted"
	CodeExtractionFailed   Code = "extraction_failed"
	CodeUnavailable        Code = "unavailable"
	CodeMissingCredentials Code = "missing_credentials"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeRateLimited        Code = "rate_limited"
	CodeProviderError      Code = "provider_error"
	CodeInvalidModelOutput Code = "invalid_model_output"
	CodeInvalidStructure   Code = "invalid_structure"
	CodeUnexpected         Code = "unexpected"
)

// Error is a tagged failure carrying a user-facing message.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Cause   error
}

// Error returns the user-facing message. The cause is available through Unwrap.
func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the failure kind to a response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindExtraction:
		return http.StatusBadRequest
	case KindModel, KindStructure, KindUpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// New creates an Error without a cause.
func New(kind Kind, code Code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap creates an Error that keeps the underlying cause.
func Wrap(kind Kind, code Code, message string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Cause: cause}
}

// Validation creates a validation failure.
func Validation(code Code, message string) *Error {
	return New(KindValidation, code, message)
}

// Extraction creates a PDF extraction failure.
func Extraction(code Code, message string, cause error) *Error {
	return Wrap(KindExtraction, code, message, cause)
}

// Model creates a model failure.
func Model(code Code, message string, cause error) *Error {
	return Wrap(KindModel, code, message, cause)
}

// As returns err as an *Error, wrapping unknown errors as internal failures.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(KindInternal, CodeUnexpected, err.Error(), err)
}

// HTTPStatus returns the response status for any error.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return As(err).HTTPStatus()
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// Package server provides the HTTP API for the presence analyzer.
package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/presence-analyzer/internal/apperr"
)

// Request-level failure messages
const (
	MsgNotFound        = "Not found"
	MsgInternal        = "Internal server error"
	MsgMissingProfile  = "Missing profile in body"
	MsgInvalidJSON     = "Invalid JSON body"
	MsgBodyTooLarge    = "Request body too large"
	MsgWrongFileField  = `Upload field must be named "cv"`
	MsgUploadFailed    = "Upload failed"
	MsgStreamingFailed = "Streaming not supported"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// errBodyTooLarge is returned when a JSON body exceeds the configured limit.
var errBodyTooLarge = apperr.New(apperr.KindValidation, apperr.CodeTooLarge, MsgBodyTooLarge)

// HTTPStatus returns the response status for an error.
func HTTPStatus(err error) int {
	if errors.Is(err, errBodyTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return apperr.HTTPStatus(err)
}

// publicMessage returns the message safe to show a client. Unexpected failures are not described.
func publicMessage(err error) string {
	e := apperr.As(err)
	if e.Kind == apperr.KindInternal {
		return MsgInternal
	}
	return e.Message
}

// writeError maps err to a status and writes the standard error body. 5xx responses are logged.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		e := apperr.As(err)
		s.logger.Error("request failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.String("kind", string(e.Kind)),
			zap.String("code", string(e.Code)),
			zap.Error(err))
	}
	s.errorResponse(w, r, status, publicMessage(err))
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	id := RequestID(r.Context())
	if id == "" {
		id = w.Header().Get(RequestIDHeader)
	}
	s.jsonResponse(w, status, ErrorResponse{Error: message, RequestID: id})
}

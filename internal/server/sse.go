package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// Event names on the analysis stream
const (
	EventStage  = "stage"
	EventReport = "report"
	EventError  = "error"
)

var errStreamingUnsupported = errors.New("response writer does not support flushing")

// EventStream writes Server-Sent Events. Each event carries an increasing id.
type EventStream struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	nextID  int
}

// OpenEventStream sends the stream headers and a 200 status.
// Nothing is written when the writer cannot flush.
func OpenEventStream(w http.ResponseWriter) (*EventStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &EventStream{w: w, flusher: flusher, nextID: 1}, nil
}

// Send writes one event with data encoded as a single JSON line.
func (s *EventStream) Send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.w, "id: %d\nevent: %s\ndata: %s\n\n", s.nextID, event, payload); err != nil {
		return err
	}
	s.nextID++
	s.flusher.Flush()
	return nil
}

// SendError writes a terminal error event shaped like an error response body.
func (s *EventStream) SendError(message, requestID string) error {
	return s.Send(EventError, ErrorResponse{Error: message, RequestID: requestID})
}

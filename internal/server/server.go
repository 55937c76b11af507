package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/presence-analyzer/internal/config"
	"github.com/jonathan/presence-analyzer/internal/pipeline"
	"github.com/jonathan/presence-analyzer/internal/server/ratelimit"
	"github.com/jonathan/presence-analyzer/internal/types"
	"github.com/jonathan/presence-analyzer/internal/validation"
)

// Analyzer is the analysis surface the HTTP API exposes.
type Analyzer interface {
	Ingest(ctx context.Context, pdf []byte, inputs validation.URLInputs) (*types.IngestionPayload, error)
	ExtractProfile(ctx context.Context, pdf []byte, inputs validation.URLInputs) (*types.StructuredProfile, error)
	Analyze(ctx context.Context, pdf []byte, inputs validation.URLInputs, onProgress pipeline.ProgressCallback) (*types.Report, error)
	RoleFit(ctx context.Context, profile *types.StructuredProfile, score *int) (*types.RoleFitResult, error)
	Roadmap(ctx context.Context, profile *types.StructuredProfile, roleFit *types.RoleFitResult) (*types.Roadmap, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer    *http.Server
	analyzer      Analyzer
	logger        *zap.Logger
	rateLimiter   *ratelimit.Limiter
	validate      *validator.Validate
	maxPDFMB      int
	jsonBodyLimit int64
}

// New creates a new server instance. A nil logger disables logging.
func New(cfg *config.Config, analyzer Analyzer, logger *zap.Logger) (*Server, error) {
	if analyzer == nil {
		return nil, errors.New("server requires an analyzer")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	jsonLimit, err := cfg.JSONBodyLimitBytes()
	if err != nil {
		return nil, err
	}

	s := &Server{
		analyzer:      analyzer,
		logger:        logger,
		rateLimiter:   ratelimit.NewLimiter(ratelimit.FromConfig(cfg.RateLimit)),
		validate:      newValidator(),
		maxPDFMB:      cfg.MaxPDFMB,
		jsonBodyLimit: jsonLimit,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Multipart endpoints: cv file plus optional profile links
	mux.HandleFunc("POST /api/ingest", s.handleIngest)
	mux.HandleFunc("POST /api/extract-profile", s.handleExtractProfile)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/analyze/stream", s.handleAnalyzeStream)

	// JSON endpoints operating on an existing profile
	mux.HandleFunc("POST /api/score", s.handleScore)
	mux.HandleFunc("POST /api/role-fit", s.handleRoleFit)
	mux.HandleFunc("POST /api/learning-roadmap", s.handleLearningRoadmap)
	mux.HandleFunc("POST /api/report", s.handleReport)

	mux.HandleFunc("/", s.handleNotFound)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRecover(s.withRequestID(s.withLogging(s.withCORS(s.withRateLimit(mux))))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for full analyses
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// newValidator reports field errors by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	s.logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.rateLimiter.Stop()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

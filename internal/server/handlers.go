package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/presence-analyzer/internal/apperr"
	"github.com/jonathan/presence-analyzer/internal/parsing"
	"github.com/jonathan/presence-analyzer/internal/pipeline"
	"github.com/jonathan/presence-analyzer/internal/pipeline/steps"
	"github.com/jonathan/presence-analyzer/internal/report"
	"github.com/jonathan/presence-analyzer/internal/scoring"
	"github.com/jonathan/presence-analyzer/internal/types"
)

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// IngestResponse is the body of POST /api/ingest
type IngestResponse struct {
	Data *types.IngestionPayload `json:"data"`
}

// ProfileResponse is the body of POST /api/extract-profile
type ProfileResponse struct {
	Profile *types.StructuredProfile `json:"profile"`
}

// ReportResponse is the body of POST /api/analyze and POST /api/report
type ReportResponse struct {
	Report *types.Report `json:"report"`
}

// ProfileRequest is the body of POST /api/score
type ProfileRequest struct {
	Profile any `json:"profile" validate:"required"`
}

// RoleFitRequest is the body of POST /api/role-fit
type RoleFitRequest struct {
	Profile           any      `json:"profile" validate:"required"`
	JobPotentialScore *float64 `json:"jobPotentialScore" validate:"omitempty,gte=0,lte=100"`
}

// RoadmapRequest is the body of POST /api/learning-roadmap
type RoadmapRequest struct {
	Profile any                  `json:"profile" validate:"required"`
	RoleFit *types.RoleFitResult `json:"roleFit"`
}

// ReportRequest is the body of POST /api/report
type ReportRequest struct {
	Profile      any                  `json:"profile" validate:"required"`
	JobPotential *types.JobPotential  `json:"jobPotential"`
	RoleFit      *types.RoleFitResult `json:"roleFit"`
	Roadmap      *types.Roadmap       `json:"roadmap"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, r, http.StatusNotFound, MsgNotFound)
}

// handleIngest validates the upload and returns CV text plus profile signals
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	u, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	payload, err := s.analyzer.Ingest(r.Context(), u.PDF, u.Inputs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, IngestResponse{Data: payload})
}

// handleExtractProfile ingests the upload and returns the structured profile
func (s *Server) handleExtractProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	profile, err := s.analyzer.ExtractProfile(r.Context(), u.PDF, u.Inputs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ProfileResponse{Profile: profile})
}

// handleAnalyze runs the full analysis and returns the report
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	u, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rep, err := s.analyzer.Analyze(r.Context(), u.PDF, u.Inputs, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ReportResponse{Report: rep})
}

// handleAnalyzeStream runs the full analysis and streams stage progress via SSE.
// Upload errors are returned as JSON before the stream opens.
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	u, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	stream, err := OpenEventStream(w)
	if err != nil {
		s.errorResponse(w, r, http.StatusInternalServerError, MsgStreamingFailed)
		return
	}

	requestID := RequestID(r.Context())
	log := s.logger.With(zap.String("request_id", requestID))
	onProgress := func(event pipeline.ProgressEvent) {
		if event.Step == steps.Report {
			event.Content = nil
		}
		if err := stream.Send(EventStage, event); err != nil {
			log.Debug("failed to write stage event", zap.String("step", event.Step), zap.Error(err))
		}
	}

	rep, err := s.analyzer.Analyze(r.Context(), u.PDF, u.Inputs, onProgress)
	if err != nil {
		if HTTPStatus(err) >= http.StatusInternalServerError {
			log.Error("streamed analysis failed", zap.Error(err))
		}
		if err := stream.SendError(publicMessage(err), requestID); err != nil {
			log.Debug("failed to write error event", zap.Error(err))
		}
		return
	}

	if err := stream.Send(EventReport, ReportResponse{Report: rep}); err != nil {
		log.Debug("failed to write report event", zap.Error(err))
	}
}

// handleScore scores a profile with the rule-based scorer
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, scoring.ScoreJobPotential(profileFrom(req.Profile)))
}

// handleRoleFit recommends roles for a profile
func (s *Server) handleRoleFit(w http.ResponseWriter, r *http.Request) {
	var req RoleFitRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var score *int
	if req.JobPotentialScore != nil {
		rounded := int(math.Round(*req.JobPotentialScore))
		score = &rounded
	}

	roleFit, err := s.analyzer.RoleFit(r.Context(), profileFrom(req.Profile), score)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, roleFit)
}

// handleLearningRoadmap generates a roadmap for a profile
func (s *Server) handleLearningRoadmap(w http.ResponseWriter, r *http.Request) {
	var req RoadmapRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	roadmap, err := s.analyzer.Roadmap(r.Context(), profileFrom(req.Profile), req.RoleFit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, roadmap)
}

// handleReport assembles a report from previously computed parts
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	rep := report.Build(profileFrom(req.Profile), req.JobPotential, req.RoleFit, req.Roadmap)
	s.jsonResponse(w, http.StatusOK, ReportResponse{Report: rep})
}

// decodeRequest reads a size-limited JSON body into dst and validates it.
// An empty body decodes to the zero value so validation reports what is missing.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.jsonBodyLimit)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return errBodyTooLarge
		}
		return apperr.Wrap(apperr.KindValidation, apperr.CodeMalformedBody, MsgInvalidJSON, err)
	}

	if err := s.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
			return apperr.Wrap(apperr.KindInternal, apperr.CodeUnexpected, err.Error(), err)
		}
		if fieldErrs[0].Field() == "profile" {
			return apperr.Validation(apperr.CodeMissingProfile, MsgMissingProfile)
		}
		return apperr.Validation(apperr.CodeMalformedBody, fmt.Sprintf("Invalid %s", fieldErrs[0].Field()))
	}
	return nil
}

// profileFrom normalizes a client-supplied profile. Anything but a JSON object yields nil.
func profileFrom(v any) *types.StructuredProfile {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return parsing.NormalizeProfile(raw)
}

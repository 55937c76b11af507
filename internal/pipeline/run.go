// Package pipeline provides the high-level orchestration for the presence analysis.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/presence-analyzer/internal/apperr"
	"github.com/jonathan/presence-analyzer/internal/pipeline/steps"
	"github.com/jonathan/presence-analyzer/internal/report"
	"github.com/jonathan/presence-analyzer/internal/scoring"
	"github.com/jonathan/presence-analyzer/internal/types"
	"github.com/jonathan/presence-analyzer/internal/validation"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Ingester validates the inputs and gathers CV text and profile signals.
type Ingester interface {
	Ingest(ctx context.Context, pdf []byte, inputs validation.URLInputs) (*types.IngestionPayload, error)
}

// ProfileExtractor turns an ingestion payload into a structured profile.
type ProfileExtractor interface {
	Extract(ctx context.Context, payload *types.IngestionPayload) (*types.StructuredProfile, error)
}

// RoleFitAnalyzer recommends roles for a profile.
type RoleFitAnalyzer interface {
	Analyze(ctx context.Context, profile *types.StructuredProfile, score *int) (*types.RoleFitResult, error)
}

// RoadmapGenerator produces a learning roadmap for a profile.
type RoadmapGenerator interface {
	Generate(ctx context.Context, profile *types.StructuredProfile, roleFit *types.RoleFitResult) (*types.Roadmap, error)
}

// Analyzer runs the analysis stages in order.
type Analyzer struct {
	ingester  Ingester
	extractor ProfileExtractor
	roleFit   RoleFitAnalyzer
	roadmap   RoadmapGenerator
	logger    *zap.Logger
	closer    func() error
}

// NewAnalyzer wires an Analyzer from its stages. A nil logger disables logging.
func NewAnalyzer(ingester Ingester, extractor ProfileExtractor, roleFit RoleFitAnalyzer, roadmap RoadmapGenerator, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		ingester:  ingester,
		extractor: extractor,
		roleFit:   roleFit,
		roadmap:   roadmap,
		logger:    logger,
	}
}

// Close releases the model client when the Analyzer owns one.
func (a *Analyzer) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer()
}

// Ingest runs the ingest stage alone.
func (a *Analyzer) Ingest(ctx context.Context, pdf []byte, inputs validation.URLInputs) (*types.IngestionPayload, error) {
	return a.ingester.Ingest(ctx, pdf, inputs)
}

// ExtractProfile runs ingest and profile extraction.
func (a *Analyzer) ExtractProfile(ctx context.Context, pdf []byte, inputs validation.URLInputs) (*types.StructuredProfile, error) {
	payload, err := a.ingester.Ingest(ctx, pdf, inputs)
	if err != nil {
		return nil, err
	}
	return a.extractor.Extract(ctx, payload)
}

// RoleFit runs role-fit analysis on an existing profile.
func (a *Analyzer) RoleFit(ctx context.Context, profile *types.StructuredProfile, score *int) (*types.RoleFitResult, error) {
	return a.roleFit.Analyze(ctx, profile, score)
}

// Roadmap runs roadmap generation on an existing profile.
func (a *Analyzer) Roadmap(ctx context.Context, profile *types.StructuredProfile, roleFit *types.RoleFitResult) (*types.Roadmap, error) {
	return a.roadmap.Generate(ctx, profile, roleFit)
}

// run tracks one analysis for progress reporting and stage ordering.
type run struct {
	id         string
	completed  map[string]bool
	onProgress ProgressCallback
	logger     *zap.Logger
}

// emitProgress calls the progress callback if configured
func (r *run) emitProgress(step, message string, content any) {
	if r.onProgress != nil {
		r.onProgress(ProgressEvent{
			Step:     step,
			Category: steps.CategoryOf(step),
			Message:  message,
			RunID:    r.id,
			Content:  content,
		})
	}
}

// stage runs fn as the named step. It refuses to run a step whose dependencies have not completed.
func stage[T any](ctx context.Context, r *run, step string, fn func(context.Context) (T, error), describe func(T) string) (T, error) {
	var zero T
	if err := steps.ValidateDependencies(r.completed, step); err != nil {
		return zero, apperr.Wrap(apperr.KindInternal, apperr.CodeUnexpected, err.Error(), err)
	}
	if err := ctx.Err(); err != nil {
		return zero, apperr.Wrap(apperr.KindInternal, apperr.CodeUnexpected, "Analysis cancelled", err)
	}

	start := time.Now()
	r.logger.Info("stage started", zap.String("step", step))

	result, err := fn(ctx)
	if err != nil {
		r.logger.Info("stage failed",
			zap.String("step", step),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return zero, err
	}

	r.completed[step] = true
	r.logger.Info("stage completed", zap.String("step", step), zap.Duration("elapsed", time.Since(start)))
	r.emitProgress(step, describe(result), result)
	return result, nil
}

// Analyze runs Ingest, Extract, Score, RoleFit, Roadmap and Report in order.
// The first failing stage ends the run and its error is returned unchanged; no partial report is produced.
func (a *Analyzer) Analyze(ctx context.Context, pdf []byte, inputs validation.URLInputs, onProgress ProgressCallback) (*types.Report, error) {
	runID := uuid.New().String()
	r := &run{
		id:         runID,
		completed:  make(map[string]bool, steps.Count),
		onProgress: onProgress,
		logger:     a.logger.With(zap.String("run_id", runID)),
	}

	payload, err := stage(ctx, r, steps.Ingest,
		func(ctx context.Context) (*types.IngestionPayload, error) {
			return a.ingester.Ingest(ctx, pdf, inputs)
		},
		describeIngestion)
	if err != nil {
		return nil, err
	}

	profile, err := stage(ctx, r, steps.ExtractProfile,
		func(ctx context.Context) (*types.StructuredProfile, error) {
			return a.extractor.Extract(ctx, payload)
		},
		func(p *types.StructuredProfile) string {
			return fmt.Sprintf("Extracted profile: %s, %d core skills", p.CurrentSeniorityLevel, len(p.CoreTechnicalSkills))
		})
	if err != nil {
		return nil, err
	}

	jobPotential, err := stage(ctx, r, steps.Score,
		func(context.Context) (*types.JobPotential, error) {
			jp := scoring.ScoreJobPotential(profile)
			return &jp, nil
		},
		func(jp *types.JobPotential) string {
			return fmt.Sprintf("Job potential score: %d", jp.OverallJobPotentialScore)
		})
	if err != nil {
		return nil, err
	}

	roleFit, err := stage(ctx, r, steps.RoleFit,
		func(ctx context.Context) (*types.RoleFitResult, error) {
			score := jobPotential.OverallJobPotentialScore
			return a.roleFit.Analyze(ctx, profile, &score)
		},
		func(rf *types.RoleFitResult) string {
			return fmt.Sprintf("Role fit: %d roles to target, %d to avoid", len(rf.BestFitRoles), len(rf.RolesToAvoid))
		})
	if err != nil {
		return nil, err
	}

	roadmap, err := stage(ctx, r, steps.Roadmap,
		func(ctx context.Context) (*types.Roadmap, error) {
			return a.roadmap.Generate(ctx, profile, roleFit)
		},
		func(rm *types.Roadmap) string {
			return fmt.Sprintf("Learning roadmap: %d short, %d mid, %d long term items",
				len(rm.ShortTerm), len(rm.MidTerm), len(rm.LongTerm))
		})
	if err != nil {
		return nil, err
	}

	return stage(ctx, r, steps.Report,
		func(context.Context) (*types.Report, error) {
			return report.Build(profile, jobPotential, roleFit, roadmap), nil
		},
		func(*types.Report) string {
			return "Assembled report"
		})
}

// describeIngestion summarizes which profile signals were available.
func describeIngestion(p *types.IngestionPayload) string {
	available := 0
	for _, s := range []string{p.GitHub, p.LinkedIn, p.Portfolio} {
		if s != types.Unavailable {
			available++
		}
	}
	msg := fmt.Sprintf("Ingested CV (%d chars) and %d of 3 profile links", len([]rune(p.CVText)), available)
	if p.CVExtractionNote != nil {
		msg += "; " + *p.CVExtractionNote
	}
	return msg
}

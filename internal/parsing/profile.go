// Package parsing turns raw ingestion output into a structured professional profile with one model call,
// and holds the model-output helpers shared by the other model-backed stages.
package parsing

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/presence-analyzer/internal/apperr"
	"github.com/jonathan/presence-analyzer/internal/llm"
	"github.com/jonathan/presence-analyzer/internal/prompts"
	"github.com/jonathan/presence-analyzer/internal/schemas"
	"github.com/jonathan/presence-analyzer/internal/types"
)

// ProfileMaxTokens bounds the profile extraction reply.
const ProfileMaxTokens = 4096

// MaxSignalChars is how much of each fetched profile page reaches the model.
const MaxSignalChars = 6000

// ProfileExtractor derives a StructuredProfile from an IngestionPayload
type ProfileExtractor struct {
	client llm.Client
	logger *zap.Logger
}

// NewProfileExtractor creates an extractor backed by client. A nil logger disables logging.
func NewProfileExtractor(client llm.Client, logger *zap.Logger) *ProfileExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileExtractor{client: client, logger: logger}
}

// Extract asks the model for a profile and normalizes whatever it returns.
func (e *ProfileExtractor) Extract(ctx context.Context, payload *types.IngestionPayload) (*types.StructuredProfile, error) {
	if payload == nil {
		return nil, apperr.Validation(apperr.CodeMissingInput, "Ingestion data is required")
	}

	raw, err := CompleteJSON(ctx, e.client, llm.Request{
		System:    prompts.MustGet(prompts.Profile, "extract-profile-system"),
		User:      BuildProfileMessage(payload),
		MaxTokens: ProfileMaxTokens,
	}, schemas.Profile, e.logger)
	if err != nil {
		return nil, err
	}

	return Normalize("profile", func() *types.StructuredProfile { return NormalizeProfile(raw) })
}

// BuildProfileMessage lays out the CV and each optional signal as markdown sections.
func BuildProfileMessage(payload *types.IngestionPayload) string {
	cvText := payload.CVText
	if cvText == "" {
		cvText = "(no text extracted)"
	}

	parts := []string{prompts.Format(prompts.MustGet(prompts.Profile, "cv-section"), map[string]string{"CVText": cvText})}
	if payload.CVExtractionNote != nil && *payload.CVExtractionNote != "" {
		parts = append(parts, "\nNote: "+*payload.CVExtractionNote)
	}

	section := prompts.MustGet(prompts.Profile, "signal-section")
	for _, signal := range []struct{ source, text string }{
		{"GitHub profile", payload.GitHub},
		{"LinkedIn", payload.LinkedIn},
		{"Portfolio", payload.Portfolio},
	} {
		parts = append(parts, prompts.Format(section, map[string]string{
			"Source":    signal.source,
			"Qualifier": "optional signal",
			"Text":      signalText(signal.text),
		}))
	}
	return strings.Join(parts, "\n")
}

func signalText(text string) string {
	if text == "" || text == types.Unavailable {
		return "not available"
	}
	runes := []rune(text)
	if len(runes) > MaxSignalChars {
		return string(runes[:MaxSignalChars])
	}
	return text
}

// NormalizeProfile coerces a decoded model object into a complete StructuredProfile.
// Missing or mistyped arrays become empty, the consistency score is clamped to 0-100,
// and a seniority outside the accepted levels becomes "unclear".
func NormalizeProfile(raw map[string]any) *types.StructuredProfile {
	if raw == nil {
		raw = map[string]any{}
	}

	profile := &types.StructuredProfile{
		CurrentSeniorityLevel: normalizeSeniority(raw["current_seniority_level"]),
		PrimaryRoles:          StringSlice(raw["primary_roles"]),
		CoreTechnicalSkills:   StringSlice(raw["core_technical_skills"]),
		SecondarySkills:       StringSlice(raw["secondary_skills"]),
		EvidenceOfExperience:  StringSlice(raw["evidence_of_experience"]),
		ConsistencyScore:      ClampInt(raw["consistency_score"], 0, 100),
		Strengths:             StringSlice(raw["strengths"]),
		RedFlags:              StringSlice(raw["red_flags"]),
		MissingInformation:    StringSlice(raw["missing_information"]),
	}
	return profile
}

func normalizeSeniority(v any) string {
	level := strings.ToLower(String(v))
	if !types.IsSeniorityLevel(level) {
		return types.SeniorityUnclear
	}
	return level
}

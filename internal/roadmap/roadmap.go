// Package roadmap generates a short, mid and long term learning roadmap for a structured profile.
package roadmap

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/presence-analyzer/internal/apperr"
	"github.com/jonathan/presence-analyzer/internal/llm"
	"github.com/jonathan/presence-analyzer/internal/parsing"
	"github.com/jonathan/presence-analyzer/internal/prompts"
	"github.com/jonathan/presence-analyzer/internal/schemas"
	"github.com/jonathan/presence-analyzer/internal/types"
)

// MaxTokens bounds the roadmap reply.
const MaxTokens = 2048

// Generator produces a Roadmap with one model call
type Generator struct {
	client llm.Client
	logger *zap.Logger
}

// NewGenerator creates a Generator backed by client. A nil logger disables logging.
func NewGenerator(client llm.Client, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{client: client, logger: logger}
}

// Generate asks the model for a roadmap. roleFit is optional context.
func (g *Generator) Generate(ctx context.Context, profile *types.StructuredProfile, roleFit *types.RoleFitResult) (*types.Roadmap, error) {
	if profile == nil {
		return nil, apperr.Validation(apperr.CodeMissingProfile, parsing.MsgProfileRequired)
	}

	summary, err := BuildContext(profile, roleFit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, apperr.CodeUnexpected, "failed to encode profile", err)
	}

	raw, err := parsing.CompleteJSON(ctx, g.client, llm.Request{
		System:    prompts.MustGet(prompts.Roadmap, "roadmap-system"),
		User:      prompts.Format(prompts.MustGet(prompts.Roadmap, "roadmap-user"), map[string]string{"Context": summary}),
		MaxTokens: MaxTokens,
	}, schemas.Roadmap, g.logger)
	if err != nil {
		return nil, err
	}

	return parsing.Normalize("roadmap", func() *types.Roadmap { return Normalize(raw) })
}

// profileSummary is the subset of the profile the roadmap prompt sees
type profileSummary struct {
	CurrentSeniorityLevel string   `json:"current_seniority_level"`
	PrimaryRoles          []string `json:"primary_roles"`
	CoreTechnicalSkills   []string `json:"core_technical_skills"`
	Strengths             []string `json:"strengths"`
	RedFlags              []string `json:"red_flags"`
	MissingInformation    []string `json:"missing_information"`
}

// BuildContext renders the compact profile summary plus the role-fit lines that apply.
func BuildContext(profile *types.StructuredProfile, roleFit *types.RoleFitResult) (string, error) {
	p := *profile
	p.EnsureSlices()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(profileSummary{
		CurrentSeniorityLevel: p.CurrentSeniorityLevel,
		PrimaryRoles:          p.PrimaryRoles,
		CoreTechnicalSkills:   p.CoreTechnicalSkills,
		Strengths:             p.Strengths,
		RedFlags:              p.RedFlags,
		MissingInformation:    p.MissingInformation,
	}); err != nil {
		return "", err
	}

	lines := []string{"Profile summary: " + strings.TrimRight(buf.String(), "\n")}
	if roleFit != nil && len(roleFit.BestFitRoles) > 0 {
		roles := make([]string, 0, len(roleFit.BestFitRoles))
		for _, r := range roleFit.BestFitRoles {
			roles = append(roles, r.Role)
		}
		lines = append(lines, "Best-fit roles to support: "+strings.Join(roles, ", "))
	}
	if roleFit != nil && len(roleFit.RolesToAvoid) > 0 {
		gaps := make([]string, 0, len(roleFit.RolesToAvoid))
		for _, r := range roleFit.RolesToAvoid {
			gaps = append(gaps, r.Role+": "+r.Reason)
		}
		lines = append(lines, "Gaps to address: "+strings.Join(gaps, "; "))
	}
	return strings.Join(lines, "\n"), nil
}

// Normalize coerces a decoded model object into a Roadmap.
// Items that are not objects become an empty outcome with no actions.
func Normalize(raw map[string]any) *types.Roadmap {
	if raw == nil {
		raw = map[string]any{}
	}
	return &types.Roadmap{
		ShortTerm: items(raw["short_term"]),
		MidTerm:   items(raw["mid_term"]),
		LongTerm:  items(raw["long_term"]),
	}
}

func items(v any) []types.RoadmapItem {
	objects := parsing.Objects(v)
	out := make([]types.RoadmapItem, 0, len(objects))
	for _, obj := range objects {
		out = append(out, types.RoadmapItem{
			Outcome: parsing.String(obj["outcome"]),
			Actions: parsing.StringSlice(obj["actions"]),
		})
	}
	return out
}

// Package rolefit recommends roles to target and roles to avoid for a structured profile.
package rolefit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/presence-analyzer/internal/apperr"
	"github.com/jonathan/presence-analyzer/internal/llm"
	"github.com/jonathan/presence-analyzer/internal/parsing"
	"github.com/jonathan/presence-analyzer/internal/prompts"
	"github.com/jonathan/presence-analyzer/internal/schemas"
	"github.com/jonathan/presence-analyzer/internal/types"
)

// MaxTokens bounds the role-fit reply.
const MaxTokens = 2048

// Analyzer produces a RoleFitResult with one model call
type Analyzer struct {
	client llm.Client
	logger *zap.Logger
}

// NewAnalyzer creates an Analyzer backed by client. A nil logger disables logging.
func NewAnalyzer(client llm.Client, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{client: client, logger: logger}
}

// Analyze asks the model for best-fit roles and roles to avoid.
// score is the job potential score to mention in the context, or nil to omit it.
func (a *Analyzer) Analyze(ctx context.Context, profile *types.StructuredProfile, score *int) (*types.RoleFitResult, error) {
	if profile == nil {
		return nil, apperr.Validation(apperr.CodeMissingProfile, parsing.MsgProfileRequired)
	}

	user, err := BuildUserMessage(profile, score)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, apperr.CodeUnexpected, "failed to encode profile", err)
	}

	raw, err := parsing.CompleteJSON(ctx, a.client, llm.Request{
		System:    prompts.MustGet(prompts.RoleFit, "role-fit-system"),
		User:      user,
		MaxTokens: MaxTokens,
	}, schemas.RoleFit, a.logger)
	if err != nil {
		return nil, err
	}

	return parsing.Normalize("role fit", func() *types.RoleFitResult { return Normalize(raw) })
}

// BuildUserMessage renders the profile as indented JSON followed by the optional score line.
func BuildUserMessage(profile *types.StructuredProfile, score *int) (string, error) {
	summary := *profile
	summary.EnsureSlices()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return "", err
	}

	scoreContext := ""
	if score != nil {
		scoreContext = fmt.Sprintf(" Job potential score (0-100): %d.", *score)
	}

	return prompts.Format(prompts.MustGet(prompts.RoleFit, "role-fit-user"), map[string]string{
		"Profile":      string(bytes.TrimRight(buf.Bytes(), "\n")),
		"ScoreContext": scoreContext,
	}), nil
}

// Normalize coerces a decoded model object into a RoleFitResult with trimmed fields and non-nil lists.
func Normalize(raw map[string]any) *types.RoleFitResult {
	if raw == nil {
		raw = map[string]any{}
	}
	return &types.RoleFitResult{
		BestFitRoles: recommendations(raw["best_fit_roles"]),
		RolesToAvoid: recommendations(raw["roles_to_avoid"]),
	}
}

func recommendations(v any) []types.RoleRecommendation {
	objects := parsing.Objects(v)
	out := make([]types.RoleRecommendation, 0, len(objects))
	for _, obj := range objects {
		out = append(out, types.RoleRecommendation{
			Role:   parsing.String(obj["role"]),
			Reason: parsing.String(obj["reason"]),
		})
	}
	return out
}

package parsing

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/presence-analyzer/internal/apperr"
	"github.com/jonathan/presence-analyzer/internal/llm"
	"github.com/jonathan/presence-analyzer/internal/testutil"
	"github.com/jonathan/presence-analyzer/internal/types"
)

const fullProfileJSON = `{
	"current_seniority_level": "Senior",
	"primary_roles": ["Backend Mühendisi"],
	"core_technical_skills": ["Go", "PostgreSQL", "Kubernetes"],
	"secondary_skills": ["React"],
	"evidence_of_experience": ["Acme'de 5 yıl"],
	"consistency_score": 82,
	"strengths": ["Dağıtık sistemler"],
	"red_flags": [],
	"missing_information": ["Sertifikalar"]
}`

func strPtr(s string) *string { return &s }

func TestBuildProfileMessage(t *testing.T) {
	payload := &types.IngestionPayload{
		CVText:           "Jane Doe Go developer",
		CVExtractionNote: strPtr("PDF produced little or no text (may be image-only or empty)"),
		GitHub:           "octocat has 8 repositories",
		LinkedIn:         types.Unavailable,
		Portfolio:        types.Unavailable,
	}

	expected := "## CV (primary source of truth)\nJane Doe Go developer" +
		"\n\nNote: PDF produced little or no text (may be image-only or empty)" +
		"\n\n## GitHub profile (optional signal)\noctocat has 8 repositories" +
		"\n\n## LinkedIn (optional signal)\nnot available" +
		"\n\n## Portfolio (optional signal)\nnot available"
	assert.Equal(t, expected, BuildProfileMessage(payload))
}

func TestBuildProfileMessage_EmptyCVAndLongSignal(t *testing.T) {
	payload := &types.IngestionPayload{
		GitHub:    strings.Repeat("ğ", MaxSignalChars+50),
		LinkedIn:  types.Unavailable,
		Portfolio: "",
	}

	msg := BuildProfileMessage(payload)
	assert.True(t, strings.HasPrefix(msg, "## CV (primary source of truth)\n(no text extracted)\n"))
	assert.NotContains(t, msg, "Note:")
	assert.Contains(t, msg, strings.Repeat("ğ", MaxSignalChars)+"\n")
	assert.NotContains(t, msg, strings.Repeat("ğ", MaxSignalChars+1))
}

func TestNormalizeProfile(t *testing.T) {
	raw := map[string]any{
		"current_seniority_level": "  Lead ",
		"primary_roles":           []any{"SRE", 42.0, nil},
		"core_technical_skills":   "Go, Rust",
		"consistency_score":       "85.6",
		"strengths":               []any{true},
	}

	profile := NormalizeProfile(raw)
	assert.Equal(t, "lead", profile.CurrentSeniorityLevel)
	assert.Equal(t, []string{"SRE", "42", ""}, profile.PrimaryRoles)
	assert.Equal(t, []string{}, profile.CoreTechnicalSkills)
	assert.Equal(t, []string{}, profile.SecondarySkills)
	assert.Equal(t, 86, profile.ConsistencyScore)
	assert.Equal(t, []string{"true"}, profile.Strengths)
	assert.NotNil(t, profile.RedFlags)
	assert.NotNil(t, profile.MissingInformation)
}

func TestNormalizeProfile_Seniority(t *testing.T) {
	tests := []struct {
		raw  any
		want string
	}{
		{nil, "unclear"},
		{"", "unclear"},
		{"guru", "unclear"},
		{"MID", "mid"},
		{"executive", "executive"},
		{7.0, "unclear"},
	}
	for _, tt := range tests {
		profile := NormalizeProfile(map[string]any{"current_seniority_level": tt.raw})
		assert.Equal(t, tt.want, profile.CurrentSeniorityLevel, "raw %v", tt.raw)
	}
}

func TestNormalizeProfile_ConsistencyScoreClamp(t *testing.T) {
	tests := []struct {
		raw  any
		want int
	}{
		{200.0, 100},
		{-5.0, 0},
		{"abc", 0},
		{nil, 0},
		{49.5, 50},
		{map[string]any{"x": 1.0}, 0},
	}
	for _, tt := range tests {
		profile := NormalizeProfile(map[string]any{"consistency_score": tt.raw})
		assert.Equal(t, tt.want, profile.ConsistencyScore, "raw %v", tt.raw)
	}
}

func TestProfileExtractor_Extract(t *testing.T) {
	client := testutil.NewScriptedClient("```json\n" + fullProfileJSON + "\n```")
	extractor := NewProfileExtractor(client, nil)

	profile, err := extractor.Extract(context.Background(), &types.IngestionPayload{CVText: "Jane", GitHub: types.Unavailable, LinkedIn: types.Unavailable, Portfolio: types.Unavailable})
	require.NoError(t, err)

	assert.Equal(t, "senior", profile.CurrentSeniorityLevel)
	assert.Equal(t, []string{"Go", "PostgreSQL", "Kubernetes"}, profile.CoreTechnicalSkills)
	assert.Equal(t, 82, profile.ConsistencyScore)
	assert.Equal(t, []string{}, profile.RedFlags)

	requests := client.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, ProfileMaxTokens, requests[0].MaxTokens)
	assert.Contains(t, requests[0].System, "professional profile analyst")
	assert.Contains(t, requests[0].User, "## CV (primary source of truth)\nJane")
}

func TestProfileExtractor_InvalidJSON(t *testing.T) {
	extractor := NewProfileExtractor(testutil.NewScriptedClient("I cannot help with that."), nil)

	_, err := extractor.Extract(context.Background(), &types.IngestionPayload{CVText: "Jane"})
	require.Error(t, err)
	assert.Equal(t, MsgInvalidModelOutput, err.Error())
	assert.Equal(t, 502, apperr.HTTPStatus(err))
}

func TestProfileExtractor_ProviderError(t *testing.T) {
	extractor := NewProfileExtractor(testutil.NewFailingClient(apperr.Model(apperr.CodeRateLimited, llm.MsgRateLimitExceeded, nil)), nil)

	_, err := extractor.Extract(context.Background(), &types.IngestionPayload{CVText: "Jane"})
	require.Error(t, err)
	assert.Equal(t, llm.MsgRateLimitExceeded, err.Error())
}

func TestProfileExtractor_NilPayload(t *testing.T) {
	extractor := NewProfileExtractor(testutil.NewScriptedClient(fullProfileJSON), nil)

	_, err := extractor.Extract(context.Background(), nil)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestNormalize_RecoversPanic(t *testing.T) {
	_, err := Normalize("roadmap", func() int {
		var m map[string]int
		m["boom"] = 1
		return 0
	})
	require.Error(t, err)
	assert.Equal(t, "Invalid roadmap structure", err.Error())
	assert.True(t, apperr.IsKind(err, apperr.KindStructure))
}

func TestCoercion(t *testing.T) {
	assert.Equal(t, "12", String(12.0))
	assert.Equal(t, "1.5", String(1.5))
	assert.Equal(t, `{"a":1}`, String(map[string]any{"a": 1.0}))
	assert.Equal(t, []string{}, StringSlice(nil))
	assert.Equal(t, 1, ClampInt(true, 0, 100))
	assert.Nil(t, Objects("x"))
	assert.Equal(t, []map[string]any{nil, {"role": "x"}}, Objects([]any{"str", map[string]any{"role": "x"}}))
}

package rolefit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/presence-analyzer/internal/apperr"
	"github.com/jonathan/presence-analyzer/internal/parsing"
	"github.com/jonathan/presence-analyzer/internal/testutil"
	"github.com/jonathan/presence-analyzer/internal/types"
)

func sampleProfile() *types.StructuredProfile {
	return &types.StructuredProfile{
		CurrentSeniorityLevel: "mid",
		PrimaryRoles:          []string{"Backend <Engineer>"},
		CoreTechnicalSkills:   []string{"Go"},
		ConsistencyScore:      70,
	}
}

func TestBuildUserMessage(t *testing.T) {
	score := 64
	msg, err := BuildUserMessage(sampleProfile(), &score)
	require.NoError(t, err)

	expected := "Structured professional profile:\n{\n" +
		`  "current_seniority_level": "mid",` + "\n" +
		`  "primary_roles": [` + "\n" +
		`    "Backend <Engineer>"` + "\n" +
		"  ],\n" +
		`  "core_technical_skills": [` + "\n" +
		`    "Go"` + "\n" +
		"  ],\n" +
		`  "secondary_skills": [],` + "\n" +
		`  "evidence_of_experience": [],` + "\n" +
		`  "consistency_score": 70,` + "\n" +
		`  "strengths": [],` + "\n" +
		`  "red_flags": [],` + "\n" +
		`  "missing_information": []` + "\n" +
		"}\n Job potential score (0-100): 64.\n\nReturn best_fit_roles and roles_to_avoid with reasons based only on this profile."
	assert.Equal(t, expected, msg)
}

func TestBuildUserMessage_NoScore(t *testing.T) {
	msg, err := BuildUserMessage(sampleProfile(), nil)
	require.NoError(t, err)
	assert.Contains(t, msg, "}\n\n\nReturn best_fit_roles")
	assert.NotContains(t, msg, "Job potential score")
}

func TestNormalize(t *testing.T) {
	raw := map[string]any{
		"best_fit_roles": []any{
			map[string]any{"role": "  Backend Mühendisi ", "reason": " Go deneyimi "},
			"not an object",
			map[string]any{"role": 5.0},
		},
		"roles_to_avoid": "none",
	}

	result := Normalize(raw)
	assert.Equal(t, []types.RoleRecommendation{
		{Role: "Backend Mühendisi", Reason: "Go deneyimi"},
		{Role: "", Reason: ""},
		{Role: "5", Reason: ""},
	}, result.BestFitRoles)
	assert.NotNil(t, result.RolesToAvoid)
	assert.Empty(t, result.RolesToAvoid)
}

func TestAnalyzer_Analyze(t *testing.T) {
	client := testutil.NewScriptedClient(`{"best_fit_roles": [{"role": "SRE", "reason": "Kubernetes"}], "roles_to_avoid": [{"role": "CTO", "reason": "kıdem"}]}`)
	score := 55

	result, err := NewAnalyzer(client, nil).Analyze(context.Background(), sampleProfile(), &score)
	require.NoError(t, err)
	assert.Equal(t, "SRE", result.BestFitRoles[0].Role)
	assert.Equal(t, "kıdem", result.RolesToAvoid[0].Reason)

	req := client.Requests()[0]
	assert.Equal(t, MaxTokens, req.MaxTokens)
	assert.Contains(t, req.System, "career advisor")
	assert.Contains(t, req.User, "Job potential score (0-100): 55.")
}

func TestAnalyzer_Failures(t *testing.T) {
	_, err := NewAnalyzer(testutil.NewScriptedClient("{}"), nil).Analyze(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Equal(t, parsing.MsgProfileRequired, err.Error())
	assert.Equal(t, 400, apperr.HTTPStatus(err))

	_, err = NewAnalyzer(testutil.NewScriptedClient("no json"), nil).Analyze(context.Background(), sampleProfile(), nil)
	require.Error(t, err)
	assert.Equal(t, parsing.MsgInvalidModelOutput, err.Error())
}

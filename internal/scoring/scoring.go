// Package scoring rates a structured profile's job potential with deterministic rules.
package scoring

import (
	"math"
	"strings"

	"github.com/jonathan/presence-analyzer/internal/types"
)

// Weights of the four dimensions in the overall score
const (
	marketReadinessWeight     = 0.25
	profileClarityWeight      = 0.25
	skillDepthWeight          = 0.25
	positioningStrengthWeight = 0.25
)

// Dimension bands used by the explanation
const (
	strongThreshold = 70
	weakThreshold   = 50
)

// MsgNoProfile is the explanation returned when there is nothing to score.
const MsgNoProfile = "Profil sağlanmadı."

// ScoreJobPotential computes the four dimension scores, their weighted mean and a short explanation.
// A nil profile yields a zero score with no breakdown.
func ScoreJobPotential(profile *types.StructuredProfile) types.JobPotential {
	if profile == nil {
		return types.JobPotential{
			OverallJobPotentialScore: 0,
			Explanation:              MsgNoProfile,
		}
	}

	breakdown := types.ScoreBreakdown{
		MarketReadiness:     ScoreMarketReadiness(profile),
		ProfileClarity:      ScoreProfileClarity(profile),
		SkillDepth:          ScoreSkillDepth(profile),
		PositioningStrength: ScorePositioningStrength(profile),
	}

	overall := math.Round(float64(breakdown.MarketReadiness)*marketReadinessWeight +
		float64(breakdown.ProfileClarity)*profileClarityWeight +
		float64(breakdown.SkillDepth)*skillDepthWeight +
		float64(breakdown.PositioningStrength)*positioningStrengthWeight)
	score := clamp(int(overall), 0, 100)

	return types.JobPotential{
		OverallJobPotentialScore: score,
		Explanation:              buildExplanation(profile, score, breakdown),
		Breakdown:                &breakdown,
	}
}

// ScoreMarketReadiness rewards stated roles, skills, evidence and a clear seniority.
func ScoreMarketReadiness(profile *types.StructuredProfile) int {
	s := 0
	if len(profile.PrimaryRoles) >= 1 {
		s += 25
	}
	s += tier(len(profile.CoreTechnicalSkills), 30, 25, 15)
	s += tier(len(profile.EvidenceOfExperience), 30, 25, 15)
	if profile.SeniorityClear() {
		s += 20
	}
	return min(100, s)
}

// ScoreProfileClarity is the consistency score minus a capped penalty for gaps and red flags.
func ScoreProfileClarity(profile *types.StructuredProfile) int {
	consistency := clamp(profile.ConsistencyScore, 0, 100)
	penalty := min(40, len(profile.MissingInformation)*8+len(profile.RedFlags)*6)
	return clamp(consistency-penalty, 0, 100)
}

// ScoreSkillDepth rewards breadth of core and secondary skills backed by evidence.
func ScoreSkillDepth(profile *types.StructuredProfile) int {
	s := tier(len(profile.CoreTechnicalSkills), 50, 35, 20)

	switch secondary := len(profile.SecondarySkills); {
	case secondary >= 4:
		s += 20
	case secondary >= 1:
		s += 10
	}

	switch evidence := len(profile.EvidenceOfExperience); {
	case evidence >= 5:
		s += 30
	case evidence >= 2:
		s += 15
	}
	return min(100, s)
}

// ScorePositioningStrength rewards focused roles, strengths outweighing red flags and a clear seniority.
func ScorePositioningStrength(profile *types.StructuredProfile) int {
	s := 0
	switch roles := len(profile.PrimaryRoles); {
	case roles >= 3:
		s += 50
	case roles == 2:
		s += 40
	case roles == 1:
		s += 25
	}

	strengths := len(profile.Strengths)
	redFlags := len(profile.RedFlags)
	switch {
	case strengths > redFlags:
		s += 25
	case strengths == redFlags && strengths > 0:
		s += 15
	case redFlags > 0:
		s += max(0, 25-redFlags*5)
	}

	if profile.SeniorityClear() {
		s += 25
	}
	return min(100, s)
}

// tier awards high for 6+, mid for 3+ and low for 1+ items.
func tier(n, high, mid, low int) int {
	switch {
	case n >= 6:
		return high
	case n >= 3:
		return mid
	case n >= 1:
		return low
	default:
		return 0
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func buildExplanation(profile *types.StructuredProfile, overall int, breakdown types.ScoreBreakdown) string {
	var parts []string
	switch {
	case overall >= strongThreshold:
		parts = append(parts, "Güçlü iş potansiyeli.")
	case overall >= weakThreshold:
		parts = append(parts, "Orta düzeyde iş potansiyeli.")
	default:
		parts = append(parts, "Mevcut profille iş potansiyeli sınırlı.")
	}

	var weak, strong []string
	for _, d := range []struct {
		label string
		score int
	}{
		{"pazar hazırlığı", breakdown.MarketReadiness},
		{"profil netliği", breakdown.ProfileClarity},
		{"beceri derinliği", breakdown.SkillDepth},
		{"konumlandırma", breakdown.PositioningStrength},
	} {
		switch {
		case d.score < weakThreshold:
			weak = append(weak, d.label)
		case d.score >= strongThreshold:
			strong = append(strong, d.label)
		}
	}

	if len(strong) > 0 {
		parts = append(parts, "Güçlü yönler: "+strings.Join(strong, ", ")+".")
	}
	if len(weak) > 0 {
		parts = append(parts, "Eksikler: "+strings.Join(weak, ", ")+".")
	}
	if len(profile.MissingInformation) > 0 || len(profile.RedFlags) > 0 {
		parts = append(parts, "Eksik bilgileri ve endişeleri gidermek puana olumlu yansır.")
	}
	return strings.Join(parts, " ")
}

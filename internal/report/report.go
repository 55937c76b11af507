// Package report merges the profile, score, role fit and roadmap into the final analysis report.
// Every function is pure and tolerates nil inputs.
package report

import (
	"fmt"
	"strings"

	"github.com/jonathan/presence-analyzer/internal/types"
)

// Report prose
const (
	MsgNoProfileData      = "Profil verisi yok."
	recommendFocus        = "Başvurularınızı şu rollere odaklayın: %s."
	recommendStrengthen   = "İş potansiyelini artırmak için profil netliğini ve kanıtları güçlendirin (Ana Eksikler ve Öğrenme Yol Haritasına bakın)."
	recommendCloseGaps    = "Daha kıdemli veya geniş rollere yönelmeden önce yukarıdaki eksikleri giderin."
	recommendStartShort   = "Önce kısa vadeli öğrenme maddeleriyle başlayın; ardından orta ve uzun vadeli yol haritasını takip edin."
	recommendFallback     = "Sonraki adımları planlamak için İş Potansiyeli Analizi ve Öğrenme Yol Haritasını kullanın."
	strengthenBelowScore  = 70
	gapTitleRedFlag       = "Endişe"
	gapTitleMissing       = "Eksik bilgi"
	gapTitleAvoidTemplate = "Şimdilik kaçının: %s"
)

// Build assembles the report. Any argument may be nil.
func Build(profile *types.StructuredProfile, jobPotential *types.JobPotential, roleFit *types.RoleFitResult, roadmap *types.Roadmap) *types.Report {
	r := &types.Report{
		ProfessionalSummary:  BuildProfessionalSummary(profile),
		BestRolesToTarget:    []types.RoleRecommendation{},
		KeyGaps:              BuildKeyGaps(profile, roleFit),
		FinalRecommendations: BuildFinalRecommendations(profile, jobPotential, roleFit, roadmap),
		LearningRoadmap: types.Roadmap{
			ShortTerm: []types.RoadmapItem{},
			MidTerm:   []types.RoadmapItem{},
			LongTerm:  []types.RoadmapItem{},
		},
	}

	if jobPotential != nil {
		score := jobPotential.OverallJobPotentialScore
		explanation := jobPotential.Explanation
		r.JobPotentialAnalysis = types.JobPotentialAnalysis{
			OverallJobPotentialScore: &score,
			Explanation:              &explanation,
			Breakdown:                jobPotential.Breakdown,
		}
	}

	if roleFit != nil && roleFit.BestFitRoles != nil {
		r.BestRolesToTarget = roleFit.BestFitRoles
	}

	if roadmap != nil {
		if roadmap.ShortTerm != nil {
			r.LearningRoadmap.ShortTerm = roadmap.ShortTerm
		}
		if roadmap.MidTerm != nil {
			r.LearningRoadmap.MidTerm = roadmap.MidTerm
		}
		if roadmap.LongTerm != nil {
			r.LearningRoadmap.LongTerm = roadmap.LongTerm
		}
	}
	return r
}

// BuildProfessionalSummary describes seniority, focus roles, core skills, evidence count and strengths.
func BuildProfessionalSummary(profile *types.StructuredProfile) string {
	if profile == nil {
		return MsgNoProfileData
	}

	seniority := profile.CurrentSeniorityLevel
	if seniority == "" {
		seniority = "belirsiz"
	}

	parts := []string{
		fmt.Sprintf("Profil %s düzeyinde, odak alanları: %s.", seniority, joinOr(profile.PrimaryRoles, ", ", "belirtilmemiş")),
		fmt.Sprintf("Temel teknik beceriler: %s.", joinOr(profile.CoreTechnicalSkills, ", ", "belirtilmemiş")),
	}
	if evidence := len(profile.EvidenceOfExperience); evidence > 0 {
		parts = append(parts, fmt.Sprintf("Deneyim kanıtı: %d madde.", evidence))
	}
	parts = append(parts, fmt.Sprintf("Güçlü yönler: %s.", joinOr(profile.Strengths, "; ", "belirlenmedi")))
	return strings.Join(parts, " ")
}

// BuildKeyGaps flattens red flags, missing information and roles to avoid, in that order.
func BuildKeyGaps(profile *types.StructuredProfile, roleFit *types.RoleFitResult) []types.KeyGap {
	gaps := []types.KeyGap{}
	if profile != nil {
		for _, flag := range profile.RedFlags {
			gaps = append(gaps, types.KeyGap{Type: types.GapRedFlag, Title: gapTitleRedFlag, Detail: flag})
		}
		for _, missing := range profile.MissingInformation {
			gaps = append(gaps, types.KeyGap{Type: types.GapMissing, Title: gapTitleMissing, Detail: missing})
		}
	}
	if roleFit != nil {
		for _, role := range roleFit.RolesToAvoid {
			gaps = append(gaps, types.KeyGap{
				Type:   types.GapRoleToAvoid,
				Title:  fmt.Sprintf(gapTitleAvoidTemplate, role.Role),
				Detail: role.Reason,
			})
		}
	}
	return gaps
}

// BuildFinalRecommendations always returns at least one sentence.
func BuildFinalRecommendations(profile *types.StructuredProfile, jobPotential *types.JobPotential, roleFit *types.RoleFitResult, roadmap *types.Roadmap) string {
	var parts []string

	if roleFit != nil && len(roleFit.BestFitRoles) > 0 {
		roles := make([]string, 0, len(roleFit.BestFitRoles))
		for _, r := range roleFit.BestFitRoles {
			roles = append(roles, r.Role)
		}
		parts = append(parts, fmt.Sprintf(recommendFocus, strings.Join(roles, ", ")))
	}

	if jobPotential != nil && jobPotential.OverallJobPotentialScore < strengthenBelowScore {
		parts = append(parts, recommendStrengthen)
	}

	if len(BuildKeyGaps(profile, roleFit)) > 0 {
		parts = append(parts, recommendCloseGaps)
	}

	if roadmap != nil && len(roadmap.ShortTerm) > 0 {
		parts = append(parts, recommendStartShort)
	}

	if len(parts) == 0 {
		parts = append(parts, recommendFallback)
	}
	return strings.Join(parts, " ")
}

func joinOr(items []string, sep, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, sep)
}

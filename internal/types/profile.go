// Package types provides type definitions for structured data used throughout the presence analyzer.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Unavailable is the sentinel carried by a profile signal that could not be fetched.
const Unavailable = "unavailable"

// IngestionPayload is the raw extraction output handed to the profile extractor
type IngestionPayload struct {
	CVText           string  `json:"cvText"`
	CVExtractionNote *string `json:"cvExtractionNote"`
	GitHub           string  `json:"github"`
	LinkedIn         string  `json:"linkedin"`
	Portfolio        string  `json:"portfolio"`
}

// ProfileURLs holds validated, normalized profile links. Empty means not provided.
type ProfileURLs struct {
	GitHub    string `json:"github"`
	LinkedIn  string `json:"linkedin"`
	Portfolio string `json:"portfolio"`
}

// Seniority levels accepted in a structured profile
const (
	SeniorityIntern    = "intern"
	SeniorityJunior    = "junior"
	SeniorityMid       = "mid"
	SenioritySenior    = "senior"
	SeniorityLead      = "lead"
	SeniorityPrincipal = "principal"
	SeniorityExecutive = "executive"
	SeniorityUnclear   = "unclear"
)

// SeniorityLevels lists every accepted seniority value in ascending order.
var SeniorityLevels = []string{
	SeniorityIntern,
	SeniorityJunior,
	SeniorityMid,
	SenioritySenior,
	SeniorityLead,
	SeniorityPrincipal,
	SeniorityExecutive,
	SeniorityUnclear,
}

// IsSeniorityLevel reports whether level is one of the accepted values (case-insensitive).
func IsSeniorityLevel(level string) bool {
	level = strings.ToLower(strings.TrimSpace(level))
	for _, l := range SeniorityLevels {
		if l == level {
			return true
		}
	}
	return false
}

// StructuredProfile is the normalized professional profile derived by the model
type StructuredProfile struct {
	CurrentSeniorityLevel string   `json:"current_seniority_level"`
	PrimaryRoles          []string `json:"primary_roles"`
	CoreTechnicalSkills   []string `json:"core_technical_skills"`
	SecondarySkills       []string `json:"secondary_skills"`
	EvidenceOfExperience  []string `json:"evidence_of_experience"`
	ConsistencyScore      int      `json:"consistency_score"`
	Strengths             []string `json:"strengths"`
	RedFlags              []string `json:"red_flags"`
	MissingInformation    []string `json:"missing_information"`
}

// SeniorityClear reports whether the profile states a determinable seniority.
func (p *StructuredProfile) SeniorityClear() bool {
	level := strings.TrimSpace(p.CurrentSeniorityLevel)
	return level != "" && !strings.EqualFold(level, SeniorityUnclear)
}

// EnsureSlices replaces nil slices with empty ones so the profile serializes with [] arrays.
func (p *StructuredProfile) EnsureSlices() {
	for _, s := range []*[]string{
		&p.PrimaryRoles,
		&p.CoreTechnicalSkills,
		&p.SecondarySkills,
		&p.EvidenceOfExperience,
		&p.Strengths,
		&p.RedFlags,
		&p.MissingInformation,
	} {
		if *s == nil {
			*s = []string{}
		}
	}
}

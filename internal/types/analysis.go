package types

// ScoreBreakdown holds the four rule-based sub-scores, each 0-100
type ScoreBreakdown struct {
	MarketReadiness     int `json:"market_readiness"`
	ProfileClarity      int `json:"profile_clarity"`
	SkillDepth          int `json:"skill_depth"`
	PositioningStrength int `json:"positioning_strength"`
}

// JobPotential is the scorer output. Breakdown is nil only for the no-profile sentinel.
type JobPotential struct {
	OverallJobPotentialScore int             `json:"overall_job_potential_score"`
	Explanation              string          `json:"explanation"`
	Breakdown                *ScoreBreakdown `json:"breakdown"`
}

// RoleRecommendation is a single role with an evidence-based reason
type RoleRecommendation struct {
	Role   string `json:"role"`
	Reason string `json:"reason"`
}

// RoleFitResult lists roles to target and roles to avoid for now
type RoleFitResult struct {
	BestFitRoles []RoleRecommendation `json:"best_fit_roles"`
	RolesToAvoid []RoleRecommendation `json:"roles_to_avoid"`
}

// RoadmapItem is one outcome with its concrete actions
type RoadmapItem struct {
	Outcome string   `json:"outcome"`
	Actions []string `json:"actions"`
}

// Roadmap groups learning items by horizon: 0-3, 3-6 and 6-12 months
type Roadmap struct {
	ShortTerm []RoadmapItem `json:"short_term"`
	MidTerm   []RoadmapItem `json:"mid_term"`
	LongTerm  []RoadmapItem `json:"long_term"`
}

// Gap types used in a report's key_gaps list
const (
	GapRedFlag     = "red_flag"
	GapMissing     = "missing"
	GapRoleToAvoid = "role_to_avoid"
)

// KeyGap is a single flattened concern in the final report
type KeyGap struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// JobPotentialAnalysis mirrors JobPotential with every field nullable
type JobPotentialAnalysis struct {
	OverallJobPotentialScore *int            `json:"overall_job_potential_score"`
	Explanation              *string         `json:"explanation"`
	Breakdown                *ScoreBreakdown `json:"breakdown"`
}

// Report is the assembled analysis result
type Report struct {
	ProfessionalSummary  string               `json:"professional_summary"`
	JobPotentialAnalysis JobPotentialAnalysis `json:"job_potential_analysis"`
	BestRolesToTarget    []RoleRecommendation `json:"best_roles_to_target"`
	KeyGaps              []KeyGap             `json:"key_gaps"`
	LearningRoadmap      Roadmap              `json:"learning_roadmap"`
	FinalRecommendations string               `json:"final_recommendations"`
}

// Package observability provides structured logging and formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/presence-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, shorten(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// shorten truncates s to limit runes, marking the cut with "...".
func shorten(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// writeList writes up to maxItemsToShow bullet items under a heading.
func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// PrintProfile outputs a human-readable summary of the structured profile.
func (p *Printer) PrintProfile(profile *types.StructuredProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Seniority:   %s\n", profile.CurrentSeniorityLevel))
	sb.WriteString(fmt.Sprintf("Consistency: %d/100\n", profile.ConsistencyScore))
	if len(profile.PrimaryRoles) > 0 {
		sb.WriteString(fmt.Sprintf("Roles:       %s\n", strings.Join(profile.PrimaryRoles, ", ")))
	}
	sb.WriteString("\n")

	writeList(&sb, "Core skills", profile.CoreTechnicalSkills)
	writeList(&sb, "Strengths", profile.Strengths)
	writeList(&sb, "Red flags", profile.RedFlags)
	writeList(&sb, "Missing information", profile.MissingInformation)

	p.printBox("STRUCTURED PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobPotential outputs the overall score and its breakdown.
func (p *Printer) PrintJobPotential(potential *types.JobPotential) {
	if potential == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall: %d/100\n", potential.OverallJobPotentialScore))
	if b := potential.Breakdown; b != nil {
		sb.WriteString(fmt.Sprintf("  Market readiness:     %3d\n", b.MarketReadiness))
		sb.WriteString(fmt.Sprintf("  Profile clarity:      %3d\n", b.ProfileClarity))
		sb.WriteString(fmt.Sprintf("  Skill depth:          %3d\n", b.SkillDepth))
		sb.WriteString(fmt.Sprintf("  Positioning strength: %3d\n", b.PositioningStrength))
	}
	if potential.Explanation != "" {
		sb.WriteString("\n" + potential.Explanation)
	}

	p.printBox("JOB POTENTIAL", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRoleFit outputs best-fit roles and roles to avoid.
func (p *Printer) PrintRoleFit(roleFit *types.RoleFitResult) {
	if roleFit == nil || (len(roleFit.BestFitRoles) == 0 && len(roleFit.RolesToAvoid) == 0) {
		return
	}

	var sb strings.Builder
	roles := func(heading string, recs []types.RoleRecommendation) {
		names := make([]string, 0, len(recs))
		for _, r := range recs {
			names = append(names, r.Role)
		}
		writeList(&sb, heading, names)
	}
	roles("Target", roleFit.BestFitRoles)
	roles("Avoid for now", roleFit.RolesToAvoid)

	p.printBox("ROLE FIT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRoadmap outputs the outcomes of each roadmap horizon.
func (p *Printer) PrintRoadmap(roadmap *types.Roadmap) {
	if roadmap == nil {
		return
	}

	var sb strings.Builder
	horizon := func(heading string, items []types.RoadmapItem) {
		outcomes := make([]string, 0, len(items))
		for _, item := range items {
			outcomes = append(outcomes, item.Outcome)
		}
		writeList(&sb, heading, outcomes)
	}
	horizon("0-3 months", roadmap.ShortTerm)
	horizon("3-6 months", roadmap.MidTerm)
	horizon("6-12 months", roadmap.LongTerm)

	if sb.Len() == 0 {
		return
	}
	p.printBox("LEARNING ROADMAP", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReport outputs the report sections that are not covered by the stage printers.
func (p *Printer) PrintReport(report *types.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(report.ProfessionalSummary + "\n\n")
	sb.WriteString(fmt.Sprintf("Key gaps: %d\n\n", len(report.KeyGaps)))
	sb.WriteString(report.FinalRecommendations)

	p.printBox("REPORT", sb.String())
}

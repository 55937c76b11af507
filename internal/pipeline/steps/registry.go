// Package steps provides step definitions and dependency validation
// for the analysis pipeline.
package steps

import (
	"fmt"
	"sort"
)

// Step names
const (
	Ingest         = "ingest"
	ExtractProfile = "extract_profile"
	Score          = "score"
	RoleFit        = "role_fit"
	Roadmap        = "roadmap"
	Report         = "report"
)

// Step categories
const (
	CategoryIngestion = "ingestion"
	CategoryModel     = "model"
	CategoryRules     = "rules"
	CategoryAssembly  = "assembly"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Position     int
	Dependencies []string
	Optional     []string
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	Ingest: {
		Name:         Ingest,
		Category:     CategoryIngestion,
		Position:     1,
		Dependencies: []string{},
	},
	ExtractProfile: {
		Name:         ExtractProfile,
		Category:     CategoryModel,
		Position:     2,
		Dependencies: []string{Ingest},
	},
	Score: {
		Name:         Score,
		Category:     CategoryRules,
		Position:     3,
		Dependencies: []string{ExtractProfile},
	},
	RoleFit: {
		Name:         RoleFit,
		Category:     CategoryModel,
		Position:     4,
		Dependencies: []string{ExtractProfile},
		Optional:     []string{Score},
	},
	Roadmap: {
		Name:         Roadmap,
		Category:     CategoryModel,
		Position:     5,
		Dependencies: []string{ExtractProfile},
		Optional:     []string{RoleFit},
	},
	Report: {
		Name:         Report,
		Category:     CategoryAssembly,
		Position:     6,
		Dependencies: []string{ExtractProfile},
		Optional:     []string{Score, RoleFit, Roadmap},
	},
}

// Count is the number of steps in a full analysis.
var Count = len(StepRegistry)

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s has missing dependencies: %v", e.Step, e.MissingDependencies)
}

// ValidateDependencies checks that every required dependency of stepName is in completed.
func ValidateDependencies(completed map[string]bool, stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if !completed[dep] {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}
	return nil
}

// Ordered returns step names in execution order.
func Ordered() []string {
	names := make([]string, 0, len(StepRegistry))
	for name := range StepRegistry {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return StepRegistry[names[i]].Position < StepRegistry[names[j]].Position
	})
	return names
}

// CategoryOf returns the category of a step, or "" when the step is unknown.
func CategoryOf(stepName string) string {
	return StepRegistry[stepName].Category
}

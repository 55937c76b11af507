package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/presence-analyzer/internal/observability"
	"github.com/jonathan/presence-analyzer/internal/parsing"
	"github.com/jonathan/presence-analyzer/internal/schemas"
	"github.com/jonathan/presence-analyzer/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a structured profile JSON with the rule-based scorer",
	Long:  "Reads a structured profile JSON file, normalizes it and prints the job potential score. No model is called.",
	RunE:  runScore,
}

var (
	scoreProfileFile string
	scoreVerbose     bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreProfileFile, "profile", "p", "", "Path to structured profile JSON (required)")
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print a formatted breakdown to stderr")
	_ = scoreCmd.MarkFlagRequired("profile")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(_ *cobra.Command, _ []string) error {
	var verbose io.Writer
	if scoreVerbose {
		verbose = os.Stderr
	}
	return scoreFile(scoreProfileFile, os.Stdout, verbose)
}

// scoreFile scores the profile stored at path and writes the result JSON to out.
// Schema deviations are reported as warnings; normalization fills in what is missing.
func scoreFile(path string, out, verbose io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("profile must be a JSON object: %w", err)
	}
	if raw == nil {
		return errors.New("profile must be a JSON object, got null")
	}

	if err := schemas.Validate(schemas.Profile, raw); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: profile does not match schema: %v\n", err)
		} else {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: could not validate profile against schema: %v\n", err)
		}
	}

	result := scoring.ScoreJobPotential(parsing.NormalizeProfile(raw))
	if verbose != nil {
		observability.NewPrinter(verbose).PrintJobPotential(&result)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to write score: %w", err)
	}
	return nil
}

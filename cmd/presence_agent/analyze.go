package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/presence-analyzer/internal/config"
	"github.com/jonathan/presence-analyzer/internal/observability"
	"github.com/jonathan/presence-analyzer/internal/pipeline"
	"github.com/jonathan/presence-analyzer/internal/types"
	"github.com/jonathan/presence-analyzer/internal/validation"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a CV and profile links end-to-end",
	Long: `Runs the full analysis locally: ingestion -> profile extraction -> scoring -> role fit -> learning roadmap -> report.

The report is written as JSON to --out, or to stdout when --out is not set.
Progress and logs always go to stderr.`,
	RunE: runAnalyzeCmd,
}

var (
	analyzeCV        string
	analyzeGitHub    string
	analyzeLinkedIn  string
	analyzePortfolio string
	analyzeOut       string
	analyzeVerbose   bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCV, "cv", "", "Path to the CV PDF (required)")
	analyzeCmd.Flags().StringVar(&analyzeGitHub, "github", "", "GitHub profile URL")
	analyzeCmd.Flags().StringVar(&analyzeLinkedIn, "linkedin", "", "LinkedIn profile URL")
	analyzeCmd.Flags().StringVar(&analyzePortfolio, "portfolio", "", "Portfolio URL")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Path to output report JSON (defaults to stdout)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print each stage result while running")
	_ = analyzeCmd.MarkFlagRequired("cv")

	rootCmd.AddCommand(analyzeCmd)
}

// reportAnalyzer is the part of the pipeline the analyze command drives.
type reportAnalyzer interface {
	Analyze(ctx context.Context, pdf []byte, inputs validation.URLInputs, onProgress pipeline.ProgressCallback) (*types.Report, error)
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// stdout carries the report, so diagnostics go to stderr.
	logger := zap.NewNop()
	if analyzeVerbose {
		if logger, err = observability.NewLogger("stderr", cfg.LogJSON, cfg.LogDebug); err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logger.Sync() //nolint:errcheck
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	analyzer, err := pipeline.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}
	defer analyzer.Close() //nolint:errcheck

	out := io.Writer(os.Stdout)
	if analyzeOut != "" {
		f, err := os.Create(analyzeOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close() //nolint:errcheck
		out = f
	}

	var progress io.Writer
	if analyzeVerbose {
		progress = os.Stderr
	}

	inputs := validation.URLInputs{
		GitHubURL:    analyzeGitHub,
		LinkedInURL:  analyzeLinkedIn,
		PortfolioURL: analyzePortfolio,
	}
	if err := analyzeFile(ctx, analyzer, analyzeCV, inputs, out, progress); err != nil {
		return err
	}
	if analyzeOut != "" {
		_, _ = fmt.Fprintf(os.Stderr, "Report written to %s\n", analyzeOut)
	}
	return nil
}

// analyzeFile runs the analysis on the PDF at path and writes the report JSON to out.
// When progress is non-nil every stage result is printed to it as it completes.
func analyzeFile(ctx context.Context, analyzer reportAnalyzer, path string, inputs validation.URLInputs, out, progress io.Writer) error {
	pdf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read CV: %w", err)
	}

	var onProgress pipeline.ProgressCallback
	if progress != nil {
		onProgress = progressPrinter(progress)
	}

	rep, err := analyzer.Analyze(ctx, pdf, inputs, onProgress)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// progressPrinter renders stage results as boxed summaries.
func progressPrinter(w io.Writer) pipeline.ProgressCallback {
	printer := observability.NewPrinter(w)
	return func(event pipeline.ProgressEvent) {
		_, _ = fmt.Fprintf(w, "[%s] %s\n", event.Step, event.Message)
		switch content := event.Content.(type) {
		case *types.StructuredProfile:
			printer.PrintProfile(content)
		case *types.JobPotential:
			printer.PrintJobPotential(content)
		case *types.RoleFitResult:
			printer.PrintRoleFit(content)
		case *types.Roadmap:
			printer.PrintRoadmap(content)
		case *types.Report:
			printer.PrintReport(content)
		}
	}
}

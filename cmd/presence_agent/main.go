// Package main provides the entry point for the presence analyzer API server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "presence_agent",
	Short: "CV and online presence analyzer",
	Long: "Presence analyzer reads a PDF CV plus optional GitHub, LinkedIn and portfolio links, " +
		"extracts a structured profile, scores job potential and recommends roles and a learning roadmap.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (YAML, JSON or TOML); environment variables override it")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

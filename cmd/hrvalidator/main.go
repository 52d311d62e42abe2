// Package main provides the command-line evaluator.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"alfredoptarigan/hr-validator/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "hrvalidator",
	Short: "Score how well a resume matches a job description",
	Long:  "hrvalidator sends a job description and a resume to a hosted language model and prints the fit score, tags, explanation and follow-up questions.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := logger.Initialize(logLevel, "development"); err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		return nil
	},
}

var logLevel string

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

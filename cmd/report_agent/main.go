// Package main provides the entry point for the training report generator:
// the HTTP API server and the command-line tools around it.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	dbTarget   string
	apiKeyFlag string
	tierFlag   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "report_agent",
	Short:         "Training report generator",
	Long:          "report_agent turns a training questionnaire into polished Japanese report text, keeps a history of saved reports and serves the same workflow over a REST API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().StringVar(&dbTarget, "db", "", "History database: postgres:// URL or SQLite file path (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	rootCmd.PersistentFlags().StringVar(&tierFlag, "tier", "", "Model tier: lite, standard or advanced")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print drafts and scores along the way")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

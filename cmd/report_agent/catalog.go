package main

import (
	"os"

	"github.com/jonathan/training-report/internal/catalog"
	"github.com/jonathan/training-report/internal/observability"
	"github.com/spf13/cobra"
)

var catalogJSON bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show trainings, tools, roles and the style tables",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if catalogJSON {
			return writeJSON(os.Stdout, map[string]any{
				"trainings":         catalog.Trainings(),
				"roles":             catalog.Roles(),
				"personalities":     catalog.Personalities(),
				"refineSuggestions": catalog.RefineSuggestions(),
				"synonyms":          catalog.Synonyms(),
				"bannedPhrases":     catalog.BannedPhrases(),
			})
		}
		observability.NewPrinter(os.Stdout).PrintCatalog()
		return nil
	},
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "Print the full catalog as JSON")
	rootCmd.AddCommand(catalogCmd)
}

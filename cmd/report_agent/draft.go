package main

import (
	"fmt"
	"os"

	"github.com/jonathan/training-report/internal/drafting"
	"github.com/jonathan/training-report/internal/gateway"
	"github.com/jonathan/training-report/internal/generation"
	"github.com/jonathan/training-report/internal/observability"
	"github.com/jonathan/training-report/internal/scoring"
	"github.com/spf13/cobra"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Build the base draft and quality score for a questionnaire",
	Long:  "Build the deterministic base draft and specificity score for a FormData JSON file without calling the language model.",
	Args:  cobra.NoArgs,
	RunE:  runDraft,
}

var (
	draftFormFile string
	draftVariant  int
	draftJSON     bool
)

func init() {
	draftCmd.Flags().StringVarP(&draftFormFile, "form", "f", "", "Path to FormData JSON file, or - for stdin (required)")
	draftCmd.Flags().IntVar(&draftVariant, "variant", 0, "Variant id 1-10 (0 rolls one)")
	draftCmd.Flags().BoolVar(&draftJSON, "json", false, "Print JSON instead of a formatted box")
	_ = draftCmd.MarkFlagRequired("form")
	rootCmd.AddCommand(draftCmd)
}

type draftResult struct {
	VariantID int            `json:"variantId"`
	Skeleton  string         `json:"skeleton"`
	Draft     string         `json:"draft"`
	Quality   scoring.Result `json:"quality"`
}

func runDraft(_ *cobra.Command, _ []string) error {
	if draftVariant < 0 || draftVariant > generation.MaxVariant {
		return fmt.Errorf("--variant must be between 0 and %d", generation.MaxVariant)
	}
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	f, err := readForm(draftFormFile, cfg)
	if err != nil {
		return err
	}

	orch := generation.NewOrchestrator(nil, gateway.Unavailable{}, nil)
	variant := draftVariant
	if variant == 0 {
		variant = orch.RollVariant()
	}
	text, quality := orch.Draft(f, variant)
	res := draftResult{
		VariantID: variant,
		Skeleton:  drafting.SkeletonFor(variant).String(),
		Draft:     text,
		Quality:   quality,
	}

	if draftJSON {
		return writeJSON(os.Stdout, res)
	}
	observability.NewPrinter(os.Stdout).PrintDraft(res.VariantID, res.Skeleton, res.Draft, res.Quality)
	return nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jonathan/training-report/internal/config"
	"github.com/jonathan/training-report/internal/drafting"
	"github.com/jonathan/training-report/internal/generation"
	"github.com/jonathan/training-report/internal/observability"
	"github.com/jonathan/training-report/internal/server/middleware"
	"github.com/jonathan/training-report/internal/types"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate standard and long report text for a questionnaire",
	Long: `Generate the standard and long report texts for a FormData JSON file.
Each --refine instruction is applied in order to the selected tab. With --save
the result is stored in the history database.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

var (
	generateFormFile string
	generateRefine   []string
	generateTab      string
	generateSave     bool
	generateJSON     bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateFormFile, "form", "f", "", "Path to FormData JSON file, or - for stdin (required)")
	generateCmd.Flags().StringArrayVar(&generateRefine, "refine", nil, "Rewrite instruction (repeatable)")
	generateCmd.Flags().StringVar(&generateTab, "tab", string(types.LengthStandard), "Output to refine: standard or long")
	generateCmd.Flags().BoolVar(&generateSave, "save", false, "Save the result to history")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Print the session snapshot as JSON")
	_ = generateCmd.MarkFlagRequired("form")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	f, err := readForm(generateFormFile, cfg)
	if err != nil {
		return err
	}
	return generateReport(cmd.Context(), cfg, f, generateRefine, types.LengthType(generateTab), generateSave, generateJSON)
}

// generateReport runs one session end to end: generate, refine, print and
// optionally save.
func generateReport(ctx context.Context, cfg config.Config, f types.FormData, refine []string, tab types.LengthType, save, asJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	orch, closeLLM, err := newOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLLM()

	printer := observability.NewPrinter(os.Stdout)
	sess := generation.NewSession(orch, f)

	snap, err := sess.Generate(ctx, true)
	if err != nil {
		return err
	}
	if cfg.Verbose && !asJSON {
		draft, quality := orch.Draft(f, snap.VariantID)
		printer.PrintDraft(snap.VariantID, drafting.SkeletonFor(snap.VariantID).String(), draft, quality)
	}

	if len(refine) > 0 {
		if snap, err = sess.SwitchTab(tab); err != nil {
			return err
		}
		for _, instruction := range refine {
			if snap, err = sess.Refine(ctx, instruction); err != nil {
				return fmt.Errorf("refine %q: %w", instruction, err)
			}
			if snap.RefineError != "" {
				log.Printf("[refine] %q not applied: %s", instruction, snap.RefineError)
			}
		}
	}

	if save {
		hist, closeDB, err := openHistory(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeDB()
		entry, err := sess.Save(ctx, hist, cliUserID(), false)
		if err != nil {
			return err
		}
		if !asJSON {
			fmt.Fprintf(os.Stderr, "Saved report %s\n", entry.ID)
		}
	}

	if asJSON {
		return writeJSON(os.Stdout, snap)
	}
	printer.PrintOutputs(finalOutputs(snap))
	return nil
}

// finalOutputs returns the outputs with the edited text in place of the
// active tab's generated text
func finalOutputs(snap generation.Snapshot) []types.GeneratedOutput {
	outputs := make([]types.GeneratedOutput, len(snap.Outputs))
	copy(outputs, snap.Outputs)
	for i := range outputs {
		if outputs[i].LengthType == snap.ActiveTab {
			outputs[i].Text = snap.EditedText
		}
	}
	return outputs
}

// cliUserID derives the owner of entries saved from the command line the
// same way the server derives it from a login name
func cliUserID() string {
	name := os.Getenv("AUTH_USERNAME")
	if name == "" {
		name = os.Getenv("USER")
	}
	if name == "" {
		name = "cli"
	}
	return middleware.PrincipalFor(name).UserID.String()
}

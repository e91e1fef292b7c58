package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonathan/training-report/internal/export"
	"github.com/jonathan/training-report/internal/history"
	"github.com/jonathan/training-report/internal/observability"
	"github.com/jonathan/training-report/internal/types"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, inspect and export saved reports",
}

var (
	historyStatus string
	historyLimit  int
	historyJSON   bool

	exportFormat string
	exportIDs    []string
	exportOut    string
)

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reports, newest first",
	Args:  cobra.NoArgs,
	RunE: withHistory(func(ctx context.Context, svc *history.Service, _ []string) error {
		status := types.EntryStatus(historyStatus)
		if status != "" && !status.IsValid() {
			return fmt.Errorf("unknown status %q", historyStatus)
		}
		entries, err := svc.List(ctx, history.ListOptions{Status: status, Limit: historyLimit})
		if err != nil {
			return err
		}
		if historyJSON {
			return writeJSON(os.Stdout, entries)
		}
		observability.NewPrinter(os.Stdout).PrintHistory(entries)
		return nil
	}),
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved report",
	Args:  cobra.ExactArgs(1),
	RunE: withHistory(func(ctx context.Context, svc *history.Service, args []string) error {
		entry, err := svc.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if historyJSON {
			return writeJSON(os.Stdout, entry)
		}
		observability.NewPrinter(os.Stdout).PrintEntry(entry)
		return nil
	}),
}

var historyStatusCmd = &cobra.Command{
	Use:   "status <id> <draft|submitted|reviewed|returned>",
	Short: "Move a saved report to a new status",
	Args:  cobra.ExactArgs(2),
	RunE: withHistory(func(ctx context.Context, svc *history.Service, args []string) error {
		req := types.UpdateStatusRequest{Status: types.EntryStatus(args[1])}
		if err := req.Validate(); err != nil {
			return fmt.Errorf("unknown status %q", args[1])
		}
		entry, err := svc.Transition(ctx, args[0], req.Status)
		if err != nil {
			return err
		}
		fmt.Printf("%s is now %s\n", entry.ID, export.StatusLabel(entry.Status))
		return nil
	}),
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete saved reports",
	Args:  cobra.MinimumNArgs(1),
	RunE: withHistory(func(ctx context.Context, svc *history.Service, args []string) error {
		n, err := svc.Delete(ctx, args)
		if err != nil {
			return err
		}
		fmt.Printf("deleted %d of %d\n", n, len(args))
		return nil
	}),
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved reports as CSV or text",
	Args:  cobra.NoArgs,
	RunE: withHistory(func(ctx context.Context, svc *history.Service, _ []string) error {
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		entries, err := svc.Select(ctx, exportIDs)
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if exportOut != "" {
			path := exportOut
			if path == "." {
				path = format.Filename(time.Now())
			}
			file, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			defer file.Close()
			w = file
			defer fmt.Fprintf(os.Stderr, "Exported %d reports to %s\n", len(entries), path)
		}
		return export.Write(w, format, entries)
	}),
}

func init() {
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "Print JSON")
	historyListCmd.Flags().StringVar(&historyStatus, "status", "", "Only entries with this status")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum entries to list (0 for all)")
	historyExportCmd.Flags().StringVar(&exportFormat, "format", string(export.FormatCSV), "Export format: csv or txt")
	historyExportCmd.Flags().StringSliceVar(&exportIDs, "ids", nil, "Entries to export (default all)")
	historyExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (. for a timestamped name; default stdout)")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyStatusCmd, historyDeleteCmd, historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}

// withHistory opens the history service for the duration of fn
func withHistory(fn func(ctx context.Context, svc *history.Service, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		svc, closeDB, err := openHistory(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeDB()
		return fn(ctx, svc, args)
	}
}

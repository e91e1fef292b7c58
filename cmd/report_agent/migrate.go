package main

import (
	"context"
	"fmt"

	"github.com/jonathan/training-report/internal/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the history database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: withDatabase(func(ctx context.Context, d *db.DB) error {
		if err := db.Migrate(ctx, d.Conn, d.Dialect); err != nil {
			return err
		}
		return printVersion(ctx, d)
	}),
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: withDatabase(func(ctx context.Context, d *db.DB) error {
		if err := db.Rollback(ctx, d.Conn, d.Dialect); err != nil {
			return err
		}
		return printVersion(ctx, d)
	}),
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE:  withDatabase(printVersion),
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}

// withDatabase opens the configured database for the duration of fn
func withDatabase(fn func(ctx context.Context, d *db.DB) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		database, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		return fn(ctx, database)
	}
}

func printVersion(ctx context.Context, d *db.DB) error {
	version, err := db.SchemaVersion(ctx, d.Conn, d.Dialect)
	if err != nil {
		return err
	}
	fmt.Printf("schema version: %d (%s)\n", version, d.Dialect)
	return nil
}

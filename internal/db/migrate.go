package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFiles embed.FS

// goose keeps its base FS and dialect in package state
var gooseMu sync.Mutex

func gooseDialect(d Dialect) (string, string, error) {
	switch d {
	case Postgres:
		return "postgres", "migrations/postgres", nil
	case SQLite:
		return "sqlite3", "migrations/sqlite", nil
	default:
		return "", "", fmt.Errorf("unsupported dialect %q", d)
	}
}

func withGoose(d Dialect, fn func(dir string) error) error {
	name, dir, err := gooseDialect(d)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect(name); err != nil {
		return err
	}
	return fn(dir)
}

// Migrate applies all pending embedded migrations
func Migrate(ctx context.Context, conn *sql.DB, d Dialect) error {
	if conn == nil {
		return nil
	}
	return withGoose(d, func(dir string) error {
		if err := goose.UpContext(ctx, conn, dir); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		return nil
	})
}

// Rollback reverts the most recent migration
func Rollback(ctx context.Context, conn *sql.DB, d Dialect) error {
	return withGoose(d, func(dir string) error {
		if err := goose.DownContext(ctx, conn, dir); err != nil {
			return fmt.Errorf("rolling back migration: %w", err)
		}
		return nil
	})
}

// SchemaVersion returns the current migration version
func SchemaVersion(ctx context.Context, conn *sql.DB, d Dialect) (int64, error) {
	var version int64
	err := withGoose(d, func(string) error {
		v, err := goose.GetDBVersionContext(ctx, conn)
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

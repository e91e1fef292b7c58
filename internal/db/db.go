// Package db opens the history database and applies its schema. PostgreSQL
// (through the pgx database/sql driver) backs the server; SQLite backs local
// CLI use. Both share one set of queries written with ? placeholders.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
	_ "modernc.org/sqlite"             // register sqlite as database/sql driver
)

// MemoryPath opens a private in-memory SQLite database
const MemoryPath = ":memory:"

// Options controls pool and connectivity behaviour
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

// DefaultOptions returns defaults for a long-running server process
func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     5 * time.Second,
	}
}

// OptionsFromEnv overrides defaults with DB_* environment variables
func OptionsFromEnv(defaults Options) Options {
	opts := defaults
	if v, ok := readEnvInt("DB_MAX_OPEN_CONNS"); ok {
		opts.MaxOpenConns = v
	}
	if v, ok := readEnvInt("DB_MAX_IDLE_CONNS"); ok {
		opts.MaxIdleConns = v
	}
	if v, ok := readEnvDuration("DB_CONN_MAX_LIFETIME"); ok {
		opts.ConnMaxLifetime = v
	}
	if v, ok := readEnvDuration("DB_PING_TIMEOUT"); ok {
		opts.PingTimeout = v
	}
	return opts
}

// DB is an open history database with its dialect
type DB struct {
	Conn    *sql.DB
	Dialect Dialect
}

// Close closes the underlying connection pool
func (d *DB) Close() error {
	if d == nil || d.Conn == nil {
		return nil
	}
	return d.Conn.Close()
}

// Open picks the driver from the target: postgres:// and postgresql:// URLs
// use PostgreSQL, anything else is a SQLite file path (or ":memory:").
func Open(ctx context.Context, target string, opts Options) (*DB, error) {
	if DialectFor(target) == Postgres {
		return ConnectPostgres(ctx, target, opts)
	}
	return OpenSQLite(ctx, target)
}

// DialectFor reports which dialect Open would use for target
func DialectFor(target string) Dialect {
	t := strings.ToLower(strings.TrimSpace(target))
	if strings.HasPrefix(t, "postgres://") || strings.HasPrefix(t, "postgresql://") {
		return Postgres
	}
	return SQLite
}

// ConnectPostgres opens a PostgreSQL pool and verifies connectivity
func ConnectPostgres(ctx context.Context, databaseURL string, opts Options) (*DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	conn, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	applyOptions(conn, opts)

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	stats := conn.Stats()
	log.Printf("[db] connected to postgres: max_open=%d", stats.MaxOpenConnections)
	return &DB{Conn: conn, Dialect: Postgres}, nil
}

// OpenSQLite opens (creating if needed) a SQLite database with foreign keys
// enforced on every connection
func OpenSQLite(ctx context.Context, path string) (*DB, error) {
	if path == "" {
		path = MemoryPath
	}

	dsn := "file::memory:?_pragma=foreign_keys(1)"
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
		dsn = "file:" + path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Each connection to :memory: is a separate database
	if path == MemoryPath {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return &DB{Conn: conn, Dialect: SQLite}, nil
}

// DefaultSQLitePath returns the per-user database location used by the CLI
func DefaultSQLitePath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "training-report", "history.db")
	}
	return "history.db"
}

func applyOptions(conn *sql.DB, opts Options) {
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = time.Hour
	}
	conn.SetMaxOpenConns(opts.MaxOpenConns)
	conn.SetMaxIdleConns(opts.MaxIdleConns)
	conn.SetConnMaxLifetime(opts.ConnMaxLifetime)
}

func readEnvInt(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("[db] env %s invalid int: %v", key, err)
		return 0, false
	}
	return val, true
}

func readEnvDuration(key string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("[db] env %s invalid duration: %v", key, err)
		return 0, false
	}
	return val, true
}

package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/training-report/internal/db"
	"github.com/jonathan/training-report/internal/types"
)

const (
	entryColumns  = "id, user_id, user_name, data, status, created_at"
	outputColumns = "entry_id, length_type, output_id, text, variant_id, score, warnings"
	outputOrder   = "CASE length_type WHEN 'standard' THEN 0 ELSE 1 END"
)

// SQLStore keeps history in PostgreSQL or SQLite
type SQLStore struct {
	conn    *sql.DB
	dialect db.Dialect
}

// NewSQLStore wraps an open, migrated database
func NewSQLStore(d *db.DB) *SQLStore {
	return &SQLStore{conn: d.Conn, dialect: d.Dialect}
}

var _ Store = (*SQLStore)(nil)

// List returns entries newest first with their outputs
func (s *SQLStore) List(ctx context.Context, opts ListOptions) ([]types.HistoryEntry, error) {
	query := "SELECT " + entryColumns + " FROM history_entries"
	var args []any
	if opts.Status != "" {
		query += " WHERE status = ?"
		args = append(args, string(opts.Status))
	}
	query += " ORDER BY created_at DESC, id DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.conn.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history entries: %w", err)
	}
	defer rows.Close()

	var entries []types.HistoryEntry
	index := make(map[string]int)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		index[entry.ID] = len(entries)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list history entries: %w", err)
	}
	if len(entries) == 0 {
		return []types.HistoryEntry{}, nil
	}

	ids := make([]any, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	outputs, err := s.loadOutputs(ctx, s.conn, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range outputs {
		i := index[o.entryID]
		entries[i].Outputs = append(entries[i].Outputs, o.GeneratedOutput)
	}
	return entries, nil
}

// Get returns a single entry with its outputs
func (s *SQLStore) Get(ctx context.Context, id string) (types.HistoryEntry, error) {
	row := s.conn.QueryRowContext(ctx,
		s.dialect.Rebind("SELECT "+entryColumns+" FROM history_entries WHERE id = ?"), id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.HistoryEntry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return types.HistoryEntry{}, err
	}

	outputs, err := s.loadOutputs(ctx, s.conn, []any{id})
	if err != nil {
		return types.HistoryEntry{}, err
	}
	for _, o := range outputs {
		entry.Outputs = append(entry.Outputs, o.GeneratedOutput)
	}
	return entry, nil
}

// Insert stores a new entry and its outputs in one transaction
func (s *SQLStore) Insert(ctx context.Context, entry types.HistoryEntry) error {
	if err := checkEntry(entry); err != nil {
		return err
	}
	data, err := json.Marshal(entry.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal form data: %w", err)
	}
	status := entry.Status
	if status == "" {
		status = types.StatusSubmitted
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return db.WithinTx(ctx, s.conn, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx,
			s.dialect.Rebind("INSERT INTO history_entries ("+entryColumns+") VALUES (?, ?, ?, ?, ?, ?)"),
			entry.ID, entry.UserID, entry.UserName, string(data), string(status),
			createdAt.UTC().Truncate(time.Microsecond),
		)
		if err != nil {
			return fmt.Errorf("failed to insert history entry: %w", err)
		}
		return s.insertOutputs(ctx, tx, entry.ID, entry.Outputs)
	})
}

// Replace overwrites the form data, status, creation time and outputs of an
// existing entry. The owner is kept.
func (s *SQLStore) Replace(ctx context.Context, entry types.HistoryEntry) error {
	if err := checkEntry(entry); err != nil {
		return err
	}
	data, err := json.Marshal(entry.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal form data: %w", err)
	}
	status := entry.Status
	if status == "" {
		status = types.StatusSubmitted
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return db.WithinTx(ctx, s.conn, func(ctx context.Context, tx db.DBTX) error {
		res, err := tx.ExecContext(ctx,
			s.dialect.Rebind("UPDATE history_entries SET user_name = ?, data = ?, status = ?, created_at = ? WHERE id = ?"),
			entry.UserName, string(data), string(status), createdAt.UTC().Truncate(time.Microsecond), entry.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update history entry: %w", err)
		}
		if err := expectAffected(res, entry.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			s.dialect.Rebind("DELETE FROM generated_outputs WHERE entry_id = ?"), entry.ID,
		); err != nil {
			return fmt.Errorf("failed to clear outputs: %w", err)
		}
		return s.insertOutputs(ctx, tx, entry.ID, entry.Outputs)
	})
}

// Delete removes entries by id; outputs go with them
func (s *SQLStore) Delete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	var deleted int64
	err := db.WithinTx(ctx, s.conn, func(ctx context.Context, tx db.DBTX) error {
		in := s.dialect.Placeholders(len(ids))
		if _, err := tx.ExecContext(ctx,
			s.dialect.Rebind("DELETE FROM generated_outputs WHERE entry_id IN ("+in+")"), args...,
		); err != nil {
			return fmt.Errorf("failed to delete outputs: %w", err)
		}
		res, err := tx.ExecContext(ctx,
			s.dialect.Rebind("DELETE FROM history_entries WHERE id IN ("+in+")"), args...,
		)
		if err != nil {
			return fmt.Errorf("failed to delete history entries: %w", err)
		}
		deleted, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return int(deleted), nil
}

// UpdateStatus sets the lifecycle status of an entry
func (s *SQLStore) UpdateStatus(ctx context.Context, id string, status types.EntryStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidEntry, status)
	}
	res, err := s.conn.ExecContext(ctx,
		s.dialect.Rebind("UPDATE history_entries SET status = ? WHERE id = ?"), string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return expectAffected(res, id)
}

func (s *SQLStore) insertOutputs(ctx context.Context, tx db.DBTX, entryID string, outputs []types.GeneratedOutput) error {
	query := s.dialect.Rebind("INSERT INTO generated_outputs (" + outputColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?)")
	for _, o := range outputs {
		warnings := o.Warnings
		if warnings == nil {
			warnings = []string{}
		}
		w, err := json.Marshal(warnings)
		if err != nil {
			return fmt.Errorf("failed to marshal warnings: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query,
			entryID, string(o.LengthType), o.ID, o.Text, o.VariantID, o.Score, string(w),
		); err != nil {
			return fmt.Errorf("failed to insert %s output: %w", o.LengthType, err)
		}
	}
	return nil
}

type storedOutput struct {
	types.GeneratedOutput
	entryID string
}

func (s *SQLStore) loadOutputs(ctx context.Context, q db.DBTX, ids []any) ([]storedOutput, error) {
	query := "SELECT " + outputColumns + " FROM generated_outputs WHERE entry_id IN (" +
		s.dialect.Placeholders(len(ids)) + ") ORDER BY entry_id, " + outputOrder
	rows, err := q.QueryContext(ctx, s.dialect.Rebind(query), ids...)
	if err != nil {
		return nil, fmt.Errorf("failed to load outputs: %w", err)
	}
	defer rows.Close()

	var out []storedOutput
	for rows.Next() {
		var (
			o        storedOutput
			length   string
			warnings []byte
		)
		if err := rows.Scan(&o.entryID, &length, &o.ID, &o.Text, &o.VariantID, &o.Score, &warnings); err != nil {
			return nil, fmt.Errorf("failed to scan output: %w", err)
		}
		o.LengthType = types.LengthType(length)
		if err := json.Unmarshal(warnings, &o.Warnings); err != nil {
			return nil, fmt.Errorf("failed to decode warnings: %w", err)
		}
		if o.Warnings == nil {
			o.Warnings = []string{}
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load outputs: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (types.HistoryEntry, error) {
	var (
		e      types.HistoryEntry
		data   []byte
		status string
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.UserName, &data, &status, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("failed to scan history entry: %w", err)
	}
	e.Data = types.NewFormData()
	if err := json.Unmarshal(data, &e.Data); err != nil {
		return e, fmt.Errorf("failed to decode form data for %s: %w", e.ID, err)
	}
	e.Status = types.EntryStatus(status)
	e.CreatedAt = e.CreatedAt.UTC()
	e.Outputs = []types.GeneratedOutput{}
	return e, nil
}

func expectAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

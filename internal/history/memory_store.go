package history

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jonathan/training-report/internal/types"
)

// MemoryStore keeps history in process memory. Used by tests and by the
// server when no database is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]types.HistoryEntry
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]types.HistoryEntry)}
}

var _ Store = (*MemoryStore)(nil)

// List returns entries newest first
func (m *MemoryStore) List(_ context.Context, opts ListOptions) ([]types.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.HistoryEntry, 0, len(m.entries))
	for _, e := range m.entries {
		if opts.Status != "" && e.Status != opts.Status {
			continue
		}
		out = append(out, cloneEntry(e))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// Get returns a copy of the entry
func (m *MemoryStore) Get(_ context.Context, id string) (types.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return types.HistoryEntry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return cloneEntry(e), nil
}

// Insert adds a new entry
func (m *MemoryStore) Insert(_ context.Context, entry types.HistoryEntry) error {
	if err := checkEntry(entry); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[entry.ID]; exists {
		return fmt.Errorf("%w: duplicate id %s", ErrInvalidEntry, entry.ID)
	}
	e := cloneEntry(entry)
	if e.Status == "" {
		e.Status = types.StatusSubmitted
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC().Truncate(time.Microsecond)
	sortOutputs(e.Outputs)
	m.entries[e.ID] = e
	return nil
}

// Replace overwrites an existing entry's content and creation time. The owner
// is kept.
func (m *MemoryStore) Replace(_ context.Context, entry types.HistoryEntry) error {
	if err := checkEntry(entry); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.entries[entry.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, entry.ID)
	}
	e := cloneEntry(entry)
	e.UserID = current.UserID
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC().Truncate(time.Microsecond)
	if e.Status == "" {
		e.Status = types.StatusSubmitted
	}
	sortOutputs(e.Outputs)
	m.entries[e.ID] = e
	return nil
}

// Delete removes entries by id
func (m *MemoryStore) Delete(_ context.Context, ids []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, id := range ids {
		if _, ok := m.entries[id]; ok {
			delete(m.entries, id)
			n++
		}
	}
	return n, nil
}

// UpdateStatus sets the entry status
func (m *MemoryStore) UpdateStatus(_ context.Context, id string, status types.EntryStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidEntry, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	e.Status = status
	m.entries[id] = e
	return nil
}

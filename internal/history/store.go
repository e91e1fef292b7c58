// Package history persists saved training reports and their generated outputs.
package history

import (
	"context"
	"errors"
	"sort"

	"github.com/jonathan/training-report/internal/types"
)

var (
	// ErrNotFound is returned when no entry has the requested id
	ErrNotFound = errors.New("history entry not found")
	// ErrInvalidTransition is returned when a status change is not allowed
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidEntry is returned when an entry cannot be stored as given
	ErrInvalidEntry = errors.New("invalid history entry")
)

// ListOptions filters List results. Zero values mean no filter.
type ListOptions struct {
	Status types.EntryStatus
	Limit  int
}

// Store is the durable list of saved entries. An entry and its outputs are
// written together or not at all.
type Store interface {
	// List returns entries newest first
	List(ctx context.Context, opts ListOptions) ([]types.HistoryEntry, error)
	Get(ctx context.Context, id string) (types.HistoryEntry, error)
	Insert(ctx context.Context, entry types.HistoryEntry) error
	// Replace overwrites the content of an existing entry, keeping its id and
	// owner. The creation time is taken from entry, so an edited entry moves to
	// the top of List.
	Replace(ctx context.Context, entry types.HistoryEntry) error
	// Delete removes the given entries and reports how many existed
	Delete(ctx context.Context, ids []string) (int, error)
	UpdateStatus(ctx context.Context, id string, status types.EntryStatus) error
}

func checkEntry(entry types.HistoryEntry) error {
	if entry.ID == "" {
		return errors.Join(ErrInvalidEntry, errors.New("id is required"))
	}
	if entry.Status != "" && !entry.Status.IsValid() {
		return errors.Join(ErrInvalidEntry, errors.New("unknown status "+string(entry.Status)))
	}
	seen := make(map[types.LengthType]bool, len(entry.Outputs))
	for _, o := range entry.Outputs {
		if !o.LengthType.IsValid() {
			return errors.Join(ErrInvalidEntry, errors.New("unknown length type "+string(o.LengthType)))
		}
		if seen[o.LengthType] {
			return errors.Join(ErrInvalidEntry, errors.New("duplicate output for "+string(o.LengthType)))
		}
		seen[o.LengthType] = true
	}
	return nil
}

// sortOutputs orders outputs standard first
func sortOutputs(outputs []types.GeneratedOutput) {
	rank := func(l types.LengthType) int {
		if l == types.LengthStandard {
			return 0
		}
		return 1
	}
	sort.SliceStable(outputs, func(i, j int) bool {
		return rank(outputs[i].LengthType) < rank(outputs[j].LengthType)
	})
}

func cloneEntry(e types.HistoryEntry) types.HistoryEntry {
	c := e
	c.Data = e.Data.Clone()
	c.Outputs = make([]types.GeneratedOutput, len(e.Outputs))
	for i, o := range e.Outputs {
		o.Warnings = append([]string{}, o.Warnings...)
		c.Outputs[i] = o
	}
	return c
}

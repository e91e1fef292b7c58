package history

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/training-report/internal/types"
)

var transitions = map[types.EntryStatus][]types.EntryStatus{
	types.StatusDraft:     {types.StatusSubmitted},
	types.StatusSubmitted: {types.StatusReviewed, types.StatusReturned},
	types.StatusReturned:  {types.StatusSubmitted},
}

// CanTransition reports whether an entry may move from one status to another
func CanTransition(from, to types.EntryStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Service adds logging and the status lifecycle on top of a Store. It
// satisfies generation.EntryWriter.
type Service struct {
	store Store
}

// NewService wraps store
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns entries newest first
func (s *Service) List(ctx context.Context, opts ListOptions) ([]types.HistoryEntry, error) {
	return s.store.List(ctx, opts)
}

// Get returns one entry
func (s *Service) Get(ctx context.Context, id string) (types.HistoryEntry, error) {
	return s.store.Get(ctx, id)
}

// Select returns the entries with the given ids in list order, or every
// entry when ids is empty. Unknown ids are ignored.
func (s *Service) Select(ctx context.Context, ids []string) ([]types.HistoryEntry, error) {
	entries, err := s.store.List(ctx, ListOptions{})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return entries, nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	selected := make([]types.HistoryEntry, 0, len(ids))
	for _, e := range entries {
		if want[e.ID] {
			selected = append(selected, e)
		}
	}
	return selected, nil
}

// Insert saves a new entry
func (s *Service) Insert(ctx context.Context, entry types.HistoryEntry) error {
	if err := s.store.Insert(ctx, entry); err != nil {
		log.Printf("[history] insert %s failed: %v", entry.ID, err)
		return err
	}
	log.Printf("[history] saved %s (%d outputs)", entry.ID, len(entry.Outputs))
	return nil
}

// Replace overwrites an existing entry
func (s *Service) Replace(ctx context.Context, entry types.HistoryEntry) error {
	if err := s.store.Replace(ctx, entry); err != nil {
		log.Printf("[history] replace %s failed: %v", entry.ID, err)
		return err
	}
	log.Printf("[history] overwrote %s", entry.ID)
	return nil
}

// Delete removes entries by id
func (s *Service) Delete(ctx context.Context, ids []string) (int, error) {
	n, err := s.store.Delete(ctx, ids)
	if err != nil {
		log.Printf("[history] delete failed: %v", err)
		return 0, err
	}
	log.Printf("[history] deleted %d of %d entries", n, len(ids))
	return n, nil
}

// Transition moves an entry to a new status if the lifecycle allows it
func (s *Service) Transition(ctx context.Context, id string, to types.EntryStatus) (types.HistoryEntry, error) {
	entry, err := s.store.Get(ctx, id)
	if err != nil {
		return types.HistoryEntry{}, err
	}
	if !CanTransition(entry.Status, to) {
		return types.HistoryEntry{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, entry.Status, to)
	}
	if err := s.store.UpdateStatus(ctx, id, to); err != nil {
		return types.HistoryEntry{}, err
	}
	log.Printf("[history] %s: %s -> %s", id, entry.Status, to)
	entry.Status = to
	return entry, nil
}

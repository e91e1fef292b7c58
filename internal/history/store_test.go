package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/training-report/internal/db"
	"github.com/jonathan/training-report/internal/types"
)

var baseTime = time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC)

func sampleEntry(id string, offset time.Duration) types.HistoryEntry {
	f := types.NewFormData()
	f.UserName = "山田太郎"
	f.MainTool = "ChatGPT"
	f.AdditionalTools = []string{"Claude"}
	f.JobRole = "営業"
	f.LearningPoints = []string{"プロンプト設計"}
	return types.HistoryEntry{
		ID:       id,
		UserID:   "user-1",
		UserName: f.UserName,
		Data:     f,
		Outputs: []types.GeneratedOutput{
			{ID: id + "-long", Text: "長文の報告", LengthType: types.LengthLong, VariantID: 3, Score: 80, Warnings: []string{"課題が未入力です"}},
			{ID: id + "-std", Text: "標準の報告", LengthType: types.LengthStandard, VariantID: 3, Score: 80, Warnings: []string{}},
		},
		CreatedAt: baseTime.Add(offset),
		Status:    types.StatusSubmitted,
	}
}

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	ctx := context.Background()
	d, err := db.OpenSQLite(ctx, db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	require.NoError(t, db.Migrate(ctx, d.Conn, d.Dialect))
	return NewSQLStore(d)
}

func newMemoryStore(*testing.T) Store {
	return NewMemoryStore()
}

func forEachStore(t *testing.T, fn func(t *testing.T, store Store)) {
	stores := map[string]func(*testing.T) Store{
		"memory": newMemoryStore,
		"sqlite": newSQLiteStore,
	}
	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			fn(t, newStore(t))
		})
	}
}

func TestStore_InsertAndGet(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		entry := sampleEntry("entry-1", 0)
		require.NoError(t, store.Insert(ctx, entry))

		got, err := store.Get(ctx, "entry-1")
		require.NoError(t, err)

		assert.Equal(t, "user-1", got.UserID)
		assert.Equal(t, "山田太郎", got.UserName)
		assert.Equal(t, types.StatusSubmitted, got.Status)
		assert.True(t, baseTime.Equal(got.CreatedAt))
		assert.Equal(t, entry.Data, got.Data)

		require.Len(t, got.Outputs, 2)
		assert.Equal(t, types.LengthStandard, got.Outputs[0].LengthType)
		assert.Equal(t, "標準の報告", got.Outputs[0].Text)
		assert.Equal(t, types.LengthLong, got.Outputs[1].LengthType)
		assert.Equal(t, []string{"課題が未入力です"}, got.Outputs[1].Warnings)
		assert.Equal(t, []string{}, got.Outputs[0].Warnings)
	})
}

func TestStore_GetMissing(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		_, err := store.Get(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_ListNewestFirst(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		require.NoError(t, store.Insert(ctx, sampleEntry("old", 0)))
		require.NoError(t, store.Insert(ctx, sampleEntry("new", 2*time.Hour)))
		require.NoError(t, store.Insert(ctx, sampleEntry("mid", time.Hour)))

		entries, err := store.List(ctx, ListOptions{})
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, []string{"new", "mid", "old"}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
		for _, e := range entries {
			assert.Len(t, e.Outputs, 2, e.ID)
		}

		limited, err := store.List(ctx, ListOptions{Limit: 1})
		require.NoError(t, err)
		require.Len(t, limited, 1)
		assert.Equal(t, "new", limited[0].ID)
	})
}

func TestStore_ListEmpty(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		entries, err := store.List(context.Background(), ListOptions{})
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})
}

func TestStore_ListByStatus(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		require.NoError(t, store.Insert(ctx, sampleEntry("a", 0)))
		returned := sampleEntry("b", time.Minute)
		returned.Status = types.StatusReturned
		require.NoError(t, store.Insert(ctx, returned))

		entries, err := store.List(ctx, ListOptions{Status: types.StatusReturned})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "b", entries[0].ID)
	})
}

func TestStore_Replace(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		require.NoError(t, store.Insert(ctx, sampleEntry("entry-1", 0)))

		updated := sampleEntry("entry-1", 5*time.Hour)
		updated.UserID = "someone-else"
		updated.Data.MainTool = "Gemini"
		updated.Outputs = []types.GeneratedOutput{
			{ID: "new-std", Text: "書き直した報告", LengthType: types.LengthStandard, VariantID: 7, Score: 100},
		}
		require.NoError(t, store.Replace(ctx, updated))

		got, err := store.Get(ctx, "entry-1")
		require.NoError(t, err)
		assert.Equal(t, "Gemini", got.Data.MainTool)
		assert.Equal(t, "user-1", got.UserID, "owner is kept")
		assert.True(t, baseTime.Add(5*time.Hour).Equal(got.CreatedAt), "creation time is restamped")
		require.Len(t, got.Outputs, 1)
		assert.Equal(t, "書き直した報告", got.Outputs[0].Text)
		assert.Equal(t, 7, got.Outputs[0].VariantID)
	})
}

func TestStore_ReplaceMovesEntryToTop(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		require.NoError(t, store.Insert(ctx, sampleEntry("older", 0)))
		require.NoError(t, store.Insert(ctx, sampleEntry("newer", time.Hour)))

		require.NoError(t, store.Replace(ctx, sampleEntry("older", 2*time.Hour)))

		entries, err := store.List(ctx, ListOptions{})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "older", entries[0].ID)
		assert.Equal(t, "newer", entries[1].ID)
	})
}

func TestStore_ReplaceMissing(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		err := store.Replace(context.Background(), sampleEntry("ghost", 0))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_Delete(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		for i, id := range []string{"a", "b", "c"} {
			require.NoError(t, store.Insert(ctx, sampleEntry(id, time.Duration(i)*time.Minute)))
		}

		n, err := store.Delete(ctx, []string{"a", "c", "missing"})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		entries, err := store.List(ctx, ListOptions{})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "b", entries[0].ID)

		n, err = store.Delete(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestStore_UpdateStatus(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		require.NoError(t, store.Insert(ctx, sampleEntry("entry-1", 0)))

		require.NoError(t, store.UpdateStatus(ctx, "entry-1", types.StatusReviewed))
		got, err := store.Get(ctx, "entry-1")
		require.NoError(t, err)
		assert.Equal(t, types.StatusReviewed, got.Status)

		assert.ErrorIs(t, store.UpdateStatus(ctx, "missing", types.StatusReviewed), ErrNotFound)
		assert.ErrorIs(t, store.UpdateStatus(ctx, "entry-1", "archived"), ErrInvalidEntry)
	})
}

func TestStore_RejectsInvalidEntries(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		noID := sampleEntry("", 0)
		assert.ErrorIs(t, store.Insert(ctx, noID), ErrInvalidEntry)

		dup := sampleEntry("dup", 0)
		dup.Outputs = append(dup.Outputs, dup.Outputs[0])
		assert.ErrorIs(t, store.Insert(ctx, dup), ErrInvalidEntry)

		_, err := store.Get(ctx, "dup")
		assert.ErrorIs(t, err, ErrNotFound, "nothing is partially saved")
	})
}

func TestStore_DuplicateIDFails(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		require.NoError(t, store.Insert(ctx, sampleEntry("same", 0)))
		assert.Error(t, store.Insert(ctx, sampleEntry("same", time.Hour)))
	})
}

func TestStore_ReturnsCopies(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		require.NoError(t, store.Insert(ctx, sampleEntry("entry-1", 0)))

		got, err := store.Get(ctx, "entry-1")
		require.NoError(t, err)
		got.Data.AdditionalTools[0] = "mutated"
		got.Outputs[0].Text = "mutated"

		again, err := store.Get(ctx, "entry-1")
		require.NoError(t, err)
		assert.Equal(t, "Claude", again.Data.AdditionalTools[0])
		assert.Equal(t, "標準の報告", again.Outputs[0].Text)
	})
}

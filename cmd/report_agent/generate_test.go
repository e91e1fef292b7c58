package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jonathan/training-report/internal/config"
	"github.com/jonathan/training-report/internal/generation"
	"github.com/jonathan/training-report/internal/history"
	"github.com/jonathan/training-report/internal/server/middleware"
	"github.com/jonathan/training-report/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleForm() types.FormData {
	f := types.NewFormData()
	f.UserName = "山田 太郎"
	f.MainTool = "ChatGPT"
	f.JobRole = "営業"
	f.JobTasks = []string{"顧客開拓"}
	f.JobFlow = "訪問と提案"
	f.LearningPoints = []string{"要約"}
	return f
}

func TestFinalOutputs_UsesEditedTextForActiveTab(t *testing.T) {
	snap := generation.Snapshot{
		ActiveTab:  types.LengthLong,
		EditedText: "手直しした長文",
		Outputs: []types.GeneratedOutput{
			{ID: "a", Text: "標準", LengthType: types.LengthStandard},
			{ID: "b", Text: "長文", LengthType: types.LengthLong},
		},
	}

	outputs := finalOutputs(snap)
	require.Len(t, outputs, 2)
	assert.Equal(t, "標準", outputs[0].Text)
	assert.Equal(t, "手直しした長文", outputs[1].Text)

	// the snapshot itself is untouched
	assert.Equal(t, "長文", snap.Outputs[1].Text)
}

func TestFinalOutputs_Empty(t *testing.T) {
	assert.Empty(t, finalOutputs(generation.Snapshot{ActiveTab: types.LengthStandard}))
}

func TestCLIUserID_MatchesServerDerivation(t *testing.T) {
	t.Setenv("AUTH_USERNAME", "trainer")
	assert.Equal(t, middleware.PrincipalFor("trainer").UserID.String(), cliUserID())

	t.Setenv("AUTH_USERNAME", "")
	t.Setenv("USER", "")
	assert.Equal(t, middleware.PrincipalFor("cli").UserID.String(), cliUserID())
}

func TestGenerateReport_OfflineSavesToSQLite(t *testing.T) {
	t.Setenv("AUTH_USERNAME", "trainer")
	ctx := context.Background()
	cfg := config.Config{DatabaseURL: filepath.Join(t.TempDir(), "history.db")}

	err := generateReport(ctx, cfg, sampleForm(), nil, types.LengthStandard, true, true)
	require.NoError(t, err)

	hist, closeDB, err := openHistory(ctx, cfg)
	require.NoError(t, err)
	defer closeDB()

	entries, err := hist.List(ctx, history.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "山田 太郎", entry.UserName)
	assert.Equal(t, middleware.PrincipalFor("trainer").UserID.String(), entry.UserID)
	assert.Equal(t, types.StatusSubmitted, entry.Status)
	assert.Len(t, entry.Outputs, 2)
}

func TestGenerateReport_RefineFailureKeepsDraft(t *testing.T) {
	t.Setenv("AUTH_USERNAME", "trainer")
	ctx := context.Background()
	cfg := config.Config{DatabaseURL: filepath.Join(t.TempDir(), "history.db")}

	err := generateReport(ctx, cfg, sampleForm(), []string{"もっと丁寧に"}, types.LengthLong, true, true)
	require.NoError(t, err)

	hist, closeDB, err := openHistory(ctx, cfg)
	require.NoError(t, err)
	defer closeDB()

	entries, err := hist.List(ctx, history.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	long, ok := entries[0].Output(types.LengthLong)
	require.True(t, ok)
	assert.NotEmpty(t, long.Text)
}

func TestGenerateReport_RejectsIncompleteForm(t *testing.T) {
	f := types.NewFormData()

	err := generateReport(context.Background(), config.Config{}, f, nil, types.LengthStandard, false, true)

	var verr *generation.ValidationError
	assert.ErrorAs(t, err, &verr)
}

package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jonathan/training-report/internal/scoring"
	"github.com/jonathan/training-report/internal/types"
	"github.com/stretchr/testify/assert"
)

func sampleEntry() types.HistoryEntry {
	f := types.NewFormData()
	f.UserName = "山田 太郎"
	f.MainTool = "ChatGPT"
	f.AdditionalTools = []string{"Notion AI"}
	f.JobRole = "営業"
	return types.HistoryEntry{
		ID:       "entry-1",
		UserName: f.UserName,
		Data:     f,
		Outputs: []types.GeneratedOutput{
			{Text: "標準の本文です。", LengthType: types.LengthStandard, VariantID: 3, Score: 80},
			{Text: "長文の本文です。", LengthType: types.LengthLong, VariantID: 3, Score: 80, Warnings: []string{"KPIの数値が未入力です"}},
		},
		CreatedAt: time.Date(2026, 4, 1, 0, 30, 0, 0, time.UTC),
		Status:    types.StatusSubmitted,
	}
}

// assertBoxAligned checks that every line of a box has the same cell width
func assertBoxAligned(t *testing.T, output string) {
	t.Helper()
	for _, line := range strings.Split(strings.TrimSuffix(output, "\n"), "\n") {
		assert.Equal(t, boxWidth, lipgloss.Width(line), "line %q", line)
	}
}

func TestPrintDraft(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDraft(2, "urgency", "営業の業務を効率化すべく、研修でChatGPTを学びました。", scoring.Result{
		Score:    60,
		Warnings: []string{"業務フローが短すぎます"},
	})
	output := buf.String()

	assert.Contains(t, output, "BASE DRAFT")
	assert.Contains(t, output, "urgency")
	assert.Contains(t, output, "60/100")
	assert.Contains(t, output, "業務フローが短すぎます")
	assertBoxAligned(t, output)
}

func TestPrintOutputs_WrapsLongText(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	long := strings.Repeat("研修で学んだ内容を業務に活かします。", 10)
	p.PrintOutputs([]types.GeneratedOutput{{Text: long, LengthType: types.LengthLong, VariantID: 1}})
	output := buf.String()

	assert.Contains(t, output, "LONG 長文")
	assert.Contains(t, output, "target 450-650")
	assert.NotContains(t, output, "...", "report text is wrapped, never cut")
	assertBoxAligned(t, output)
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintHistory([]types.HistoryEntry{sampleEntry()})
	output := buf.String()

	assert.Contains(t, output, "HISTORY")
	assert.Contains(t, output, "2026-04-01 09:30")
	assert.Contains(t, output, "提出済み")
	assert.Contains(t, output, "山田 太郎")
	assertBoxAligned(t, output)
}

func TestPrintHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintHistory(nil)

	assert.Contains(t, buf.String(), "NO SAVED REPORTS")
}

func TestPrintEntry(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintEntry(sampleEntry())
	output := buf.String()

	assert.Contains(t, output, "SAVED REPORT")
	assert.Contains(t, output, "ChatGPT, Notion AI")
	assert.Contains(t, output, "営業")
	assert.Contains(t, output, "標準の本文です。")
	assert.Contains(t, output, "KPIの数値が未入力です")
}

func TestPrintCatalog(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCatalog()
	output := buf.String()

	assert.Contains(t, output, "TRAININGS")
	assert.Contains(t, output, "tr-01")
	assert.Contains(t, output, "JOB ROLES")
	assert.Contains(t, output, "PERSONALITIES")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	got := truncate("あいうえおかきくけこ", 10)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, lipgloss.Width(got), 10)
}

func TestWrap(t *testing.T) {
	parts := wrap("あいうえおかきくけこ", 6)
	assert.Equal(t, []string{"あいう", "えおか", "きくけ", "こ"}, parts)
}

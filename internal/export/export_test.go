package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/training-report/internal/types"
)

func entries() []types.HistoryEntry {
	f := types.NewFormData()
	f.UserName = "佐藤花子"
	f.MainTool = "ChatGPT"
	f.AdditionalTools = []string{"Claude", "Gemini"}
	f.JobRole = types.OtherOption
	f.JobRoleOther = "広報"

	return []types.HistoryEntry{
		{
			ID:        "entry-1",
			UserName:  "佐藤花子",
			Data:      f,
			CreatedAt: time.Date(2025, 4, 1, 0, 30, 0, 0, time.UTC),
			Status:    types.StatusSubmitted,
			Outputs: []types.GeneratedOutput{
				{LengthType: types.LengthStandard, Text: "一行目\n\"引用\"を含む", VariantID: 2, Score: 80, Warnings: []string{"課題が未入力です"}},
				{LengthType: types.LengthLong, Text: "長文", VariantID: 2, Score: 80},
			},
		},
		{
			ID:        "entry-2",
			UserName:  "鈴木",
			Data:      types.NewFormData(),
			CreatedAt: time.Date(2025, 4, 2, 15, 0, 0, 0, time.UTC),
			Status:    types.StatusReturned,
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{"txt", FormatText, false},
		{"text", FormatText, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, entries()))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\ufeff"), "starts with BOM")

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\ufeff"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4, "header + two outputs + one empty entry")

	assert.Equal(t, csvHeader, records[0])

	std := records[1]
	assert.Equal(t, "entry-1", std[0])
	assert.Equal(t, "2025-04-01 09:30", std[1], "stamped in JST")
	assert.Equal(t, "提出済み", std[2])
	assert.Equal(t, "Claude、Gemini", std[6])
	assert.Equal(t, "広報", std[7])
	assert.Equal(t, "標準", std[8])
	assert.Equal(t, "2", std[9])
	assert.Equal(t, "80", std[10])
	assert.Equal(t, "課題が未入力です", std[11])
	assert.Equal(t, "一行目\n\"引用\"を含む", std[12])

	assert.Equal(t, "長文", records[2][8])

	empty := records[3]
	assert.Equal(t, "entry-2", empty[0])
	assert.Equal(t, "差し戻し", empty[2])
	assert.Equal(t, "", empty[12])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "\ufeff"+strings.Join(csvHeader, ",")+"\r\n", buf.String())
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, entries()))

	out := buf.String()
	assert.Equal(t, 4, strings.Count(out, separator))
	assert.Contains(t, out, "ツール: ChatGPT、Claude、Gemini")
	assert.Contains(t, out, "職種: 広報")
	assert.Contains(t, out, "[標準] パターン2 / スコア80\n一行目")
	assert.Contains(t, out, "[長文] パターン2 / スコア80\n長文\n")
	assert.Contains(t, out, "ステータス: 差し戻し")
	assert.Less(t, strings.Index(out, "entry-1"), strings.Index(out, "entry-2"))
}

func TestFormatMetadata(t *testing.T) {
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "training-reports-20250401-090000.csv", FormatCSV.Filename(now))
	assert.Equal(t, "training-reports-20250401-090000.txt", FormatText.Filename(now))
	assert.Contains(t, FormatCSV.ContentType(), "text/csv")
	assert.Contains(t, FormatText.ContentType(), "text/plain")
}

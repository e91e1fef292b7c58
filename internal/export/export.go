// Package export renders history entries as CSV or plain text for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/training-report/internal/types"
)

// Format is a supported export format
type Format string

// Export formats
const (
	FormatCSV  Format = "csv"
	FormatText Format = "txt"
)

// ParseFormat accepts "csv" or "txt" (case-insensitive); empty means CSV
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatText, "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the HTTP content type for the format
func (f Format) ContentType() string {
	if f == FormatText {
		return "text/plain; charset=utf-8"
	}
	return "text/csv; charset=utf-8"
}

// Filename returns a download name stamped with the export time
func (f Format) Filename(now time.Time) string {
	return "training-reports-" + now.In(JST).Format("20060102-150405") + "." + string(f)
}

// JST is the time zone reports are stamped in
var JST = time.FixedZone("JST", 9*60*60)

const timeLayout = "2006-01-02 15:04"

// bom makes spreadsheet applications detect UTF-8
const bom = "\ufeff"

var csvHeader = []string{
	"ID", "作成日時", "ステータス", "氏名", "研修", "メインツール", "追加ツール",
	"職種", "文字数タイプ", "パターン", "スコア", "警告", "本文",
}

var lengthLabels = map[types.LengthType]string{
	types.LengthStandard: "標準",
	types.LengthLong:     "長文",
}

var statusLabels = map[types.EntryStatus]string{
	types.StatusDraft:     "下書き",
	types.StatusSubmitted: "提出済み",
	types.StatusReviewed:  "確認済み",
	types.StatusReturned:  "差し戻し",
}

// StatusLabel returns the display label for a status
func StatusLabel(s types.EntryStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// LengthLabel returns the display label for a length classification
func LengthLabel(l types.LengthType) string {
	if label, ok := lengthLabels[l]; ok {
		return label
	}
	return string(l)
}

// Write renders entries in the given format
func Write(w io.Writer, f Format, entries []types.HistoryEntry) error {
	if f == FormatText {
		return WriteText(w, entries)
	}
	return WriteCSV(w, entries)
}

// WriteCSV writes one row per generated output, prefixed with a UTF-8 BOM.
// Entries without outputs still get a row so nothing disappears from the sheet.
func WriteCSV(w io.Writer, entries []types.HistoryEntry) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, e := range entries {
		base := []string{
			e.ID,
			e.CreatedAt.In(JST).Format(timeLayout),
			StatusLabel(e.Status),
			e.UserName,
			string(e.Data.TrainingType),
			e.Data.MainTool,
			strings.Join(e.Data.AdditionalTools, "、"),
			e.Data.EffectiveRole(),
		}
		if len(e.Outputs) == 0 {
			if err := cw.Write(append(base, "", "", "", "", "")); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
			continue
		}
		for _, o := range e.Outputs {
			row := append(append([]string{}, base...),
				LengthLabel(o.LengthType),
				strconv.Itoa(o.VariantID),
				strconv.Itoa(o.Score),
				strings.Join(o.Warnings, " / "),
				o.Text,
			)
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

const separator = "========================================"

// WriteText writes a human-readable block per entry separated by rule lines
func WriteText(w io.Writer, entries []types.HistoryEntry) error {
	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(separator + "\n")
		fmt.Fprintf(&sb, "ID: %s\n", e.ID)
		fmt.Fprintf(&sb, "作成日時: %s\n", e.CreatedAt.In(JST).Format(timeLayout))
		fmt.Fprintf(&sb, "ステータス: %s\n", StatusLabel(e.Status))
		fmt.Fprintf(&sb, "氏名: %s\n", e.UserName)
		fmt.Fprintf(&sb, "研修: %s\n", e.Data.TrainingType)
		fmt.Fprintf(&sb, "ツール: %s\n", strings.Join(e.Data.AllTools(), "、"))
		if role := e.Data.EffectiveRole(); role != "" {
			fmt.Fprintf(&sb, "職種: %s\n", role)
		}
		sb.WriteString(separator + "\n")
		for _, o := range e.Outputs {
			fmt.Fprintf(&sb, "\n[%s] パターン%d / スコア%d\n", LengthLabel(o.LengthType), o.VariantID, o.Score)
			sb.WriteString(o.Text)
			sb.WriteString("\n")
		}
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write text export: %w", err)
	}
	return nil
}

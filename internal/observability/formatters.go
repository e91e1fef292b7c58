// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/training-report/internal/catalog"
	"github.com/jonathan/training-report/internal/export"
	"github.com/jonathan/training-report/internal/scoring"
	"github.com/jonathan/training-report/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes, in terminal cells
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content. Lines wider than
// the box are wrapped; Japanese text counts two cells per character.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(title, inner), inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, part := range wrap(line, inner) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(part, inner))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-pads s with spaces to width cells
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// truncate shortens s to at most width cells, marking the cut with "..."
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	var sb strings.Builder
	used := 0
	for _, r := range s {
		w := lipgloss.Width(string(r))
		if used+w > width-3 {
			break
		}
		sb.WriteRune(r)
		used += w
	}
	return sb.String() + "..."
}

// wrap splits s into pieces of at most width cells
func wrap(s string, width int) []string {
	if lipgloss.Width(s) <= width {
		return []string{s}
	}
	var (
		lines []string
		sb    strings.Builder
		used  int
	)
	for _, r := range s {
		w := lipgloss.Width(string(r))
		if used+w > width {
			lines = append(lines, sb.String())
			sb.Reset()
			used = 0
		}
		sb.WriteRune(r)
		used += w
	}
	return append(lines, sb.String())
}

// PrintDraft outputs a base draft with its skeleton and quality score
func (p *Printer) PrintDraft(variantID int, skeleton, draft string, quality scoring.Result) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Variant:  %d (%s)\n", variantID, skeleton))
	sb.WriteString(fmt.Sprintf("Score:    %d/100\n", quality.Score))
	writeWarnings(&sb, quality.Warnings)
	sb.WriteString("\n")
	sb.WriteString(draft)

	p.printBox("BASE DRAFT", sb.String())
}

// PrintOutputs outputs each generated text in its own box
func (p *Printer) PrintOutputs(outputs []types.GeneratedOutput) {
	for _, o := range outputs {
		minChars, maxChars := o.LengthType.CharRange()

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Variant:  %d\n", o.VariantID))
		sb.WriteString(fmt.Sprintf("Length:   %d chars (target %d-%d)\n", len([]rune(o.Text)), minChars, maxChars))
		sb.WriteString(fmt.Sprintf("Score:    %d/100\n", o.Score))
		writeWarnings(&sb, o.Warnings)
		sb.WriteString("\n")
		sb.WriteString(o.Text)

		p.printBox(strings.ToUpper(string(o.LengthType))+" "+export.LengthLabel(o.LengthType), sb.String())
	}
}

func writeWarnings(sb *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	sb.WriteString("Warnings:\n")
	for _, w := range warnings {
		sb.WriteString(fmt.Sprintf("  ⚠ %s\n", w))
	}
}

// PrintHistory outputs a listing of saved entries, newest first
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintHistory(entries []types.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %s │\n", pad("NO SAVED REPORTS", boxWidth-4))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d saved reports:\n\n", len(entries)))
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("%s  %s  [%s]\n",
			e.CreatedAt.In(export.JST).Format("2006-01-02 15:04"), e.ID, export.StatusLabel(e.Status)))
		sb.WriteString("  " + truncate(e.Summary(), boxWidth-6))
		if i < len(entries)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("HISTORY", sb.String())
}

// PrintEntry outputs one saved entry with its questionnaire summary and texts
func (p *Printer) PrintEntry(e types.HistoryEntry) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:       %s\n", e.ID))
	sb.WriteString(fmt.Sprintf("Created:  %s\n", e.CreatedAt.In(export.JST).Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", export.StatusLabel(e.Status)))
	sb.WriteString(fmt.Sprintf("Name:     %s\n", e.UserName))
	sb.WriteString(fmt.Sprintf("Training: %s\n", e.Data.TrainingType))
	sb.WriteString(fmt.Sprintf("Tools:    %s\n", strings.Join(e.Data.AllTools(), ", ")))
	if role := e.Data.EffectiveRole(); role != "" {
		sb.WriteString(fmt.Sprintf("Role:     %s\n", role))
	}

	p.printBox("SAVED REPORT", strings.TrimSuffix(sb.String(), "\n"))
	p.PrintOutputs(e.Outputs)
}

// PrintCatalog outputs the trainings with their tools and the job roles
func (p *Printer) PrintCatalog() {
	var sb strings.Builder
	for i, t := range catalog.Trainings() {
		sb.WriteString(fmt.Sprintf("%s  %s\n", t.ID, t.Name))
		count := min(len(t.Tools), maxItemsToShow)
		names := make([]string, 0, count)
		for _, tool := range t.Tools[:count] {
			names = append(names, tool.Name)
		}
		sb.WriteString("  " + strings.Join(names, ", "))
		if len(t.Tools) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf(" ... and %d more", len(t.Tools)-maxItemsToShow))
		}
		if i < len(catalog.Trainings())-1 {
			sb.WriteString("\n\n")
		}
	}
	p.printBox("TRAININGS", sb.String())

	p.printBox("JOB ROLES", strings.Join(catalog.Roles(), ", "))

	sb.Reset()
	for _, ps := range catalog.Personalities() {
		sb.WriteString(fmt.Sprintf("%-10s %s\n", ps.ID, ps.Name))
	}
	p.printBox("PERSONALITIES", strings.TrimSuffix(sb.String(), "\n"))
}

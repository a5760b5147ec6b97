// Package observability provides logging setup and formatted output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/file-tagger/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxPreviewLines caps how much of a rendered file a preview shows
	maxPreviewLines = 12
)

// Printer handles formatted output for previews and reports
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(title, inner), inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		line = strings.ReplaceAll(line, "\t", "    ")
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-pads s with spaces to n runes.
func pad(s string, n int) string {
	if c := utf8.RuneCountInString(s); c < n {
		return s + strings.Repeat(" ", n-c)
	}
	return s
}

// PrintPairing outputs how uploads were matched by stem.
func (p *Printer) PrintPairing(pairs types.PairResult) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Matched pairs:      %d\n", len(pairs.Matched)))
	count := min(len(pairs.Matched), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := pairs.Matched[i]
		sb.WriteString(fmt.Sprintf("  • %s + %s\n", m.Text.Name, m.Metadata.Name))
	}
	if len(pairs.Matched) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(pairs.Matched)-maxItemsToShow))
	}

	writeItemList(&sb, "Unmatched text:     ", pairs.UnmatchedText)
	writeItemList(&sb, "Unmatched metadata: ", pairs.UnmatchedMetadata)

	p.printBox("PAIRING", strings.TrimSuffix(sb.String(), "\n"))
}

func writeItemList(sb *strings.Builder, label string, items []types.UploadedItem) {
	sb.WriteString(fmt.Sprintf("%s%d\n", label, len(items)))
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i].Name))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// PrintTags outputs the tags available for selection and where they came from.
func (p *Printer) PrintTags(tags []string, source string) {
	if source == "" {
		p.printBox("AVAILABLE TAGS", "No parseable metadata item found.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\n\n", source))
	if len(tags) == 0 {
		sb.WriteString("(document has no tags)")
	}
	for _, tag := range tags {
		sb.WriteString(fmt.Sprintf("  • %s\n", tag))
	}

	p.printBox("AVAILABLE TAGS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPreview outputs the head of a rendered file.
func (p *Printer) PrintPreview(result types.RenderResult) {
	lines := strings.Split(result.Content, "\n")
	if len(lines) > maxPreviewLines {
		more := len(lines) - maxPreviewLines
		lines = append(lines[:maxPreviewLines], fmt.Sprintf("... %d more lines", more))
	}
	p.printBox(result.Filename, strings.Join(lines, "\n"))
}

// PrintBatchSummary outputs counts and every skipped item.
func (p *Printer) PrintBatchSummary(batch types.BatchResult) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Rendered: %d\n", len(batch.Results)))
	sb.WriteString(fmt.Sprintf("Skipped:  %d", len(batch.Errors)))
	for _, e := range batch.Errors {
		sb.WriteString(fmt.Sprintf("\n  ✗ %s (%s)", e.Name, e.Kind))
	}
	p.printBox("BATCH SUMMARY", sb.String())
}

package report

import (
	"fmt"
	"io"
	"strings"
)

// TextWriter outputs a human-readable summary for terminal display.
//
// Design decision: We use plain text with ASCII rules rather than ANSI
// colors so the output can be piped to files or other tools unchanged.
type TextWriter struct {
	baseWriter

	// showText appends the full concatenated page text.
	showText bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithFullText includes the full extracted text after the summary.
func WithFullText(show bool) TextWriterOption {
	return func(w *TextWriter) {
		w.showText = show
	}
}

// NewTextWriter creates a TextWriter.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write implements Writer.
func (w *TextWriter) Write(exp *Export) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, exp)
	w.writeStatistics(&sb, exp)
	w.writePages(&sb, exp)
	w.writeLinks(&sb, exp)
	if w.showText {
		w.writeText(&sb, exp)
	}

	return w.output.Write([]byte(sb.String()))
}

func (w *TextWriter) writeHeader(sb *strings.Builder, exp *Export) {
	meta := exp.Data.Metadata

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          CRAWL REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "URL:          %s\n", exp.CrawlURL)
	if exp.CrawlID != "" {
		fmt.Fprintf(sb, "Crawl ID:     %s\n", exp.CrawlID)
	}
	fmt.Fprintf(sb, "Date:         %s\n", exp.CrawlTimestamp)
	if exp.CrawlInstructions != "" {
		fmt.Fprintf(sb, "Instructions: %s\n", exp.CrawlInstructions)
	}
	fmt.Fprintf(sb, "Title:        %s\n", meta.Title)
	if meta.Description != "" {
		fmt.Fprintf(sb, "Description:  %s\n", meta.Description)
	}

	if meta.Partial {
		sb.WriteString("Status:       STOPPED EARLY (partial results)\n")
	} else {
		sb.WriteString("Status:       Complete\n")
	}
	sb.WriteString("\n")
}

func (w *TextWriter) writeStatistics(sb *strings.Builder, exp *Export) {
	result := exp.Data

	writeSection(sb, "STATISTICS")
	fmt.Fprintf(sb, "  Pages crawled: %d\n", result.Metadata.PagesCrawled)
	fmt.Fprintf(sb, "  Pages visited: %d\n", result.Metadata.PagesVisited)
	fmt.Fprintf(sb, "  Links found:   %d\n", len(result.Links))
	fmt.Fprintf(sb, "  Words:         %d\n", result.WordCount())
	fmt.Fprintf(sb, "  Crawl time:    %.2fs\n", result.Metadata.CrawlTime)
	sb.WriteString("\n")
}

func (w *TextWriter) writePages(sb *strings.Builder, exp *Export) {
	writeSection(sb, "PAGES")

	if len(exp.Data.PageData) == 0 {
		sb.WriteString("  No pages were crawled successfully.\n\n")
		return
	}

	for _, p := range exp.Data.PageData {
		fmt.Fprintf(sb, "  [depth %d] %s\n", p.Depth, p.URL)
		fmt.Fprintf(sb, "            %s\n", p.Title)
		if len(p.Headings) > 0 {
			fmt.Fprintf(sb, "            headings: %d\n", len(p.Headings))
		}
		if len(p.Images) > 0 {
			fmt.Fprintf(sb, "            images:   %d\n", len(p.Images))
		}
	}
	sb.WriteString("\n")
}

func (w *TextWriter) writeLinks(sb *strings.Builder, exp *Export) {
	if len(exp.Data.Links) == 0 {
		return
	}

	writeSection(sb, "LINKS")
	for _, l := range exp.Data.Links {
		text := l.Text
		if text == "" {
			text = "-"
		}
		fmt.Fprintf(sb, "  [%d] %s (%s)\n", l.Depth, l.URL, text)
	}
	sb.WriteString("\n")
}

func (w *TextWriter) writeText(sb *strings.Builder, exp *Export) {
	writeSection(sb, "TEXT")
	sb.WriteString(strings.TrimLeft(exp.Data.Text, "\n"))
	sb.WriteString("\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

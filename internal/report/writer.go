package report

import (
	"fmt"
	"io"

	"github.com/nao1215/sitecrawl/internal/model"
)

// Writer renders an Export to its destination.
//
// Design decision: We use an interface so the crawl and export commands
// pick a format once and write to stdout or a file with the same code.
type Writer interface {
	// Write outputs the export and returns the number of bytes written.
	Write(exp *Export) (int, error)
}

// NewWriter returns the Writer for format: text, json, markdown or csv.
func NewWriter(format string, output io.Writer) (Writer, error) {
	switch format {
	case "text":
		return NewTextWriter(output), nil
	case "json":
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case "markdown":
		return NewMarkdownWriter(output), nil
	case "csv":
		return NewCSVWriter(output), nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

// MultiWriter writes to multiple Writers in order, for example the
// terminal summary and a file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the export to all Writers and stops on the first error.
func (m *MultiWriter) Write(exp *Export) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(exp)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// pageDepths counts crawled pages per depth, index = depth.
func pageDepths(pages []model.PageRecord) []int {
	counts := make([]int, 0)
	for _, p := range pages {
		for len(counts) <= p.Depth {
			counts = append(counts, 0)
		}
		counts[p.Depth]++
	}
	return counts
}

package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// csvSampleLimit is the longest text sample written to the CSV. Longer
// samples are cut to csvSampleLimit-3 characters plus "...".
const csvSampleLimit = 200

// CSVWriter flattens an export into a sectioned CSV document: crawl
// information, site metadata, statistics, discovered links and, when any
// page was crawled, page content samples. Sections are separated by a row
// holding one empty field.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write implements Writer.
func (w *CSVWriter) Write(exp *Export) (int, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.UseCRLF = true

	result := exp.Data
	instructions := exp.CrawlInstructions
	if instructions == "" {
		instructions = "None"
	}

	rows := [][]string{
		{"Crawl Information"},
		{"URL", exp.CrawlURL},
		{"Date", exp.ExportTimestamp},
		{"Instructions", instructions},

		{""},
		{"Site Metadata"},
		{"Title", result.Metadata.Title},
		{"Description", result.Metadata.Description},

		{""},
		{"Crawl Statistics"},
		{"Pages Crawled", strconv.Itoa(result.Metadata.PagesCrawled)},
		{"Total Links", strconv.Itoa(len(result.Links))},
		{"Text Length (characters)", strconv.Itoa(utf8.RuneCountInString(result.Text))},
		{"Text Length (words)", strconv.Itoa(result.WordCount())},
		{"Crawl Time (seconds)", strconv.FormatFloat(result.Metadata.CrawlTime, 'f', -1, 64)},

		{""},
		{"Links Discovered"},
		{"URL", "Link Text", "Depth", "Type", "Status"},
	}

	for _, link := range result.Links {
		rows = append(rows, []string{
			link.URL,
			strings.TrimSpace(strings.ReplaceAll(link.Text, "\n", " ")),
			strconv.Itoa(link.Depth),
			"link",
			"",
		})
	}

	if len(result.PageData) > 0 {
		rows = append(rows,
			[]string{""},
			[]string{"Pages Content"},
			[]string{"URL", "Title", "Depth", "Text Sample"},
		)
		for _, page := range result.PageData {
			rows = append(rows, []string{
				page.URL,
				page.Title,
				strconv.Itoa(page.Depth),
				csvTextSample(page.TextSample),
			})
		}
	}

	if err := cw.WriteAll(rows); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}

// csvTextSample flattens a sample onto one line and caps its length.
func csvTextSample(sample string) string {
	sample = strings.ReplaceAll(sample, "\n", " ")
	sample = strings.ReplaceAll(sample, "\r", "")
	sample = strings.TrimSpace(sample)

	if utf8.RuneCountInString(sample) > csvSampleLimit {
		runes := []rune(sample)
		sample = string(runes[:csvSampleLimit-3]) + "..."
	}
	return sample
}

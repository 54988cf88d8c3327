package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs the export as GitHub Flavored Markdown.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation, which gives us tables, lists, alerts and mermaid charts
// without hand-escaping.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write implements Writer.
func (w *MarkdownWriter) Write(exp *Export) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, exp)
	w.writeStatistics(md, exp)
	w.writePages(md, exp)
	w.writeLinks(md, exp)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, exp *Export) {
	meta := exp.Data.Metadata

	md.H1("Crawl Report")
	md.PlainText("")

	instructions := exp.CrawlInstructions
	if instructions == "" {
		instructions = "-"
	}
	rows := [][]string{
		{"URL", exp.CrawlURL},
		{"Date", exp.CrawlTimestamp},
		{"Instructions", instructions},
		{"Title", meta.Title},
		{"Description", orDash(meta.Description)},
	}
	if exp.CrawlID != "" {
		rows = append([][]string{{"Crawl ID", "`" + exp.CrawlID + "`"}}, rows...)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	switch {
	case meta.Partial:
		md.Warningf("The crawl stopped early. %d page(s) were crawled before it was cut short.", meta.PagesCrawled)
	case meta.PagesCrawled == 0:
		md.Cautionf("No page could be crawled. %d URL(s) were tried.", meta.PagesVisited)
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeStatistics(md *markdown.Markdown, exp *Export) {
	result := exp.Data

	md.H2("Statistics")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Pages Crawled", strconv.Itoa(result.Metadata.PagesCrawled)},
			{"Pages Visited", strconv.Itoa(result.Metadata.PagesVisited)},
			{"Links Discovered", strconv.Itoa(len(result.Links))},
			{"Words", strconv.Itoa(result.WordCount())},
			{"Crawl Time (seconds)", strconv.FormatFloat(result.Metadata.CrawlTime, 'f', 2, 64)},
		},
	})
	md.PlainText("")

	if len(result.PageData) > 1 {
		w.writeDepthChart(md, exp)
	}
}

// writeDepthChart writes a mermaid pie chart of crawled pages per depth.
func (w *MarkdownWriter) writeDepthChart(md *markdown.Markdown, exp *Export) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Pages by Depth"),
		piechart.WithShowData(true),
	)

	for depth, count := range pageDepths(exp.Data.PageData) {
		if count > 0 {
			chart.LabelAndIntValue("Depth "+strconv.Itoa(depth), uint64(count))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writePages(md *markdown.Markdown, exp *Export) {
	md.H2("Pages")
	md.PlainText("")

	if len(exp.Data.PageData) == 0 {
		md.PlainText("No pages were crawled successfully.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(exp.Data.PageData))
	for i, p := range exp.Data.PageData {
		rows[i] = []string{
			p.URL,
			p.Title,
			strconv.Itoa(p.Depth),
			truncateString(csvTextSample(p.TextSample), 80),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Title", "Depth", "Text Sample"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, p := range exp.Data.PageData {
		if len(p.Headings) == 0 {
			continue
		}
		headings := make([]string, len(p.Headings))
		for i, h := range p.Headings {
			headings[i] = "h" + strconv.Itoa(h.Level) + ": " + h.Text
		}
		md.H3("Headings: " + p.URL)
		md.PlainText("")
		md.BulletList(headings...)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeLinks(md *markdown.Markdown, exp *Export) {
	md.H2("Links Discovered")
	md.PlainText("")

	if len(exp.Data.Links) == 0 {
		md.PlainText("No links discovered.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(exp.Data.Links))
	for i, l := range exp.Data.Links {
		rows[i] = []string{l.URL, orDash(oneLine(l.Text)), strconv.Itoa(l.Depth)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Link Text", "Depth"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by sitecrawl*")
}

// oneLine collapses whitespace runs so a value fits in a table cell.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// Package report renders crawl results.
//
// Every writer takes an Export, the crawl result wrapped with its history
// ID, seed URL, instructions and timestamps:
//   - TextWriter: human-readable summary for terminal display
//   - JSONWriter: the export envelope as JSON
//   - MarkdownWriter: GitHub Flavored Markdown tables and a depth chart
//   - CSVWriter: a sectioned CSV document for spreadsheets
//
// NewWriter picks the writer for a format name.
package report

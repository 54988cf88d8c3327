package report

import (
	"fmt"
	"time"

	"github.com/nao1215/sitecrawl/internal/model"
)

// TimestampLayout formats the crawl and export timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// fileNameLayout is the timestamp part of default export file names.
const fileNameLayout = "20060102_150405"

// Export is a crawl result together with where and when it came from.
// It is what every Writer renders.
//
// Design decision: We wrap the result instead of adding these fields to
// model.Result. The crawl engine knows nothing about history IDs or export
// times, and the JSON form of the envelope stays stable for consumers.
type Export struct {
	// CrawlID is the history ID. Empty for a crawl that was not saved.
	CrawlID string `json:"crawl_id"`

	// CrawlTimestamp is when the crawl was stored (or finished).
	CrawlTimestamp string `json:"crawl_timestamp"`

	// ExportTimestamp is when this export was produced.
	ExportTimestamp string `json:"export_timestamp"`

	// CrawlURL is the seed URL.
	CrawlURL string `json:"crawl_url"`

	// CrawlInstructions is the instruction string, possibly empty.
	CrawlInstructions string `json:"crawl_instructions"`

	// Data is the crawl result.
	Data *model.Result `json:"data"`
}

// NewExport builds an Export. Timestamps are rendered in local time.
func NewExport(crawlID, crawlURL, instructions string, crawledAt, exportedAt time.Time, result *model.Result) *Export {
	if result == nil {
		result = model.NewResult(crawlURL)
	}
	return &Export{
		CrawlID:           crawlID,
		CrawlTimestamp:    crawledAt.Local().Format(TimestampLayout),
		ExportTimestamp:   exportedAt.Local().Format(TimestampLayout),
		CrawlURL:          crawlURL,
		CrawlInstructions: instructions,
		Data:              result,
	}
}

// FileExtension returns the file extension used for format.
func FileExtension(format string) string {
	switch format {
	case "markdown":
		return "md"
	case "text":
		return "txt"
	default:
		return format
	}
}

// DefaultFileName returns crawl_<id>_<YYYYMMDD_HHMMSS>.<ext>.
func DefaultFileName(crawlID, format string, now time.Time) string {
	return fmt.Sprintf("crawl_%s_%s.%s", crawlID, now.Format(fileNameLayout), FileExtension(format))
}

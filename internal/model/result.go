package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Result is the aggregate produced by one crawl.
// It starts empty, is filled while the crawl runs, and is treated as
// immutable once returned.
type Result struct {
	// Links lists every qualifying link in discovery order.
	Links []LinkRecord `json:"links"`

	// Text concatenates every page's text under a "--- title ---" header.
	Text string `json:"text"`

	// Metadata summarizes the crawl.
	Metadata Metadata `json:"metadata"`

	// PageData lists one record per successfully crawled page.
	PageData []PageRecord `json:"page_data"`
}

// Metadata summarizes a crawl. Title and Description come from the first
// successfully crawled page.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	BaseURL     string `json:"base_url"`

	// PagesCrawled is the number of pages fetched and extracted successfully,
	// len(PageData). It leaves out failed fetches, so it can be lower than
	// the visited-set count, which is PagesVisited.
	PagesCrawled int `json:"pages_crawled"`

	// PagesVisited is the number of URLs processed, including failed fetches.
	PagesVisited int `json:"pages_visited"`

	// CrawlTime is the wall-clock duration in seconds, rounded to 2 decimals.
	CrawlTime float64 `json:"crawl_time"`

	// Partial is set when the crawl was cut short by cancellation.
	Partial bool `json:"partial,omitempty"`
}

// NewResult returns an empty Result for a crawl starting at baseURL.
// Slices are non-nil so an empty crawl serializes as [] rather than null.
func NewResult(baseURL string) *Result {
	return &Result{
		Links:    make([]LinkRecord, 0),
		PageData: make([]PageRecord, 0),
		Metadata: Metadata{BaseURL: baseURL},
	}
}

// AddPage appends a page record and its text. The first page added sets
// the site title and description.
func (r *Result) AddPage(page PageRecord) {
	r.PageData = append(r.PageData, page)
	r.Text += fmt.Sprintf("\n\n--- %s ---\n%s", page.Title, page.Text)
	if len(r.PageData) == 1 {
		r.Metadata.Title = page.Title
		r.Metadata.Description = page.Description
	}
}

// AddLink appends a discovered link.
func (r *Result) AddLink(link LinkRecord) {
	r.Links = append(r.Links, link)
}

// Finish records the final counters and the elapsed time.
func (r *Result) Finish(visited int, elapsed time.Duration) {
	r.Metadata.PagesCrawled = len(r.PageData)
	r.Metadata.PagesVisited = visited
	r.Metadata.CrawlTime = RoundSeconds(elapsed)
}

// WordCount returns the number of whitespace-separated words in Text.
func (r *Result) WordCount() int {
	return len(strings.Fields(r.Text))
}

// Summary returns the one-line description stored with crawl history.
func (r *Result) Summary() string {
	return fmt.Sprintf("Crawled %d links, %d words", len(r.Links), r.WordCount())
}

// RoundSeconds converts d to seconds rounded to two decimal places.
func RoundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}

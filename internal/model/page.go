package model

import (
	"unicode/utf8"
)

// Sentinel values substituted when a page lacks the corresponding content.
const (
	// NoTitle is used when a page has no <title> element.
	NoTitle = "No Title"

	// NoTextContent is used when the text extraction pass yields nothing.
	NoTextContent = "No text content extracted"
)

// TextSampleLength is the number of characters kept in PageRecord.TextSample.
const TextSampleLength = 200

// PageRecord holds the data extracted from one successfully fetched page.
// Records are appended to Result.PageData and never modified afterwards.
type PageRecord struct {
	// URL is the URL the page was fetched from.
	URL string `json:"url"`

	// Title is the text of the first <title> element, or NoTitle.
	Title string `json:"title"`

	// Description is the content of <meta name="description">, or "".
	Description string `json:"description"`

	// Text is the full readable body text, or NoTextContent.
	Text string `json:"text"`

	// TextSample is the first TextSampleLength characters of Text,
	// suffixed with "..." when truncated.
	TextSample string `json:"text_sample"`

	// Depth is the number of link hops from the seed URL.
	Depth int `json:"depth"`

	// Images lists <img> src attributes. Nil (JSON null) unless image
	// tracking is on; a tracked page without images holds an empty slice.
	Images []string `json:"images"`

	// Headings lists h1-h6 elements. Nil (JSON null) unless heading
	// tracking is on; a tracked page without headings holds an empty slice.
	Headings []Heading `json:"headings"`
}

// Heading is one h1-h6 element of a page.
type Heading struct {
	// Level is the heading level, 1 through 6.
	Level int `json:"level"`

	// Text is the whitespace-trimmed heading text.
	Text string `json:"text"`
}

// LinkRecord is a same-host link discovered on a crawled page.
// A record is kept even when the crawl stops before the link is visited.
type LinkRecord struct {
	// URL is the absolute, normalized link target.
	URL string `json:"url"`

	// Text is the anchor text.
	Text string `json:"text"`

	// Depth is the depth the link would be visited at.
	Depth int `json:"depth"`
}

// TextSample returns the first TextSampleLength characters of text,
// followed by "..." when text is longer than that.
func TextSample(text string) string {
	if utf8.RuneCountInString(text) <= TextSampleLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:TextSampleLength]) + "..."
}

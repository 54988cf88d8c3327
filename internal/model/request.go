package model

// CrawlRequest holds the limits and feature toggles for one crawl.
// It is produced once by the instruction parser and is not modified
// afterwards.
type CrawlRequest struct {
	// SeedURL is the starting URL. It has already passed validation.
	SeedURL string `json:"seed_url"`

	// Instructions is the free-text instruction string the limits were
	// derived from. May be empty.
	Instructions string `json:"instructions,omitempty"`

	// MaxDepth is the maximum number of link hops from the seed.
	// 0 means only the seed page is fetched.
	MaxDepth int `json:"max_depth"`

	// MaxPages bounds the number of URLs the crawler may process.
	MaxPages int `json:"max_pages"`

	// TrackImages enables collection of <img> sources per page.
	TrackImages bool `json:"track_images"`

	// TrackHeadings enables collection of h1-h6 headings per page.
	TrackHeadings bool `json:"track_headings"`
}

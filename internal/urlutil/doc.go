// Package urlutil provides URL validation and normalization for the crawler.
//
// Validation answers "may this URL be fetched at all" (http or https with a
// host). Normalization resolves an href found on a page against that page's
// URL. The two are deliberately separate: a normalized URL is not guaranteed
// to be valid (for example "javascript:void(0)" resolves to itself), so
// callers always validate after normalizing.
package urlutil

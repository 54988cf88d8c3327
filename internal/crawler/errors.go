package crawler

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL is returned by Spider.Crawl when the seed URL is not an
	// absolute http or https URL. No request is made in that case.
	ErrInvalidURL = errors.New("invalid URL format")

	// ErrFetch matches every per-page fetch failure (see FetchError).
	ErrFetch = errors.New("fetch failed")

	// ErrExtraction is returned by a TextExtractor that finds no readable text.
	ErrExtraction = errors.New("no text content extracted")
)

// FetchError describes why one page could not be fetched.
// Either StatusCode is set (non-2xx response) or Err is (transport failure).
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements error.
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

// Unwrap returns the underlying transport error, if any.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrFetch) match any FetchError.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrUnresolvable is returned by Normalize when a reference cannot be
// resolved against its base URL.
var ErrUnresolvable = errors.New("url cannot be resolved")

// Validate reports whether rawURL is an absolute http or https URL with a host.
// Parse failures yield false.
func Validate(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme == "" || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Normalize resolves rawURL against base using RFC 3986 reference resolution.
// Relative paths, scheme-relative references, queries and fragments are
// handled by net/url. No scheme filtering is done here.
func Normalize(rawURL, base string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: base %q: %w", ErrUnresolvable, base, err)
	}
	ref, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrUnresolvable, rawURL, err)
	}
	return b.ResolveReference(ref).String(), nil
}

// Host returns the host (including any port) of rawURL, or "" when it
// cannot be parsed.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// SameHost reports whether a and b point at exactly the same host.
// Subdomains count as different hosts; the comparison ignores case.
func SameHost(a, b string) bool {
	ha, hb := Host(a), Host(b)
	if ha == "" || hb == "" {
		return false
	}
	return strings.EqualFold(ha, hb)
}

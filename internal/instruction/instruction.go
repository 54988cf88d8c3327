// Package instruction derives crawl limits and feature toggles from the
// free-text instructions a user submits with a URL.
//
// Parsing is permissive substring matching, not a grammar. "no images
// needed" still turns image tracking on; that imprecision is kept because
// users rely on short phrases such as "show headings and images".
package instruction

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/nao1215/sitecrawl/internal/model"
)

// Limits applied to instruction overrides.
const (
	// DefaultMaxDepth is used when neither the caller nor the instructions set a depth.
	DefaultMaxDepth = 2

	// MaxDepthCeiling is the largest depth an instruction may request.
	MaxDepthCeiling = 5

	// DefaultMaxPages is used when neither the caller nor the instructions set a page count.
	DefaultMaxPages = 20

	// MaxPagesCeiling is the largest page count an instruction may request.
	MaxPagesCeiling = 50

	minDepth = 0
	minPages = 1
)

var (
	depthPattern = regexp.MustCompile(`(?i)depth[:\s]*(\d+)`)
	pagesPattern = regexp.MustCompile(`(?i)pages[:\s]*(\d+)`)
)

// Defaults are the limits used when the instructions do not override them.
type Defaults struct {
	MaxDepth int
	MaxPages int
}

// DefaultLimits returns the standard defaults (depth 2, 20 pages).
func DefaultLimits() Defaults {
	return Defaults{MaxDepth: DefaultMaxDepth, MaxPages: DefaultMaxPages}
}

// Parse builds a CrawlRequest for seedURL from instructions.
// The first "depth N" match is clamped to [0, 5] and the first "pages N"
// match to [1, 50]; absent overrides fall back to defaults.
func Parse(seedURL, instructions string, defaults Defaults) model.CrawlRequest {
	req := model.CrawlRequest{
		SeedURL:      seedURL,
		Instructions: instructions,
		MaxDepth:     defaults.MaxDepth,
		MaxPages:     defaults.MaxPages,
	}

	if n, ok := firstNumber(depthPattern, instructions); ok {
		req.MaxDepth = clamp(n, minDepth, MaxDepthCeiling)
	}
	if n, ok := firstNumber(pagesPattern, instructions); ok {
		req.MaxPages = clamp(n, minPages, MaxPagesCeiling)
	}

	lower := strings.ToLower(instructions)
	req.TrackImages = strings.Contains(lower, "images")
	req.TrackHeadings = strings.Contains(lower, "headings")

	return req
}

// firstNumber returns the digits captured by the first match of re.
// Digit runs that overflow int saturate to math.MaxInt.
func firstNumber(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return math.MaxInt, true
	}
	return n, true
}

func clamp(n, lo, hi int) int {
	return max(lo, min(n, hi))
}

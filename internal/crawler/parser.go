package crawler

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/nao1215/sitecrawl/internal/model"
)

// Parser extracts metadata, anchors and optional elements from HTML.
//
// Design decision: We parse once with golang.org/x/net/html and query the
// tree through goquery. The tokenizer copes with the malformed markup common
// on the web, and selector queries keep the per-level heading scan and the
// meta lookup short.
type Parser struct {
	// trackImages enables collection of <img> sources.
	trackImages bool

	// trackHeadings enables collection of h1-h6 elements.
	trackHeadings bool
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithImages toggles image collection.
func WithImages(enabled bool) ParserOption {
	return func(p *Parser) {
		p.trackImages = enabled
	}
}

// WithHeadings toggles heading collection.
func WithHeadings(enabled bool) ParserOption {
	return func(p *Parser) {
		p.trackHeadings = enabled
	}
}

// NewParser creates a Parser. Images and headings are off by default.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseResult contains the information extracted from one HTML page.
type ParseResult struct {
	// Title is the first <title> text, or model.NoTitle.
	Title string

	// Description is the content of <meta name="description">.
	Description string

	// Anchors are the followable <a href> elements in document order.
	Anchors []Anchor

	// Images are non-empty <img src> values. Nil unless images are tracked.
	Images []string

	// Headings are h1 elements, then h2, through h6, each level in
	// document order. Nil unless headings are tracked.
	Headings []model.Heading
}

// Anchor is a raw link found on a page, before normalization.
type Anchor struct {
	// Href is the trimmed href attribute value.
	Href string

	// Text is the anchor's text with surrounding whitespace removed.
	Text string
}

// Parse parses HTML content.
func (p *Parser) Parse(content io.Reader) (*ParseResult, error) {
	root, err := html.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	result := &ParseResult{
		Title:       model.NoTitle,
		Description: "",
		Anchors:     make([]Anchor, 0),
	}

	if title := doc.Find("title").First(); title.Length() > 0 {
		if text := strings.TrimSpace(title.Text()); text != "" {
			result.Title = text
		}
	}

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		result.Description = desc
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if !isFollowableHref(href) {
			return
		}
		result.Anchors = append(result.Anchors, Anchor{Href: href, Text: strippedText(s)})
	})

	if p.trackImages {
		result.Images = make([]string, 0)
		doc.Find("img").Each(func(_ int, s *goquery.Selection) {
			if src := s.AttrOr("src", ""); src != "" {
				result.Images = append(result.Images, src)
			}
		})
	}

	if p.trackHeadings {
		result.Headings = make([]model.Heading, 0)
		for level := 1; level <= 6; level++ {
			doc.Find("h" + strconv.Itoa(level)).Each(func(_ int, s *goquery.Selection) {
				result.Headings = append(result.Headings, model.Heading{
					Level: level,
					Text:  strippedText(s),
				})
			})
		}
	}

	return result, nil
}

// isFollowableHref filters out empty hrefs, in-page fragments and script
// pseudo-URLs.
func isFollowableHref(href string) bool {
	if href == "" {
		return false
	}
	if strings.HasPrefix(href, "#") {
		return false
	}
	return !strings.HasPrefix(strings.ToLower(href), "javascript:")
}

// strippedText joins the selection's text nodes after trimming each one,
// so "<a> Read <b>more</b> </a>" yields "Readmore".
func strippedText(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return b.String()
}

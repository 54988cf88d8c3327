package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/nao1215/sitecrawl/internal/instruction"
	"github.com/nao1215/sitecrawl/internal/model"
	"github.com/nao1215/sitecrawl/internal/urlutil"
)

// DefaultConcurrency is the number of fetches a Spider runs in parallel
// within one depth level.
const DefaultConcurrency = 4

// Spider crawls one site breadth-first from a seed URL.
// A Spider keeps no state between crawls and may run several crawls at once.
type Spider struct {
	// fetcher retrieves pages.
	fetcher Fetcher

	// extractor produces the readable text of each page.
	extractor TextExtractor

	// logger receives per-page progress and failures.
	logger *slog.Logger

	// maxDepth and maxPages are the defaults used when the instructions do
	// not override them.
	maxDepth int
	maxPages int

	// concurrency bounds the fetches in flight within a depth level.
	concurrency int

	// limiter spaces out requests. Nil means no limit.
	limiter *rate.Limiter
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithFetcher sets the page fetcher.
func WithFetcher(f Fetcher) SpiderOption {
	return func(s *Spider) {
		s.fetcher = f
	}
}

// WithTextExtractor sets the text extraction pass.
func WithTextExtractor(e TextExtractor) SpiderOption {
	return func(s *Spider) {
		s.extractor = e
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// WithMaxDepth sets the default maximum depth.
// 0 = only the seed page, 1 = the seed plus the pages it links to, etc.
func WithMaxDepth(depth int) SpiderOption {
	return func(s *Spider) {
		s.maxDepth = depth
	}
}

// WithMaxPages sets the default page budget.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = maxPages
	}
}

// WithConcurrency sets how many fetches may run at once within a level.
// Values below 1 are ignored.
func WithConcurrency(n int) SpiderOption {
	return func(s *Spider) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithRequestRate limits requests to perSecond across all workers.
// Zero or a negative value disables the limit.
func WithRequestRate(perSecond float64) SpiderOption {
	return func(s *Spider) {
		if perSecond <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewSpider creates a Spider. Without options it fetches with an
// HTTPFetcher, extracts text with go-trafilatura, and uses depth 2,
// 20 pages and 4 concurrent fetches.
func NewSpider(opts ...SpiderOption) *Spider {
	s := &Spider{
		maxDepth:    instruction.DefaultMaxDepth,
		maxPages:    instruction.DefaultMaxPages,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.fetcher == nil {
		s.fetcher = NewHTTPFetcher()
	}
	if s.extractor == nil {
		s.extractor = TrafilaturaExtractor{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Request validates seedURL and resolves the crawl limits from instructions.
func (s *Spider) Request(seedURL, instructions string) (model.CrawlRequest, error) {
	if !urlutil.Validate(seedURL) {
		return model.CrawlRequest{}, fmt.Errorf("%w: %q", ErrInvalidURL, seedURL)
	}
	return instruction.Parse(seedURL, instructions, instruction.Defaults{
		MaxDepth: s.maxDepth,
		MaxPages: s.maxPages,
	}), nil
}

// Crawl crawls the site at seedURL following instructions.
//
// Only an invalid seed URL produces an error, and it does so before any
// request is made. Pages that fail to fetch are skipped. When ctx is
// cancelled the pages finished so far are returned with Metadata.Partial set.
func (s *Spider) Crawl(ctx context.Context, seedURL, instructions string) (*model.Result, error) {
	req, err := s.Request(seedURL, instructions)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, req)
}

// crawlTask is one dispatched visit.
type crawlTask struct {
	url   string
	depth int
	seq   int
}

// pageOutcome is what a successful visit produced.
type pageOutcome struct {
	page  model.PageRecord
	links []model.LinkRecord
}

// crawlState is the traversal state of a single crawl.
// It is only touched by the goroutine running Run.
type crawlState struct {
	req      model.CrawlRequest
	frontier *Frontier

	// visited maps each processed URL to the order it was dispatched in.
	visited map[string]int
}

// Run crawls with an already resolved request.
func (s *Spider) Run(ctx context.Context, req model.CrawlRequest) (*model.Result, error) {
	if !urlutil.Validate(req.SeedURL) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, req.SeedURL)
	}

	start := time.Now()
	result := model.NewResult(req.SeedURL)
	state := &crawlState{
		req:      req,
		frontier: NewFrontier(),
		visited:  make(map[string]int),
	}
	state.frontier.Push(req.SeedURL, 0)

	parser := NewParser(WithImages(req.TrackImages), WithHeadings(req.TrackHeadings))

	s.logger.Debug("starting crawl",
		"url", req.SeedURL,
		"maxDepth", req.MaxDepth,
		"maxPages", req.MaxPages,
		"trackImages", req.TrackImages,
		"trackHeadings", req.TrackHeadings,
	)

	for state.frontier.Len() > 0 && len(state.visited) < req.MaxPages {
		if ctx.Err() != nil {
			break
		}

		tasks := s.dispatchLevel(state)
		outcomes := s.visitAll(ctx, req, tasks, parser)

		for i, task := range tasks {
			out := outcomes[i]
			if out == nil {
				continue
			}
			result.AddPage(out.page)

			for _, link := range out.links {
				if seq, ok := state.visited[link.URL]; ok && seq <= task.seq {
					continue
				}
				result.AddLink(link)
				state.frontier.Push(link.URL, link.Depth)
			}
		}
	}

	if ctx.Err() != nil {
		result.Metadata.Partial = true
	}
	result.Finish(len(state.visited), time.Since(start))

	s.logger.Debug("crawl finished",
		"url", req.SeedURL,
		"pagesCrawled", result.Metadata.PagesCrawled,
		"pagesVisited", result.Metadata.PagesVisited,
		"links", len(result.Links),
		"partial", result.Metadata.Partial,
	)

	return result, nil
}

// dispatchLevel dequeues every entry of the depth at the frontier head,
// marking each accepted URL visited and spending one unit of the page
// budget before its fetch starts.
func (s *Spider) dispatchLevel(state *crawlState) []crawlTask {
	tasks := make([]crawlTask, 0)

	head, ok := state.frontier.Peek()
	if !ok {
		return tasks
	}
	level := head.depth

	for state.frontier.Len() > 0 && len(state.visited) < state.req.MaxPages {
		next, _ := state.frontier.Peek()
		if next.depth != level {
			break
		}
		entry, _ := state.frontier.Pop()

		if _, seen := state.visited[entry.url]; seen || entry.depth > state.req.MaxDepth {
			continue
		}

		seq := len(state.visited)
		state.visited[entry.url] = seq
		tasks = append(tasks, crawlTask{url: entry.url, depth: entry.depth, seq: seq})
	}

	return tasks
}

// visitAll visits tasks with bounded concurrency. The returned slice is
// index-aligned with tasks; failed visits leave a nil entry.
func (s *Spider) visitAll(ctx context.Context, req model.CrawlRequest, tasks []crawlTask, parser *Parser) []*pageOutcome {
	outcomes := make([]*pageOutcome, len(tasks))

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, task := range tasks {
		g.Go(func() error {
			out, err := s.visit(ctx, req, task, parser)
			if err != nil {
				s.logger.Warn("error crawling page", "url", task.url, "depth", task.depth, "error", err)
				return nil
			}
			outcomes[i] = out
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // visits never return errors to the group

	return outcomes
}

// visit fetches and extracts one page.
func (s *Spider) visit(ctx context.Context, req model.CrawlRequest, task crawlTask, parser *Parser) (*pageOutcome, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Info("crawling", "url", task.url, "depth", task.depth)

	resp, err := s.fetcher.Fetch(ctx, task.url)
	if err != nil {
		return nil, err
	}

	parsed, err := parser.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, err
	}

	text := s.extractText(resp.Body, task.url)

	out := &pageOutcome{
		page: model.PageRecord{
			URL:         task.url,
			Title:       parsed.Title,
			Description: parsed.Description,
			Text:        text,
			TextSample:  model.TextSample(text),
			Depth:       task.depth,
			Images:      parsed.Images,
			Headings:    parsed.Headings,
		},
	}

	if task.depth < req.MaxDepth {
		out.links = qualifyLinks(parsed.Anchors, req.SeedURL, task)
	}

	return out, nil
}

// extractText runs the text extraction pass, substituting the sentinel
// when it yields nothing.
func (s *Spider) extractText(body []byte, pageURL string) string {
	text, err := s.extractor.ExtractText(body, pageURL)
	if err != nil || text == "" {
		if err != nil && !errors.Is(err, ErrExtraction) {
			s.logger.Debug("text extraction failed", "url", pageURL, "error", err)
		}
		return model.NoTextContent
	}
	return text
}

// qualifyLinks normalizes anchors against the page URL and keeps the valid
// same-host ones. The visited check happens when outcomes are folded.
func qualifyLinks(anchors []Anchor, seed string, task crawlTask) []model.LinkRecord {
	links := make([]model.LinkRecord, 0, len(anchors))

	for _, a := range anchors {
		absolute, err := urlutil.Normalize(a.Href, task.url)
		if err != nil || !urlutil.Validate(absolute) {
			continue
		}
		if !urlutil.SameHost(absolute, seed) {
			continue
		}
		links = append(links, model.LinkRecord{URL: absolute, Text: a.Text, Depth: task.depth + 1})
	}

	return links
}

package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nao1215/sitecrawl/internal/model"
)

// Crawler runs one crawl from a seed URL. *crawler.Spider implements it.
type Crawler interface {
	Crawl(ctx context.Context, seedURL, instructions string) (*model.Result, error)
}

// CrawlerFactory builds the Crawler for a seed. It lets each seed carry
// its own site configuration, such as extra headers.
type CrawlerFactory func(seedURL string) Crawler

// CrawlStore persists finished crawls. *database.CrawlDB implements it.
type CrawlStore interface {
	SaveCrawl(ctx context.Context, url, instructions, summary string, result *model.Result) (string, error)
}

// CrawlStep runs the crawler for the job's seed and stores the result on
// the job.
type CrawlStep struct {
	newCrawler CrawlerFactory

	// deadline bounds one crawl. Zero means no bound beyond the caller's
	// context. A crawl cut off by the deadline yields a partial result.
	deadline time.Duration

	logger *slog.Logger
	now    func() time.Time
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithDeadline bounds each crawl to d.
func WithDeadline(d time.Duration) CrawlStepOption {
	return func(s *CrawlStep) {
		s.deadline = d
	}
}

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates a crawl step that builds a crawler per job.
func NewCrawlStep(newCrawler CrawlerFactory, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		newCrawler: newCrawler,
		logger:     slog.Default(),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl.
func (s *CrawlStep) Do(ctx context.Context, job *Job) error {
	if s.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.deadline)
		defer cancel()
	}

	job.StartedAt = s.now()
	result, err := s.newCrawler(job.SeedURL).Crawl(ctx, job.SeedURL, job.Instructions)
	if err != nil {
		return err
	}
	job.Result = result

	s.logger.Info("crawl finished",
		"seed", job.SeedURL,
		"pages", result.Metadata.PagesCrawled,
		"links", len(result.Links),
		"partial", result.Metadata.Partial,
	)
	return nil
}

// errNoResult is returned by SaveStep when no crawl result is available.
var errNoResult = errors.New("no crawl result to save")

// SaveStep records the job's result in crawl history.
type SaveStep struct {
	store CrawlStore
}

// NewSaveStep creates a step that saves results to store.
func NewSaveStep(store CrawlStore) *SaveStep {
	return &SaveStep{store: store}
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return "save"
}

// Do saves the result and records the assigned crawl ID on the job.
func (s *SaveStep) Do(ctx context.Context, job *Job) error {
	if job.Result == nil {
		return errNoResult
	}

	id, err := s.store.SaveCrawl(ctx, job.SeedURL, job.Instructions, job.Result.Summary(), job.Result)
	if err != nil {
		return err
	}
	job.CrawlID = id
	return nil
}

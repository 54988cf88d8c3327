package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nao1215/sitecrawl/internal/model"
)

// stubCrawler returns a fixed result or error.
type stubCrawler struct {
	result *model.Result
	err    error

	gotSeed         string
	gotInstructions string
	hadDeadline     bool
}

func (c *stubCrawler) Crawl(ctx context.Context, seedURL, instructions string) (*model.Result, error) {
	c.gotSeed = seedURL
	c.gotInstructions = instructions
	_, c.hadDeadline = ctx.Deadline()
	return c.result, c.err
}

// memoryStore records saved crawls.
type memoryStore struct {
	saved []string
	err   error
}

func (s *memoryStore) SaveCrawl(_ context.Context, url, _, summary string, _ *model.Result) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, url+"|"+summary)
	return "id-" + url, nil
}

func TestCrawlStep(t *testing.T) {
	t.Parallel()

	t.Run("stores result on job", func(t *testing.T) {
		t.Parallel()

		result := model.NewResult("https://example.com/")
		c := &stubCrawler{result: result}
		started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

		step := NewCrawlStep(func(string) Crawler { return c }, WithCrawlLogger(discardLogger()))
		step.now = func() time.Time { return started }

		job := NewJob("https://example.com/", "depth: 1")
		if err := step.Do(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job.Result != result {
			t.Error("expected result on job")
		}
		if !job.StartedAt.Equal(started) {
			t.Errorf("StartedAt = %v", job.StartedAt)
		}
		if c.gotSeed != "https://example.com/" || c.gotInstructions != "depth: 1" {
			t.Errorf("crawler got %q %q", c.gotSeed, c.gotInstructions)
		}
		if c.hadDeadline {
			t.Error("expected no deadline by default")
		}
	})

	t.Run("applies deadline", func(t *testing.T) {
		t.Parallel()

		c := &stubCrawler{result: model.NewResult("https://example.com/")}
		step := NewCrawlStep(func(string) Crawler { return c },
			WithCrawlLogger(discardLogger()),
			WithDeadline(time.Minute),
		)

		if err := step.Do(context.Background(), NewJob("https://example.com/", "")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !c.hadDeadline {
			t.Error("expected a deadline on the crawl context")
		}
	})

	t.Run("returns crawler error", func(t *testing.T) {
		t.Parallel()

		crawlErr := errors.New("invalid URL")
		step := NewCrawlStep(func(string) Crawler { return &stubCrawler{err: crawlErr} },
			WithCrawlLogger(discardLogger()))

		job := NewJob("not a url", "")
		if err := step.Do(context.Background(), job); !errors.Is(err, crawlErr) {
			t.Fatalf("expected crawl error, got %v", err)
		}
		if job.Result != nil {
			t.Error("expected no result")
		}
	})
}

func TestSaveStep(t *testing.T) {
	t.Parallel()

	t.Run("records crawl ID", func(t *testing.T) {
		t.Parallel()

		store := &memoryStore{}
		job := NewJob("https://example.com/", "")
		job.Result = model.NewResult("https://example.com/")

		if err := NewSaveStep(store).Do(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job.CrawlID != "id-https://example.com/" {
			t.Errorf("CrawlID = %q", job.CrawlID)
		}
		if len(store.saved) != 1 || store.saved[0] != "https://example.com/|Crawled 0 links, 0 words" {
			t.Errorf("saved = %v", store.saved)
		}
	})

	t.Run("fails without result", func(t *testing.T) {
		t.Parallel()

		err := NewSaveStep(&memoryStore{}).Do(context.Background(), NewJob("https://example.com/", ""))
		if !errors.Is(err, errNoResult) {
			t.Errorf("expected errNoResult, got %v", err)
		}
	})

	t.Run("returns store error", func(t *testing.T) {
		t.Parallel()

		storeErr := errors.New("disk full")
		job := NewJob("https://example.com/", "")
		job.Result = model.NewResult("https://example.com/")

		if err := NewSaveStep(&memoryStore{err: storeErr}).Do(context.Background(), job); !errors.Is(err, storeErr) {
			t.Errorf("expected store error, got %v", err)
		}
		if job.CrawlID != "" {
			t.Error("expected no crawl ID")
		}
	})
}

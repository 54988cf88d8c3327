package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	t.Run("creates processor with defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })
		if bp.concurrency != DefaultBatchConcurrency {
			t.Errorf("expected default concurrency %d, got %d", DefaultBatchConcurrency, bp.concurrency)
		}
		if bp.logger == nil {
			t.Error("expected non-nil logger")
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(0))
		if bp.concurrency != DefaultBatchConcurrency {
			t.Errorf("expected default concurrency, got %d", bp.concurrency)
		}
	})
}

func newJobs(seeds ...string) []*Job {
	jobs := make([]*Job, len(seeds))
	for i, seed := range seeds {
		jobs[i] = NewJob(seed, "")
	}
	return jobs
}

func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("processes all jobs", func(t *testing.T) {
		t.Parallel()

		var processed atomic.Int32
		bp := NewBatchProcessor(func() *Pipeline {
			p := New(WithLogger(discardLogger()))
			p.AddStep(&mockStep{name: "counter", doFunc: func(_ context.Context, job *Job) error {
				processed.Add(1)
				job.CrawlID = "id-" + job.SeedURL
				return nil
			}})
			return p
		}, WithBatchLogger(discardLogger()))

		jobs := newJobs("https://a.example/", "https://b.example/", "https://c.example/")
		if err := bp.ProcessBatch(context.Background(), jobs); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if processed.Load() != 3 {
			t.Errorf("expected 3 processed, got %d", processed.Load())
		}
		for _, job := range jobs {
			if job.CrawlID != "id-"+job.SeedURL {
				t.Errorf("job %s: CrawlID = %q", job.SeedURL, job.CrawlID)
			}
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		var current, peak atomic.Int32
		bp := NewBatchProcessor(func() *Pipeline {
			p := New(WithLogger(discardLogger()))
			p.AddStep(&mockStep{name: "slow", doFunc: func(_ context.Context, _ *Job) error {
				n := current.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				current.Add(-1)
				return nil
			}})
			return p
		}, WithConcurrency(2), WithBatchLogger(discardLogger()))

		jobs := newJobs("1", "2", "3", "4", "5", "6")
		if err := bp.ProcessBatch(context.Background(), jobs); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if peak.Load() > 2 {
			t.Errorf("peak concurrency %d, expected <= 2", peak.Load())
		}
	})

	t.Run("continues after a failed seed", func(t *testing.T) {
		t.Parallel()

		seedErr := errors.New("unreachable")
		bp := NewBatchProcessor(func() *Pipeline {
			p := New(WithLogger(discardLogger()))
			p.AddStep(&mockStep{name: "sometimes-fails", doFunc: func(_ context.Context, job *Job) error {
				if job.SeedURL == "bad" {
					return seedErr
				}
				return nil
			}})
			return p
		}, WithBatchLogger(discardLogger()))

		jobs := newJobs("good", "bad", "also-good")
		if err := bp.ProcessBatch(context.Background(), jobs); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !errors.Is(jobs[1].Err, seedErr) {
			t.Errorf("expected failed job error, got %v", jobs[1].Err)
		}
		if jobs[0].Err != nil || jobs[2].Err != nil {
			t.Errorf("expected other jobs to succeed: %v %v", jobs[0].Err, jobs[2].Err)
		}
		if len(jobs[2].PerformedSteps) != 1 {
			t.Error("expected last job to run its step")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bp := NewBatchProcessor(func() *Pipeline {
			p := New(WithLogger(discardLogger()))
			p.AddStep(&mockStep{name: "noop"})
			return p
		}, WithBatchLogger(discardLogger()))

		jobs := newJobs("a", "b")
		if err := bp.ProcessBatch(ctx, jobs); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		for _, job := range jobs {
			if !errors.Is(job.Err, context.Canceled) {
				t.Errorf("job %s: expected context.Canceled, got %v", job.SeedURL, job.Err)
			}
		}
	})
}

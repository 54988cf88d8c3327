package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nao1215/sitecrawl/internal/config"
	"github.com/nao1215/sitecrawl/internal/crawler"
	"github.com/nao1215/sitecrawl/internal/database"
	"github.com/nao1215/sitecrawl/internal/pipeline"
	"github.com/nao1215/sitecrawl/internal/report"
	"github.com/nao1215/sitecrawl/internal/urlutil"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <url>...",
		Short: "Crawl one or more websites",
		Long: `Crawl fetches the seed URL and follows links on the same host,
breadth-first, until the depth limit or the page budget is reached.

Instructions are free text. "depth N" and "pages N" override the limits
(depth is capped at 5 and pages at 50), "images" collects <img> sources and
"headings" collects h1-h6 headings.

Examples:
  # Crawl a site with the default limits (depth 2, 20 pages)
  sitecrawl crawl https://example.com

  # Crawl one level deep, at most 10 pages, with headings
  sitecrawl crawl https://example.com -i "depth 1, pages 10, show headings"

  # Crawl several sites, three at a time, and write a Markdown report
  sitecrawl crawl -b 3 -f markdown -o report.md https://a.example https://b.example

  # Stop after 30 seconds and keep whatever was crawled
  sitecrawl crawl --deadline 30s https://example.com

Configuration file (.sitecrawl) example:
  defaults:
    headers:
      Accept-Language: "en"
  sites:
    docs.example.com:
      depth: 3
      instructions: "pages 40, headings"`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("instructions", "i", "",
		"Free-text crawl instructions, e.g. \"depth 1, pages 10, images\"")
	cmd.Flags().IntP("depth", "d", config.DefaultCrawlDepth,
		"Default maximum crawl depth when the instructions do not set one")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Default page budget when the instructions do not set one")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page request")
	cmd.Flags().IntP("concurrency", "C", config.DefaultConcurrency,
		"Number of pages fetched at once within a crawl")
	cmd.Flags().Float64("rate", 0,
		"Maximum requests per second per crawl (0 = unlimited)")
	cmd.Flags().Duration("deadline", 0,
		"Stop each crawl after this long and report partial results (0 = none)")

	cmd.Flags().StringP("format", "f", config.FormatText,
		"Output format: "+strings.Join(config.Formats, ", "))
	cmd.Flags().StringP("output", "o", "",
		"Write the report to this file instead of stdout")
	cmd.Flags().Bool("no-save", false,
		"Do not store the crawl in the history database")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitecrawl in current or home directory, then $XDG_CONFIG_HOME/sitecrawl/config.yaml)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of sites crawled at once when several URLs are given")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, logger)
}

// buildConfig creates a Config from the environment and cobra flags.
// Flags win over the environment.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := config.NewConfig()
	cfg.ApplyEnv()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Targets = args

	var err error
	flags := cmd.Flags()

	if cfg.Instructions, err = flags.GetString("instructions"); err != nil {
		return nil, err
	}
	if cfg.CrawlDepth, err = flags.GetInt("depth"); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
		return nil, err
	}
	if cfg.RequestRate, err = flags.GetFloat64("rate"); err != nil {
		return nil, err
	}
	if cfg.Deadline, err = flags.GetDuration("deadline"); err != nil {
		return nil, err
	}
	if cfg.Format, err = flags.GetString("format"); err != nil {
		return nil, err
	}
	if cfg.OutputFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}

	noSave, err := flags.GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}

	// An explicit --config must exist; the implicit search may find nothing.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	}

	return cfg, nil
}

// siteConfigFor returns the merged site configuration for seedURL.
func siteConfigFor(cfg *config.Config, seedURL string) config.SiteConfig {
	return cfg.SiteConfigs.GetSiteConfig(strings.ToLower(urlutil.Host(seedURL)))
}

// newCrawlerFactory returns a factory building a Spider for each seed with
// that seed's site configuration applied.
func newCrawlerFactory(cfg *config.Config, logger *slog.Logger) pipeline.CrawlerFactory {
	return func(seedURL string) pipeline.Crawler {
		site := siteConfigFor(cfg, seedURL)

		depth := cfg.CrawlDepth
		if site.Depth != nil {
			depth = *site.Depth
		}
		maxPages := cfg.MaxPages
		if site.Pages > 0 {
			maxPages = site.Pages
		}

		fetcher := crawler.NewHTTPFetcher(
			crawler.WithTimeout(cfg.Timeout),
			crawler.WithUserAgent(cfg.UserAgent),
			crawler.WithHeaders(site.Headers),
			crawler.WithMaxBodySize(cfg.MaxBodySize),
		)

		return crawler.NewSpider(
			crawler.WithFetcher(fetcher),
			crawler.WithLogger(logger),
			crawler.WithMaxDepth(depth),
			crawler.WithMaxPages(maxPages),
			crawler.WithConcurrency(cfg.Concurrency),
			crawler.WithRequestRate(cfg.RequestRate),
		)
	}
}

// runCrawl crawls every target and writes one report per finished crawl.
func runCrawl(ctx context.Context, stdout, stderr io.Writer, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"targets", cfg.Targets,
		"batch", cfg.BatchSize,
		"save", cfg.SaveToDB,
	)

	var db *database.CrawlDB
	if cfg.SaveToDB {
		var err error
		db, err = database.OpenDefault(ctx, cfg.DatabaseURL, cfg.DBDir)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Debug("database opened", "location", db.Location())
	}

	newPipeline := func() *pipeline.Pipeline {
		p := pipeline.New(pipeline.WithLogger(logger))
		p.AddStep(pipeline.NewCrawlStep(
			newCrawlerFactory(cfg, logger),
			pipeline.WithDeadline(cfg.Deadline),
			pipeline.WithCrawlLogger(logger),
		))
		if db != nil {
			p.AddStep(pipeline.NewSaveStep(db))
		}
		return p
	}

	jobs := make([]*pipeline.Job, len(cfg.Targets))
	for i, target := range cfg.Targets {
		instructions := cfg.Instructions
		if instructions == "" {
			instructions = siteConfigFor(cfg, target).Instructions
		}
		jobs[i] = pipeline.NewJob(target, instructions)
	}

	if len(jobs) == 1 {
		_ = newPipeline().Execute(ctx, jobs[0]) //nolint:errcheck // Error is stored in the job
	} else {
		bp := pipeline.NewBatchProcessor(newPipeline,
			pipeline.WithConcurrency(cfg.BatchSize),
			pipeline.WithBatchLogger(logger),
		)
		if err := bp.ProcessBatch(ctx, jobs); err != nil {
			logger.Warn("batch interrupted", "error", err)
		}
	}

	return writeCrawlReports(stdout, stderr, cfg, jobs)
}

// writeCrawlReports writes a report for every job that produced a result
// and returns an error when any job failed to crawl.
func writeCrawlReports(stdout, stderr io.Writer, cfg *config.Config, jobs []*pipeline.Job) error {
	out, err := openOutput(cfg.OutputFile, stdout)
	if err != nil {
		return err
	}
	defer out.Close()

	writer, err := report.NewWriter(cfg.Format, out)
	if err != nil {
		return err
	}

	failed := 0
	for _, job := range jobs {
		if job.Result == nil {
			failed++
			fmt.Fprintf(stderr, "Crawl failed for %s: %v\n", job.SeedURL, job.Err)
			continue
		}
		if job.Err != nil {
			fmt.Fprintf(stderr, "Warning: crawl of %s was not saved: %v\n", job.SeedURL, job.Err)
		}

		exp := report.NewExport(job.CrawlID, job.SeedURL, job.Instructions, job.StartedAt, time.Now(), job.Result)
		if _, err := writer.Write(exp); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if cfg.OutputFile != "" {
		fmt.Fprintf(stderr, "Report written to %s\n", cfg.OutputFile)
	}

	switch {
	case failed == 0:
		return nil
	case len(jobs) == 1:
		return jobs[0].Err
	default:
		return fmt.Errorf("%d of %d crawls failed", failed, len(jobs))
	}
}

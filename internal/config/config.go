package config

import (
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout bounds each page request, including reading the body.
	// Unresponsive pages are skipped once it expires.
	DefaultTimeout = 10 * time.Second

	// DefaultCrawlDepth is used when the instructions do not name a depth.
	// Depth 0 fetches only the seed page.
	DefaultCrawlDepth = 2

	// DefaultMaxPages is used when the instructions do not name a page budget.
	DefaultMaxPages = 20

	// DefaultConcurrency is the number of fetches in flight within one
	// depth level of a single crawl.
	DefaultConcurrency = 4

	// DefaultBatchSize is the number of seed URLs crawled at the same time
	// when several are given on the command line.
	DefaultBatchSize = 2

	// AppName is the application name used for XDG directory paths.
	AppName = "sitecrawl"

	// DatabaseFileName is the SQLite history file inside XDGDataDir.
	DatabaseFileName = "sitecrawl.db"

	// DefaultUserAgent identifies the crawler in HTTP requests.
	DefaultUserAgent = "Mozilla/5.0 WebsiteCrawler/1.0"

	// DefaultMaxBodySize limits the response body read per page.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultHistoryLimit is the number of entries `history` lists.
	DefaultHistoryLimit = 10
)

// Output formats accepted by the crawl and export commands.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)

// Formats lists every supported output format.
var Formats = []string{FormatText, FormatJSON, FormatMarkdown, FormatCSV}

// Config holds all configuration options for a crawl run.
// It is populated from CLI flags and the environment, then passed down
// explicitly rather than kept in global state.
//
// Design decision: We keep a single flat struct. The crawl, storage and
// output options are few enough that sub-structs would only add noise.
type Config struct {
	// Targets are the seed URLs to crawl. At least one is required.
	Targets []string

	// Instructions is the free-text instruction string applied to every
	// target unless the config file sets per-site instructions.
	Instructions string

	// Timeout is the per-page request timeout.
	Timeout time.Duration

	// CrawlDepth is the default maximum depth. The instruction string and
	// per-site configuration may override it.
	CrawlDepth int

	// MaxPages is the default page budget. The instruction string and
	// per-site configuration may override it.
	MaxPages int

	// Concurrency is the number of fetches in flight per crawl.
	Concurrency int

	// RequestRate limits requests per second across a crawl's workers.
	// Zero disables the limit.
	RequestRate float64

	// Deadline bounds a whole crawl. When it expires the pages finished so
	// far are returned as a partial result. Zero means no deadline.
	Deadline time.Duration

	// BatchSize is the number of targets crawled concurrently.
	BatchSize int

	// Verbose enables debug-level logging.
	Verbose bool

	// Format is the output format: text, json, markdown or csv.
	Format string

	// OutputFile is where the report is written. Empty means stdout.
	OutputFile string

	// ConfigFilePath is an explicit path to the YAML configuration file.
	// If empty, .sitecrawl is searched in the current and home directories.
	ConfigFilePath string

	// SiteConfigs holds per-site settings loaded from the config file.
	SiteConfigs *File

	// SaveToDB stores every finished crawl in the history database.
	SaveToDB bool

	// DatabaseURL selects PostgreSQL for history when set. Otherwise the
	// SQLite file under DBDir is used.
	DatabaseURL string

	// DBDir is the directory of the SQLite history database.
	DBDir string

	// UserAgent is the User-Agent header sent with each request.
	UserAgent string

	// MaxBodySize is the maximum number of body bytes read per page.
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor instead of relying on zero values
// because most defaults are non-zero. It also documents the defaults in
// one place.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		CrawlDepth:  DefaultCrawlDepth,
		MaxPages:    DefaultMaxPages,
		Concurrency: DefaultConcurrency,
		BatchSize:   DefaultBatchSize,
		Format:      FormatText,
		SaveToDB:    true,
		DBDir:       XDGDataDir(),
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for sitecrawl.
// On Linux: ~/.local/share/sitecrawl
// On macOS: ~/Library/Application Support/sitecrawl
// On Windows: %LOCALAPPDATA%\sitecrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sitecrawl.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DatabasePath returns the SQLite history file path.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DBDir, DatabaseFileName)
}

// ValidFormat reports whether format is a supported output format.
func ValidFormat(format string) bool {
	return slices.Contains(Formats, format)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
//
// Design decision: We validate once after flag parsing, before any request
// is made, so mistakes fail fast with a clear message.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Concurrency <= 0 || c.BatchSize <= 0 {
		return ErrInvalidConcurrency
	}

	// Depth and page ceilings are enforced by the instruction parser; here
	// we only reject values that can never mean anything.
	if c.CrawlDepth < 0 {
		return ErrInvalidDepth
	}

	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}

	if !ValidFormat(c.Format) {
		return ErrInvalidFormat
	}

	if c.RequestRate < 0 || c.Deadline < 0 {
		return ErrInvalidRequestRate
	}

	return nil
}

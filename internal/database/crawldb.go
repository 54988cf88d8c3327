package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/sitecrawl/internal/model"
)

// DatabaseFileName is the SQLite file created inside the database directory.
const DatabaseFileName = "sitecrawl.db"

// DefaultListLimit is the number of entries ListRecent returns when the
// caller passes a non-positive limit.
const DefaultListLimit = 10

// ErrNotFound is returned by GetCrawl when no crawl has the given ID.
var ErrNotFound = errors.New("crawl not found")

// dialect is the SQL flavour of the connected database.
type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// CrawlDB stores crawl history: one row per finished crawl, with the full
// result serialized as JSON so it can be exported again later.
//
// Design decision: We store the result as a JSON document instead of
// normalizing pages and links into tables. History is only ever read back
// whole, and the JSON form is the same one the json export produces.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dialect selects placeholder syntax and SQLite-only pragmas.
	dialect dialect

	// location is the SQLite file path, or "postgres" for PostgreSQL.
	location string

	// now returns the time recorded for new crawls.
	now func() time.Time
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. SQLite only.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// IsPostgresURL reports whether dsn selects PostgreSQL. Both the
// postgres:// and postgresql:// schemes are accepted.
func IsPostgresURL(dsn string) bool {
	lower := strings.ToLower(dsn)
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

// OpenDefault opens PostgreSQL when databaseURL is a PostgreSQL URL and the
// SQLite database in dbDir otherwise.
func OpenDefault(ctx context.Context, databaseURL, dbDir string) (*CrawlDB, error) {
	if IsPostgresURL(databaseURL) {
		return OpenPostgres(ctx, databaseURL)
	}
	return Open(dbDir, DefaultOptions())
}

// Open opens or creates the SQLite history database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, DatabaseFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := newCrawlDB(db, dialectSQLite, dbPath)

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// OpenPostgres connects to PostgreSQL and creates the history table if needed.
func OpenPostgres(ctx context.Context, dsn string) (*CrawlDB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	cdb := newCrawlDB(db, dialectPostgres, "postgres")
	if err := cdb.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

func newCrawlDB(db *sql.DB, d dialect, location string) *CrawlDB {
	return &CrawlDB{
		db:       db,
		dialect:  d,
		location: location,
		now:      time.Now,
	}
}

// Location returns the SQLite file path, or "postgres".
func (cdb *CrawlDB) Location() string {
	return cdb.location
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
// The statements are valid for both SQLite and PostgreSQL.
func (cdb *CrawlDB) createTables(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS crawl_history (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			instructions TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT '',
			result_json TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_crawl_history_created_at ON crawl_history(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_crawl_history_url ON crawl_history(url)`,
	}

	for _, stmt := range statements {
		if _, err := cdb.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $1, $2, ... for PostgreSQL.
func (cdb *CrawlDB) rebind(query string) string {
	if cdb.dialect != dialectPostgres {
		return query
	}
	return rebindPostgres(query)
}

func rebindPostgres(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// HistoryEntry is the summary row of one stored crawl.
type HistoryEntry struct {
	// ID is the opaque crawl identifier (a UUID).
	ID string `json:"id"`

	// URL is the seed URL.
	URL string `json:"url"`

	// Instructions is the instruction string the crawl ran with.
	Instructions string `json:"instructions"`

	// Summary is the one-line description, e.g. "Crawled 12 links, 3400 words".
	Summary string `json:"summary"`

	// CreatedAt is when the crawl was stored, in UTC.
	CreatedAt time.Time `json:"created_at"`
}

// StoredCrawl is a history entry together with its full result.
type StoredCrawl struct {
	HistoryEntry

	// Result is the crawl result exactly as it was saved.
	Result *model.Result `json:"result"`
}

// createdAtLayout is fixed-width so that text ordering matches time ordering.
const createdAtLayout = "2006-01-02T15:04:05.000000Z"

// SaveCrawl stores a finished crawl and returns its new ID.
func (cdb *CrawlDB) SaveCrawl(ctx context.Context, url, instructions, summary string, result *model.Result) (string, error) {
	if result == nil {
		return "", errors.New("failed to save crawl: nil result")
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to serialize result: %w", err)
	}

	id := uuid.NewString()
	createdAt := cdb.now().UTC().Format(createdAtLayout)

	query := cdb.rebind(`
	INSERT INTO crawl_history (id, url, instructions, summary, result_json, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`)

	if _, err := cdb.db.ExecContext(ctx, query, id, url, instructions, summary, string(resultJSON), createdAt); err != nil {
		return "", fmt.Errorf("failed to save crawl: %w", err)
	}

	return id, nil
}

// GetCrawl retrieves a stored crawl by ID. It returns ErrNotFound when no
// crawl has that ID.
func (cdb *CrawlDB) GetCrawl(ctx context.Context, id string) (*StoredCrawl, error) {
	query := cdb.rebind(`
	SELECT id, url, instructions, summary, result_json, created_at
	FROM crawl_history
	WHERE id = ?
	`)

	var crawl StoredCrawl
	var resultJSON, createdAt string

	err := cdb.db.QueryRowContext(ctx, query, id).Scan(
		&crawl.ID,
		&crawl.URL,
		&crawl.Instructions,
		&crawl.Summary,
		&resultJSON,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl: %w", err)
	}

	crawl.CreatedAt = parseTimestamp(createdAt)

	var result model.Result
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse stored result: %w", err)
	}
	crawl.Result = &result

	return &crawl, nil
}

// ListRecent returns up to limit history entries, newest first.
func (cdb *CrawlDB) ListRecent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := cdb.rebind(`
	SELECT id, url, instructions, summary, created_at
	FROM crawl_history
	ORDER BY created_at DESC, id DESC
	LIMIT ?
	`)

	rows, err := cdb.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list crawls: %w", err)
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0, limit)
	for rows.Next() {
		var entry HistoryEntry
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.URL, &entry.Instructions, &entry.Summary, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan crawl: %w", err)
		}
		entry.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// timestampFormats lists the layouts created_at may come back in.
var timestampFormats = []string{
	createdAtLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp returns the zero time when no layout matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// Package database stores crawl history.
//
// Each finished crawl is saved with an opaque UUID, its seed URL, the
// instruction string, a one-line summary and the full result as JSON.
// History can be listed newest first and any stored crawl can be loaded
// back for export.
//
// Design decision: SQLite (via modernc.org/sqlite) is the default backend
// because it is a single CGO-free file under the XDG data directory.
// PostgreSQL (via github.com/lib/pq) is used instead when DATABASE_URL is a
// postgres:// or postgresql:// URL, so several machines can share history.
// Both backends share one schema; only placeholders differ.
package database

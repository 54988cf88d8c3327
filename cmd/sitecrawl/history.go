package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/nao1215/sitecrawl/internal/config"
	"github.com/nao1215/sitecrawl/internal/database"
	"github.com/nao1215/sitecrawl/internal/report"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [crawl-id]",
		Short: "List stored crawls or show one of them",
		Long: `History lists the most recent crawls stored in the history database,
newest first. Given a crawl ID it prints that crawl's full report.

The database is the SQLite file in the XDG data directory, or PostgreSQL
when DATABASE_URL is set.

Examples:
  # List the 10 most recent crawls
  sitecrawl history

  # List the 25 most recent crawls as JSON
  sitecrawl history -n 25 --json

  # Show one crawl
  sitecrawl history 3f2c9a1e-0d4b-4c55-9a57-2a4c8d1f6e10`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Number of crawls to list")
	cmd.Flags().Bool("json", false,
		"Output JSON")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	setupLogger(cmd)

	db, err := openHistoryDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if len(args) == 1 {
		return showCrawl(cmd, db, args[0], asJSON)
	}

	entries, err := db.ListRecent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), entries)
	}
	return writeHistoryTable(cmd.OutOrStdout(), entries)
}

// openHistoryDB opens the history database the crawl command writes to.
func openHistoryDB(cmd *cobra.Command) (*database.CrawlDB, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg := config.NewConfig()
	cfg.ApplyEnv()

	db, err := database.OpenDefault(cmd.Context(), cfg.DatabaseURL, cfg.DBDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// loadCrawl fetches a stored crawl and turns a missing ID into a readable error.
func loadCrawl(cmd *cobra.Command, db *database.CrawlDB, id string) (*database.StoredCrawl, error) {
	crawl, err := db.GetCrawl(cmd.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("no crawl with ID %q (see 'sitecrawl history')", id)
	}
	return crawl, err
}

func showCrawl(cmd *cobra.Command, db *database.CrawlDB, id string, asJSON bool) error {
	crawl, err := loadCrawl(cmd, db, id)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), crawl)
	}

	exp := report.NewExport(crawl.ID, crawl.URL, crawl.Instructions, crawl.CreatedAt.Local(), time.Now(), crawl.Result)
	_, err = report.NewTextWriter(cmd.OutOrStdout(), report.WithFullText(true)).Write(exp)
	return err
}

func writeHistoryTable(w io.Writer, entries []database.HistoryEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No crawls stored yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tURL\tSUMMARY")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.ID,
			e.CreatedAt.Local().Format(report.TimestampLayout),
			e.URL,
			e.Summary,
		)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/nao1215/sitecrawl/internal/config"
	"github.com/nao1215/sitecrawl/internal/report"
	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <crawl-id>",
		Short: "Export a stored crawl as CSV, JSON, Markdown or text",
		Long: `Export writes a crawl from the history database in the chosen format.

Examples:
  # Print a CSV export to stdout
  sitecrawl export 3f2c9a1e-0d4b-4c55-9a57-2a4c8d1f6e10

  # Save a JSON export as crawl_<id>_<timestamp>.json
  sitecrawl export 3f2c9a1e-0d4b-4c55-9a57-2a4c8d1f6e10 -f json --auto-name`,
		Args: cobra.ExactArgs(1),
		RunE: runExportCmd,
	}

	cmd.Flags().StringP("format", "f", config.FormatCSV,
		"Export format: "+strings.Join(config.Formats, ", "))
	cmd.Flags().StringP("output", "o", "",
		"Write the export to this file instead of stdout")
	cmd.Flags().Bool("auto-name", false,
		"Write to crawl_<id>_<timestamp>.<ext> in the current directory")
	cmd.MarkFlagsMutuallyExclusive("output", "auto-name")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if !config.ValidFormat(format) {
		return config.ErrInvalidFormat
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	autoName, err := cmd.Flags().GetBool("auto-name")
	if err != nil {
		return err
	}

	setupLogger(cmd)

	db, err := openHistoryDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	crawl, err := loadCrawl(cmd, db, args[0])
	if err != nil {
		return err
	}

	now := time.Now()
	if autoName {
		outputPath = report.DefaultFileName(crawl.ID, format, now)
	}

	out, err := openOutput(outputPath, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer out.Close()

	writer, err := report.NewWriter(format, out)
	if err != nil {
		return err
	}

	exp := report.NewExport(crawl.ID, crawl.URL, crawl.Instructions, crawl.CreatedAt.Local(), now, crawl.Result)
	if _, err := writer.Write(exp); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	if outputPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported crawl %s to %s\n", crawl.ID, outputPath)
	}
	return nil
}

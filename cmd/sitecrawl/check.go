package main

import (
	"fmt"

	"github.com/nao1215/sitecrawl/internal/urlutil"
	"github.com/spf13/cobra"
)

// checkResult is the JSON shape printed by `check --json`.
type checkResult struct {
	Valid bool `json:"valid"`
}

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <url>",
		Short: "Check whether a URL can be used as a crawl seed",
		Long: `Check reports whether the URL is an absolute http or https URL with a host.
No request is made.`,
		Args: cobra.ExactArgs(1),
		RunE: runCheckCmd,
	}

	cmd.Flags().Bool("json", false, `Output {"valid": true|false}`)

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	valid := urlutil.Validate(args[0])
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), checkResult{Valid: valid})
	}

	if valid {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is a valid URL\n", args[0])
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is not a valid URL\n", args[0])
	}
	return nil
}

// Package main provides the entry point for the crawlbound CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for crawlbound.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawlbound",
		Short: "Bounded web crawler with auditable run manifests",
		Long: `crawlbound fetches seed URLs and follows links within hard depth and
page budgets. Every URL passes a safety gate before any network access,
extracted content is stored as markdown, and each run produces a
manifest recording exactly what was fetched and why the run stopped.

Runs can stop adaptively once enough content has been gathered, or run
to their configured limits.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewRunsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

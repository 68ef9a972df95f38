package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/crawlbound/crawlbound/internal/config"
	"github.com/crawlbound/crawlbound/internal/database"
	"github.com/crawlbound/crawlbound/internal/report"
)

// NewRunsCmd creates the runs command.
func NewRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List past crawl runs or show one run's manifest",
		Long: `Runs lists the crawl runs indexed in the run database, most recent
first. With a run ID argument, it shows that run's full manifest.

Examples:
  # List the 20 most recent runs
  crawlbound runs

  # Show everything recorded about one run
  crawlbound runs crawl_20260823_120000_abc123

  # Show a run's manifest as JSON
  crawlbound runs --json crawl_20260823_120000_abc123`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRunsCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list (0 = all)")
	cmd.Flags().BoolP("json", "j", false, "Output JSON instead of text")
	cmd.Flags().String("db-dir", "", "Run database directory (default: XDG data dir)")

	return cmd
}

// runRunsCmd executes the runs command.
func runRunsCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// Listing must not create an empty database on a typoed path.
	db, err := database.Open(dbDir, database.Options{})
	if err != nil {
		return fmt.Errorf("no run database found in %s (run a crawl first): %w", dbDir, err)
	}
	defer db.Close()

	if len(args) == 1 {
		return showRun(cmd, db, args[0])
	}
	return listRuns(cmd, db)
}

// listRuns prints one line per stored run.
func listRuns(cmd *cobra.Command, db *database.RunDB) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	records, err := db.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tSTARTED\tOK\tFAILED\tSIZE\tTERMINATED\tSEEDS")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			r.RunID,
			r.StartedAt.Format("2006-01-02 15:04"),
			r.PagesOK,
			r.PagesFailed,
			r.TotalBytes,
			r.TerminationReason,
			strings.Join(r.Seeds, ","))
	}
	return w.Flush()
}

// showRun prints the full manifest of one run.
func showRun(cmd *cobra.Command, db *database.RunDB, runID string) error {
	m, err := db.GetRun(cmd.Context(), runID)
	if err != nil {
		if errors.Is(err, database.ErrRunNotFound) {
			return fmt.Errorf("run %q not found", runID)
		}
		return err
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	var w report.Writer
	if asJSON {
		w = report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
	} else {
		w = report.NewSimpleWriter(os.Stdout, report.WithVerbose(true))
	}
	_, err = w.Write(m, nil)
	return err
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/nrfi-metrics/internal/report"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List ingest runs",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func runRuns(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns()
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "No runs stored yet. Run 'nrfi fetch' or 'nrfi aggregate <events.csv>' to add one.")
		return nil
	}
	report.PrintRunsTable(os.Stdout, runs)

	stats, err := db.Stats()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\n(%d runs, %d half-innings stored for %d pitchers)\n", stats.Runs, stats.HalfInnings, stats.Pitchers)
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/nrfi-metrics/internal/metrics"
	"github.com/pable/nrfi-metrics/internal/statcast"
)

var aggregateOut string

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <events.csv[.gz|.zst]>",
	Short: "Aggregate a local statcast export into first-inning records",
	Long: `Read a statcast pitch-level CSV export (plain, gzip or zstd), keep first-inning
plate-appearance events, aggregate them per half-inning and store the records.

Re-aggregating the same games replaces their rows.`,
	Args: cobra.ExactArgs(1),
	RunE: runAggregate,
}

func init() {
	aggregateCmd.Flags().StringVar(&aggregateOut, "out", "", "also write this batch to a flat CSV file (default: storage.csv_path)")
}

func runAggregate(cmd *cobra.Command, args []string) error {
	started := time.Now()
	path := args[0]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Reading %s...\n", path)
	events, err := statcast.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read events: %w", err)
	}

	out := aggregateOut
	if out == "" {
		out = cfg.Storage.CSVPath
	}

	m := metrics.New()
	res, err := ingest(db, m, ingestJob{
		source: "file:" + filepath.Base(path),
		events: events,
		csvOut: out,
	})
	if err != nil {
		return err
	}
	printIngestResult(res)
	finishMetrics(m, started)
	return nil
}

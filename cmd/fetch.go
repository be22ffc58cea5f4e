package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/nrfi-metrics/internal/metrics"
	"github.com/pable/nrfi-metrics/internal/model"
	"github.com/pable/nrfi-metrics/internal/savant"
)

// fetch command flags.
var (
	// fetchStart and fetchEnd bound the download, inclusive, as YYYY-MM-DD.
	fetchStart string
	fetchEnd   string
	// fetchOut optionally mirrors the aggregated batch to a CSV file.
	fetchOut string
	// fetchCacheDir keeps raw daily downloads, zstd-compressed, for re-runs.
	fetchCacheDir string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download statcast data from Baseball Savant and aggregate it",
	Long: `Downloads regular-season statcast pitches one day at a time, aggregates the first
innings and stores the half-inning records.

Examples:
  # Opening week
  nrfi fetch --start 2024-03-28 --end 2024-04-03

  # Keep the raw daily CSVs so a re-run does not hit the network
  nrfi fetch --start 2024-04-01 --end 2024-04-30 --cache-dir ~/.nrfi/statcast`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchStart, "start", "", "first game date, YYYY-MM-DD (required)")
	fetchCmd.Flags().StringVar(&fetchEnd, "end", "", "last game date, YYYY-MM-DD (default: --start)")
	fetchCmd.Flags().StringVar(&fetchOut, "out", "", "also write this batch to a flat CSV file (default: storage.csv_path)")
	fetchCmd.Flags().StringVar(&fetchCacheDir, "cache-dir", "", "directory for raw daily downloads")
	_ = fetchCmd.MarkFlagRequired("start")
}

func runFetch(cmd *cobra.Command, args []string) error {
	started := time.Now()

	start, err := time.Parse(model.DateLayout, fetchStart)
	if err != nil {
		return fmt.Errorf("parse --start: %w", err)
	}
	end := start
	if fetchEnd != "" {
		if end, err = time.Parse(model.DateLayout, fetchEnd); err != nil {
			return fmt.Errorf("parse --end: %w", err)
		}
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	m := metrics.New()
	client := savant.NewClient(cfg.Savant.BaseURL, cfg.Savant.Timeout)
	client.CacheDir = fetchCacheDir
	client.OnResponse = m.ObserveFetch

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stdout, "Fetching statcast %s to %s...\n",
		start.Format(model.DateLayout), end.Format(model.DateLayout))
	events, err := client.FetchRange(ctx, start, end)
	if err != nil {
		finishMetrics(m, started)
		return fmt.Errorf("fetch: %w", err)
	}

	out := fetchOut
	if out == "" {
		out = cfg.Storage.CSVPath
	}
	res, err := ingest(db, m, ingestJob{
		source:    "savant",
		startDate: start.Format(model.DateLayout),
		endDate:   end.Format(model.DateLayout),
		events:    events,
		csvOut:    out,
	})
	if err != nil {
		return err
	}
	printIngestResult(res)
	finishMetrics(m, started)
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/nrfi-metrics/internal/metrics"
	"github.com/pable/nrfi-metrics/internal/model"
	"github.com/pable/nrfi-metrics/internal/report"
	"github.com/pable/nrfi-metrics/internal/summary"
)

var (
	pitcherFrom      string
	pitcherBreakdown bool
)

var pitcherCmd = &cobra.Command{
	Use:   "pitcher <name> [<name>...]",
	Short: "First-inning summary and NRFI rating for one or more pitchers",
	Long: `Summarize every stored first inning for each named pitcher. Names use the statcast
"Last, First" form, so quote them:

  nrfi pitcher "Snell, Blake" "Webb, Logan"

A pitcher with no stored innings gets an all-zero row with record 0-0.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPitcher,
}

func init() {
	pitcherCmd.Flags().StringVar(&pitcherFrom, "from", "", "read half-innings from this CSV instead of the database")
	pitcherCmd.Flags().BoolVar(&pitcherBreakdown, "breakdown", false, "show each rating factor's contribution")
}

func runPitcher(cmd *cobra.Command, args []string) error {
	started := time.Now()
	src, closer, err := openSource(pitcherFrom)
	if err != nil {
		return err
	}
	defer closer.Close()

	m := metrics.New()
	sums, err := summarizeAll(src, args, m)
	if err != nil {
		return err
	}
	printSummaries(sums, pitcherBreakdown)
	finishMetrics(m, started)
	return nil
}

func summarizeAll(src summary.Source, names []string, m *metrics.Metrics) ([]model.PlayerSummary, error) {
	sums := make([]model.PlayerSummary, 0, len(names))
	for _, name := range names {
		s, err := summary.Summarize(src, name)
		if err != nil {
			return nil, err
		}
		if s.GamesPlayed == 0 {
			fmt.Fprintf(os.Stderr, "no first innings stored for %q\n", name)
		}
		m.SummariesComputed.Inc()
		sums = append(sums, s)
	}
	return sums, nil
}

func printSummaries(sums []model.PlayerSummary, breakdown bool) {
	fmt.Fprintln(os.Stdout)
	report.PrintSummaryTable(os.Stdout, sums)
	if !breakdown {
		return
	}
	for _, s := range sums {
		if s.GamesPlayed == 0 {
			continue
		}
		report.PrintBreakdownTable(os.Stdout, s)
	}
}

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/nrfi-metrics/internal/metrics"
	"github.com/pable/nrfi-metrics/internal/query"
	"github.com/pable/nrfi-metrics/internal/report"
	"github.com/pable/nrfi-metrics/internal/summary"
)

var (
	leaderFrom     string
	leaderWhere    string
	leaderMinGames int
	leaderLimit    int
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Rank pitchers by NRFI rating",
	Long: `Summarize every stored pitcher and rank them by NRFI rating.

--where filters half-innings before summarizing, e.g. a date window:
  nrfi leaderboard --where 'game_date >= "2024-06-01"' --min-games 8`,
	Args: cobra.NoArgs,
	RunE: runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().StringVar(&leaderFrom, "from", "", "read half-innings from this CSV instead of the database")
	leaderboardCmd.Flags().StringVar(&leaderWhere, "where", "", "CEL filter applied to half-innings before summarizing")
	leaderboardCmd.Flags().IntVar(&leaderMinGames, "min-games", -1, "minimum first innings (default: leaderboard.min_games)")
	leaderboardCmd.Flags().IntVar(&leaderLimit, "limit", -1, "rows to show, 0 for all (default: leaderboard.limit)")
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	started := time.Now()
	minGames, limit := leaderMinGames, leaderLimit
	if minGames < 0 {
		minGames = cfg.Leaderboard.MinGames
	}
	if limit < 0 {
		limit = cfg.Leaderboard.Limit
	}

	filter, err := query.Compile(leaderWhere)
	if err != nil {
		return err
	}

	src, closer, err := openSource(leaderFrom)
	if err != nil {
		return err
	}
	defer closer.Close()

	records, err := src.AllHalfInnings()
	if err != nil {
		return err
	}
	board := summary.Leaderboard(filter.Apply(records), minGames)

	m := metrics.New()
	m.SummariesComputed.Add(float64(len(board)))
	finishMetrics(m, started)

	if len(board) == 0 {
		fmt.Fprintf(os.Stdout, "No pitchers with at least %d first innings.\n", minGames)
		return nil
	}
	total := len(board)
	if limit > 0 && limit < total {
		board = board[:limit]
	}
	report.PrintLeaderboard(os.Stdout, board)
	fmt.Fprintf(os.Stdout, "\n(%d of %d pitchers, min %d first innings)\n", len(board), total, minGames)
	return nil
}

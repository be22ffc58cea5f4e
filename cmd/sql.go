package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/nrfi-metrics/internal/report"
)

var sqlCSV bool

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  half_innings(game_pk, half 'Top'|'Bot', game_date, player_name, pitcher, home_team,
    away_team, p_throws, fielding_team, hitting_team, launch_speed, xwoba, xba,
    home_score, away_score, hitting_runs, delta_run_exp, barrel,
    <one INTEGER column per event label: strikeout, single, "double", walk, ...>,
    hits, outs, walks, xbh, avg, slg, obp, ops, whip, era, games_played, hr9)
  ingest_runs(id, source, start_date, end_date, events_read, events_kept,
    half_innings_written, created_at)

Missing values are NULL. Quote "double" since it is also a type name:
  nrfi sql 'SELECT player_name, SUM("double") FROM half_innings GROUP BY 1'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func init() {
	sqlCmd.Flags().BoolVar(&sqlCSV, "csv", false, "print CSV instead of a table")
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if sqlCSV {
		w := csv.NewWriter(os.Stdout)
		_ = w.Write(cols)
		_ = w.WriteAll(rows)
		return w.Error()
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}
	report.PrintQueryResult(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}

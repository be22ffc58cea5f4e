package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/nrfi-metrics/internal/report"
)

var pitchersMinGames int

var pitchersCmd = &cobra.Command{
	Use:   "pitchers",
	Short: "List stored pitchers and their first-inning sample size",
	Args:  cobra.NoArgs,
	RunE:  runPitchers,
}

func init() {
	pitchersCmd.Flags().IntVar(&pitchersMinGames, "min-games", 1, "only list pitchers with at least this many first innings")
}

func runPitchers(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	pitchers, err := db.ListPitchers(pitchersMinGames)
	if err != nil {
		return err
	}
	if len(pitchers) == 0 {
		fmt.Println("No pitchers stored yet. Run 'nrfi fetch' or 'nrfi aggregate' first.")
		return nil
	}
	report.PrintPitcherList(os.Stdout, pitchers)
	return nil
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/nrfi-metrics/internal/query"
	"github.com/pable/nrfi-metrics/internal/report"
)

var (
	inningsFrom  string
	inningsWhere string
)

var inningsCmd = &cobra.Command{
	Use:   "innings <name>",
	Short: "Show a pitcher's first innings in date order",
	Long: `List every stored first inning for a pitcher, oldest first.

--where takes a CEL expression over the record columns, for example:
  nrfi innings "Snell, Blake" --where 'hitting_runs > 0.0'
  nrfi innings "Snell, Blake" --where 'strikeout >= 2 && hitting_team == "LAD"'`,
	Args: cobra.ExactArgs(1),
	RunE: runInnings,
}

func init() {
	inningsCmd.Flags().StringVar(&inningsFrom, "from", "", "read half-innings from this CSV instead of the database")
	inningsCmd.Flags().StringVar(&inningsWhere, "where", "", "CEL filter over record columns")
}

func runInnings(cmd *cobra.Command, args []string) error {
	filter, err := query.Compile(inningsWhere)
	if err != nil {
		return err
	}

	src, closer, err := openSource(inningsFrom)
	if err != nil {
		return err
	}
	defer closer.Close()

	records, err := src.HalfInningsForPitcher(args[0])
	if err != nil {
		return err
	}
	records = filter.Apply(records)
	if len(records) == 0 {
		fmt.Fprintf(os.Stdout, "No first innings for %q.\n", args[0])
		return nil
	}
	report.PrintInningsTable(os.Stdout, records)
	fmt.Fprintf(os.Stdout, "\n(%d innings)\n", len(records))
	return nil
}
